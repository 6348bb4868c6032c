// Package oauth builds sign-in URLs for the hosted OAuth broker.
package oauth

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"
	mathrand "math/rand"
	"net/url"
	"strings"
)

const (
	// DefaultBrokerURL is the broker's initiate endpoint.
	DefaultBrokerURL = "https://oauth.lovable.app/initiate"

	// FallbackProjectID is sent when neither the caller nor the environment names a project.
	FallbackProjectID = "caloriespot"

	stateBytes = 16
)

// Initiate is a built sign-in URL together with the state it carries.
type Initiate struct {
	URL   string
	State string
}

// Builder assembles broker initiate URLs.
type Builder struct {
	brokerURL    string
	envProjectID string
	random       io.Reader
}

// NewBuilder returns a Builder for brokerURL. An empty brokerURL selects DefaultBrokerURL.
// envProjectID is the configured project id used when a call does not pass one.
func NewBuilder(brokerURL, envProjectID string) *Builder {
	if strings.TrimSpace(brokerURL) == "" {
		brokerURL = DefaultBrokerURL
	}
	return &Builder{
		brokerURL:    brokerURL,
		envProjectID: strings.TrimSpace(envProjectID),
		random:       rand.Reader,
	}
}

// BuildInitiateURL returns the broker URL for provider. It cannot fail.
func (b *Builder) BuildInitiateURL(provider, redirectURI, projectID string) string {
	return b.BuildInitiate(provider, redirectURI, projectID).URL
}

// BuildInitiate is BuildInitiateURL that also returns the generated state,
// so a callback listener can verify it.
func (b *Builder) BuildInitiate(provider, redirectURI, projectID string) Initiate {
	state := b.newState()

	q := url.Values{}
	q.Set("provider", provider)
	q.Set("redirect_uri", redirectURI)
	q.Set("project_id", b.projectID(projectID))
	q.Set("state", state)

	u, err := url.Parse(b.brokerURL)
	if err != nil {
		return Initiate{URL: b.brokerURL + "?" + q.Encode(), State: state}
	}
	existing := u.Query()
	for k, v := range q {
		existing[k] = v
	}
	u.RawQuery = existing.Encode()

	return Initiate{URL: u.String(), State: state}
}

func (b *Builder) projectID(explicit string) string {
	if p := strings.TrimSpace(explicit); p != "" {
		return p
	}
	if b.envProjectID != "" {
		return b.envProjectID
	}
	return FallbackProjectID
}

// newState returns 32 hex characters. When the secure source fails the weaker
// math/rand generator is used instead.
func (b *Builder) newState() string {
	buf := make([]byte, stateBytes)
	if b.random != nil {
		if _, err := io.ReadFull(b.random, buf); err == nil {
			return hex.EncodeToString(buf)
		}
	}
	return fmt.Sprintf("%016x%016x", mathrand.Uint64(), mathrand.Uint64())
}
