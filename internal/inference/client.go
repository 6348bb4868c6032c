// Package inference calls the hosted identify-car function.
package inference

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/franknunes1612/saralucasacademy-sub002/internal/model"
)

const identifyCarFunction = "identify-car"

// TokenSource supplies the signed-in user's access token.
type TokenSource interface {
	AccessToken(ctx context.Context) (string, error)
}

var _ model.Identifier = (*Client)(nil)

// Client issues one request per call. It sets no timeout of its own; callers bound work through ctx
// or a configured HTTPClient.
type Client struct {
	BaseURL    string
	AnonKey    string
	HTTPClient *http.Client
	Tokens     TokenSource
	Now        func() time.Time
}

type identifyRequest struct {
	Image string `json:"image"`
}

type identifyResponse struct {
	Make            *string      `json:"make"`
	Model           *string      `json:"model"`
	Year            lenientInt   `json:"year"`
	SpotScore       lenientInt   `json:"spotScore"`
	ConfidenceScore lenientFloat `json:"confidenceScore"`
	Confidence      *string      `json:"confidence"`
	Disclaimer      string       `json:"disclaimer"`
	IdentifiedAt    lenientTime  `json:"identifiedAt"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// Identify posts the base64 image to identify-car and normalises every outcome into a Result.
func (c *Client) Identify(ctx context.Context, imageBase64 string) model.Result[model.CarIdentification] {
	if strings.TrimSpace(imageBase64) == "" {
		return model.Fail[model.CarIdentification](model.KindValidation, "image is empty", nil)
	}

	payload, err := json.Marshal(identifyRequest{Image: imageBase64})
	if err != nil {
		return model.Fail[model.CarIdentification](model.KindUnexpected, "marshal identify payload", err)
	}

	url := fmt.Sprintf("%s/%s", strings.TrimRight(strings.TrimSpace(c.BaseURL), "/"), identifyCarFunction)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return model.Fail[model.CarIdentification](model.KindUnexpected, "create identify request", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.AnonKey != "" {
		req.Header.Set("apikey", c.AnonKey)
	}
	if bearer := c.bearer(ctx); bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	resp, err := c.httpClient().Do(req)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return model.Fail[model.CarIdentification](model.KindTransport, "identify request cancelled", err)
		}
		return model.Fail[model.CarIdentification](model.KindTransport, "execute identify request", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return model.Fail[model.CarIdentification](model.KindTransport, "read identify response", err)
	}

	var remoteErr errorResponse
	if json.Unmarshal(body, &remoteErr) == nil && strings.TrimSpace(remoteErr.Error) != "" {
		return model.Fail[model.CarIdentification](model.KindRemote, strings.TrimSpace(remoteErr.Error), nil)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return model.Fail[model.CarIdentification](model.KindRemote,
			fmt.Sprintf("identify-car failed with status %d", resp.StatusCode), nil)
	}

	var parsed identifyResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return model.Fail[model.CarIdentification](model.KindDecode, "decode identify response", err)
	}

	return model.Ok(c.toIdentification(parsed))
}

func (c *Client) toIdentification(r identifyResponse) model.CarIdentification {
	out := model.CarIdentification{
		Make:            trimmed(r.Make),
		Model:           trimmed(r.Model),
		Year:            r.Year.v,
		SpotScore:       r.SpotScore.v,
		ConfidenceScore: r.ConfidenceScore.v,
		Disclaimer:      strings.TrimSpace(r.Disclaimer),
	}
	if r.Confidence != nil {
		out.Confidence = model.ParseConfidence(strings.ToLower(strings.TrimSpace(*r.Confidence)))
	}
	if out.Disclaimer == "" {
		out.Disclaimer = model.DefaultDisclaimer
	}
	if r.IdentifiedAt.v != nil {
		out.IdentifiedAt = *r.IdentifiedAt.v
	} else {
		out.IdentifiedAt = c.now()
	}
	return out
}

func (c *Client) bearer(ctx context.Context) string {
	if c.Tokens != nil {
		if token, err := c.Tokens.AccessToken(ctx); err == nil && token != "" {
			return token
		}
	}
	return c.AnonKey
}

func (c *Client) httpClient() *http.Client {
	if c.HTTPClient != nil {
		return c.HTTPClient
	}
	return http.DefaultClient
}

func (c *Client) now() time.Time {
	if c.Now != nil {
		return c.Now()
	}
	return time.Now()
}

func trimmed(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}
