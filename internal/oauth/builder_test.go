package oauth

import (
	"errors"
	"net/url"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var hexState = regexp.MustCompile(`^[0-9a-f]{32}$`)

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("entropy unavailable") }

func parseQuery(t *testing.T, raw string) url.Values {
	t.Helper()
	u, err := url.Parse(raw)
	require.NoError(t, err)
	return u.Query()
}

func TestBuilder_BuildInitiateURL(t *testing.T) {
	b := NewBuilder("", "")

	got := b.BuildInitiateURL("google", "https://app/x", "")

	assert.True(t, strings.HasPrefix(got, DefaultBrokerURL+"?"), got)
	assert.Contains(t, got, "provider=google")
	assert.Contains(t, got, "redirect_uri=https%3A%2F%2Fapp%2Fx")
	assert.Contains(t, got, "project_id=")

	q := parseQuery(t, got)
	assert.Equal(t, "google", q.Get("provider"))
	assert.Equal(t, "https://app/x", q.Get("redirect_uri"))
	assert.Equal(t, FallbackProjectID, q.Get("project_id"))
	assert.Regexp(t, hexState, q.Get("state"))
}

func TestBuilder_StateDiffersPerCall(t *testing.T) {
	b := NewBuilder("", "")

	seen := make(map[string]struct{})
	for i := 0; i < 100; i++ {
		in := b.BuildInitiate("apple", "https://app/x", "")
		require.Regexp(t, hexState, in.State)
		assert.Equal(t, in.State, parseQuery(t, in.URL).Get("state"))

		_, dup := seen[in.State]
		require.False(t, dup, "state repeated: %s", in.State)
		seen[in.State] = struct{}{}
	}
}

func TestBuilder_FallbackRandomSource(t *testing.T) {
	b := NewBuilder("", "")
	b.random = failingReader{}

	first := b.BuildInitiate("google", "https://app/x", "")
	second := b.BuildInitiate("google", "https://app/x", "")

	assert.Regexp(t, hexState, first.State)
	assert.Regexp(t, hexState, second.State)
	assert.NotEqual(t, first.State, second.State)

	b.random = nil
	assert.Regexp(t, hexState, b.BuildInitiate("google", "https://app/x", "").State)
}

func TestBuilder_ProjectID(t *testing.T) {
	tests := []struct {
		name     string
		env      string
		explicit string
		want     string
	}{
		{name: "explicit wins", env: "env-project", explicit: "explicit-project", want: "explicit-project"},
		{name: "environment", env: "env-project", want: "env-project"},
		{name: "fallback", want: FallbackProjectID},
		{name: "blank explicit", env: " ", explicit: "  ", want: FallbackProjectID},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := NewBuilder("", tt.env)
			q := parseQuery(t, b.BuildInitiateURL("google", "https://app/x", tt.explicit))
			assert.Equal(t, tt.want, q.Get("project_id"))
		})
	}
}

func TestBuilder_CustomBroker(t *testing.T) {
	b := NewBuilder("http://127.0.0.1:9999/oauth/initiate?tenant=dev", "")

	got := b.BuildInitiateURL("google", "http://127.0.0.1:8765/callback", "p")

	assert.True(t, strings.HasPrefix(got, "http://127.0.0.1:9999/oauth/initiate?"), got)
	q := parseQuery(t, got)
	assert.Equal(t, "dev", q.Get("tenant"))
	assert.Equal(t, "p", q.Get("project_id"))
	assert.Equal(t, "http://127.0.0.1:8765/callback", q.Get("redirect_uri"))
}
