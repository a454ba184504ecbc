package probe

import (
	"net/http"
	"time"

	"github.com/savantlab/savantlab/internal/config"
)

// authRoundTripper injects authentication headers into every outgoing request.
type authRoundTripper struct {
	base http.RoundTripper
	auth config.AuthConfig
}

func (t *authRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	switch t.auth.Mode {
	case "bearer":
		req = req.Clone(req.Context())
		req.Header.Set("Authorization", "Bearer "+t.auth.Token())
	case "apikey":
		req = req.Clone(req.Context())
		req.Header.Set(t.auth.Header, t.auth.Key())
	case "basic":
		req = req.Clone(req.Context())
		req.SetBasicAuth(t.auth.Username, t.auth.Password())
	}
	return t.base.RoundTrip(req)
}

// NewClient constructs an http.Client for the lab's auth settings with the
// per-request timeout applied. The client is built once and reused across
// the whole run.
func NewClient(auth config.AuthConfig, timeout time.Duration) *http.Client {
	return &http.Client{
		Transport: &authRoundTripper{base: http.DefaultTransport, auth: auth},
		Timeout:   timeout,
	}
}
