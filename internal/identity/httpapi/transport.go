package httpapi

import (
	"net/http"
	"sync"

	"golang.org/x/oauth2"
)

// BearerTransport wraps an http.RoundTripper to add the Authorization header
// from a token source. Requests go out without the header while the source
// has no token.
type BearerTransport struct {
	Base http.RoundTripper

	mu     sync.RWMutex
	source oauth2.TokenSource
}

// NewBearerTransport creates a BearerTransport. A nil base means http.DefaultTransport.
func NewBearerTransport(base http.RoundTripper, source oauth2.TokenSource) *BearerTransport {
	return &BearerTransport{Base: base, source: source}
}

// SetSource replaces the token source.
func (t *BearerTransport) SetSource(source oauth2.TokenSource) {
	t.mu.Lock()
	t.source = source
	t.mu.Unlock()
}

// RoundTrip implements http.RoundTripper.
func (t *BearerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	t.mu.RLock()
	source := t.source
	t.mu.RUnlock()

	if source != nil {
		if tok, err := source.Token(); err == nil && tok != nil && tok.AccessToken != "" {
			// clone so the caller's request is not mutated
			req2 := req.Clone(req.Context())
			tok.SetAuthHeader(req2)
			req = req2
		}
	}

	base := t.Base
	if base == nil {
		base = http.DefaultTransport
	}

	return base.RoundTrip(req)
}
