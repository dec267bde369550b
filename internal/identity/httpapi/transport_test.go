package httpapi

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

type tokenSourceFunc func() (*oauth2.Token, error)

func (f tokenSourceFunc) Token() (*oauth2.Token, error) { return f() }

func TestBearerTransport(t *testing.T) {
	var got string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Get("Authorization")
	}))
	t.Cleanup(srv.Close)

	tests := []struct {
		name   string
		source oauth2.TokenSource
		want   string
	}{
		{name: "no source", source: nil, want: ""},
		{
			name:   "token",
			source: oauth2.StaticTokenSource(&oauth2.Token{AccessToken: "abc", TokenType: "Bearer"}),
			want:   "Bearer abc",
		},
		{
			name:   "source error",
			source: tokenSourceFunc(func() (*oauth2.Token, error) { return nil, errors.New("no token") }),
			want:   "",
		},
		{
			name:   "empty token",
			source: tokenSourceFunc(func() (*oauth2.Token, error) { return &oauth2.Token{}, nil }),
			want:   "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got = ""
			transport := NewBearerTransport(nil, tt.source)
			client := &http.Client{Transport: transport}

			req, err := http.NewRequest(http.MethodGet, srv.URL, nil)
			require.NoError(t, err)

			resp, err := client.Do(req)
			require.NoError(t, err)
			resp.Body.Close()

			assert.Equal(t, tt.want, got)
			assert.Empty(t, req.Header.Get("Authorization"))
		})
	}
}
