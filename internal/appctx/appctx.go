// Package appctx holds the process-wide shared state: one reusable HTTP
// client and the current bearer token. The token is the only field mutated
// after initialization and only the auth controller's success paths write
// it.
package appctx

import (
	"net/http"
	"sync"
	"time"

	"github.com/J-x-Z/native-hub/internal/constants"
)

// Context is the shared handle injected into every work unit at spawn
// time. It is safe for concurrent use.
type Context struct {
	// HTTPClient is reused for every request the process makes, with a
	// fixed User-Agent applied by its transport.
	HTTPClient *http.Client

	mu    sync.RWMutex
	token string
	gen   uint64
}

// userAgentTransport stamps the fixed User-Agent on outgoing requests.
type userAgentTransport struct {
	base http.RoundTripper
}

func (t *userAgentTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if req.Header.Get("User-Agent") == "" {
		req = req.Clone(req.Context())
		req.Header.Set("User-Agent", constants.UserAgent)
	}
	return t.base.RoundTrip(req)
}

// New creates the shared context. Called once at startup.
func New() *Context {
	return &Context{
		HTTPClient: &http.Client{
			Timeout:   30 * time.Second,
			Transport: &userAgentTransport{base: http.DefaultTransport},
		},
	}
}

// Token returns the current bearer token, or "" when unauthenticated.
func (c *Context) Token() (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token, c.token != ""
}

// LoginGeneration snapshots the write generation at the start of a login
// attempt. Pass it to SetToken so an abandoned attempt that finishes late
// cannot overwrite a more recent success.
func (c *Context) LoginGeneration() uint64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.gen
}

// SetToken installs a token obtained by a login attempt that started at
// generation startGen. It reports false, leaving the current token in
// place, when a newer success already landed.
func (c *Context) SetToken(token string, startGen uint64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.gen != startGen {
		return false
	}
	c.token = token
	c.gen++
	return true
}

// SeedToken installs a token loaded from the credential store at startup,
// before any login attempt can be running.
func (c *Context) SeedToken(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if token != "" {
		c.token = token
		c.gen++
	}
}
