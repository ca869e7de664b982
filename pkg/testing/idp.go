package testing

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"

	"github.com/getmockd/echoidp/pkg/config"
	"github.com/getmockd/echoidp/pkg/oauth"
	"github.com/getmockd/echoidp/pkg/server"
	"github.com/getmockd/echoidp/pkg/token"
)

// IDP is a running echoidp bound to a test.
type IDP struct {
	t       testing.TB
	server  *server.Server
	httpSrv *httptest.Server

	mu       sync.RWMutex
	requests []RequestLog
}

// Option customizes the configuration of an IDP before it starts.
type Option func(*config.Config)

// WithMetrics enables the /metrics endpoint, which is off by default in tests.
func WithMetrics() Option {
	return func(c *config.Config) {
		c.Metrics = true
	}
}

// New starts a provider on a random local port. Host is set to the server
// URL so discovery advertises reachable endpoints. The server is closed when
// the test completes.
func New(t testing.TB, opts ...Option) *IDP {
	t.Helper()

	idp := &IDP{t: t}
	idp.httpSrv = httptest.NewUnstartedServer(nil)

	cfg := *config.NewDefault()
	cfg.Host = "http://" + idp.httpSrv.Listener.Addr().String()
	cfg.Metrics = false
	for _, opt := range opts {
		opt(&cfg)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("invalid echoidp test configuration: %v", err)
	}

	idp.server = server.New(cfg)
	idp.httpSrv.Config.Handler = idp.record(idp.server.Handler())
	idp.httpSrv.Start()
	t.Cleanup(idp.Close)

	return idp
}

// record captures each request before handing it to h.
func (p *IDP) record(h http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body []byte
		if r.Body != nil {
			body, _ = io.ReadAll(r.Body)
			r.Body = io.NopCloser(bytes.NewReader(body))
		}

		headers := make(map[string]string, len(r.Header))
		for k, v := range r.Header {
			if len(v) > 0 {
				headers[k] = v[0]
			}
		}

		p.mu.Lock()
		p.requests = append(p.requests, RequestLog{
			Method:      r.Method,
			Path:        r.URL.Path,
			Headers:     headers,
			Body:        string(body),
			QueryString: r.URL.RawQuery,
		})
		p.mu.Unlock()

		h.ServeHTTP(w, r)
	})
}

// Close stops the server. It is safe to call more than once.
func (p *IDP) Close() {
	p.httpSrv.Close()
}

// URL returns the base URL of the provider.
func (p *IDP) URL() string {
	return p.httpSrv.URL
}

// DiscoveryURL returns the URL of the OpenID configuration document.
func (p *IDP) DiscoveryURL() string {
	return p.httpSrv.URL + oauth.PathDiscovery
}

// Endpoints returns the endpoint set the provider advertises.
func (p *IDP) Endpoints() oauth.EndpointSet {
	return p.server.Provider().Discovery()
}

// Client returns an http.Client configured for the provider.
func (p *IDP) Client() *http.Client {
	return p.httpSrv.Client()
}

// MustToken encodes claims the same way the provider does, without a request.
func (p *IDP) MustToken(claims any) string {
	p.t.Helper()

	tok, err := token.Encode(claims)
	if err != nil {
		p.t.Fatalf("encode token: %v", err)
	}
	return tok
}

// Token requests a token from the token endpoint and returns the value under
// id_token.
func (p *IDP) Token(claims map[string]any) string {
	p.t.Helper()

	var resp map[string]string
	p.postJSON(oauth.PathToken, claims, &resp)
	tok, ok := resp[oauth.DefaultResponseType]
	if !ok {
		p.t.Fatalf("token response has no %s: %v", oauth.DefaultResponseType, resp)
	}
	return tok
}

// Introspect asks the provider to introspect tok.
func (p *IDP) Introspect(tok string) map[string]any {
	p.t.Helper()

	var resp map[string]any
	p.postJSON(oauth.PathIntrospect, map[string]any{oauth.FieldToken: tok}, &resp)
	return resp
}

func (p *IDP) postJSON(path string, body, out any) {
	p.t.Helper()

	data, err := json.Marshal(body)
	if err != nil {
		p.t.Fatalf("marshal request: %v", err)
	}
	resp, err := p.Client().Post(p.httpSrv.URL+path, "application/json", bytes.NewReader(data))
	if err != nil {
		p.t.Fatalf("POST %s: %v", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(resp.Body)
		p.t.Fatalf("POST %s: status %d: %s", path, resp.StatusCode, b)
	}
	dec := json.NewDecoder(resp.Body)
	dec.UseNumber()
	if err := dec.Decode(out); err != nil {
		p.t.Fatalf("decode %s response: %v", path, err)
	}
}

// Requests returns the recorded requests, oldest first.
func (p *IDP) Requests() []RequestLog {
	p.mu.RLock()
	defer p.mu.RUnlock()

	out := make([]RequestLog, len(p.requests))
	copy(out, p.requests)
	return out
}

// Reset clears the recorded requests.
func (p *IDP) Reset() {
	p.mu.Lock()
	p.requests = nil
	p.mu.Unlock()
}

// AssertCalled asserts that an endpoint was called at least once.
func (p *IDP) AssertCalled(t testing.TB, method, path string) {
	t.Helper()

	if p.countCalls(method, path) == 0 {
		t.Errorf("expected %s %s to be called, but it was not called", method, path)
	}
}

// AssertCalledTimes asserts that an endpoint was called exactly n times.
func (p *IDP) AssertCalledTimes(t testing.TB, method, path string, times int) {
	t.Helper()

	if count := p.countCalls(method, path); count != times {
		t.Errorf("expected %s %s to be called %d times, but was called %d times",
			method, path, times, count)
	}
}

// AssertNotCalled asserts that an endpoint was not called.
func (p *IDP) AssertNotCalled(t testing.TB, method, path string) {
	t.Helper()

	if count := p.countCalls(method, path); count > 0 {
		t.Errorf("expected %s %s to not be called, but it was called %d times",
			method, path, count)
	}
}

func (p *IDP) countCalls(method, path string) int {
	p.mu.RLock()
	defer p.mu.RUnlock()

	count := 0
	for _, r := range p.requests {
		if r.Method == method && r.Path == path {
			count++
		}
	}
	return count
}

// FormValue returns a form field from a url-encoded request body.
func (r *RequestLog) FormValue(key string) string {
	values, err := url.ParseQuery(r.Body)
	if err != nil {
		return ""
	}
	return values.Get(key)
}
