package oauth

import (
	"encoding/json"
	"reflect"
	"sync"
	"testing"

	"github.com/getmockd/echoidp/pkg/token"
)

type countingRecorder struct {
	mu       sync.Mutex
	issued   map[string]int
	active   int
	inactive int
}

func newCountingRecorder() *countingRecorder {
	return &countingRecorder{issued: make(map[string]int)}
}

func (c *countingRecorder) TokenIssued(responseType string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.issued[responseType]++
}

func (c *countingRecorder) TokenIntrospected(active bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if active {
		c.active++
	} else {
		c.inactive++
	}
}

func mustEncode(t *testing.T, v any) string {
	t.Helper()
	tok, err := token.Encode(v)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	return tok
}

func TestNewEndpointSet(t *testing.T) {
	t.Run("builds urls from host", func(t *testing.T) {
		got := NewEndpointSet("http://example.test")
		want := EndpointSet{
			AuthorizationEndpoint: "http://example.test/authorize",
			IntrospectionEndpoint: "http://example.test/introspect",
			TokenEndpoint:         "http://example.test/token",
		}
		if got != want {
			t.Errorf("NewEndpointSet() = %+v, want %+v", got, want)
		}
	})

	t.Run("trims trailing slashes", func(t *testing.T) {
		got := NewEndpointSet("http://example.test//")
		if got.TokenEndpoint != "http://example.test/token" {
			t.Errorf("expected trailing slashes to be trimmed, got %s", got.TokenEndpoint)
		}
	})

	t.Run("keeps path prefix", func(t *testing.T) {
		got := NewEndpointSet("https://idp.example.test/tenant-a")
		if got.AuthorizationEndpoint != "https://idp.example.test/tenant-a/authorize" {
			t.Errorf("unexpected authorization endpoint %s", got.AuthorizationEndpoint)
		}
	})
}

func TestProvider_Discovery(t *testing.T) {
	p := NewProvider("http://example.test")

	first := p.Discovery()
	second := p.Discovery()
	if first != second {
		t.Errorf("discovery is not idempotent: %+v != %+v", first, second)
	}
	if first.IntrospectionEndpoint != "http://example.test/introspect" {
		t.Errorf("unexpected introspection endpoint %s", first.IntrospectionEndpoint)
	}
}

func TestProvider_Authorize(t *testing.T) {
	t.Run("default response type", func(t *testing.T) {
		p := NewProvider("http://example.test")

		resp, err := p.Authorize(map[string]any{"a": 1}, "")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(resp) != 1 {
			t.Fatalf("expected exactly one key, got %v", resp)
		}
		tok, ok := resp["id_token"]
		if !ok {
			t.Fatalf("expected id_token key, got %v", resp)
		}
		claims, err := token.DecodeClaims(tok)
		if err != nil {
			t.Fatalf("decode: %v", err)
		}
		if claims["a"] != json.Number("1") {
			t.Errorf("expected a=1, got %v", claims["a"])
		}
	})

	t.Run("custom response type", func(t *testing.T) {
		p := NewProvider("http://example.test")

		resp, err := p.Authorize(map[string]any{"a": 1}, "access_token")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if _, ok := resp["access_token"]; !ok {
			t.Fatalf("expected access_token key, got %v", resp)
		}
		if _, ok := resp["id_token"]; ok {
			t.Error("did not expect id_token key")
		}
	})

	t.Run("nil body encodes empty object", func(t *testing.T) {
		p := NewProvider("http://example.test")

		resp, err := p.Authorize(nil, "")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if resp["id_token"] != "e30=" {
			t.Errorf("expected token of {}, got %q", resp["id_token"])
		}
	})

	t.Run("deterministic", func(t *testing.T) {
		p := NewProvider("http://example.test")
		body := map[string]any{"sub": "u1", "roles": []any{"a", "b"}}

		first, _ := p.Authorize(body, "")
		second, _ := p.Authorize(body, "")
		if !reflect.DeepEqual(first, second) {
			t.Errorf("expected equal responses, got %v and %v", first, second)
		}
	})

	t.Run("records issued tokens", func(t *testing.T) {
		rec := newCountingRecorder()
		p := NewProvider("http://example.test", WithRecorder(rec))

		_, _ = p.Authorize(map[string]any{}, "")
		_, _ = p.Authorize(map[string]any{}, "code")
		_, _ = p.Authorize(map[string]any{}, "code")

		if rec.issued["id_token"] != 1 || rec.issued["code"] != 2 {
			t.Errorf("unexpected issue counts %v", rec.issued)
		}
	})
}

func TestProvider_Introspect(t *testing.T) {
	p := NewProvider("http://example.test")

	tests := []struct {
		name string
		body map[string]any
		want map[string]any
	}{
		{
			name: "valid token",
			body: map[string]any{"token": mustEncode(t, map[string]any{"sub": "u1", "exp": 9999999999})},
			want: map[string]any{"active": true, "sub": "u1", "exp": json.Number("9999999999")},
		},
		{
			name: "decoded active overrides",
			body: map[string]any{"token": mustEncode(t, map[string]any{"active": false, "sub": "x"})},
			want: map[string]any{"active": false, "sub": "x"},
		},
		{
			name: "non-object payload",
			body: map[string]any{"token": mustEncode(t, []any{1, 2})},
			want: map[string]any{"active": true},
		},
		{
			name: "scalar payload",
			body: map[string]any{"token": mustEncode(t, "hello")},
			want: map[string]any{"active": true},
		},
		{
			name: "null payload",
			body: map[string]any{"token": mustEncode(t, nil)},
			want: map[string]any{"active": true},
		},
		{
			name: "invalid token",
			body: map[string]any{"token": "not-a-valid-token"},
			want: map[string]any{"active": false},
		},
		{
			name: "missing token",
			body: map[string]any{},
			want: map[string]any{"active": false},
		},
		{
			name: "nil body",
			body: nil,
			want: map[string]any{"active": false},
		},
		{
			name: "non-string token",
			body: map[string]any{"token": json.Number("42")},
			want: map[string]any{"active": false},
		},
		{
			name: "empty token",
			body: map[string]any{"token": ""},
			want: map[string]any{"active": false},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := p.Introspect(tt.body)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Introspect() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestProvider_IntrospectRecords(t *testing.T) {
	rec := newCountingRecorder()
	p := NewProvider("http://example.test", WithRecorder(rec))

	p.Introspect(map[string]any{"token": mustEncode(t, map[string]any{"sub": "u1"})})
	p.Introspect(map[string]any{"token": mustEncode(t, map[string]any{"active": false})})
	p.Introspect(map[string]any{"token": "garbage"})

	if rec.active != 1 || rec.inactive != 2 {
		t.Errorf("expected 1 active and 2 inactive, got %d and %d", rec.active, rec.inactive)
	}
}

func TestProvider_ConcurrentUse(t *testing.T) {
	p := NewProvider("http://example.test", WithRecorder(newCountingRecorder()))

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			resp, err := p.Authorize(map[string]any{"n": i}, "")
			if err != nil {
				t.Errorf("authorize: %v", err)
				return
			}
			got := p.Introspect(map[string]any{"token": resp["id_token"]})
			if got["active"] != true {
				t.Errorf("expected active token, got %v", got)
			}
		}(i)
	}
	wg.Wait()
}
