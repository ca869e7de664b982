package oauth

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/getmockd/echoidp/pkg/httputil"
	"github.com/getmockd/echoidp/pkg/token"
)

func newTestHandler() *Handler {
	return NewHandler(NewProvider("http://example.test"))
}

func doRequest(h http.HandlerFunc, method, target, body, contentType string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	rec := httptest.NewRecorder()
	h(rec, req)
	return rec
}

func TestHandleDiscovery(t *testing.T) {
	t.Parallel()
	h := newTestHandler()

	rec := doRequest(h.HandleDiscovery, http.MethodGet, PathDiscovery, "", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{
		"authorization_endpoint": "http://example.test/authorize",
		"introspection_endpoint": "http://example.test/introspect",
		"token_endpoint": "http://example.test/token"
	}`, rec.Body.String())
}

func TestHandleDiscovery_MethodNotAllowed(t *testing.T) {
	t.Parallel()
	h := newTestHandler()

	rec := doRequest(h.HandleDiscovery, http.MethodPost, PathDiscovery, "", "")

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	assert.Equal(t, http.MethodGet, rec.Header().Get("Allow"))
}

func TestHandleAuthorize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		target      string
		body        string
		contentType string
		wantKey     string
		wantClaims  map[string]any
	}{
		{
			name:        "json body default key",
			target:      PathAuthorize,
			body:        `{"a":1}`,
			contentType: "application/json",
			wantKey:     "id_token",
			wantClaims:  map[string]any{"a": json.Number("1")},
		},
		{
			name:        "custom response type",
			target:      PathAuthorize + "?response_type=access_token",
			body:        `{"a":1}`,
			contentType: "application/json",
			wantKey:     "access_token",
			wantClaims:  map[string]any{"a": json.Number("1")},
		},
		{
			name:        "empty response type falls back",
			target:      PathToken + "?response_type=",
			body:        `{"a":1}`,
			contentType: "application/json",
			wantKey:     "id_token",
			wantClaims:  map[string]any{"a": json.Number("1")},
		},
		{
			name:        "form body",
			target:      PathToken,
			body:        url.Values{"grant_type": {"client_credentials"}, "client_id": {"app"}}.Encode(),
			contentType: "application/x-www-form-urlencoded",
			wantKey:     "id_token",
			wantClaims:  map[string]any{"grant_type": "client_credentials", "client_id": "app"},
		},
		{
			name:       "empty body",
			target:     PathToken,
			wantKey:    "id_token",
			wantClaims: map[string]any{},
		},
		{
			name:        "response_type in body is just a claim",
			target:      PathAuthorize,
			body:        `{"response_type":"code"}`,
			contentType: "application/json",
			wantKey:     "id_token",
			wantClaims:  map[string]any{"response_type": "code"},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			h := newTestHandler()

			rec := doRequest(h.HandleAuthorize, http.MethodPost, tt.target, tt.body, tt.contentType)
			require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
			assert.Equal(t, "no-store", rec.Header().Get("Cache-Control"))

			var resp map[string]string
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			require.Len(t, resp, 1)
			tok, ok := resp[tt.wantKey]
			require.True(t, ok, "missing key %q in %v", tt.wantKey, resp)

			claims, err := token.DecodeClaims(tok)
			require.NoError(t, err)
			assert.Equal(t, tt.wantClaims, claims)
		})
	}
}

func TestHandleAuthorize_InvalidJSON(t *testing.T) {
	t.Parallel()
	h := newTestHandler()

	rec := doRequest(h.HandleAuthorize, http.MethodPost, PathAuthorize, `{"a":`, "application/json")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	var resp map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, ErrInvalidRequest, resp["error"])
}

func TestHandleAuthorize_MethodNotAllowed(t *testing.T) {
	t.Parallel()
	h := newTestHandler()

	rec := doRequest(h.HandleAuthorize, http.MethodGet, PathAuthorize, "", "")

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	assert.Equal(t, http.MethodPost, rec.Header().Get("Allow"))
}

func TestHandleAuthorize_BodyTooLarge(t *testing.T) {
	t.Parallel()
	h := newTestHandler()

	pad := strings.Repeat("a", httputil.MaxBodyBytes)
	tests := []struct {
		name        string
		handler     http.HandlerFunc
		body        string
		contentType string
	}{
		{"form authorize", h.HandleAuthorize, "sub=u1&pad=" + pad + "&role=admin", "application/x-www-form-urlencoded"},
		{"json authorize", h.HandleAuthorize, `{"sub":"u1","pad":"` + pad + `"}`, "application/json"},
		{"json introspect", h.HandleIntrospect, `{"token":"` + pad + `"}`, "application/json"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			rec := doRequest(tt.handler, http.MethodPost, PathAuthorize, tt.body, tt.contentType)

			assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
			var resp map[string]any
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.Equal(t, ErrInvalidRequest, resp["error"])
			assert.Contains(t, resp["error_description"], "request body too large")
			assert.NotContains(t, resp, "id_token")
		})
	}
}

func TestHandleIntrospect(t *testing.T) {
	t.Parallel()

	valid, err := token.Encode(map[string]any{"sub": "u1", "exp": 9999999999})
	require.NoError(t, err)

	tests := []struct {
		name        string
		body        string
		contentType string
		want        string
	}{
		{
			name:        "valid json",
			body:        `{"token":"` + valid + `"}`,
			contentType: "application/json",
			want:        `{"active":true,"sub":"u1","exp":9999999999}`,
		},
		{
			name:        "valid form",
			body:        url.Values{"token": {valid}}.Encode(),
			contentType: "application/x-www-form-urlencoded",
			want:        `{"active":true,"sub":"u1","exp":9999999999}`,
		},
		{
			name:        "invalid token",
			body:        `{"token":"not-a-valid-token"}`,
			contentType: "application/json",
			want:        `{"active":false}`,
		},
		{
			name:        "missing token",
			body:        `{}`,
			contentType: "application/json",
			want:        `{"active":false}`,
		},
		{
			name:        "non-object body",
			body:        `["` + valid + `"]`,
			contentType: "application/json",
			want:        `{"active":false}`,
		},
		{
			name: "no body",
			want: `{"active":false}`,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			h := newTestHandler()

			rec := doRequest(h.HandleIntrospect, http.MethodPost, PathIntrospect, tt.body, tt.contentType)

			assert.Equal(t, http.StatusOK, rec.Code)
			assert.JSONEq(t, tt.want, rec.Body.String())
		})
	}
}

func TestHandleIntrospect_ExactInactiveBody(t *testing.T) {
	t.Parallel()
	h := newTestHandler()

	rec := doRequest(h.HandleIntrospect, http.MethodPost, PathIntrospect, `{"token":"not-a-valid-token"}`, "application/json")

	assert.Equal(t, "{\"active\":false}\n", rec.Body.String())
}

func TestAuthorizeThenIntrospect(t *testing.T) {
	t.Parallel()
	h := newTestHandler()

	rec := doRequest(h.HandleAuthorize, http.MethodPost, PathToken+"?response_type=access_token",
		`{"sub":"u1","scope":"openid email","nested":{"ok":true}}`, "application/json")
	require.Equal(t, http.StatusOK, rec.Code)

	var issued map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &issued))

	body, err := json.Marshal(map[string]string{"token": issued["access_token"]})
	require.NoError(t, err)

	rec = doRequest(h.HandleIntrospect, http.MethodPost, PathIntrospect, string(body), "application/json")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"active":true,"sub":"u1","scope":"openid email","nested":{"ok":true}}`, rec.Body.String())
}
