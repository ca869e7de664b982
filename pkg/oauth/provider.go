package oauth

import (
	"log/slog"
	"strings"

	"github.com/getmockd/echoidp/pkg/logging"
	"github.com/getmockd/echoidp/pkg/token"
)

// Recorder receives one observation per issued token and per introspection.
// metrics.Collector satisfies it.
type Recorder interface {
	TokenIssued(responseType string)
	TokenIntrospected(active bool)
}

type nopRecorder struct{}

func (nopRecorder) TokenIssued(string)     {}
func (nopRecorder) TokenIntrospected(bool) {}

// Provider answers discovery, authorization and introspection requests.
// It holds only immutable state and is safe for concurrent use.
type Provider struct {
	endpoints EndpointSet
	log       *slog.Logger
	recorder  Recorder
}

// Option configures a Provider.
type Option func(*Provider)

// WithLogger sets the provider logger.
func WithLogger(log *slog.Logger) Option {
	return func(p *Provider) {
		if log != nil {
			p.log = log
		}
	}
}

// WithRecorder sets the observer notified of issued and introspected tokens.
func WithRecorder(r Recorder) Option {
	return func(p *Provider) {
		if r != nil {
			p.recorder = r
		}
	}
}

// NewEndpointSet builds the discovery document for host. Trailing slashes on
// host are dropped so "http://x/" and "http://x" produce the same URLs.
func NewEndpointSet(host string) EndpointSet {
	base := strings.TrimRight(host, "/")
	return EndpointSet{
		AuthorizationEndpoint: base + PathAuthorize,
		IntrospectionEndpoint: base + PathIntrospect,
		TokenEndpoint:         base + PathToken,
	}
}

// NewProvider creates a provider advertising endpoints under host.
func NewProvider(host string, opts ...Option) *Provider {
	p := &Provider{
		endpoints: NewEndpointSet(host),
		log:       logging.Nop(),
		recorder:  nopRecorder{},
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Discovery returns the endpoint set computed at construction.
func (p *Provider) Discovery() EndpointSet {
	return p.endpoints
}

// Authorize wraps body into a token and returns it under responseType, or
// under DefaultResponseType when responseType is empty. A nil body is encoded
// as an empty object.
//
// The same behavior backs both the authorization and the token endpoint,
// whatever grant type or flow the body describes.
func (p *Provider) Authorize(body map[string]any, responseType string) (map[string]string, error) {
	key := responseType
	if key == "" {
		key = DefaultResponseType
	}
	if body == nil {
		body = map[string]any{}
	}

	tok, err := token.Encode(body)
	if err != nil {
		return nil, err
	}

	p.recorder.TokenIssued(key)
	p.log.Debug("issued token", "response_type", key, "claims", len(body))
	return map[string]string{key: tok}, nil
}

// Introspect decodes the token field of body.
//
// On success the result is {"active": true} overlaid with the decoded claims,
// so a decoded "active" key wins. A payload that decodes to something other
// than a JSON object contributes no fields. Any failure (missing or
// non-string token, bad base64, bad JSON) yields exactly {"active": false}.
func (p *Provider) Introspect(body map[string]any) map[string]any {
	raw, _ := body[FieldToken].(string)
	if raw == "" {
		p.recorder.TokenIntrospected(false)
		p.log.Debug("introspection without token")
		return inactive()
	}

	decoded, err := token.Decode(raw)
	if err != nil {
		p.recorder.TokenIntrospected(false)
		p.log.Debug("introspection of malformed token", "error", err)
		return inactive()
	}

	resp := map[string]any{FieldActive: true}
	if claims, ok := decoded.(map[string]any); ok {
		for k, v := range claims {
			resp[k] = v
		}
	}

	active, _ := resp[FieldActive].(bool)
	p.recorder.TokenIntrospected(active)
	p.log.Debug("introspected token", "active", resp[FieldActive])
	return resp
}

func inactive() map[string]any {
	return map[string]any{FieldActive: false}
}
