package oauth

// EndpointSet is the discovery document served at
// /.well-known/openid-configuration.
type EndpointSet struct {
	AuthorizationEndpoint string `json:"authorization_endpoint"`
	IntrospectionEndpoint string `json:"introspection_endpoint"`
	TokenEndpoint         string `json:"token_endpoint"`
}

// Endpoint paths, relative to the configured host.
const (
	PathDiscovery  = "/.well-known/openid-configuration"
	PathAuthorize  = "/authorize"
	PathToken      = "/token"
	PathIntrospect = "/introspect"
)

// DefaultResponseType is the response key used when the caller does not pass
// a response_type query parameter.
const DefaultResponseType = "id_token"

// Request field and query parameter names.
const (
	ParamResponseType = "response_type"
	FieldToken        = "token"
	FieldActive       = "active"
)

// Standard OAuth error codes
const (
	ErrInvalidRequest = "invalid_request"
	ErrServerError    = "server_error"
)
