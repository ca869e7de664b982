// Package oauth provides a stand-in OAuth 2.0 and OpenID Connect provider
// for exercising client integrations without a real identity provider.
//
// Nothing is authenticated or verified. The authorization and token endpoints
// echo the request body back as an opaque token (see package token), and the
// introspection endpoint reports whatever that token contains.
//
// # Endpoints
//
//   - GET  /.well-known/openid-configuration: the EndpointSet
//   - POST /authorize: {"<response_type>": "<token of the request body>"}
//   - POST /token: identical to /authorize
//   - POST /introspect: {"active": true, ...claims} or {"active": false}
//
// # Basic Usage
//
//	provider := oauth.NewProvider("http://localhost:3001")
//	handler := oauth.NewHandler(provider)
//
//	mux.HandleFunc("GET /.well-known/openid-configuration", handler.HandleDiscovery)
//	mux.HandleFunc("POST /authorize", handler.HandleAuthorize)
//	mux.HandleFunc("POST /token", handler.HandleAuthorize)
//	mux.HandleFunc("POST /introspect", handler.HandleIntrospect)
//
// # Response type
//
// The response_type query parameter names the single field of the
// authorization response. Without it the field is "id_token":
//
//	POST /token?response_type=access_token  {"sub":"u1"}
//	=> {"access_token":"eyJzdWIiOiJ1MSJ9"}
//
// # Introspection
//
// Decoded claims are copied over {"active": true}, so a token minted from
// {"active": false, "sub": "u1"} introspects as inactive. Tokens whose payload
// is not a JSON object introspect as {"active": true} with no other fields.
package oauth
