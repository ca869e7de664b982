// Package testing runs an in-process echoidp for Go tests of OAuth clients.
//
// # Basic Usage
//
// Start a provider, point the client under test at its discovery document,
// and assert on what the client sent:
//
//	import idptest "github.com/getmockd/echoidp/pkg/testing"
//
//	func TestLogin(t *testing.T) {
//	    idp := idptest.New(t)
//
//	    client := myapp.NewOIDCClient(idp.DiscoveryURL())
//	    if err := client.Login(ctx); err != nil {
//	        t.Fatal(err)
//	    }
//
//	    idp.AssertCalled(t, "POST", "/token")
//	}
//
// The server is closed automatically when the test completes.
//
// # Tokens
//
// Tokens are base64-encoded JSON, so a test can mint one without a round trip
// or ask the running server for one:
//
//	tok := idp.MustToken(map[string]any{"sub": "alice"})
//	claims := idp.Introspect(tok) // {"active": true, "sub": "alice"}
//
// # Request Assertions
//
// Every request the provider receives is recorded:
//
//	idp.AssertCalledTimes(t, "POST", "/introspect", 2)
//	idp.AssertNotCalled(t, "POST", "/authorize")
//
//	for _, req := range idp.Requests() {
//	    req.AssertHeader(t, "Content-Type", "application/x-www-form-urlencoded")
//	}
//
// Reset clears the recorded requests between scenarios.
package testing
