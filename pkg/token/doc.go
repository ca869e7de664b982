// Package token implements the opaque token format used by echoidp.
//
// A token is the standard base64 encoding of the JSON text of an arbitrary
// value. It carries no signature, no expiry and no secrecy: anyone holding a
// token can read and forge it. It exists so that a test client can push an
// arbitrary claim set through the authorize or token endpoint and get the same
// claims back from introspection.
//
// # Encoding
//
//	tok, err := token.Encode(map[string]any{"sub": "u1", "exp": 9999999999})
//	// tok == "eyJleHAiOjk5OTk5OTk5OTksInN1YiI6InUxIn0="
//
// # Decoding
//
//	v, err := token.Decode(tok)
//	var derr *token.DecodeError
//	if errors.As(err, &derr) {
//	    // derr.Stage is "base64" or "json"
//	}
//
// Decoded numbers are json.Number values, so large integers round-trip
// without float rounding.
package token
