package token

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"errors"
	"io"
	"strings"
)

// Token is an opaque, unsigned token string.
type Token = string

// Value is a decoded JSON value: map[string]any, []any, string,
// json.Number, bool or nil.
type Value = any

// decoders are tried in order; the first one that accepts the input wins.
var decoders = []*base64.Encoding{
	base64.StdEncoding,
	base64.RawStdEncoding,
	base64.URLEncoding,
	base64.RawURLEncoding,
}

// Encode serializes v to JSON and base64 encodes the result. The JSON text
// is plain: <, > and & are not HTML-escaped.
func Encode(v any) (Token, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return "", &EncodeError{Err: err}
	}
	data := bytes.TrimSuffix(buf.Bytes(), []byte("\n"))
	return base64.StdEncoding.EncodeToString(data), nil
}

// Decode reverses Encode.
func Decode(t Token) (Value, error) {
	data, err := decodeBase64(t)
	if err != nil {
		return nil, err
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var v Value
	if err := dec.Decode(&v); err != nil {
		return nil, &DecodeError{Stage: StageJSON, Err: err}
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, &DecodeError{Stage: StageJSON, Err: errors.New("trailing data after JSON value")}
	}
	return v, nil
}

// DecodeClaims decodes t and requires the payload to be a JSON object.
func DecodeClaims(t Token) (map[string]any, error) {
	v, err := Decode(t)
	if err != nil {
		return nil, err
	}
	claims, ok := v.(map[string]any)
	if !ok {
		return nil, &DecodeError{Stage: StageClaims, Err: errors.New("payload is not a JSON object")}
	}
	return claims, nil
}

func decodeBase64(t Token) ([]byte, error) {
	s := strings.TrimSpace(t)
	if s == "" {
		return nil, &DecodeError{Stage: StageBase64, Err: errors.New("empty token")}
	}

	var firstErr error
	for _, enc := range decoders {
		data, err := enc.DecodeString(s)
		if err == nil {
			return data, nil
		}
		if firstErr == nil {
			firstErr = err
		}
	}
	return nil, &DecodeError{Stage: StageBase64, Err: firstErr}
}
