package httputil

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strings"
)

// MaxBodyBytes bounds how much of a request body DecodeBody will read.
const MaxBodyBytes = 1 << 20

var (
	// ErrInvalidBody is wrapped by DecodeBody when a declared body cannot be parsed.
	ErrInvalidBody = errors.New("invalid request body")
	// ErrBodyTooLarge is returned by DecodeBody when the body exceeds MaxBodyBytes.
	ErrBodyTooLarge = errors.New("request body too large")
)

// DecodeBody parses a JSON or form-encoded request body into a mapping.
//
// JSON objects are returned as-is with numbers kept as json.Number. A JSON
// body that is valid but not an object yields an empty mapping. Form fields
// with a single value map to a string; repeated fields map to []any of
// strings. Empty bodies and unknown content types yield an empty mapping.
// Bodies over MaxBodyBytes are rejected with ErrBodyTooLarge, never truncated.
func DecodeBody(w http.ResponseWriter, r *http.Request) (map[string]any, error) {
	out := map[string]any{}
	if r.Body == nil {
		return out, nil
	}

	// MaxBytesReader fails once the limit is exceeded, unlike LimitReader.
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, MaxBodyBytes))
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return nil, fmt.Errorf("%w: limit is %d bytes", ErrBodyTooLarge, maxErr.Limit)
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidBody, err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return out, nil
	}

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	switch {
	case mediaType == "application/json" || strings.HasSuffix(mediaType, "+json"):
		return decodeJSONBody(data)
	case mediaType == "application/x-www-form-urlencoded":
		return decodeFormBody(data)
	default:
		return out, nil
	}
}

func decodeJSONBody(data []byte) (map[string]any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidBody, err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: trailing data after JSON value", ErrInvalidBody)
	}

	obj, ok := v.(map[string]any)
	if !ok {
		return map[string]any{}, nil
	}
	return obj, nil
}

func decodeFormBody(data []byte) (map[string]any, error) {
	values, err := url.ParseQuery(string(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidBody, err)
	}

	out := make(map[string]any, len(values))
	for key, vals := range values {
		if len(vals) == 1 {
			out[key] = vals[0]
			continue
		}
		list := make([]any, len(vals))
		for i, v := range vals {
			list[i] = v
		}
		out[key] = list
	}
	return out, nil
}
