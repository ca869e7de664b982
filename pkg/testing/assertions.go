package testing

import (
	"encoding/json"
	"net/url"
	"reflect"
	"strings"
	"testing"
)

// RequestLog represents a recorded HTTP request for assertions.
type RequestLog struct {
	// Method is the HTTP method (GET, POST, etc.)
	Method string
	// Path is the request URL path
	Path string
	// Headers are the request headers (first value per key)
	Headers map[string]string
	// Body is the request body content
	Body string
	// QueryString is the raw query string
	QueryString string
}

// AssertJSONBody asserts that the request body matches the expected JSON.
// The expected value can be a string, []byte, or any value that will be JSON encoded.
func (r *RequestLog) AssertJSONBody(t testing.TB, expected any) {
	t.Helper()

	var raw []byte
	switch v := expected.(type) {
	case string:
		raw = []byte(v)
	case []byte:
		raw = v
	default:
		data, err := json.Marshal(v)
		if err != nil {
			t.Errorf("failed to marshal expected value: %v", err)
			return
		}
		raw = data
	}

	var expectedJSON, actualJSON any
	if err := json.Unmarshal(raw, &expectedJSON); err != nil {
		t.Errorf("failed to parse expected JSON: %v", err)
		return
	}
	if err := json.Unmarshal([]byte(r.Body), &actualJSON); err != nil {
		t.Errorf("request body is not valid JSON: %v\nbody: %s", err, r.Body)
		return
	}

	if !reflect.DeepEqual(actualJSON, expectedJSON) {
		expectedBytes, _ := json.MarshalIndent(expectedJSON, "", "  ")
		actualBytes, _ := json.MarshalIndent(actualJSON, "", "  ")
		t.Errorf("request body does not match expected JSON\nexpected:\n%s\nactual:\n%s",
			string(expectedBytes), string(actualBytes))
	}
}

// AssertBodyContains asserts that the request body contains the expected substring.
func (r *RequestLog) AssertBodyContains(t testing.TB, substr string) {
	t.Helper()

	if !strings.Contains(r.Body, substr) {
		t.Errorf("request body does not contain %q\nbody: %s", substr, r.Body)
	}
}

// AssertHeader asserts that the request had the specified header with the expected value.
// Header names are matched case-insensitively.
func (r *RequestLog) AssertHeader(t testing.TB, key, expected string) {
	t.Helper()

	actual, ok := r.header(key)
	if !ok {
		t.Errorf("request does not have header %q", key)
		return
	}
	if actual != expected {
		t.Errorf("header %q value mismatch\nexpected: %q\nactual: %q", key, expected, actual)
	}
}

func (r *RequestLog) header(key string) (string, bool) {
	if v, ok := r.Headers[key]; ok {
		return v, true
	}
	for k, v := range r.Headers {
		if strings.EqualFold(k, key) {
			return v, true
		}
	}
	return "", false
}

// AssertQueryParam asserts that the request had the specified query parameter.
func (r *RequestLog) AssertQueryParam(t testing.TB, key, expected string) {
	t.Helper()

	params, err := url.ParseQuery(r.QueryString)
	if err != nil || !params.Has(key) {
		t.Errorf("request does not have query parameter %q", key)
		return
	}
	if actual := params.Get(key); actual != expected {
		t.Errorf("query parameter %q value mismatch\nexpected: %q\nactual: %q", key, expected, actual)
	}
}

// JSONField extracts a field from the request body JSON.
// Nested fields use dot notation. Returns nil if the body is not valid JSON
// or the field doesn't exist.
func (r *RequestLog) JSONField(field string) any {
	var data map[string]any
	if err := json.Unmarshal([]byte(r.Body), &data); err != nil {
		return nil
	}

	var current any = data
	for _, part := range strings.Split(field, ".") {
		m, ok := current.(map[string]any)
		if !ok {
			return nil
		}
		current = m[part]
	}
	return current
}

// AssertJSONField asserts that a JSON field in the request body has the expected value.
func (r *RequestLog) AssertJSONField(t testing.TB, field string, expected any) {
	t.Helper()

	actual := r.JSONField(field)
	if actual == nil {
		t.Errorf("JSON field %q not found in request body: %s", field, r.Body)
		return
	}
	if !reflect.DeepEqual(actual, expected) {
		t.Errorf("JSON field %q mismatch\nexpected: %v (%T)\nactual: %v (%T)",
			field, expected, expected, actual, actual)
	}
}
