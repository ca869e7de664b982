package token

import (
	"errors"
	"fmt"
)

// ErrMalformed is wrapped by every DecodeError.
var ErrMalformed = errors.New("token malformed")

// Decode stages reported by DecodeError.
const (
	StageBase64 = "base64"
	StageJSON   = "json"
	StageClaims = "claims"
)

// DecodeError reports why a token could not be turned back into a value.
type DecodeError struct {
	Stage string
	Err   error
}

func (e *DecodeError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", ErrMalformed, e.Stage)
	}
	return fmt.Sprintf("%s: %s: %v", ErrMalformed, e.Stage, e.Err)
}

// Unwrap lets errors.Is match both ErrMalformed and the underlying cause.
func (e *DecodeError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrMalformed}
	}
	return []error{ErrMalformed, e.Err}
}

// EncodeError is returned when a Go value has no JSON representation.
type EncodeError struct {
	Err error
}

func (e *EncodeError) Error() string {
	return fmt.Sprintf("token encode: %v", e.Err)
}

func (e *EncodeError) Unwrap() error {
	return e.Err
}
