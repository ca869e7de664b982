package server

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/getmockd/echoidp/pkg/logging"
)

type requestIDKey struct{}

// maxRequestIDLen bounds client-supplied request IDs echoed back.
const maxRequestIDLen = 128

// RequestID assigns each request an identifier. A client-supplied
// X-Request-ID is kept when it is short enough; otherwise a UUID is generated.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(logging.RequestIDHeader)
		if id == "" || len(id) > maxRequestIDLen {
			id = uuid.NewString()
		}
		w.Header().Set(logging.RequestIDHeader, id)
		ctx := context.WithValue(r.Context(), requestIDKey{}, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequestIDFromContext returns the identifier assigned by RequestID.
func RequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}
