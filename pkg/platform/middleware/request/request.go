// Package request provides middleware that tags every request with a
// correlation id and a request-scoped timestamp. All operations within a
// single HTTP request observe the same "now", keeping audit rows and domain
// timestamps consistent.
package request

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"

	"innoport/pkg/requestcontext"
)

// HeaderRequestID is honored when a gateway in front of us already assigned
// a correlation id.
const HeaderRequestID = "X-Request-Id"

// Middleware assigns a request id (generating one when absent) and pins the
// request time in the context.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get(HeaderRequestID)
		if requestID == "" {
			requestID = uuid.NewString()
		}

		ctx := r.Context()
		ctx = requestcontext.WithRequestID(ctx, requestID)
		ctx = requestcontext.WithTime(ctx, time.Now().UTC())

		w.Header().Set(HeaderRequestID, requestID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetRequestID retrieves the correlation id from the context.
func GetRequestID(ctx context.Context) string {
	return requestcontext.RequestID(ctx)
}
