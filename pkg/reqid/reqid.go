// Package reqid generates request IDs and carries them through the request
// context. logger.WithCtx picks the ID up so every log line for a request
// shares it.
//
//	r.Use(reqid.Middleware())
//	id := reqid.FromCtx(r.Context())
package reqid

import (
	"context"
	"net/http"
	"regexp"

	"github.com/google/uuid"
)

type ctxKey struct{}

// Header is the HTTP header used to propagate the request ID.
const Header = "X-Request-ID"

// upstream IDs are echoed back into headers and logs, so only short
// token-like values are trusted.
var validID = regexp.MustCompile(`^[A-Za-z0-9._-]{1,64}$`)

// New returns a random UUIDv4 string.
func New() string { return uuid.NewString() }

func WithValue(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

// FromCtx returns the request ID, or "" when none is set.
func FromCtx(ctx context.Context) string {
	if id, ok := ctx.Value(ctxKey{}).(string); ok {
		return id
	}
	return ""
}

// Middleware reuses a well-formed X-Request-ID from the client or mints a
// new one, then sets it on the response and the request context.
func Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := r.Header.Get(Header)
			if !validID.MatchString(id) {
				id = New()
			}
			w.Header().Set(Header, id)
			next.ServeHTTP(w, r.WithContext(WithValue(r.Context(), id)))
		})
	}
}
