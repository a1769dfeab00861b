// Package middleware provides the HTTP middleware stack.
package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/pantrypal/pantrypal/pkg/logger"
	"github.com/pantrypal/pantrypal/pkg/response"
)

// Recovery turns a panic in any handler below it into a logged 500
// envelope.
//
//	r.Use(metrics.Middleware())
//	r.Use(reqid.Middleware())
//	r.Use(middleware.Recovery)
//	r.Use(middleware.Logger)
func Recovery(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				if err == http.ErrAbortHandler {
					panic(err)
				}
				logger.WithCtx(r.Context()).Error("panic recovered",
					"error", fmt.Sprintf("%v", err),
					"stack", string(debug.Stack()),
					"method", r.Method,
					"path", r.URL.Path,
				)
				response.Error(w, http.StatusInternalServerError, "Internal Server Error")
			}
		}()
		next.ServeHTTP(w, r)
	})
}
