// Package ctx provides the request context Pantry Pal handlers receive.
//
// Instead of accepting (http.ResponseWriter, *http.Request), a handler
// receives a single *Context:
//
//	func (ctl *UserController) Show(c *ctx.Context) {
//	    id, ok := c.ParamUint("id")
//	    ...
//	    c.JSON(http.StatusOK, user)
//	}
//
//	router.Get("/users/{id}", "users.show", ctx.Wrap(ctl.Show))
package ctx

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"

	"github.com/go-chi/chi/v5"

	"github.com/pantrypal/pantrypal/config"
	"github.com/pantrypal/pantrypal/pkg/bind"
	"github.com/pantrypal/pantrypal/pkg/logger"
	"github.com/pantrypal/pantrypal/pkg/response"
	"github.com/pantrypal/pantrypal/pkg/session"
	"github.com/pantrypal/pantrypal/pkg/validate"
)

// HandlerFunc is the context-aware handler signature.
type HandlerFunc func(c *Context)

// Wrap converts a HandlerFunc to a standard http.HandlerFunc.
func Wrap(h HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := acquire(w, r)
		defer release(c)
		h(c)
	}
}

// ─── Context ──────────────────────────────────────────────────────────────────

// Context wraps a request/response pair.
type Context struct {
	W      http.ResponseWriter
	R      *http.Request
	status int // written status code (0 = not written yet)
}

var pool = sync.Pool{
	New: func() any { return &Context{} },
}

func acquire(w http.ResponseWriter, r *http.Request) *Context {
	c := pool.Get().(*Context)
	c.W = w
	c.R = r
	c.status = 0
	return c
}

func release(c *Context) {
	c.W = nil
	c.R = nil
	pool.Put(c)
}

// ─── Request helpers ──────────────────────────────────────────────────────────

// Param returns a URL path parameter.
func (c *Context) Param(key string) string {
	return chi.URLParam(c.R, key)
}

// ParamUint parses a positive integer path parameter such as an id.
func (c *Context) ParamUint(key string) (uint, bool) {
	n, err := strconv.ParseUint(c.Param(key), 10, 64)
	if err != nil || n == 0 {
		return 0, false
	}
	return uint(n), true
}

// ClientIP returns the caller's address without its port.
func (c *Context) ClientIP() string {
	return ClientIP(c.R)
}

// ClientIP is the request-level form of Context.ClientIP. Forwarding
// headers are honoured only when TRUST_PROXY is set; otherwise any client
// could pick its own address.
func ClientIP(r *http.Request) string {
	if config.TrustProxy() {
		if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
			return strings.TrimSpace(strings.SplitN(fwd, ",", 2)[0])
		}
		if real := r.Header.Get("X-Real-Ip"); real != "" {
			return strings.TrimSpace(real)
		}
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// Context returns the underlying request context.
func (c *Context) Context() context.Context { return c.R.Context() }

// Session returns the cookie session attached by session.Middleware.
func (c *Context) Session() *session.Session { return session.FromCtx(c.R) }

// Log returns the request-scoped logger.
func (c *Context) Log() *slog.Logger { return logger.WithCtx(c.R.Context()) }

// ─── Binding / Validation ─────────────────────────────────────────────────────

// BindJSON decodes the body into dest and runs validation. It sends 400 for
// an undecodable body and 422 for validation failures, returning false in
// both cases.
//
//	var input LoginInput
//	if !c.BindJSON(&input) {
//	    return // response already sent
//	}
func (c *Context) BindJSON(dest any) bool {
	errs, err := bind.JSON(c.R, dest)
	if err != nil {
		c.Error(http.StatusBadRequest, err.Error())
		return false
	}
	if validate.HasErrors(errs) {
		c.ValidationError(errs)
		return false
	}
	return true
}

// ─── Response helpers ─────────────────────────────────────────────────────────

// JSON writes v with the given status code.
func (c *Context) JSON(code int, v any) {
	c.status = code
	response.JSON(c.W, code, v)
}

// NoContent writes 204 with an empty body.
func (c *Context) NoContent() {
	c.status = http.StatusNoContent
	c.W.WriteHeader(http.StatusNoContent)
}

// Error sends the error envelope.
func (c *Context) Error(code int, message string) {
	c.status = code
	response.Error(c.W, code, message)
}

// ValidationError sends a 422 with field-level errors.
func (c *Context) ValidationError(errs validate.Errors) {
	c.status = http.StatusUnprocessableEntity
	response.ValidationError(c.W, errs)
}

// BadRequest sends a 400.
func (c *Context) BadRequest(message string) {
	c.Error(http.StatusBadRequest, message)
}

// Unauthorized sends a 401.
func (c *Context) Unauthorized(message ...string) {
	if len(message) > 0 {
		c.Error(http.StatusUnauthorized, message[0])
		return
	}
	c.status = http.StatusUnauthorized
	response.Unauthorized(c.W)
}

// NotFound sends a 404.
func (c *Context) NotFound(message ...string) {
	if len(message) > 0 {
		c.Error(http.StatusNotFound, message[0])
		return
	}
	c.status = http.StatusNotFound
	response.NotFound(c.W)
}

// InternalError logs err and sends a 500 without leaking it.
func (c *Context) InternalError(err error) {
	c.Log().Error("request failed", "error", err, "method", c.R.Method, "path", c.R.URL.Path)
	c.Error(http.StatusInternalServerError, "Internal Server Error")
}

// WrittenStatus returns the status written so far, or 0.
func (c *Context) WrittenStatus() int { return c.status }
