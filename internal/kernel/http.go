// Package kernel assembles the HTTP handler: global middleware, the API
// routes, /metrics and the optional single-page app.
package kernel

import (
	"net/http"
	"time"

	"gorm.io/gorm"

	"github.com/pantrypal/pantrypal/app/routes"
	"github.com/pantrypal/pantrypal/pkg/metrics"
	"github.com/pantrypal/pantrypal/pkg/middleware"
	"github.com/pantrypal/pantrypal/pkg/reqid"
	"github.com/pantrypal/pantrypal/pkg/response"
	"github.com/pantrypal/pantrypal/pkg/router"
	"github.com/pantrypal/pantrypal/pkg/session"
)

// Options are the dependencies of the HTTP kernel.
type Options struct {
	DB             *gorm.DB
	Sessions       session.Store
	SessionOptions session.Options
	CORSOrigins    []string
	RateLimit      int    // requests per minute per IP; 0 disables
	StaticDir      string // empty disables SPA serving
}

// HTTPKernel owns the router and anything that must be stopped with it.
type HTTPKernel struct {
	router  *router.Router
	limiter *middleware.RateLimiter
}

// NewHTTPKernel builds the router. Middleware order, outermost first:
//
//  1. metrics      total latency, labelled by route pattern
//  2. recovery     panics become 500s
//  3. request id   before anything logs
//  4. logger       request-scoped logger with request_id
//  5. CORS         credentials allowed for the cookie session
//  6. rate limit   reject abusers before touching the store
//  7. session      load the cookie session into the context
func NewHTTPKernel(opts Options) *HTTPKernel {
	k := &HTTPKernel{router: router.New()}
	r := k.router

	r.Use(metrics.Middleware())
	r.Use(middleware.Recovery)
	r.Use(reqid.Middleware())
	r.Use(middleware.Logger)
	r.Use(middleware.CORS(middleware.DefaultCORSOptions(opts.CORSOrigins)))
	if opts.RateLimit > 0 {
		k.limiter = middleware.NewRateLimiter(opts.RateLimit, time.Minute)
		r.Use(k.limiter.Middleware)
	}
	r.Use(session.Middleware(opts.Sessions, opts.SessionOptions))

	r.Get("/metrics", "metrics", metrics.Handler())
	routes.RegisterAPI(r, opts.DB)

	if opts.StaticDir != "" {
		r.NotFound(spaHandler(opts.StaticDir))
	} else {
		r.NotFound(func(w http.ResponseWriter, _ *http.Request) { response.NotFound(w) })
	}
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) { response.MethodNotAllowed(w) })

	return k
}

func (k *HTTPKernel) Handler() http.Handler { return k.router.Handler() }

func (k *HTTPKernel) Router() *router.Router { return k.router }

// Close stops background work started by the kernel.
func (k *HTTPKernel) Close() {
	if k.limiter != nil {
		k.limiter.Stop()
	}
}
