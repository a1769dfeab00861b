// Package session provides cookie sessions backed by Redis (or memory).
//
// Usage (middleware):
//
//	r.Use(session.Middleware(store, session.DefaultOptions()))
//
// Usage (handler):
//
//	sess := session.FromCtx(r)
//	sess.Login(user.ID)
//	if err := sess.Save(w); err != nil { ... }
//	id, ok := sess.UserID()
package session

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"time"

	"github.com/pantrypal/pantrypal/config"
	"github.com/pantrypal/pantrypal/pkg/logger"
)

const userIDKey = "user_id"

// ------------------- Options -------------------

// Options configures the session cookie.
type Options struct {
	CookieName string
	TTL        time.Duration
	HTTPOnly   bool
	Secure     bool
	SameSite   http.SameSite
	Path       string
}

// DefaultOptions reads the cookie name, TTL and Secure flag from config.
func DefaultOptions() Options {
	return Options{
		CookieName: config.SessionCookie(),
		TTL:        config.SessionTTL(),
		HTTPOnly:   true,
		Secure:     config.SessionSecure(),
		SameSite:   http.SameSiteLaxMode,
		Path:       "/",
	}
}

// ------------------- Session -------------------

type ctxKey struct{}

// Session is the per-request handle. A session without a user id is
// anonymous; Login and Logout move between the two states.
type Session struct {
	ctx   context.Context
	store Store
	opts  Options

	id      string
	data    Data
	persist bool   // id exists in the store
	changed bool
	destroy string // id to delete on Save
}

func newID() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

// ID returns the session ID.
func (s *Session) ID() string { return s.id }

// Set stores a value under key.
func (s *Session) Set(key string, value interface{}) {
	s.data[key] = value
	s.changed = true
}

// Get retrieves a value.
func (s *Session) Get(key string) (interface{}, bool) {
	v, ok := s.data[key]
	return v, ok
}

// UserID returns the logged-in user's id, if any.
func (s *Session) UserID() (uint, bool) {
	v, ok := s.data[userIDKey]
	if !ok {
		return 0, false
	}
	switch n := v.(type) {
	case float64: // JSON numbers unmarshal as float64
		if n <= 0 {
			return 0, false
		}
		return uint(n), true
	case uint:
		return n, n > 0
	case json.Number:
		i, err := n.Int64()
		if err != nil || i <= 0 {
			return 0, false
		}
		return uint(i), true
	}
	return 0, false
}

// Login records userID and rotates the session id so a pre-login cookie
// cannot be replayed.
func (s *Session) Login(userID uint) {
	if s.persist {
		s.destroy = s.id
	}
	if id, err := newID(); err == nil {
		s.id = id
	}
	s.persist = false
	s.Set(userIDKey, userID)
}

// Logout clears all data. Save removes it from the store and expires the
// cookie.
func (s *Session) Logout() {
	if s.persist {
		s.destroy = s.id
	}
	s.data = Data{}
	s.persist = false
	s.changed = true
}

// Save persists changes and writes the cookie. It is a no-op when nothing
// changed.
func (s *Session) Save(w http.ResponseWriter) error {
	if !s.changed {
		return nil
	}

	if s.destroy != "" {
		if err := s.store.Delete(s.ctx, s.destroy); err != nil {
			return err
		}
		s.destroy = ""
	}

	if len(s.data) == 0 {
		http.SetCookie(w, s.cookie("", -1))
		s.changed = false
		return nil
	}

	if err := s.store.Save(s.ctx, s.id, s.data, s.opts.TTL); err != nil {
		return err
	}
	http.SetCookie(w, s.cookie(s.id, int(s.opts.TTL.Seconds())))

	s.persist = true
	s.changed = false
	return nil
}

func (s *Session) cookie(value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     s.opts.CookieName,
		Value:    value,
		Path:     s.opts.Path,
		MaxAge:   maxAge,
		HttpOnly: s.opts.HTTPOnly,
		Secure:   s.opts.Secure,
		SameSite: s.opts.SameSite,
	}
}

// ------------------- Middleware -------------------

// Middleware loads the session named by the cookie, or starts an anonymous
// one, and injects it into the request context. A store failure is logged
// and treated as anonymous.
func Middleware(store Store, opts Options) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess := newSession(r.Context(), store, opts)

			if cookie, err := r.Cookie(opts.CookieName); err == nil && cookie.Value != "" {
				data, found, err := store.Load(r.Context(), cookie.Value)
				if err != nil {
					logger.WithCtx(r.Context()).Warn("session: load failed", "error", err)
				} else if found {
					sess.id = cookie.Value
					sess.data = data
					sess.persist = true
				}
			}

			ctx := context.WithValue(r.Context(), ctxKey{}, sess)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func newSession(ctx context.Context, store Store, opts Options) *Session {
	id, _ := newID()
	return &Session{ctx: ctx, store: store, opts: opts, id: id, data: Data{}}
}

// FromCtx retrieves the session from the request context. Without the
// middleware it returns an anonymous session over a throwaway memory store.
func FromCtx(r *http.Request) *Session {
	if s, ok := r.Context().Value(ctxKey{}).(*Session); ok {
		return s
	}
	return newSession(r.Context(), NewMemoryStore(), DefaultOptions())
}
