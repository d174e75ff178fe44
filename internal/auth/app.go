package auth

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"InventoryAPI/pkg/kit"
)

const (
	defaultLoginLimitPerMin    = 5
	defaultRegisterLimitPerMin = 3
	limitWindow                = 60 * time.Second
)

type RouteOpts struct {
	LoginLimitPerMin    int
	RegisterLimitPerMin int

	// TrustProxyHeaders keys the limits by X-Forwarded-For / X-Real-IP.
	TrustProxyHeaders bool
}

// Routes serves register, login and whoami. Mount it under /auth.
func (s *Server) Routes(opts RouteOpts) http.Handler {
	if opts.LoginLimitPerMin <= 0 {
		opts.LoginLimitPerMin = defaultLoginLimitPerMin
	}
	if opts.RegisterLimitPerMin <= 0 {
		opts.RegisterLimitPerMin = defaultRegisterLimitPerMin
	}

	r := chi.NewRouter()

	r.With(kit.RateLimitByIP(opts.LoginLimitPerMin, limitWindow, opts.TrustProxyHeaders)).Post("/login", s.handleLogin)
	r.With(kit.RateLimitByIP(opts.RegisterLimitPerMin, limitWindow, opts.TrustProxyHeaders)).Post("/register", s.handleRegister)
	r.With(RequireBearer(s.JWT)).Get("/whoami", s.handleWhoAmI)

	return r
}
