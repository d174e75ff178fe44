// Package app wires the auth and inventory routes behind the shared
// middleware stack.
package app

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"InventoryAPI/internal/auth"
	"InventoryAPI/internal/inventory"
	"InventoryAPI/pkg/kit"
)

const readyTimeout = 1 * time.Second

type HTTPDeps struct {
	Log      *zap.Logger
	Service  string
	Registry *prometheus.Registry

	MetricsEnabled bool
	MetricsToken   string
	Production     bool
}

type Deps struct {
	Products inventory.Store
	Users    auth.UserStore
	JWT      *auth.TokenMaker
	TokenTTL time.Duration
	Limits   auth.RouteOpts
}

func NewHandler(deps Deps, httpDeps HTTPDeps) http.Handler {
	if httpDeps.Log == nil {
		httpDeps.Log = zap.NewNop()
	}

	r := chi.NewRouter()
	setupMiddleware(r, httpDeps)

	var invMetrics *inventory.Metrics
	if httpDeps.Registry != nil {
		invMetrics = inventory.NewMetrics(httpDeps.Registry)
		setupMetrics(r, httpDeps)
	}

	authSrv := &auth.Server{
		Log:      httpDeps.Log,
		Store:    deps.Users,
		JWT:      deps.JWT,
		TokenTTL: deps.TokenTTL,
	}
	invSrv := &inventory.Server{
		Store:   deps.Products,
		Log:     httpDeps.Log,
		Metrics: invMetrics,
	}

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		kit.WriteError(w, r, http.StatusNotFound, "not found", nil)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		kit.WriteError(w, r, http.StatusMethodNotAllowed, "method not allowed", nil)
	})

	r.Get("/healthz", healthz)
	r.Get("/readyz", readyz(httpDeps.Log, deps.Products, deps.Users))

	r.Mount("/auth", authSrv.Routes(deps.Limits))
	r.Mount("/products", invSrv.Routes(auth.RequireBearer(deps.JWT)))

	return r
}

func setupMiddleware(r *chi.Mux, deps HTTPDeps) {
	r.Use(chimw.RequestID)
	r.Use(kit.Recoverer)
	r.Use(chimw.StripSlashes)
	r.Use(kit.SecureHeaders(deps.Production))
	r.Use(kit.Logging(deps.Log))
}

func setupMetrics(r *chi.Mux, deps HTTPDeps) {
	metrics := kit.NewMetrics(deps.Registry)
	r.Use(metrics.Middleware(deps.Service, kit.RoutePatternLabel))

	if !deps.MetricsEnabled {
		return
	}

	r.With(kit.MetricsAuth(deps.MetricsToken)).
		Handle("/metrics", promhttp.HandlerFor(deps.Registry, promhttp.HandlerOpts{}))
}

func healthz(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
}

type pinger interface {
	Ping(ctx context.Context) error
}

func readyz(log *zap.Logger, products, users pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), readyTimeout)
		defer cancel()

		if err := products.Ping(ctx); err != nil {
			log.Warn("readyz failed: products", zap.Error(err))
			kit.WriteError(w, r, http.StatusServiceUnavailable, "products store not ready", nil)
			return
		}
		if err := users.Ping(ctx); err != nil {
			log.Warn("readyz failed: users", zap.Error(err))
			kit.WriteError(w, r, http.StatusServiceUnavailable, "users store not ready", nil)
			return
		}

		w.WriteHeader(http.StatusOK)
	}
}
