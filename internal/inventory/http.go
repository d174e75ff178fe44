package inventory

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"InventoryAPI/internal/auth"
	"InventoryAPI/pkg/kit"
)

type Server struct {
	Store     Store
	Log       *zap.Logger
	Validator *Validator
	Metrics   *Metrics

	// Now and NewID default to the wall clock and a random UUID.
	Now   func() time.Time
	NewID func() string
}

// Routes serves the product endpoints. Every route sits behind requireAuth;
// unauthenticated requests never reach the store.
func (s *Server) Routes(requireAuth func(http.Handler) http.Handler) http.Handler {
	if s.Validator == nil {
		s.Validator = NewValidator()
	}

	r := chi.NewRouter()

	r.Group(func(pr chi.Router) {
		pr.Use(requireAuth)
		pr.Get("/", s.list)
		pr.Post("/add", s.create)
	})

	return r
}

func (s *Server) list(w http.ResponseWriter, r *http.Request) {
	products, err := s.Store.List(r.Context())
	if err != nil {
		s.writeStoreError(w, r, "list products failed", err)
		return
	}
	kit.WriteJSON(w, http.StatusOK, products)
}

func (s *Server) create(w http.ResponseWriter, r *http.Request) {
	var req createReq
	if err := kit.DecodeJSON(w, r, &req); err != nil {
		s.rejected()

		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) && typeErr.Field != "" {
			verr := &ValidationError{}
			verr.add(typeErr.Field, "Incorrect type; got "+typeErr.Value+".")
			kit.WriteError(w, r, http.StatusBadRequest, "validation failed", verr.Fields)
			return
		}
		kit.WriteError(w, r, http.StatusBadRequest, "bad json", map[string]any{"cause": err.Error()})
		return
	}

	p, err := s.Validator.Product(req)
	if err != nil {
		var verr *ValidationError
		if errors.As(err, &verr) {
			s.rejected()
			kit.WriteError(w, r, http.StatusBadRequest, "validation failed", verr.Fields)
			return
		}
		s.log().Error("validate product failed", zap.Error(err))
		kit.WriteError(w, r, http.StatusInternalServerError, "server error", nil)
		return
	}

	p.ID = s.newID()
	p.CreatedAt = s.now()

	if err := s.Store.Create(r.Context(), p); err != nil {
		s.writeStoreError(w, r, "create product failed", err)
		return
	}

	if s.Metrics != nil {
		s.Metrics.Created.Inc()
	}

	caller, _ := auth.IdentityFromContext(r.Context())
	s.log().Info("product created",
		zap.String("product_id", p.ID),
		zap.String("user_id", caller.UserID),
	)

	kit.WriteJSON(w, http.StatusCreated, p)
}

func (s *Server) writeStoreError(w http.ResponseWriter, r *http.Request, msg string, err error) {
	s.log().Error(msg, zap.Error(err))

	if errors.Is(err, context.DeadlineExceeded) {
		kit.WriteError(w, r, http.StatusGatewayTimeout, "timeout", nil)
		return
	}
	kit.WriteError(w, r, http.StatusInternalServerError, "server error", nil)
}

func (s *Server) rejected() {
	if s.Metrics != nil {
		s.Metrics.Rejected.Inc()
	}
}

func (s *Server) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC().Truncate(time.Microsecond)
}

func (s *Server) newID() string {
	if s.NewID != nil {
		return s.NewID()
	}
	return "p_" + uuid.NewString()
}

func (s *Server) log() *zap.Logger {
	if s.Log == nil {
		return zap.NewNop()
	}
	return s.Log
}
