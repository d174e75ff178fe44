package kit

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// RoutePatternLabel keeps metric label cardinality bounded: matched
// requests report their route pattern, unmatched ones a fixed label.
func RoutePatternLabel(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if rp := rctx.RoutePattern(); rp != "" {
			return rp
		}
	}
	return "unmatched"
}
