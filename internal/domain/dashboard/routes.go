package dashboard

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Routes returns dashboard routes guarded by the given middlewares
func Routes(h *Handler, middlewares ...func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(middlewares...)

	r.Get("/stats", h.GetStats)
	r.Get("/member-growth", h.GetMemberGrowth)
	r.Get("/points-flow", h.GetPointsFlow)
	r.Get("/level-distribution", h.GetLevelDistribution)
	r.Get("/checkin-ranking", h.GetCheckinRanking)

	return r
}
