package dashboard

import (
	"errors"
	"net/http"

	"github.com/rocketbird/rocketbird-api/internal/pkg/errorhandler"
	"github.com/rocketbird/rocketbird-api/internal/pkg/response"
	"github.com/rocketbird/rocketbird-api/internal/pkg/validator"
)

// Handler handles dashboard HTTP requests
type Handler struct {
	service  *Service
	defaults Defaults
}

// NewHandler creates new dashboard handler
func NewHandler(service *Service, defaults Defaults) *Handler {
	if defaults.SeriesDays <= 0 {
		defaults.SeriesDays = 7
	}
	if defaults.RankingLimit <= 0 {
		defaults.RankingLimit = 10
	}
	return &Handler{service: service, defaults: defaults}
}

// GetStats returns the dashboard snapshot
// GET /api/admin/dashboard/stats
func (h *Handler) GetStats(w http.ResponseWriter, r *http.Request) {
	snap, err := h.service.Snapshot(r.Context())
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	response.OK(w, snap)
}

// GetMemberGrowth returns new members per day
// GET /api/admin/dashboard/member-growth?days=7
func (h *Handler) GetMemberGrowth(w http.ResponseWriter, r *http.Request) {
	q, ok := h.seriesQuery(w, r)
	if !ok {
		return
	}

	series, err := h.service.MemberGrowth(r.Context(), q.Days)
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	response.OK(w, series)
}

// GetPointsFlow returns points earned and consumed per day
// GET /api/admin/dashboard/points-flow?days=7
func (h *Handler) GetPointsFlow(w http.ResponseWriter, r *http.Request) {
	q, ok := h.seriesQuery(w, r)
	if !ok {
		return
	}

	series, err := h.service.PointsFlow(r.Context(), q.Days)
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	response.OK(w, series)
}

// GetLevelDistribution returns member share per active level
// GET /api/admin/dashboard/level-distribution
func (h *Handler) GetLevelDistribution(w http.ResponseWriter, r *http.Request) {
	shares, err := h.service.LevelDistribution(r.Context())
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	response.OK(w, shares)
}

// GetCheckinRanking returns the check-in leaderboard
// GET /api/admin/dashboard/checkin-ranking?limit=10
func (h *Handler) GetCheckinRanking(w http.ResponseWriter, r *http.Request) {
	limit, err := queryInt(r, "limit", h.defaults.RankingLimit)
	if err != nil {
		response.BadRequest(w, "limit must be an integer")
		return
	}
	q := RankingQuery{Limit: limit}
	if errs := validator.Validate(&q); errs != nil {
		errorhandler.LogValidationError(r.Context(), errs)
		response.ValidationError(w, errs)
		return
	}

	ranking, err := h.service.CheckinRanking(r.Context(), q.Limit)
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	response.OK(w, ranking)
}

func (h *Handler) seriesQuery(w http.ResponseWriter, r *http.Request) (SeriesQuery, bool) {
	days, err := queryInt(r, "days", h.defaults.SeriesDays)
	if err != nil {
		response.BadRequest(w, "days must be an integer")
		return SeriesQuery{}, false
	}
	q := SeriesQuery{Days: days}
	if errs := validator.Validate(&q); errs != nil {
		errorhandler.LogValidationError(r.Context(), errs)
		response.ValidationError(w, errs)
		return SeriesQuery{}, false
	}
	return q, true
}

func (h *Handler) handleError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, ErrInvalidDays), errors.Is(err, ErrInvalidLimit):
		response.BadRequest(w, err.Error())
	default:
		errorhandler.HandleError(r.Context(), w, http.StatusInternalServerError,
			"INTERNAL_ERROR", "Failed to load dashboard data", err)
	}
}
