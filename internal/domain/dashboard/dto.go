package dashboard

import (
	"net/http"
	"strconv"
)

// SeriesQuery holds query parameters of the time series endpoints
type SeriesQuery struct {
	Days int `json:"days" validate:"gte=1,lte=366"`
}

// RankingQuery holds query parameters of the ranking endpoint
type RankingQuery struct {
	Limit int `json:"limit" validate:"gte=1"`
}

// Defaults are applied when a query parameter is omitted
type Defaults struct {
	SeriesDays   int
	RankingLimit int
}

// queryInt reads an integer query parameter, returning def when it is absent
func queryInt(r *http.Request, name string, def int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, nil
	}
	return strconv.Atoi(raw)
}
