package dashboard

// Collections read by the dashboard
const (
	CollectionMembers        = "users"
	CollectionPointsRecords  = "points_records"
	CollectionCheckinRecords = "checkin_records"
	CollectionExchangeOrders = "exchange_orders"
)

// Points record types
const (
	PointsTypeEarn    = "earn"
	PointsTypeConsume = "consume"
)

// Status code shared by check-in reviews and exchange orders
const StatusPending = 0

// Snapshot is a point-in-time read of all dashboard totals
type Snapshot struct {
	Members MemberStats  `json:"members"`
	Points  PointsStats  `json:"points"`
	Checkin CheckinStats `json:"checkin"`
	Orders  OrderStats   `json:"orders"`
}

// MemberStats counts members
type MemberStats struct {
	Total    int64 `json:"total"`
	TodayNew int64 `json:"todayNew"`
	Active   int64 `json:"active"`
}

// PointsStats sums absolute point magnitudes
type PointsStats struct {
	TotalEarned   int64 `json:"totalEarned"`
	TotalConsumed int64 `json:"totalConsumed"`
	TodayEarned   int64 `json:"todayEarned"`
	TodayConsumed int64 `json:"todayConsumed"`
}

// CheckinStats counts check-in records
type CheckinStats struct {
	Total   int64 `json:"total"`
	Today   int64 `json:"today"`
	Pending int64 `json:"pending"`
}

// OrderStats counts exchange orders
type OrderStats struct {
	Total   int64 `json:"total"`
	Pending int64 `json:"pending"`
}

// GrowthPoint is the number of members created on one day
type GrowthPoint struct {
	Date  string `json:"date"`
	Count int64  `json:"count"`
}

// PointsFlowPoint is the points earned and consumed on one day
type PointsFlowPoint struct {
	Date     string `json:"date"`
	Earned   int64  `json:"earned"`
	Consumed int64  `json:"consumed"`
}

// LevelShare is the member count of one active level
type LevelShare struct {
	LevelID    string  `json:"levelId"`
	LevelName  string  `json:"levelName"`
	Count      int64   `json:"count"`
	Percentage float64 `json:"percentage"`
}

// RankingEntry is one row of the check-in leaderboard
type RankingEntry struct {
	UserID              string `json:"userId"`
	Nickname            string `json:"nickname"`
	Avatar              string `json:"avatar,omitempty"`
	TotalCheckins       int64  `json:"totalCheckins"`
	ConsecutiveCheckins int64  `json:"consecutiveCheckins"`
}
