package dashboard

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/rocketbird/rocketbird-api/internal/domain/level"
	"github.com/rocketbird/rocketbird-api/internal/pkg/docstore"
	"github.com/rocketbird/rocketbird-api/internal/pkg/gather"
	"github.com/rocketbird/rocketbird-api/internal/pkg/logger"
)

// Cache stores computed dashboard payloads
type Cache interface {
	GetJSON(ctx context.Context, key string, dst interface{}) (bool, error)
	SetJSON(ctx context.Context, key string, v interface{}) error
}

// Config configures dashboard service
type Config struct {
	Location       *time.Location   // day boundaries; defaults to time.Local
	ActiveDays     int              // login recency for "active" members; defaults to 7
	MaxConcurrency int              // concurrent store reads per request; <= 0 is unbounded
	Now            func() time.Time // defaults to time.Now
}

// Service computes dashboard metrics
type Service struct {
	accessor    *Accessor
	levels      level.Repository
	cache       Cache
	loc         *time.Location
	activeDays  int
	concurrency int
	now         func() time.Time
}

// NewService creates dashboard service. cache may be nil.
func NewService(store docstore.Store, levels level.Repository, cache Cache, cfg Config) *Service {
	s := &Service{
		accessor:    NewAccessor(store),
		levels:      levels,
		cache:       cache,
		loc:         cfg.Location,
		activeDays:  cfg.ActiveDays,
		concurrency: cfg.MaxConcurrency,
		now:         cfg.Now,
	}
	if s.loc == nil {
		s.loc = time.Local
	}
	if s.activeDays <= 0 {
		s.activeDays = 7
	}
	if s.now == nil {
		s.now = time.Now
	}
	return s
}

func (s *Service) clock() time.Time {
	return s.now().In(s.loc)
}

// Snapshot returns the current dashboard totals
func (s *Service) Snapshot(ctx context.Context) (*Snapshot, error) {
	now := s.clock()
	key := "dashboard:stats:" + now.Format(dateLayout)
	return cached(ctx, s.cache, key, func(ctx context.Context) (*Snapshot, error) {
		return s.snapshot(ctx, now)
	})
}

func (s *Service) snapshot(ctx context.Context, now time.Time) (*Snapshot, error) {
	today := Today(now)
	todayFilter := docstore.Between("createdAt", today.Start, today.End)
	activeSince := now.AddDate(0, 0, -s.activeDays)

	earn := docstore.Filter{docstore.Eq("type", PointsTypeEarn)}
	consume := docstore.Filter{docstore.Eq("type", PointsTypeConsume)}

	snap := &Snapshot{}
	err := gather.Run(ctx, s.concurrency,
		s.count(&snap.Members.Total, CollectionMembers, nil),
		s.count(&snap.Members.TodayNew, CollectionMembers, todayFilter),
		s.count(&snap.Members.Active, CollectionMembers, docstore.Filter{docstore.Gte("lastLoginAt", activeSince)}),

		s.sumPoints(&snap.Points.TotalEarned, earn),
		s.sumPoints(&snap.Points.TotalConsumed, consume),
		s.sumPoints(&snap.Points.TodayEarned, earn.And(todayFilter...)),
		s.sumPoints(&snap.Points.TodayConsumed, consume.And(todayFilter...)),

		s.count(&snap.Checkin.Total, CollectionCheckinRecords, nil),
		s.count(&snap.Checkin.Today, CollectionCheckinRecords, todayFilter),
		s.count(&snap.Checkin.Pending, CollectionCheckinRecords, docstore.Filter{docstore.Eq("reviewStatus", StatusPending)}),

		s.count(&snap.Orders.Total, CollectionExchangeOrders, nil),
		s.count(&snap.Orders.Pending, CollectionExchangeOrders, docstore.Filter{docstore.Eq("status", StatusPending)}),
	)
	if err != nil {
		return nil, fmt.Errorf("dashboard snapshot: %w", err)
	}
	return snap, nil
}

func (s *Service) count(dst *int64, collection string, filter docstore.Filter) gather.Task {
	return func(ctx context.Context) error {
		n, err := s.accessor.Count(ctx, collection, filter)
		if err != nil {
			return err
		}
		*dst = n
		return nil
	}
}

func (s *Service) sumPoints(dst *int64, filter docstore.Filter) gather.Task {
	return func(ctx context.Context) error {
		n, err := s.accessor.SumMagnitude(ctx, CollectionPointsRecords, "points", filter)
		if err != nil {
			return err
		}
		*dst = n
		return nil
	}
}

// MemberGrowth returns the number of members created per day over the last days days
func (s *Service) MemberGrowth(ctx context.Context, days int) ([]GrowthPoint, error) {
	now := s.clock()
	windows, err := Windows(now, days)
	if err != nil {
		return nil, err
	}

	key := "dashboard:member-growth:" + now.Format(dateLayout) + ":" + strconv.Itoa(days)
	return cached(ctx, s.cache, key, func(ctx context.Context) ([]GrowthPoint, error) {
		points, err := gather.All(ctx, s.concurrency, len(windows), func(ctx context.Context, i int) (GrowthPoint, error) {
			w := windows[i]
			n, err := s.accessor.Count(ctx, CollectionMembers, docstore.Between("createdAt", w.Start, w.End))
			if err != nil {
				return GrowthPoint{}, err
			}
			return GrowthPoint{Date: w.Date(), Count: n}, nil
		})
		if err != nil {
			return nil, fmt.Errorf("member growth: %w", err)
		}
		return points, nil
	})
}

// PointsFlow returns points earned and consumed per day over the last days days
func (s *Service) PointsFlow(ctx context.Context, days int) ([]PointsFlowPoint, error) {
	now := s.clock()
	windows, err := Windows(now, days)
	if err != nil {
		return nil, err
	}

	key := "dashboard:points-flow:" + now.Format(dateLayout) + ":" + strconv.Itoa(days)
	return cached(ctx, s.cache, key, func(ctx context.Context) ([]PointsFlowPoint, error) {
		// two sums per day: earned at 2i, consumed at 2i+1
		sums, err := gather.All(ctx, s.concurrency, 2*len(windows), func(ctx context.Context, i int) (int64, error) {
			w := windows[i/2]
			kind := PointsTypeEarn
			if i%2 == 1 {
				kind = PointsTypeConsume
			}
			filter := docstore.Between("createdAt", w.Start, w.End).And(docstore.Eq("type", kind))
			return s.accessor.SumMagnitude(ctx, CollectionPointsRecords, "points", filter)
		})
		if err != nil {
			return nil, fmt.Errorf("points flow: %w", err)
		}

		points := make([]PointsFlowPoint, len(windows))
		for i, w := range windows {
			points[i] = PointsFlowPoint{Date: w.Date(), Earned: sums[2*i], Consumed: sums[2*i+1]}
		}
		return points, nil
	})
}

// LevelDistribution returns member counts and shares for every active level
func (s *Service) LevelDistribution(ctx context.Context) ([]LevelShare, error) {
	key := "dashboard:level-distribution"
	return cached(ctx, s.cache, key, func(ctx context.Context) ([]LevelShare, error) {
		rules, err := s.levels.ListActiveRules(ctx)
		if err != nil {
			if !docstore.IsNotFound(err) {
				return nil, fmt.Errorf("level distribution: %w", err)
			}
			logMissing(ctx, "find", level.Collection)
			rules = nil
		}

		total, err := s.accessor.Count(ctx, CollectionMembers, nil)
		if err != nil {
			return nil, fmt.Errorf("level distribution: %w", err)
		}

		shares, err := gather.All(ctx, s.concurrency, len(rules), func(ctx context.Context, i int) (LevelShare, error) {
			rule := rules[i]
			n, err := s.accessor.Count(ctx, CollectionMembers, docstore.Filter{docstore.Eq("levelId", rule.LevelID)})
			if err != nil {
				return LevelShare{}, err
			}
			return LevelShare{
				LevelID:    rule.LevelID,
				LevelName:  rule.Name,
				Count:      n,
				Percentage: Percentage(n, total),
			}, nil
		})
		if err != nil {
			return nil, fmt.Errorf("level distribution: %w", err)
		}
		return shares, nil
	})
}

// CheckinRanking returns up to limit members with the most check-ins
func (s *Service) CheckinRanking(ctx context.Context, limit int) ([]RankingEntry, error) {
	if limit < 1 {
		return nil, ErrInvalidLimit
	}

	key := "dashboard:checkin-ranking:" + strconv.Itoa(limit)
	return cached(ctx, s.cache, key, func(ctx context.Context) ([]RankingEntry, error) {
		docs, err := s.accessor.List(ctx, CollectionMembers, docstore.Query{
			Sort:  []docstore.SortField{{Field: "totalCheckins", Desc: true}},
			Limit: limit,
		})
		if err != nil {
			return nil, fmt.Errorf("checkin ranking: %w", err)
		}

		entries := make([]RankingEntry, 0, len(docs))
		for _, d := range docs {
			entries = append(entries, RankingEntry{
				UserID:              d.String("userId"),
				Nickname:            d.String("nickname"),
				Avatar:              d.String("avatar"),
				TotalCheckins:       d.Int("totalCheckins"),
				ConsecutiveCheckins: d.Int("consecutiveCheckins"),
			})
		}
		return entries, nil
	})
}

// Percentage returns count/total as a percentage rounded to two decimals.
// A zero total yields 0.
func Percentage(count, total int64) float64 {
	if total <= 0 || count <= 0 {
		return 0
	}
	p := math.Round(float64(count)/float64(total)*100*100) / 100
	if p > 100 {
		return 100
	}
	return p
}

func cached[T any](ctx context.Context, c Cache, key string, compute func(context.Context) (T, error)) (T, error) {
	if c == nil {
		return compute(ctx)
	}

	if !isRefresh(ctx) {
		var hit T
		ok, err := c.GetJSON(ctx, key, &hit)
		if err != nil {
			logger.FromContext(ctx).Warn().Err(err).Str("key", key).Msg("Dashboard cache read failed")
		} else if ok {
			return hit, nil
		}
	}

	v, err := compute(ctx)
	if err != nil {
		return v, err
	}
	if err := c.SetJSON(ctx, key, v); err != nil {
		logger.FromContext(ctx).Warn().Err(err).Str("key", key).Msg("Dashboard cache write failed")
	}
	return v, nil
}
