package dashboard

import (
	"context"
	"errors"
	"fmt"
)

type refreshKey struct{}

// withRefresh marks ctx so cached lookups recompute and overwrite their entry
func withRefresh(ctx context.Context) context.Context {
	return context.WithValue(ctx, refreshKey{}, true)
}

func isRefresh(ctx context.Context) bool {
	v, _ := ctx.Value(refreshKey{}).(bool)
	return v
}

// Warm recomputes every dashboard payload for the given defaults and
// overwrites the cached copies. It is a no-op without a cache.
// All payloads are attempted; the returned error joins every failure.
func (s *Service) Warm(ctx context.Context, days, limit int) error {
	if s.cache == nil {
		return nil
	}
	ctx = withRefresh(ctx)

	var errs []error
	if _, err := s.Snapshot(ctx); err != nil {
		errs = append(errs, err)
	}
	if _, err := s.MemberGrowth(ctx, days); err != nil {
		errs = append(errs, err)
	}
	if _, err := s.PointsFlow(ctx, days); err != nil {
		errs = append(errs, err)
	}
	if _, err := s.LevelDistribution(ctx); err != nil {
		errs = append(errs, err)
	}
	if _, err := s.CheckinRanking(ctx, limit); err != nil {
		errs = append(errs, err)
	}

	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("warm dashboard cache: %w", err)
	}
	return nil
}
