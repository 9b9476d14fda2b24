package level

import (
	"context"

	"github.com/rocketbird/rocketbird-api/internal/pkg/docstore"
)

// Repository defines level rule data access
type Repository interface {
	// ListActiveRules returns active rules in display order. A missing
	// collection is reported as a docstore NotFound error.
	ListActiveRules(ctx context.Context) ([]Rule, error)
}

type repository struct {
	store docstore.Store
}

// NewRepository creates level rule repository
func NewRepository(store docstore.Store) Repository {
	return &repository{store: store}
}

func (r *repository) ListActiveRules(ctx context.Context) ([]Rule, error) {
	docs, err := r.store.Find(ctx, Collection, docstore.Query{
		Filter: docstore.Filter{docstore.Eq("status", StatusActive)},
		Sort:   []docstore.SortField{{Field: "sortOrder"}},
	})
	if err != nil {
		return nil, err
	}

	rules := make([]Rule, 0, len(docs))
	for _, d := range docs {
		rules = append(rules, ruleFromDocument(d))
	}
	return rules, nil
}
