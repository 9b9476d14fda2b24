package dashboard

import (
	"context"

	"github.com/rocketbird/rocketbird-api/internal/pkg/docstore"
	"github.com/rocketbird/rocketbird-api/internal/pkg/logger"
)

// Accessor reads from the store and treats a collection that has not been
// provisioned as empty. Every other failure is returned unchanged.
type Accessor struct {
	store docstore.Store
}

// NewAccessor creates accessor
func NewAccessor(store docstore.Store) *Accessor {
	return &Accessor{store: store}
}

// Count returns the number of matching records, 0 when the collection is missing
func (a *Accessor) Count(ctx context.Context, collection string, filter docstore.Filter) (int64, error) {
	n, err := a.store.Count(ctx, collection, filter)
	if err != nil {
		if docstore.IsNotFound(err) {
			logMissing(ctx, "count", collection)
			return 0, nil
		}
		return 0, err
	}
	return n, nil
}

// List returns matching records, empty when the collection is missing
func (a *Accessor) List(ctx context.Context, collection string, q docstore.Query) ([]docstore.Document, error) {
	docs, err := a.store.Find(ctx, collection, q)
	if err != nil {
		if docstore.IsNotFound(err) {
			logMissing(ctx, "find", collection)
			return []docstore.Document{}, nil
		}
		return nil, err
	}
	if docs == nil {
		docs = []docstore.Document{}
	}
	return docs, nil
}

// SumMagnitude sums |field| over the matching records
func (a *Accessor) SumMagnitude(ctx context.Context, collection, field string, filter docstore.Filter) (int64, error) {
	docs, err := a.List(ctx, collection, docstore.Query{Filter: filter})
	if err != nil {
		return 0, err
	}
	var sum int64
	for _, d := range docs {
		v := d.Int(field)
		if v < 0 {
			v = -v
		}
		sum += v
	}
	return sum, nil
}

func logMissing(ctx context.Context, op, collection string) {
	logger.FromContext(ctx).Debug().
		Str("op", op).
		Str("collection", collection).
		Msg("Collection not provisioned, treating as empty")
}
