package docstore

import (
	"context"
	"sort"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Memory is a thread-safe, in-memory Store. Collections exist only after
// CreateCollection or Insert, mirroring a lazily provisioned database.
type Memory struct {
	mu          sync.RWMutex
	collections map[string][]Document
	failures    map[string]error
}

// NewMemory creates an empty in-memory store
func NewMemory() *Memory {
	return &Memory{
		collections: make(map[string][]Document),
		failures:    make(map[string]error),
	}
}

// CreateCollection provisions an empty collection if it does not exist
func (m *Memory) CreateCollection(name string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.collections[name]; !ok {
		m.collections[name] = []Document{}
	}
}

// Insert appends documents, creating the collection on first use
func (m *Memory) Insert(collection string, docs ...Document) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, d := range docs {
		m.collections[collection] = append(m.collections[collection], copyDoc(d))
	}
	if _, ok := m.collections[collection]; !ok {
		m.collections[collection] = []Document{}
	}
}

// Fail makes every read of collection return err. A nil err clears it.
func (m *Memory) Fail(collection string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err == nil {
		delete(m.failures, collection)
		return
	}
	m.failures[collection] = err
}

// Count implements Store
func (m *Memory) Count(ctx context.Context, collection string, filter Filter) (int64, error) {
	docs, err := m.read(ctx, "count", collection, Query{Filter: filter})
	if err != nil {
		return 0, err
	}
	return int64(len(docs)), nil
}

// Find implements Store
func (m *Memory) Find(ctx context.Context, collection string, q Query) ([]Document, error) {
	docs, err := m.read(ctx, "find", collection, q)
	if err != nil {
		return nil, err
	}
	if len(q.Sort) > 0 {
		sort.SliceStable(docs, func(i, j int) bool {
			return lessDocs(docs[i], docs[j], q.Sort)
		})
	}
	if q.Limit > 0 && len(docs) > q.Limit {
		docs = docs[:q.Limit]
	}
	out := make([]Document, len(docs))
	for i, d := range docs {
		out[i] = copyDoc(d)
	}
	return out, nil
}

func (m *Memory) read(ctx context.Context, op, collection string, q Query) ([]Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, other(op, collection, err)
	}
	if err := validateQuery(op, collection, q); err != nil {
		return nil, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	if err, ok := m.failures[collection]; ok {
		return nil, other(op, collection, err)
	}
	all, ok := m.collections[collection]
	if !ok {
		return nil, notFound(op, collection, nil)
	}

	matched := make([]Document, 0, len(all))
	for _, d := range all {
		if matches(d, q.Filter) {
			matched = append(matched, d)
		}
	}
	return matched, nil
}

func matches(d Document, f Filter) bool {
	for _, c := range f {
		v, present := d[c.Field]
		if c.Op == OpNe {
			if !present || v == nil {
				continue
			}
			if cmp, ok := compare(v, c.Value); ok && cmp == 0 {
				return false
			}
			continue
		}
		if !present || v == nil {
			return false
		}
		cmp, ok := compare(v, c.Value)
		if !ok {
			return false
		}
		switch c.Op {
		case OpEq:
			if cmp != 0 {
				return false
			}
		case OpGt:
			if cmp <= 0 {
				return false
			}
		case OpGte:
			if cmp < 0 {
				return false
			}
		case OpLt:
			if cmp >= 0 {
				return false
			}
		case OpLte:
			if cmp > 0 {
				return false
			}
		}
	}
	return true
}

// compare orders a relative to b using b's type to pick the domain.
// ok is false when the two values are not comparable.
func compare(a, b interface{}) (int, bool) {
	switch bv := b.(type) {
	case time.Time, primitive.DateTime:
		ta, ok1 := toTime(a)
		tb, ok2 := toTime(bv)
		if !ok1 || !ok2 {
			return 0, false
		}
		return compareTime(ta, tb), true
	case string:
		as, ok := a.(string)
		if !ok {
			return 0, false
		}
		switch {
		case as < bv:
			return -1, true
		case as > bv:
			return 1, true
		}
		return 0, true
	case bool:
		ab, ok := a.(bool)
		if !ok {
			return 0, false
		}
		switch {
		case ab == bv:
			return 0, true
		case !ab:
			return -1, true
		}
		return 1, true
	}

	fa, ok1 := toFloat(a)
	fb, ok2 := toFloat(b)
	if !ok1 || !ok2 {
		return 0, false
	}
	switch {
	case fa < fb:
		return -1, true
	case fa > fb:
		return 1, true
	}
	return 0, true
}

func compareTime(a, b time.Time) int {
	switch {
	case a.Before(b):
		return -1
	case a.After(b):
		return 1
	}
	return 0
}

// lessDocs sorts missing values last in both directions
func lessDocs(a, b Document, keys []SortField) bool {
	for _, k := range keys {
		av, bv := a[k.Field], b[k.Field]
		switch {
		case av == nil && bv == nil:
			continue
		case av == nil:
			return false
		case bv == nil:
			return true
		}
		cmp, ok := compare(av, bv)
		if !ok || cmp == 0 {
			continue
		}
		if k.Desc {
			return cmp > 0
		}
		return cmp < 0
	}
	return false
}

func copyDoc(d Document) Document {
	out := make(Document, len(d))
	for k, v := range d {
		out[k] = v
	}
	return out
}
