package docstore

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestMemoryMissingCollectionIsNotFound(t *testing.T) {
	store := NewMemory()

	_, err := store.Count(context.Background(), "users", nil)
	if !IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
	if !errors.Is(err, ErrCollectionNotFound) {
		t.Fatalf("expected errors.Is(ErrCollectionNotFound), got %v", err)
	}

	_, err = store.Find(context.Background(), "users", Query{})
	if KindOf(err) != KindNotFound {
		t.Fatalf("expected KindNotFound, got %v", KindOf(err))
	}
}

func TestMemoryCreateCollectionIsEmpty(t *testing.T) {
	store := NewMemory()
	store.CreateCollection("users")

	n, err := store.Count(context.Background(), "users", nil)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 0 {
		t.Fatalf("expected 0, got %d", n)
	}
}

func TestMemoryFilters(t *testing.T) {
	day := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	store := NewMemory()
	store.Insert("points_records",
		Document{"type": "earn", "points": 10, "createdAt": day.Add(2 * time.Hour)},
		Document{"type": "earn", "points": 5, "createdAt": day.Add(-time.Hour)},
		Document{"type": "consume", "points": -20, "createdAt": day.Add(3 * time.Hour)},
		Document{"type": "earn", "points": 7, "createdAt": day.Add(24 * time.Hour).Format(time.RFC3339)},
	)

	tests := []struct {
		name   string
		filter Filter
		want   int64
	}{
		{name: "all", filter: nil, want: 4},
		{name: "eq string", filter: Filter{Eq("type", "earn")}, want: 3},
		{name: "day range", filter: Between("createdAt", day, day.AddDate(0, 0, 1)), want: 2},
		{name: "range and type", filter: Between("createdAt", day, day.AddDate(0, 0, 1)).And(Eq("type", "earn")), want: 1},
		{name: "rfc3339 string dates", filter: Filter{Gte("createdAt", day.AddDate(0, 0, 1))}, want: 1},
		{name: "numeric lt", filter: Filter{Lt("points", 0)}, want: 1},
		{name: "ne", filter: Filter{{Field: "type", Op: OpNe, Value: "earn"}}, want: 1},
		{name: "missing field never equal", filter: Filter{Eq("status", 0)}, want: 0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			n, err := store.Count(context.Background(), "points_records", tc.filter)
			if err != nil {
				t.Fatalf("count: %v", err)
			}
			if n != tc.want {
				t.Fatalf("expected %d, got %d", tc.want, n)
			}
		})
	}
}

func TestMemoryFindSortsMissingLastAndLimits(t *testing.T) {
	store := NewMemory()
	store.Insert("users",
		Document{"userId": "a", "totalCheckins": 15},
		Document{"userId": "b"},
		Document{"userId": "c", "totalCheckins": 30},
		Document{"userId": "d", "totalCheckins": 5},
	)

	docs, err := store.Find(context.Background(), "users", Query{
		Sort: []SortField{{Field: "totalCheckins", Desc: true}},
	})
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	got := ""
	for _, d := range docs {
		got += d.String("userId")
	}
	if got != "cadb" {
		t.Fatalf("expected order cadb, got %s", got)
	}

	docs, err = store.Find(context.Background(), "users", Query{
		Sort:  []SortField{{Field: "totalCheckins", Desc: true}},
		Limit: 2,
	})
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if len(docs) != 2 || docs[0].Int("totalCheckins") != 30 || docs[1].Int("totalCheckins") != 15 {
		t.Fatalf("unexpected limited result: %v", docs)
	}
}

func TestMemoryFailIsKindOther(t *testing.T) {
	boom := errors.New("connection reset")
	store := NewMemory()
	store.Fail("users", boom)

	_, err := store.Count(context.Background(), "users", nil)
	if err == nil {
		t.Fatalf("expected error")
	}
	if IsNotFound(err) {
		t.Fatalf("injected failure must not be not-found")
	}
	if !errors.Is(err, boom) {
		t.Fatalf("expected wrapped cause, got %v", err)
	}

	store.Fail("users", nil)
	if _, err := store.Count(context.Background(), "users", nil); !IsNotFound(err) {
		t.Fatalf("expected not found after clearing failure, got %v", err)
	}
}

func TestMemoryRejectsInvalidNames(t *testing.T) {
	store := NewMemory()
	store.CreateCollection("users")

	_, err := store.Count(context.Background(), "users; drop", nil)
	if !errors.Is(err, ErrInvalidName) {
		t.Fatalf("expected ErrInvalidName, got %v", err)
	}
	_, err = store.Count(context.Background(), "users", Filter{Eq("a.b", 1)})
	if !errors.Is(err, ErrInvalidName) {
		t.Fatalf("expected ErrInvalidName for field, got %v", err)
	}
	if IsNotFound(err) {
		t.Fatalf("invalid name must not be reported as not found")
	}
}
