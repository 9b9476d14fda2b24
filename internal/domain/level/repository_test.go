package level

import (
	"context"
	"testing"

	"github.com/rocketbird/rocketbird-api/internal/pkg/docstore"
)

func TestListActiveRulesFiltersAndOrders(t *testing.T) {
	store := docstore.NewMemory()
	store.Insert(Collection,
		docstore.Document{"levelId": "gold", "name": "Gold", "sortOrder": 3, "status": 1},
		docstore.Document{"levelId": "normal", "name": "Normal", "sortOrder": 1, "status": 1},
		docstore.Document{"levelId": "retired", "name": "Retired", "sortOrder": 0, "status": 0},
		docstore.Document{"levelId": "silver", "name": "Silver", "sortOrder": 2, "status": 1},
	)

	rules, err := NewRepository(store).ListActiveRules(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []string{"normal", "silver", "gold"}
	if len(rules) != len(want) {
		t.Fatalf("expected %d rules, got %d", len(want), len(rules))
	}
	for i, id := range want {
		if rules[i].LevelID != id {
			t.Fatalf("position %d: expected %s, got %s", i, id, rules[i].LevelID)
		}
		if !rules[i].IsActive() {
			t.Fatalf("rule %s should be active", id)
		}
	}
}

func TestListActiveRulesMissingCollection(t *testing.T) {
	_, err := NewRepository(docstore.NewMemory()).ListActiveRules(context.Background())
	if !docstore.IsNotFound(err) {
		t.Fatalf("expected not found error, got %v", err)
	}
}
