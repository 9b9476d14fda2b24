package level

import "github.com/rocketbird/rocketbird-api/internal/pkg/docstore"

// Collection holds the level rule documents
const Collection = "level_rules"

// Rule status values
const (
	StatusInactive = 0
	StatusActive   = 1
)

// Rule is a membership level definition
type Rule struct {
	LevelID   string `json:"levelId"`
	Name      string `json:"name"`
	Code      string `json:"code,omitempty"`
	SortOrder int    `json:"sortOrder"`
	Status    int    `json:"status"`
}

// IsActive returns true if the rule takes part in level distribution
func (r *Rule) IsActive() bool {
	return r.Status == StatusActive
}

func ruleFromDocument(d docstore.Document) Rule {
	return Rule{
		LevelID:   d.String("levelId"),
		Name:      d.String("name"),
		Code:      d.String("code"),
		SortOrder: int(d.Int("sortOrder")),
		Status:    int(d.Int("status")),
	}
}
