// Package docstore is a read-only view over a schema-less document store.
// Collections are created lazily by writers, so readers must be ready for a
// collection that does not exist yet; adapters report that case as KindNotFound.
package docstore

import (
	"context"
	"regexp"
	"time"
)

// Store reads documents from named collections
type Store interface {
	// Count returns the number of documents matching filter
	Count(ctx context.Context, collection string, filter Filter) (int64, error)
	// Find returns the documents matching q
	Find(ctx context.Context, collection string, q Query) ([]Document, error)
}

// Op is a comparison operator
type Op string

const (
	OpEq  Op = "eq"
	OpNe  Op = "ne"
	OpGt  Op = "gt"
	OpGte Op = "gte"
	OpLt  Op = "lt"
	OpLte Op = "lte"
)

// Condition compares one document field against a value
type Condition struct {
	Field string
	Op    Op
	Value interface{}
}

// Filter is a conjunction of conditions. An empty filter matches everything.
type Filter []Condition

// SortField orders results by a field
type SortField struct {
	Field string
	Desc  bool
}

// Query selects documents
type Query struct {
	Filter Filter
	Sort   []SortField
	Limit  int // 0 means no limit
}

// Eq matches documents whose field equals value
func Eq(field string, value interface{}) Condition {
	return Condition{Field: field, Op: OpEq, Value: value}
}

// Gte matches documents whose field is >= value
func Gte(field string, value interface{}) Condition {
	return Condition{Field: field, Op: OpGte, Value: value}
}

// Lt matches documents whose field is < value
func Lt(field string, value interface{}) Condition {
	return Condition{Field: field, Op: OpLt, Value: value}
}

// Between returns the half-open range [start, end) on field
func Between(field string, start, end time.Time) Filter {
	return Filter{Gte(field, start), Lt(field, end)}
}

// And returns a new filter holding the conditions of f followed by conds
func (f Filter) And(conds ...Condition) Filter {
	out := make(Filter, 0, len(f)+len(conds))
	out = append(out, f...)
	return append(out, conds...)
}

var identRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// ValidName reports whether s can be used as a collection or field name
func ValidName(s string) bool {
	return identRe.MatchString(s)
}

func validateQuery(op, collection string, q Query) error {
	if !ValidName(collection) {
		return &Error{Kind: KindOther, Op: op, Collection: collection, Err: ErrInvalidName}
	}
	for _, c := range q.Filter {
		if !ValidName(c.Field) {
			return &Error{Kind: KindOther, Op: op, Collection: collection, Err: ErrInvalidName}
		}
		switch c.Op {
		case OpEq, OpNe, OpGt, OpGte, OpLt, OpLte:
		default:
			return &Error{Kind: KindOther, Op: op, Collection: collection, Err: ErrInvalidOperator}
		}
	}
	for _, s := range q.Sort {
		if !ValidName(s.Field) {
			return &Error{Kind: KindOther, Op: op, Collection: collection, Err: ErrInvalidName}
		}
	}
	if q.Limit < 0 {
		return &Error{Kind: KindOther, Op: op, Collection: collection, Err: ErrInvalidLimit}
	}
	return nil
}
