package docstore

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// pgUndefinedTable is raised when a collection table has not been created
const pgUndefinedTable = "42P01"

// Postgres stores every collection as a table of JSONB documents:
//
//	CREATE TABLE <collection> (id text PRIMARY KEY, doc jsonb NOT NULL)
type Postgres struct {
	db *sqlx.DB
}

// NewPostgres creates a Postgres-backed store
func NewPostgres(db *sqlx.DB) *Postgres {
	return &Postgres{db: db}
}

// Count implements Store
func (p *Postgres) Count(ctx context.Context, collection string, filter Filter) (int64, error) {
	if err := validateQuery("count", collection, Query{Filter: filter}); err != nil {
		return 0, err
	}
	query, args, err := buildCountSQL(collection, filter)
	if err != nil {
		return 0, other("count", collection, err)
	}

	var n int64
	if err := p.db.GetContext(ctx, &n, query, args...); err != nil {
		return 0, mapPostgresError("count", collection, err)
	}
	return n, nil
}

// Find implements Store
func (p *Postgres) Find(ctx context.Context, collection string, q Query) ([]Document, error) {
	if err := validateQuery("find", collection, q); err != nil {
		return nil, err
	}
	query, args, err := buildFindSQL(collection, q)
	if err != nil {
		return nil, other("find", collection, err)
	}

	var raws [][]byte
	if err := p.db.SelectContext(ctx, &raws, query, args...); err != nil {
		return nil, mapPostgresError("find", collection, err)
	}

	docs := make([]Document, 0, len(raws))
	for _, raw := range raws {
		doc, err := decodeJSONDocument(raw)
		if err != nil {
			return nil, other("find", collection, err)
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

func mapPostgresError(op, collection string, err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == pgUndefinedTable {
		return notFound(op, collection, err)
	}
	return other(op, collection, err)
}

func decodeJSONDocument(raw []byte) (Document, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var doc Document
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode document: %w", err)
	}
	return doc, nil
}

func buildCountSQL(collection string, f Filter) (string, []interface{}, error) {
	var args []interface{}
	where, err := buildWhere(f, &args)
	if err != nil {
		return "", nil, err
	}
	return "SELECT COUNT(*) FROM " + pq.QuoteIdentifier(collection) + where, args, nil
}

func buildFindSQL(collection string, q Query) (string, []interface{}, error) {
	var args []interface{}
	where, err := buildWhere(q.Filter, &args)
	if err != nil {
		return "", nil, err
	}

	var sb strings.Builder
	sb.WriteString("SELECT doc FROM ")
	sb.WriteString(pq.QuoteIdentifier(collection))
	sb.WriteString(where)

	if len(q.Sort) > 0 {
		parts := make([]string, 0, len(q.Sort))
		for _, s := range q.Sort {
			args = append(args, s.Field)
			dir := "ASC"
			if s.Desc {
				dir = "DESC"
			}
			parts = append(parts, fmt.Sprintf("doc->$%d::text %s NULLS LAST", len(args), dir))
		}
		sb.WriteString(" ORDER BY ")
		sb.WriteString(strings.Join(parts, ", "))
	}
	if q.Limit > 0 {
		args = append(args, q.Limit)
		fmt.Fprintf(&sb, " LIMIT $%d", len(args))
	}
	return sb.String(), args, nil
}

var sqlOps = map[Op]string{
	OpEq:  "=",
	OpNe:  "IS DISTINCT FROM",
	OpGt:  ">",
	OpGte: ">=",
	OpLt:  "<",
	OpLte: "<=",
}

func buildWhere(f Filter, args *[]interface{}) (string, error) {
	if len(f) == 0 {
		return "", nil
	}
	parts := make([]string, 0, len(f))
	for _, c := range f {
		sqlOp, ok := sqlOps[c.Op]
		if !ok {
			return "", ErrInvalidOperator
		}
		*args = append(*args, c.Field)
		fieldArg := len(*args)

		var lhs, cast string
		value := c.Value
		switch v := value.(type) {
		case time.Time:
			// RFC3339 string or extended JSON {"$date": "..."}
			lhs = fmt.Sprintf("COALESCE(doc->$%[1]d::text->>'$date', doc->>$%[1]d::text)::timestamptz", fieldArg)
			cast = "timestamptz"
		case string:
			lhs, cast = fmt.Sprintf("doc->>$%d::text", fieldArg), "text"
		case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, float32, float64:
			lhs, cast = fmt.Sprintf("(doc->>$%d::text)::numeric", fieldArg), "numeric"
		default:
			if c.Op != OpEq && c.Op != OpNe {
				return "", fmt.Errorf("%w: %s on %T", ErrInvalidOperator, c.Op, v)
			}
			raw, err := json.Marshal(v)
			if err != nil {
				return "", fmt.Errorf("encode filter value: %w", err)
			}
			lhs, cast, value = fmt.Sprintf("doc->$%d::text", fieldArg), "jsonb", string(raw)
		}

		*args = append(*args, value)
		parts = append(parts, fmt.Sprintf("%s %s $%d::%s", lhs, sqlOp, len(*args), cast))
	}
	return " WHERE " + strings.Join(parts, " AND "), nil
}
