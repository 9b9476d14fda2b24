package docstore

import (
	"errors"
	"testing"
	"time"

	"github.com/lib/pq"
)

func TestBuildCountSQL(t *testing.T) {
	start := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, 1)

	query, args, err := buildCountSQL("points_records", Between("createdAt", start, end).And(Eq("type", "earn")))
	if err != nil {
		t.Fatalf("build: %v", err)
	}

	want := `SELECT COUNT(*) FROM "points_records" WHERE ` +
		`COALESCE(doc->$1::text->>'$date', doc->>$1::text)::timestamptz >= $2::timestamptz AND ` +
		`COALESCE(doc->$3::text->>'$date', doc->>$3::text)::timestamptz < $4::timestamptz AND ` +
		`doc->>$5::text = $6::text`
	if query != want {
		t.Fatalf("unexpected sql:\n got: %s\nwant: %s", query, want)
	}
	if len(args) != 6 || args[0] != "createdAt" || args[4] != "type" || args[5] != "earn" {
		t.Fatalf("unexpected args: %v", args)
	}
}

func TestBuildCountSQLNumericAndJSON(t *testing.T) {
	query, args, err := buildCountSQL("exchange_orders", Filter{Eq("status", 0), Eq("archived", false)})
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	want := `SELECT COUNT(*) FROM "exchange_orders" WHERE ` +
		`(doc->>$1::text)::numeric = $2::numeric AND doc->$3::text = $4::jsonb`
	if query != want {
		t.Fatalf("unexpected sql:\n got: %s\nwant: %s", query, want)
	}
	if args[3] != "false" {
		t.Fatalf("expected json encoded bool, got %v", args[3])
	}
}

func TestBuildCountSQLNoFilter(t *testing.T) {
	query, args, err := buildCountSQL("users", nil)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if query != `SELECT COUNT(*) FROM "users"` || len(args) != 0 {
		t.Fatalf("unexpected: %s %v", query, args)
	}
}

func TestBuildFindSQLSortAndLimit(t *testing.T) {
	query, args, err := buildFindSQL("users", Query{
		Sort:  []SortField{{Field: "totalCheckins", Desc: true}},
		Limit: 10,
	})
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	want := `SELECT doc FROM "users" ORDER BY doc->$1::text DESC NULLS LAST LIMIT $2`
	if query != want {
		t.Fatalf("unexpected sql:\n got: %s\nwant: %s", query, want)
	}
	if args[0] != "totalCheckins" || args[1] != 10 {
		t.Fatalf("unexpected args: %v", args)
	}
}

func TestBuildWhereRejectsRangeOnJSONValue(t *testing.T) {
	var args []interface{}
	_, err := buildWhere(Filter{Gte("flag", true)}, &args)
	if !errors.Is(err, ErrInvalidOperator) {
		t.Fatalf("expected ErrInvalidOperator, got %v", err)
	}
}

func TestMapPostgresError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Kind
	}{
		{name: "undefined table", err: &pq.Error{Code: "42P01"}, want: KindNotFound},
		{name: "syntax error", err: &pq.Error{Code: "42601"}, want: KindOther},
		{name: "connection", err: errors.New("dial tcp: connection refused"), want: KindOther},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			mapped := mapPostgresError("count", "users", tc.err)
			if KindOf(mapped) != tc.want {
				t.Fatalf("expected %s, got %s", tc.want, KindOf(mapped))
			}
			if !errors.Is(mapped, tc.err) {
				t.Fatalf("expected cause to be preserved")
			}
		})
	}
}

func TestDecodeJSONDocumentKeepsNumbers(t *testing.T) {
	doc, err := decodeJSONDocument([]byte(`{"points": -50, "createdAt": "2026-03-10T08:00:00Z"}`))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if doc.Float("points") != -50 {
		t.Fatalf("expected -50, got %v", doc.Float("points"))
	}
	ts, ok := doc.Time("createdAt")
	if !ok || ts.Hour() != 8 {
		t.Fatalf("expected parsed time, got %v %v", ts, ok)
	}
}
