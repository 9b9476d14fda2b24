package docstore

import (
	"encoding/json"
	"strconv"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Document is a single schema-less record
type Document map[string]interface{}

// String returns the field as a string, or "" when absent
func (d Document) String(field string) string {
	switch v := d[field].(type) {
	case string:
		return v
	case nil:
		return ""
	case primitive.ObjectID:
		return v.Hex()
	case json.Number:
		return v.String()
	default:
		if f, ok := toFloat(v); ok {
			return strconv.FormatFloat(f, 'f', -1, 64)
		}
		return ""
	}
}

// Has reports whether the field is present and not null
func (d Document) Has(field string) bool {
	v, ok := d[field]
	return ok && v != nil
}

// Float returns the field as float64; absent or non-numeric fields yield 0
func (d Document) Float(field string) float64 {
	f, _ := toFloat(d[field])
	return f
}

// Int returns the field as int64; absent or non-numeric fields yield 0
func (d Document) Int(field string) int64 {
	f, _ := toFloat(d[field])
	return int64(f)
}

// Time returns the field as a time; ok is false when absent or unparseable
func (d Document) Time(field string) (time.Time, bool) {
	return toTime(d[field])
}

func toFloat(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	case primitive.Decimal128:
		f, err := strconv.ParseFloat(n.String(), 64)
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(n, 64)
		return f, err == nil
	}
	return 0, false
}

func toTime(v interface{}) (time.Time, bool) {
	switch t := v.(type) {
	case time.Time:
		return t, true
	case primitive.DateTime:
		return t.Time(), true
	case string:
		if ts, err := time.Parse(time.RFC3339Nano, t); err == nil {
			return ts, true
		}
		return time.Time{}, false
	case map[string]interface{}:
		// extended JSON export: {"$date": "..."}
		if raw, ok := t["$date"]; ok {
			return toTime(raw)
		}
	}
	return time.Time{}, false
}
