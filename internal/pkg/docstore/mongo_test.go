package docstore

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

func TestToBSONGroupsRangeByField(t *testing.T) {
	start := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, 1)

	got := toBSON(Between("createdAt", start, end).And(Eq("type", "consume")))

	want := bson.D{
		{Key: "createdAt", Value: bson.D{{Key: "$gte", Value: start}, {Key: "$lt", Value: end}}},
		{Key: "type", Value: bson.D{{Key: "$eq", Value: "consume"}}},
	}
	if fmt.Sprint(got) != fmt.Sprint(want) {
		t.Fatalf("unexpected filter:\n got: %v\nwant: %v", got, want)
	}
}

func TestToBSONEmptyFilter(t *testing.T) {
	if got := toBSON(nil); len(got) != 0 {
		t.Fatalf("expected empty filter, got %v", got)
	}
}

func TestIsNamespaceNotFound(t *testing.T) {
	if !isNamespaceNotFound(mongo.CommandError{Code: 26, Name: "NamespaceNotFound"}) {
		t.Fatalf("expected code 26 to be not found")
	}
	wrapped := fmt.Errorf("count: %w", mongo.CommandError{Code: 26})
	if !isNamespaceNotFound(wrapped) {
		t.Fatalf("expected wrapped code 26 to be not found")
	}
	if isNamespaceNotFound(mongo.CommandError{Code: 13, Name: "Unauthorized"}) {
		t.Fatalf("unauthorized must not be not found")
	}
	if isNamespaceNotFound(errors.New("timeout")) {
		t.Fatalf("plain error must not be not found")
	}
}
