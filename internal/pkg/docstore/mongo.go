package docstore

import (
	"context"
	"errors"
	"sync"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// mongoNamespaceNotFound is the server error code for a missing collection
const mongoNamespaceNotFound = 26

// Mongo reads from a MongoDB database. MongoDB silently treats a missing
// collection as empty, so existence is checked explicitly to report KindNotFound.
type Mongo struct {
	db *mongo.Database

	// collections seen to exist; misses are re-checked since collections appear lazily
	known sync.Map
}

// NewMongo creates a MongoDB-backed store
func NewMongo(db *mongo.Database) *Mongo {
	return &Mongo{db: db}
}

// Count implements Store
func (m *Mongo) Count(ctx context.Context, collection string, filter Filter) (int64, error) {
	if err := validateQuery("count", collection, Query{Filter: filter}); err != nil {
		return 0, err
	}
	if err := m.ensureExists(ctx, "count", collection); err != nil {
		return 0, err
	}

	n, err := m.db.Collection(collection).CountDocuments(ctx, toBSON(filter))
	if err != nil {
		return 0, m.mapError("count", collection, err)
	}
	return n, nil
}

// Find implements Store
func (m *Mongo) Find(ctx context.Context, collection string, q Query) ([]Document, error) {
	if err := validateQuery("find", collection, q); err != nil {
		return nil, err
	}
	if err := m.ensureExists(ctx, "find", collection); err != nil {
		return nil, err
	}

	opts := options.Find()
	if len(q.Sort) > 0 {
		sortSpec := bson.D{}
		for _, s := range q.Sort {
			dir := 1
			if s.Desc {
				dir = -1
			}
			sortSpec = append(sortSpec, bson.E{Key: s.Field, Value: dir})
		}
		opts.SetSort(sortSpec)
	}
	if q.Limit > 0 {
		opts.SetLimit(int64(q.Limit))
	}

	cursor, err := m.db.Collection(collection).Find(ctx, toBSON(q.Filter), opts)
	if err != nil {
		return nil, m.mapError("find", collection, err)
	}
	var rows []bson.M
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, m.mapError("find", collection, err)
	}

	docs := make([]Document, len(rows))
	for i, row := range rows {
		docs[i] = Document(row)
	}
	return docs, nil
}

func (m *Mongo) ensureExists(ctx context.Context, op, collection string) error {
	if _, ok := m.known.Load(collection); ok {
		return nil
	}
	names, err := m.db.ListCollectionNames(ctx, bson.D{{Key: "name", Value: collection}})
	if err != nil {
		return other(op, collection, err)
	}
	if len(names) == 0 {
		return notFound(op, collection, nil)
	}
	m.known.Store(collection, struct{}{})
	return nil
}

func (m *Mongo) mapError(op, collection string, err error) error {
	if isNamespaceNotFound(err) {
		m.known.Delete(collection)
		return notFound(op, collection, err)
	}
	return other(op, collection, err)
}

func isNamespaceNotFound(err error) bool {
	var cmdErr mongo.CommandError
	return errors.As(err, &cmdErr) && cmdErr.Code == mongoNamespaceNotFound
}

var mongoOps = map[Op]string{
	OpEq:  "$eq",
	OpNe:  "$ne",
	OpGt:  "$gt",
	OpGte: "$gte",
	OpLt:  "$lt",
	OpLte: "$lte",
}

// toBSON groups conditions per field so a range becomes {field: {$gte: a, $lt: b}}
func toBSON(f Filter) bson.D {
	out := bson.D{}
	index := make(map[string]int)
	for _, c := range f {
		expr := bson.E{Key: mongoOps[c.Op], Value: c.Value}
		if i, ok := index[c.Field]; ok {
			ops := out[i].Value.(bson.D)
			out[i].Value = append(ops, expr)
			continue
		}
		index[c.Field] = len(out)
		out = append(out, bson.E{Key: c.Field, Value: bson.D{expr}})
	}
	return out
}
