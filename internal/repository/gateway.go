package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ErrDuplicate is returned by Add when a unique index rejects the document
var ErrDuplicate = errors.New("duplicate document")

// Op is a comparison operator in a Where clause
type Op string

const (
	OpEq  Op = "=="
	OpNe  Op = "!="
	OpLt  Op = "<"
	OpLte Op = "<="
	OpGt  Op = ">"
	OpGte Op = ">="
	OpIn  Op = "in"
)

var mongoOps = map[Op]string{
	OpEq:  "$eq",
	OpNe:  "$ne",
	OpLt:  "$lt",
	OpLte: "$lte",
	OpGt:  "$gt",
	OpGte: "$gte",
	OpIn:  "$in",
}

// ErrUnsupportedOp is returned for a Where clause with an unknown operator
var ErrUnsupportedOp = errors.New("unsupported query operator")

type Where struct {
	Field string
	Op    Op
	Value interface{}
}

type OrderBy struct {
	Field string
	Desc  bool
}

// Query selects documents from one collection
type Query struct {
	Where   []Where
	OrderBy []OrderBy
	Limit   int64
}

// Gateway is the document store used by every repository
type Gateway interface {
	// Add inserts doc and returns its id, generating one when doc has none
	Add(ctx context.Context, collection string, doc interface{}) (string, error)

	// Get decodes the document with id into out; false when absent
	Get(ctx context.Context, collection, id string, out interface{}) (bool, error)

	// Query decodes all matches into out, a pointer to a slice
	Query(ctx context.Context, collection string, q Query, out interface{}) error

	Count(ctx context.Context, collection string, where []Where) (int64, error)

	// Each streams matches to fn one at a time
	Each(ctx context.Context, collection string, q Query, fn func(decode func(v interface{}) error) error) error
}

type mongoGateway struct {
	db *mongo.Database
}

// NewGateway creates a MongoDB backed gateway
func NewGateway(db *mongo.Database) Gateway {
	return &mongoGateway{db: db}
}

func (g *mongoGateway) Add(ctx context.Context, collection string, doc interface{}) (string, error) {
	m, id, err := withID(doc)
	if err != nil {
		return "", err
	}
	if _, err := g.db.Collection(collection).InsertOne(ctx, m); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return "", fmt.Errorf("insert into %s: %w: %w", collection, ErrDuplicate, err)
		}
		return "", fmt.Errorf("insert into %s: %w", collection, err)
	}
	return id, nil
}

func (g *mongoGateway) Get(ctx context.Context, collection, id string, out interface{}) (bool, error) {
	err := g.db.Collection(collection).FindOne(ctx, bson.M{"_id": id}).Decode(out)
	if err == mongo.ErrNoDocuments {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("get %s/%s: %w", collection, id, err)
	}
	return true, nil
}

func (g *mongoGateway) Query(ctx context.Context, collection string, q Query, out interface{}) error {
	filter, err := buildFilter(q.Where)
	if err != nil {
		return err
	}
	cursor, err := g.db.Collection(collection).Find(ctx, filter, buildFindOptions(q))
	if err != nil {
		return fmt.Errorf("query %s: %w", collection, err)
	}
	defer cursor.Close(ctx)
	return cursor.All(ctx, out)
}

func (g *mongoGateway) Count(ctx context.Context, collection string, where []Where) (int64, error) {
	filter, err := buildFilter(where)
	if err != nil {
		return 0, err
	}
	return g.db.Collection(collection).CountDocuments(ctx, filter)
}

func (g *mongoGateway) Each(ctx context.Context, collection string, q Query, fn func(decode func(v interface{}) error) error) error {
	filter, err := buildFilter(q.Where)
	if err != nil {
		return err
	}
	cursor, err := g.db.Collection(collection).Find(ctx, filter, buildFindOptions(q))
	if err != nil {
		return fmt.Errorf("query %s: %w", collection, err)
	}
	defer cursor.Close(ctx)

	for cursor.Next(ctx) {
		if err := fn(cursor.Decode); err != nil {
			return err
		}
	}
	return cursor.Err()
}

// withID converts doc to a bson.M carrying a string _id
func withID(doc interface{}) (bson.M, string, error) {
	raw, err := bson.Marshal(doc)
	if err != nil {
		return nil, "", fmt.Errorf("marshal document: %w", err)
	}
	var m bson.M
	if err := bson.Unmarshal(raw, &m); err != nil {
		return nil, "", fmt.Errorf("unmarshal document: %w", err)
	}
	id, _ := m["_id"].(string)
	if id == "" {
		id = uuid.NewString()
		m["_id"] = id
	}
	return m, id, nil
}

// buildFilter turns Where clauses into a Mongo filter. Clauses on the same
// field are merged into one operator document.
func buildFilter(where []Where) (bson.D, error) {
	filter := bson.D{}
	index := make(map[string]int)
	for _, w := range where {
		op, ok := mongoOps[w.Op]
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnsupportedOp, w.Op)
		}
		cond := bson.E{Key: op, Value: w.Value}
		if i, seen := index[w.Field]; seen {
			filter[i].Value = append(filter[i].Value.(bson.D), cond)
			continue
		}
		index[w.Field] = len(filter)
		filter = append(filter, bson.E{Key: w.Field, Value: bson.D{cond}})
	}
	return filter, nil
}

func buildFindOptions(q Query) *options.FindOptions {
	opts := options.Find()
	if len(q.OrderBy) > 0 {
		sort := bson.D{}
		for _, o := range q.OrderBy {
			dir := 1
			if o.Desc {
				dir = -1
			}
			sort = append(sort, bson.E{Key: o.Field, Value: dir})
		}
		opts.SetSort(sort)
	}
	if q.Limit > 0 {
		opts.SetLimit(q.Limit)
	}
	return opts
}
