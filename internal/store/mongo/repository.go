// Package mongo implements store.Repository on a MongoDB collection.
// Documents use the entity's bson tags with the id stored as "_id".
package mongo

import (
	"context"
	"errors"
	"fmt"
	"regexp"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"celebhub-backend/internal/store"
)

type Repository[T store.Entity] struct {
	coll   *mongo.Collection
	schema store.Schema[T]
}

func New[T store.Entity](db *mongo.Database, schema store.Schema[T]) *Repository[T] {
	return &Repository[T]{
		coll:   db.Collection(schema.Kind),
		schema: schema,
	}
}

// EnsureIndexes creates the unique and lookup indexes declared by the schema
func (r *Repository[T]) EnsureIndexes(ctx context.Context) error {
	models, err := r.indexes()
	if err != nil {
		return err
	}
	if len(models) == 0 {
		return nil
	}

	if _, err := r.coll.Indexes().CreateMany(ctx, models); err != nil {
		return fmt.Errorf("create indexes on %s: %w", r.schema.Kind, classify(err))
	}
	log.Info().Str("collection", r.schema.Kind).Int("indexes", len(models)).Msg("[MONGO] indexes ensured")
	return nil
}

// indexes renders the schema's index declarations. Sparse fields get a
// partial unique index covering non-empty strings only.
func (r *Repository[T]) indexes() ([]mongo.IndexModel, error) {
	var models []mongo.IndexModel
	for _, name := range r.schema.Unique {
		key, err := r.key(name)
		if err != nil {
			return nil, err
		}
		models = append(models, mongo.IndexModel{
			Keys:    bson.D{{Key: key, Value: 1}},
			Options: options.Index().SetUnique(true).SetName(r.schema.Kind + "_" + name + "_key"),
		})
	}
	for _, name := range r.schema.Sparse {
		key, err := r.key(name)
		if err != nil {
			return nil, err
		}
		models = append(models, mongo.IndexModel{
			Keys: bson.D{{Key: key, Value: 1}},
			Options: options.Index().
				SetUnique(true).
				SetPartialFilterExpression(bson.D{{Key: key, Value: bson.D{{Key: "$gt", Value: ""}}}}).
				SetName(r.schema.Kind + "_" + name + "_key"),
		})
	}
	for _, name := range r.schema.Indexed {
		key, err := r.key(name)
		if err != nil {
			return nil, err
		}
		models = append(models, mongo.IndexModel{
			Keys:    bson.D{{Key: key, Value: 1}},
			Options: options.Index().SetName("idx_" + r.schema.Kind + "_" + name),
		})
	}
	return models, nil
}

func (r *Repository[T]) key(name string) (string, error) {
	f, err := r.schema.Field(name)
	if err != nil {
		return "", err
	}
	if name == "id" {
		return "_id", nil
	}
	return f.BSON, nil
}

func (r *Repository[T]) Save(ctx context.Context, e T) error {
	if e.GetID() == "" {
		e.SetID(uuid.NewString())
	}

	_, err := r.coll.ReplaceOne(ctx, bson.M{"_id": e.GetID()}, e, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("save %s %s: %w", r.schema.Kind, e.GetID(), classify(err))
	}
	return nil
}

func (r *Repository[T]) SaveIf(ctx context.Context, e T, conds ...store.Cond) error {
	if err := store.CheckConditional(r.schema, conds); err != nil {
		return err
	}
	match := bson.D{{Key: "_id", Value: e.GetID()}}
	for _, c := range conds {
		key, err := r.key(c.Field)
		if err != nil {
			return err
		}
		match = append(match, bson.E{Key: key, Value: c.Value})
	}

	res, err := r.coll.ReplaceOne(ctx, match, e)
	if err != nil {
		return fmt.Errorf("save %s %s: %w", r.schema.Kind, e.GetID(), classify(err))
	}
	if res.MatchedCount == 1 {
		return nil
	}

	n, err := r.coll.CountDocuments(ctx, bson.M{"_id": e.GetID()}, options.Count().SetLimit(1))
	if err != nil {
		return fmt.Errorf("check %s %s: %w", r.schema.Kind, e.GetID(), classify(err))
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return store.ErrConflict
}

func (r *Repository[T]) Delete(ctx context.Context, id string) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete %s %s: %w", r.schema.Kind, id, classify(err))
	}
	if res.DeletedCount == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (r *Repository[T]) FindByID(ctx context.Context, id string) (T, error) {
	e := r.schema.New()
	if err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(e); err != nil {
		var zero T
		if errors.Is(err, mongo.ErrNoDocuments) {
			return zero, store.ErrNotFound
		}
		return zero, fmt.Errorf("find %s %s: %w", r.schema.Kind, id, classify(err))
	}
	return e, nil
}

func (r *Repository[T]) FindOne(ctx context.Context, field string, value interface{}) (T, error) {
	var zero T
	rows, err := r.FindAll(ctx, store.Query{Where: []store.Cond{store.Eq(field, value)}, Limit: 1})
	if err != nil {
		return zero, err
	}
	if len(rows) == 0 {
		return zero, store.ErrNotFound
	}
	return rows[0], nil
}

func (r *Repository[T]) FindAll(ctx context.Context, q store.Query) ([]T, error) {
	filter, err := r.filter(q)
	if err != nil {
		return nil, err
	}

	opts := options.Find()
	if q.OrderBy != "" {
		key, _ := r.key(q.OrderBy)
		dir := 1
		if q.Desc {
			dir = -1
		}
		opts.SetSort(bson.D{{Key: key, Value: dir}})
	}
	if q.Limit > 0 {
		opts.SetLimit(int64(q.Limit))
	}

	cur, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", r.schema.Kind, classify(err))
	}
	defer cur.Close(ctx)

	var out []T
	for cur.Next(ctx) {
		e := r.schema.New()
		if err := cur.Decode(e); err != nil {
			return nil, fmt.Errorf("decode %s: %w", r.schema.Kind, err)
		}
		out = append(out, e)
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("list %s: %w", r.schema.Kind, classify(err))
	}
	return out, nil
}

// filter translates the query conditions; several conditions are joined
// with $and so two conditions may target the same key
func (r *Repository[T]) filter(q store.Query) (bson.D, error) {
	if err := r.schema.Validate(q); err != nil {
		return nil, err
	}

	var clauses bson.A
	for _, c := range q.Where {
		key, _ := r.key(c.Field)
		switch c.Op {
		case store.OpEq:
			clauses = append(clauses, bson.D{{Key: key, Value: c.Value}})
		case store.OpPrefix:
			clauses = append(clauses, bson.D{{Key: key, Value: bson.D{
				{Key: "$regex", Value: "^" + regexp.QuoteMeta(c.Value.(string))},
			}}})
		case store.OpContains:
			clauses = append(clauses, bson.D{{Key: key, Value: bson.D{
				{Key: "$regex", Value: regexp.QuoteMeta(c.Value.(string))},
				{Key: "$options", Value: "i"},
			}}})
		case store.OpBefore:
			clauses = append(clauses, bson.D{{Key: key, Value: bson.D{{Key: "$lt", Value: c.Value}}}})
		default:
			return nil, fmt.Errorf("%w: operator %d", store.ErrInvalidQuery, c.Op)
		}
	}

	switch len(clauses) {
	case 0:
		return bson.D{}, nil
	case 1:
		return clauses[0].(bson.D), nil
	}
	return bson.D{{Key: "$and", Value: clauses}}, nil
}
