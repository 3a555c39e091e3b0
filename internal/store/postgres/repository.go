// Package postgres implements store.Repository on PostgreSQL through pgx.
package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"celebhub-backend/internal/store"
)

// DB is the subset of *pgxpool.Pool the repository needs
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type Repository[T store.Entity] struct {
	db     DB
	schema store.Schema[T]
	sql    statements
}

func New[T store.Entity](db DB, schema store.Schema[T]) *Repository[T] {
	return &Repository[T]{
		db:     db,
		schema: schema,
		sql:    buildStatements(schema),
	}
}

func (r *Repository[T]) args(e T) []any {
	out := make([]any, len(r.schema.Fields))
	for i, f := range r.schema.Fields {
		out[i] = f.Ptr(e)
	}
	return out
}

func (r *Repository[T]) Save(ctx context.Context, e T) error {
	if e.GetID() == "" {
		e.SetID(uuid.NewString())
	}

	if _, err := r.db.Exec(ctx, r.sql.upsert, r.args(e)...); err != nil {
		return fmt.Errorf("save %s %s: %w", r.schema.Kind, e.GetID(), classify(err))
	}
	return nil
}

func (r *Repository[T]) SaveIf(ctx context.Context, e T, conds ...store.Cond) error {
	query, err := buildConditionalUpdate(r.schema, conds)
	if err != nil {
		return err
	}

	args := r.args(e)
	for _, c := range conds {
		args = append(args, c.Value)
	}
	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("save %s %s: %w", r.schema.Kind, e.GetID(), classify(err))
	}
	if tag.RowsAffected() == 1 {
		return nil
	}

	var one int
	err = r.db.QueryRow(ctx, r.sql.exists, e.GetID()).Scan(&one)
	if errors.Is(err, pgx.ErrNoRows) {
		return store.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("check %s %s: %w", r.schema.Kind, e.GetID(), classify(err))
	}
	return store.ErrConflict
}

func (r *Repository[T]) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, r.sql.delete, id)
	if err != nil {
		return fmt.Errorf("delete %s %s: %w", r.schema.Kind, id, classify(err))
	}
	if tag.RowsAffected() == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (r *Repository[T]) FindByID(ctx context.Context, id string) (T, error) {
	e := r.schema.New()
	if err := r.db.QueryRow(ctx, r.sql.byID, id).Scan(r.args(e)...); err != nil {
		var zero T
		if errors.Is(err, pgx.ErrNoRows) {
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
	query, args, err := buildSelect(r.schema, q)
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", r.schema.Kind, classify(err))
	}
	defer rows.Close()

	var out []T
	for rows.Next() {
		e := r.schema.New()
		if err := rows.Scan(r.args(e)...); err != nil {
			return nil, fmt.Errorf("scan %s: %w", r.schema.Kind, err)
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list %s: %w", r.schema.Kind, classify(err))
	}
	return out, nil
}
