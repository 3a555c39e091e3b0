// Package store is the entity persistence layer. One Repository contract is
// implemented by the postgres, mongo and memstore sub-packages; the process
// picks one backend at startup.
package store

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"time"
)

var (
	ErrNotFound     = errors.New("entity not found")
	ErrDuplicate    = errors.New("unique constraint violated")
	ErrConflict     = errors.New("entity changed concurrently")
	ErrUnavailable  = errors.New("store unavailable")
	ErrInvalidQuery = errors.New("invalid query")
)

// Entity is implemented by every persisted model (pointer receiver)
type Entity interface {
	GetID() string
	SetID(id string)
}

// Repository is the uniform CRUD contract over one entity kind
type Repository[T Entity] interface {
	// Save inserts the entity (assigning an id when empty) or fully replaces it
	Save(ctx context.Context, e T) error

	// SaveIf replaces an existing entity only while every cond (equality
	// only) still holds for the stored value. Returns ErrConflict otherwise.
	SaveIf(ctx context.Context, e T, conds ...Cond) error

	// Delete removes the entity. Deleting a missing id returns ErrNotFound.
	Delete(ctx context.Context, id string) error

	FindByID(ctx context.Context, id string) (T, error)

	// FindOne returns the single entity whose field equals value
	FindOne(ctx context.Context, field string, value interface{}) (T, error)

	FindAll(ctx context.Context, q Query) ([]T, error)
}

// =====================================================
// QUERIES
// =====================================================

type Op int

const (
	OpEq Op = iota
	OpPrefix
	OpContains // case-insensitive substring
	OpBefore   // time field strictly before value
)

type Cond struct {
	Field string
	Op    Op
	Value interface{}
}

func Eq(field string, value interface{}) Cond { return Cond{Field: field, Op: OpEq, Value: value} }

func Prefix(field, value string) Cond { return Cond{Field: field, Op: OpPrefix, Value: value} }

func Contains(field, value string) Cond { return Cond{Field: field, Op: OpContains, Value: value} }

func Before(field string, t time.Time) Cond { return Cond{Field: field, Op: OpBefore, Value: t} }

type Query struct {
	Where   []Cond
	OrderBy string
	Desc    bool
	Limit   int
}

// =====================================================
// SCHEMA
// =====================================================

// Field maps one logical field to its storage locations
type Field[T Entity] struct {
	Name string // logical name, also the SQL column
	BSON string // document key path, e.g. "feature.status"
	Ptr  func(T) interface{}
}

// Schema describes how an entity kind is stored
type Schema[T Entity] struct {
	Kind    string // table and collection name
	New     func() T
	Fields  []Field[T]
	Unique  []string
	Sparse  []string // unique among non-empty values only
	Indexed []string // non-unique lookup fields, indexed by the document store
}

// Field looks up a whitelisted field
func (s Schema[T]) Field(name string) (Field[T], error) {
	for _, f := range s.Fields {
		if f.Name == name {
			return f, nil
		}
	}
	return Field[T]{}, fmt.Errorf("%w: unknown field %q on %s", ErrInvalidQuery, name, s.Kind)
}

// Validate checks every field referenced by q against the whitelist
func (s Schema[T]) Validate(q Query) error {
	for _, c := range q.Where {
		if _, err := s.Field(c.Field); err != nil {
			return err
		}
		switch c.Op {
		case OpPrefix, OpContains:
			if _, ok := c.Value.(string); !ok {
				return fmt.Errorf("%w: %s needs a string operand", ErrInvalidQuery, c.Field)
			}
		case OpBefore:
			if _, ok := c.Value.(time.Time); !ok {
				return fmt.Errorf("%w: %s needs a time operand", ErrInvalidQuery, c.Field)
			}
		}
	}
	if q.OrderBy != "" {
		if _, err := s.Field(q.OrderBy); err != nil {
			return err
		}
	}
	return nil
}

// CheckConditional validates the guard of a conditional save: at least one
// condition, equality only, on known fields
func CheckConditional[T Entity](s Schema[T], conds []Cond) error {
	if len(conds) == 0 {
		return fmt.Errorf("%w: conditional save needs a condition", ErrInvalidQuery)
	}
	for _, c := range conds {
		if c.Op != OpEq {
			return fmt.Errorf("%w: conditional save needs an equality condition", ErrInvalidQuery)
		}
		if _, err := s.Field(c.Field); err != nil {
			return err
		}
	}
	return nil
}

// Value reads the current value of field f from e
func (f Field[T]) Value(e T) interface{} {
	return reflect.ValueOf(f.Ptr(e)).Elem().Interface()
}

// Clone deep-copies e field by field
func (s Schema[T]) Clone(e T) T {
	out := s.New()
	for _, f := range s.Fields {
		src := reflect.ValueOf(f.Ptr(e)).Elem()
		dst := reflect.ValueOf(f.Ptr(out)).Elem()
		if src.Kind() == reflect.Ptr && !src.IsNil() {
			cp := reflect.New(src.Elem().Type())
			cp.Elem().Set(src.Elem())
			dst.Set(cp)
			continue
		}
		dst.Set(src)
	}
	return out
}
