// Package memstore keeps entities in process memory. It backs the test suite
// and STORE_BACKEND=memory for local development.
package memstore

import (
	"context"
	"fmt"
	"reflect"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"celebhub-backend/internal/store"
)

type Repository[T store.Entity] struct {
	mu     sync.RWMutex
	schema store.Schema[T]
	rows   map[string]T
	seq    map[string]int64 // insertion order, tie breaker for sorting
	next   int64
}

func New[T store.Entity](schema store.Schema[T]) *Repository[T] {
	return &Repository[T]{
		schema: schema,
		rows:   make(map[string]T),
		seq:    make(map[string]int64),
	}
}

func (r *Repository[T]) Save(_ context.Context, e T) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if e.GetID() == "" {
		e.SetID(uuid.NewString())
	}
	return r.put(e)
}

func (r *Repository[T]) SaveIf(_ context.Context, e T, conds ...store.Cond) error {
	if err := store.CheckConditional(r.schema, conds); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	cur, ok := r.rows[e.GetID()]
	if !ok {
		return store.ErrNotFound
	}
	if !r.matches(cur, conds) {
		return store.ErrConflict
	}
	return r.put(e)
}

// put enforces unique fields then stores a copy. Caller holds the lock.
func (r *Repository[T]) put(e T) error {
	id := e.GetID()
	for _, name := range append(append([]string(nil), r.schema.Unique...), r.schema.Sparse...) {
		f, err := r.schema.Field(name)
		if err != nil {
			return err
		}
		v := f.Value(e)
		if r.sparse(name) && reflect.ValueOf(v).IsZero() {
			continue
		}
		for otherID, other := range r.rows {
			if otherID != id && equal(f.Value(other), v) {
				return fmt.Errorf("%w: %s.%s", store.ErrDuplicate, r.schema.Kind, name)
			}
		}
	}

	if _, exists := r.rows[id]; !exists {
		r.next++
		r.seq[id] = r.next
	}
	r.rows[id] = r.schema.Clone(e)
	return nil
}

func (r *Repository[T]) sparse(name string) bool {
	for _, s := range r.schema.Sparse {
		if s == name {
			return true
		}
	}
	return false
}

func (r *Repository[T]) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.rows[id]; !ok {
		return store.ErrNotFound
	}
	delete(r.rows, id)
	delete(r.seq, id)
	return nil
}

func (r *Repository[T]) FindByID(_ context.Context, id string) (T, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.rows[id]
	if !ok {
		var zero T
		return zero, store.ErrNotFound
	}
	return r.schema.Clone(e), nil
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

func (r *Repository[T]) FindAll(_ context.Context, q store.Query) ([]T, error) {
	if err := r.schema.Validate(q); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]T, 0, len(r.rows))
	for _, e := range r.rows {
		if r.matches(e, q.Where) {
			out = append(out, r.schema.Clone(e))
		}
	}

	var order *store.Field[T]
	if q.OrderBy != "" {
		f, _ := r.schema.Field(q.OrderBy)
		order = &f
	}
	sort.SliceStable(out, func(i, j int) bool {
		if order != nil {
			c := compare(order.Value(out[i]), order.Value(out[j]))
			if c != 0 {
				if q.Desc {
					return c > 0
				}
				return c < 0
			}
		}
		return r.seq[out[i].GetID()] < r.seq[out[j].GetID()]
	})

	if q.Limit > 0 && len(out) > q.Limit {
		out = out[:q.Limit]
	}
	return out, nil
}

func (r *Repository[T]) matches(e T, conds []store.Cond) bool {
	for _, c := range conds {
		f, _ := r.schema.Field(c.Field)
		v := f.Value(e)
		switch c.Op {
		case store.OpEq:
			if !equal(v, c.Value) {
				return false
			}
		case store.OpPrefix:
			s, _ := normalize(v).(string)
			if !strings.HasPrefix(s, c.Value.(string)) {
				return false
			}
		case store.OpContains:
			s, _ := normalize(v).(string)
			if !strings.Contains(strings.ToLower(s), strings.ToLower(c.Value.(string))) {
				return false
			}
		case store.OpBefore:
			t, ok := asTime(v)
			if !ok || !t.Before(c.Value.(time.Time)) {
				return false
			}
		}
	}
	return true
}

func asTime(v interface{}) (time.Time, bool) {
	switch t := v.(type) {
	case time.Time:
		return t, true
	case *time.Time:
		if t == nil {
			return time.Time{}, false
		}
		return *t, true
	}
	return time.Time{}, false
}

// normalize reduces named string types to string so enum fields compare
// against plain string operands
func normalize(v interface{}) interface{} {
	if v == nil {
		return nil
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.String {
		return rv.String()
	}
	return v
}

func equal(a, b interface{}) bool {
	if ta, ok := asTime(a); ok {
		tb, ok := asTime(b)
		return ok && ta.Equal(tb)
	}
	if da, ok := a.(decimal.Decimal); ok {
		db, ok := b.(decimal.Decimal)
		return ok && da.Equal(db)
	}
	return normalize(a) == normalize(b)
}

func compare(a, b interface{}) int {
	if ta, ok := asTime(a); ok {
		tb, _ := asTime(b)
		return ta.Compare(tb)
	}
	switch av := normalize(a).(type) {
	case string:
		bv, _ := normalize(b).(string)
		return strings.Compare(av, bv)
	case decimal.Decimal:
		bv, _ := b.(decimal.Decimal)
		return av.Cmp(bv)
	case bool:
		bv, _ := b.(bool)
		switch {
		case av == bv:
			return 0
		case !av:
			return -1
		}
		return 1
	}
	return strings.Compare(fmt.Sprint(a), fmt.Sprint(b))
}
