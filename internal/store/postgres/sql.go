package postgres

import (
	"fmt"
	"strings"

	"github.com/lib/pq"

	"celebhub-backend/internal/store"
)

type statements struct {
	columns string
	upsert  string
	byID    string
	delete  string
	exists  string
}

// buildStatements prepares the fixed SQL for a schema. The first field is
// always the primary key "id".
func buildStatements[T store.Entity](s store.Schema[T]) statements {
	table := pq.QuoteIdentifier(s.Kind)

	cols := make([]string, len(s.Fields))
	params := make([]string, len(s.Fields))
	var updates []string
	for i, f := range s.Fields {
		col := pq.QuoteIdentifier(f.Name)
		cols[i] = col
		params[i] = fmt.Sprintf("$%d", i+1)
		if f.Name != "id" {
			updates = append(updates, fmt.Sprintf("%s = EXCLUDED.%s", col, col))
		}
	}
	columns := strings.Join(cols, ", ")

	return statements{
		columns: columns,
		upsert: fmt.Sprintf(
			"INSERT INTO %s (%s) VALUES (%s) ON CONFLICT (id) DO UPDATE SET %s",
			table, columns, strings.Join(params, ", "), strings.Join(updates, ", "),
		),
		byID:   fmt.Sprintf("SELECT %s FROM %s WHERE id = $1", columns, table),
		delete: fmt.Sprintf("DELETE FROM %s WHERE id = $1", table),
		exists: fmt.Sprintf("SELECT 1 FROM %s WHERE id = $1", table),
	}
}

// buildConditionalUpdate returns an UPDATE taking every field in schema
// order followed by the expected value of cond.Field
func buildConditionalUpdate[T store.Entity](s store.Schema[T], conds []store.Cond) (string, error) {
	if err := store.CheckConditional(s, conds); err != nil {
		return "", err
	}

	var sets []string
	for i, f := range s.Fields {
		if f.Name == "id" {
			continue
		}
		sets = append(sets, fmt.Sprintf("%s = $%d", pq.QuoteIdentifier(f.Name), i+1))
	}

	where := []string{"id = $1"}
	for i, c := range conds {
		where = append(where, fmt.Sprintf("%s = $%d", pq.QuoteIdentifier(c.Field), len(s.Fields)+i+1))
	}

	return fmt.Sprintf(
		"UPDATE %s SET %s WHERE %s",
		pq.QuoteIdentifier(s.Kind), strings.Join(sets, ", "), strings.Join(where, " AND "),
	), nil
}

// buildSelect renders q into SQL with positional arguments
func buildSelect[T store.Entity](s store.Schema[T], q store.Query) (string, []any, error) {
	if err := s.Validate(q); err != nil {
		return "", nil, err
	}

	var (
		b     strings.Builder
		args  []any
		where []string
	)
	fmt.Fprintf(&b, "SELECT %s FROM %s", buildStatements(s).columns, pq.QuoteIdentifier(s.Kind))

	for _, c := range q.Where {
		col := pq.QuoteIdentifier(c.Field)
		if c.Op == store.OpEq && c.Value == nil {
			where = append(where, col+" IS NULL")
			continue
		}

		switch c.Op {
		case store.OpEq:
			args = append(args, c.Value)
			where = append(where, fmt.Sprintf("%s = $%d", col, len(args)))
		case store.OpPrefix:
			args = append(args, escapeLike(c.Value.(string))+"%")
			where = append(where, fmt.Sprintf("%s LIKE $%d", col, len(args)))
		case store.OpContains:
			args = append(args, "%"+escapeLike(c.Value.(string))+"%")
			where = append(where, fmt.Sprintf("%s ILIKE $%d", col, len(args)))
		case store.OpBefore:
			args = append(args, c.Value)
			where = append(where, fmt.Sprintf("%s < $%d", col, len(args)))
		default:
			return "", nil, fmt.Errorf("%w: operator %d", store.ErrInvalidQuery, c.Op)
		}
	}
	if len(where) > 0 {
		b.WriteString(" WHERE " + strings.Join(where, " AND "))
	}

	if q.OrderBy != "" {
		dir := "ASC"
		if q.Desc {
			dir = "DESC"
		}
		fmt.Fprintf(&b, " ORDER BY %s %s", pq.QuoteIdentifier(q.OrderBy), dir)
	}
	if q.Limit > 0 {
		fmt.Fprintf(&b, " LIMIT %d", q.Limit)
	}

	return b.String(), args, nil
}

// escapeLike escapes LIKE wildcards (default escape character is backslash)
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
