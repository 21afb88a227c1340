package sqlstore

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/aevon-lab/dashpoints/internal/core/filter"
	"github.com/aevon-lab/dashpoints/internal/core/source"
	"github.com/lib/pq"
)

var sqlOps = map[filter.Op]string{
	filter.OpEq:  "=",
	filter.OpGt:  ">",
	filter.OpGte: ">=",
	filter.OpLt:  "<",
	filter.OpLte: "<=",
}

// Source is a record source over one SQL table. Every view builds its query
// from scratch, so views are cheap and safe to share.
type Source struct {
	db      *sql.DB
	dialect Dialect
	table   string
	schema  filter.Schema
	filter  filter.Filter
	orderBy string
}

// New creates a source over table. Column names are the schema's attribute names.
func New(db *sql.DB, dialect Dialect, table string, schema filter.Schema) *Source {
	return &Source{db: db, dialect: dialect, table: table, schema: schema}
}

func (s *Source) Schema() filter.Schema {
	return s.schema
}

func (s *Source) Filter(f filter.Filter) source.RecordSource {
	next := *s
	next.filter = s.filter.And(f.Constraints...)
	return &next
}

// OrderBy only affects row-returning queries; counts ignore it.
func (s *Source) OrderBy(attr string) source.RecordSource {
	next := *s
	next.orderBy = attr
	return &next
}

// Count runs SELECT COUNT(*) with the view's constraints.
func (s *Source) Count(ctx context.Context) (int64, error) {
	if err := s.validate(); err != nil {
		return 0, err
	}

	where, args := s.where(s.filter.Constraints)
	query := "SELECT COUNT(*) FROM " + s.dialect.Quote(s.table) + where

	var n int64
	if err := s.db.QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count %s: %w", s.table, err)
	}
	return n, nil
}

// CountBuckets assigns every matching row to its bucket with width_bucket and
// groups in the database. Dialects without grouped buckets return
// source.ErrGroupedCountUnsupported.
func (s *Source) CountBuckets(ctx context.Context, dateAttr string, boundaries []time.Time) ([]int64, error) {
	if !s.dialect.GroupedBuckets() {
		return nil, source.ErrGroupedCountUnsupported
	}
	if len(boundaries) < 2 {
		return []int64{}, nil
	}
	if err := source.RequireDateAttribute(s.schema, dateAttr); err != nil {
		return nil, err
	}
	if err := s.validate(); err != nil {
		return nil, err
	}

	last := len(boundaries) - 1
	constraints := append([]filter.Constraint{}, s.filter.Constraints...)
	constraints = append(constraints, filter.HalfOpen(dateAttr, &boundaries[0], boundaries[last])...)
	where, args := s.where(constraints)

	// dates bucket on local midnight, datetimes on instants, as in where
	cast, layout := "timestamptz", time.RFC3339Nano
	if typ, _ := s.schema.Lookup(dateAttr); typ == filter.TypeDate {
		cast, layout = "timestamp", wallClockLayout
	}
	thresholds := make(pq.StringArray, len(boundaries))
	for i, b := range boundaries {
		thresholds[i] = b.Format(layout)
	}
	args = append(args, thresholds)

	query := fmt.Sprintf(
		"SELECT width_bucket(%s::%s, %s::%s[]) AS bucket, COUNT(*) FROM %s%s GROUP BY bucket",
		s.dialect.Quote(dateAttr),
		cast,
		s.dialect.Placeholder(len(args)),
		cast,
		s.dialect.Quote(s.table),
		where,
	)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to count %s buckets: %w", s.table, err)
	}
	defer rows.Close()

	counts := make([]int64, last)
	for rows.Next() {
		var bucket, n int64
		if err := rows.Scan(&bucket, &n); err != nil {
			return nil, fmt.Errorf("failed to scan bucket row: %w", err)
		}
		// width_bucket is 1-based; the WHERE clause keeps rows inside [b0, bN)
		if bucket < 1 || bucket > int64(last) {
			slog.Warn("[SQLStore] Row outside bucket range", "table", s.table, "bucket", bucket)
			continue
		}
		counts[bucket-1] = n
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating bucket rows: %w", err)
	}
	return counts, nil
}

func (s *Source) where(constraints []filter.Constraint) (string, []interface{}) {
	if len(constraints) == 0 {
		return "", nil
	}
	clauses := make([]string, 0, len(constraints))
	args := make([]interface{}, 0, len(constraints))
	for _, c := range constraints {
		column := s.dialect.Quote(c.Attribute)
		placeholder := s.dialect.Placeholder(len(args) + 1)
		typ, _ := s.schema.Lookup(c.Attribute)
		if ts, ok := c.Value.(time.Time); ok && typ.DateLike() {
			clause, arg := s.dialect.CompareTime(column, sqlOps[c.Op], placeholder, typ, ts)
			args = append(args, arg)
			clauses = append(clauses, clause)
			continue
		}
		args = append(args, c.Value)
		clauses = append(clauses, fmt.Sprintf("%s %s %s", column, sqlOps[c.Op], placeholder))
	}
	return " WHERE " + strings.Join(clauses, " AND "), args
}

func (s *Source) validate() error {
	if err := s.filter.Validate(s.schema); err != nil {
		return err
	}
	for _, c := range s.filter.Constraints {
		if _, ok := sqlOps[c.Op]; !ok {
			return fmt.Errorf("unsupported operator %q on %q", c.Op, c.Attribute)
		}
	}
	if s.orderBy != "" {
		if _, ok := s.schema.Lookup(s.orderBy); !ok {
			return fmt.Errorf("%w: order by %q", filter.ErrUnknownAttribute, s.orderBy)
		}
	}
	return nil
}
