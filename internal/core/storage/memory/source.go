package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/aevon-lab/dashpoints/internal/core/filter"
	"github.com/aevon-lab/dashpoints/internal/core/source"
)

// Source is an in-memory record source. Records are coerced to the schema once
// at construction; views share the backing slice and never mutate it.
type Source struct {
	schema  filter.Schema
	records []filter.Record
	filter  filter.Filter
	orderBy string
}

// New builds a source from raw records, converting every declared attribute to
// its canonical type. Text dates without a zone are read in loc.
func New(schema filter.Schema, records []filter.Record, loc *time.Location) (*Source, error) {
	typed := make([]filter.Record, 0, len(records))
	for i, rec := range records {
		out := make(filter.Record, len(rec))
		for attr, raw := range rec {
			t, ok := schema.Lookup(attr)
			if !ok {
				return nil, fmt.Errorf("record %d: attribute %q is not in the schema", i, attr)
			}
			if raw == nil {
				out[attr] = nil
				continue
			}
			v, err := filter.Coerce(t, raw, loc)
			if err != nil {
				return nil, fmt.Errorf("record %d: %w", i, err)
			}
			out[attr] = v
		}
		typed = append(typed, out)
	}
	return &Source{schema: schema, records: typed}, nil
}

func (s *Source) Schema() filter.Schema {
	return s.schema
}

func (s *Source) Filter(f filter.Filter) source.RecordSource {
	next := *s
	next.filter = s.filter.And(f.Constraints...)
	return &next
}

func (s *Source) OrderBy(attr string) source.RecordSource {
	next := *s
	next.orderBy = attr
	return &next
}

func (s *Source) Count(ctx context.Context) (int64, error) {
	if err := s.validate(); err != nil {
		return 0, err
	}
	var n int64
	for _, rec := range s.records {
		if err := ctx.Err(); err != nil {
			return 0, err
		}
		if s.filter.Match(rec) {
			n++
		}
	}
	return n, nil
}

// Records returns the matching records in view order.
func (s *Source) Records(ctx context.Context) ([]filter.Record, error) {
	if err := s.validate(); err != nil {
		return nil, err
	}
	var out []filter.Record
	for _, rec := range s.records {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if s.filter.Match(rec) {
			out = append(out, rec)
		}
	}
	if s.orderBy != "" {
		sort.SliceStable(out, func(i, j int) bool {
			return less(out[i][s.orderBy], out[j][s.orderBy])
		})
	}
	return out, nil
}

// CountBuckets scans the view once and places every match with binary search.
func (s *Source) CountBuckets(ctx context.Context, dateAttr string, boundaries []time.Time) ([]int64, error) {
	if len(boundaries) < 2 {
		return []int64{}, nil
	}
	if err := source.RequireDateAttribute(s.schema, dateAttr); err != nil {
		return nil, err
	}
	matches, err := s.Records(ctx)
	if err != nil {
		return nil, err
	}

	counts := make([]int64, len(boundaries)-1)
	for _, rec := range matches {
		ts, ok := rec[dateAttr].(time.Time)
		if !ok {
			continue
		}
		// first boundary strictly after ts; the bucket is the one before it
		idx := sort.Search(len(boundaries), func(i int) bool { return boundaries[i].After(ts) })
		if idx == 0 || idx == len(boundaries) {
			continue
		}
		counts[idx-1]++
	}
	return counts, nil
}

func (s *Source) validate() error {
	if err := s.filter.Validate(s.schema); err != nil {
		return err
	}
	if s.orderBy != "" {
		if _, ok := s.schema.Lookup(s.orderBy); !ok {
			return fmt.Errorf("%w: order by %q", filter.ErrUnknownAttribute, s.orderBy)
		}
	}
	return nil
}

// less orders nils first.
func less(a, b interface{}) bool {
	if a == nil {
		return b != nil
	}
	if b == nil {
		return false
	}
	cmp, ok := filter.Compare(a, b)
	return ok && cmp < 0
}
