package aggregation

import (
	"github.com/aevon-lab/dashpoints/internal/core/filter"
	"github.com/aevon-lab/dashpoints/internal/core/source"
)

// Compose parses a widget's serialized filter, validates it against schema and
// ANDs it with dateAttr in [w.Start, w.End). Text dates in the filter are read
// in the location of w.End.
func Compose(rawSpec string, schema filter.Schema, dateAttr string, w Window) (filter.Filter, error) {
	if err := source.RequireDateAttribute(schema, dateAttr); err != nil {
		return filter.Filter{}, err
	}

	spec, err := filter.ParseSpec(rawSpec)
	if err != nil {
		return filter.Filter{}, err
	}

	base, err := filter.Build(spec, schema, w.End.Location())
	if err != nil {
		return filter.Filter{}, err
	}

	return base.And(filter.HalfOpen(dateAttr, w.Start, w.End)...), nil
}
