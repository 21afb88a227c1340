package filter

import (
	"fmt"
	"time"

	coreerrors "github.com/aevon-lab/dashpoints/internal/core/errors"
)

var (
	// ErrMalformedSpec is returned when a stored filter cannot be parsed.
	ErrMalformedSpec = fmt.Errorf("%w: malformed filter spec", coreerrors.ErrConfiguration)

	// ErrUnknownAttribute is returned when a constraint names an attribute the
	// source schema does not declare.
	ErrUnknownAttribute = fmt.Errorf("%w: unknown filter attribute", coreerrors.ErrConfiguration)

	// ErrInvalidValue is returned when a constraint value cannot be converted to
	// the attribute's declared type.
	ErrInvalidValue = fmt.Errorf("%w: invalid filter value", coreerrors.ErrConfiguration)
)

// Constraint is one typed predicate on a record attribute.
type Constraint struct {
	Attribute string
	Op        Op
	Value     interface{}
}

// Record is a single row as seen by in-memory sources.
type Record map[string]interface{}

// Filter is a conjunction of constraints. The zero value matches everything.
type Filter struct {
	Constraints []Constraint
}

// Build validates spec against schema and converts every term into a typed
// constraint. Text dates are read in loc.
func Build(spec Spec, schema Schema, loc *time.Location) (Filter, error) {
	constraints := make([]Constraint, 0, len(spec))
	for _, term := range spec {
		attrType, ok := schema.Lookup(term.Attribute)
		if !ok {
			return Filter{}, fmt.Errorf("%w: %q", ErrUnknownAttribute, term.Attribute)
		}
		value, err := Coerce(attrType, term.Raw, loc)
		if err != nil {
			return Filter{}, fmt.Errorf("attribute %q: %w", term.Attribute, err)
		}
		constraints = append(constraints, Constraint{Attribute: term.Attribute, Op: term.Op, Value: value})
	}
	return Filter{Constraints: constraints}, nil
}

// And returns a new filter with cs appended. f is left untouched.
func (f Filter) And(cs ...Constraint) Filter {
	out := make([]Constraint, 0, len(f.Constraints)+len(cs))
	out = append(out, f.Constraints...)
	out = append(out, cs...)
	return Filter{Constraints: out}
}

// Validate checks every constraint against schema.
func (f Filter) Validate(schema Schema) error {
	for _, c := range f.Constraints {
		if _, ok := schema.Lookup(c.Attribute); !ok {
			return fmt.Errorf("%w: %q", ErrUnknownAttribute, c.Attribute)
		}
	}
	return nil
}

// Match reports whether rec satisfies every constraint. A missing or nil
// attribute never matches.
func (f Filter) Match(rec Record) bool {
	for _, c := range f.Constraints {
		v, ok := rec[c.Attribute]
		if !ok || v == nil {
			return false
		}
		cmp, ok := Compare(v, c.Value)
		if !ok {
			return false
		}
		switch c.Op {
		case OpEq:
			if cmp != 0 {
				return false
			}
		case OpGt:
			if cmp <= 0 {
				return false
			}
		case OpGte:
			if cmp < 0 {
				return false
			}
		case OpLt:
			if cmp >= 0 {
				return false
			}
		case OpLte:
			if cmp > 0 {
				return false
			}
		default:
			return false
		}
	}
	return true
}

// HalfOpen returns the half-open time constraint [start, end) on attr. A nil
// start leaves the lower edge open.
func HalfOpen(attr string, start *time.Time, end time.Time) []Constraint {
	cs := make([]Constraint, 0, 2)
	if start != nil {
		cs = append(cs, Constraint{Attribute: attr, Op: OpGte, Value: *start})
	}
	return append(cs, Constraint{Attribute: attr, Op: OpLt, Value: end})
}
