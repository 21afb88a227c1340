package source

import (
	"context"
	"errors"
	"fmt"
	"time"

	coreerrors "github.com/aevon-lab/dashpoints/internal/core/errors"
	"github.com/aevon-lab/dashpoints/internal/core/filter"
)

var (
	// ErrUnresolvableSource is returned when a source key is not registered.
	ErrUnresolvableSource = fmt.Errorf("%w: unresolvable source", coreerrors.ErrConfiguration)

	// ErrNotDateAttribute is returned when a widget's date attribute is missing
	// from the source schema or is not date-like.
	ErrNotDateAttribute = fmt.Errorf("%w: attribute is not a date/time attribute", coreerrors.ErrConfiguration)

	// ErrGroupedCountUnsupported is returned by a BucketCounter that cannot run
	// the grouped query for its current backend. Callers fall back to Count.
	ErrGroupedCountUnsupported = errors.New("grouped bucket count unsupported")
)

// RecordSource is a filterable, sortable, countable view over one collection
// of records. Filter and OrderBy return new views; the receiver is unchanged.
type RecordSource interface {
	// Schema reports the attributes of the underlying records.
	Schema() filter.Schema

	// Filter narrows the view. Constraints are ANDed with any existing ones.
	Filter(f filter.Filter) RecordSource

	// OrderBy sorts the view by attr, ascending.
	OrderBy(attr string) RecordSource

	// Count returns the number of records in the view.
	Count(ctx context.Context) (int64, error)
}

// BucketCounter is implemented by sources that can count every bucket of a
// series in a single round trip. counts[i] covers [boundaries[i], boundaries[i+1]).
type BucketCounter interface {
	CountBuckets(ctx context.Context, dateAttr string, boundaries []time.Time) ([]int64, error)
}

// RequireDateAttribute checks that attr exists on schema and is date-like.
func RequireDateAttribute(schema filter.Schema, attr string) error {
	t, ok := schema.Lookup(attr)
	if !ok {
		return fmt.Errorf("%w: %q is not declared", ErrNotDateAttribute, attr)
	}
	if !t.DateLike() {
		return fmt.Errorf("%w: %q has type %s", ErrNotDateAttribute, attr, t)
	}
	return nil
}
