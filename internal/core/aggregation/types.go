package aggregation

import (
	"errors"
	"fmt"
	"time"

	coreerrors "github.com/aevon-lab/dashpoints/internal/core/errors"
)

// LabelLayout renders a bucket start as its display label.
const LabelLayout = "2006-01-02 15:04:05"

var (
	// ErrUnsupportedPeriod is returned for period codes outside the enumeration.
	ErrUnsupportedPeriod = fmt.Errorf("%w: unsupported period", coreerrors.ErrConfiguration)

	// ErrBucketingNotSupported is returned for periods whose bucket granularity
	// is not defined. It must surface to the caller instead of an empty chart.
	ErrBucketingNotSupported = fmt.Errorf("%w: bucketing for period", coreerrors.ErrNotSupported)

	// ErrTooManyBuckets is returned when a period and step would produce more
	// boundaries than maxBoundaries.
	ErrTooManyBuckets = fmt.Errorf("%w: bucket step too small for period", coreerrors.ErrConfiguration)

	// ErrQueryBudgetExceeded is returned when per-bucket counting would issue
	// more count queries than the executor allows.
	ErrQueryBudgetExceeded = errors.New("count query budget exceeded")
)

// Window is the [Start, End) time range of a period. A nil Start means the
// lower edge is open. End is always the "now" the window was resolved at.
type Window struct {
	Start *time.Time
	End   time.Time
}

// Series is an ordered, strictly increasing list of bucket boundaries.
// Adjacent boundaries delimit the half-open bucket [b[i], b[i+1]).
type Series struct {
	Boundaries []time.Time
	TickStride int           // buckets between two axis labels; may be 0
	Step       time.Duration // nominal bucket width
}

// Buckets returns the number of buckets the series delimits.
func (s Series) Buckets() int {
	if len(s.Boundaries) < 2 {
		return 0
	}
	return len(s.Boundaries) - 1
}

// DataPoint is the count of one bucket.
type DataPoint struct {
	Start time.Time
	End   time.Time
	Label string
	Count int64
}
