package aggregation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/aevon-lab/dashpoints/internal/core/filter"
	"github.com/aevon-lab/dashpoints/internal/core/source"
)

// Executor counts records per bucket against a record source.
type Executor struct {
	// MaxQueries caps the count queries of the per-bucket path. Zero means no cap.
	MaxQueries int
}

// CountSeries counts with an uncapped executor.
func CountSeries(ctx context.Context, src source.RecordSource, base filter.Filter, dateAttr string, boundaries []time.Time) ([]DataPoint, error) {
	return Executor{}.CountSeries(ctx, src, base, dateAttr, boundaries)
}

// CountSeries returns one data point per adjacent boundary pair, in boundary
// order. Fewer than two boundaries yields an empty series.
//
// Sources implementing source.BucketCounter are counted in one grouped query;
// everything else gets one Count per bucket.
func (e Executor) CountSeries(
	ctx context.Context,
	src source.RecordSource,
	base filter.Filter,
	dateAttr string,
	boundaries []time.Time,
) ([]DataPoint, error) {
	if len(boundaries) < 2 {
		return []DataPoint{}, nil
	}
	for i := 1; i < len(boundaries); i++ {
		if !boundaries[i].After(boundaries[i-1]) {
			return nil, fmt.Errorf("bucket boundaries must be strictly increasing (index %d)", i)
		}
	}

	view := src.Filter(base).OrderBy(dateAttr)

	counts, err := e.countBuckets(ctx, view, dateAttr, boundaries)
	if err != nil {
		return nil, err
	}

	points := make([]DataPoint, 0, len(boundaries)-1)
	for i := 0; i < len(boundaries)-1; i++ {
		points = append(points, DataPoint{
			Start: boundaries[i],
			End:   boundaries[i+1],
			Label: boundaries[i].Format(LabelLayout),
			Count: counts[i],
		})
	}
	return points, nil
}

func (e Executor) countBuckets(
	ctx context.Context,
	view source.RecordSource,
	dateAttr string,
	boundaries []time.Time,
) ([]int64, error) {
	buckets := len(boundaries) - 1

	if counter, ok := view.(source.BucketCounter); ok {
		counts, err := counter.CountBuckets(ctx, dateAttr, boundaries)
		switch {
		case err == nil:
			if len(counts) != buckets {
				return nil, fmt.Errorf("grouped count returned %d buckets, want %d", len(counts), buckets)
			}
			return counts, nil
		case !errors.Is(err, source.ErrGroupedCountUnsupported):
			return nil, fmt.Errorf("grouped count: %w", err)
		}
		slog.Debug("[Executor] Grouped count unsupported, counting per bucket", "buckets", buckets)
	}

	if e.MaxQueries > 0 && buckets > e.MaxQueries {
		return nil, fmt.Errorf("%w: %d buckets, budget %d", ErrQueryBudgetExceeded, buckets, e.MaxQueries)
	}

	counts := make([]int64, buckets)
	for i := 0; i < buckets; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		bucket := filter.Filter{Constraints: filter.HalfOpen(dateAttr, &boundaries[i], boundaries[i+1])}
		n, err := view.Filter(bucket).Count(ctx)
		if err != nil {
			return nil, fmt.Errorf("count bucket %s: %w", boundaries[i].Format(LabelLayout), err)
		}
		counts[i] = n
	}
	return counts, nil
}
