package aggregation

import (
	"fmt"
	"time"
)

const (
	intradayStep  = 10 * time.Minute
	weekStep      = time.Hour
	weekTickEvery = 7
	maxTicks      = 8

	// maxBoundaries bounds a single series, e.g. 365 days of one-minute buckets.
	maxBoundaries = 100_000
)

// Buckets cuts the window of p into buckets using the default calendar.
func Buckets(p Period, now time.Time) (Series, error) {
	return defaultCalendar.Buckets(p, now)
}

// Buckets cuts the window of p into buckets, oldest first.
//
// DA and 24h use 10-minute buckets from local midnight; WE uses hourly buckets
// reaching 7*24 + now.Hour() hours back. Stepped series end with a short
// closing bucket at now, so the buckets always cover up to now.
func (c *Calendar) Buckets(p Period, now time.Time) (Series, error) {
	switch p {
	case PeriodToday, PeriodLast24Hours:
		s, err := stepSeries(midnight(now), now, intradayStep)
		if err != nil {
			return Series{}, err
		}
		s.TickStride = now.Hour() / 4
		return s, nil

	case PeriodWeek:
		hours := 7*24 + now.Hour()
		boundaries := make([]time.Time, 0, hours+1)
		for x := hours; x >= 0; x-- {
			boundaries = append(boundaries, now.Add(-time.Duration(x)*time.Hour))
		}
		return Series{Boundaries: boundaries, TickStride: weekTickEvery, Step: weekStep}, nil

	case PeriodLast7Days, PeriodMonth, PeriodLast30Days, PeriodYear, PeriodLast365Days:
		if !c.opts.ExtendedPeriods {
			return Series{}, fmt.Errorf("%w %q", ErrBucketingNotSupported, string(p))
		}
		w, err := c.Resolve(p, now)
		if err != nil {
			return Series{}, err
		}
		s, err := stepSeries(*w.Start, now, c.opts.Step)
		if err != nil {
			return Series{}, err
		}
		s.TickStride = tickStride(s.Buckets())
		return s, nil

	case PeriodAllTime:
		return Series{}, fmt.Errorf("%w %q: window has no start", ErrBucketingNotSupported, string(p))

	default:
		return Series{}, fmt.Errorf("%w: %q", ErrUnsupportedPeriod, string(p))
	}
}

// stepSeries lays boundaries every step from start while they are <= now,
// then closes the series at now unless now already is a boundary.
// Whole-day steps advance on the calendar so midnights survive DST changes.
func stepSeries(start, now time.Time, step time.Duration) (Series, error) {
	if now.Before(start) {
		return Series{Step: step}, nil
	}
	if expected := now.Sub(start) / step; expected >= maxBoundaries {
		return Series{}, fmt.Errorf("%w: %d buckets of %s", ErrTooManyBuckets, expected, step)
	}

	var boundaries []time.Time
	for b := start; !b.After(now); b = advance(b, step) {
		boundaries = append(boundaries, b)
	}
	if last := boundaries[len(boundaries)-1]; last.Before(now) {
		boundaries = append(boundaries, now)
	}
	return Series{Boundaries: boundaries, Step: step}, nil
}

func advance(t time.Time, step time.Duration) time.Time {
	if step%oneDay == 0 {
		return addDays(t, int(step/oneDay))
	}
	return t.Add(step)
}

func tickStride(buckets int) int {
	if buckets <= maxTicks {
		return 1
	}
	return (buckets + maxTicks - 1) / maxTicks
}
