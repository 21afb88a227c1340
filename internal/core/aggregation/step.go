package aggregation

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	coreerrors "github.com/aevon-lab/dashpoints/internal/core/errors"
)

const oneDay = 24 * time.Hour

// ParseStep parses a bucket width. It accepts Go duration syntax ("10m",
// "6h") plus whole days ("1d") and weeks ("2w").
func ParseStep(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("%w: bucket step must not be empty", coreerrors.ErrConfiguration)
	}

	var step time.Duration
	switch unit := s[len(s)-1]; unit {
	case 'd', 'w':
		n, err := strconv.Atoi(s[:len(s)-1])
		if err != nil {
			return 0, fmt.Errorf("%w: invalid bucket step %q", coreerrors.ErrConfiguration, s)
		}
		step = time.Duration(n) * oneDay
		if unit == 'w' {
			step *= 7
		}
	default:
		d, err := time.ParseDuration(s)
		if err != nil {
			return 0, fmt.Errorf("%w: invalid bucket step %q: %v", coreerrors.ErrConfiguration, s, err)
		}
		step = d
	}

	if step <= 0 {
		return 0, fmt.Errorf("%w: bucket step must be positive, got %q", coreerrors.ErrConfiguration, s)
	}
	return step, nil
}

// TruncateToStep returns the start of the step-aligned slot containing t.
// Whole-day steps align to midnight in t's location and count days from
// 1970-01-01; shorter steps align to the zero time.
func TruncateToStep(t time.Time, step time.Duration) time.Time {
	if step <= 0 {
		return t
	}
	if step%oneDay != 0 {
		return t.Truncate(step)
	}

	d := midnight(t)
	n := int64(step / oneDay)
	civil := time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC).Unix() / int64(oneDay/time.Second)
	offset := civil % n
	if offset < 0 {
		offset += n
	}
	return addDays(d, -int(offset))
}
