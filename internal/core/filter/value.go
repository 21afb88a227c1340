package filter

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const dateLayout = "2006-01-02"

// datetimeLayouts are tried in order when a datetime arrives as text.
var datetimeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02 15:04:05",
	dateLayout,
}

// Coerce converts a raw spec value into the canonical Go type for t:
// string, int64, float64, decimal.Decimal, bool or time.Time.
// Date-like text without a zone is interpreted in loc.
func Coerce(t AttrType, raw interface{}, loc *time.Location) (interface{}, error) {
	if loc == nil {
		loc = time.UTC
	}
	switch t {
	case TypeString:
		switch v := raw.(type) {
		case string:
			return v, nil
		case fmt.Stringer:
			return v.String(), nil
		case int, int64, float64, bool:
			return fmt.Sprint(v), nil
		}
	case TypeInt:
		switch v := raw.(type) {
		case int:
			return int64(v), nil
		case int32:
			return int64(v), nil
		case int64:
			return v, nil
		case float64:
			if v == math.Trunc(v) {
				return int64(v), nil
			}
		case string:
			if n, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64); err == nil {
				return n, nil
			}
		}
	case TypeFloat:
		switch v := raw.(type) {
		case float64:
			return v, nil
		case float32:
			return float64(v), nil
		case int:
			return float64(v), nil
		case int64:
			return float64(v), nil
		case string:
			if f, err := strconv.ParseFloat(strings.TrimSpace(v), 64); err == nil {
				return f, nil
			}
		}
	case TypeDecimal:
		if d, ok := toDecimal(raw); ok {
			return d, nil
		}
	case TypeBool:
		switch v := raw.(type) {
		case bool:
			return v, nil
		case string:
			if b, err := strconv.ParseBool(strings.TrimSpace(v)); err == nil {
				return b, nil
			}
		}
	case TypeDate:
		if ts, ok := toTime(raw, loc); ok {
			return time.Date(ts.Year(), ts.Month(), ts.Day(), 0, 0, 0, 0, ts.Location()), nil
		}
	case TypeDateTime:
		if ts, ok := toTime(raw, loc); ok {
			return ts, nil
		}
	default:
		return nil, fmt.Errorf("%w: unknown attribute type %q", ErrInvalidValue, t)
	}
	return nil, fmt.Errorf("%w: %v (%T) is not a valid %s", ErrInvalidValue, raw, raw, t)
}

// toDecimal pulls an exact decimal out of the numeric shapes YAML, JSON and
// database drivers produce.
func toDecimal(v interface{}) (decimal.Decimal, bool) {
	switch val := v.(type) {
	case decimal.Decimal:
		return val, true
	case float64:
		return decimal.NewFromFloat(val), true
	case float32:
		return decimal.NewFromFloat(float64(val)), true
	case int:
		return decimal.NewFromInt(int64(val)), true
	case int64:
		return decimal.NewFromInt(val), true
	case int32:
		return decimal.NewFromInt(int64(val)), true
	case string:
		d, err := decimal.NewFromString(strings.TrimSpace(val))
		if err == nil {
			return d, true
		}
	case []byte:
		d, err := decimal.NewFromString(string(val))
		if err == nil {
			return d, true
		}
	}
	return decimal.Zero, false
}

func toTime(v interface{}, loc *time.Location) (time.Time, bool) {
	switch val := v.(type) {
	case time.Time:
		return val, true
	case string:
		s := strings.TrimSpace(val)
		for _, layout := range datetimeLayouts {
			if ts, err := time.ParseInLocation(layout, s, loc); err == nil {
				return ts, true
			}
		}
	}
	return time.Time{}, false
}

// Compare orders two canonical values. Mixed numeric kinds are compared
// exactly through decimal.
func Compare(a, b interface{}) (int, bool) {
	switch av := a.(type) {
	case string:
		bv, ok := b.(string)
		if !ok {
			return 0, false
		}
		return strings.Compare(av, bv), true
	case bool:
		bv, ok := b.(bool)
		if !ok {
			return 0, false
		}
		switch {
		case av == bv:
			return 0, true
		case !av:
			return -1, true
		default:
			return 1, true
		}
	case time.Time:
		bv, ok := b.(time.Time)
		if !ok {
			return 0, false
		}
		return av.Compare(bv), true
	}

	ad, ok := toDecimal(a)
	if !ok {
		return 0, false
	}
	bd, ok := toDecimal(b)
	if !ok {
		return 0, false
	}
	return ad.Cmp(bd), true
}
