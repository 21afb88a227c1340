package widget

import (
	"crypto/sha256"
	"errors"
	"fmt"

	"github.com/aevon-lab/dashpoints/internal/core/aggregation"
	coreerrors "github.com/aevon-lab/dashpoints/internal/core/errors"
	"github.com/aevon-lab/dashpoints/internal/core/source"
)

// Loading indicator size in pixels.
const (
	LoaderHeight = 19
	LoaderWidth  = 220
)

var (
	// ErrNotFound is returned when a widget or dashboard does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidWidget is returned by Validate.
	ErrInvalidWidget = fmt.Errorf("%w: invalid widget", coreerrors.ErrConfiguration)
)

// Dashboard groups widgets.
type Dashboard struct {
	ID   string `json:"id" yaml:"id"`
	Name string `json:"name" yaml:"name"`
}

// Widget is the stored configuration of one chart. It is read-only for the
// duration of a request.
type Widget struct {
	ID            string             `json:"id" yaml:"id"`
	DashboardID   string             `json:"dashboard_id" yaml:"-"`
	Source        string             `json:"source" yaml:"source"`
	DateAttribute string             `json:"date_attribute" yaml:"date_attribute"`
	Period        aggregation.Period `json:"period" yaml:"period"`
	FilterSpec    string             `json:"filter,omitempty" yaml:"filter"`
	Order         int                `json:"order" yaml:"order"`
	Height        int                `json:"height" yaml:"height"`
	Width         int                `json:"width" yaml:"width"`
}

// Validate checks the invariants that do not need a source registry.
// A stored legacy period code is normalised in place.
func (w *Widget) Validate() error {
	if w.ID == "" {
		return fmt.Errorf("%w: id must not be empty", ErrInvalidWidget)
	}
	if w.Source == "" {
		return fmt.Errorf("%w %q: source must not be empty", ErrInvalidWidget, w.ID)
	}
	if w.DateAttribute == "" {
		return fmt.Errorf("%w %q: date_attribute must not be empty", ErrInvalidWidget, w.ID)
	}
	p, err := aggregation.ParsePeriod(string(w.Period))
	if err != nil {
		return fmt.Errorf("widget %q: %w", w.ID, err)
	}
	w.Period = p
	if w.Height < 0 || w.Width < 0 {
		return fmt.Errorf("%w %q: height and width must be >= 0", ErrInvalidWidget, w.ID)
	}
	return nil
}

// ResolveSource returns the record source the widget reports on, or
// source.ErrUnresolvableSource.
func (w Widget) ResolveSource(reg *source.Registry) (source.RecordSource, error) {
	return reg.Resolve(w.Source)
}

// DateAttributeChoices lists the date-like attributes of the widget's source.
func (w Widget) DateAttributeChoices(reg *source.Registry) ([]string, error) {
	return reg.DateAttributes(w.Source)
}

// LayoutOffsets centres the loading indicator inside the widget.
func (w Widget) LayoutOffsets() (top, left float64) {
	top = float64(w.Height-LoaderHeight) / 2
	left = float64(w.Width-LoaderWidth) / 2
	return top, left
}

// Fingerprint identifies the widget's counting configuration. Cached series
// keyed on it go stale as soon as the widget is edited.
func (w Widget) Fingerprint() string {
	sum := sha256.Sum256([]byte(fmt.Sprintf("%s\x00%s\x00%s\x00%s\x00%s",
		w.ID, w.Source, w.DateAttribute, w.Period, w.FilterSpec)))
	return fmt.Sprintf("%x", sum[:8])
}
