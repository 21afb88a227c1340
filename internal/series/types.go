package series

import (
	"time"

	"github.com/aevon-lab/dashpoints/internal/core/aggregation"
	"github.com/aevon-lab/dashpoints/internal/widget"
)

// SeriesQueryRequest selects one widget series. Period, when set, overrides
// the stored period for this request only.
type SeriesQueryRequest struct {
	WidgetID string `uri:"widget_id" binding:"required"`
	Period   string `form:"period"`
}

// PointResponse is the count of one bucket [Start, End).
type PointResponse struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
	Label string    `json:"label"`
	Count int64     `json:"count"`
}

// SeriesResponse is the chart data of one widget.
type SeriesResponse struct {
	WidgetID      string             `json:"widget_id"`
	Source        string             `json:"source"`
	DateAttribute string             `json:"date_attribute"`
	Period        aggregation.Period `json:"period"`
	PeriodLabel   string             `json:"period_label"`
	WindowStart   *time.Time         `json:"window_start"` // null for an open window
	WindowEnd     time.Time          `json:"window_end"`
	TickStride    int                `json:"tick_stride"`
	Total         int64              `json:"total"`
	GeneratedAt   time.Time          `json:"generated_at"`
	Points        []PointResponse    `json:"points"`
}

// DashboardSeriesResponse holds every widget series of a dashboard in display order.
type DashboardSeriesResponse struct {
	DashboardID string           `json:"dashboard_id"`
	Widgets     []SeriesResponse `json:"widgets"`
}

// WidgetResponse is the widget configuration plus what an editor needs to render it.
type WidgetResponse struct {
	widget.Widget
	PeriodLabel          string   `json:"period_label"`
	LoaderTop            float64  `json:"loader_top"`
	LoaderLeft           float64  `json:"loader_left"`
	DateAttributeChoices []string `json:"date_attribute_choices,omitempty"`
}

// PeriodResponse is one selectable period.
type PeriodResponse struct {
	Code  aggregation.Period `json:"code"`
	Label string             `json:"label"`
}

func newSeriesResponse(w widget.Widget, p aggregation.Period, win aggregation.Window, s aggregation.Series, points []aggregation.DataPoint, generatedAt time.Time) *SeriesResponse {
	resp := &SeriesResponse{
		WidgetID:      w.ID,
		Source:        w.Source,
		DateAttribute: w.DateAttribute,
		Period:        p,
		PeriodLabel:   p.Label(),
		WindowStart:   win.Start,
		WindowEnd:     win.End,
		TickStride:    s.TickStride,
		GeneratedAt:   generatedAt,
		Points:        make([]PointResponse, 0, len(points)),
	}
	for _, pt := range points {
		resp.Points = append(resp.Points, PointResponse{
			Start: pt.Start,
			End:   pt.End,
			Label: pt.Label,
			Count: pt.Count,
		})
		resp.Total += pt.Count
	}
	return resp
}
