package series

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/aevon-lab/dashpoints/internal/core/aggregation"
	"github.com/aevon-lab/dashpoints/internal/core/source"
	"github.com/aevon-lab/dashpoints/internal/widget"
	"golang.org/x/sync/errgroup"
)

const defaultFanout = 8

// ErrInvalidQuery marks request validation errors that should return HTTP 400.
var ErrInvalidQuery = errors.New("invalid series query")

// Options configures a Service.
type Options struct {
	// Location is the zone all calendar arithmetic happens in. Nil means time.Local.
	Location *time.Location

	Calendar aggregation.Options

	// MaxQueries caps the per-bucket count queries of one series. Zero means no cap.
	MaxQueries int

	// RequestTimeout bounds one series computation. Zero disables it.
	RequestTimeout time.Duration

	// CacheCapacity is the number of series kept in memory. Zero disables caching.
	CacheCapacity int

	// Fanout bounds the widgets of one dashboard computed concurrently.
	Fanout int
}

// Service computes widget series on the read path: widget configuration,
// period window, filter composition and bucketed counting.
type Service struct {
	widgets  widget.Repository
	registry *source.Registry
	calendar *aggregation.Calendar
	executor aggregation.Executor
	timeout  time.Duration
	fanout   int
	cache    *Cache
	nowFn    func() time.Time
}

// NewService creates a new series service.
func NewService(widgets widget.Repository, registry *source.Registry, opts Options) *Service {
	loc := opts.Location
	if loc == nil {
		loc = time.Local
	}
	fanout := opts.Fanout
	if fanout <= 0 {
		fanout = defaultFanout
	}

	return &Service{
		widgets:  widgets,
		registry: registry,
		calendar: aggregation.NewCalendar(opts.Calendar),
		executor: aggregation.Executor{MaxQueries: opts.MaxQueries},
		timeout:  opts.RequestTimeout,
		fanout:   fanout,
		cache:    NewCache(opts.CacheCapacity),
		nowFn: func() time.Time {
			return time.Now().In(loc)
		},
	}
}

// WidgetSeries computes the series of one widget.
func (s *Service) WidgetSeries(ctx context.Context, req SeriesQueryRequest) (*SeriesResponse, error) {
	override, err := parseOverride(req.Period)
	if err != nil {
		return nil, err
	}

	w, err := s.widgets.Get(ctx, req.WidgetID)
	if err != nil {
		return nil, err
	}
	return s.seriesFor(ctx, *w, override, s.nowFn())
}

// DashboardSeries computes every widget series of a dashboard concurrently.
// Results keep display order; the first failure aborts the rest.
func (s *Service) DashboardSeries(ctx context.Context, dashboardID, period string) (*DashboardSeriesResponse, error) {
	override, err := parseOverride(period)
	if err != nil {
		return nil, err
	}

	ws, err := s.widgets.List(ctx, dashboardID)
	if err != nil {
		return nil, err
	}

	now := s.nowFn()
	results := make([]SeriesResponse, len(ws))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.fanout)
	for i, w := range ws {
		g.Go(func() error {
			resp, err := s.seriesFor(gctx, w, override, now)
			if err != nil {
				return fmt.Errorf("widget %q: %w", w.ID, err)
			}
			results[i] = *resp
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &DashboardSeriesResponse{DashboardID: dashboardID, Widgets: results}, nil
}

// Widget returns a widget's configuration with its layout offsets.
func (s *Service) Widget(ctx context.Context, widgetID string) (*WidgetResponse, error) {
	w, err := s.widgets.Get(ctx, widgetID)
	if err != nil {
		return nil, err
	}

	top, left := w.LayoutOffsets()
	resp := &WidgetResponse{
		Widget:      *w,
		PeriodLabel: w.Period.Label(),
		LoaderTop:   top,
		LoaderLeft:  left,
	}

	choices, err := w.DateAttributeChoices(s.registry)
	if err != nil {
		slog.Warn("[Series] Widget source is not registered", "widget_id", w.ID, "source", w.Source)
		return resp, nil
	}
	resp.DateAttributeChoices = choices
	return resp, nil
}

// Dashboards lists every dashboard.
func (s *Service) Dashboards(ctx context.Context) ([]widget.Dashboard, error) {
	return s.widgets.Dashboards(ctx)
}

// Sources lists the registered source keys.
func (s *Service) Sources() []string {
	return s.registry.Keys()
}

// DateAttributes lists the date-like attributes of a registered source.
func (s *Service) DateAttributes(key string) ([]string, error) {
	return s.registry.DateAttributes(key)
}

// Periods lists the selectable periods in display order.
func (s *Service) Periods() []PeriodResponse {
	periods := aggregation.Periods()
	out := make([]PeriodResponse, 0, len(periods))
	for _, p := range periods {
		out = append(out, PeriodResponse{Code: p, Label: p.Label()})
	}
	return out
}

// Warm recomputes the series of every widget at its stored period so that
// the next request for the current bucket is served from the cache. Failing
// widgets are logged and skipped.
func (s *Service) Warm(ctx context.Context, workers int) (warmed, failed int, err error) {
	ws, err := s.widgets.All(ctx)
	if err != nil {
		return 0, 0, fmt.Errorf("list widgets: %w", err)
	}

	if workers <= 0 {
		workers = 1
	}
	now := s.nowFn()
	errs := make([]error, len(ws))

	var g errgroup.Group
	g.SetLimit(workers)
	for i, w := range ws {
		g.Go(func() error {
			if _, err := s.seriesFor(ctx, w, "", now); err != nil {
				errs[i] = err
				slog.Warn("[Warmer] Widget series failed", "widget_id", w.ID, "error", err)
			}
			return nil
		})
	}
	_ = g.Wait()

	for _, e := range errs {
		if e != nil {
			failed++
		}
	}
	return len(ws) - failed, failed, ctx.Err()
}

func (s *Service) seriesFor(ctx context.Context, w widget.Widget, override aggregation.Period, now time.Time) (*SeriesResponse, error) {
	period := w.Period
	if override != "" {
		period = override
	}

	buckets, err := s.calendar.Buckets(period, now)
	if err != nil {
		return nil, err
	}

	if s.cache == nil {
		return s.compute(ctx, w, period, buckets, now)
	}
	key := cacheKey{
		WidgetID:    w.ID,
		Fingerprint: w.Fingerprint(),
		Period:      period,
		Slot:        slotFor(now, buckets.Step),
	}
	return s.cache.GetOrCompute(key, func() (*SeriesResponse, error) {
		return s.compute(ctx, w, period, buckets, now)
	})
}

func (s *Service) compute(
	ctx context.Context,
	w widget.Widget,
	period aggregation.Period,
	buckets aggregation.Series,
	now time.Time,
) (*SeriesResponse, error) {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	src, err := w.ResolveSource(s.registry)
	if err != nil {
		return nil, err
	}

	window, err := s.calendar.Resolve(period, now)
	if err != nil {
		return nil, err
	}

	base, err := aggregation.Compose(w.FilterSpec, src.Schema(), w.DateAttribute, window)
	if err != nil {
		return nil, fmt.Errorf("widget %q: %w", w.ID, err)
	}

	start := time.Now()
	points, err := s.executor.CountSeries(ctx, src, base, w.DateAttribute, buckets.Boundaries)
	if err != nil {
		return nil, err
	}

	slog.Debug("[Series] Computed widget series",
		"widget_id", w.ID,
		"period", period,
		"buckets", len(points),
		"duration", time.Since(start),
	)

	return newSeriesResponse(w, period, window, buckets, points, now), nil
}

func parseOverride(period string) (aggregation.Period, error) {
	if period == "" {
		return "", nil
	}
	p, err := aggregation.ParsePeriod(period)
	if err != nil {
		return "", invalidQueryf("%v", err)
	}
	return p, nil
}

func invalidQueryf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidQuery, fmt.Sprintf(format, args...))
}
