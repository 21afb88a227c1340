package widget

import (
	"context"
	"sort"
)

// Repository reads widget configuration. Implementations never mutate the
// widgets they return.
type Repository interface {
	// Get returns the widget with the given id, or ErrNotFound.
	Get(ctx context.Context, id string) (*Widget, error)

	// List returns every widget of a dashboard in display order, or ErrNotFound
	// when the dashboard does not exist.
	List(ctx context.Context, dashboardID string) ([]Widget, error)

	// All returns every widget of every dashboard.
	All(ctx context.Context) ([]Widget, error)

	// Dashboards returns all dashboards sorted by id.
	Dashboards(ctx context.Context) ([]Dashboard, error)
}

func sortWidgets(ws []Widget) {
	sort.SliceStable(ws, func(i, j int) bool {
		if ws[i].Order != ws[j].Order {
			return ws[i].Order < ws[j].Order
		}
		return ws[i].ID < ws[j].ID
	})
}
