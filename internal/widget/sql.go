package widget

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
)

// Positional $n parameters are understood by both lib/pq and go-sqlite3.
const (
	widgetColumns = `
		id, dashboard_id, source, date_attribute, period,
		filter, display_order, height, width`

	queryGetWidget = `
		SELECT` + widgetColumns + `
		FROM dashboard_widgets
		WHERE id = $1
	`

	queryListWidgets = `
		SELECT` + widgetColumns + `
		FROM dashboard_widgets
		WHERE dashboard_id = $1
		ORDER BY display_order ASC, id ASC
	`

	queryAllWidgets = `
		SELECT` + widgetColumns + `
		FROM dashboard_widgets
		ORDER BY id ASC
	`

	queryGetDashboard = `SELECT id, name FROM dashboards WHERE id = $1`

	queryListDashboards = `SELECT id, name FROM dashboards ORDER BY id ASC`

	queryProbeSchema = `SELECT COUNT(*) FROM dashboard_widgets WHERE 1 = 0`
)

// SQLRepository reads widgets from the dashboards and dashboard_widgets
// tables created by the migrations package.
type SQLRepository struct {
	db                 *sql.DB
	stmtGetWidget      *sql.Stmt
	stmtListWidgets    *sql.Stmt
	stmtAllWidgets     *sql.Stmt
	stmtGetDashboard   *sql.Stmt
	stmtListDashboards *sql.Stmt
}

// NewSQLRepository validates the schema and prepares every statement.
// The caller keeps ownership of db; Close only releases the statements.
func NewSQLRepository(db *sql.DB) (*SQLRepository, error) {
	if err := validateSchema(db); err != nil {
		return nil, fmt.Errorf("schema validation failed - did you run migrations?: %w", err)
	}

	repo := &SQLRepository{db: db}
	stmts := []struct {
		dst   **sql.Stmt
		name  string
		query string
	}{
		{&repo.stmtGetWidget, "getWidget", queryGetWidget},
		{&repo.stmtListWidgets, "listWidgets", queryListWidgets},
		{&repo.stmtAllWidgets, "allWidgets", queryAllWidgets},
		{&repo.stmtGetDashboard, "getDashboard", queryGetDashboard},
		{&repo.stmtListDashboards, "listDashboards", queryListDashboards},
	}
	for _, s := range stmts {
		stmt, err := db.Prepare(s.query)
		if err != nil {
			repo.Close()
			return nil, fmt.Errorf("failed to prepare %s statement: %w", s.name, err)
		}
		*s.dst = stmt
	}

	slog.Info("[WidgetStore] Repository initialized with prepared statements")
	return repo, nil
}

// validateSchema checks that the dashboard_widgets table exists.
func validateSchema(db *sql.DB) error {
	var n int
	if err := db.QueryRow(queryProbeSchema).Scan(&n); err != nil {
		return fmt.Errorf("dashboard_widgets table is not readable: %w", err)
	}
	return nil
}

func (r *SQLRepository) Get(ctx context.Context, id string) (*Widget, error) {
	w, err := scanWidget(r.stmtGetWidget.QueryRowContext(ctx, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("widget %q: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return w, nil
}

func (r *SQLRepository) List(ctx context.Context, dashboardID string) ([]Widget, error) {
	var d Dashboard
	err := r.stmtGetDashboard.QueryRowContext(ctx, dashboardID).Scan(&d.ID, &d.Name)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("dashboard %q: %w", dashboardID, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load dashboard %q: %w", dashboardID, err)
	}

	rows, err := r.stmtListWidgets.QueryContext(ctx, dashboardID)
	if err != nil {
		return nil, fmt.Errorf("failed to query widgets: %w", err)
	}
	return collectWidgets(rows)
}

func (r *SQLRepository) All(ctx context.Context) ([]Widget, error) {
	rows, err := r.stmtAllWidgets.QueryContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to query widgets: %w", err)
	}
	return collectWidgets(rows)
}

func (r *SQLRepository) Dashboards(ctx context.Context) ([]Dashboard, error) {
	rows, err := r.stmtListDashboards.QueryContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to query dashboards: %w", err)
	}
	defer rows.Close()

	out := []Dashboard{}
	for rows.Next() {
		var d Dashboard
		if err := rows.Scan(&d.ID, &d.Name); err != nil {
			return nil, fmt.Errorf("failed to scan dashboard row: %w", err)
		}
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating dashboards: %w", err)
	}
	return out, nil
}

// Close closes the prepared statements.
func (r *SQLRepository) Close() error {
	var firstErr error
	for _, stmt := range []*sql.Stmt{r.stmtGetWidget, r.stmtListWidgets, r.stmtAllWidgets, r.stmtGetDashboard, r.stmtListDashboards} {
		if stmt == nil {
			continue
		}
		if err := stmt.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

type scanner interface {
	Scan(dest ...interface{}) error
}

// scanWidget scans one row and validates it. A stored row with a period code
// outside the enumeration is an error, never a silently empty chart.
func scanWidget(row scanner) (*Widget, error) {
	var w Widget
	var filterSpec sql.NullString
	err := row.Scan(
		&w.ID,
		&w.DashboardID,
		&w.Source,
		&w.DateAttribute,
		&w.Period,
		&filterSpec,
		&w.Order,
		&w.Height,
		&w.Width,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan widget row: %w", err)
	}
	w.FilterSpec = filterSpec.String

	if err := w.Validate(); err != nil {
		return nil, err
	}
	return &w, nil
}

func collectWidgets(rows *sql.Rows) ([]Widget, error) {
	defer rows.Close()

	out := []Widget{}
	for rows.Next() {
		w, err := scanWidget(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *w)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating widgets: %w", err)
	}
	return out, nil
}
