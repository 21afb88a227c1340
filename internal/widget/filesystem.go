package widget

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// rawDashboard is the on-disk YAML shape. Each file holds one dashboard and
// its widgets.
type rawDashboard struct {
	ID      string   `yaml:"id"`
	Name    string   `yaml:"name"`
	Widgets []Widget `yaml:"widgets"`
}

// FileSystemRepository loads dashboards from *.yaml files in a directory.
// Files are read once at startup; there is no hot reload.
type FileSystemRepository struct {
	dir        string
	dashboards map[string]Dashboard
	widgets    map[string]Widget   // keyed by widget ID
	byBoard    map[string][]Widget // keyed by dashboard ID, display order
}

// NewFileSystemRepository creates a repository and eagerly loads every
// dashboard in dir. A missing directory is an empty configuration.
func NewFileSystemRepository(dir string) (*FileSystemRepository, error) {
	repo := &FileSystemRepository{
		dir:        dir,
		dashboards: make(map[string]Dashboard),
		widgets:    make(map[string]Widget),
		byBoard:    make(map[string][]Widget),
	}
	if err := repo.load(); err != nil {
		return nil, err
	}
	return repo, nil
}

func (r *FileSystemRepository) load() error {
	info, err := os.Stat(r.dir)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("widget dir: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("widget path %q is not a directory", r.dir)
	}

	entries, err := os.ReadDir(r.dir)
	if err != nil {
		return fmt.Errorf("reading widget dir: %w", err)
	}

	for _, e := range entries {
		if e.IsDir() || (!strings.HasSuffix(e.Name(), ".yaml") && !strings.HasSuffix(e.Name(), ".yml")) {
			continue
		}

		path := filepath.Join(r.dir, e.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("reading dashboard file %s: %w", path, err)
		}

		var raw rawDashboard
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return fmt.Errorf("parsing dashboard file %s: %w", path, err)
		}
		if raw.ID == "" {
			continue // empty / comment-only file
		}
		if _, exists := r.dashboards[raw.ID]; exists {
			return fmt.Errorf("dashboard %q: duplicate dashboard id (check multiple YAML files)", raw.ID)
		}

		widgets := make([]Widget, 0, len(raw.Widgets))
		for _, w := range raw.Widgets {
			w.DashboardID = raw.ID
			if err := w.Validate(); err != nil {
				return fmt.Errorf("dashboard %q: %w", raw.ID, err)
			}
			if _, exists := r.widgets[w.ID]; exists {
				return fmt.Errorf("widget %q: duplicate widget id", w.ID)
			}
			r.widgets[w.ID] = w
			widgets = append(widgets, w)
		}
		sortWidgets(widgets)

		r.dashboards[raw.ID] = Dashboard{ID: raw.ID, Name: raw.Name}
		r.byBoard[raw.ID] = widgets
	}
	return nil
}

func (r *FileSystemRepository) Get(_ context.Context, id string) (*Widget, error) {
	w, ok := r.widgets[id]
	if !ok {
		return nil, fmt.Errorf("widget %q: %w", id, ErrNotFound)
	}
	return &w, nil
}

func (r *FileSystemRepository) List(_ context.Context, dashboardID string) ([]Widget, error) {
	ws, ok := r.byBoard[dashboardID]
	if !ok {
		return nil, fmt.Errorf("dashboard %q: %w", dashboardID, ErrNotFound)
	}
	return append([]Widget(nil), ws...), nil
}

func (r *FileSystemRepository) All(_ context.Context) ([]Widget, error) {
	out := make([]Widget, 0, len(r.widgets))
	for _, w := range r.widgets {
		out = append(out, w)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *FileSystemRepository) Dashboards(_ context.Context) ([]Dashboard, error) {
	out := make([]Dashboard, 0, len(r.dashboards))
	for _, d := range r.dashboards {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}
