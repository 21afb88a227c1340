package widget

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/aevon-lab/dashpoints/internal/core/aggregation"
	"github.com/stretchr/testify/require"
)

const opsDashboard = `
id: ops
name: Operations
widgets:
  - id: orders-week
    source: shop.Order
    date_attribute: created_at
    period: WE
    order: 2
    height: 200
    width: 600
  - id: signups-today
    source: auth.User
    date_attribute: date_joined
    period: "24"
    filter: "{'is_active': True}"
    order: 1
    height: 300
    width: 400
`

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func TestFileSystemRepository_Load(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "ops.yaml", opsDashboard)
	writeFile(t, dir, "sales.yml", "id: sales\nname: Sales\n")
	writeFile(t, dir, "empty.yaml", "# nothing yet\n")
	writeFile(t, dir, "README.md", "ignored")

	repo, err := NewFileSystemRepository(dir)
	require.NoError(t, err)
	ctx := context.Background()

	w, err := repo.Get(ctx, "signups-today")
	require.NoError(t, err)
	require.Equal(t, "ops", w.DashboardID)
	require.Equal(t, aggregation.PeriodLast24Hours, w.Period)
	require.Equal(t, "{'is_active': True}", w.FilterSpec)

	ws, err := repo.List(ctx, "ops")
	require.NoError(t, err)
	require.Len(t, ws, 2)
	require.Equal(t, "signups-today", ws[0].ID)
	require.Equal(t, "orders-week", ws[1].ID)

	ws, err = repo.List(ctx, "sales")
	require.NoError(t, err)
	require.Empty(t, ws)

	all, err := repo.All(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)

	boards, err := repo.Dashboards(ctx)
	require.NoError(t, err)
	require.Equal(t, []Dashboard{{ID: "ops", Name: "Operations"}, {ID: "sales", Name: "Sales"}}, boards)
}

func TestFileSystemRepository_NotFound(t *testing.T) {
	repo, err := NewFileSystemRepository(filepath.Join(t.TempDir(), "missing"))
	require.NoError(t, err)

	_, err = repo.Get(context.Background(), "nope")
	require.ErrorIs(t, err, ErrNotFound)

	_, err = repo.List(context.Background(), "nope")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestFileSystemRepository_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		files   map[string]string
		wantErr string
	}{
		{
			name:    "bad period",
			files:   map[string]string{"a.yaml": "id: a\nwidgets:\n  - {id: w, source: s, date_attribute: d, period: QQ}\n"},
			wantErr: "unsupported period",
		},
		{
			name: "duplicate dashboard",
			files: map[string]string{
				"a.yaml": "id: a\n",
				"b.yaml": "id: a\n",
			},
			wantErr: "duplicate dashboard id",
		},
		{
			name: "duplicate widget",
			files: map[string]string{
				"a.yaml": "id: a\nwidgets:\n  - {id: w, source: s, date_attribute: d, period: DA}\n",
				"b.yaml": "id: b\nwidgets:\n  - {id: w, source: s, date_attribute: d, period: DA}\n",
			},
			wantErr: "duplicate widget id",
		},
		{
			name:    "malformed yaml",
			files:   map[string]string{"a.yaml": "id: [\n"},
			wantErr: "parsing dashboard file",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			dir := t.TempDir()
			for name, content := range tc.files {
				writeFile(t, dir, name, content)
			}
			_, err := NewFileSystemRepository(dir)
			require.ErrorContains(t, err, tc.wantErr)
		})
	}
}

func TestFileSystemRepository_PathIsFile(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "widgets", "")

	_, err := NewFileSystemRepository(filepath.Join(dir, "widgets"))
	require.ErrorContains(t, err, "is not a directory")
}
