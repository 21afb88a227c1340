package migrations

import (
	"database/sql"
	"io/fs"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/require"
)

func TestMigrationFilesArePaired(t *testing.T) {
	ups, err := fs.Glob(MigrationFiles, "*.up.sql")
	require.NoError(t, err)
	downs, err := fs.Glob(MigrationFiles, "*.down.sql")
	require.NoError(t, err)

	require.NotEmpty(t, ups)
	require.Len(t, downs, len(ups))
}

func TestRunMigrations_SQLite(t *testing.T) {
	db, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	defer db.Close()
	db.SetMaxOpenConns(1)

	require.NoError(t, RunMigrations(db, "sqlite3", true))
	// second run is a no-op
	require.NoError(t, RunMigrations(db, "sqlite3", true))

	_, err = db.Exec(`INSERT INTO dashboards (id, name) VALUES ('ops', 'Operations')`)
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO dashboard_widgets (id, dashboard_id, source, date_attribute, period, display_order, height, width)
		VALUES ('signups', 'ops', 'users', 'created_at', 'DA', 1, 300, 400)`)
	require.NoError(t, err)

	var n int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM dashboard_widgets WHERE dashboard_id = 'ops'`).Scan(&n))
	require.Equal(t, 1, n)
}

func TestRunMigrations_SkipsWhenDisabled(t *testing.T) {
	db, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	defer db.Close()
	db.SetMaxOpenConns(1)

	require.NoError(t, RunMigrations(db, "sqlite3", false))

	_, err = db.Exec(`SELECT 1 FROM dashboards`)
	require.Error(t, err)
}

func TestRunMigrations_UnknownDriver(t *testing.T) {
	db, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	defer db.Close()

	require.ErrorContains(t, RunMigrations(db, "mysql", true), "unsupported migration driver")
}
