package sqlstore

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/aevon-lab/dashpoints/internal/core/filter"
	_ "github.com/lib/pq"           // Register postgres driver
	_ "github.com/mattn/go-sqlite3" // Register sqlite3 driver
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite3"
)

const (
	// wallClockLayout renders a time in its own zone without an offset.
	wallClockLayout = "2006-01-02 15:04:05.999999999"
	// sqliteTimeLayout is the text layout go-sqlite3 writes for time.Time.
	sqliteTimeLayout = "2006-01-02 15:04:05.999999999-07:00"
)

// Dialect captures the SQL differences between supported backends.
type Dialect interface {
	// Name is the database/sql driver name.
	Name() string

	// Placeholder returns the bind parameter for the n-th argument (1-based).
	Placeholder(n int) string

	// Quote quotes an identifier.
	Quote(ident string) string

	// GroupedBuckets reports whether the backend can assign rows to buckets
	// server-side in one query.
	GroupedBuckets() bool

	// CompareTime renders "column op placeholder" for a date or datetime
	// attribute and returns the value to bind. Datetimes compare as instants.
	// Dates compare as midnight of their calendar day in v's zone.
	CompareTime(column, op, placeholder string, t filter.AttrType, v time.Time) (string, interface{})
}

// DialectFor returns the dialect of a database/sql driver name.
func DialectFor(driver string) (Dialect, error) {
	switch driver {
	case DriverPostgres, "":
		return Postgres{}, nil
	case DriverSQLite, "sqlite":
		return SQLite{}, nil
	default:
		return nil, fmt.Errorf("unsupported database type %q", driver)
	}
}

// Postgres uses $n placeholders and width_bucket for grouped counts.
type Postgres struct{}

func (Postgres) Name() string              { return DriverPostgres }
func (Postgres) Placeholder(n int) string  { return "$" + strconv.Itoa(n) }
func (Postgres) Quote(ident string) string { return quoteIdent(ident) }
func (Postgres) GroupedBuckets() bool      { return true }

// CompareTime casts both sides the way CountBuckets does, so the WHERE clause
// and width_bucket agree for timestamp columns without a zone.
func (Postgres) CompareTime(column, op, placeholder string, t filter.AttrType, v time.Time) (string, interface{}) {
	if t == filter.TypeDate {
		return fmt.Sprintf("%s::timestamp %s %s::timestamp", column, op, placeholder), v.Format(wallClockLayout)
	}
	return fmt.Sprintf("%s::timestamptz %s %s::timestamptz", column, op, placeholder), v
}

// SQLite uses ? placeholders and has no width_bucket.
type SQLite struct{}

func (SQLite) Name() string              { return DriverSQLite }
func (SQLite) Placeholder(int) string    { return "?" }
func (SQLite) Quote(ident string) string { return quoteIdent(ident) }
func (SQLite) GroupedBuckets() bool      { return false }

// CompareTime avoids comparing timestamp text directly, which orders by the
// local clock of whatever offset each side was written with. Datetime columns
// hold UTC or offset-qualified text; julianday normalises both to UTC.
func (SQLite) CompareTime(column, op, placeholder string, t filter.AttrType, v time.Time) (string, interface{}) {
	if t == filter.TypeDate {
		return fmt.Sprintf("substr(%s, 1, 10) || ' 00:00:00' %s %s", column, op, placeholder), v.Format(wallClockLayout)
	}
	return fmt.Sprintf("julianday(%s) %s julianday(%s)", column, op, placeholder), v.UTC().Format(sqliteTimeLayout)
}

func quoteIdent(ident string) string {
	return `"` + strings.ReplaceAll(ident, `"`, `""`) + `"`
}
