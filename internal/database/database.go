package database

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"time"

	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"

	"github.com/example/booking-mcp/internal/config"
)

// DefaultQueryTimeout bounds individual queries when the configuration does
// not specify one.
const DefaultQueryTimeout = 10 * time.Second

// QueryErrorRecorder counts failed queries. Satisfied by
// instrumentation.Metrics.
type QueryErrorRecorder interface {
	RecordDBQueryError()
}

// DB wraps a sql.DB with the driver name and the configured query timeout.
// Queries are written with ? placeholders and rebound for Postgres, so the
// same statements run against both supported drivers.
type DB struct {
	sql          *sql.DB
	driver       string
	queryTimeout time.Duration
	metrics      QueryErrorRecorder
}

// Open opens a connection pool for the configured driver and verifies it
// with a ping.
func Open(ctx context.Context, cfg config.Database) (*DB, error) {
	dsn := cfg.DSN
	if dsn == "" {
		if cfg.Driver != "postgres" {
			return nil, fmt.Errorf("driver %s requires an explicit DSN", cfg.Driver)
		}
		dsn = postgresDSN(cfg)
	}

	pool, err := sql.Open(cfg.Driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s database: %w", cfg.Driver, err)
	}

	timeout := cfg.QueryTimeout
	if timeout <= 0 {
		timeout = DefaultQueryTimeout
	}

	db := &DB{
		sql:          pool,
		driver:       cfg.Driver,
		queryTimeout: timeout,
	}

	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if err := pool.PingContext(pingCtx); err != nil {
		_ = pool.Close()
		return nil, fmt.Errorf("failed to connect to %s database: %w", cfg.Driver, err)
	}

	return db, nil
}

// postgresDSN assembles a key=value connection string in the form lib/pq
// expects from the discrete configuration fields.
func postgresDSN(cfg config.Database) string {
	parts := []string{
		"host=" + cfg.Host,
		"port=" + strconv.Itoa(cfg.Port),
		"dbname=" + cfg.Name,
		"user=" + cfg.User,
		"password=" + cfg.Password,
	}
	return strings.Join(parts, " ")
}

// NewFromSQL wraps an existing pool. Used by tests that open their own
// in-memory database.
func NewFromSQL(pool *sql.DB, driver string, queryTimeout time.Duration) *DB {
	if queryTimeout <= 0 {
		queryTimeout = DefaultQueryTimeout
	}
	return &DB{sql: pool, driver: driver, queryTimeout: queryTimeout}
}

// Close closes the underlying pool.
func (db *DB) Close() error {
	return db.sql.Close()
}

// Driver returns the driver name the pool was opened with.
func (db *DB) Driver() string {
	return db.driver
}

// Ping verifies the database is reachable within the query timeout.
func (db *DB) Ping(ctx context.Context) error {
	ctx, cancel := db.WithQueryTimeout(ctx)
	defer cancel()
	return db.sql.PingContext(ctx)
}

// WithQueryTimeout derives a context bounded by the configured query
// timeout. Callers must hold the returned cancel until rows are fully
// consumed.
func (db *DB) WithQueryTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, db.queryTimeout)
}

// SetQueryErrorRecorder wires a recorder that is incremented on every
// failed query or statement.
func (db *DB) SetQueryErrorRecorder(r QueryErrorRecorder) {
	db.metrics = r
}

func (db *DB) recordQueryError() {
	if db.metrics != nil {
		db.metrics.RecordDBQueryError()
	}
}

// Query runs a query after placeholder rebinding.
func (db *DB) Query(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	rows, err := db.sql.QueryContext(ctx, db.Rebind(query), args...)
	if err != nil {
		db.recordQueryError()
	}
	return rows, err
}

// QueryRow runs a single-row query after placeholder rebinding. Errors
// surface at Scan, so failures here are not counted by the query error
// recorder.
func (db *DB) QueryRow(ctx context.Context, query string, args ...any) *sql.Row {
	return db.sql.QueryRowContext(ctx, db.Rebind(query), args...)
}

// Exec runs a statement after placeholder rebinding.
func (db *DB) Exec(ctx context.Context, query string, args ...any) (sql.Result, error) {
	res, err := db.sql.ExecContext(ctx, db.Rebind(query), args...)
	if err != nil {
		db.recordQueryError()
	}
	return res, err
}

// Rebind rewrites ? placeholders to $1..$n for Postgres. Other drivers get
// the query unchanged.
func (db *DB) Rebind(query string) string {
	if db.driver != "postgres" {
		return query
	}

	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for i := 0; i < len(query); i++ {
		if query[i] == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteByte(query[i])
	}
	return b.String()
}

// Placeholders returns a comma-separated list of n ? placeholders for IN
// clauses. Returns "" for n <= 0.
func Placeholders(n int) string {
	if n <= 0 {
		return ""
	}
	return strings.TrimSuffix(strings.Repeat("?,", n), ",")
}
