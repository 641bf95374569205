package schedule

import (
	"context"
	"database/sql"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/require"

	"github.com/example/booking-mcp/internal/database"
)

// testSchema mirrors the scheduling tables this server reads. Interval
// bounds are stored textually in the wire layout, which compares correctly
// because the layout is lexicographically ordered.
const testSchema = `
CREATE TABLE resources (
	reresourceid TEXT PRIMARY KEY,
	redescri     TEXT NOT NULL,
	retype       TEXT NOT NULL,
	recodcal     TEXT NOT NULL,
	flactive     INTEGER NOT NULL
);
CREATE TABLE resourcelist (
	rlresourceid TEXT NOT NULL,
	rlprevbegin  TEXT NOT NULL,
	rlprevend    TEXT NOT NULL
);
CREATE TABLE tasks (
	tetaskid    INTEGER PRIMARY KEY,
	tetitle     TEXT NOT NULL,
	tecodcal    TEXT NOT NULL,
	telocation  TEXT NOT NULL DEFAULT '',
	telisris    TEXT NOT NULL DEFAULT '',
	teprevbegin TEXT NOT NULL,
	teprevend   TEXT NOT NULL,
	testato     TEXT NOT NULL
);
CREATE TABLE calendar (
	cacodcal TEXT PRIMARY KEY,
	cadescri TEXT NOT NULL
);
CREATE TABLE cpwarn (
	tablecode TEXT PRIMARY KEY,
	autonum   INTEGER
);
`

func newTestDB(t *testing.T) *database.DB {
	t.Helper()

	pool, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	// An in-memory database disappears with its connection.
	pool.SetMaxOpenConns(1)

	_, err = pool.Exec(testSchema)
	require.NoError(t, err)

	db := database.NewFromSQL(pool, "sqlite3", 5*time.Second)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func addResource(t *testing.T, db *database.DB, id, description, resType, calendarCode string, active bool) {
	t.Helper()
	flag := 0
	if active {
		flag = 1
	}
	_, err := db.Exec(context.Background(),
		`INSERT INTO resources (reresourceid, redescri, retype, recodcal, flactive) VALUES (?, ?, ?, ?, ?)`,
		id, description, resType, calendarCode, flag)
	require.NoError(t, err)
}

func addInterval(t *testing.T, db *database.DB, resourceID, begin, end string) {
	t.Helper()
	_, err := db.Exec(context.Background(),
		`INSERT INTO resourcelist (rlresourceid, rlprevbegin, rlprevend) VALUES (?, ?, ?)`,
		resourceID, begin, end)
	require.NoError(t, err)
}

func addCalendar(t *testing.T, db *database.DB, code, name string) {
	t.Helper()
	_, err := db.Exec(context.Background(),
		`INSERT INTO calendar (cacodcal, cadescri) VALUES (?, ?)`, code, name)
	require.NoError(t, err)
}

func addTask(t *testing.T, db *database.DB, id int64, title, calendarCode, resources, begin, end, status string) {
	t.Helper()
	_, err := db.Exec(context.Background(),
		`INSERT INTO tasks (tetaskid, tetitle, tecodcal, telisris, teprevbegin, teprevend, testato)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		id, title, calendarCode, resources, begin, end, status)
	require.NoError(t, err)
}

func setTaskSequence(t *testing.T, db *database.DB, value int64) {
	t.Helper()
	_, err := db.Exec(context.Background(),
		`INSERT INTO cpwarn (tablecode, autonum) VALUES (?, ?)`, taskSequenceCode, value)
	require.NoError(t, err)
}

func mustWindow(t *testing.T, start, end string) Window {
	t.Helper()
	w, err := ParseWindow("test", start, end)
	require.NoError(t, err)
	return w
}
