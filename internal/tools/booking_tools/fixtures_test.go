package booking_tools

import (
	"context"
	"database/sql"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/require"

	"github.com/example/booking-mcp/internal/config"
	"github.com/example/booking-mcp/internal/database"
	"github.com/example/booking-mcp/internal/server"
)

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
`

func newToolContext(t *testing.T) *server.ServerContext {
	t.Helper()

	pool, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	pool.SetMaxOpenConns(1)

	_, err = pool.Exec(testSchema)
	require.NoError(t, err)

	db := database.NewFromSQL(pool, "sqlite3", 5*time.Second)
	cfg := &config.Config{
		Calendars:     config.Calendars{Codes: []string{"CAL01", "CAL02"}},
		ResourceTypes: config.ResourceTypes{Rooms: "AULA", Vehicles: "AUTO", Projectors: "PROIETTORE"},
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	sc := server.NewServerContext(context.Background(), cfg, db, logger, nil)
	t.Cleanup(func() { _ = sc.Shutdown() })
	return sc
}

func addResource(t *testing.T, sc *server.ServerContext, id, description, resType, calendarCode string) {
	t.Helper()
	_, err := sc.DB().Exec(context.Background(),
		`INSERT INTO resources (reresourceid, redescri, retype, recodcal, flactive) VALUES (?, ?, ?, ?, 1)`,
		id, description, resType, calendarCode)
	require.NoError(t, err)
}

func addInterval(t *testing.T, sc *server.ServerContext, resourceID, begin, end string) {
	t.Helper()
	_, err := sc.DB().Exec(context.Background(),
		`INSERT INTO resourcelist (rlresourceid, rlprevbegin, rlprevend) VALUES (?, ?, ?)`,
		resourceID, begin, end)
	require.NoError(t, err)
}

func addCalendar(t *testing.T, sc *server.ServerContext, code, name string) {
	t.Helper()
	_, err := sc.DB().Exec(context.Background(),
		`INSERT INTO calendar (cacodcal, cadescri) VALUES (?, ?)`, code, name)
	require.NoError(t, err)
}

func addTask(t *testing.T, sc *server.ServerContext, id int64, title, calendarCode, resources, begin, end string) {
	t.Helper()
	_, err := sc.DB().Exec(context.Background(),
		`INSERT INTO tasks (tetaskid, tetitle, tecodcal, telisris, teprevbegin, teprevend, testato)
		 VALUES (?, ?, ?, ?, ?, ?, 'C')`,
		id, title, calendarCode, resources, begin, end)
	require.NoError(t, err)
}

func callRequest(name string, args map[string]interface{}) mcp.CallToolRequest {
	return mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Name:      name,
			Arguments: args,
		},
	}
}

func resultText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	require.Len(t, result.Content, 1)
	text, ok := mcp.AsTextContent(result.Content[0])
	require.True(t, ok)
	return text.Text
}
