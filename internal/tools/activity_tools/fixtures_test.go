package activity_tools

import (
	"context"
	"database/sql"
	"encoding/base64"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/require"

	"github.com/example/booking-mcp/internal/activity"
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
CREATE TABLE cpwarn (
	tablecode TEXT PRIMARY KEY,
	autonum   INTEGER
);
`

// fakeBackend simulates the token-bracketed API exchange.
type fakeBackend struct {
	calls     []string
	lastData  string
	denyToken bool
	submitXML string
}

func (b *fakeBackend) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	b.calls = append(b.calls, r.URL.Path)

	writeEnvelope := func(code, dataType, result string) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w,
			`{"responseStatus": {"code": %q, "message": ""}, "responseData": {"type": %q, "result": %q}}`,
			code, dataType, result)
	}

	switch r.URL.Path {
	case "/getToken":
		if b.denyToken {
			writeEnvelope("401", "", "")
			return
		}
		writeEnvelope("200", "", "tok-abc")
	case "/releaseToken":
		writeEnvelope("200", "", "")
	default:
		b.lastData = r.URL.Query().Get("data")
		echo := b.submitXML
		if echo == "" {
			echo = "<EV_TASK>ok</EV_TASK>"
		}
		writeEnvelope("201", "base64Encoded", base64.StdEncoding.EncodeToString([]byte(echo)))
	}
}

func newToolContext(t *testing.T, backend *fakeBackend) *server.ServerContext {
	t.Helper()

	pool, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	pool.SetMaxOpenConns(1)

	_, err = pool.Exec(testSchema)
	require.NoError(t, err)
	_, err = pool.Exec(`INSERT INTO resources (reresourceid, redescri, retype, recodcal, flactive)
		VALUES ('AULA01', 'Aula corsi', 'AULA', 'CAL01', 1)`)
	require.NoError(t, err)
	_, err = pool.Exec(`INSERT INTO cpwarn (tablecode, autonum) VALUES ('prog\taskevents', 14500)`)
	require.NoError(t, err)

	api := httptest.NewServer(backend)
	t.Cleanup(api.Close)

	db := database.NewFromSQL(pool, "sqlite3", 5*time.Second)
	cfg := &config.Config{
		Calendars:     config.Calendars{Codes: []string{"CAL01"}},
		ResourceTypes: config.ResourceTypes{Rooms: "AULA", Vehicles: "AUTO", Projectors: "PROIETTORE"},
		API: config.API{
			BaseURL:        api.URL,
			Username:       "svc",
			Password:       "secret",
			Company:        "ACME",
			Instance:       "PROD",
			OBCode:         "OB01",
			ApplicationID:  "00002",
			TaskEntityName: "EV_TASK",
			TaskActionName: "Add_EV_TASK",
			TaskBOName:     "BO_EV_TASK",
			TaskTypes:      config.TaskTypes{Rooms: "T1", Vehicles: "T2", Projectors: "T3"},
		},
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	sc := server.NewServerContext(context.Background(), cfg, db, logger, nil)
	sc.EnableWrites(activity.NewService(activity.NewClient(cfg.API), sc.Catalog(), cfg, logger))
	t.Cleanup(func() { _ = sc.Shutdown() })
	return sc
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
