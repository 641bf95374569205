package activity

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/booking-mcp/internal/config"
)

func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	cfg := testAPIConfig()
	cfg.BaseURL = srv.URL
	return NewClient(cfg)
}

func writeEnvelope(w http.ResponseWriter, code, dataType, result string) {
	resp := map[string]any{
		"responseStatus": map[string]string{"code": code},
		"responseData":   map[string]string{"type": dataType, "result": result},
	}
	_ = json.NewEncoder(w).Encode(resp)
}

func TestGetToken(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/getToken", r.URL.Path)
		assert.Equal(t, "svc", r.URL.Query().Get("username"))
		assert.Equal(t, "secret", r.URL.Query().Get("password"))
		assert.Equal(t, "ACME", r.URL.Query().Get("company"))
		assert.Equal(t, "PROD", r.URL.Query().Get("instance"))
		writeEnvelope(w, "200", "", "tok-123")
	}))

	token, err := client.GetToken(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "tok-123", token)
}

func TestGetTokenRefused(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(w, "401", "", "")
	}))

	_, err := client.GetToken(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "401")
}

func TestGetTokenHTTPError(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))

	_, err := client.GetToken(context.Background())
	require.Error(t, err)
}

func TestReleaseToken(t *testing.T) {
	var gotAuth string
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/releaseToken", r.URL.Path)
		gotAuth = r.Header.Get("Authorization")
		writeEnvelope(w, "200", "", "")
	}))

	require.NoError(t, client.ReleaseToken(context.Background(), "tok-123"))
	assert.Equal(t, "tok-123", gotAuth)
}

func TestSubmitTask(t *testing.T) {
	serverXML := "<EV_TASK>ok</EV_TASK>"
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/00002/EV_TASK", r.URL.Path)
		assert.Equal(t, "tok-123", r.Header.Get("Authorization"))
		assert.Equal(t, "application/xml", r.Header.Get("Content-Type"))
		assert.Contains(t, r.URL.Query().Get("data"), "TETASKID_K")
		writeEnvelope(w, "201", "base64Encoded", base64.StdEncoding.EncodeToString([]byte(serverXML)))
	}))

	echoed, err := client.SubmitTask(context.Background(), "tok-123", `<EV_TASK TETASKID_K="1"/>`)
	require.NoError(t, err)
	assert.Equal(t, serverXML, echoed)
}

func TestSubmitTaskFallsBackToSentPayload(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(w, "201", "base64Encoded", "%%% not base64 %%%")
	}))

	payload := `<EV_TASK TETASKID_K="1"/>`
	echoed, err := client.SubmitTask(context.Background(), "tok", payload)
	require.NoError(t, err)
	assert.Equal(t, payload, echoed)
}

func TestSubmitTaskRejectedStatus(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(w, "400", "", "")
	}))

	_, err := client.SubmitTask(context.Background(), "tok", "<EV_TASK/>")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "400")
}

func TestSubmitTaskServerRefusal(t *testing.T) {
	refused := `<EV_TASK ErrorCode="123">Attenzione: Risorsa AULA01 già prenotata@@@</EV_TASK>`
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(w, "201", "base64Encoded", base64.StdEncoding.EncodeToString([]byte(refused)))
	}))

	_, err := client.SubmitTask(context.Background(), "tok", "<EV_TASK/>")
	require.Error(t, err)

	var refusal *RefusalError
	require.ErrorAs(t, err, &refusal)
	assert.Equal(t, "Attenzione: Risorsa AULA01 già prenotata", refusal.Message)
	assert.Equal(t, refused, refusal.XML)
}

func TestServerRefusalMessages(t *testing.T) {
	tests := []struct {
		name    string
		xml     string
		wantErr bool
		message string
	}{
		{
			name: "clean document",
			xml:  "<EV_TASK>ok</EV_TASK>",
		},
		{
			name:    "error code without message",
			xml:     `<EV_TASK ErrorCode="9"/>`,
			wantErr: true,
			message: "Risorsa non disponibile o conflitto di prenotazione",
		},
		{
			name:    "errors marker",
			xml:     "<EV_TASK>Errors:1</EV_TASK>",
			wantErr: true,
			message: "Risorsa non disponibile o conflitto di prenotazione",
		},
		{
			name:    "message without terminator",
			xml:     `<EV_TASK ErrorCode="9">Attenzione: conflitto</EV_TASK>`,
			wantErr: true,
			message: "Risorsa non disponibile o conflitto di prenotazione",
		},
		{
			name:    "extracted message",
			xml:     `<EV_TASK ErrorCode="9">Attenzione: conflitto rilevato@@@</EV_TASK>`,
			wantErr: true,
			message: "Attenzione: conflitto rilevato",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := serverRefusal(tt.xml)
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			var refusal *RefusalError
			require.ErrorAs(t, err, &refusal)
			assert.Equal(t, tt.message, refusal.Message)
		})
	}
}

func TestClientDefaultTimeout(t *testing.T) {
	c := NewClient(config.API{BaseURL: "http://example.test"})
	assert.Positive(t, c.HTTP.Timeout)
}
