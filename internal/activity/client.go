package activity

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/example/booking-mcp/internal/config"
)

// Client talks to the activity-management REST API. Every write goes
// through a token handshake: obtain a token, submit the task payload,
// release the token.
type Client struct {
	HTTP *http.Client
	cfg  config.API
}

// NewClient creates a Client from the API configuration. The configured
// timeout bounds each individual request.
func NewClient(cfg config.API) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		HTTP: &http.Client{Timeout: timeout},
		cfg:  cfg,
	}
}

// envelope is the JSON wrapper the API puts around every response.
type envelope struct {
	Status struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"responseStatus"`
	Data struct {
		Type   string `json:"type"`
		Result string `json:"result"`
	} `json:"responseData"`
}

// GetToken authenticates against the API and returns a session token.
func (c *Client) GetToken(ctx context.Context) (string, error) {
	q := url.Values{}
	q.Set("username", c.cfg.Username)
	q.Set("password", c.cfg.Password)
	q.Set("company", c.cfg.Company)
	q.Set("instance", c.cfg.Instance)

	resp, err := c.post(ctx, "/getToken", q, "", "application/json")
	if err != nil {
		return "", err
	}

	if resp.Status.Code != "200" || resp.Data.Result == "" {
		return "", fmt.Errorf("token refused: code %s", resp.Status.Code)
	}
	return resp.Data.Result, nil
}

// ReleaseToken invalidates a session token. Callers release in a defer so
// a token is never leaked, even on a failed submit.
func (c *Client) ReleaseToken(ctx context.Context, token string) error {
	_, err := c.post(ctx, "/releaseToken", nil, token, "application/json")
	return err
}

// SubmitTask sends a task XML payload and returns the XML the server
// echoes back. The server reports domain failures (resource conflicts,
// refused bookings) inside an otherwise successful response, so the echoed
// XML is inspected for error markers.
func (c *Client) SubmitTask(ctx context.Context, token, payload string) (string, error) {
	path := "/" + c.cfg.ApplicationID + "/" + c.cfg.TaskEntityName
	q := url.Values{}
	q.Set("data", payload)

	resp, err := c.post(ctx, path, q, token, "application/xml")
	if err != nil {
		return "", err
	}
	if resp.Status.Code != "201" {
		return "", fmt.Errorf("task refused: code %s", resp.Status.Code)
	}

	// The server echoes the stored XML base64-encoded. If decoding fails,
	// fall back to the payload we sent.
	serverXML := payload
	if resp.Data.Type == "base64Encoded" && resp.Data.Result != "" {
		if decoded, err := base64.StdEncoding.DecodeString(resp.Data.Result); err == nil {
			serverXML = string(decoded)
		}
	}

	if err := serverRefusal(serverXML); err != nil {
		return serverXML, err
	}
	return serverXML, nil
}

// RefusalError is a domain refusal reported inside a successful HTTP
// response: typically a resource conflict for the requested interval.
type RefusalError struct {
	Message string
	XML     string
}

// Error implements the error interface.
func (e *RefusalError) Error() string {
	return e.Message
}

// serverRefusal inspects echoed XML for the error markers the server
// embeds and extracts the operator-facing message, when present, between
// the "Attenzione:" prefix and the "@@@" terminator.
func serverRefusal(serverXML string) error {
	if !strings.Contains(serverXML, "ErrorCode=") && !strings.Contains(serverXML, "Errors:1") {
		return nil
	}

	message := "Risorsa non disponibile o conflitto di prenotazione"
	if start := strings.Index(serverXML, "Attenzione:"); start != -1 {
		if end := strings.Index(serverXML[start:], "@@@"); end != -1 {
			message = serverXML[start : start+end]
		}
	}
	return &RefusalError{Message: message, XML: serverXML}
}

func (c *Client) post(ctx context.Context, path string, query url.Values, token, contentType string) (*envelope, error) {
	base := strings.TrimSuffix(c.cfg.BaseURL, "/")
	endpoint := base + path
	if query != nil {
		endpoint += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", contentType)
	if token != "" {
		req.Header.Set("Authorization", token)
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, fmt.Errorf("errore di rete: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("request failed: %s: %s", resp.Status, strings.TrimSpace(string(body)))
	}

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return nil, fmt.Errorf("risposta del server non valida: %w", err)
	}
	return &env, nil
}
