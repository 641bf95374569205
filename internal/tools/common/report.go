package common

import (
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/example/booking-mcp/internal/schedule"
)

// JSONResult marshals v as an indented JSON document and wraps it in a text
// tool result. Marshalling failures are reported as tool errors so the caller
// always receives a result.
func JSONResult(v any) *mcp.CallToolResult {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf(`{"error": "serializzazione fallita: %s"}`, err))
	}
	return mcp.NewToolResultText(string(data))
}

// ErrorResult converts a domain error into a tool error result carrying a
// JSON body of the form {"error": "..."}. Internal details are stripped so
// clients only see the operator-facing message.
func ErrorResult(err error) *mcp.CallToolResult {
	body, marshalErr := json.Marshal(map[string]string{"error": schedule.MessageOf(err)})
	if marshalErr != nil {
		return mcp.NewToolResultError(`{"error": "errore interno"}`)
	}
	return mcp.NewToolResultError(string(body))
}
