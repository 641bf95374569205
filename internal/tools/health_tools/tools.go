package health_tools

import (
	"context"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/example/booking-mcp/internal/server"
	"github.com/example/booking-mcp/internal/tools/common"
)

// HealthReport is the health_check payload when the database answers.
type HealthReport struct {
	Status             string `json:"status"`
	DatabaseConnection string `json:"database_connection"`
	TotalCalendars     int    `json:"calendari_totali"`
	ActiveResources    int    `json:"risorse_attive"`
	Timestamp          string `json:"timestamp"`
}

// UnhealthyReport is the health_check payload when the database check
// fails. A failed check is still a successful tool call: the report
// carries the error instead.
type UnhealthyReport struct {
	Status             string `json:"status"`
	DatabaseConnection string `json:"database_connection"`
	Error              string `json:"error"`
	Timestamp          string `json:"timestamp"`
}

// RegisterHealthTools registers the health check tool with the MCP server
func RegisterHealthTools(s *mcpserver.MCPServer, sc *server.ServerContext) error {
	healthTool := mcp.NewTool("health_check",
		mcp.WithDescription("Controlla lo stato di salute del server e del database"),
	)

	s.AddTool(healthTool, common.InstrumentedToolHandler(
		"health_check", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleHealthCheck(ctx, request, sc)
		}))

	return nil
}

// handleHealthCheck handles the health_check tool
func handleHealthCheck(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	timestamp := time.Now().Format(time.RFC3339)

	calendars, resources, err := sc.Catalog().Counts(ctx)
	if err != nil {
		return common.JSONResult(UnhealthyReport{
			Status:             "unhealthy",
			DatabaseConnection: "error",
			Error:              err.Error(),
			Timestamp:          timestamp,
		}), nil
	}

	return common.JSONResult(HealthReport{
		Status:             "healthy",
		DatabaseConnection: "ok",
		TotalCalendars:     calendars,
		ActiveResources:    resources,
		Timestamp:          timestamp,
	}), nil
}
