package resource_tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/example/booking-mcp/internal/schedule"
	"github.com/example/booking-mcp/internal/server"
	"github.com/example/booking-mcp/internal/tools/common"
)

// RegisterResourceTools registers the resource discovery tools with the MCP server
func RegisterResourceTools(s *mcpserver.MCPServer, sc *server.ServerContext) error {
	// Free resources in a window, grouped by category
	findFreeTool := mcp.NewTool("find_free_resources",
		mcp.WithDescription("Trova tutte le risorse libere in un orario specifico"),
		mcp.WithString("start_time",
			mcp.Required(),
			mcp.Description("Inizio del periodo nel formato YYYY-MM-DD HH:MM"),
		),
		mcp.WithString("end_time",
			mcp.Required(),
			mcp.Description("Fine del periodo nel formato YYYY-MM-DD HH:MM"),
		),
	)

	s.AddTool(findFreeTool, common.InstrumentedToolHandler(
		"find_free_resources", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleFindFreeResources(ctx, request, sc)
		}))

	// Full catalog of bookable resources
	listTool := mcp.NewTool("list_available_resources",
		mcp.WithDescription("Elenca tutte le risorse disponibili per la prenotazione"),
	)

	s.AddTool(listTool, common.InstrumentedToolHandler(
		"list_available_resources", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleListResources(ctx, request, sc)
		}))

	return nil
}

// handleFindFreeResources handles the find_free_resources tool
func handleFindFreeResources(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	startTime, _ := args["start_time"].(string)
	endTime, _ := args["end_time"].(string)

	window, err := schedule.ParseWindow("findFreeResources", startTime, endTime)
	if err != nil {
		return common.ErrorResult(err), nil
	}

	report, err := sc.FreeFinder().FindFree(ctx, window)
	if err != nil {
		return common.ErrorResult(err), nil
	}

	return common.JSONResult(report), nil
}

// handleListResources handles the list_available_resources tool
func handleListResources(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	report, err := sc.Catalog().ListActive(ctx)
	if err != nil {
		return common.ErrorResult(err), nil
	}

	return common.JSONResult(report), nil
}
