package booking_tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/example/booking-mcp/internal/schedule"
	"github.com/example/booking-mcp/internal/server"
	"github.com/example/booking-mcp/internal/tools/common"
)

// RegisterBookingTools registers the booking query tools with the MCP server
func RegisterBookingTools(s *mcpserver.MCPServer, sc *server.ServerContext) error {
	// Aggregate bookings over a period
	activeBookingsTool := mcp.NewTool("get_active_bookings",
		mcp.WithDescription("Ottieni tutte le prenotazioni attive in un periodo"),
		mcp.WithString("start_date",
			mcp.Required(),
			mcp.Description("Data di inizio nel formato YYYY-MM-DD HH:MM"),
		),
		mcp.WithString("end_date",
			mcp.Required(),
			mcp.Description("Data di fine nel formato YYYY-MM-DD HH:MM"),
		),
	)

	s.AddTool(activeBookingsTool, common.InstrumentedToolHandler(
		"get_active_bookings", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleActiveBookings(ctx, request, sc)
		}))

	// Availability of one resource (or a description match set)
	availabilityTool := mcp.NewTool("check_resource_availability",
		mcp.WithDescription("Controlla se una risorsa è disponibile in un orario specifico. Puoi usare l'ID risorsa (es. AULA01) o parte della descrizione (es. 'aula corsi')"),
		mcp.WithString("resource",
			mcp.Required(),
			mcp.Description("ID della risorsa (es. AULA01) oppure parte della descrizione"),
		),
		mcp.WithString("start_time",
			mcp.Required(),
			mcp.Description("Inizio del periodo nel formato YYYY-MM-DD HH:MM"),
		),
		mcp.WithString("end_time",
			mcp.Required(),
			mcp.Description("Fine del periodo nel formato YYYY-MM-DD HH:MM"),
		),
	)

	s.AddTool(availabilityTool, common.InstrumentedToolHandler(
		"check_resource_availability", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleCheckAvailability(ctx, request, sc)
		}))

	return nil
}

// handleActiveBookings handles the get_active_bookings tool
func handleActiveBookings(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	startDate, _ := args["start_date"].(string)
	endDate, _ := args["end_date"].(string)

	window, err := schedule.ParseWindow("getActiveBookings", startDate, endDate)
	if err != nil {
		return common.ErrorResult(err), nil
	}

	report, err := sc.Aggregation().ActiveBookings(ctx, window)
	if err != nil {
		return common.ErrorResult(err), nil
	}

	return common.JSONResult(report), nil
}

// handleCheckAvailability handles the check_resource_availability tool
func handleCheckAvailability(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	resource, _ := args["resource"].(string)
	startTime, _ := args["start_time"].(string)
	endTime, _ := args["end_time"].(string)

	window, err := schedule.ParseWindow("checkAvailability", startTime, endTime)
	if err != nil {
		return common.ErrorResult(err), nil
	}

	report, err := sc.Availability().Check(ctx, resource, window)
	if err != nil {
		return common.ErrorResult(err), nil
	}

	return common.JSONResult(report), nil
}
