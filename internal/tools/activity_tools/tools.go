package activity_tools

import (
	"context"
	"encoding/json"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/example/booking-mcp/internal/activity"
	"github.com/example/booking-mcp/internal/server"
	"github.com/example/booking-mcp/internal/tools/common"
)

// ActivityDetails echoes the submitted activity data in tool responses.
// TaskID is only present for updates, XML only on success.
type ActivityDetails struct {
	TaskID      int64    `json:"task_id,omitempty"`
	Title       string   `json:"title"`
	ResourceIDs []string `json:"resource_ids"`
	StartTime   string   `json:"start_time"`
	EndTime     string   `json:"end_time"`
	Location    string   `json:"location,omitempty"`
	XML         string   `json:"xml,omitempty"`
}

// ActivityResponse is the payload of the create and update tools. Failed
// submissions carry Error instead of Message and travel as tool errors.
type ActivityResponse struct {
	Success bool            `json:"success"`
	Message string          `json:"message,omitempty"`
	Error   string          `json:"error,omitempty"`
	Details ActivityDetails `json:"details"`
}

// RegisterActivityTools registers the activity write tools with the MCP server
func RegisterActivityTools(s *mcpserver.MCPServer, sc *server.ServerContext, readOnly bool) error {
	createTool := mcp.NewTool("create_activity",
		mcp.WithDescription("Crea una nuova attività/prenotazione tramite API REST"),
		mcp.WithString("title",
			mcp.Required(),
			mcp.Description("Titolo dell'attività"),
		),
		mcp.WithString("resource_id",
			mcp.Required(),
			mcp.Description("ID della risorsa da prenotare (es. AULA01). Più risorse separate da virgola (es. 'AULA01,PROIETTORE01')"),
		),
		mcp.WithString("start_time",
			mcp.Required(),
			mcp.Description("Inizio dell'attività nel formato YYYY-MM-DD HH:MM"),
		),
		mcp.WithString("end_time",
			mcp.Required(),
			mcp.Description("Fine dell'attività nel formato YYYY-MM-DD HH:MM"),
		),
		mcp.WithString("location",
			mcp.Description("Luogo dell'attività (default: gli ID delle risorse)"),
		),
		mcp.WithString("description",
			mcp.Description("Descrizione dell'attività"),
		),
		mcp.WithNumber("priority",
			mcp.Description("Priorità dell'attività (default: 5)"),
		),
	)

	if readOnly {
		s.AddTool(createTool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return mcp.NewToolResultError("Cannot create activities in read-only mode. Use --yolo flag to enable write operations."), nil
		})
	} else {
		s.AddTool(createTool, common.InstrumentedToolHandler(
			"create_activity", sc,
			func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
				return handleCreateActivity(ctx, request, sc)
			}))
	}

	updateTool := mcp.NewTool("update_activity",
		mcp.WithDescription("Aggiorna un'attività/prenotazione esistente tramite API REST"),
		mcp.WithNumber("task_id",
			mcp.Required(),
			mcp.Description("ID dell'attività da aggiornare"),
		),
		mcp.WithString("title",
			mcp.Required(),
			mcp.Description("Titolo dell'attività"),
		),
		mcp.WithString("resource_id",
			mcp.Required(),
			mcp.Description("ID della risorsa da prenotare (es. AULA01). Più risorse separate da virgola (es. 'AULA01,PROIETTORE01')"),
		),
		mcp.WithString("start_time",
			mcp.Required(),
			mcp.Description("Inizio dell'attività nel formato YYYY-MM-DD HH:MM"),
		),
		mcp.WithString("end_time",
			mcp.Required(),
			mcp.Description("Fine dell'attività nel formato YYYY-MM-DD HH:MM"),
		),
		mcp.WithString("location",
			mcp.Description("Luogo dell'attività (default: gli ID delle risorse)"),
		),
		mcp.WithString("description",
			mcp.Description("Descrizione dell'attività"),
		),
		mcp.WithNumber("priority",
			mcp.Description("Priorità dell'attività (default: 5)"),
		),
	)

	if readOnly {
		s.AddTool(updateTool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return mcp.NewToolResultError("Cannot update activities in read-only mode. Use --yolo flag to enable write operations."), nil
		})
	} else {
		s.AddTool(updateTool, common.InstrumentedToolHandler(
			"update_activity", sc,
			func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
				return handleUpdateActivity(ctx, request, sc)
			}))
	}

	return nil
}

// requestFromArgs extracts the shared activity arguments. The description
// and priority arguments are accepted for client compatibility but not
// forwarded: the submission payload has no field for them.
func requestFromArgs(args map[string]interface{}) activity.Request {
	title, _ := args["title"].(string)
	resourceID, _ := args["resource_id"].(string)
	startTime, _ := args["start_time"].(string)
	endTime, _ := args["end_time"].(string)
	location, _ := args["location"].(string)

	return activity.Request{
		Title:       title,
		ResourceIDs: activity.SplitResourceIDs(resourceID),
		StartTime:   startTime,
		EndTime:     endTime,
		Location:    location,
	}
}

func successResult(taskID int64, req activity.Request, result *activity.Result) *mcp.CallToolResult {
	return common.JSONResult(ActivityResponse{
		Success: true,
		Message: result.Message,
		Details: ActivityDetails{
			TaskID:      taskID,
			Title:       req.Title,
			ResourceIDs: result.ResourceIDs,
			StartTime:   req.StartTime,
			EndTime:     req.EndTime,
			Location:    result.Location,
			XML:         result.XML,
		},
	})
}

func failureResult(taskID int64, req activity.Request, err error) *mcp.CallToolResult {
	body, marshalErr := json.MarshalIndent(ActivityResponse{
		Success: false,
		Error:   err.Error(),
		Details: ActivityDetails{
			TaskID:      taskID,
			Title:       req.Title,
			ResourceIDs: req.ResourceIDs,
			StartTime:   req.StartTime,
			EndTime:     req.EndTime,
		},
	}, "", "  ")
	if marshalErr != nil {
		return mcp.NewToolResultError(`{"success": false, "error": "errore interno"}`)
	}
	return mcp.NewToolResultError(string(body))
}

// handleCreateActivity handles the create_activity tool
func handleCreateActivity(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	req := requestFromArgs(request.GetArguments())

	svc := sc.Activity()
	if svc == nil {
		return mcp.NewToolResultError("Activity API not configured. Set the API credentials to enable write operations."), nil
	}

	result, err := svc.Create(ctx, req)
	if err != nil {
		return failureResult(0, req, err), nil
	}

	return successResult(0, req, result), nil
}

// handleUpdateActivity handles the update_activity tool
func handleUpdateActivity(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	req := requestFromArgs(args)

	// JSON numbers arrive as float64
	taskIDValue, _ := args["task_id"].(float64)
	taskID := int64(taskIDValue)

	svc := sc.Activity()
	if svc == nil {
		return mcp.NewToolResultError("Activity API not configured. Set the API credentials to enable write operations."), nil
	}

	result, err := svc.Update(ctx, taskID, req)
	if err != nil {
		return failureResult(taskID, req, err), nil
	}

	return successResult(taskID, req, result), nil
}
