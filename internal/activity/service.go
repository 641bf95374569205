package activity

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/example/booking-mcp/internal/config"
	"github.com/example/booking-mcp/internal/logging"
	"github.com/example/booking-mcp/internal/schedule"
)

// ErrTokenUnavailable reports that the API refused to hand out a session
// token. The operator-facing message matches what the backend emits for
// credential problems.
var ErrTokenUnavailable = errors.New("Impossibile ottenere il token di autenticazione")

// Directory resolves the database-side inputs of a submission: resource
// metadata and the progressive task-id sequence.
type Directory interface {
	ActiveResource(ctx context.Context, id string) (schedule.Resource, error)
	NextTaskID(ctx context.Context) (int64, error)
}

// SubmissionRecorder counts activity API submissions by outcome. Satisfied
// by instrumentation.Metrics.
type SubmissionRecorder interface {
	RecordActivityRequest(status string)
}

// Request is a create or update request as received from the tool layer.
// ResourceIDs may hold one or many resource ids.
type Request struct {
	Title       string
	ResourceIDs []string
	StartTime   string
	EndTime     string
	Location    string
}

// Result reports a successful submission.
type Result struct {
	TaskID      int64
	Message     string
	ResourceIDs []string
	Location    string
	XML         string
}

// Service orchestrates activity submissions: validation, resource lookup,
// payload construction and the token-bracketed API exchange.
type Service struct {
	client    *Client
	directory Directory
	cfg       *config.Config
	logger    *slog.Logger
	metrics   SubmissionRecorder

	// now is replaceable in tests so past-date validation is hermetic.
	now func() time.Time
}

// NewService creates a Service.
func NewService(client *Client, directory Directory, cfg *config.Config, logger *slog.Logger) *Service {
	return &Service{
		client:    client,
		directory: directory,
		cfg:       cfg,
		logger:    logger,
		now:       time.Now,
	}
}

// SetMetrics wires a recorder for submission outcomes.
func (s *Service) SetMetrics(metrics SubmissionRecorder) {
	s.metrics = metrics
}

func (s *Service) recordSubmission(status string) {
	if s.metrics != nil {
		s.metrics.RecordActivityRequest(status)
	}
}

// SplitResourceIDs parses the comma-separated resource id argument of the
// activity tools into individual trimmed ids.
func SplitResourceIDs(raw string) []string {
	parts := strings.Split(raw, ",")
	ids := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			ids = append(ids, trimmed)
		}
	}
	return ids
}

// Create submits a new activity. The task id comes from the progressive
// sequence.
func (s *Service) Create(ctx context.Context, req Request) (*Result, error) {
	window, err := s.validate(req)
	if err != nil {
		return nil, err
	}

	taskID, err := s.directory.NextTaskID(ctx)
	if err != nil {
		return nil, err
	}

	result, err := s.submit(ctx, "createActivity", taskID, req, window)
	if err != nil {
		return nil, err
	}
	result.Message = "Attività creata con successo"
	return result, nil
}

// Update resubmits an existing activity under its task id, replacing its
// title, interval and resource list.
func (s *Service) Update(ctx context.Context, taskID int64, req Request) (*Result, error) {
	window, err := s.validate(req)
	if err != nil {
		return nil, err
	}
	if taskID <= 0 {
		return nil, fmt.Errorf("Dati non validi: task_id obbligatorio")
	}

	result, err := s.submit(ctx, "updateActivity", taskID, req, window)
	if err != nil {
		return nil, err
	}
	result.Message = "Attività aggiornata con successo"
	return result, nil
}

// validate applies the request checks shared by create and update and
// parses the interval. Messages collect so the caller sees every problem
// at once.
func (s *Service) validate(req Request) (schedule.Window, error) {
	var problems []string

	if strings.TrimSpace(req.Title) == "" {
		problems = append(problems, "Il titolo è obbligatorio")
	}
	if len(req.ResourceIDs) == 0 {
		problems = append(problems, "L'ID risorsa è obbligatorio")
	}

	var window schedule.Window
	start, startErr := time.Parse(schedule.TimeLayout, req.StartTime)
	end, endErr := time.Parse(schedule.TimeLayout, req.EndTime)
	switch {
	case startErr != nil || endErr != nil:
		problems = append(problems, "Formato data non valido. Utilizzare YYYY-MM-DD HH:MM")
	default:
		window = schedule.Window{Start: start, End: end}
		if !start.Before(end) {
			problems = append(problems, "La data e ora di fine deve essere successiva alla data e ora di inizio")
		}
		if start.Before(s.now()) {
			problems = append(problems, "La data e ora di inizio non può essere nel passato")
		}
	}

	if len(problems) > 0 {
		return schedule.Window{}, fmt.Errorf("Dati non validi: %s", strings.Join(problems, ", "))
	}
	return window, nil
}

func (s *Service) submit(ctx context.Context, op string, taskID int64, req Request, window schedule.Window) (*Result, error) {
	logger := logging.WithOperation(s.logger, op).With(slog.Int64(logging.KeyTaskID, taskID))

	resources := make([]TaskResource, 0, len(req.ResourceIDs))
	taskType := ""
	for i, id := range req.ResourceIDs {
		res, err := s.directory.ActiveResource(ctx, id)
		if err != nil {
			return nil, err
		}
		resources = append(resources, TaskResource{ID: res.ID, Type: res.Type})
		// The task type of the submission follows the first resource.
		if i == 0 {
			taskType = s.cfg.TaskTypeFor(res.Type)
		}
	}

	payload := BuildTaskXML(s.cfg.API, Task{
		TaskID:    taskID,
		Title:     req.Title,
		TaskType:  taskType,
		Start:     window.Start,
		End:       window.End,
		Resources: resources,
	})

	token, err := s.client.GetToken(ctx)
	if err != nil {
		logger.Error("token request failed", logging.Err(err))
		s.recordSubmission(logging.StatusError)
		return nil, ErrTokenUnavailable
	}
	logger.Debug("token obtained", slog.String("token", logging.SanitizeToken(token)))

	defer func() {
		if err := s.client.ReleaseToken(ctx, token); err != nil {
			logger.Warn("token release failed", logging.Err(err))
		}
	}()

	serverXML, err := s.client.SubmitTask(ctx, token, payload)
	if err != nil {
		logger.Error("task submission failed", logging.Err(err))
		s.recordSubmission(logging.StatusError)
		return nil, err
	}

	s.recordSubmission(logging.StatusSuccess)
	logger.Info("task submitted",
		logging.Status(logging.StatusSuccess),
		slog.Int("resources", len(resources)))

	location := req.Location
	if location == "" {
		location = strings.Join(req.ResourceIDs, ", ")
	}
	return &Result{
		TaskID:      taskID,
		ResourceIDs: req.ResourceIDs,
		Location:    location,
		XML:         serverXML,
	}, nil
}
