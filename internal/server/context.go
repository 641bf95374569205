package server

import (
	"context"
	"log/slog"
	"sync"

	"github.com/example/booking-mcp/internal/activity"
	"github.com/example/booking-mcp/internal/config"
	"github.com/example/booking-mcp/internal/database"
	"github.com/example/booking-mcp/internal/instrumentation"
	"github.com/example/booking-mcp/internal/schedule"
)

// ServerContext holds the shared dependencies of the MCP server: the
// database, the scheduling services built over it, instrumentation and,
// when write tools are enabled, the activity submission service.
type ServerContext struct {
	ctx    context.Context
	cancel context.CancelFunc

	cfg    *config.Config
	db     *database.DB
	logger *slog.Logger

	metrics *instrumentation.Metrics
	audit   *instrumentation.AuditLogger

	availability *schedule.AvailabilityService
	aggregation  *schedule.AggregationService
	freeFinder   *schedule.FreeResourceFinder
	catalog      *schedule.Catalog

	activity *activity.Service

	mu       sync.RWMutex
	shutdown bool
}

// NewServerContext creates a ServerContext and wires the scheduling
// services over the given database. The activity service is attached
// separately via EnableWrites because read-only deployments never
// construct it.
func NewServerContext(ctx context.Context, cfg *config.Config, db *database.DB, logger *slog.Logger, metrics *instrumentation.Metrics) *ServerContext {
	shutdownCtx, cancel := context.WithCancel(ctx)

	if logger == nil {
		logger = slog.Default()
	}

	if metrics != nil && db != nil {
		db.SetQueryErrorRecorder(metrics)
	}

	resolver := schedule.NewResolver(db)
	overlap := schedule.NewOverlapEngine(db)

	return &ServerContext{
		ctx:          shutdownCtx,
		cancel:       cancel,
		cfg:          cfg,
		db:           db,
		logger:       logger,
		metrics:      metrics,
		audit:        instrumentation.NewAuditLogger(logger),
		availability: schedule.NewAvailabilityService(resolver, overlap),
		aggregation:  schedule.NewAggregationService(db, cfg.Calendars),
		freeFinder:   schedule.NewFreeResourceFinder(db, overlap, cfg.ResourceTypes),
		catalog:      schedule.NewCatalog(db),
	}
}

// Context returns the server's lifetime context. It is cancelled on
// shutdown so in-flight queries stop.
func (sc *ServerContext) Context() context.Context {
	return sc.ctx
}

// Config returns the server configuration.
func (sc *ServerContext) Config() *config.Config {
	return sc.cfg
}

// DB returns the database handle.
func (sc *ServerContext) DB() *database.DB {
	return sc.db
}

// Logger returns the server logger.
func (sc *ServerContext) Logger() *slog.Logger {
	return sc.logger
}

// Metrics returns the metrics recorder. May be nil when metrics are
// disabled; the recorder's methods are nil-safe.
func (sc *ServerContext) Metrics() *instrumentation.Metrics {
	return sc.metrics
}

// Audit returns the audit logger.
func (sc *ServerContext) Audit() *instrumentation.AuditLogger {
	return sc.audit
}

// Availability returns the availability query service.
func (sc *ServerContext) Availability() *schedule.AvailabilityService {
	return sc.availability
}

// Aggregation returns the booking aggregation service.
func (sc *ServerContext) Aggregation() *schedule.AggregationService {
	return sc.aggregation
}

// FreeFinder returns the free-resource finder.
func (sc *ServerContext) FreeFinder() *schedule.FreeResourceFinder {
	return sc.freeFinder
}

// Catalog returns the resource catalog.
func (sc *ServerContext) Catalog() *schedule.Catalog {
	return sc.catalog
}

// EnableWrites attaches the activity service. Write tools are only
// registered when this has been called.
func (sc *ServerContext) EnableWrites(svc *activity.Service) {
	if sc.metrics != nil && svc != nil {
		svc.SetMetrics(sc.metrics)
	}
	sc.mu.Lock()
	defer sc.mu.Unlock()
	sc.activity = svc
}

// Activity returns the activity service, or nil in read-only mode.
func (sc *ServerContext) Activity() *activity.Service {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.activity
}

// IsShutdown returns whether the server has been shut down.
func (sc *ServerContext) IsShutdown() bool {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.shutdown
}

// Shutdown cancels the server context and closes the database. Safe to
// call more than once.
func (sc *ServerContext) Shutdown() error {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	if sc.shutdown {
		return nil
	}
	sc.shutdown = true
	sc.cancel()

	if sc.db != nil {
		return sc.db.Close()
	}
	return nil
}
