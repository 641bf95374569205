package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/example/booking-mcp/internal/activity"
	"github.com/example/booking-mcp/internal/config"
	"github.com/example/booking-mcp/internal/database"
	"github.com/example/booking-mcp/internal/instrumentation"
	"github.com/example/booking-mcp/internal/server"
	"github.com/example/booking-mcp/internal/tools/activity_tools"
	"github.com/example/booking-mcp/internal/tools/booking_tools"
	"github.com/example/booking-mcp/internal/tools/health_tools"
	"github.com/example/booking-mcp/internal/tools/resource_tools"
)

// serveOptions holds the serve command configuration after flag and
// environment resolution.
type serveOptions struct {
	configFile     string
	debug          bool
	transport      string
	httpAddr       string
	yolo           bool
	metricsEnabled bool
	metricsAddr    string
}

func newServeCmd() *cobra.Command {
	var opts serveOptions

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the MCP server",
		Long: `Start the Model Context Protocol (MCP) server exposing the booking tools
for AI assistants: availability checks, free-resource search, booking
aggregation and activity creation.

Supports multiple transport types:
  - stdio: Standard input/output (default)
  - streamable-http: Streamable HTTP transport

Safety Mode:
  By default, the server operates in read-only mode, providing only query
  tools. Use --yolo to enable write operations (creating and updating
  activities through the booking REST API).`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(opts)
		},
	}

	cmd.Flags().StringVar(&opts.configFile, "config", "", "Path to the configuration file. Can also use BOOKING_CONFIG env var.")
	cmd.Flags().BoolVar(&opts.debug, "debug", false, "Enable debug logging")
	cmd.Flags().StringVar(&opts.transport, "transport", "stdio", "Transport type: stdio or streamable-http")
	cmd.Flags().StringVar(&opts.httpAddr, "http-addr", ":8080", "HTTP server address (for streamable-http transport)")
	cmd.Flags().BoolVar(&opts.yolo, "yolo", false, "Enable write operations (activity creation and update). Default is read-only mode.")
	cmd.Flags().BoolVar(&opts.metricsEnabled, "metrics-enabled", false, "Enable the Prometheus metrics server (non-stdio transports only). Can also use METRICS_ENABLED env var.")
	cmd.Flags().StringVar(&opts.metricsAddr, "metrics-addr", server.DefaultMetricsAddr, "Metrics server address. Can also use METRICS_ADDR env var.")

	return cmd
}

// newLogger builds the process logger. Logs go to stderr so the stdio
// transport keeps stdout clean for the MCP protocol.
func newLogger(debug bool) *slog.Logger {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

func runServe(opts serveOptions) error {
	// Graceful shutdown on SIGINT/SIGTERM
	shutdownCtx, cancel := signal.NotifyContext(context.Background(),
		os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// Environment fallbacks for flags left at their defaults
	if opts.configFile == "" {
		opts.configFile = os.Getenv("BOOKING_CONFIG")
	}
	if !opts.metricsEnabled && os.Getenv("METRICS_ENABLED") == "true" {
		opts.metricsEnabled = true
	}
	if opts.metricsAddr == server.DefaultMetricsAddr {
		if addr := os.Getenv("METRICS_ADDR"); addr != "" {
			opts.metricsAddr = addr
		}
	}

	logger := newLogger(opts.debug)

	cfg, err := config.Load(opts.configFile)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	db, err := database.Open(shutdownCtx, cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}

	pingCtx, cancelPing := context.WithTimeout(shutdownCtx, 5*time.Second)
	err = db.Ping(pingCtx)
	cancelPing()
	if err != nil {
		_ = db.Close()
		return fmt.Errorf("database is unreachable: %w", err)
	}

	// Metrics only make sense for long-lived transports
	var metrics *instrumentation.Metrics
	var metricsServer *server.MetricsServer
	if opts.transport != "stdio" && opts.metricsEnabled {
		registry := prometheus.NewRegistry()
		metrics, err = instrumentation.NewMetrics(registry)
		if err != nil {
			_ = db.Close()
			return fmt.Errorf("failed to create metrics: %w", err)
		}

		metricsServer, err = server.NewMetricsServer(server.MetricsServerConfig{
			Addr:     opts.metricsAddr,
			Registry: registry,
		})
		if err != nil {
			_ = db.Close()
			return fmt.Errorf("failed to create metrics server: %w", err)
		}

		go func() {
			if err := metricsServer.Start(); err != nil && err != http.ErrServerClosed {
				logger.Error("metrics server failed", slog.String("error", err.Error()))
			}
		}()
		logger.Info("metrics server started", slog.String("addr", metricsServer.Addr()))
	}

	sc := server.NewServerContext(shutdownCtx, cfg, db, logger, metrics)
	defer func() { _ = sc.Shutdown() }()

	if opts.yolo {
		if err := cfg.ValidateAPI(); err != nil {
			return fmt.Errorf("write operations requested but the activity API is not configured: %w", err)
		}
		client := activity.NewClient(cfg.API)
		sc.EnableWrites(activity.NewService(client, sc.Catalog(), cfg, logger))
		logger.Warn("write operations enabled")
	}

	mcpSrv := mcpserver.NewMCPServer("booking-mcp", version,
		mcpserver.WithToolCapabilities(true),
	)

	if err := registerAllTools(mcpSrv, sc, !opts.yolo); err != nil {
		return fmt.Errorf("failed to register tools: %w", err)
	}

	switch opts.transport {
	case "stdio":
		return runStdioServer(shutdownCtx, mcpSrv)
	case "streamable-http":
		return runHTTPServer(shutdownCtx, mcpSrv, sc, opts.httpAddr, metricsServer, logger)
	default:
		return fmt.Errorf("unsupported transport type: %s (use stdio or streamable-http)", opts.transport)
	}
}

// registerAllTools registers every tool package with the MCP server
func registerAllTools(s *mcpserver.MCPServer, sc *server.ServerContext, readOnly bool) error {
	if err := booking_tools.RegisterBookingTools(s, sc); err != nil {
		return fmt.Errorf("failed to register booking tools: %w", err)
	}
	if err := resource_tools.RegisterResourceTools(s, sc); err != nil {
		return fmt.Errorf("failed to register resource tools: %w", err)
	}
	if err := health_tools.RegisterHealthTools(s, sc); err != nil {
		return fmt.Errorf("failed to register health tools: %w", err)
	}
	if err := activity_tools.RegisterActivityTools(s, sc, readOnly); err != nil {
		return fmt.Errorf("failed to register activity tools: %w", err)
	}
	return nil
}

// runStdioServer serves MCP over stdin/stdout until the stream closes or a
// shutdown signal arrives.
func runStdioServer(ctx context.Context, mcpSrv *mcpserver.MCPServer) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- mcpserver.ServeStdio(mcpSrv)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		return nil
	}
}

// runHTTPServer serves MCP over streamable HTTP with health probes on the
// same listener, shutting down gracefully on signal.
func runHTTPServer(ctx context.Context, mcpSrv *mcpserver.MCPServer, sc *server.ServerContext, addr string, metricsServer *server.MetricsServer, logger *slog.Logger) error {
	health := server.NewHealthChecker(sc)
	httpSrv := server.NewHTTPServer(mcpSrv, health)

	errCh := make(chan error, 1)
	go func() {
		if err := httpSrv.Start(addr); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
		close(errCh)
	}()

	health.SetReady(true)
	logger.Info("MCP server listening",
		slog.String("addr", addr),
		slog.String("endpoint", "/mcp"))

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("HTTP server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	health.SetReady(false)
	logger.Info("shutting down")

	stopCtx, cancel := context.WithTimeout(context.Background(), server.DefaultShutdownTimeout)
	defer cancel()

	if err := httpSrv.Shutdown(stopCtx); err != nil {
		logger.Error("HTTP server shutdown failed", slog.String("error", err.Error()))
	}
	if metricsServer != nil {
		if err := metricsServer.Shutdown(stopCtx); err != nil {
			logger.Error("metrics server shutdown failed", slog.String("error", err.Error()))
		}
	}
	return nil
}
