package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	mcpserver "github.com/mark3labs/mcp-go/server"
)

// HTTPServer serves the MCP server over streamable HTTP and exposes the
// health endpoints on the same listener.
type HTTPServer struct {
	mcpServer  *mcpserver.MCPServer
	health     *HealthChecker
	httpServer *http.Server
}

// NewHTTPServer creates an HTTP transport for the given MCP server.
func NewHTTPServer(mcpServer *mcpserver.MCPServer, health *HealthChecker) *HTTPServer {
	return &HTTPServer{
		mcpServer: mcpServer,
		health:    health,
	}
}

// Start starts the HTTP server on addr in a blocking manner. The MCP
// endpoint is mounted at /mcp.
func (s *HTTPServer) Start(addr string) error {
	if addr == "" {
		return fmt.Errorf("listen address cannot be empty")
	}

	mux := http.NewServeMux()

	streamable := mcpserver.NewStreamableHTTPServer(s.mcpServer,
		mcpserver.WithEndpointPath("/mcp"),
	)
	mux.Handle("/mcp", streamable)

	if s.health != nil {
		s.health.RegisterHealthEndpoints(mux)
	}

	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully shuts down the HTTP server.
func (s *HTTPServer) Shutdown(ctx context.Context) error {
	if s.httpServer != nil {
		return s.httpServer.Shutdown(ctx)
	}
	return nil
}
