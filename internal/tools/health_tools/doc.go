// Package health_tools provides the MCP health check tool reporting server
// and database status.
package health_tools
