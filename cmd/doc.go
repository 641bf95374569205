// Package cmd implements the command-line interface for booking-mcp.
//
// This package provides the following commands:
//   - serve: Start the MCP server to provide booking tools for AI assistants
//   - version: Display version information
package cmd
