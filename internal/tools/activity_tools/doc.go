// Package activity_tools provides the MCP write tools that create and
// update activities through the booking REST API.
package activity_tools
