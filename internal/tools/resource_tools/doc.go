// Package resource_tools provides MCP tools for resource discovery: finding
// free resources in a window and listing the bookable catalog.
package resource_tools
