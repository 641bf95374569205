// Package booking_tools provides MCP tools for querying reservations:
// aggregating confirmed bookings over a period and checking whether a
// resource is free in a given window.
package booking_tools
