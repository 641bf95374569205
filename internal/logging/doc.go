// Package logging provides slog-based helpers for structured logging.
//
// It defines canonical attribute keys (operation, task_id, status, error)
// so log entries stay consistent and queryable across the
// tool handlers, the data access layer and the activity client. All logging
// goes to stderr so the stdio MCP transport keeps stdout clean for protocol
// frames.
package logging
