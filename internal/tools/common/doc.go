// Package common provides shared helpers for MCP tool packages: result
// formatting for domain payloads and errors, and a handler wrapper that adds
// metrics and audit logging around tool invocations.
package common
