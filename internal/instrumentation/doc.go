// Package instrumentation provides the observability primitives of the
// server: Prometheus metrics for tool invocations and backend calls, and
// structured audit logging with per-invocation correlation ids.
//
// Metric labels are kept low-cardinality on purpose. Tool names and
// statuses are bounded sets; resource ids and search tokens are not, so
// they appear only in audit logs, never as labels.
package instrumentation
