// Package server provides the MCP server context, transports and probes.
//
// ServerContext wires the scheduling services over one database handle
// and carries the instrumentation shared by every tool. HTTPServer mounts
// the streamable HTTP transport next to the Kubernetes health probes;
// MetricsServer exposes Prometheus metrics on a dedicated port.
package server
