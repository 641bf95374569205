// Package schedule implements the availability-resolution and
// conflict-detection core of the booking server.
//
// # Components
//
//   - Resolver: turns a resource token (exact id or description fragment)
//     into the matching active resources. Exact id match (case-insensitive)
//     always wins over description substring search.
//   - OverlapEngine: counts reservation intervals conflicting with a query
//     window. The predicate is strictly exclusive at both bounds
//     (begin < windowEnd AND end > windowStart), so back-to-back bookings
//     never conflict.
//   - AvailabilityService: orchestrates the two to answer availability
//     questions for single- and multi-match tokens.
//   - AggregationService: groups confirmed bookings per calendar with event
//     and hour totals, restricted to the configured calendar allow-list.
//   - FreeResourceFinder: the complement query, grouped by resource type
//     category.
//   - Catalog: resource listing, single-resource lookups for the activity
//     write path, the task-id sequence and health counts.
//
// All services are stateless and read-only; each call runs its queries
// under a bounded timeout and is safe for concurrent use. Hour figures in
// reports are rounded to one decimal place, half away from zero.
//
// Errors carry a Kind (validation, not_found, data_access, unexpected); the
// tool layer converts them into structured error results so nothing
// propagates to the MCP client as a protocol failure.
package schedule
