package schedule

import (
	"context"

	"github.com/example/booking-mcp/internal/database"
)

// OverlapEngine counts reservation intervals conflicting with a query
// window. The overlap predicate is strict on both bounds, so an interval
// ending exactly when the window starts (or starting exactly when it ends)
// does not conflict.
type OverlapEngine struct {
	db *database.DB
}

// NewOverlapEngine creates an OverlapEngine over the given database.
func NewOverlapEngine(db *database.DB) *OverlapEngine {
	return &OverlapEngine{db: db}
}

// CountConflicts returns per-resource conflict counts for the given ids in
// the window. Ids with zero conflicts are absent from the result; use
// ConflictCounts.Count to default them to zero.
func (e *OverlapEngine) CountConflicts(ctx context.Context, ids []string, w Window) (ConflictCounts, error) {
	const op = "countConflicts"

	if len(ids) == 0 {
		return ConflictCounts{}, nil
	}

	ctx, cancel := e.db.WithQueryTimeout(ctx)
	defer cancel()

	if len(ids) == 1 {
		n, err := e.countSingle(ctx, ids[0], w)
		if err != nil {
			return nil, dataAccess(op, err)
		}
		counts := ConflictCounts{}
		if n > 0 {
			counts[ids[0]] = n
		}
		return counts, nil
	}

	counts, err := e.countGrouped(ctx, ids, w)
	if err != nil {
		return nil, dataAccess(op, err)
	}
	return counts, nil
}

func (e *OverlapEngine) countSingle(ctx context.Context, id string, w Window) (int, error) {
	const query = `
		SELECT COUNT(*)
		FROM resourcelist r
		WHERE r.rlresourceid = ?
		AND (r.rlprevbegin < ? AND r.rlprevend > ?)`

	var n int
	err := e.db.QueryRow(ctx, query, id, w.EndString(), w.StartString()).Scan(&n)
	return n, err
}

func (e *OverlapEngine) countGrouped(ctx context.Context, ids []string, w Window) (ConflictCounts, error) {
	query := `
		SELECT r.rlresourceid, COUNT(*)
		FROM resourcelist r
		WHERE r.rlresourceid IN (` + database.Placeholders(len(ids)) + `)
		AND (r.rlprevbegin < ? AND r.rlprevend > ?)
		GROUP BY r.rlresourceid`

	args := make([]any, 0, len(ids)+2)
	for _, id := range ids {
		args = append(args, id)
	}
	args = append(args, w.EndString(), w.StartString())

	rows, err := e.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := ConflictCounts{}
	for rows.Next() {
		var id string
		var n int
		if err := rows.Scan(&id, &n); err != nil {
			return nil, err
		}
		counts[id] = n
	}
	return counts, rows.Err()
}

// BusyResources returns the distinct ids of resources with at least one
// conflicting interval in the window, across the whole reservation table.
func (e *OverlapEngine) BusyResources(ctx context.Context, w Window) (map[string]struct{}, error) {
	const op = "busyResources"
	const query = `
		SELECT DISTINCT r.rlresourceid
		FROM resourcelist r
		WHERE (r.rlprevbegin < ? AND r.rlprevend > ?)`

	ctx, cancel := e.db.WithQueryTimeout(ctx)
	defer cancel()

	rows, err := e.db.Query(ctx, query, w.EndString(), w.StartString())
	if err != nil {
		return nil, dataAccess(op, err)
	}
	defer rows.Close()

	busy := make(map[string]struct{})
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, dataAccess(op, err)
		}
		busy[id] = struct{}{}
	}
	if err := rows.Err(); err != nil {
		return nil, dataAccess(op, err)
	}
	return busy, nil
}
