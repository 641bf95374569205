package schedule

import (
	"context"
	"fmt"

	"github.com/example/booking-mcp/internal/database"
)

// Catalog exposes the resource and calendar inventory: the full active
// resource listing, single-resource lookups for the activity write path,
// the progressive task-id sequence, and the counts the health check
// reports.
type Catalog struct {
	db *database.DB
}

// NewCatalog creates a Catalog over the given database.
func NewCatalog(db *database.DB) *Catalog {
	return &Catalog{db: db}
}

// ResourceListReport lists all active resources.
type ResourceListReport struct {
	TotalResources int                 `json:"total_resources"`
	Resources      []ResourceListEntry `json:"resources"`
}

// ResourceListEntry is one entry of the resource listing. This report keeps
// the original English field names.
type ResourceListEntry struct {
	ID           string `json:"id"`
	Description  string `json:"description"`
	Type         string `json:"type"`
	CalendarCode string `json:"calendar_code"`
}

// ListActive returns all active resources ordered by type, then
// description.
func (c *Catalog) ListActive(ctx context.Context) (*ResourceListReport, error) {
	const op = "listResources"
	const query = `
		SELECT reresourceid, redescri, retype, recodcal
		FROM resources
		WHERE flactive = 1
		ORDER BY retype, redescri`

	ctx, cancel := c.db.WithQueryTimeout(ctx)
	defer cancel()

	rows, err := c.db.Query(ctx, query)
	if err != nil {
		return nil, dataAccess(op, err)
	}
	defer rows.Close()

	report := &ResourceListReport{Resources: []ResourceListEntry{}}
	for rows.Next() {
		var entry ResourceListEntry
		if err := rows.Scan(&entry.ID, &entry.Description, &entry.Type, &entry.CalendarCode); err != nil {
			return nil, dataAccess(op, err)
		}
		report.Resources = append(report.Resources, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, dataAccess(op, err)
	}

	report.TotalResources = len(report.Resources)
	return report, nil
}

// ActiveResource looks up one active resource by exact id. Inactive or
// unknown ids yield a not-found error.
func (c *Catalog) ActiveResource(ctx context.Context, id string) (Resource, error) {
	const op = "activeResource"
	const query = `
		SELECT reresourceid, redescri, retype, recodcal
		FROM resources
		WHERE reresourceid = ? AND flactive = 1`

	ctx, cancel := c.db.WithQueryTimeout(ctx)
	defer cancel()

	var res Resource
	err := c.db.QueryRow(ctx, query, id).Scan(&res.ID, &res.Description, &res.Type, &res.CalendarCode)
	if err != nil {
		if isNoRows(err) {
			return Resource{}, newNotFound(op, fmt.Sprintf("Risorsa '%s' non trovata o non attiva", id))
		}
		return Resource{}, dataAccess(op, err)
	}
	return res, nil
}

// taskSequenceCode is the cpwarn row holding the task-id counter.
const taskSequenceCode = `prog\taskevents`

// NextTaskID reads the progressive task-id sequence and returns the next
// value. The sequence itself is advanced by the activity backend, not here.
func (c *Catalog) NextTaskID(ctx context.Context) (int64, error) {
	const op = "nextTaskID"
	const query = `SELECT c.autonum FROM cpwarn c WHERE c.tablecode = ?`

	ctx, cancel := c.db.WithQueryTimeout(ctx)
	defer cancel()

	var current int64
	err := c.db.QueryRow(ctx, query, taskSequenceCode).Scan(&current)
	if err != nil {
		if isNoRows(err) {
			return 0, newNotFound(op, "sequenza task non trovata")
		}
		return 0, dataAccess(op, err)
	}
	return current + 1, nil
}

// Counts returns the total calendar count and the active resource count.
func (c *Catalog) Counts(ctx context.Context) (calendars int, activeResources int, err error) {
	const op = "counts"

	ctx, cancel := c.db.WithQueryTimeout(ctx)
	defer cancel()

	if err := c.db.QueryRow(ctx, `SELECT COUNT(*) FROM calendar`).Scan(&calendars); err != nil {
		return 0, 0, dataAccess(op, err)
	}
	if err := c.db.QueryRow(ctx, `SELECT COUNT(*) FROM resources WHERE flactive = 1`).Scan(&activeResources); err != nil {
		return 0, 0, dataAccess(op, err)
	}
	return calendars, activeResources, nil
}
