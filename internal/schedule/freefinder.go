package schedule

import (
	"context"

	"github.com/example/booking-mcp/internal/config"
	"github.com/example/booking-mcp/internal/database"
)

// FreeResourceFinder computes which active resources have no conflicting
// reservation in a window, grouped by resource type category.
type FreeResourceFinder struct {
	db      *database.DB
	overlap *OverlapEngine
	types   config.ResourceTypes
}

// NewFreeResourceFinder creates a FreeResourceFinder with the configured
// type-to-label mapping.
func NewFreeResourceFinder(db *database.DB, overlap *OverlapEngine, types config.ResourceTypes) *FreeResourceFinder {
	return &FreeResourceFinder{db: db, overlap: overlap, types: types}
}

// FreeResourcesReport lists free resources grouped by category label.
type FreeResourcesReport struct {
	Period  RequestedPeriod           `json:"periodo_richiesto"`
	Summary FreeResourcesSummary      `json:"riepilogo"`
	ByType  map[string][]FreeResource `json:"risorse_per_tipo"`
}

// RequestedPeriod echoes the requested window with its duration.
type RequestedPeriod struct {
	Start string  `json:"inizio"`
	End   string  `json:"fine"`
	Hours float64 `json:"durata_ore"`
}

// FreeResourcesSummary carries the totals of a free-resource report.
type FreeResourcesSummary struct {
	TotalFree      int `json:"risorse_libere_totali"`
	TypesAvailable int `json:"tipi_disponibili"`
}

// FreeResource is one free resource entry.
type FreeResource struct {
	ID          string `json:"id"`
	Description string `json:"descrizione"`
	TypeCode    string `json:"tipo_codice"`
}

// FindFree returns every active resource without a conflicting reservation
// in the window, grouped by category label. With no reservations in the
// window, that is every active resource. Entries are ordered by type code,
// then id.
func (f *FreeResourceFinder) FindFree(ctx context.Context, w Window) (*FreeResourcesReport, error) {
	const op = "findFree"

	busy, err := f.overlap.BusyResources(ctx, w)
	if err != nil {
		return nil, err
	}

	const query = `
		SELECT reresourceid, redescri, retype
		FROM resources
		WHERE flactive = 1
		ORDER BY retype, reresourceid`

	ctx, cancel := f.db.WithQueryTimeout(ctx)
	defer cancel()

	rows, err := f.db.Query(ctx, query)
	if err != nil {
		return nil, dataAccess(op, err)
	}
	defer rows.Close()

	report := &FreeResourcesReport{
		Period: RequestedPeriod{
			Start: w.StartString(),
			End:   w.EndString(),
			Hours: w.Hours(),
		},
		ByType: map[string][]FreeResource{},
	}

	for rows.Next() {
		var res FreeResource
		if err := rows.Scan(&res.ID, &res.Description, &res.TypeCode); err != nil {
			return nil, dataAccess(op, err)
		}
		if _, isBusy := busy[res.ID]; isBusy {
			continue
		}

		label := f.types.Label(res.TypeCode)
		report.ByType[label] = append(report.ByType[label], res)
		report.Summary.TotalFree++
	}
	if err := rows.Err(); err != nil {
		return nil, dataAccess(op, err)
	}

	report.Summary.TypesAvailable = len(report.ByType)
	return report, nil
}
