package schedule

import (
	"context"
	"fmt"

	"github.com/example/booking-mcp/internal/database"
)

// Resolver turns a user-supplied resource token (exact id or part of a
// description) into the matching active resources.
type Resolver struct {
	db *database.DB
}

// NewResolver creates a Resolver over the given database.
func NewResolver(db *database.DB) *Resolver {
	return &Resolver{db: db}
}

// Resolve looks the token up among active resources. An exact id match
// (case-insensitive) wins outright; otherwise every resource whose
// description contains the token (case-insensitive) is returned, ordered by
// id. A token matching nothing yields a not-found error.
func (r *Resolver) Resolve(ctx context.Context, token string) (Resolution, error) {
	const op = "resolve"

	if token == "" {
		return Resolution{}, newValidation(op, "campo risorsa obbligatorio")
	}

	ctx, cancel := r.db.WithQueryTimeout(ctx)
	defer cancel()

	exact, found, err := r.exactMatch(ctx, token)
	if err != nil {
		return Resolution{}, dataAccess(op, err)
	}
	if found {
		return Resolution{
			Kind:         ResolutionExact,
			Resources:    []Resource{exact},
			CalendarCode: exact.CalendarCode,
		}, nil
	}

	matches, err := r.descriptionMatches(ctx, token)
	if err != nil {
		return Resolution{}, dataAccess(op, err)
	}

	switch len(matches) {
	case 0:
		return Resolution{}, newNotFound(op, fmt.Sprintf("Risorsa '%s' non trovata", token))
	case 1:
		return Resolution{
			Kind:         ResolutionSingle,
			Resources:    matches,
			CalendarCode: matches[0].CalendarCode,
		}, nil
	default:
		// Calendar code inferred from the first match; homogeneity across
		// matches is assumed, not checked.
		return Resolution{
			Kind:         ResolutionMultiple,
			Resources:    matches,
			CalendarCode: matches[0].CalendarCode,
		}, nil
	}
}

func (r *Resolver) exactMatch(ctx context.Context, token string) (Resource, bool, error) {
	const query = `
		SELECT reresourceid, redescri, retype, recodcal
		FROM resources
		WHERE UPPER(reresourceid) = UPPER(?) AND flactive = 1`

	var res Resource
	err := r.db.QueryRow(ctx, query, token).Scan(&res.ID, &res.Description, &res.Type, &res.CalendarCode)
	if err != nil {
		if isNoRows(err) {
			return Resource{}, false, nil
		}
		return Resource{}, false, err
	}
	return res, true, nil
}

func (r *Resolver) descriptionMatches(ctx context.Context, token string) ([]Resource, error) {
	const query = `
		SELECT reresourceid, redescri, retype, recodcal
		FROM resources
		WHERE LOWER(redescri) LIKE LOWER(?) AND flactive = 1
		ORDER BY reresourceid`

	rows, err := r.db.Query(ctx, query, "%"+token+"%")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var matches []Resource
	for rows.Next() {
		var res Resource
		if err := rows.Scan(&res.ID, &res.Description, &res.Type, &res.CalendarCode); err != nil {
			return nil, err
		}
		matches = append(matches, res)
	}
	return matches, rows.Err()
}
