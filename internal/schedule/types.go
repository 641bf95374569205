package schedule

// Resource is a bookable entity: a room, a vehicle, a projector. All
// queries see only active resources; deactivation happens outside this
// server.
type Resource struct {
	ID           string
	Description  string
	Type         string
	CalendarCode string
}

// ResolutionKind tags how a resource token was resolved.
type ResolutionKind string

const (
	// ResolutionExact means the token matched a resource id
	// case-insensitively. Description search is never consulted.
	ResolutionExact ResolutionKind = "exact"

	// ResolutionSingle means the description search found exactly one
	// resource.
	ResolutionSingle ResolutionKind = "single"

	// ResolutionMultiple means the description search found more than one
	// resource.
	ResolutionMultiple ResolutionKind = "multiple"

	// ResolutionNotFound means nothing matched.
	ResolutionNotFound ResolutionKind = "not_found"
)

// Resolution is the outcome of resolving a resource token. For multiple
// matches the calendar code is taken from the first match; matches are not
// validated to share a calendar (known limitation of the data model).
type Resolution struct {
	Kind         ResolutionKind
	Resources    []Resource
	CalendarCode string
}

// IDs returns the resource ids of the matched set, in match order.
func (r Resolution) IDs() []string {
	ids := make([]string, len(r.Resources))
	for i, res := range r.Resources {
		ids[i] = res.ID
	}
	return ids
}

// ConflictCounts maps resource ids to the number of reservation intervals
// conflicting with a window. Resources with zero conflicts are absent from
// the map; Count makes that explicit instead of leaving callers to
// remember the inner-join semantics.
type ConflictCounts map[string]int

// Count returns the conflict count for id, defaulting absent ids to zero.
func (c ConflictCounts) Count(id string) int {
	return c[id]
}

// Busy reports whether id has at least one conflict.
func (c ConflictCounts) Busy(id string) bool {
	return c[id] > 0
}
