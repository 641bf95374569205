package schedule

import (
	"context"
	"encoding/json"
	"fmt"
)

// Response values for the "tipo" field of availability reports.
const (
	searchKindSpecific = "risorsa_specifica"
	searchKindMultiple = "ricerca_multipla"
)

// AvailabilityService answers "is resource X free in window W" for tokens
// resolving to one or many resources.
type AvailabilityService struct {
	resolver *Resolver
	overlap  *OverlapEngine
}

// NewAvailabilityService creates an AvailabilityService from its two
// collaborators.
func NewAvailabilityService(resolver *Resolver, overlap *OverlapEngine) *AvailabilityService {
	return &AvailabilityService{resolver: resolver, overlap: overlap}
}

// SingleResourceReport is the availability report for a token that resolved
// to exactly one resource (exact id match or single description match).
type SingleResourceReport struct {
	Resource  SingleResourceInfo `json:"risorsa"`
	Available bool               `json:"disponibile"`
	Conflicts int                `json:"conflitti"`
}

// SingleResourceInfo identifies the resolved resource in a single report.
type SingleResourceInfo struct {
	OriginalSearch string `json:"ricerca_originale"`
	SearchKind     string `json:"tipo"`
	ID             string `json:"id"`
	Description    string `json:"descrizione"`
}

// MultiResourceReport is the availability report for a token that resolved
// to several resources.
type MultiResourceReport struct {
	Search MultiSearchInfo   `json:"risorsa"`
	Result MultiSearchResult `json:"risultato"`
}

// MultiSearchInfo describes the matched set of a multi-resource search.
type MultiSearchInfo struct {
	OriginalSearch string   `json:"ricerca_originale"`
	SearchKind     string   `json:"tipo"`
	ResourcesFound int      `json:"risorse_trovate"`
	ResourceIDs    []string `json:"elenco_risorse"`
}

// MultiSearchResult partitions the matched set into free and busy
// resources. Free and Busy are disjoint and together cover the whole set.
type MultiSearchResult struct {
	AtLeastOneFree bool     `json:"almeno_una_libera"`
	Free           []string `json:"risorse_libere"`
	Busy           []string `json:"risorse_occupate"`
	TotalFree      int      `json:"totale_libere"`
	TotalBusy      int      `json:"totale_occupate"`
}

// AvailabilityReport is either a single- or multi-resource report; exactly
// one of the two fields is set. It marshals directly as whichever shape
// applies.
type AvailabilityReport struct {
	Single   *SingleResourceReport
	Multiple *MultiResourceReport
}

// MarshalJSON implements json.Marshaler.
func (r AvailabilityReport) MarshalJSON() ([]byte, error) {
	switch {
	case r.Single != nil:
		return json.Marshal(r.Single)
	case r.Multiple != nil:
		return json.Marshal(r.Multiple)
	default:
		return nil, fmt.Errorf("empty availability report")
	}
}

// Check resolves the token and reports availability for the window. A token
// resolving to nothing returns a not-found error without issuing any
// conflict query.
func (s *AvailabilityService) Check(ctx context.Context, token string, w Window) (*AvailabilityReport, error) {
	resolution, err := s.resolver.Resolve(ctx, token)
	if err != nil {
		return nil, err
	}

	counts, err := s.overlap.CountConflicts(ctx, resolution.IDs(), w)
	if err != nil {
		return nil, err
	}

	if resolution.Kind == ResolutionMultiple {
		return &AvailabilityReport{Multiple: s.multiReport(token, resolution, counts)}, nil
	}
	return &AvailabilityReport{Single: s.singleReport(token, resolution.Resources[0], counts)}, nil
}

func (s *AvailabilityService) singleReport(token string, res Resource, counts ConflictCounts) *SingleResourceReport {
	conflicts := counts.Count(res.ID)
	return &SingleResourceReport{
		Resource: SingleResourceInfo{
			OriginalSearch: token,
			SearchKind:     searchKindSpecific,
			ID:             res.ID,
			Description:    res.Description,
		},
		Available: conflicts == 0,
		Conflicts: conflicts,
	}
}

func (s *AvailabilityService) multiReport(token string, resolution Resolution, counts ConflictCounts) *MultiResourceReport {
	free := []string{}
	busy := []string{}
	for _, res := range resolution.Resources {
		if counts.Busy(res.ID) {
			busy = append(busy, res.ID)
		} else {
			free = append(free, res.ID)
		}
	}

	return &MultiResourceReport{
		Search: MultiSearchInfo{
			OriginalSearch: token,
			SearchKind:     searchKindMultiple,
			ResourcesFound: len(resolution.Resources),
			ResourceIDs:    resolution.IDs(),
		},
		Result: MultiSearchResult{
			AtLeastOneFree: len(free) > 0,
			Free:           free,
			Busy:           busy,
			TotalFree:      len(free),
			TotalBusy:      len(busy),
		},
	}
}
