package domain

import (
	"errors"
	"sort"
	"time"
)

// Kind separates technical from commercial evaluation data. Visibility of a
// round follows the caller's access level for its kind.
type Kind string

const (
	KindTechnical  Kind = "technical"
	KindCommercial Kind = "commercial"
)

// ValidKind reports whether k is a known evaluation kind.
func ValidKind(k Kind) bool {
	return k == KindTechnical || k == KindCommercial
}

type RoundStatus string

const (
	RoundStatusOpen   RoundStatus = "open"
	RoundStatusClosed RoundStatus = "closed"
)

// ContractorScores maps contractor name to per-criterion scores. Stored as a
// JSONB blob; the totals shown to users are recomputed from it on read.
type ContractorScores map[string]map[string]float64

// Round is one evaluation round of a package. Number is unique per
// (package, kind) and starts at 1.
type Round struct {
	ID        string
	PackageID string
	Kind      Kind
	Number    int
	Status    RoundStatus
	Scores    ContractorScores
	CreatedAt time.Time
	ClosedAt  *time.Time
}

// Validate validates the round for persistence.
func (r *Round) Validate() error {
	if r.PackageID == "" {
		return errors.New("package id is required")
	}
	if !ValidKind(r.Kind) {
		return errors.New("kind must be technical or commercial")
	}
	if r.Number < 1 {
		return errors.New("round number must be >= 1")
	}
	if r.Status == "" {
		r.Status = RoundStatusOpen
	}
	return nil
}

// ContractorTotal is one line of a round summary.
type ContractorTotal struct {
	Contractor string  `json:"contractor"`
	Total      float64 `json:"total"`
}

// Summary aggregates per-contractor totals from the stored scores, sorted by
// total descending, ties by contractor name ascending.
func (r *Round) Summary() []ContractorTotal {
	out := make([]ContractorTotal, 0, len(r.Scores))
	for contractor, criteria := range r.Scores {
		var total float64
		for _, v := range criteria {
			total += v
		}
		out = append(out, ContractorTotal{Contractor: contractor, Total: total})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Total != out[j].Total {
			return out[i].Total > out[j].Total
		}
		return out[i].Contractor < out[j].Contractor
	})
	return out
}
