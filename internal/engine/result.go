// Package engine computes household carbon footprints from normalized usage
// and an emission factor snapshot.
//
// A calculation is a pure function of its inputs: the same usage sequence
// and the same factor snapshot always produce the same result, bit for bit.
// Results are derived values; they are recomputed on demand and never
// mutated after being produced.
package engine

import (
	"time"

	"github.com/rgoulet/carbonledger/internal/aggregate"
	"github.com/rgoulet/carbonledger/internal/domain"
)

// Warning marks a non-fatal substitution made during calculation. Warnings
// are recorded on the result, never hidden.
type Warning string

const (
	// WarningMemberCountDefaulted means the household had zero members and
	// per-capita was computed against a member count of one.
	WarningMemberCountDefaulted Warning = "member_count_defaulted"
)

// Deltas holds signed percentage changes against the prior period. A nil
// *Deltas on the result means no prior result existed; that is "not
// available", never zero.
type Deltas struct {
	// TotalPct is the overall change, e.g. -12.5 for a 12.5% reduction.
	// Nil when the prior total was zero: the ratio is undefined, which is
	// not the same as unchanged.
	TotalPct *float64

	// ByCategoryPct holds per-category changes. Categories whose prior
	// subtotal was zero are absent (the ratio is undefined).
	ByCategoryPct map[domain.Category]float64
}

// ReferenceComparison relates per-capita emissions to published averages.
type ReferenceComparison struct {
	NationalPerCapitaKg float64
	GlobalPerCapitaKg   float64

	// PctOfNational and PctOfGlobal express household per-capita as a
	// percentage of the respective average (100 = exactly average).
	PctOfNational float64
	PctOfGlobal   float64
}

// FootprintResult is the computed footprint for one household and period.
type FootprintResult struct {
	ID          string
	HouseholdID string
	Period      domain.Period

	// Subtotals holds kg CO2e per category. The sum of subtotals equals
	// TotalKg within 1e-9.
	Subtotals map[domain.Category]float64
	TotalKg   float64

	// PerCapitaKg is TotalKg divided by EffectiveMembers.
	PerCapitaKg float64
	// EffectiveMembers is the member count used for per-capita; it is
	// max(1, household members).
	EffectiveMembers int

	Warnings []Warning

	// Unresolved and Invalid carry the aggregator's skipped records so the
	// presenter can say "footprint is N, but M records could not be
	// processed".
	Unresolved []aggregate.Unresolved
	Invalid    []aggregate.Invalid

	// Deltas is nil when no prior-period result exists.
	Deltas *Deltas

	Reference ReferenceComparison

	// FactorVersion is the data version of the snapshot used, so a stored
	// result stays point-in-time accurate even after factors change.
	FactorVersion string

	CalculatedAt time.Time
}

// Subtotal returns the kg CO2e for a category (zero when nothing was
// recorded for it).
func (r *FootprintResult) Subtotal(cat domain.Category) float64 {
	return r.Subtotals[cat]
}

// HasWarning reports whether the result carries the given warning.
func (r *FootprintResult) HasWarning(w Warning) bool {
	for _, got := range r.Warnings {
		if got == w {
			return true
		}
	}
	return false
}
