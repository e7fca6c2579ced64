// Package aggregate turns a household's raw usage records for a period into
// the normalized, ordered usage sequence the calculator consumes.
//
// Aggregation is a pure read: it never writes to storage and never mutates
// its inputs. Records that cannot be processed are surfaced on the result
// (invalid or unresolved), never dropped without trace.
package aggregate

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/rgoulet/carbonledger/internal/domain"
	"github.com/rgoulet/carbonledger/internal/logging"
	"github.com/rgoulet/carbonledger/internal/units"
)

// Triple is one normalized usage entry: a quantity of activity in the
// subtype's canonical unit, annualized, with the factor adjustment to apply.
type Triple struct {
	RecordID string
	Category domain.Category
	Subtype  domain.Subtype

	// Quantity is in the subtype's canonical unit, annualized by the
	// record's frequency where one applies.
	Quantity float64

	// Adjustment multiplies the emission factor (diet sourcing/organic
	// adjustments); 1 for everything else.
	Adjustment float64
}

// Unresolved flags a record excluded because a required conversion input was
// missing. The calculation proceeds on the resolvable subset; unresolved
// entries ride along as metadata.
type Unresolved struct {
	RecordID string
	Subtype  domain.Subtype
	Reason   string
}

// Invalid flags a record rejected outright (negative or malformed quantity,
// unknown subtype). The batch continues without it.
type Invalid struct {
	RecordID string
	Reason   string
}

// NormalizedUsage is the aggregator output for one household and period.
type NormalizedUsage struct {
	HouseholdID string
	Period      domain.Period
	Triples     []Triple
	Unresolved  []Unresolved
	Invalid     []Invalid
}

// Aggregate normalizes the household's records that fall inside the period.
//
// Behavior:
//   - records outside the period are ignored
//   - negative or non-finite quantities and unknown subtypes are collected
//     under Invalid; the batch continues
//   - records whose unit cannot be converted (unknown unit, fuel volume
//     without an efficiency) are collected under Unresolved
//   - transportation quantities are annualized by the record frequency,
//     diet quantities by weeks-per-year with the sourcing adjustment
//   - output triples are sorted by (category, subtype, record ID) so the
//     sequence is deterministic regardless of input order
func Aggregate(ctx context.Context, householdID string, period domain.Period, records []domain.UsageRecord) *NormalizedUsage {
	log := logging.FromContext(ctx)

	out := &NormalizedUsage{HouseholdID: householdID, Period: period}

	for _, rec := range records {
		if !period.Contains(rec.RecordedAt) {
			continue
		}

		cat, ok := rec.Subtype.CategoryOf()
		if !ok {
			out.Invalid = append(out.Invalid, Invalid{
				RecordID: rec.ID,
				Reason:   fmt.Sprintf("unknown subtype %q", rec.Subtype),
			})
			continue
		}
		if rec.Category != cat {
			out.Invalid = append(out.Invalid, Invalid{
				RecordID: rec.ID,
				Reason:   fmt.Sprintf("subtype %q is not in category %q", rec.Subtype, rec.Category),
			})
			continue
		}

		quantity, err := units.Canonical(rec.Subtype, rec.Quantity, rec.Unit, rec.EfficiencyKmPerL)
		if err != nil {
			switch {
			case errors.Is(err, units.ErrNegativeQuantity), errors.Is(err, units.ErrInvalidQuantity):
				out.Invalid = append(out.Invalid, Invalid{RecordID: rec.ID, Reason: err.Error()})
			default:
				out.Unresolved = append(out.Unresolved, Unresolved{
					RecordID: rec.ID,
					Subtype:  rec.Subtype,
					Reason:   err.Error(),
				})
			}
			continue
		}

		adjustment := 1.0
		switch cat {
		case domain.CategoryTransportation:
			multiplier, known := rec.Frequency.AnnualMultiplier()
			if !known {
				out.Invalid = append(out.Invalid, Invalid{
					RecordID: rec.ID,
					Reason:   fmt.Sprintf("unknown frequency %q", rec.Frequency),
				})
				continue
			}
			quantity *= multiplier
		case domain.CategoryDiet:
			quantity *= units.WeeksPerYear
			adjustment = units.DietAdjustment(rec.LocalSourcedPct, rec.OrganicPct)
		case domain.CategoryEnergy:
			// Energy records are entered as billed amounts; no annualization.
		}

		out.Triples = append(out.Triples, Triple{
			RecordID:   rec.ID,
			Category:   cat,
			Subtype:    rec.Subtype,
			Quantity:   quantity,
			Adjustment: adjustment,
		})
	}

	sort.Slice(out.Triples, func(i, j int) bool {
		a, b := out.Triples[i], out.Triples[j]
		if a.Category != b.Category {
			return a.Category < b.Category
		}
		if a.Subtype != b.Subtype {
			return a.Subtype < b.Subtype
		}
		return a.RecordID < b.RecordID
	})

	log.Debug().
		Str("component", "aggregate").
		Str("household", householdID).
		Str("period", period.String()).
		Int("normalized", len(out.Triples)).
		Int("unresolved", len(out.Unresolved)).
		Int("invalid", len(out.Invalid)).
		Msg("aggregated usage records")

	return out
}
