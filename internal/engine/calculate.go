package engine

import (
	"context"
	"errors"
	"math"
	"time"

	"github.com/rgoulet/carbonledger/internal/aggregate"
	"github.com/rgoulet/carbonledger/internal/domain"
	"github.com/rgoulet/carbonledger/internal/factor"
	"github.com/rgoulet/carbonledger/internal/logging"
)

// Request carries everything a calculation reads. The factor snapshot must
// not be mutated while the calculation runs; Snapshot is immutable by
// construction, so passing one satisfies that.
type Request struct {
	Usage     *aggregate.NormalizedUsage
	Factors   *factor.Snapshot
	Household domain.Household

	// Prior, when set, is the stored result for the preceding period and
	// enables delta computation.
	Prior *FootprintResult

	// Now stamps CalculatedAt; the zero value leaves the stamp unset, which
	// keeps repeated calculations over identical input byte-identical.
	Now time.Time
}

// precision quantizes every per-record product before accumulation so that
// summation order can never shift results by float residue.
const precision = 1e9

func round9(v float64) float64 {
	return math.Round(v*precision) / precision
}

// Calculate computes the footprint for the request's household and period.
//
// Behavior:
//   - each normalized triple resolves its factor region-first, default
//     second; an unresolvable subtype aborts the whole calculation with
//     *factor.MissingError (no partial result)
//   - per-record kg CO2e = quantity x factor x adjustment, rounded to 1e-9
//     before accumulation; category subtotals sum to the total
//   - per-capita divides by max(1, members); a zero member count is
//     substituted with one and recorded as a warning
//   - deltas against Prior are computed per category and overall; without a
//     Prior the result's Deltas is nil (not available, never zero)
//   - the aggregator's unresolved and invalid entries are copied onto the
//     result as metadata
func Calculate(ctx context.Context, req Request) (*FootprintResult, error) {
	log := logging.FromContext(ctx)

	if req.Usage == nil {
		return nil, errors.New("calculate: usage must not be nil")
	}
	if req.Factors == nil {
		return nil, errors.New("calculate: factor snapshot must not be nil")
	}

	log.Debug().
		Str("component", "engine").
		Str("operation", "calculate").
		Str("household", req.Household.ID).
		Str("period", req.Usage.Period.String()).
		Str("factor_version", req.Factors.Version()).
		Int("records", len(req.Usage.Triples)).
		Msg("starting footprint calculation")

	subtotals := make(map[domain.Category]float64, len(domain.Categories()))

	// Triples arrive sorted from the aggregator; iterating them in order
	// with quantized accumulation keeps the arithmetic deterministic.
	for _, tr := range req.Usage.Triples {
		f, err := req.Factors.Resolve(tr.Subtype, req.Household.Region)
		if err != nil {
			var missing *factor.MissingError
			if errors.As(err, &missing) {
				log.Error().
					Str("component", "engine").
					Str("household", req.Household.ID).
					Str("subtype", string(missing.Subtype)).
					Msg("missing emission factor, aborting calculation")
			}
			return nil, err
		}
		subtotals[tr.Category] = round9(subtotals[tr.Category] + round9(tr.Quantity*f.Value*tr.Adjustment))
	}

	total := 0.0
	for _, cat := range domain.Categories() {
		total = round9(total + subtotals[cat])
	}

	members := req.Household.Members
	var warnings []Warning
	if members < 1 {
		members = 1
		warnings = append(warnings, WarningMemberCountDefaulted)
		log.Warn().
			Str("component", "engine").
			Str("household", req.Household.ID).
			Msg("household has no members recorded, computing per-capita against one")
	}
	perCapita := round9(total / float64(members))

	result := &FootprintResult{
		HouseholdID:      req.Usage.HouseholdID,
		Period:           req.Usage.Period,
		Subtotals:        subtotals,
		TotalKg:          total,
		PerCapitaKg:      perCapita,
		EffectiveMembers: members,
		Warnings:         warnings,
		Unresolved:       req.Usage.Unresolved,
		Invalid:          req.Usage.Invalid,
		Deltas:           computeDeltas(subtotals, total, req.Prior),
		Reference:        compareReference(perCapita, req.Factors.Reference()),
		FactorVersion:    req.Factors.Version(),
		CalculatedAt:     req.Now,
	}

	log.Info().
		Str("component", "engine").
		Str("household", req.Household.ID).
		Str("period", result.Period.String()).
		Float64("total_kg", result.TotalKg).
		Float64("per_capita_kg", result.PerCapitaKg).
		Int("unresolved", len(result.Unresolved)).
		Int("invalid", len(result.Invalid)).
		Msg("footprint calculated")

	return result, nil
}

// computeDeltas returns signed percentage changes against the prior result,
// or nil when there is none.
func computeDeltas(subtotals map[domain.Category]float64, total float64, prior *FootprintResult) *Deltas {
	if prior == nil {
		return nil
	}

	d := &Deltas{ByCategoryPct: make(map[domain.Category]float64)}
	if prior.TotalKg != 0 {
		pct := round9((total - prior.TotalKg) / prior.TotalKg * 100)
		d.TotalPct = &pct
	}
	for _, cat := range domain.Categories() {
		priorSub := prior.Subtotals[cat]
		if priorSub == 0 {
			// Ratio against zero is undefined; the category stays absent.
			continue
		}
		d.ByCategoryPct[cat] = round9((subtotals[cat] - priorSub) / priorSub * 100)
	}
	return d
}

// compareReference relates per-capita emissions to the published averages
// carried on the factor snapshot.
func compareReference(perCapita float64, ref factor.Reference) ReferenceComparison {
	cmp := ReferenceComparison{
		NationalPerCapitaKg: ref.NationalPerCapitaKg,
		GlobalPerCapitaKg:   ref.GlobalPerCapitaKg,
	}
	if ref.NationalPerCapitaKg > 0 {
		cmp.PctOfNational = round9(perCapita / ref.NationalPerCapitaKg * 100)
	}
	if ref.GlobalPerCapitaKg > 0 {
		cmp.PctOfGlobal = round9(perCapita / ref.GlobalPerCapitaKg * 100)
	}
	return cmp
}
