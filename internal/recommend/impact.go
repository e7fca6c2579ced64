package recommend

import "github.com/rgoulet/carbonledger/internal/engine"

// Impact estimates what acting on a tip would do to a household's footprint.
type Impact struct {
	// PotentialReductionKg is the estimated annual reduction. It is capped
	// at 30% of the category's current emissions: a tip can't save more
	// than a realistic share of what the household actually emits there.
	PotentialReductionKg float64

	// PctOfTotal is the reduction as a percentage of the current total.
	PctOfTotal float64

	// NewTotalKg is the projected total after the reduction.
	NewTotalKg float64
}

// categoryImpactCap limits a tip's credited reduction to this share of the
// category's current emissions.
const categoryImpactCap = 0.3

// EstimateImpact projects the effect of one tip against a result.
func EstimateImpact(result *engine.FootprintResult, tip Tip) Impact {
	if result == nil {
		return Impact{}
	}

	categoryKg := result.Subtotal(tip.Category)
	reduction := tip.PotentialSavingsKg
	if capped := categoryKg * categoryImpactCap; reduction > capped {
		reduction = capped
	}

	impact := Impact{
		PotentialReductionKg: reduction,
		NewTotalKg:           result.TotalKg - reduction,
	}
	if result.TotalKg > 0 {
		impact.PctOfTotal = reduction / result.TotalKg * 100
	}
	return impact
}
