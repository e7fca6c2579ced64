package recommend

import (
	"sort"

	"github.com/rgoulet/carbonledger/internal/domain"
	"github.com/rgoulet/carbonledger/internal/engine"
)

// DefaultMaxCount caps the selection when the caller passes no limit.
const DefaultMaxCount = 5

// Options tune a selection.
type Options struct {
	// MaxCount caps the returned list; <= 0 means DefaultMaxCount.
	MaxCount int

	// Dismissed holds tip IDs the household has dismissed; they are
	// excluded unless IncludeDismissed is set.
	Dismissed        map[string]bool
	IncludeDismissed bool
}

// Select returns the tips applicable to the result, highest priority weight
// first, ties broken by catalog insertion order.
//
// A tip qualifies when it is active, not dismissed, and the emission of its
// target category - per capita or total, per the tip's basis - meets or
// exceeds its threshold. The list holds at most MaxCount entries and is
// never padded with non-qualifying tips.
func Select(result *engine.FootprintResult, catalog *Catalog, opts Options) []Tip {
	if result == nil || catalog == nil {
		return nil
	}

	maxCount := opts.MaxCount
	if maxCount <= 0 {
		maxCount = DefaultMaxCount
	}

	var qualifying []Tip
	for _, tip := range catalog.tips {
		if !tip.Active {
			continue
		}
		if !opts.IncludeDismissed && opts.Dismissed[tip.ID] {
			continue
		}
		if Qualifies(result, tip) {
			qualifying = append(qualifying, tip)
		}
	}

	// SliceStable keeps catalog insertion order for equal weights.
	sort.SliceStable(qualifying, func(i, j int) bool {
		return qualifying[i].Weight > qualifying[j].Weight
	})

	if len(qualifying) > maxCount {
		qualifying = qualifying[:maxCount]
	}
	return qualifying
}

// Qualifies evaluates a tip's threshold condition against the result.
func Qualifies(result *engine.FootprintResult, tip Tip) bool {
	return metric(result, tip) >= tip.ThresholdKg
}

// metric returns the emission the tip's threshold compares against.
func metric(result *engine.FootprintResult, tip Tip) float64 {
	subtotal := result.Subtotal(tip.Category)
	if tip.Basis == BasisPerCapita {
		return subtotal / float64(max(1, result.EffectiveMembers))
	}
	return subtotal
}

// Personalized returns tips for the household's two highest-emitting
// categories, up to three per category ordered by potential savings. It is
// the "show me where to start" view, independent of threshold conditions.
func Personalized(result *engine.FootprintResult, catalog *Catalog, dismissed map[string]bool) []Tip {
	if result == nil || catalog == nil {
		return nil
	}

	cats := rankedCategories(result)
	if len(cats) > 2 {
		cats = cats[:2]
	}

	var out []Tip
	for _, cat := range cats {
		var forCat []Tip
		for _, tip := range catalog.tips {
			if tip.Category == cat && tip.Active && !dismissed[tip.ID] {
				forCat = append(forCat, tip)
			}
		}
		sort.SliceStable(forCat, func(i, j int) bool {
			return forCat[i].PotentialSavingsKg > forCat[j].PotentialSavingsKg
		})
		if len(forCat) > 3 {
			forCat = forCat[:3]
		}
		out = append(out, forCat...)
	}
	return out
}

// rankedCategories orders categories by subtotal descending, canonical
// category order breaking ties.
func rankedCategories(result *engine.FootprintResult) []domain.Category {
	cats := domain.Categories()
	sort.SliceStable(cats, func(i, j int) bool {
		return result.Subtotal(cats[i]) > result.Subtotal(cats[j])
	})
	return cats
}
