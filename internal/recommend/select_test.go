package recommend

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rgoulet/carbonledger/internal/domain"
	"github.com/rgoulet/carbonledger/internal/engine"
)

func testResult() *engine.FootprintResult {
	return &engine.FootprintResult{
		HouseholdID: "h1",
		Period:      domain.Period{Year: 2025, Month: time.June},
		Subtotals: map[domain.Category]float64{
			domain.CategoryEnergy:         150,
			domain.CategoryTransportation: 200,
		},
		TotalKg:          350,
		PerCapitaKg:      175,
		EffectiveMembers: 2,
	}
}

func testCatalog(t *testing.T, tips []Tip) *Catalog {
	t.Helper()
	c, err := NewCatalog(tips)
	require.NoError(t, err)
	return c
}

func TestSelectQualifyingTip(t *testing.T) {
	// Transportation per-capita is 100, above the 50 kg threshold.
	catalog := testCatalog(t, []Tip{
		{ID: "reduce-car", Title: "Reduce car use", Category: domain.CategoryTransportation, Basis: BasisPerCapita, ThresholdKg: 50, Weight: 10, Active: true},
	})

	got := Select(testResult(), catalog, Options{})
	require.Len(t, got, 1)
	assert.Equal(t, "reduce-car", got[0].ID)
}

func TestSelectOrderAndTies(t *testing.T) {
	catalog := testCatalog(t, []Tip{
		{ID: "low", Category: domain.CategoryEnergy, Basis: BasisTotal, ThresholdKg: 0, Weight: 10, Active: true},
		{ID: "tie-first", Category: domain.CategoryEnergy, Basis: BasisTotal, ThresholdKg: 0, Weight: 50, Active: true},
		{ID: "high", Category: domain.CategoryEnergy, Basis: BasisTotal, ThresholdKg: 0, Weight: 90, Active: true},
		{ID: "tie-second", Category: domain.CategoryEnergy, Basis: BasisTotal, ThresholdKg: 0, Weight: 50, Active: true},
	})

	got := Select(testResult(), catalog, Options{})
	require.Len(t, got, 4)

	// Non-increasing weight, catalog insertion order for ties.
	ids := []string{got[0].ID, got[1].ID, got[2].ID, got[3].ID}
	assert.Equal(t, []string{"high", "tie-first", "tie-second", "low"}, ids)
	for i := 1; i < len(got); i++ {
		assert.GreaterOrEqual(t, got[i-1].Weight, got[i].Weight)
	}
}

func TestSelectCapsAndNeverPads(t *testing.T) {
	var tips []Tip
	for _, id := range []string{"a", "b", "c", "d"} {
		tips = append(tips, Tip{ID: id, Category: domain.CategoryEnergy, Basis: BasisTotal, ThresholdKg: 0, Weight: 1, Active: true})
	}
	// Never qualifies: threshold far above the result.
	tips = append(tips, Tip{ID: "never", Category: domain.CategoryEnergy, Basis: BasisTotal, ThresholdKg: 1e9, Weight: 100, Active: true})
	catalog := testCatalog(t, tips)

	got := Select(testResult(), catalog, Options{MaxCount: 2})
	assert.Len(t, got, 2)

	// Fewer qualifying than the cap returns only those, no padding.
	got = Select(testResult(), catalog, Options{MaxCount: 10})
	assert.Len(t, got, 4)
	for _, tip := range got {
		assert.True(t, Qualifies(testResult(), tip))
	}
}

func TestSelectSkipsInactiveAndDismissed(t *testing.T) {
	catalog := testCatalog(t, []Tip{
		{ID: "inactive", Category: domain.CategoryEnergy, Basis: BasisTotal, ThresholdKg: 0, Weight: 90, Active: false},
		{ID: "dismissed", Category: domain.CategoryEnergy, Basis: BasisTotal, ThresholdKg: 0, Weight: 80, Active: true},
		{ID: "kept", Category: domain.CategoryEnergy, Basis: BasisTotal, ThresholdKg: 0, Weight: 70, Active: true},
	})
	dismissed := map[string]bool{"dismissed": true}

	got := Select(testResult(), catalog, Options{Dismissed: dismissed})
	require.Len(t, got, 1)
	assert.Equal(t, "kept", got[0].ID)

	// Explicitly including dismissed restores it, but never the inactive.
	got = Select(testResult(), catalog, Options{Dismissed: dismissed, IncludeDismissed: true})
	require.Len(t, got, 2)
	assert.Equal(t, "dismissed", got[0].ID)
}

func TestSelectIsPure(t *testing.T) {
	catalog := testCatalog(t, []Tip{
		{ID: "b", Category: domain.CategoryEnergy, Basis: BasisTotal, ThresholdKg: 0, Weight: 1, Active: true},
		{ID: "a", Category: domain.CategoryEnergy, Basis: BasisTotal, ThresholdKg: 0, Weight: 2, Active: true},
	})
	before := catalog.Tips()

	_ = Select(testResult(), catalog, Options{})

	assert.Equal(t, before, catalog.Tips(), "selection must not reorder the catalog")
}

func TestPersonalizedTopCategories(t *testing.T) {
	catalog := testCatalog(t, []Tip{
		{ID: "t1", Category: domain.CategoryTransportation, Basis: BasisTotal, PotentialSavingsKg: 100, Active: true},
		{ID: "t2", Category: domain.CategoryTransportation, Basis: BasisTotal, PotentialSavingsKg: 300, Active: true},
		{ID: "e1", Category: domain.CategoryEnergy, Basis: BasisTotal, PotentialSavingsKg: 200, Active: true},
		{ID: "d1", Category: domain.CategoryDiet, Basis: BasisTotal, PotentialSavingsKg: 500, Active: true},
	})

	// Transportation (200) and energy (150) are the top two categories;
	// diet recorded nothing, so its tip is left out.
	got := Personalized(testResult(), catalog, nil)
	require.Len(t, got, 3)
	assert.Equal(t, "t2", got[0].ID) // highest savings in the top category first
	assert.Equal(t, "t1", got[1].ID)
	assert.Equal(t, "e1", got[2].ID)
}

func TestEstimateImpact(t *testing.T) {
	result := testResult()

	t.Run("savings below cap pass through", func(t *testing.T) {
		impact := EstimateImpact(result, Tip{Category: domain.CategoryTransportation, PotentialSavingsKg: 50})
		assert.InDelta(t, 50, impact.PotentialReductionKg, 1e-9)
		assert.InDelta(t, 300, impact.NewTotalKg, 1e-9)
		assert.InDelta(t, 50.0/350*100, impact.PctOfTotal, 1e-9)
	})

	t.Run("savings capped at 30% of category", func(t *testing.T) {
		impact := EstimateImpact(result, Tip{Category: domain.CategoryTransportation, PotentialSavingsKg: 5000})
		assert.InDelta(t, 60, impact.PotentialReductionKg, 1e-9) // 200 * 0.3
	})
}

func TestDefaultCatalogParses(t *testing.T) {
	catalog, err := DefaultCatalog()
	require.NoError(t, err)
	assert.Greater(t, catalog.Len(), 0)

	// Every embedded tip must carry a usable condition.
	for _, tip := range catalog.Tips() {
		assert.NotEmpty(t, tip.Title)
		assert.Contains(t, []Basis{BasisPerCapita, BasisTotal}, tip.Basis)
	}
}
