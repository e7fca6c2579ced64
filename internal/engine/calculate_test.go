package engine

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rgoulet/carbonledger/internal/aggregate"
	"github.com/rgoulet/carbonledger/internal/domain"
	"github.com/rgoulet/carbonledger/internal/factor"
)

var testPeriod = domain.Period{Year: 2025, Month: time.June}

func testFactors(t *testing.T) *factor.Snapshot {
	t.Helper()
	s, err := factor.NewSnapshot("test.1", factor.Reference{NationalPerCapitaKg: 16000, GlobalPerCapitaKg: 4800}, []factor.Factor{
		{Category: domain.CategoryEnergy, Subtype: domain.SubtypeElectricity, Value: 0.5, Unit: "kWh"},
		{Category: domain.CategoryTransportation, Subtype: domain.SubtypeCarGasoline, Value: 0.2, Unit: "km"},
	})
	require.NoError(t, err)
	return s
}

func testUsage() *aggregate.NormalizedUsage {
	return &aggregate.NormalizedUsage{
		HouseholdID: "h1",
		Period:      testPeriod,
		Triples: []aggregate.Triple{
			{RecordID: "e1", Category: domain.CategoryEnergy, Subtype: domain.SubtypeElectricity, Quantity: 300, Adjustment: 1},
			{RecordID: "t1", Category: domain.CategoryTransportation, Subtype: domain.SubtypeCarGasoline, Quantity: 1000, Adjustment: 1},
		},
	}
}

func TestCalculateBreakdown(t *testing.T) {
	result, err := Calculate(context.Background(), Request{
		Usage:     testUsage(),
		Factors:   testFactors(t),
		Household: domain.Household{ID: "h1", Members: 2},
	})
	require.NoError(t, err)

	// 300 kWh x 0.5 and 1000 km x 0.2.
	assert.InDelta(t, 150, result.Subtotal(domain.CategoryEnergy), 1e-9)
	assert.InDelta(t, 200, result.Subtotal(domain.CategoryTransportation), 1e-9)
	assert.InDelta(t, 350, result.TotalKg, 1e-9)
	assert.InDelta(t, 175, result.PerCapitaKg, 1e-9)
	assert.Equal(t, 2, result.EffectiveMembers)
	assert.Empty(t, result.Warnings)
	assert.Nil(t, result.Deltas)
	assert.Equal(t, "test.1", result.FactorVersion)
}

func TestCalculateSubtotalsSumToTotal(t *testing.T) {
	result, err := Calculate(context.Background(), Request{
		Usage:     testUsage(),
		Factors:   testFactors(t),
		Household: domain.Household{ID: "h1", Members: 3},
	})
	require.NoError(t, err)

	sum := 0.0
	for _, cat := range domain.Categories() {
		sum += result.Subtotal(cat)
	}
	assert.InDelta(t, result.TotalKg, sum, 1e-9)
}

func TestCalculateDeterministic(t *testing.T) {
	req := Request{
		Usage:     testUsage(),
		Factors:   testFactors(t),
		Household: domain.Household{ID: "h1", Members: 2},
	}

	first, err := Calculate(context.Background(), req)
	require.NoError(t, err)
	second, err := Calculate(context.Background(), req)
	require.NoError(t, err)

	// Identical inputs produce identical results, bit for bit.
	assert.Equal(t, first, second)
}

func TestCalculateZeroMembersWarns(t *testing.T) {
	result, err := Calculate(context.Background(), Request{
		Usage:     testUsage(),
		Factors:   testFactors(t),
		Household: domain.Household{ID: "h1", Members: 0},
	})
	require.NoError(t, err)

	assert.Equal(t, 1, result.EffectiveMembers)
	assert.InDelta(t, result.TotalKg, result.PerCapitaKg, 1e-9)
	assert.True(t, result.HasWarning(WarningMemberCountDefaulted))
}

func TestCalculateMissingFactorAborts(t *testing.T) {
	usage := testUsage()
	usage.Triples = append(usage.Triples, aggregate.Triple{
		RecordID: "b1", Category: domain.CategoryTransportation, Subtype: "biodiesel", Quantity: 10, Adjustment: 1,
	})

	result, err := Calculate(context.Background(), Request{
		Usage:     usage,
		Factors:   testFactors(t),
		Household: domain.Household{ID: "h1", Members: 2},
	})

	// No partial result: the whole calculation fails.
	require.Nil(t, result)
	var missing *factor.MissingError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, domain.Subtype("biodiesel"), missing.Subtype)
}

func TestCalculatePriorPeriodDelta(t *testing.T) {
	prior := &FootprintResult{
		HouseholdID: "h1",
		Period:      testPeriod.Prev(),
		Subtotals: map[domain.Category]float64{
			domain.CategoryEnergy:         150,
			domain.CategoryTransportation: 250,
		},
		TotalKg: 400,
	}

	result, err := Calculate(context.Background(), Request{
		Usage:     testUsage(),
		Factors:   testFactors(t),
		Household: domain.Household{ID: "h1", Members: 2},
		Prior:     prior,
	})
	require.NoError(t, err)

	require.NotNil(t, result.Deltas)
	require.NotNil(t, result.Deltas.TotalPct)
	assert.InDelta(t, -12.5, *result.Deltas.TotalPct, 1e-9)
	assert.InDelta(t, 0, result.Deltas.ByCategoryPct[domain.CategoryEnergy], 1e-9)
	assert.InDelta(t, -20, result.Deltas.ByCategoryPct[domain.CategoryTransportation], 1e-9)

	// Diet had no prior subtotal, so its ratio is not reported.
	_, ok := result.Deltas.ByCategoryPct[domain.CategoryDiet]
	assert.False(t, ok)
}

func TestCalculateZeroPriorTotalDelta(t *testing.T) {
	// A stored empty month: the prior result exists but nothing was emitted,
	// so every ratio against it is undefined.
	prior := &FootprintResult{
		HouseholdID: "h1",
		Period:      testPeriod.Prev(),
		Subtotals:   map[domain.Category]float64{},
		TotalKg:     0,
	}

	result, err := Calculate(context.Background(), Request{
		Usage:     testUsage(),
		Factors:   testFactors(t),
		Household: domain.Household{ID: "h1", Members: 2},
		Prior:     prior,
	})
	require.NoError(t, err)

	require.NotNil(t, result.Deltas)
	assert.Nil(t, result.Deltas.TotalPct, "delta against a zero prior total must be absent, not zero")
	assert.Empty(t, result.Deltas.ByCategoryPct)
}

func TestCalculateReferenceComparison(t *testing.T) {
	result, err := Calculate(context.Background(), Request{
		Usage:     testUsage(),
		Factors:   testFactors(t),
		Household: domain.Household{ID: "h1", Members: 2},
	})
	require.NoError(t, err)

	// Per-capita 175 against national 16000 and global 4800.
	assert.InDelta(t, 175.0/16000*100, result.Reference.PctOfNational, 1e-9)
	assert.InDelta(t, 175.0/4800*100, result.Reference.PctOfGlobal, 1e-9)
}

func TestCalculateCarriesUnresolvedMetadata(t *testing.T) {
	usage := testUsage()
	usage.Unresolved = []aggregate.Unresolved{{RecordID: "u1", Subtype: domain.SubtypeCarGasoline, Reason: "fuel volume requires vehicle efficiency"}}
	usage.Invalid = []aggregate.Invalid{{RecordID: "i1", Reason: "negative quantity"}}

	result, err := Calculate(context.Background(), Request{
		Usage:     usage,
		Factors:   testFactors(t),
		Household: domain.Household{ID: "h1", Members: 2},
	})
	require.NoError(t, err)

	// Result is computed from the resolvable subset with the skips attached.
	assert.InDelta(t, 350, result.TotalKg, 1e-9)
	require.Len(t, result.Unresolved, 1)
	require.Len(t, result.Invalid, 1)
}

func TestCalculateNilInputs(t *testing.T) {
	_, err := Calculate(context.Background(), Request{Factors: testFactors(t)})
	assert.Error(t, err)

	_, err = Calculate(context.Background(), Request{Usage: testUsage()})
	assert.Error(t, err)
}
