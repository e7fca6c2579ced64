package factor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rgoulet/carbonledger/internal/domain"
)

func testSnapshot(t *testing.T) *Snapshot {
	t.Helper()
	s, err := NewSnapshot("test.1", Reference{NationalPerCapitaKg: 16000, GlobalPerCapitaKg: 4800}, []Factor{
		{Category: domain.CategoryEnergy, Subtype: domain.SubtypeElectricity, Value: 0.4, Unit: "kWh"},
		{Category: domain.CategoryEnergy, Subtype: domain.SubtypeElectricity, Region: "pnw", Value: 0.12, Unit: "kWh"},
		{Category: domain.CategoryTransportation, Subtype: domain.SubtypeCarGasoline, Value: 0.2485, Unit: "km"},
	})
	require.NoError(t, err)
	return s
}

func TestResolve(t *testing.T) {
	s := testSnapshot(t)

	t.Run("region specific wins", func(t *testing.T) {
		f, err := s.Resolve(domain.SubtypeElectricity, "pnw")
		require.NoError(t, err)
		assert.InDelta(t, 0.12, f.Value, 1e-9)
	})

	t.Run("unknown region falls back to default", func(t *testing.T) {
		f, err := s.Resolve(domain.SubtypeElectricity, "elsewhere")
		require.NoError(t, err)
		assert.InDelta(t, 0.4, f.Value, 1e-9)
	})

	t.Run("no entry is a missing factor error", func(t *testing.T) {
		_, err := s.Resolve(domain.SubtypeBeef, "")
		var missing *MissingError
		require.ErrorAs(t, err, &missing)
		assert.Equal(t, domain.SubtypeBeef, missing.Subtype)
		assert.Equal(t, domain.CategoryDiet, missing.Category)
	})
}

func TestNewSnapshotValidation(t *testing.T) {
	tests := []struct {
		name    string
		factors []Factor
	}{
		{
			name:    "unknown subtype",
			factors: []Factor{{Category: domain.CategoryEnergy, Subtype: "biodiesel", Value: 1}},
		},
		{
			name:    "category mismatch",
			factors: []Factor{{Category: domain.CategoryDiet, Subtype: domain.SubtypeElectricity, Value: 1}},
		},
		{
			name:    "negative value",
			factors: []Factor{{Category: domain.CategoryEnergy, Subtype: domain.SubtypeElectricity, Value: -0.1}},
		},
		{
			name: "duplicate entry",
			factors: []Factor{
				{Category: domain.CategoryEnergy, Subtype: domain.SubtypeElectricity, Value: 0.4},
				{Category: domain.CategoryEnergy, Subtype: domain.SubtypeElectricity, Value: 0.5},
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewSnapshot("v", Reference{}, tc.factors)
			assert.Error(t, err)
		})
	}
}

func TestDefaultTable(t *testing.T) {
	s, err := Default()
	require.NoError(t, err)

	assert.Equal(t, "2024.1", s.Version())
	assert.InDelta(t, 16000, s.Reference().NationalPerCapitaKg, 1e-9)
	assert.InDelta(t, 4800, s.Reference().GlobalPerCapitaKg, 1e-9)

	// Every known subtype must resolve against the shipped defaults;
	// a gap here would make calculation fail for valid records.
	for sub := range map[domain.Subtype]struct{}{
		domain.SubtypeElectricity: {}, domain.SubtypeNaturalGas: {}, domain.SubtypeHeatingOil: {},
		domain.SubtypePropane: {}, domain.SubtypeCoal: {}, domain.SubtypeSolar: {}, domain.SubtypeWind: {},
		domain.SubtypeCarGasoline: {}, domain.SubtypeCarDiesel: {}, domain.SubtypeCarHybrid: {},
		domain.SubtypeCarElectric: {}, domain.SubtypeMotorcycle: {}, domain.SubtypeBus: {},
		domain.SubtypeTrain: {}, domain.SubtypeSubway: {}, domain.SubtypeFlightShort: {},
		domain.SubtypeFlightLong: {}, domain.SubtypeBicycle: {}, domain.SubtypeWalking: {},
		domain.SubtypeBeef: {}, domain.SubtypePork: {}, domain.SubtypeChicken: {}, domain.SubtypeLamb: {},
		domain.SubtypeFish: {}, domain.SubtypeDairy: {}, domain.SubtypeEggs: {}, domain.SubtypeVegetables: {},
		domain.SubtypeFruits: {}, domain.SubtypeGrains: {}, domain.SubtypeProcessed: {},
	} {
		_, err := s.Resolve(sub, "")
		assert.NoError(t, err, "subtype %s has no default factor", sub)
	}
}

func TestParseSchemaCheck(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{name: "missing schema version", yaml: "version: \"1\"\nfactors: []\n"},
		{name: "unsupported major", yaml: "schema_version: \"2.0.0\"\nversion: \"1\"\nfactors: []\n"},
		{name: "garbage schema version", yaml: "schema_version: \"not-a-version\"\nversion: \"1\"\nfactors: []\n"},
		{name: "missing data version", yaml: "schema_version: \"1.0.0\"\nfactors: []\n"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Parse([]byte(tc.yaml))
			assert.Error(t, err)
		})
	}
}
