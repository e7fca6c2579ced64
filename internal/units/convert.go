package units

import (
	"math"
	"strings"

	"github.com/rgoulet/carbonledger/internal/domain"
)

// CanonicalUnit returns the unit a subtype's quantities are normalized to,
// which is also the unit its emission factor is expressed against.
func CanonicalUnit(subtype domain.Subtype) string {
	switch subtype {
	case domain.SubtypeNaturalGas:
		return "therm"
	case domain.SubtypeHeatingOil, domain.SubtypePropane:
		return "gallon"
	case domain.SubtypeElectricity, domain.SubtypeCoal, domain.SubtypeSolar, domain.SubtypeWind:
		return "kWh"
	}
	cat, ok := subtype.CategoryOf()
	if !ok {
		return ""
	}
	switch cat {
	case domain.CategoryTransportation:
		return "km"
	case domain.CategoryDiet:
		return "serving"
	default:
		return ""
	}
}

// Canonical converts an entered quantity to the subtype's canonical unit.
//
// Recognized units (case-insensitive):
//   - kWh subtypes: kWh, MWh
//   - therm subtypes: therm, therms
//   - gallon subtypes: gallon, gallons, gal, liter, liters, l
//   - transportation: km, mi, mile, miles; liter/liters/l as fuel volume,
//     converted to km via efficiencyKmPerL
//   - diet: serving, servings
//
// An empty unit means the quantity was entered in the canonical unit already.
//
// Returns ErrInvalidQuantity for NaN/Inf, ErrNegativeQuantity for quantities
// below zero, ErrMissingEfficiency for fuel volumes without an efficiency,
// and ErrUnknownUnit otherwise.
func Canonical(subtype domain.Subtype, quantity float64, unit string, efficiencyKmPerL float64) (float64, error) {
	if math.IsNaN(quantity) || math.IsInf(quantity, 0) {
		return 0, ErrInvalidQuantity
	}
	if quantity < 0 {
		return 0, ErrNegativeQuantity
	}

	u := strings.ToLower(strings.TrimSpace(unit))
	canonical := CanonicalUnit(subtype)
	if u == "" || u == strings.ToLower(canonical) || singular(u) == strings.ToLower(canonical) {
		return quantity, nil
	}

	switch canonical {
	case "kWh", "kwh":
		if u == "mwh" {
			return quantity * MWhToKWh, nil
		}
	case "therm":
		// therms handled by the singular match above
	case "gallon":
		switch singular(u) {
		case "gal":
			return quantity, nil
		case "liter", "l":
			return quantity * LitersToGallons, nil
		}
	case "km":
		switch singular(u) {
		case "mi", "mile":
			return quantity * MilesToKm, nil
		case "liter", "l":
			if efficiencyKmPerL <= 0 {
				return 0, ErrMissingEfficiency
			}
			return quantity * efficiencyKmPerL, nil
		}
	case "serving":
		// servings handled by the singular match above
	}

	return 0, ErrUnknownUnit
}

// DietAdjustment returns the factor multiplier for a diet record given its
// locally-sourced and organic percentages (each clamped to 0-100).
func DietAdjustment(localSourcedPct, organicPct int) float64 {
	local := clampPct(localSourcedPct) / 100.0
	organic := clampPct(organicPct) / 100.0
	return 1.0 - local*LocalSourcingMaxReduction + organic*OrganicMaxIncrease
}

func clampPct(p int) float64 {
	if p < 0 {
		return 0
	}
	if p > 100 {
		return 100
	}
	return float64(p)
}

// singular trims a trailing "s" so "miles" and "mile" match alike.
func singular(u string) string {
	if len(u) > 1 && strings.HasSuffix(u, "s") {
		return strings.TrimSuffix(u, "s")
	}
	return u
}
