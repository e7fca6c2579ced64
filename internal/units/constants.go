// Package units normalizes entered quantities to the canonical unit of each
// category before emission factors apply.
//
// Canonical units: energy is kWh for grid-metered subtypes and the native
// billing unit (therms, gallons) for fuels; transportation is km; diet is
// servings per week.
package units

// Distance conversion constants.
const (
	// MilesToKm converts statute miles to kilometers.
	MilesToKm = 1.609344

	// KmToKm is the identity conversion for kilometers.
	KmToKm = 1.0
)

// Energy conversion constants.
const (
	// MWhToKWh converts megawatt-hours to kilowatt-hours.
	MWhToKWh = 1000.0

	// LitersToGallons converts liters to US gallons, for fuel-billed
	// subtypes whose factors are per gallon.
	LitersToGallons = 0.264172
)

// Diet adjustment constants. Both mirror the calculation the factor table is
// published against: locally sourced food reduces the effective factor by up
// to 20%, organic raises it by up to 10% (lower yields).
const (
	// LocalSourcingMaxReduction is the factor reduction at 100% local.
	LocalSourcingMaxReduction = 0.20

	// OrganicMaxIncrease is the factor increase at 100% organic.
	OrganicMaxIncrease = 0.10

	// WeeksPerYear annualizes weekly consumption.
	WeeksPerYear = 52.0
)
