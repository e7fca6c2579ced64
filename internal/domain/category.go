// Package domain defines the closed vocabulary of the footprint core:
// categories, subtypes, units, and the record types that flow through the
// aggregation and calculation pipeline.
//
// Categories and subtypes are deliberate enumerations rather than free-form
// strings so that adding a new activity type is a code change with exhaustive
// handling, not a silent fallthrough.
package domain

import "fmt"

// Category is a top-level emission category.
type Category int

const (
	// CategoryEnergy covers household energy consumption (electricity, gas, ...).
	CategoryEnergy Category = iota

	// CategoryTransportation covers distance-based travel activities.
	CategoryTransportation

	// CategoryDiet covers food consumption by food group.
	CategoryDiet
)

// Categories lists all categories in their canonical order. Calculation and
// rendering iterate this slice so output ordering is stable across runs.
func Categories() []Category {
	return []Category{CategoryEnergy, CategoryTransportation, CategoryDiet}
}

// String returns the wire/storage name of the category.
func (c Category) String() string {
	switch c {
	case CategoryEnergy:
		return "energy"
	case CategoryTransportation:
		return "transportation"
	case CategoryDiet:
		return "diet"
	default:
		return fmt.Sprintf("Category(%d)", c)
	}
}

// ParseCategory maps a storage name back to a Category.
func ParseCategory(s string) (Category, error) {
	switch s {
	case "energy":
		return CategoryEnergy, nil
	case "transportation":
		return CategoryTransportation, nil
	case "diet":
		return CategoryDiet, nil
	default:
		return 0, fmt.Errorf("unknown category %q", s)
	}
}
