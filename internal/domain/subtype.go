package domain

import "fmt"

// Subtype identifies an activity within a category, e.g. electricity within
// energy or car_gasoline within transportation. The set is closed; emission
// factors and canonical units are keyed by subtype.
type Subtype string

// Energy subtypes.
const (
	SubtypeElectricity Subtype = "electricity"
	SubtypeNaturalGas  Subtype = "gas"
	SubtypeHeatingOil  Subtype = "oil"
	SubtypePropane     Subtype = "propane"
	SubtypeCoal        Subtype = "coal"
	SubtypeSolar       Subtype = "solar"
	SubtypeWind        Subtype = "wind"
)

// Transportation subtypes.
const (
	SubtypeCarGasoline  Subtype = "car_gasoline"
	SubtypeCarDiesel    Subtype = "car_diesel"
	SubtypeCarHybrid    Subtype = "car_hybrid"
	SubtypeCarElectric  Subtype = "car_electric"
	SubtypeMotorcycle   Subtype = "motorcycle"
	SubtypeBus          Subtype = "bus"
	SubtypeTrain        Subtype = "train"
	SubtypeSubway       Subtype = "subway"
	SubtypeFlightShort  Subtype = "flight_domestic"
	SubtypeFlightLong   Subtype = "flight_international"
	SubtypeBicycle      Subtype = "bike"
	SubtypeWalking      Subtype = "walk"
)

// Diet subtypes (food groups).
const (
	SubtypeBeef       Subtype = "meat_beef"
	SubtypePork       Subtype = "meat_pork"
	SubtypeChicken    Subtype = "meat_chicken"
	SubtypeLamb       Subtype = "meat_lamb"
	SubtypeFish       Subtype = "fish"
	SubtypeDairy      Subtype = "dairy"
	SubtypeEggs       Subtype = "eggs"
	SubtypeVegetables Subtype = "vegetables"
	SubtypeFruits     Subtype = "fruits"
	SubtypeGrains     Subtype = "grains"
	SubtypeProcessed  Subtype = "processed"
)

// subtypeCategories maps each known subtype to its category.
var subtypeCategories = map[Subtype]Category{
	SubtypeElectricity: CategoryEnergy,
	SubtypeNaturalGas:  CategoryEnergy,
	SubtypeHeatingOil:  CategoryEnergy,
	SubtypePropane:     CategoryEnergy,
	SubtypeCoal:        CategoryEnergy,
	SubtypeSolar:       CategoryEnergy,
	SubtypeWind:        CategoryEnergy,

	SubtypeCarGasoline: CategoryTransportation,
	SubtypeCarDiesel:   CategoryTransportation,
	SubtypeCarHybrid:   CategoryTransportation,
	SubtypeCarElectric: CategoryTransportation,
	SubtypeMotorcycle:  CategoryTransportation,
	SubtypeBus:         CategoryTransportation,
	SubtypeTrain:       CategoryTransportation,
	SubtypeSubway:      CategoryTransportation,
	SubtypeFlightShort: CategoryTransportation,
	SubtypeFlightLong:  CategoryTransportation,
	SubtypeBicycle:     CategoryTransportation,
	SubtypeWalking:     CategoryTransportation,

	SubtypeBeef:       CategoryDiet,
	SubtypePork:       CategoryDiet,
	SubtypeChicken:    CategoryDiet,
	SubtypeLamb:       CategoryDiet,
	SubtypeFish:       CategoryDiet,
	SubtypeDairy:      CategoryDiet,
	SubtypeEggs:       CategoryDiet,
	SubtypeVegetables: CategoryDiet,
	SubtypeFruits:     CategoryDiet,
	SubtypeGrains:     CategoryDiet,
	SubtypeProcessed:  CategoryDiet,
}

// ParseSubtype validates a storage name against the known subtype set and
// returns the subtype with its owning category.
func ParseSubtype(s string) (Subtype, Category, error) {
	st := Subtype(s)
	cat, ok := subtypeCategories[st]
	if !ok {
		return "", 0, fmt.Errorf("unknown subtype %q", s)
	}
	return st, cat, nil
}

// CategoryOf returns the category owning the subtype, and false for subtypes
// outside the known set.
func (s Subtype) CategoryOf() (Category, bool) {
	cat, ok := subtypeCategories[s]
	return cat, ok
}

// Valid reports whether the subtype belongs to the known set.
func (s Subtype) Valid() bool {
	_, ok := subtypeCategories[s]
	return ok
}
