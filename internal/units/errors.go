package units

// constError is an immutable error type for sentinel errors.
type constError string

func (e constError) Error() string { return string(e) }

// Sentinel errors for unit normalization, comparable with errors.Is().
var (
	// ErrNegativeQuantity indicates a negative usage quantity. Quantities
	// are amounts of activity and cannot be negative.
	ErrNegativeQuantity = constError("negative quantity")

	// ErrInvalidQuantity indicates a NaN or infinite quantity.
	ErrInvalidQuantity = constError("quantity is not a finite number")

	// ErrUnknownUnit indicates a unit not recognized for the subtype.
	ErrUnknownUnit = constError("unknown unit for subtype")

	// ErrMissingEfficiency indicates a fuel-volume record without the
	// efficiency needed to convert it to distance.
	ErrMissingEfficiency = constError("fuel volume requires vehicle efficiency")
)
