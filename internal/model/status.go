package model

// Stock status classifications. Derived from quantity and thresholds only —
// there is no code path that accepts a status from a caller.
const (
	StatusInStock      = "in_stock"
	StatusLowStock     = "low_stock"
	StatusOutOfStock   = "out_of_stock"
	StatusDiscontinued = "discontinued"
)

// DeriveStatus classifies a stock level against a threshold. It is a pure
// function: re-deriving for the same inputs always yields the same result.
// Discontinued is sticky — quantity changes on a discontinued item do not
// resurrect it.
func DeriveStatus(currentStock, threshold int, previous string) string {
	if previous == StatusDiscontinued {
		return StatusDiscontinued
	}
	switch {
	case currentStock <= 0:
		return StatusOutOfStock
	case currentStock <= threshold:
		return StatusLowStock
	default:
		return StatusInStock
	}
}
