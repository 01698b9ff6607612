package importer

import "fmt"

// Profile selects the required-field rule set for an upload.
type Profile string

const (
	// ProfileStandard requires only an identifier (sku or name).
	ProfileStandard Profile = "standard"
	// ProfileLegacy mirrors the legacy parts-master layout: part number,
	// bin location, warehouse, GL code, product code and vendor code are all
	// mandatory.
	ProfileLegacy Profile = "legacy"
)

// legacyRequired lists the canonical fields the legacy profile insists on,
// paired with the column name users see in error messages.
var legacyRequired = []struct {
	field Field
	label string
}{
	{FieldSKU, "PartNo"},
	{FieldBinLocation, "BinLocation"},
	{FieldWarehouse, "Warehouse"},
	{FieldGLCode, "GLCode"},
	{FieldProdCode, "ProdCode"},
	{FieldSupplier, "VendCode"},
}

// RowValidator checks resolved rows independently. It never halts a batch:
// every row is evaluated and the full violation set is returned together so a
// caller can fix every issue in one edit-and-retry cycle.
type RowValidator struct {
	profile Profile
}

func NewRowValidator(profile Profile) *RowValidator {
	if profile != ProfileLegacy {
		profile = ProfileStandard
	}
	return &RowValidator{profile: profile}
}

// Check returns the human-readable violations for one row; an empty slice
// means the row is valid.
func (v *RowValidator) Check(row ResolvedRow) []string {
	var violations []string

	switch v.profile {
	case ProfileLegacy:
		for _, req := range legacyRequired {
			if !row.Present[req.field] {
				violations = append(violations, fmt.Sprintf("missing required field %s", req.label))
			}
		}
	default:
		if !row.HasIdentifier() {
			violations = append(violations, "missing identifier: row has neither sku nor name")
		}
	}

	if row.CurrentStock < 0 {
		violations = append(violations, fmt.Sprintf("currentStock must not be negative (got %d)", row.CurrentStock))
	}
	if row.Cost.IsNegative() {
		violations = append(violations, fmt.Sprintf("cost must not be negative (got %s)", row.Cost))
	}

	return violations
}
