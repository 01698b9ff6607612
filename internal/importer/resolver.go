package importer

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Field is a canonical inventory attribute name, independent of any source
// file's column naming.
type Field string

const (
	FieldSKU          Field = "sku"
	FieldName         Field = "name"
	FieldDescription  Field = "description"
	FieldCategory     Field = "category"
	FieldUnit         Field = "unit"
	FieldBinLocation  Field = "binLocation"
	FieldWarehouse    Field = "warehouse"
	FieldSupplier     Field = "supplier"
	FieldGLCode       Field = "glCode"
	FieldProdCode     Field = "prodCode"
	FieldBatchNumber  Field = "batchNumber"
	FieldNotes        Field = "notes"
	FieldCurrentStock Field = "currentStock"
	FieldMinimumStock Field = "minimumStock"
	FieldReorderPoint Field = "reorderPoint"
	FieldCost         Field = "cost"
	FieldLeadTime     Field = "leadTime"
)

// aliasTable maps each canonical field to its accepted source-column aliases
// in precedence order. Supporting a new legacy column naming is a one-line
// data change here, not a code change. Matching is tolerant of case and of
// space/underscore/hyphen separators, so "QtyOnHand", "qty_on_hand" and
// "Qty On Hand" all hit the same alias.
var aliasTable = map[Field][]string{
	FieldSKU:          {"sku", "partNo", "partNumber", "itemNumber", "itemCode"},
	FieldName:         {"name", "itemName", "productName", "title"},
	FieldDescription:  {"description", "desc", "details"},
	FieldCategory:     {"category", "productCategory", "group"},
	FieldUnit:         {"unit", "uom", "unitOfMeasure"},
	FieldBinLocation:  {"binLocation", "bin", "location"},
	FieldWarehouse:    {"warehouse", "warehouseId", "site", "plant"},
	FieldSupplier:     {"supplier", "vendCode", "vendorCode", "vendor"},
	FieldGLCode:       {"glCode", "gl"},
	FieldProdCode:     {"prodCode", "productCode"},
	FieldBatchNumber:  {"batchNumber", "batch", "lotNumber", "lot"},
	FieldNotes:        {"notes", "comments", "remarks"},
	FieldCurrentStock: {"currentStock", "qtyOnHand", "quantity", "qty", "onHand", "stock"},
	FieldMinimumStock: {"minimumStock", "minStock", "minQty"},
	FieldReorderPoint: {"reorderPoint", "reorderLevel"},
	FieldCost:         {"cost", "unitCost", "unitPrice", "price"},
	FieldLeadTime:     {"leadTime", "leadTimeDays"},
}

// ResolvedRow is one import row mapped onto the canonical schema. Every field
// is always populated (fallbacks applied) even when the row will later fail
// validation. Present records which canonical fields had a non-empty source
// value before fallbacks — validation profiles check presence against it.
type ResolvedRow struct {
	Index int // 1-based data row number, header excluded

	SKU         string
	Name        string
	Description string
	Category    string
	Unit        string
	BinLocation string
	Warehouse   string
	Supplier    string
	GLCode      string
	ProdCode    string
	BatchNumber string
	Notes       string

	CurrentStock int
	MinimumStock int
	ReorderPoint int
	LeadTimeDays int

	Cost decimal.Decimal

	Present map[Field]bool
}

// HasIdentifier reports whether the source row carried at least one of the two
// business identifiers. Rows without either cannot be meaningfully imported.
func (r *ResolvedRow) HasIdentifier() bool {
	return r.Present[FieldSKU] || r.Present[FieldName]
}

// FieldResolver maps heterogeneous source columns onto the canonical schema.
// The clock is injectable so SKU synthesis is deterministic in tests.
type FieldResolver struct {
	now func() time.Time
}

func NewFieldResolver() *FieldResolver {
	return &FieldResolver{now: time.Now}
}

// Resolve maps one raw record to a fully-populated ResolvedRow.
func (f *FieldResolver) Resolve(rec Record, index int) ResolvedRow {
	norm := make(map[string]string, len(rec))
	for k, v := range rec {
		norm[normalizeKey(k)] = strings.TrimSpace(v)
	}

	present := make(map[Field]bool, len(aliasTable))
	lookup := func(field Field) string {
		for _, alias := range aliasTable[field] {
			if v, ok := norm[normalizeKey(alias)]; ok && v != "" {
				present[field] = true
				return v
			}
		}
		return ""
	}

	row := ResolvedRow{Index: index, Present: present}

	row.SKU = lookup(FieldSKU)
	row.Name = lookup(FieldName)
	if row.SKU == "" {
		row.SKU = fmt.Sprintf("SKU-%d-%d", f.now().UnixMilli(), index)
	}
	if row.Name == "" {
		row.Name = "Item " + row.SKU
	}

	row.Description = lookup(FieldDescription)
	row.Category = stringOr(lookup(FieldCategory), "Uncategorized")
	row.Unit = stringOr(lookup(FieldUnit), "each")
	row.BinLocation = lookup(FieldBinLocation)
	row.Warehouse = lookup(FieldWarehouse)
	row.Supplier = lookup(FieldSupplier)
	row.GLCode = lookup(FieldGLCode)
	row.ProdCode = lookup(FieldProdCode)
	row.BatchNumber = lookup(FieldBatchNumber)
	row.Notes = lookup(FieldNotes)

	row.CurrentStock = parseIntOrZero(lookup(FieldCurrentStock))
	row.MinimumStock = parseIntOrZero(lookup(FieldMinimumStock))
	row.ReorderPoint = parseIntOrZero(lookup(FieldReorderPoint))
	row.LeadTimeDays = parseIntOrZero(lookup(FieldLeadTime))
	row.Cost = parseDecimalOrZero(lookup(FieldCost))

	return row
}

func normalizeKey(k string) string {
	k = strings.ToLower(strings.TrimSpace(k))
	return strings.Map(func(r rune) rune {
		switch r {
		case ' ', '_', '-':
			return -1
		}
		return r
	}, k)
}

func stringOr(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}

// parseIntOrZero accepts integer or decimal notation ("5", "5.0") and
// defaults to 0 for anything unparsable or absent.
func parseIntOrZero(v string) int {
	if v == "" {
		return 0
	}
	if n, err := strconv.Atoi(v); err == nil {
		return n
	}
	if f, err := strconv.ParseFloat(v, 64); err == nil {
		return int(f)
	}
	return 0
}

func parseDecimalOrZero(v string) decimal.Decimal {
	if v == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(strings.TrimPrefix(v, "$"))
	if err != nil {
		return decimal.Zero
	}
	return d
}
