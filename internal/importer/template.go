package importer

import (
	"github.com/xuri/excelize/v2"
)

// TemplateSheet is the sheet name of the generated upload template.
const TemplateSheet = "Inventory"

// templateColumns are the canonical column names in download order, paired
// with an example value users overwrite before uploading.
var templateColumns = []struct {
	header  string
	example any
}{
	{"sku", "SKU-1001"},
	{"name", "Hex bolt M8"},
	{"description", "Zinc-plated hex bolt, 40mm"},
	{"category", "Fasteners"},
	{"unit", "each"},
	{"binLocation", "A-03-2"},
	{"warehouse", "Main"},
	{"supplier", "ACME-01"},
	{"glCode", "5010"},
	{"prodCode", "FAST"},
	{"batchNumber", "B2401"},
	{"notes", ""},
	{"currentStock", 250},
	{"minimumStock", 50},
	{"reorderPoint", 75},
	{"cost", 0.12},
	{"leadTime", 14},
}

// BuildTemplate emits a one-example-row workbook matching the canonical
// column names, for users to fill in before uploading. The caller owns the
// returned file and must Close it.
func BuildTemplate() (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", TemplateSheet); err != nil {
		f.Close()
		return nil, err
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
	})
	if err != nil {
		f.Close()
		return nil, err
	}

	for i, col := range templateColumns {
		headerCell, _ := excelize.CoordinatesToCellName(i+1, 1)
		exampleCell, _ := excelize.CoordinatesToCellName(i+1, 2)
		if err := f.SetCellValue(TemplateSheet, headerCell, col.header); err != nil {
			f.Close()
			return nil, err
		}
		if err := f.SetCellStyle(TemplateSheet, headerCell, headerCell, headerStyle); err != nil {
			f.Close()
			return nil, err
		}
		if err := f.SetCellValue(TemplateSheet, exampleCell, col.example); err != nil {
			f.Close()
			return nil, err
		}
		colName, _ := excelize.ColumnNumberToName(i + 1)
		_ = f.SetColWidth(TemplateSheet, colName, colName, 16)
	}

	return f, nil
}
