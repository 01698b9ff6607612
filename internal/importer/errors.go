package importer

import "errors"

// Sentinel errors surfaced to the upload endpoint. Everything else the
// pipeline produces (row violations, dropped rows) is collected per row and
// never aborts a batch.
var (
	ErrUnsupportedFormat = errors.New("unsupported file format")
	ErrEmptyWorkbook     = errors.New("workbook contains no sheets")
	ErrEmptyFile         = errors.New("file contains no data rows")
)
