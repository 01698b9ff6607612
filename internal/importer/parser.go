package importer

import (
	"bytes"
	"encoding/csv"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Record is one raw row keyed by header name. Cells that exist in the header
// but not in the row are present with an empty-string value, never absent.
type Record map[string]string

// RowReader yields raw records one at a time. It is single-pass: once Next
// returns io.EOF the sequence cannot be restarted.
type RowReader interface {
	Next() (Record, error)
	Close() error
}

// NewRowReader opens the appropriate reader for the detected format. The first
// row of the content is consumed as the header; ErrEmptyFile is returned when
// there is no header row at all, ErrEmptyWorkbook when a workbook has no sheet.
func NewRowReader(data []byte, det Detection) (RowReader, error) {
	if det.Format == FormatSpreadsheet {
		return newWorkbookReader(data)
	}
	return newDelimitedReader(data, det.Separator)
}

// ── Delimited text ───────────────────────────────────────────────────────────

type delimitedReader struct {
	r       *csv.Reader
	headers []string
}

func newDelimitedReader(data []byte, sep rune) (*delimitedReader, error) {
	r := csv.NewReader(bytes.NewReader(data))
	r.Comma = sep
	// Legacy exports are ragged: rows may have more or fewer columns than the
	// header. Missing trailing fields default to empty instead of failing.
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	header, err := r.Read()
	if err == io.EOF {
		return nil, ErrEmptyFile
	}
	if err != nil {
		return nil, err
	}
	headers := make([]string, len(header))
	for i, h := range header {
		headers[i] = strings.TrimSpace(h)
	}
	return &delimitedReader{r: r, headers: headers}, nil
}

func (d *delimitedReader) Next() (Record, error) {
	fields, err := d.r.Read()
	if err != nil {
		return nil, err // io.EOF at end of input
	}
	rec := make(Record, len(d.headers))
	for i, h := range d.headers {
		if h == "" {
			continue
		}
		if i < len(fields) {
			rec[h] = strings.TrimSpace(fields[i])
		} else {
			rec[h] = ""
		}
	}
	return rec, nil
}

func (d *delimitedReader) Close() error { return nil }

// ── Spreadsheet workbook ─────────────────────────────────────────────────────

type workbookReader struct {
	f       *excelize.File
	rows    *excelize.Rows
	headers []string
}

func newWorkbookReader(data []byte) (*workbookReader, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		f.Close()
		return nil, ErrEmptyWorkbook
	}

	// Always the first sheet; extra sheets (instructions etc.) are ignored.
	rows, err := f.Rows(sheets[0])
	if err != nil {
		f.Close()
		return nil, err
	}
	if !rows.Next() {
		rows.Close()
		f.Close()
		return nil, ErrEmptyFile
	}
	header, err := rows.Columns()
	if err != nil {
		rows.Close()
		f.Close()
		return nil, err
	}
	headers := make([]string, len(header))
	for i, h := range header {
		headers[i] = strings.TrimSpace(h)
	}
	return &workbookReader{f: f, rows: rows, headers: headers}, nil
}

func (w *workbookReader) Next() (Record, error) {
	if !w.rows.Next() {
		if err := w.rows.Error(); err != nil {
			return nil, err
		}
		return nil, io.EOF
	}
	cols, err := w.rows.Columns()
	if err != nil {
		return nil, err
	}
	rec := make(Record, len(w.headers))
	for i, h := range w.headers {
		if h == "" {
			continue
		}
		if i < len(cols) {
			rec[h] = strings.TrimSpace(cols[i])
		} else {
			// excelize omits trailing empty cells
			rec[h] = ""
		}
	}
	return rec, nil
}

func (w *workbookReader) Close() error {
	w.rows.Close()
	return w.f.Close()
}
