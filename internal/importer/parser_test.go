package importer

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func readAll(t *testing.T, r RowReader) []Record {
	t.Helper()
	var out []Record
	for {
		rec, err := r.Next()
		if err == io.EOF {
			return out
		}
		require.NoError(t, err)
		out = append(out, rec)
	}
}

func TestDelimitedReaderCSV(t *testing.T) {
	data := []byte("sku,name,currentStock\nA-1,Bolt,10\nA-2,Nut,20\n")
	r, err := NewRowReader(data, Detection{Format: FormatDelimited, Separator: ','})
	require.NoError(t, err)
	defer r.Close()

	rows := readAll(t, r)
	require.Len(t, rows, 2)
	assert.Equal(t, "A-1", rows[0]["sku"])
	assert.Equal(t, "Nut", rows[1]["name"])
	assert.Equal(t, "20", rows[1]["currentStock"])
}

func TestDelimitedReaderTSV(t *testing.T) {
	data := []byte("PartNo\tQtyOnHand\nX-9\t7\n")
	r, err := NewRowReader(data, Detection{Format: FormatDelimited, Separator: '\t'})
	require.NoError(t, err)
	defer r.Close()

	rows := readAll(t, r)
	require.Len(t, rows, 1)
	assert.Equal(t, "X-9", rows[0]["PartNo"])
	assert.Equal(t, "7", rows[0]["QtyOnHand"])
}

func TestDelimitedReaderRaggedRows(t *testing.T) {
	// Short row: missing trailing cells become empty strings, never absent.
	data := []byte("sku,name,notes\nA-1,Bolt\nA-2,Nut,anodized,extra\n")
	r, err := NewRowReader(data, Detection{Format: FormatDelimited, Separator: ','})
	require.NoError(t, err)
	defer r.Close()

	rows := readAll(t, r)
	require.Len(t, rows, 2)
	notes, ok := rows[0]["notes"]
	assert.True(t, ok)
	assert.Equal(t, "", notes)
	assert.Equal(t, "anodized", rows[1]["notes"]) // extra trailing cell ignored
}

func TestDelimitedReaderTrimsWhitespace(t *testing.T) {
	data := []byte(" sku , name \n  A-1 ,  Bolt \n")
	r, err := NewRowReader(data, Detection{Format: FormatDelimited, Separator: ','})
	require.NoError(t, err)
	defer r.Close()

	rows := readAll(t, r)
	require.Len(t, rows, 1)
	assert.Equal(t, "A-1", rows[0]["sku"])
	assert.Equal(t, "Bolt", rows[0]["name"])
}

func TestDelimitedReaderEmptyInput(t *testing.T) {
	_, err := NewRowReader(nil, Detection{Format: FormatDelimited, Separator: ','})
	assert.ErrorIs(t, err, ErrEmptyFile)
}

// buildWorkbook creates an in-memory xlsx with a header row plus data rows.
func buildWorkbook(t *testing.T, rows [][]any) []byte {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	for ri, row := range rows {
		for ci, val := range row {
			cell, err := excelize.CoordinatesToCellName(ci+1, ri+1)
			require.NoError(t, err)
			require.NoError(t, f.SetCellValue("Sheet1", cell, val))
		}
	}
	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))
	return buf.Bytes()
}

func TestWorkbookReader(t *testing.T) {
	data := buildWorkbook(t, [][]any{
		{"sku", "name", "currentStock"},
		{"W-1", "Washer", 100},
		{"W-2", "Spring", 5},
	})

	r, err := NewRowReader(data, Detection{Format: FormatSpreadsheet})
	require.NoError(t, err)
	defer r.Close()

	rows := readAll(t, r)
	require.Len(t, rows, 2)
	assert.Equal(t, "W-1", rows[0]["sku"])
	assert.Equal(t, "100", rows[0]["currentStock"])
	assert.Equal(t, "Spring", rows[1]["name"])
}

func TestWorkbookReaderPadsShortRows(t *testing.T) {
	// excelize drops trailing empty cells; the reader must restore them.
	data := buildWorkbook(t, [][]any{
		{"sku", "name", "notes"},
		{"W-1", "Washer"},
	})

	r, err := NewRowReader(data, Detection{Format: FormatSpreadsheet})
	require.NoError(t, err)
	defer r.Close()

	rows := readAll(t, r)
	require.Len(t, rows, 1)
	notes, ok := rows[0]["notes"]
	assert.True(t, ok)
	assert.Equal(t, "", notes)
}

func TestWorkbookReaderNoHeader(t *testing.T) {
	data := buildWorkbook(t, nil)
	_, err := NewRowReader(data, Detection{Format: FormatSpreadsheet})
	assert.ErrorIs(t, err, ErrEmptyFile)
}
