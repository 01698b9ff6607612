package service

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"testing"

	"stockroom/internal/importer"
	"stockroom/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const legacyCSVHeader = "PartNo,BinLocation,Warehouse,QtyOnHand,Description,GLCode,ProdCode,VendCode,Cost"

func TestImportLegacyCSVWithNegativeQuantity(t *testing.T) {
	items := newStubItemRepo()
	svc := NewImportService(items, 1000, 10)

	csv := legacyCSVHeader + "\n" +
		"P-1001,A-03-2,Main,40,Hex bolt,5010,FAST,ACME,0.12\n" +
		"P-1002,A-03-3,Main,-5,Hex nut,5010,FAST,ACME,0.08\n"

	resp, err := svc.Import(context.Background(), strings.NewReader(csv), "text/csv", "parts.csv", importer.ProfileLegacy)
	require.NoError(t, err)

	// Row 1 imports; row 2 is rejected for its negative quantity.
	assert.Equal(t, 1, resp.Count)
	assert.Equal(t, 2, resp.TotalProcessed)
	assert.Equal(t, 0, resp.Failed)
	require.Contains(t, resp.ValidationErrors, 2)
	require.Len(t, resp.ValidationErrors[2], 1)
	assert.Contains(t, resp.ValidationErrors[2][0], "currentStock must not be negative (got -5)")

	require.Len(t, items.items, 1)
	for _, item := range items.items {
		assert.Equal(t, "P-1001", item.SKU)
		assert.Equal(t, "Main", item.Warehouse)
		assert.Equal(t, 40, item.CurrentStock)
		assert.Equal(t, model.StatusInStock, item.Status)
	}
}

func TestImportLegacyProfileMissingColumns(t *testing.T) {
	items := newStubItemRepo()
	svc := NewImportService(items, 1000, 10)

	csv := "PartNo,QtyOnHand\nP-1,10\n"
	resp, err := svc.Import(context.Background(), strings.NewReader(csv), "text/csv", "parts.csv", importer.ProfileLegacy)
	require.NoError(t, err)

	assert.Equal(t, 0, resp.Count)
	require.Contains(t, resp.ValidationErrors, 1)
	// BinLocation, Warehouse, GLCode, ProdCode, VendCode all absent.
	assert.Len(t, resp.ValidationErrors[1], 5)
}

func TestImportStandardProfileSynthesizesSKU(t *testing.T) {
	items := newStubItemRepo()
	svc := NewImportService(items, 1000, 10)

	csv := "name,quantity\nUnlabeled widget,12\n"
	resp, err := svc.Import(context.Background(), strings.NewReader(csv), "text/csv", "widgets.csv", importer.ProfileStandard)
	require.NoError(t, err)

	assert.Equal(t, 1, resp.Count)
	for _, item := range items.items {
		assert.True(t, strings.HasPrefix(item.SKU, "SKU-"))
		assert.Equal(t, "Unlabeled widget", item.Name)
		assert.Equal(t, 12, item.CurrentStock)
	}
}

func TestImportDropsRowsWithoutIdentifier(t *testing.T) {
	items := newStubItemRepo()
	svc := NewImportService(items, 1000, 10)

	csv := "sku,name,quantity\nA-1,Bolt,5\n,,7\nA-2,Nut,9\n"
	resp, err := svc.Import(context.Background(), strings.NewReader(csv), "text/csv", "mix.csv", importer.ProfileStandard)
	require.NoError(t, err)

	assert.Equal(t, 2, resp.Count)
	assert.Equal(t, 3, resp.TotalProcessed)
	require.Contains(t, resp.ValidationErrors, 2)
	assert.Contains(t, resp.ValidationErrors[2][0], "identifier")
	assert.Len(t, items.items, 2)
}

func TestImportChunking(t *testing.T) {
	items := newStubItemRepo()
	svc := NewImportService(items, 10, 10)

	var b strings.Builder
	b.WriteString("sku,quantity\n")
	for i := 1; i <= 25; i++ {
		fmt.Fprintf(&b, "S-%d,%d\n", i, i)
	}

	resp, err := svc.Import(context.Background(), strings.NewReader(b.String()), "text/csv", "big.csv", importer.ProfileStandard)
	require.NoError(t, err)

	assert.Equal(t, 25, resp.Count)
	assert.Equal(t, 25, resp.TotalProcessed)
	assert.Equal(t, []int{10, 10, 5}, items.batchSizes)
	assert.Len(t, items.items, 25)
}

func TestImportChunkFailureDoesNotAbort(t *testing.T) {
	items := newStubItemRepo()
	items.failBatches = 1 // first chunk write fails
	svc := NewImportService(items, 10, 10)

	var b strings.Builder
	b.WriteString("sku,quantity\n")
	for i := 1; i <= 20; i++ {
		fmt.Fprintf(&b, "S-%d,%d\n", i, i)
	}

	resp, err := svc.Import(context.Background(), strings.NewReader(b.String()), "text/csv", "big.csv", importer.ProfileStandard)
	require.NoError(t, err)

	// Chunk one is reported as failed; chunk two still commits.
	assert.Equal(t, 10, resp.Count)
	assert.Equal(t, 10, resp.Failed)
	assert.Equal(t, 20, resp.TotalProcessed)
	require.Len(t, resp.Errors, 1)
	assert.Contains(t, resp.Errors[0], "rows 1-10")
	assert.Len(t, items.items, 10)
}

func TestImportRowCountConservation(t *testing.T) {
	items := newStubItemRepo()
	items.failBatches = 1
	svc := NewImportService(items, 5, 10)

	var b strings.Builder
	b.WriteString("sku,quantity\n")
	for i := 1; i <= 12; i++ {
		if i%4 == 0 {
			b.WriteString(",,\n") // no identifier: dropped in validation
			continue
		}
		fmt.Fprintf(&b, "S-%d,%d\n", i, i)
	}

	resp, err := svc.Import(context.Background(), strings.NewReader(b.String()), "text/csv", "mixed.csv", importer.ProfileStandard)
	require.NoError(t, err)

	invalid := len(resp.ValidationErrors)
	assert.Equal(t, resp.TotalProcessed, resp.Count+resp.Failed+invalid)
}

func TestImportEmptyFile(t *testing.T) {
	svc := NewImportService(newStubItemRepo(), 1000, 10)

	// Header only: zero data rows.
	_, err := svc.Import(context.Background(), strings.NewReader("sku,name\n"), "text/csv", "empty.csv", importer.ProfileStandard)
	assert.ErrorIs(t, err, importer.ErrEmptyFile)

	_, err = svc.Import(context.Background(), bytes.NewReader(nil), "text/csv", "empty.csv", importer.ProfileStandard)
	assert.ErrorIs(t, err, importer.ErrEmptyFile)
}

func TestImportUnsupportedContentType(t *testing.T) {
	svc := NewImportService(newStubItemRepo(), 1000, 10)
	_, err := svc.Import(context.Background(), strings.NewReader("%PDF-1.4"), "application/pdf", "report.pdf", importer.ProfileStandard)
	assert.ErrorIs(t, err, importer.ErrUnsupportedFormat)
}

func TestImportItemSampleIsBounded(t *testing.T) {
	items := newStubItemRepo()
	svc := NewImportService(items, 50, 10)

	var b strings.Builder
	b.WriteString("sku,quantity\n")
	for i := 1; i <= 150; i++ {
		fmt.Fprintf(&b, "S-%d,%d\n", i, i)
	}

	resp, err := svc.Import(context.Background(), strings.NewReader(b.String()), "text/csv", "huge.csv", importer.ProfileStandard)
	require.NoError(t, err)

	assert.Equal(t, 150, resp.Count)
	assert.Len(t, resp.Items, 100)
}
