package service

import (
	"context"
	"fmt"
	"io"
	"time"

	"stockroom/internal/dto"
	"stockroom/internal/importer"
	"stockroom/internal/model"
	"stockroom/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const (
	// itemSampleLimit bounds the items echoed back for very large imports.
	itemSampleLimit = 100
	// chunkWriteTimeout bounds each batch insert.
	chunkWriteTimeout = 30 * time.Second
)

// ImportService drives the bulk-import pipeline: detect format, stream rows,
// resolve and validate each one, then persist in fixed-size chunks. Each chunk
// commits independently — one failing chunk is reported, not fatal, so a large
// file never loses all its good rows to one bad batch.
type ImportService interface {
	Import(ctx context.Context, file io.Reader, contentType, filename string, profile importer.Profile) (*dto.ImportResponse, error)
}

type importService struct {
	items     repository.ItemRepository
	chunkSize int
	threshold int
}

func NewImportService(items repository.ItemRepository, chunkSize, lowStockThreshold int) ImportService {
	if chunkSize < 1 {
		chunkSize = 1000
	}
	return &importService{items: items, chunkSize: chunkSize, threshold: lowStockThreshold}
}

func (s *importService) Import(ctx context.Context, file io.Reader, contentType, filename string, profile importer.Profile) (*dto.ImportResponse, error) {
	data, err := io.ReadAll(file)
	if err != nil {
		return nil, err
	}

	det, err := importer.Detect(contentType, filename, data)
	if err != nil {
		return nil, err
	}

	rows, err := importer.NewRowReader(data, det)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	resolver := importer.NewFieldResolver()
	validator := importer.NewRowValidator(profile)

	resp := &dto.ImportResponse{
		Items:            []dto.ItemResponse{},
		ValidationErrors: map[int][]string{},
	}
	chunk := make([]*model.InventoryItem, 0, s.chunkSize)
	chunkStart := 0 // source row index of the chunk's first item

	flush := func() {
		if len(chunk) == 0 {
			return
		}
		s.persistChunk(ctx, chunk, chunkStart, resp)
		chunk = chunk[:0]
	}

	for {
		rec, readErr := rows.Next()
		if readErr == io.EOF {
			break
		}
		if readErr != nil {
			return nil, readErr
		}
		resp.TotalProcessed++

		row := resolver.Resolve(rec, resp.TotalProcessed)

		if violations := validator.Check(row); len(violations) > 0 {
			resp.ValidationErrors[row.Index] = violations
			if !row.HasIdentifier() {
				// Dropped, not fatal: the rest of the file still imports.
				log.Warn().Int("row", row.Index).Str("file", filename).
					Msg("import row dropped: no identifier")
			}
			continue
		}

		if len(chunk) == 0 {
			chunkStart = row.Index
		}
		chunk = append(chunk, s.buildItem(row))
		if len(chunk) >= s.chunkSize {
			flush()
			// A long import is abortable between chunks; committed chunks stay.
			if ctx.Err() != nil {
				resp.Errors = append(resp.Errors, fmt.Sprintf("import aborted after row %d: %v", resp.TotalProcessed, ctx.Err()))
				resp.Message = importMessage(resp)
				return resp, nil
			}
		}
	}
	flush()

	if resp.TotalProcessed == 0 {
		return nil, importer.ErrEmptyFile
	}

	if len(resp.ValidationErrors) == 0 {
		resp.ValidationErrors = nil
	}
	resp.Message = importMessage(resp)
	return resp, nil
}

// persistChunk commits one batch. Failures are collected onto the response
// instead of aborting the import: every other chunk still gets its chance.
func (s *importService) persistChunk(ctx context.Context, chunk []*model.InventoryItem, startRow int, resp *dto.ImportResponse) {
	wctx, cancel := context.WithTimeout(ctx, chunkWriteTimeout)
	defer cancel()

	if err := s.items.CreateBatch(wctx, chunk); err != nil {
		resp.Failed += len(chunk)
		resp.Errors = append(resp.Errors, fmt.Sprintf("rows %d-%d: %v", startRow, startRow+len(chunk)-1, err))
		log.Error().Err(err).Int("rows", len(chunk)).Msg("import chunk failed")
		return
	}

	resp.Count += len(chunk)
	for _, item := range chunk {
		if len(resp.Items) >= itemSampleLimit {
			break
		}
		resp.Items = append(resp.Items, itemToResponse(item))
	}
}

func (s *importService) buildItem(row importer.ResolvedRow) *model.InventoryItem {
	item := &model.InventoryItem{
		ID:           uuid.New(),
		SKU:          row.SKU,
		Name:         row.Name,
		Description:  row.Description,
		Category:     row.Category,
		Unit:         row.Unit,
		BinLocation:  row.BinLocation,
		Warehouse:    row.Warehouse,
		Supplier:     row.Supplier,
		GLCode:       row.GLCode,
		ProdCode:     row.ProdCode,
		BatchNumber:  row.BatchNumber,
		Notes:        row.Notes,
		CurrentStock: row.CurrentStock,
		MinimumStock: row.MinimumStock,
		ReorderPoint: row.ReorderPoint,
		Cost:         row.Cost,
		LeadTimeDays: row.LeadTimeDays,
		LastUpdated:  time.Now().UTC(),
	}
	item.Status = model.DeriveStatus(item.CurrentStock, item.LowStockThreshold(s.threshold), "")
	return item
}

func importMessage(resp *dto.ImportResponse) string {
	invalid := resp.TotalProcessed - resp.Count - resp.Failed
	if invalid == 0 && resp.Failed == 0 {
		return fmt.Sprintf("Imported %d items", resp.Count)
	}
	return fmt.Sprintf("Imported %d of %d rows (%d invalid, %d failed)",
		resp.Count, resp.TotalProcessed, invalid, resp.Failed)
}
