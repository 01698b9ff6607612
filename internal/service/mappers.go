package service

import (
	"time"

	"stockroom/internal/dto"
	"stockroom/internal/model"
)

func itemToResponse(i *model.InventoryItem) dto.ItemResponse {
	return dto.ItemResponse{
		ID:           i.ID.String(),
		SKU:          i.SKU,
		Name:         i.Name,
		Description:  i.Description,
		Category:     i.Category,
		Unit:         i.Unit,
		BinLocation:  i.BinLocation,
		Warehouse:    i.Warehouse,
		Supplier:     i.Supplier,
		GLCode:       i.GLCode,
		ProdCode:     i.ProdCode,
		BatchNumber:  i.BatchNumber,
		Notes:        i.Notes,
		CurrentStock: i.CurrentStock,
		MinimumStock: i.MinimumStock,
		ReorderPoint: i.ReorderPoint,
		Cost:         i.Cost,
		LeadTime:     i.LeadTimeDays,
		Status:       i.Status,
		LastUpdated:  i.LastUpdated.UTC().Format(time.RFC3339),
	}
}

func eventToResponse(ev *model.StockEvent) dto.StockEventResponse {
	return dto.StockEventResponse{
		ID:            ev.ID.String(),
		ItemID:        ev.ItemID.String(),
		Type:          ev.Type,
		Quantity:      ev.Quantity,
		AllocatedTo:   ev.AllocatedTo,
		PreviousStock: ev.PreviousStock,
		NewStock:      ev.NewStock,
		Reason:        ev.Reason,
		Status:        ev.Status,
		Timestamp:     ev.CreatedAt.UTC().Format(time.RFC3339),
	}
}
