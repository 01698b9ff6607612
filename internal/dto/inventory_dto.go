package dto

import (
	"github.com/shopspring/decimal"
)

// ─── Request DTOs ────────────────────────────────────────────────────────────

type AllocateRequest struct {
	ItemID           string `json:"itemId"           validate:"required,uuid"`
	Quantity         int    `json:"quantity"         validate:"required,gt=0"`
	ProductionLineID string `json:"productionLineId" validate:"required"`
}

type DeallocateRequest struct {
	ItemID           string `json:"itemId"           validate:"required,uuid"`
	Quantity         int    `json:"quantity"         validate:"required,gt=0"`
	ProductionLineID string `json:"productionLineId" validate:"required"`
}

// UpdateQuantityRequest sets the absolute stock level (not a delta).
// Quantity is a pointer so that an explicit 0 survives binding.
type UpdateQuantityRequest struct {
	Quantity *int   `json:"quantity" validate:"required,min=0"`
	Reason   string `json:"reason"   validate:"max=500"`
}

// ─── Filter / Pagination ─────────────────────────────────────────────────────

type ItemFilter struct {
	Category  string `form:"category"`
	Status    string `form:"status"    validate:"omitempty,oneof=in_stock low_stock out_of_stock discontinued"`
	Warehouse string `form:"warehouse"`
	Search    string `form:"search"`
	Page      int    `form:"page,default=1"   validate:"min=1"`
	Limit     int    `form:"limit,default=50" validate:"min=1,max=200"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type ItemListResponse struct {
	Data  []ItemResponse `json:"data"`
	Total int64          `json:"total"`
	Page  int            `json:"page"`
	Limit int            `json:"limit"`
}

type ItemResponse struct {
	ID           string          `json:"id"`
	SKU          string          `json:"sku"`
	Name         string          `json:"name"`
	Description  string          `json:"description,omitempty"`
	Category     string          `json:"category"`
	Unit         string          `json:"unit"`
	BinLocation  string          `json:"binLocation,omitempty"`
	Warehouse    string          `json:"warehouse,omitempty"`
	Supplier     string          `json:"supplier,omitempty"`
	GLCode       string          `json:"glCode,omitempty"`
	ProdCode     string          `json:"prodCode,omitempty"`
	BatchNumber  string          `json:"batchNumber,omitempty"`
	Notes        string          `json:"notes,omitempty"`
	CurrentStock int             `json:"currentStock"`
	MinimumStock int             `json:"minimumStock"`
	ReorderPoint int             `json:"reorderPoint"`
	Cost         decimal.Decimal `json:"cost"`
	LeadTime     int             `json:"leadTime"`
	Status       string          `json:"status"`
	LastUpdated  string          `json:"lastUpdated"`
}

type StockEventResponse struct {
	ID            string `json:"id"`
	ItemID        string `json:"itemId"`
	Type          string `json:"type"`
	Quantity      int    `json:"quantity"`
	AllocatedTo   string `json:"allocatedTo,omitempty"`
	PreviousStock int    `json:"previousStock"`
	NewStock      int    `json:"newStock"`
	Reason        string `json:"reason,omitempty"`
	Status        string `json:"status"`
	Timestamp     string `json:"timestamp"`
}

// ImportResponse reports one bulk upload. Items carries a bounded sample for
// very large files; Errors holds per-chunk persistence failures and
// ValidationErrors the full per-row violation map (row index → messages).
type ImportResponse struct {
	Message          string           `json:"message"`
	Count            int              `json:"count"`
	TotalProcessed   int              `json:"totalProcessed"`
	Failed           int              `json:"failed,omitempty"`
	Items            []ItemResponse   `json:"items"`
	Errors           []string         `json:"errors,omitempty"`
	ValidationErrors map[int][]string `json:"validationErrors,omitempty"`
}

type StatsResponse struct {
	TotalItems      int64           `json:"totalItems"`
	LowStockItems   int64           `json:"lowStockItems"`
	OutOfStockItems int64           `json:"outOfStockItems"`
	TotalValue      decimal.Decimal `json:"totalValue"`
	RecentUpdates   []RecentUpdate  `json:"recentUpdates"`
}

// RecentUpdate is one entry of the recent-activity feed, sourced from the
// stock event log so previous/new quantities are true before/after values.
type RecentUpdate struct {
	ItemID           string `json:"itemId"`
	SKU              string `json:"sku"`
	Name             string `json:"name"`
	Type             string `json:"type"`
	PreviousQuantity int    `json:"previousQuantity"`
	NewQuantity      int    `json:"newQuantity"`
	Timestamp        string `json:"timestamp"`
}
