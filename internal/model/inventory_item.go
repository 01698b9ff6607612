package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// InventoryItem is the authoritative stock record. CurrentStock is only
// mutated through the allocation ledger or the quantity-override endpoint;
// Status is always derived, never written by callers.
type InventoryItem struct {
	ID           uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	SKU          string          `gorm:"uniqueIndex;not null" json:"sku"`
	Name         string          `gorm:"index;not null" json:"name"`
	Description  string          `json:"description"`
	Category     string          `gorm:"index;not null;default:'Uncategorized'" json:"category"`
	Unit         string          `gorm:"not null;default:'each'" json:"unit"`
	BinLocation  string          `json:"binLocation"`
	Warehouse    string          `gorm:"index" json:"warehouse"`
	Supplier     string          `json:"supplier"`
	GLCode       string          `json:"glCode"`
	ProdCode     string          `json:"prodCode"`
	BatchNumber  string          `json:"batchNumber"`
	Notes        string          `json:"notes"`
	CurrentStock int             `gorm:"not null;default:0" json:"currentStock"`
	MinimumStock int             `gorm:"not null;default:0" json:"minimumStock"`
	ReorderPoint int             `gorm:"not null;default:0" json:"reorderPoint"`
	Cost         decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0" json:"cost"`
	LeadTimeDays int             `gorm:"not null;default:0" json:"leadTime"`
	Status       string          `gorm:"index;not null" json:"status"`
	LastUpdated  time.Time       `gorm:"autoUpdateTime" json:"lastUpdated"`
	CreatedAt    time.Time       `json:"-"`
}

func (InventoryItem) TableName() string { return "inventory_items" }

// LowStockThreshold resolves the threshold used for status derivation.
// Per-item ReorderPoint wins, then MinimumStock, then the global default.
func (i *InventoryItem) LowStockThreshold(globalDefault int) int {
	if i.ReorderPoint > 0 {
		return i.ReorderPoint
	}
	if i.MinimumStock > 0 {
		return i.MinimumStock
	}
	return globalDefault
}

// StockValue returns CurrentStock × Cost for inventory valuation.
func (i *InventoryItem) StockValue() decimal.Decimal {
	return i.Cost.Mul(decimal.NewFromInt(int64(i.CurrentStock)))
}
