package model

import (
	"time"

	"github.com/google/uuid"
)

// Event types. Adjustments come from the quantity-override endpoint so the
// audit trail stays uniform across every kind of stock change.
const (
	EventAllocation   = "allocation"
	EventDeallocation = "deallocation"
	EventAdjustment   = "adjustment"
)

// Event statuses.
const (
	EventPending   = "pending"
	EventCompleted = "completed"
	EventFailed    = "failed"
)

// StockEvent records a single stock movement against an item. Events are
// append-only: there is no update or delete path anywhere in the codebase.
type StockEvent struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	ItemID        uuid.UUID `gorm:"type:uuid;not null;index" json:"itemId"`
	Type          string    `gorm:"not null" json:"type"`
	Quantity      int       `gorm:"not null" json:"quantity"`
	AllocatedTo   string    `gorm:"index" json:"allocatedTo,omitempty"`
	PreviousStock int       `gorm:"not null" json:"previousStock"`
	NewStock      int       `gorm:"not null" json:"newStock"`
	Reason        string    `json:"reason,omitempty"`
	Status        string    `gorm:"not null" json:"status"`
	CreatedAt     time.Time `json:"timestamp"`

	Item *InventoryItem `gorm:"foreignKey:ItemID" json:"-"`
}

func (StockEvent) TableName() string { return "stock_events" }
