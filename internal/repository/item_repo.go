package repository

import (
	"context"
	"time"

	"stockroom/internal/dto"
	"stockroom/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ItemRepository defines the data access contract for inventory items.
// Services depend on this interface, not on the concrete GORM implementation,
// enabling clean unit testing via in-memory stubs.
type ItemRepository interface {
	Create(ctx context.Context, item *model.InventoryItem) error
	// CreateBatch persists one import chunk as a single batch insert.
	CreateBatch(ctx context.Context, items []*model.InventoryItem) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.InventoryItem, error)
	List(ctx context.Context, filter dto.ItemFilter) ([]model.InventoryItem, int64, error)

	// Used inside transactions — callers pass the tx instance (nil in unit tests).
	FindByIDTx(tx *gorm.DB, id uuid.UUID) (*model.InventoryItem, error)
	// DecrementStockTx is the atomic check-and-decrement at the heart of
	// allocation: the row is only updated when current_stock covers qty, so
	// two racing allocations can never both drain the same units. Returns the
	// number of rows affected (0 = missing item or insufficient stock).
	DecrementStockTx(tx *gorm.DB, id uuid.UUID, qty int) (int64, error)
	IncrementStockTx(tx *gorm.DB, id uuid.UUID, qty int) (int64, error)
	SetStockTx(tx *gorm.DB, id uuid.UUID, stock int, status string) error
	SetStatusTx(tx *gorm.DB, id uuid.UUID, status string) error

	// Totals computes the aggregate stats snapshot in one query.
	Totals(ctx context.Context, defaultThreshold int) (*ItemTotals, error)

	// DB exposes the underlying *gorm.DB so services can open transactions.
	DB() *gorm.DB
}

// ItemTotals is the aggregate snapshot over the whole item collection.
type ItemTotals struct {
	TotalItems      int64           `gorm:"column:total_items"`
	LowStockItems   int64           `gorm:"column:low_stock_items"`
	OutOfStockItems int64           `gorm:"column:out_of_stock_items"`
	TotalValue      decimal.Decimal `gorm:"column:total_value"`
}

type itemRepo struct{ db *gorm.DB }

func NewItemRepository(db *gorm.DB) ItemRepository { return &itemRepo{db: db} }

func (r *itemRepo) Create(ctx context.Context, item *model.InventoryItem) error {
	return r.db.WithContext(ctx).Create(item).Error
}

func (r *itemRepo) CreateBatch(ctx context.Context, items []*model.InventoryItem) error {
	if len(items) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(items).Error
}

func (r *itemRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.InventoryItem, error) {
	var item model.InventoryItem
	err := r.db.WithContext(ctx).First(&item, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *itemRepo) FindByIDTx(tx *gorm.DB, id uuid.UUID) (*model.InventoryItem, error) {
	if tx == nil {
		tx = r.db
	}
	var item model.InventoryItem
	err := tx.First(&item, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *itemRepo) List(ctx context.Context, filter dto.ItemFilter) ([]model.InventoryItem, int64, error) {
	var items []model.InventoryItem
	var total int64

	q := r.db.WithContext(ctx).Model(&model.InventoryItem{})

	if filter.Category != "" {
		q = q.Where("category = ?", filter.Category)
	}
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	if filter.Warehouse != "" {
		q = q.Where("warehouse = ?", filter.Warehouse)
	}
	if filter.Search != "" {
		like := "%" + filter.Search + "%"
		q = q.Where("sku ILIKE ? OR name ILIKE ?", like, like)
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.Limit
	err := q.Order("name ASC").Limit(filter.Limit).Offset(offset).Find(&items).Error
	return items, total, err
}

func (r *itemRepo) DecrementStockTx(tx *gorm.DB, id uuid.UUID, qty int) (int64, error) {
	res := tx.Model(&model.InventoryItem{}).
		Where("id = ? AND current_stock >= ?", id, qty).
		Updates(map[string]interface{}{
			"current_stock": gorm.Expr("current_stock - ?", qty),
			"last_updated":  time.Now().UTC(),
		})
	return res.RowsAffected, res.Error
}

func (r *itemRepo) IncrementStockTx(tx *gorm.DB, id uuid.UUID, qty int) (int64, error) {
	res := tx.Model(&model.InventoryItem{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"current_stock": gorm.Expr("current_stock + ?", qty),
			"last_updated":  time.Now().UTC(),
		})
	return res.RowsAffected, res.Error
}

func (r *itemRepo) SetStockTx(tx *gorm.DB, id uuid.UUID, stock int, status string) error {
	return tx.Model(&model.InventoryItem{}).Where("id = ?", id).Updates(map[string]interface{}{
		"current_stock": stock,
		"status":        status,
		"last_updated":  time.Now().UTC(),
	}).Error
}

func (r *itemRepo) SetStatusTx(tx *gorm.DB, id uuid.UUID, status string) error {
	return tx.Model(&model.InventoryItem{}).Where("id = ?", id).
		Update("status", status).Error
}

// Totals runs one aggregate pass over the items table. The low-stock bucket
// applies the same per-item threshold precedence the Go code uses:
// reorder_point, then minimum_stock, then the global default.
func (r *itemRepo) Totals(ctx context.Context, defaultThreshold int) (*ItemTotals, error) {
	var t ItemTotals
	err := r.db.WithContext(ctx).Raw(`
SELECT
    COUNT(*) AS total_items,
    COUNT(*) FILTER (WHERE current_stock <= 0) AS out_of_stock_items,
    COUNT(*) FILTER (
        WHERE current_stock > 0
          AND current_stock <= CASE
              WHEN reorder_point > 0 THEN reorder_point
              WHEN minimum_stock > 0 THEN minimum_stock
              ELSE ?
          END
    ) AS low_stock_items,
    COALESCE(SUM(current_stock * cost), 0) AS total_value
FROM inventory_items`, defaultThreshold).Scan(&t).Error
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *itemRepo) DB() *gorm.DB { return r.db }
