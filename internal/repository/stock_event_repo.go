package repository

import (
	"context"

	"stockroom/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// StockEventRepository is append-only by contract: there is deliberately no
// update or delete method.
type StockEventRepository interface {
	Create(ctx context.Context, ev *model.StockEvent) error
	// CreateTx appends an event inside the same transaction that mutated the
	// item, so the ledger can never disagree with the stock it describes.
	CreateTx(tx *gorm.DB, ev *model.StockEvent) error
	ListByItem(ctx context.Context, itemID uuid.UUID, limit int) ([]model.StockEvent, error)
	Recent(ctx context.Context, limit int) ([]model.StockEvent, error)
}

type stockEventRepo struct{ db *gorm.DB }

func NewStockEventRepository(db *gorm.DB) StockEventRepository {
	return &stockEventRepo{db: db}
}

func (r *stockEventRepo) Create(ctx context.Context, ev *model.StockEvent) error {
	return r.db.WithContext(ctx).Create(ev).Error
}

func (r *stockEventRepo) CreateTx(tx *gorm.DB, ev *model.StockEvent) error {
	return tx.Create(ev).Error
}

func (r *stockEventRepo) ListByItem(ctx context.Context, itemID uuid.UUID, limit int) ([]model.StockEvent, error) {
	var events []model.StockEvent
	err := r.db.WithContext(ctx).
		Where("item_id = ?", itemID).
		Order("created_at DESC").
		Limit(limit).
		Find(&events).Error
	return events, err
}

func (r *stockEventRepo) Recent(ctx context.Context, limit int) ([]model.StockEvent, error) {
	var events []model.StockEvent
	err := r.db.WithContext(ctx).
		Preload("Item").
		Order("created_at DESC").
		Limit(limit).
		Find(&events).Error
	return events, err
}
