package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"stockroom/internal/dto"
	"stockroom/internal/model"
	"stockroom/internal/repository"
	"stockroom/internal/worker"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// InventoryService is the stock-mutation authority: every change to
// current_stock goes through here, inside one transaction that also appends
// the ledger event and recomputes the derived status.
type InventoryService interface {
	Allocate(ctx context.Context, itemID uuid.UUID, quantity int, allocatedTo string) (*dto.StockEventResponse, error)
	Deallocate(ctx context.Context, itemID uuid.UUID, quantity int, allocatedTo string) (*dto.StockEventResponse, error)
	UpdateQuantity(ctx context.Context, itemID uuid.UUID, quantity int, reason string) (*dto.ItemResponse, error)
	GetItem(ctx context.Context, id uuid.UUID) (*dto.ItemResponse, error)
	ListItems(ctx context.Context, filter dto.ItemFilter) (*dto.ItemListResponse, error)
	ItemHistory(ctx context.Context, id uuid.UUID, limit int) ([]dto.StockEventResponse, error)
}

type inventoryService struct {
	items      repository.ItemRepository
	events     repository.StockEventRepository
	dispatcher *worker.Dispatcher
	threshold  int // global low-stock default, overridden per item
}

func NewInventoryService(
	items repository.ItemRepository,
	events repository.StockEventRepository,
	dispatcher *worker.Dispatcher,
	lowStockThreshold int,
) InventoryService {
	return &inventoryService{
		items:      items,
		events:     events,
		dispatcher: dispatcher,
		threshold:  lowStockThreshold,
	}
}

// Allocate reserves quantity units of an item for a consumer.
//
// The decrement is conditional (current_stock >= quantity in the WHERE
// clause), so the check and the write are one atomic step: of two racing
// allocations against the same remaining stock, at most one can succeed.
// Status recompute and the ledger append share the same transaction.
func (s *inventoryService) Allocate(ctx context.Context, itemID uuid.UUID, quantity int, allocatedTo string) (*dto.StockEventResponse, error) {
	if quantity <= 0 {
		return nil, fmt.Errorf("quantity must be positive, got %d", quantity)
	}

	var ev *model.StockEvent
	var item *model.InventoryItem
	var prevStatus string

	txErr := runTx(ctx, s.items.DB(), func(tx *gorm.DB) error {
		affected, err := s.items.DecrementStockTx(tx, itemID, quantity)
		if err != nil {
			return err
		}
		if affected == 0 {
			// Distinguish a missing item from insufficient stock.
			if _, findErr := s.items.FindByIDTx(tx, itemID); findErr != nil {
				return ErrItemNotFound
			}
			return ErrInsufficientInventory
		}

		item, err = s.items.FindByIDTx(tx, itemID)
		if err != nil {
			return err
		}

		prevStatus = item.Status
		newStatus := model.DeriveStatus(item.CurrentStock, item.LowStockThreshold(s.threshold), item.Status)
		if newStatus != item.Status {
			if err := s.items.SetStatusTx(tx, itemID, newStatus); err != nil {
				return err
			}
			item.Status = newStatus
		}

		ev = &model.StockEvent{
			ItemID:        itemID,
			Type:          model.EventAllocation,
			Quantity:      quantity,
			AllocatedTo:   allocatedTo,
			PreviousStock: item.CurrentStock + quantity,
			NewStock:      item.CurrentStock,
			Status:        model.EventCompleted,
		}
		return s.events.CreateTx(tx, ev)
	})
	if txErr != nil {
		return nil, txErr
	}

	s.maybeAlert(ctx, item, prevStatus)

	resp := eventToResponse(ev)
	return &resp, nil
}

// Deallocate returns previously reserved stock to an item.
func (s *inventoryService) Deallocate(ctx context.Context, itemID uuid.UUID, quantity int, allocatedTo string) (*dto.StockEventResponse, error) {
	if quantity <= 0 {
		return nil, fmt.Errorf("quantity must be positive, got %d", quantity)
	}

	var ev *model.StockEvent

	txErr := runTx(ctx, s.items.DB(), func(tx *gorm.DB) error {
		affected, err := s.items.IncrementStockTx(tx, itemID, quantity)
		if err != nil {
			return err
		}
		if affected == 0 {
			return ErrItemNotFound
		}

		item, err := s.items.FindByIDTx(tx, itemID)
		if err != nil {
			return err
		}

		newStatus := model.DeriveStatus(item.CurrentStock, item.LowStockThreshold(s.threshold), item.Status)
		if newStatus != item.Status {
			if err := s.items.SetStatusTx(tx, itemID, newStatus); err != nil {
				return err
			}
			item.Status = newStatus
		}

		ev = &model.StockEvent{
			ItemID:        itemID,
			Type:          model.EventDeallocation,
			Quantity:      quantity,
			AllocatedTo:   allocatedTo,
			PreviousStock: item.CurrentStock - quantity,
			NewStock:      item.CurrentStock,
			Status:        model.EventCompleted,
		}
		return s.events.CreateTx(tx, ev)
	})
	if txErr != nil {
		return nil, txErr
	}

	resp := eventToResponse(ev)
	return &resp, nil
}

// UpdateQuantity is the administrative override: it sets current_stock to an
// absolute value (not a delta) and records a typed adjustment event carrying
// the reason, so "why did stock change" queries are uniform across
// allocations and manual corrections.
func (s *inventoryService) UpdateQuantity(ctx context.Context, itemID uuid.UUID, quantity int, reason string) (*dto.ItemResponse, error) {
	if quantity < 0 {
		return nil, fmt.Errorf("quantity must not be negative, got %d", quantity)
	}

	item, err := s.items.FindByID(ctx, itemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrItemNotFound
		}
		return nil, err
	}

	prevStock := item.CurrentStock
	prevStatus := item.Status
	newStatus := model.DeriveStatus(quantity, item.LowStockThreshold(s.threshold), item.Status)

	txErr := runTx(ctx, s.items.DB(), func(tx *gorm.DB) error {
		if err := s.items.SetStockTx(tx, itemID, quantity, newStatus); err != nil {
			return err
		}
		if quantity == prevStock {
			return nil // touch only, nothing moved
		}
		delta := quantity - prevStock
		if delta < 0 {
			delta = -delta
		}
		ev := &model.StockEvent{
			ItemID:        itemID,
			Type:          model.EventAdjustment,
			Quantity:      delta,
			PreviousStock: prevStock,
			NewStock:      quantity,
			Reason:        reason,
			Status:        model.EventCompleted,
		}
		return s.events.CreateTx(tx, ev)
	})
	if txErr != nil {
		return nil, txErr
	}

	item.CurrentStock = quantity
	item.Status = newStatus
	item.LastUpdated = time.Now().UTC()

	s.maybeAlert(ctx, item, prevStatus)

	resp := itemToResponse(item)
	return &resp, nil
}

func (s *inventoryService) GetItem(ctx context.Context, id uuid.UUID) (*dto.ItemResponse, error) {
	item, err := s.items.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrItemNotFound
		}
		return nil, err
	}
	resp := itemToResponse(item)
	return &resp, nil
}

func (s *inventoryService) ListItems(ctx context.Context, filter dto.ItemFilter) (*dto.ItemListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 50
	}
	items, total, err := s.items.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	data := make([]dto.ItemResponse, 0, len(items))
	for i := range items {
		data = append(data, itemToResponse(&items[i]))
	}
	return &dto.ItemListResponse{
		Data:  data,
		Total: total,
		Page:  filter.Page,
		Limit: filter.Limit,
	}, nil
}

func (s *inventoryService) ItemHistory(ctx context.Context, id uuid.UUID, limit int) ([]dto.StockEventResponse, error) {
	if _, err := s.items.FindByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrItemNotFound
		}
		return nil, err
	}
	if limit < 1 || limit > 200 {
		limit = 50
	}
	events, err := s.events.ListByItem(ctx, id, limit)
	if err != nil {
		return nil, err
	}
	out := make([]dto.StockEventResponse, 0, len(events))
	for i := range events {
		out = append(out, eventToResponse(&events[i]))
	}
	return out, nil
}

// maybeAlert enqueues a stock alert when a mutation drove the item into a
// low or empty state. Fire and forget: the stock change already committed.
func (s *inventoryService) maybeAlert(ctx context.Context, item *model.InventoryItem, prevStatus string) {
	if s.dispatcher == nil || item == nil {
		return
	}
	if item.Status == prevStatus {
		return
	}
	if item.Status != model.StatusLowStock && item.Status != model.StatusOutOfStock {
		return
	}
	alert := worker.StockAlert{
		ItemID:       item.ID.String(),
		SKU:          item.SKU,
		Name:         item.Name,
		Status:       item.Status,
		CurrentStock: item.CurrentStock,
		Threshold:    item.LowStockThreshold(s.threshold),
		RaisedAt:     time.Now().UTC().Format(time.RFC3339),
	}
	if err := s.dispatcher.EnqueueStockAlert(ctx, alert); err != nil {
		log.Error().Err(err).Str("sku", item.SKU).Msg("failed to enqueue stock alert")
	}
}
