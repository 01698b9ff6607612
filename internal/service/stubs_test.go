package service

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"stockroom/internal/dto"
	"stockroom/internal/model"
	"stockroom/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ── In-memory ItemRepository stub ────────────────────────────────────────────

type stubItemRepo struct {
	mu    sync.Mutex
	items map[uuid.UUID]*model.InventoryItem

	// Failure injection for batch / aggregate paths.
	failBatches int
	failTotals  int
	batchSizes  []int
}

func newStubItemRepo() *stubItemRepo {
	return &stubItemRepo{items: make(map[uuid.UUID]*model.InventoryItem)}
}

func (r *stubItemRepo) Create(_ context.Context, item *model.InventoryItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if item.ID == uuid.Nil {
		item.ID = uuid.New()
	}
	cp := *item
	r.items[item.ID] = &cp
	return nil
}

func (r *stubItemRepo) CreateBatch(_ context.Context, items []*model.InventoryItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.batchSizes = append(r.batchSizes, len(items))
	if r.failBatches > 0 {
		r.failBatches--
		return errors.New("connection reset by peer")
	}
	for _, item := range items {
		if item.ID == uuid.Nil {
			item.ID = uuid.New()
		}
		cp := *item
		r.items[item.ID] = &cp
	}
	return nil
}

func (r *stubItemRepo) FindByID(_ context.Context, id uuid.UUID) (*model.InventoryItem, error) {
	return r.FindByIDTx(nil, id)
}

func (r *stubItemRepo) FindByIDTx(_ *gorm.DB, id uuid.UUID) (*model.InventoryItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	item, ok := r.items[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *item
	return &cp, nil
}

func (r *stubItemRepo) List(_ context.Context, filter dto.ItemFilter) ([]model.InventoryItem, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var matched []model.InventoryItem
	for _, item := range r.items {
		if filter.Category != "" && item.Category != filter.Category {
			continue
		}
		if filter.Status != "" && item.Status != filter.Status {
			continue
		}
		if filter.Warehouse != "" && item.Warehouse != filter.Warehouse {
			continue
		}
		if filter.Search != "" {
			s := strings.ToLower(filter.Search)
			if !strings.Contains(strings.ToLower(item.SKU), s) &&
				!strings.Contains(strings.ToLower(item.Name), s) {
				continue
			}
		}
		matched = append(matched, *item)
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].Name < matched[j].Name })
	total := int64(len(matched))

	start := (filter.Page - 1) * filter.Limit
	if start > len(matched) {
		start = len(matched)
	}
	end := start + filter.Limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[start:end], total, nil
}

func (r *stubItemRepo) DecrementStockTx(_ *gorm.DB, id uuid.UUID, qty int) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	item, ok := r.items[id]
	if !ok || item.CurrentStock < qty {
		return 0, nil
	}
	item.CurrentStock -= qty
	item.LastUpdated = time.Now().UTC()
	return 1, nil
}

func (r *stubItemRepo) IncrementStockTx(_ *gorm.DB, id uuid.UUID, qty int) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	item, ok := r.items[id]
	if !ok {
		return 0, nil
	}
	item.CurrentStock += qty
	item.LastUpdated = time.Now().UTC()
	return 1, nil
}

func (r *stubItemRepo) SetStockTx(_ *gorm.DB, id uuid.UUID, stock int, status string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	item, ok := r.items[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	item.CurrentStock = stock
	item.Status = status
	item.LastUpdated = time.Now().UTC()
	return nil
}

func (r *stubItemRepo) SetStatusTx(_ *gorm.DB, id uuid.UUID, status string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	item, ok := r.items[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	item.Status = status
	return nil
}

func (r *stubItemRepo) Totals(_ context.Context, defaultThreshold int) (*repository.ItemTotals, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failTotals > 0 {
		r.failTotals--
		return nil, errors.New("aggregate query timed out")
	}
	t := &repository.ItemTotals{TotalValue: decimal.Zero}
	for _, item := range r.items {
		t.TotalItems++
		switch {
		case item.CurrentStock <= 0:
			t.OutOfStockItems++
		case item.CurrentStock <= item.LowStockThreshold(defaultThreshold):
			t.LowStockItems++
		}
		t.TotalValue = t.TotalValue.Add(item.StockValue())
	}
	return t, nil
}

func (r *stubItemRepo) DB() *gorm.DB { return nil }

var _ repository.ItemRepository = (*stubItemRepo)(nil)

// ── In-memory StockEventRepository stub ──────────────────────────────────────

type stubEventRepo struct {
	mu     sync.Mutex
	events []*model.StockEvent

	// Optional backing item repo so Recent can emulate the Item preload.
	items *stubItemRepo
}

func newStubEventRepo(items *stubItemRepo) *stubEventRepo {
	return &stubEventRepo{items: items}
}

func (r *stubEventRepo) Create(_ context.Context, ev *model.StockEvent) error {
	return r.CreateTx(nil, ev)
}

func (r *stubEventRepo) CreateTx(_ *gorm.DB, ev *model.StockEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if ev.ID == uuid.Nil {
		ev.ID = uuid.New()
	}
	if ev.CreatedAt.IsZero() {
		ev.CreatedAt = time.Now().UTC()
	}
	cp := *ev
	r.events = append(r.events, &cp)
	return nil
}

func (r *stubEventRepo) ListByItem(_ context.Context, itemID uuid.UUID, limit int) ([]model.StockEvent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.StockEvent
	for i := len(r.events) - 1; i >= 0 && len(out) < limit; i-- {
		if r.events[i].ItemID == itemID {
			out = append(out, *r.events[i])
		}
	}
	return out, nil
}

func (r *stubEventRepo) Recent(_ context.Context, limit int) ([]model.StockEvent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.StockEvent
	for i := len(r.events) - 1; i >= 0 && len(out) < limit; i-- {
		ev := *r.events[i]
		if r.items != nil {
			if item, ok := r.items.items[ev.ItemID]; ok {
				cp := *item
				ev.Item = &cp
			}
		}
		out = append(out, ev)
	}
	return out, nil
}

var _ repository.StockEventRepository = (*stubEventRepo)(nil)

// ── Helpers ──────────────────────────────────────────────────────────────────

func seedItem(repo *stubItemRepo, sku, name string, stock, minimum int) *model.InventoryItem {
	item := &model.InventoryItem{
		ID:           uuid.New(),
		SKU:          sku,
		Name:         name,
		Category:     "Test",
		Unit:         "each",
		CurrentStock: stock,
		MinimumStock: minimum,
		Cost:         decimal.NewFromFloat(2.50),
		LastUpdated:  time.Now().UTC(),
	}
	item.Status = model.DeriveStatus(stock, item.LowStockThreshold(10), "")
	repo.items[item.ID] = item
	return item
}
