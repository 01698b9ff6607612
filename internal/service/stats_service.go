package service

import (
	"context"
	"encoding/json"
	"time"

	"stockroom/internal/dto"
	"stockroom/internal/repository"

	"github.com/redis/go-redis/v9"
)

const (
	statsCacheKey   = "stats:snapshot"
	recentFeedLimit = 5
)

// StatsService derives summary counts from the current item snapshot on
// demand. The recent-activity feed reads from the stock event log, so each
// entry carries a true before/after quantity instead of a snapshot where both
// sides are equal.
type StatsService interface {
	Snapshot(ctx context.Context) (*dto.StatsResponse, error)
}

type statsService struct {
	items     repository.ItemRepository
	events    repository.StockEventRepository
	rdb       *redis.Client
	ttl       time.Duration
	threshold int
}

func NewStatsService(
	items repository.ItemRepository,
	events repository.StockEventRepository,
	rdb *redis.Client,
	cacheTTL time.Duration,
	lowStockThreshold int,
) StatsService {
	return &statsService{
		items:     items,
		events:    events,
		rdb:       rdb,
		ttl:       cacheTTL,
		threshold: lowStockThreshold,
	}
}

func (s *statsService) Snapshot(ctx context.Context) (*dto.StatsResponse, error) {
	// Cache-aside: dashboards poll this endpoint aggressively.
	if s.rdb != nil {
		if cached, err := s.rdb.Get(ctx, statsCacheKey).Bytes(); err == nil {
			var resp dto.StatsResponse
			if jsonErr := json.Unmarshal(cached, &resp); jsonErr == nil {
				return &resp, nil
			}
		}
	}

	totals, err := s.items.Totals(ctx, s.threshold)
	if err != nil {
		// One retry — the aggregate read is idempotent.
		totals, err = s.items.Totals(ctx, s.threshold)
		if err != nil {
			return nil, err
		}
	}

	recent, err := s.events.Recent(ctx, recentFeedLimit)
	if err != nil {
		return nil, err
	}

	resp := &dto.StatsResponse{
		TotalItems:      totals.TotalItems,
		LowStockItems:   totals.LowStockItems,
		OutOfStockItems: totals.OutOfStockItems,
		TotalValue:      totals.TotalValue,
		RecentUpdates:   make([]dto.RecentUpdate, 0, len(recent)),
	}
	for i := range recent {
		ev := &recent[i]
		upd := dto.RecentUpdate{
			ItemID:           ev.ItemID.String(),
			Type:             ev.Type,
			PreviousQuantity: ev.PreviousStock,
			NewQuantity:      ev.NewStock,
			Timestamp:        ev.CreatedAt.UTC().Format(time.RFC3339),
		}
		if ev.Item != nil {
			upd.SKU = ev.Item.SKU
			upd.Name = ev.Item.Name
		}
		resp.RecentUpdates = append(resp.RecentUpdates, upd)
	}

	// Populate cache — best effort, ignore errors
	if s.rdb != nil {
		if b, jsonErr := json.Marshal(resp); jsonErr == nil {
			_ = s.rdb.Set(context.Background(), statsCacheKey, b, s.ttl).Err()
		}
	}

	return resp, nil
}
