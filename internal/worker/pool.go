package worker

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const (
	// alertFeedKey is the bounded feed of recent alerts served to dashboards.
	alertFeedKey = "alerts:recent"
	alertFeedMax = 100
)

// StartWorkerPool launches numWorkers goroutines consuming the alert queue.
// Each goroutine blocks on BRPOP — zero CPU when idle.
func StartWorkerPool(ctx context.Context, rdb *redis.Client, numWorkers int) {
	for i := 0; i < numWorkers; i++ {
		go runWorker(ctx, rdb, i)
	}
	log.Info().Msgf("worker pool started with %d workers", numWorkers)
}

func runWorker(ctx context.Context, rdb *redis.Client, id int) {
	for {
		select {
		case <-ctx.Done():
			log.Info().Msgf("worker %d shutting down", id)
			return
		default:
			// Blocking pop — waits up to 5s then loops to check ctx
			result, err := rdb.BRPop(ctx, 5*time.Second, QueueStockAlerts).Result()
			if err != nil {
				continue // timeout or context cancelled
			}
			if len(result) < 2 {
				continue
			}
			processJob(ctx, rdb, result[1])
		}
	}
}

func processJob(ctx context.Context, rdb *redis.Client, raw string) {
	var job Job
	if err := json.Unmarshal([]byte(raw), &job); err != nil {
		log.Error().Err(err).Msg("failed to unmarshal job")
		return
	}
	switch job.Type {
	case "stock-alert":
		handleStockAlert(ctx, rdb, job.Payload)
	default:
		log.Warn().Str("type", job.Type).Msg("unknown job type")
	}
}

func handleStockAlert(ctx context.Context, rdb *redis.Client, payload json.RawMessage) {
	var alert StockAlert
	if err := json.Unmarshal(payload, &alert); err != nil {
		log.Error().Err(err).Msg("failed to unmarshal stock alert")
		return
	}

	log.Warn().
		Str("item_id", alert.ItemID).
		Str("sku", alert.SKU).
		Str("status", alert.Status).
		Int("current_stock", alert.CurrentStock).
		Int("threshold", alert.Threshold).
		Msg("stock alert")

	// Keep a bounded feed of the most recent alerts for the dashboard.
	if err := rdb.LPush(ctx, alertFeedKey, payload).Err(); err != nil {
		log.Error().Err(err).Msg("failed to push alert to feed")
		return
	}
	_ = rdb.LTrim(ctx, alertFeedKey, 0, alertFeedMax-1).Err()
}

// RecentAlerts returns up to limit alerts from the feed, newest first.
func RecentAlerts(ctx context.Context, rdb *redis.Client, limit int) ([]StockAlert, error) {
	if limit <= 0 || limit > alertFeedMax {
		limit = alertFeedMax
	}
	raw, err := rdb.LRange(ctx, alertFeedKey, 0, int64(limit-1)).Result()
	if err != nil {
		return nil, err
	}
	alerts := make([]StockAlert, 0, len(raw))
	for _, entry := range raw {
		var a StockAlert
		if err := json.Unmarshal([]byte(entry), &a); err != nil {
			continue
		}
		alerts = append(alerts, a)
	}
	return alerts, nil
}
