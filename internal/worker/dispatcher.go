package worker

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"
)

const (
	QueueStockAlerts = "jobs:stock-alerts"
)

// Job is the generic envelope for all async tasks.
type Job struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// StockAlert is raised when a stock mutation drives an item to low_stock or
// out_of_stock. Dashboards read the recent feed; workers log every alert.
type StockAlert struct {
	ItemID       string `json:"item_id"`
	SKU          string `json:"sku"`
	Name         string `json:"name"`
	Status       string `json:"status"`
	CurrentStock int    `json:"current_stock"`
	Threshold    int    `json:"threshold"`
	RaisedAt     string `json:"raised_at"` // ISO 8601
}

// Dispatcher enqueues async jobs onto Redis lists.
// The worker pool dequeues them via BRPOP.
type Dispatcher struct {
	rdb *redis.Client
}

func NewDispatcher(rdb *redis.Client) *Dispatcher {
	return &Dispatcher{rdb: rdb}
}

// EnqueueStockAlert pushes a low/out-of-stock alert job. Best effort: callers
// treat a failed enqueue as non-fatal, the stock mutation already committed.
func (d *Dispatcher) EnqueueStockAlert(ctx context.Context, alert StockAlert) error {
	return d.enqueue(ctx, QueueStockAlerts, "stock-alert", alert)
}

func (d *Dispatcher) enqueue(ctx context.Context, queue, jobType string, payload interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	job := Job{Type: jobType, Payload: data}
	encoded, err := json.Marshal(job)
	if err != nil {
		return err
	}
	return d.rdb.LPush(ctx, queue, encoded).Err()
}
