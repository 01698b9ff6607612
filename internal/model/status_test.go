package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDeriveStatus(t *testing.T) {
	cases := []struct {
		name      string
		stock     int
		threshold int
		previous  string
		want      string
	}{
		{"above threshold", 100, 10, "", StatusInStock},
		{"exactly threshold is low", 10, 10, "", StatusLowStock},
		{"below threshold", 3, 10, "", StatusLowStock},
		{"zero is out", 0, 10, "", StatusOutOfStock},
		{"negative is out", -2, 10, "", StatusOutOfStock},
		{"discontinued is sticky on restock", 500, 10, StatusDiscontinued, StatusDiscontinued},
		{"discontinued is sticky at zero", 0, 10, StatusDiscontinued, StatusDiscontinued},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, DeriveStatus(tc.stock, tc.threshold, tc.previous))
		})
	}
}

func TestDeriveStatusIdempotent(t *testing.T) {
	// Re-deriving from an already-derived state never changes the answer.
	for _, stock := range []int{0, 5, 10, 11, 200} {
		first := DeriveStatus(stock, 10, "")
		assert.Equal(t, first, DeriveStatus(stock, 10, first))
	}
}

func TestLowStockThresholdPrecedence(t *testing.T) {
	item := &InventoryItem{ReorderPoint: 75, MinimumStock: 50}
	assert.Equal(t, 75, item.LowStockThreshold(10))

	item = &InventoryItem{MinimumStock: 50}
	assert.Equal(t, 50, item.LowStockThreshold(10))

	item = &InventoryItem{}
	assert.Equal(t, 10, item.LowStockThreshold(10))
}
