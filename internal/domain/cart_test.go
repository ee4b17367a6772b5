package domain_test

import (
	"testing"

	"github.com/nikolayk812/floating-cart/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestCartTotals(t *testing.T) {
	tests := []struct {
		name          string
		items         []domain.LineItem
		wantQuantity  int
		wantTotalText string
	}{
		{
			name:          "empty cart: zero",
			wantQuantity:  0,
			wantTotalText: "0",
		},
		{
			name: "two lines: summed",
			items: []domain.LineItem{
				{Product: domain.Product{ID: "a", Price: decimal.NewFromInt(10)}, Quantity: 2},
				{Product: domain.Product{ID: "b", Price: decimal.NewFromInt(5)}, Quantity: 3},
			},
			wantQuantity:  5,
			wantTotalText: "35",
		},
		{
			name: "fractional prices: exact",
			items: []domain.LineItem{
				{Product: domain.Product{ID: "a", Price: decimal.RequireFromString("0.1")}, Quantity: 3},
				{Product: domain.Product{ID: "b", Price: decimal.RequireFromString("0.2")}, Quantity: 1},
			},
			wantQuantity:  4,
			wantTotalText: "0.5",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cart := domain.Cart{Items: tt.items}

			assert.Equal(t, tt.wantQuantity, cart.TotalQuantity())
			assert.Equal(t, tt.wantTotalText, cart.TotalPrice().String())
		})
	}
}

func TestCartFind(t *testing.T) {
	cart := domain.Cart{Items: []domain.LineItem{
		{Product: domain.Product{ID: "a", Title: "Mug"}, Quantity: 1},
	}}

	item, ok := cart.Find("a")
	assert.True(t, ok)
	assert.Equal(t, "Mug", item.Title)

	_, ok = cart.Find("missing")
	assert.False(t, ok)
}

func TestCartCloneDoesNotShareItems(t *testing.T) {
	cart := domain.Cart{Items: []domain.LineItem{
		{Product: domain.Product{ID: "a"}, Quantity: 1},
	}, Version: 3}

	clone := cart.Clone()
	clone.Items[0].Quantity = 9

	assert.Equal(t, 1, cart.Items[0].Quantity)
	assert.Equal(t, uint64(3), clone.Version)
}
