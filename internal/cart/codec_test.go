package cart

import (
	"testing"

	"github.com/nikolayk812/floating-cart/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeItemsWireFormat(t *testing.T) {
	items := []domain.LineItem{
		{
			Product: domain.Product{
				ID:       "a",
				Title:    "Mug",
				ImageURL: "https://example.com/a.png",
				Price:    decimal.RequireFromString("10.5"),
			},
			Quantity: 2,
		},
	}

	data, err := encodeItems(items)
	require.NoError(t, err)

	assert.JSONEq(t,
		`[{"id":"a","title":"Mug","image_url":"https://example.com/a.png","price":10.5,"quantity":2}]`,
		string(data))
}

func TestEncodeEmptyItems(t *testing.T) {
	data, err := encodeItems(nil)
	require.NoError(t, err)
	assert.Equal(t, "[]", string(data))
}

func TestDecodeItems(t *testing.T) {
	tests := []struct {
		name      string
		data      string
		wantLen   int
		wantError string
	}{
		{
			name:    "null: empty",
			data:    `null`,
			wantLen: 0,
		},
		{
			name:    "integer price: ok",
			data:    `[{"id":"a","title":"Mug","image_url":"","price":10,"quantity":1}]`,
			wantLen: 1,
		},
		{
			name:      "empty id: error",
			data:      `[{"id":"","title":"Mug","image_url":"","price":10,"quantity":1}]`,
			wantError: "item[0]: id is empty",
		},
		{
			name:      "negative price: error",
			data:      `[{"id":"a","title":"Mug","image_url":"","price":-1,"quantity":1}]`,
			wantError: "item[0]: price[-1] is negative",
		},
		{
			name:      "duplicated id: error",
			data:      `[{"id":"a","price":1,"quantity":1},{"id":"a","price":1,"quantity":1}]`,
			wantError: "item[1]: id[a] is duplicated",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			items, err := decodeItems([]byte(tt.data))
			if tt.wantError != "" {
				require.EqualError(t, err, tt.wantError)
				return
			}
			require.NoError(t, err)
			assert.Len(t, items, tt.wantLen)
		})
	}
}
