package cart

import (
	"encoding/json"
	"fmt"

	"github.com/nikolayk812/floating-cart/internal/domain"
	"github.com/shopspring/decimal"
)

// storedItem is the persisted shape of a line item, shared with the mobile client.
type storedItem struct {
	ID       string      `json:"id"`
	Title    string      `json:"title"`
	ImageURL string      `json:"image_url"`
	Price    json.Number `json:"price"`
	Quantity int         `json:"quantity"`
}

func encodeItems(items []domain.LineItem) ([]byte, error) {
	stored := make([]storedItem, 0, len(items))
	for _, item := range items {
		stored = append(stored, storedItem{
			ID:       item.ID,
			Title:    item.Title,
			ImageURL: item.ImageURL,
			Price:    json.Number(item.Price.String()),
			Quantity: item.Quantity,
		})
	}

	data, err := json.Marshal(stored)
	if err != nil {
		return nil, fmt.Errorf("json.Marshal: %w", err)
	}

	return data, nil
}

func decodeItems(data []byte) ([]domain.LineItem, error) {
	var stored []storedItem
	if err := json.Unmarshal(data, &stored); err != nil {
		return nil, fmt.Errorf("json.Unmarshal: %w", err)
	}

	items := make([]domain.LineItem, 0, len(stored))
	seen := make(map[string]struct{}, len(stored))

	for i, s := range stored {
		item, err := mapStoredItemToDomain(s)
		if err != nil {
			return nil, fmt.Errorf("item[%d]: %w", i, err)
		}

		if _, ok := seen[item.ID]; ok {
			return nil, fmt.Errorf("item[%d]: id[%s] is duplicated", i, item.ID)
		}
		seen[item.ID] = struct{}{}

		items = append(items, item)
	}

	return items, nil
}

func mapStoredItemToDomain(s storedItem) (domain.LineItem, error) {
	if s.ID == "" {
		return domain.LineItem{}, fmt.Errorf("id is empty")
	}

	price, err := decimal.NewFromString(s.Price.String())
	if err != nil {
		return domain.LineItem{}, fmt.Errorf("price[%s] is not valid: %w", s.Price, err)
	}
	if price.IsNegative() {
		return domain.LineItem{}, fmt.Errorf("price[%s] is negative", s.Price)
	}

	if s.Quantity < 1 {
		return domain.LineItem{}, fmt.Errorf("quantity[%d] is less than 1", s.Quantity)
	}

	return domain.LineItem{
		Product: domain.Product{
			ID:       s.ID,
			Title:    s.Title,
			ImageURL: s.ImageURL,
			Price:    price,
		},
		Quantity: s.Quantity,
	}, nil
}
