package domain

import (
	"github.com/shopspring/decimal"
)

// Product is a cart line without quantity, as offered by the catalog.
type Product struct {
	ID       string
	Title    string
	ImageURL string
	Price    decimal.Decimal
}

// LineItem is a product in the cart. Quantity is always >= 1.
type LineItem struct {
	Product
	Quantity int
}

// Subtotal returns Price * Quantity.
func (li LineItem) Subtotal() decimal.Decimal {
	return li.Price.Mul(decimal.NewFromInt(int64(li.Quantity)))
}

// Cart is an immutable snapshot of the cart state.
// Version grows by one with every applied mutation.
type Cart struct {
	Items   []LineItem
	Version uint64
}

func (c Cart) Find(id string) (LineItem, bool) {
	for _, item := range c.Items {
		if item.ID == id {
			return item, true
		}
	}

	return LineItem{}, false
}

func (c Cart) TotalQuantity() int {
	var total int
	for _, item := range c.Items {
		total += item.Quantity
	}

	return total
}

func (c Cart) TotalPrice() decimal.Decimal {
	total := decimal.Zero
	for _, item := range c.Items {
		total = total.Add(item.Subtotal())
	}

	return total
}

// Clone returns a copy that does not share the items slice.
func (c Cart) Clone() Cart {
	items := make([]LineItem, len(c.Items))
	copy(items, c.Items)

	return Cart{Items: items, Version: c.Version}
}
