// Package summary derives the floating cart widget from the cart state: the
// number of items, the formatted total and the tap that opens the cart.
package summary

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/nikolayk812/floating-cart/internal/domain"
	"github.com/nikolayk812/floating-cart/internal/port"
	"golang.org/x/text/currency"
)

// CartRoute is the destination opened by Tap.
const CartRoute = "Cart"

// ErrNoStore means the view was built without a cart to read from.
var ErrNoStore = errors.New("summary: cart store is required")

// Source is the cart state the view follows.
type Source interface {
	Snapshot() domain.Cart
	Subscribe(fn func(domain.Cart)) (unsubscribe func())
}

type Summary struct {
	Version   uint64
	ItemCount int
	Total     domain.Money
	TotalText string
}

type Option func(*View)

// WithCurrency sets the currency of the total. Defaults to BRL.
func WithCurrency(unit currency.Unit) Option {
	return func(v *View) {
		v.currency = unit
	}
}

type View struct {
	formatter port.CurrencyFormatter
	navigator port.Navigator
	currency  currency.Unit

	mu        sync.Mutex
	memo      Summary
	computed  bool
	listeners []func(Summary)

	unsubscribe func()
	closeOnce   sync.Once
}

// New subscribes a view to source. A nil source returns ErrNoStore.
func New(source Source, formatter port.CurrencyFormatter, navigator port.Navigator, opts ...Option) (*View, error) {
	if source == nil {
		return nil, ErrNoStore
	}
	if formatter == nil {
		return nil, fmt.Errorf("formatter is nil")
	}
	if navigator == nil {
		return nil, fmt.Errorf("navigator is nil")
	}

	v := &View{
		formatter: formatter,
		navigator: navigator,
		currency:  currency.BRL,
	}

	for _, opt := range opts {
		opt(v)
	}

	// subscribe before the first snapshot so no change falls in between
	v.unsubscribe = source.Subscribe(v.update)
	v.update(source.Snapshot())

	return v, nil
}

// MustNew is like New but panics on wiring errors.
func MustNew(source Source, formatter port.CurrencyFormatter, navigator port.Navigator, opts ...Option) *View {
	v, err := New(source, formatter, navigator, opts...)
	if err != nil {
		panic(err)
	}

	return v
}

// update recomputes the aggregates when cart is newer than the memoized one.
func (v *View) update(cart domain.Cart) {
	v.mu.Lock()
	if v.computed && cart.Version <= v.memo.Version {
		v.mu.Unlock()
		return
	}

	total := domain.Money{Amount: cart.TotalPrice(), Currency: v.currency}

	v.memo = Summary{
		Version:   cart.Version,
		ItemCount: cart.TotalQuantity(),
		Total:     total,
		TotalText: v.formatter.Format(total),
	}
	v.computed = true

	s := v.memo
	listeners := append([]func(Summary){}, v.listeners...)
	v.mu.Unlock()

	for _, fn := range listeners {
		fn(s)
	}
}

// Summary returns the memoized aggregates of the latest cart.
func (v *View) Summary() Summary {
	v.mu.Lock()
	defer v.mu.Unlock()

	return v.memo
}

// TotalPrice returns the formatted total. An empty cart formats zero.
func (v *View) TotalPrice() string {
	return v.Summary().TotalText
}

func (v *View) TotalItemCount() int {
	return v.Summary().ItemCount
}

// ItemsLabel is the text of the cart button.
func (v *View) ItemsLabel() string {
	return fmt.Sprintf("%d itens", v.TotalItemCount())
}

// OnChange registers fn to be called with the new summary after every
// recomputation. fn runs inside the cart's change notification and must not
// mutate the cart.
func (v *View) OnChange(fn func(Summary)) {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.listeners = append(v.listeners, fn)
}

// Tap opens the cart screen.
func (v *View) Tap(ctx context.Context) error {
	if err := v.navigator.Navigate(ctx, CartRoute); err != nil {
		return fmt.Errorf("navigator.Navigate: %w", err)
	}

	return nil
}

// Close stops following the cart.
func (v *View) Close() {
	v.closeOnce.Do(v.unsubscribe)
}
