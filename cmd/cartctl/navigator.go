package main

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/nikolayk812/floating-cart/internal/cart"
	"github.com/nikolayk812/floating-cart/internal/summary"
)

// consoleNavigator renders the destination screens to a terminal.
type consoleNavigator struct {
	store *cart.Store
	out   io.Writer
}

func newConsoleNavigator(store *cart.Store, out io.Writer) *consoleNavigator {
	return &consoleNavigator{store: store, out: out}
}

func (n *consoleNavigator) Navigate(ctx context.Context, route string) error {
	switch route {
	case summary.CartRoute:
		return printItems(n.out, n.store)
	default:
		return fmt.Errorf("route[%s] is unknown", route)
	}
}

func printItems(out io.Writer, store *cart.Store) error {
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)

	fmt.Fprintln(w, "ID\tTITLE\tPRICE\tQTY\tSUBTOTAL")
	for _, item := range store.Snapshot().Items {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\n",
			item.ID, item.Title, item.Price.StringFixed(2), item.Quantity, item.Subtotal().StringFixed(2))
	}

	return w.Flush()
}
