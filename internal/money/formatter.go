// Package money renders amounts for display.
package money

import (
	"github.com/nikolayk812/floating-cart/internal/domain"
	"github.com/nikolayk812/floating-cart/internal/port"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

type formatter struct {
	tag language.Tag
}

// NewFormatter returns a CurrencyFormatter printing the currency symbol and
// the amount with the number conventions of tag.
func NewFormatter(tag language.Tag) port.CurrencyFormatter {
	return &formatter{tag: tag}
}

func (f *formatter) Format(m domain.Money) string {
	// message.Printer is not safe for concurrent use
	p := message.NewPrinter(f.tag)

	return p.Sprint(currency.Symbol(m.Currency.Amount(m.Float())))
}
