package domain

import (
	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
)

type Money struct {
	Amount   decimal.Decimal
	Currency currency.Unit
}

// Float returns the amount as float64 for formatters that do not accept decimals.
func (m Money) Float() float64 {
	f, _ := m.Amount.Float64()
	return f
}
