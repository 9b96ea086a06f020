// Package billing holds the money arithmetic for orders and bills.
//
// All amounts are rounded half away from zero to two decimal places, which for
// the non-negative amounts handled here is round-half-up to the minor unit.
package billing

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/ray-remotestate/restro-pos/models"
)

const places = 2

var hundred = decimal.NewFromInt(100)

// DefaultTaxRates are the percentages offered when none are configured.
var DefaultTaxRates = []decimal.Decimal{
	decimal.NewFromInt(5),
	decimal.NewFromInt(12),
	decimal.NewFromInt(18),
}

var ErrUnsupportedRate = errors.New("unsupported tax rate")

func Round(d decimal.Decimal) decimal.Decimal {
	return d.Round(places)
}

// LineTotal is unit price times quantity.
func LineTotal(unitPrice decimal.Decimal, quantity int) decimal.Decimal {
	return Round(unitPrice.Mul(decimal.NewFromInt(int64(quantity))))
}

// Breakdown is the result of applying a tax rate to a subtotal.
type Breakdown struct {
	Subtotal  decimal.Decimal
	TaxRate   decimal.Decimal
	TaxAmount decimal.Decimal
	Total     decimal.Decimal
}

// Compute returns subtotal, subtotal*rate/100 and their sum.
func Compute(subtotal, rate decimal.Decimal) Breakdown {
	subtotal = Round(subtotal)
	tax := Round(subtotal.Mul(rate).Div(hundred))
	return Breakdown{
		Subtotal:  subtotal,
		TaxRate:   rate,
		TaxAmount: tax,
		Total:     subtotal.Add(tax),
	}
}

// Calculator validates rates against a fixed set before computing.
type Calculator struct {
	rates []decimal.Decimal
}

func NewCalculator(rates []decimal.Decimal) *Calculator {
	if len(rates) == 0 {
		rates = DefaultTaxRates
	}
	return &Calculator{rates: rates}
}

func (c *Calculator) Rates() []decimal.Decimal {
	out := make([]decimal.Decimal, len(c.rates))
	copy(out, c.rates)
	return out
}

func (c *Calculator) Supports(rate decimal.Decimal) bool {
	for _, r := range c.rates {
		if r.Equal(rate) {
			return true
		}
	}
	return false
}

// ForOrder computes the bill amounts for a completed order.
func (c *Calculator) ForOrder(order *models.Order, rate decimal.Decimal) (Breakdown, error) {
	if !c.Supports(rate) {
		return Breakdown{}, fmt.Errorf("%w: %s%%", ErrUnsupportedRate, rate)
	}
	return Compute(order.TotalAmount, rate), nil
}
