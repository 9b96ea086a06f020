package billing

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ray-remotestate/restro-pos/models"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestCompute(t *testing.T) {
	tests := []struct {
		name               string
		subtotal, rate     string
		wantTax, wantTotal string
	}{
		{"five percent", "250", "5", "12.5", "262.5"},
		{"twelve percent", "250", "12", "30", "280"},
		{"eighteen percent", "99.99", "18", "18", "117.99"},
		{"half cent rounds up", "0.10", "5", "0.01", "0.11"},
		{"zero", "0", "18", "0", "0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := Compute(dec(tt.subtotal), dec(tt.rate))
			assert.True(t, dec(tt.wantTax).Equal(b.TaxAmount), "tax = %s", b.TaxAmount)
			assert.True(t, dec(tt.wantTotal).Equal(b.Total), "total = %s", b.Total)
			assert.True(t, b.Subtotal.Add(b.TaxAmount).Equal(b.Total))
		})
	}
}

func TestLineTotal(t *testing.T) {
	assert.True(t, dec("200").Equal(LineTotal(dec("100"), 2)))
	assert.True(t, dec("10.5").Equal(LineTotal(dec("3.5"), 3)))
}

func TestCalculatorForOrder(t *testing.T) {
	c := NewCalculator(nil)
	order := &models.Order{TotalAmount: dec("250")}

	b, err := c.ForOrder(order, dec("5"))
	require.NoError(t, err)
	assert.True(t, dec("262.5").Equal(b.Total))

	_, err = c.ForOrder(order, dec("7"))
	assert.ErrorIs(t, err, ErrUnsupportedRate)

	assert.Len(t, c.Rates(), 3)
}
