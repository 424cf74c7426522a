package money_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/Ofertare-api/pkg/money"
)

func TestFormat(t *testing.T) {
	assert.Equal(t, "1.234,50 lei", money.Format(decimal.RequireFromString("1234.5")))
	assert.Equal(t, "0,00 lei", money.Format(decimal.Zero))
	assert.Equal(t, "12,35", money.Amount(decimal.RequireFromString("12.345")))
}

func TestPercent(t *testing.T) {
	assert.Equal(t, "15%", money.Percent(decimal.NewFromInt(15)))
	assert.Equal(t, "12,5%", money.Percent(decimal.RequireFromString("12.5")))
}
