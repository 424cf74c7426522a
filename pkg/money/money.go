package money

import (
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Currency sufijo impreso en ofertas.
const Currency = "lei"

var printer = message.NewPrinter(language.Romanian)

// Format imprime d con separadores rumanos (1.234,50) y el sufijo de moneda.
func Format(d decimal.Decimal) string {
	return Amount(d) + " " + Currency
}

// Amount imprime d con dos decimales y separadores rumanos, sin moneda.
func Amount(d decimal.Decimal) string {
	return printer.Sprintf("%.2f", d.Round(2).InexactFloat64())
}

// Percent imprime un porcentaje sin ceros sobrantes: 15 → "15%", 12.5 → "12,5%".
func Percent(d decimal.Decimal) string {
	if d.Equal(d.Truncate(0)) {
		return printer.Sprintf("%d%%", d.IntPart())
	}
	return printer.Sprintf("%.1f%%", d.Round(1).InexactFloat64())
}
