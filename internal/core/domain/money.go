package domain

import (
	"math"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var brl = message.NewPrinter(language.BrazilianPortuguese)

// FormatCurrency renders v as Brazilian reais, e.g. "R$ 1.234,50".
func FormatCurrency(v float64) string {
	cents := math.Round(v*100) / 100
	sign := ""
	if cents < 0 {
		sign = "-"
	}
	return sign + "R$ " + brl.Sprintf("%.2f", math.Abs(cents))
}
