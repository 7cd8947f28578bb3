package util

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

var brPrinter = message.NewPrinter(language.BrazilianPortuguese)

// FormatPriceBRL renders a price in centavos as Brazilian currency,
// e.g. 1250 becomes "R$ 12,50".
func FormatPriceBRL(cents int64) string {
	return brPrinter.Sprintf("R$ %v", number.Decimal(float64(cents)/100,
		number.MinFractionDigits(2), number.MaxFractionDigits(2)))
}

// FormatPriceRangeBRL renders a min/max price pair. Equal bounds collapse
// to a single price, otherwise the range reads "R$ 10,00 – R$ 15,00".
func FormatPriceRangeBRL(minCents, maxCents int64) string {
	if minCents == maxCents {
		return FormatPriceBRL(minCents)
	}
	return FormatPriceBRL(minCents) + " – " + FormatPriceBRL(maxCents)
}
