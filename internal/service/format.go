package service

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.English)

// formatMoney renders amount with thousands separators and two decimals.
func formatMoney(symbol string, amount float64) string {
	return symbol + printer.Sprintf("%.2f", amount)
}

// formatQuantity renders a quantity without trailing zeros.
func formatQuantity(q float64) string {
	if q == float64(int64(q)) {
		return printer.Sprintf("%d", int64(q))
	}
	return printer.Sprintf("%.2f", q)
}
