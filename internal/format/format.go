// Package format holds the es-CO display helpers: amounts are whole pesos
// rendered with dot thousands separators and no decimals (2000 -> "2.000").
package format

import (
	"math"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.MustParse("es-CO"))

// Pesos formats a COP amount without the currency sign: 4000 -> "4.000".
func Pesos(v float64) string {
	return printer.Sprintf("%d", int64(math.Round(v)))
}

// Price formats a COP amount with the sign: 4000 -> "$4.000".
func Price(v float64) string {
	return "$" + Pesos(v)
}
