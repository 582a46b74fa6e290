package utils

import (
	"fmt"
	"math"
)

// FormatCents renders an amount in minor currency units with the requested
// number of decimals. FormatCents(4999, 2) == "49.99".
func FormatCents(cents int64, decimals int) string {
	if decimals < 0 {
		decimals = 0
	}
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	whole := cents / 100
	frac := cents % 100
	if decimals == 0 {
		// Round half away from zero on the dropped fraction.
		rounded := int64(math.Round(float64(cents) / 100))
		return fmt.Sprintf("%s%d", sign, rounded)
	}
	fracStr := fmt.Sprintf("%02d", frac)
	if decimals < 2 {
		fracStr = fracStr[:decimals]
	} else if decimals > 2 {
		fracStr = fracStr + fmt.Sprintf("%0*d", decimals-2, 0)
	}
	return fmt.Sprintf("%s%d.%s", sign, whole, fracStr)
}

// FormatTenths renders a rating stored in tenths of a star.
// FormatTenths(47) == "4.7".
func FormatTenths(tenths int) string {
	sign := ""
	if tenths < 0 {
		sign = "-"
		tenths = -tenths
	}
	return fmt.Sprintf("%s%d.%d", sign, tenths/10, tenths%10)
}
