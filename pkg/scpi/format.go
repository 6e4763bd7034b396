// File: format.go
// Title: Engineering Notation
// Description: Formats measurement values with SI magnitude prefixes for
//              human-readable responses, e.g. 0.00123 V as "1.23 mV".
// Version: v0.1.0
// Created: 2025-08-26
//
// Change History:
// - 2025-08-26 v0.1.0: Initial formatter

package scpi

import (
	"fmt"
	"math"
	"strings"
)

// siPrefixes maps exponent/3 offsets to SI magnitude letters, centered on
// the empty prefix at index 8 (exponent 0)
var siPrefixes = []string{"y", "z", "a", "f", "p", "n", "u", "m", "", "k", "M", "G", "T", "P", "E", "Z", "Y"}

// Eng renders a value in engineering notation: the mantissa scaled into
// [1, 1000) with the matching SI prefix attached to the unit. digits is the
// number of significant digits; values outside the prefix range fall back
// to plain scientific notation.
func Eng(value float64, digits int, unit string) string {
	if digits < 1 {
		digits = 3
	}
	if value == 0 || math.IsNaN(value) || math.IsInf(value, 0) {
		return strings.TrimSpace(fmt.Sprintf("%.*g %s", digits, value, unit))
	}

	exp := int(math.Floor(math.Log10(math.Abs(value)) / 3))
	ix := exp + 8
	if ix < 0 || ix >= len(siPrefixes) {
		return strings.TrimSpace(fmt.Sprintf("%.*e %s", digits-1, value, unit))
	}

	scaled := value / math.Pow(10, float64(exp*3))
	return strings.TrimSpace(fmt.Sprintf("%.*g %s%s", digits, scaled, siPrefixes[ix], unit))
}
