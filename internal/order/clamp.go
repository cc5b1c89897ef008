package order

import (
	"strconv"
	"strings"
)

// Clamp derives a valid order quantity from available stock. Returns 0 when
// nothing is in stock (no valid quantity exists); otherwise clips requested
// into [1, stock].
func Clamp(stock, requested int) int {
	if stock <= 0 {
		return 0
	}
	if requested < 1 {
		return 1
	}
	if requested > stock {
		return stock
	}
	return requested
}

// ParseQuantity reads a quantity from raw form input. Non-numeric or
// missing input counts as 1; the caller still clamps against stock.
func ParseQuantity(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 1
	}
	return n
}
