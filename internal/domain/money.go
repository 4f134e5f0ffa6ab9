package domain

import (
	"strings"

	"github.com/shopspring/decimal"
)

func init() {
	// Monetary fields travel as plain JSON numbers.
	decimal.MarshalJSONWithoutQuotes = true
}

// MaxAmount is the largest magnitude a money column (DECIMAL(12,2)) stores.
var MaxAmount = decimal.New(999999999999, -2)

// AmountFits reports whether d can be stored in a money column.
func AmountFits(d decimal.Decimal) bool {
	return d.Abs().LessThanOrEqual(MaxAmount)
}

// NonNegative clamps negative amounts to zero.
func NonNegative(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}
	return d
}

// NullableText trims s and returns nil when nothing is left.
func NullableText(s string) *string {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
