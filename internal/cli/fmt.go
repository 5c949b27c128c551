package cli

import (
	"math"

	"github.com/Rhymond/go-money"
)

// formatAmount renders a float amount in the configured display currency.
// Display-only: stored values stay raw floats.
func formatAmount(amount float64, currency string) string {
	return money.New(int64(math.Round(amount*100)), currency).Display()
}
