// README: Common money value object used across modules.
package types

import (
	"fmt"
	"math"
)

const CurrencyUSD = "USD"

// Money is an amount in minor units (cents).
type Money struct {
	Amount   int64
	Currency string
}

// MoneyFromFloat rounds a major-unit value to the nearest cent.
func MoneyFromFloat(v float64, currency string) Money {
	return Money{Amount: int64(math.Round(v * 100)), Currency: currency}
}

func (m Money) Float() float64 {
	return float64(m.Amount) / 100
}

// String renders the amount with two decimals, e.g. "US$ 12.34".
func (m Money) String() string {
	return FormatAmount(m.Float(), m.Currency)
}

// FormatAmount renders a major-unit value with two decimals, rounding once.
func FormatAmount(v float64, currency string) string {
	switch currency {
	case CurrencyUSD, "":
		return fmt.Sprintf("US$ %.2f", v)
	default:
		return fmt.Sprintf("%s %.2f", currency, v)
	}
}
