package params

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// DisplayAmount converts a raw base-denom integer amount (as returned by
// the REST API, e.g. a validator's bonded tokens) into display units by
// shifting the decimal point left by the chain's decimals.
func DisplayAmount(raw string, decimals int) (decimal.Decimal, error) {
	if decimals < 0 {
		return decimal.Zero, fmt.Errorf("negative decimals: %d", decimals)
	}
	amount, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to parse amount %q: %w", raw, err)
	}
	return amount.Shift(int32(-decimals)), nil
}
