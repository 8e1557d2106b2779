package api

import (
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
)

// flexAmount absorbs the three balance shapes the backend has been observed
// to emit for the same field: a JSON number, a numeric string, and a
// {"value": ...} wrapper. Whatever arrives, downstream code only ever sees
// decimal.Decimal.
type flexAmount struct {
	decimal.Decimal
}

func (a *flexAmount) UnmarshalJSON(data []byte) error {
	if len(data) == 0 || string(data) == "null" {
		a.Decimal = decimal.Zero
		return nil
	}

	switch data[0] {
	case '{':
		var wrapped struct {
			Value json.Number `json:"value"`
		}
		if err := json.Unmarshal(data, &wrapped); err != nil {
			return fmt.Errorf("flexAmount: %w", err)
		}
		d, err := decimal.NewFromString(wrapped.Value.String())
		if err != nil {
			return fmt.Errorf("flexAmount: %w", err)
		}
		a.Decimal = d
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("flexAmount: %w", err)
		}
		d, err := decimal.NewFromString(s)
		if err != nil {
			return fmt.Errorf("flexAmount: %w", err)
		}
		a.Decimal = d
	default:
		d, err := decimal.NewFromString(string(data))
		if err != nil {
			return fmt.Errorf("flexAmount: %w", err)
		}
		a.Decimal = d
	}
	return nil
}
