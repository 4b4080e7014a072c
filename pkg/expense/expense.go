package expense

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type Expense struct {
	ID          int64
	Description string
	// Amount is positive by convention; it is not hard-enforced so imported
	// records are never dropped over a sign mismatch.
	Amount   decimal.Decimal
	Category string
	Date     time.Time
}

// SuggestCategory maps a transaction description and recipient to one of the
// predefined categories using keyword rules.
func SuggestCategory(description, recipient string) string {
	contains := func(s string, words ...string) bool {
		lower := strings.ToLower(s)
		for _, w := range words {
			if strings.Contains(lower, w) {
				return true
			}
		}
		return false
	}

	switch {
	case contains(description, "food", "restaurant") || contains(recipient, "restaurant", "cafe"):
		return "Food"
	case contains(description, "transport", "taxi", "uber", "fare"):
		return "Transport"
	case contains(description, "bill", "utility", "water", "electricity"):
		return "Utilities"
	case contains(description, "shopping", "store", "market"):
		return "Shopping"
	default:
		return "Other"
	}
}
