package event_bus

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	ExpenseCreated     EventType = "expense.created"
	ExpenseUpdated     EventType = "expense.updated"
	ExpenseDeleted     EventType = "expense.deleted"
	AdjustmentUpserted EventType = "adjustment.upserted"
	BudgetUpdated      EventType = "budget.updated"
	RolloverApplied    EventType = "rollover.applied"
)

// ExpenseChanged is published on every expense create, update, or delete.
type ExpenseChanged struct {
	ID     int64
	Amount decimal.Decimal
	Date   time.Time
}

// AdjustmentChanged is published when a daily adjustment is upserted.
type AdjustmentChanged struct {
	Date       time.Time
	Adjustment decimal.Decimal
}

// BudgetChanged is published when the budget record is replaced or reset.
type BudgetChanged struct {
	RemainingBudget decimal.Decimal
}

// RolloverProcessed is published after the rollover engine applies a policy to
// a finished day. Amount is positive for a surplus, negative for a deficit.
type RolloverProcessed struct {
	Date   time.Time
	Amount decimal.Decimal
	Option string
}
