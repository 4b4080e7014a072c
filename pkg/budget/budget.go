package budget

import (
	"time"

	"github.com/pesatrack/pesatrack/internal/utils"
	"github.com/shopspring/decimal"
)

// Budget is the single active budget envelope. There is at most one budget at
// a time; re-running setup replaces it.
type Budget struct {
	TotalBudget decimal.Decimal
	// StartDate and EndDate bound the budget period, both inclusive.
	StartDate time.Time
	EndDate   time.Time
	// AllocationPerDay is the baseline spendable amount for each day of the
	// period: (TotalBudget - Savings) / DaysInPeriod.
	AllocationPerDay decimal.Decimal
	// RemainingBudget is the running total of spendable budget minus all
	// recorded expenses and adjustments. It may go negative under overspend.
	RemainingBudget decimal.Decimal
	Savings         decimal.Decimal
}

// SpendableBudget is the part of the total not reserved as savings.
func (b Budget) SpendableBudget() decimal.Decimal {
	return b.TotalBudget.Sub(b.Savings)
}

// DaysInPeriod returns the number of days in the budget period, inclusive of
// both endpoints.
func (b Budget) DaysInPeriod() int {
	return utils.DaysBetween(b.StartDate, b.EndDate) + 1
}

// Contains reports whether the given date falls within the budget period.
func (b Budget) Contains(date time.Time) bool {
	d := utils.DateOf(date)
	return !d.Before(utils.DateOf(b.StartDate)) && !d.After(utils.DateOf(b.EndDate))
}
