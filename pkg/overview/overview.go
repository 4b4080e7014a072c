package overview

import (
	"time"

	"github.com/pesatrack/pesatrack/internal/utils"
	"github.com/pesatrack/pesatrack/pkg/budget"
	"github.com/shopspring/decimal"
)

// DailyState is the projection of the budget onto a single day: how much may
// still be spent today given the remaining budget, today's adjustment, and
// what was already spent.
type DailyState struct {
	Date            time.Time
	TotalSpentToday decimal.Decimal
	TodayAdjustment decimal.Decimal
	// RemainingForToday is clamped at zero; overspending never shows a
	// negative allowance.
	RemainingForToday decimal.Decimal
	// DaysLeft counts whole days between today and the period end, exclusive
	// of today.
	DaysLeft        int
	DailyBudgetRate decimal.Decimal
	// HasUnderflow is set when money is left over today and the period is not
	// over. It is transient UI state, cleared by acknowledgement and rederived
	// on every calculation.
	HasUnderflow    bool
	UnderflowAmount decimal.Decimal
}

// Calculate computes the daily state for today. It is a pure function; the
// acknowledged flag suppresses the underflow signal after the user has dealt
// with it for the day.
func Calculate(b budget.Budget, spentToday, todayAdjustment decimal.Decimal, today time.Time, acknowledged bool) DailyState {
	today = utils.DateOf(today)
	state := DailyState{
		Date:            today,
		TotalSpentToday: spentToday,
		TodayAdjustment: todayAdjustment,
	}

	daysLeft := utils.DaysBetween(today, b.EndDate)
	if daysLeft < 0 {
		daysLeft = 0
	}
	state.DaysLeft = daysLeft
	if daysLeft > 0 {
		state.DailyBudgetRate = b.RemainingBudget.Div(decimal.NewFromInt(int64(daysLeft)))
	}

	if !b.Contains(today) {
		state.RemainingForToday = decimal.Zero
		return state
	}

	daysUntilEnd := utils.DaysBetween(today, b.EndDate) + 1
	dailyRate := b.AllocationPerDay
	if daysUntilEnd > 0 {
		dailyRate = b.RemainingBudget.Div(decimal.NewFromInt(int64(daysUntilEnd)))
	}

	remaining := dailyRate.Add(todayAdjustment).Sub(spentToday)
	if remaining.IsNegative() {
		remaining = decimal.Zero
	}
	state.RemainingForToday = remaining

	if remaining.IsPositive() && utils.DateOf(b.EndDate).After(today) && !acknowledged {
		state.HasUnderflow = true
		state.UnderflowAmount = remaining
	}
	return state
}
