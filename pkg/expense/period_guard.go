package expense

import (
	"time"

	"github.com/pesatrack/pesatrack/internal/utils"
	"github.com/pesatrack/pesatrack/pkg/budget"
)

// PeriodGuard decides whether an expense dated on a given day should affect
// the running remaining budget. Backfilled historical entries outside the
// window are stored but leave the remaining budget untouched.
type PeriodGuard interface {
	InCurrentPeriod(date, today time.Time, b *budget.Budget) bool
}

// CalendarMonthGuard treats the first day of the current calendar month
// through today as the current period. This window is intentionally distinct
// from the budget's own start..end range; see DESIGN.md.
type CalendarMonthGuard struct{}

func (CalendarMonthGuard) InCurrentPeriod(date, today time.Time, _ *budget.Budget) bool {
	d := utils.DateOf(date)
	t := utils.DateOf(today)
	return !d.Before(utils.FirstOfMonth(t)) && !d.After(t)
}

// BudgetPeriodGuard uses the budget's own period, capped at today.
type BudgetPeriodGuard struct{}

func (BudgetPeriodGuard) InCurrentPeriod(date, today time.Time, b *budget.Budget) bool {
	if b == nil {
		return false
	}
	d := utils.DateOf(date)
	return b.Contains(d) && !d.After(utils.DateOf(today))
}

// GuardFor returns the guard matching the configured name, defaulting to the
// calendar-month window.
func GuardFor(name string) PeriodGuard {
	if name == "budget-period" {
		return BudgetPeriodGuard{}
	}
	return CalendarMonthGuard{}
}
