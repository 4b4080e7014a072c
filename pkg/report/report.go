package report

import (
	"time"

	"github.com/shopspring/decimal"
)

type DayTotal struct {
	Date  time.Time
	Total decimal.Decimal
}

type CategoryTotal struct {
	Category   string
	Total      decimal.Decimal
	Percentage decimal.Decimal
}

type WeekAverage struct {
	// WeekStart is the Monday of the week.
	WeekStart time.Time
	Average   decimal.Decimal
}

// Summary aggregates spending over a date range. DailyTotals covers every day
// of the range, zero-filled, so averages and the trend are computed over the
// whole range rather than only days with activity.
type Summary struct {
	From         time.Time
	To           time.Time
	TotalSpent   decimal.Decimal
	DailyAverage decimal.Decimal
	DailyTotals  []DayTotal
	Categories   []CategoryTotal
	// MaxDay and MinDay are the highest and lowest spending days among days
	// with any spending; nil when nothing was spent in the range.
	MaxDay *DayTotal
	MinDay *DayTotal
	// TrendSlope is the least-squares slope of the daily totals: positive
	// means spending is increasing over the range.
	TrendSlope     float64
	WeeklyAverages []WeekAverage
}
