package adjustment

import (
	"time"

	"github.com/shopspring/decimal"
)

// DailyAdjustment shifts a single day's spendable amount up or down relative
// to the baseline daily allocation. There is at most one adjustment per date;
// writes for the same date replace the previous value.
type DailyAdjustment struct {
	Date       time.Time
	Adjustment decimal.Decimal
}
