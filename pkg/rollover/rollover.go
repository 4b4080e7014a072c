package rollover

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Option selects what happens to the previous day's surplus or deficit when a
// day boundary is crossed.
type Option int

const (
	// OptionNone leaves the surplus or deficit alone.
	OptionNone Option = iota
	// OptionReallocate spreads it evenly over the remaining days of the
	// calendar month, starting today.
	OptionReallocate
	// OptionSave moves it straight into the remaining budget total.
	OptionSave
	// OptionAddToTomorrow applies the whole amount to tomorrow's adjustment.
	OptionAddToTomorrow
)

var optionNames = map[Option]string{
	OptionNone:          "NONE",
	OptionReallocate:    "REALLOCATE",
	OptionSave:          "SAVE",
	OptionAddToTomorrow: "ADD_TO_TOMORROW",
}

func (o Option) String() string {
	if name, ok := optionNames[o]; ok {
		return name
	}
	return "NONE"
}

func ParseOption(name string) (Option, error) {
	for option, n := range optionNames {
		if n == name {
			return option, nil
		}
	}
	return OptionNone, fmt.Errorf("unknown rollover option %q", name)
}

// Settings is the persisted rollover configuration.
type Settings struct {
	AutomaticEnabled bool
	Option           Option
}

// Result describes the most recent rollover application. It is kept in memory
// only, for UI feedback.
type Result struct {
	// Amount is the previous day's difference: positive for unspent surplus,
	// negative for overspend.
	Amount decimal.Decimal
	// Date is the day the difference was computed for.
	Date   time.Time
	Option Option
}
