package rollover

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/pesatrack/pesatrack/internal/event_bus"
	"github.com/pesatrack/pesatrack/internal/utils"
	"github.com/pesatrack/pesatrack/pkg/budget"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

const (
	keyAutomaticEnabled = "automatic_rollover_enabled"
	keyOption           = "rollover_option"
	keyLastCheckedDate  = "last_checked_date"
)

type ExpenseSource interface {
	SumOnDate(ctx context.Context, date time.Time) (decimal.Decimal, error)
}

type AdjustmentStore interface {
	GetForDate(ctx context.Context, date time.Time) (decimal.Decimal, error)
	AddToDates(ctx context.Context, dates []time.Time, delta decimal.Decimal) error
}

// Engine carries the previous day's unspent surplus or overspend into the rest
// of the budget according to the configured rollover option. A check runs at
// most once per calendar day; the day watermark is only advanced after a
// successful distribution, so a failed check is retried on the next trigger.
type Engine struct {
	settings    SettingsStore
	budgetRepo  budget.Repo
	expenses    ExpenseSource
	adjustments AdjustmentStore
	clock       utils.Clock
	bus         *event_bus.EventBus

	mu   sync.Mutex
	last *Result
}

func NewEngine(
	settings SettingsStore,
	budgetRepo budget.Repo,
	expenses ExpenseSource,
	adjustments AdjustmentStore,
	clock utils.Clock,
	bus *event_bus.EventBus,
) *Engine {
	engine := &Engine{
		settings:    settings,
		budgetRepo:  budgetRepo,
		expenses:    expenses,
		adjustments: adjustments,
		clock:       clock,
		bus:         bus,
	}
	event_bus.SubscribeTyped[event_bus.ExpenseChanged](bus, event_bus.ExpenseCreated,
		func(e event_bus.EventT[event_bus.ExpenseChanged]) error {
			return engine.checkIfAutomatic(e.Context())
		})
	return engine
}

// Settings reads the persisted rollover configuration, defaulting to disabled
// with option NONE.
func (e *Engine) Settings(ctx context.Context) (Settings, error) {
	enabled, err := e.settings.Get(ctx, keyAutomaticEnabled)
	if err != nil {
		return Settings{}, err
	}
	settings := Settings{AutomaticEnabled: enabled == "true"}

	ordinal, err := e.settings.Get(ctx, keyOption)
	if err != nil {
		return Settings{}, err
	}
	if ordinal != "" {
		value, err := strconv.Atoi(ordinal)
		if err != nil || value < int(OptionNone) || value > int(OptionAddToTomorrow) {
			log.Warnf("ignoring malformed rollover option %q", ordinal)
		} else {
			settings.Option = Option(value)
		}
	}
	return settings, nil
}

// UpdateSettings persists the configuration and, when automatic rollover is
// enabled, immediately runs a day-end check.
func (e *Engine) UpdateSettings(ctx context.Context, settings Settings) error {
	if err := e.settings.Set(ctx, keyAutomaticEnabled, strconv.FormatBool(settings.AutomaticEnabled)); err != nil {
		return err
	}
	if err := e.settings.Set(ctx, keyOption, strconv.Itoa(int(settings.Option))); err != nil {
		return err
	}
	if settings.AutomaticEnabled {
		if err := e.CheckForDayEnd(ctx); err != nil {
			log.Warnf("day-end check after settings update failed: %v", err)
		}
	}
	return nil
}

// LastRollover returns the most recent rollover application, or nil when none
// happened since the process started.
func (e *Engine) LastRollover() *Result {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.last == nil {
		return nil
	}
	copied := *e.last
	return &copied
}

// CheckForDayEnd processes the previous day's surplus or deficit if a day
// boundary has been crossed since the last check. Running it again on the same
// day is a no-op.
func (e *Engine) CheckForDayEnd(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	today := utils.DateOf(e.clock.Now())

	lastChecked, err := e.settings.Get(ctx, keyLastCheckedDate)
	if err != nil {
		return fmt.Errorf("could not read last checked date: %w", err)
	}
	if lastChecked == "" {
		// First run: nothing to roll over yet, just start the watermark.
		return e.recordChecked(ctx, today)
	}

	previousDate, err := utils.ParseDate(lastChecked)
	if err != nil {
		log.Warnf("resetting malformed last checked date %q", lastChecked)
		return e.recordChecked(ctx, today)
	}
	if utils.SameDay(previousDate, today) {
		return nil
	}

	if err := e.processPreviousDay(ctx, previousDate, today); err != nil {
		err := fmt.Errorf("rollover for %s failed: %w", previousDate.Format(utils.DateLayout), err)
		log.Error(err)
		return err
	}
	return e.recordChecked(ctx, today)
}

func (e *Engine) processPreviousDay(ctx context.Context, previousDate, today time.Time) error {
	b, err := e.budgetRepo.Get(ctx)
	if err != nil {
		return err
	}
	if b == nil {
		return nil
	}

	adjustment, err := e.adjustments.GetForDate(ctx, previousDate)
	if err != nil {
		return err
	}
	spent, err := e.expenses.SumOnDate(ctx, previousDate)
	if err != nil {
		return err
	}
	difference := b.AllocationPerDay.Add(adjustment).Sub(spent)
	if difference.IsZero() {
		return nil
	}

	settings, err := e.Settings(ctx)
	if err != nil {
		return err
	}

	option := settings.Option
	if err := e.distribute(ctx, option, difference, today); err != nil {
		return err
	}

	e.last = &Result{Amount: difference, Date: previousDate, Option: option}
	e.publish(ctx, *e.last)
	return nil
}

func (e *Engine) distribute(ctx context.Context, option Option, difference decimal.Decimal, today time.Time) error {
	switch option {
	case OptionReallocate:
		remainingDays := utils.RemainingDaysInMonth(today)
		if remainingDays <= 0 {
			// Month is ending; there is nowhere left to spread it.
			return e.budgetRepo.ApplyDelta(ctx, difference)
		}
		perDay := difference.Div(decimal.NewFromInt(int64(remainingDays)))
		dates := make([]time.Time, 0, remainingDays)
		for i := 0; i < remainingDays; i++ {
			dates = append(dates, today.AddDate(0, 0, i))
		}
		return e.adjustments.AddToDates(ctx, dates, perDay)
	case OptionSave:
		return e.budgetRepo.ApplyDelta(ctx, difference)
	case OptionAddToTomorrow:
		return e.adjustments.AddToDates(ctx, []time.Time{today.AddDate(0, 0, 1)}, difference)
	default:
		return nil
	}
}

func (e *Engine) recordChecked(ctx context.Context, today time.Time) error {
	if err := e.settings.Set(ctx, keyLastCheckedDate, today.Format(utils.DateLayout)); err != nil {
		return fmt.Errorf("could not record checked date: %w", err)
	}
	return nil
}

func (e *Engine) checkIfAutomatic(ctx context.Context) error {
	settings, err := e.Settings(ctx)
	if err != nil {
		return err
	}
	if !settings.AutomaticEnabled {
		return nil
	}
	return e.CheckForDayEnd(ctx)
}

func (e *Engine) publish(ctx context.Context, result Result) {
	err := e.bus.Publish(event_bus.NewEvent(ctx, event_bus.RolloverApplied, event_bus.RolloverProcessed{
		Date:   result.Date,
		Amount: result.Amount,
		Option: result.Option.String(),
	}))
	if err != nil {
		log.Warnf("failed to publish %s event: %v", event_bus.RolloverApplied, err)
	}
}
