package overview

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/pesatrack/pesatrack/internal/utils"
	"github.com/pesatrack/pesatrack/pkg/budget"
	"github.com/pesatrack/pesatrack/pkg/rollover"
	"github.com/shopspring/decimal"
)

// UnderflowAction is the user's answer to "you have money left over today".
type UnderflowAction string

const (
	// ActionSave moves the leftover into savings.
	ActionSave UnderflowAction = "save"
	// ActionRollover leaves the leftover in the remaining pool by cancelling
	// it out of today's allowance.
	ActionRollover UnderflowAction = "rollover"
	// ActionIgnore dismisses the signal for the rest of the day.
	ActionIgnore UnderflowAction = "ignore"
)

var (
	ErrNoBudget      = errors.New("no budget configured")
	ErrNoUnderflow   = errors.New("no underflow to acknowledge")
	ErrUnknownAction = errors.New("unknown underflow action")
)

type ExpenseSource interface {
	SumOnDate(ctx context.Context, date time.Time) (decimal.Decimal, error)
}

type AdjustmentSource interface {
	GetForDate(ctx context.Context, date time.Time) (decimal.Decimal, error)
	AddToDates(ctx context.Context, dates []time.Time, delta decimal.Decimal) error
}

// Overview is the daily snapshot served to the client.
type Overview struct {
	Budget          *budget.Budget
	State           *DailyState
	RolloverMessage string
}

type Service interface {
	Overview(ctx context.Context) (Overview, error)
	AcknowledgeUnderflow(ctx context.Context, action UnderflowAction) error
}

// ServiceImpl derives the daily state on demand. The underflow
// acknowledgement is in-memory only and scoped to a single day; it resets on
// day change and on restart.
type ServiceImpl struct {
	budgetRepo  budget.Repo
	expenses    ExpenseSource
	adjustments AdjustmentSource
	engine      *rollover.Engine
	clock       utils.Clock

	mu      sync.Mutex
	ackDate time.Time
}

func NewService(
	budgetRepo budget.Repo,
	expenses ExpenseSource,
	adjustments AdjustmentSource,
	engine *rollover.Engine,
	clock utils.Clock,
) *ServiceImpl {
	return &ServiceImpl{
		budgetRepo:  budgetRepo,
		expenses:    expenses,
		adjustments: adjustments,
		engine:      engine,
		clock:       clock,
	}
}

func (s *ServiceImpl) Overview(ctx context.Context) (Overview, error) {
	b, err := s.budgetRepo.Get(ctx)
	if err != nil {
		return Overview{}, err
	}
	if b == nil {
		return Overview{}, nil
	}

	state, err := s.calculate(ctx, *b)
	if err != nil {
		return Overview{}, err
	}
	return Overview{
		Budget:          b,
		State:           &state,
		RolloverMessage: s.rolloverMessage(ctx),
	}, nil
}

// AcknowledgeUnderflow resolves today's leftover according to the chosen
// action. Subsequent overviews for the same day no longer flag the underflow.
func (s *ServiceImpl) AcknowledgeUnderflow(ctx context.Context, action UnderflowAction) error {
	b, err := s.budgetRepo.Get(ctx)
	if err != nil {
		return err
	}
	if b == nil {
		return ErrNoBudget
	}

	state, err := s.calculate(ctx, *b)
	if err != nil {
		return err
	}
	if !state.HasUnderflow {
		return ErrNoUnderflow
	}
	underflow := state.UnderflowAmount
	today := utils.DateOf(s.clock.Now())

	switch action {
	case ActionSave:
		if err := s.budgetRepo.MoveToSavings(ctx, underflow); err != nil {
			return fmt.Errorf("failed to move underflow to savings: %w", err)
		}
		if err := s.adjustments.AddToDates(ctx, []time.Time{today}, underflow.Neg()); err != nil {
			return fmt.Errorf("failed to adjust today's allowance: %w", err)
		}
	case ActionRollover:
		if err := s.adjustments.AddToDates(ctx, []time.Time{today}, underflow.Neg()); err != nil {
			return fmt.Errorf("failed to adjust today's allowance: %w", err)
		}
	case ActionIgnore:
		// Nothing to write, only the flag below.
	default:
		return ErrUnknownAction
	}

	s.mu.Lock()
	s.ackDate = today
	s.mu.Unlock()
	return nil
}

func (s *ServiceImpl) calculate(ctx context.Context, b budget.Budget) (DailyState, error) {
	today := utils.DateOf(s.clock.Now())
	spent, err := s.expenses.SumOnDate(ctx, today)
	if err != nil {
		return DailyState{}, err
	}
	adjustment, err := s.adjustments.GetForDate(ctx, today)
	if err != nil {
		return DailyState{}, err
	}
	return Calculate(b, spent, adjustment, today, s.acknowledgedToday(today)), nil
}

func (s *ServiceImpl) acknowledgedToday(today time.Time) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return !s.ackDate.IsZero() && utils.SameDay(s.ackDate, today)
}

func (s *ServiceImpl) rolloverMessage(ctx context.Context) string {
	result := s.engine.LastRollover()
	if result == nil {
		return ""
	}
	amount := result.Amount.Abs().Round(2)
	day := result.Date.Format(utils.DateLayout)
	if result.Amount.IsNegative() {
		switch result.Option {
		case rollover.OptionReallocate:
			return fmt.Sprintf("Overspend of %s on %s was spread over the rest of the month.", amount, day)
		case rollover.OptionSave:
			return fmt.Sprintf("Overspend of %s on %s was deducted from your remaining budget.", amount, day)
		case rollover.OptionAddToTomorrow:
			return fmt.Sprintf("Overspend of %s on %s was deducted from the next day.", amount, day)
		default:
			return ""
		}
	}
	switch result.Option {
	case rollover.OptionReallocate:
		return fmt.Sprintf("Unspent %s from %s was spread over the rest of the month.", amount, day)
	case rollover.OptionSave:
		return fmt.Sprintf("Unspent %s from %s was added back to your remaining budget.", amount, day)
	case rollover.OptionAddToTomorrow:
		return fmt.Sprintf("Unspent %s from %s was added to the next day.", amount, day)
	default:
		return ""
	}
}
