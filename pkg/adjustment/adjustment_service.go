package adjustment

import (
	"context"
	"fmt"
	"time"

	"github.com/pesatrack/pesatrack/internal/event_bus"
	"github.com/pesatrack/pesatrack/internal/utils"
	"github.com/pesatrack/pesatrack/pkg/budget"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

type Service interface {
	List(ctx context.Context) ([]DailyAdjustment, error)
	Get(ctx context.Context, date time.Time) (DailyAdjustment, error)
	Apply(ctx context.Context, adjustment DailyAdjustment) error
	Remove(ctx context.Context, date time.Time) error
}

// ServiceImpl keeps the remaining budget in step with manual per-day
// adjustments. Granting a day extra money draws it from the remaining pool;
// reducing a day returns it. Only the difference against the previously
// stored value is applied, so re-submitting the same adjustment is a no-op.
type ServiceImpl struct {
	repo       Repo
	budgetRepo budget.Repo
	bus        *event_bus.EventBus
}

func NewService(repo Repo, budgetRepo budget.Repo, bus *event_bus.EventBus) *ServiceImpl {
	return &ServiceImpl{repo: repo, budgetRepo: budgetRepo, bus: bus}
}

func (s *ServiceImpl) List(ctx context.Context) ([]DailyAdjustment, error) {
	return s.repo.GetAll(ctx)
}

func (s *ServiceImpl) Get(ctx context.Context, date time.Time) (DailyAdjustment, error) {
	date = utils.DateOf(date)
	value, err := s.repo.GetForDate(ctx, date)
	if err != nil {
		return DailyAdjustment{}, err
	}
	return DailyAdjustment{Date: date, Adjustment: value}, nil
}

func (s *ServiceImpl) Apply(ctx context.Context, adjustment DailyAdjustment) error {
	adjustment.Date = utils.DateOf(adjustment.Date)
	existing, err := s.repo.GetForDate(ctx, adjustment.Date)
	if err != nil {
		return err
	}

	if err := s.repo.Upsert(ctx, adjustment); err != nil {
		return fmt.Errorf("failed to store adjustment: %w", err)
	}

	delta := adjustment.Adjustment.Sub(existing)
	if err := s.budgetRepo.ApplyDelta(ctx, delta.Neg()); err != nil {
		return fmt.Errorf("failed to update remaining budget: %w", err)
	}

	s.publish(ctx, adjustment.Date, adjustment.Adjustment)
	return nil
}

func (s *ServiceImpl) Remove(ctx context.Context, date time.Time) error {
	date = utils.DateOf(date)
	existing, err := s.repo.GetForDate(ctx, date)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, date); err != nil {
		return fmt.Errorf("failed to delete adjustment: %w", err)
	}
	if err := s.budgetRepo.ApplyDelta(ctx, existing); err != nil {
		return fmt.Errorf("failed to update remaining budget: %w", err)
	}

	s.publish(ctx, date, decimal.Zero)
	return nil
}

func (s *ServiceImpl) publish(ctx context.Context, date time.Time, value decimal.Decimal) {
	err := s.bus.Publish(event_bus.NewEvent(ctx, event_bus.AdjustmentUpserted, event_bus.AdjustmentChanged{
		Date:       date,
		Adjustment: value,
	}))
	if err != nil {
		log.Warnf("failed to publish %s event: %v", event_bus.AdjustmentUpserted, err)
	}
}
