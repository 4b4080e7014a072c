package budget

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/pesatrack/pesatrack/internal/utils"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

type Repo interface {
	// Get returns the budget, or nil when none has been configured yet.
	Get(ctx context.Context) (*Budget, error)
	// Upsert replaces the single budget row.
	Upsert(ctx context.Context, budget Budget) error
	Delete(ctx context.Context) error
	// ApplyDelta adds delta to the remaining budget in a single atomic
	// statement. It is a no-op when no budget is configured.
	ApplyDelta(ctx context.Context, delta decimal.Decimal) error
	// MoveToSavings atomically moves amount from the remaining budget into
	// savings. It is a no-op when no budget is configured.
	MoveToSavings(ctx context.Context, amount decimal.Decimal) error
}

type RepoImpl struct {
	db *sql.DB
}

func NewRepo(db *sql.DB) *RepoImpl {
	return &RepoImpl{db: db}
}

func (r *RepoImpl) Get(ctx context.Context) (*Budget, error) {
	query := `SELECT total_budget, start_date, end_date, allocation_per_day, remaining_budget, savings
				FROM budget WHERE id = 1`
	row := r.db.QueryRowContext(ctx, query)

	var budget Budget
	var startDate, endDate time.Time
	err := row.Scan(
		&budget.TotalBudget,
		&startDate,
		&endDate,
		&budget.AllocationPerDay,
		&budget.RemainingBudget,
		&budget.Savings,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		err := fmt.Errorf("could not scan budget: %w", err)
		log.Error(err)
		return nil, err
	}
	budget.StartDate = utils.DateOf(startDate)
	budget.EndDate = utils.DateOf(endDate)
	return &budget, nil
}

func (r *RepoImpl) Upsert(ctx context.Context, budget Budget) error {
	query := `INSERT INTO budget (id, total_budget, start_date, end_date, allocation_per_day, remaining_budget, savings)
				VALUES (1, $1, $2, $3, $4, $5, $6)
				ON CONFLICT (id) DO UPDATE SET
					total_budget = EXCLUDED.total_budget,
					start_date = EXCLUDED.start_date,
					end_date = EXCLUDED.end_date,
					allocation_per_day = EXCLUDED.allocation_per_day,
					remaining_budget = EXCLUDED.remaining_budget,
					savings = EXCLUDED.savings`
	_, err := r.db.ExecContext(ctx, query,
		budget.TotalBudget,
		budget.StartDate.Format(utils.DateLayout),
		budget.EndDate.Format(utils.DateLayout),
		budget.AllocationPerDay,
		budget.RemainingBudget,
		budget.Savings,
	)
	if err != nil {
		err := fmt.Errorf("could not store budget: %w", err)
		log.Error(err)
		return err
	}
	return nil
}

func (r *RepoImpl) Delete(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, "DELETE FROM budget WHERE id = 1")
	if err != nil {
		err := fmt.Errorf("could not delete budget: %w", err)
		log.Error(err)
		return err
	}
	return nil
}

func (r *RepoImpl) ApplyDelta(ctx context.Context, delta decimal.Decimal) error {
	query := "UPDATE budget SET remaining_budget = remaining_budget + $1 WHERE id = 1"
	result, err := r.db.ExecContext(ctx, query, delta)
	if err != nil {
		err := fmt.Errorf("could not apply budget delta: %w", err)
		log.Error(err)
		return err
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		err := fmt.Errorf("could not get rows affected: %w", err)
		log.Error(err)
		return err
	}
	if rowsAffected == 0 {
		log.Debug("no budget configured, delta not applied")
	}
	return nil
}

func (r *RepoImpl) MoveToSavings(ctx context.Context, amount decimal.Decimal) error {
	query := "UPDATE budget SET remaining_budget = remaining_budget - $1, savings = savings + $1 WHERE id = 1"
	_, err := r.db.ExecContext(ctx, query, amount)
	if err != nil {
		err := fmt.Errorf("could not move amount to savings: %w", err)
		log.Error(err)
		return err
	}
	return nil
}
