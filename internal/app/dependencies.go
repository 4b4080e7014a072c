package app

import (
	"database/sql"

	"github.com/pesatrack/pesatrack/internal/config"
	"github.com/pesatrack/pesatrack/internal/event_bus"
	"github.com/pesatrack/pesatrack/internal/utils"
	"github.com/pesatrack/pesatrack/pkg/adjustment"
	"github.com/pesatrack/pesatrack/pkg/budget"
	"github.com/pesatrack/pesatrack/pkg/expense"
	"github.com/pesatrack/pesatrack/pkg/overview"
	"github.com/pesatrack/pesatrack/pkg/report"
	"github.com/pesatrack/pesatrack/pkg/rollover"
)

// Dependencies holds all services and handlers for the application.
type Dependencies struct {
	Bus *event_bus.EventBus

	BudgetRepo    budget.Repo
	BudgetService budget.Service
	BudgetHandler *budget.Handler

	ExpenseRepo     expense.Repo
	ExpenseService  expense.Service
	ExpenseImporter *expense.Importer
	ExpenseHandler  *expense.Handler

	AdjustmentRepo    adjustment.Repo
	AdjustmentService adjustment.Service
	AdjustmentHandler *adjustment.Handler

	RolloverSettings rollover.SettingsStore
	RolloverEngine   *rollover.Engine
	RolloverHandler  *rollover.Handler

	OverviewService overview.Service
	OverviewHandler *overview.Handler

	ReportService     report.Service
	CsvReportRenderer *report.CsvReportRendererImpl
	ReportHandler     *report.Handler

	Clock utils.Clock
}

// BuildDependencies constructs repositories, services, and handlers in
// dependency order.
func BuildDependencies(db *sql.DB, cfg config.Application) *Dependencies {
	clock := utils.SystemClock{}
	bus := event_bus.NewEventBus()

	budgetRepo := budget.NewRepo(db)
	expenseRepo := expense.NewRepo(db)
	adjustmentRepo := adjustment.NewRepo(db)
	settingsRepo := rollover.NewSettingsRepo(db)

	budgetService := budget.NewService(budgetRepo, expenseRepo, adjustmentRepo, settingsRepo, bus)
	guard := expense.GuardFor(cfg.Budget.PeriodGuard)
	expenseService := expense.NewService(expenseRepo, budgetRepo, guard, clock, bus)
	importer := expense.NewImporter(expenseService)
	adjustmentService := adjustment.NewService(adjustmentRepo, budgetRepo, bus)
	engine := rollover.NewEngine(settingsRepo, budgetRepo, expenseRepo, adjustmentRepo, clock, bus)
	overviewService := overview.NewService(budgetRepo, expenseRepo, adjustmentRepo, engine, clock)
	reportService := report.NewService(expenseRepo)
	csvRenderer := report.NewCsvReportRenderer()

	return &Dependencies{
		Bus: bus,

		BudgetRepo:    budgetRepo,
		BudgetService: budgetService,
		BudgetHandler: budget.NewHandler(budgetService),

		ExpenseRepo:     expenseRepo,
		ExpenseService:  expenseService,
		ExpenseImporter: importer,
		ExpenseHandler:  expense.NewHandler(expenseService, importer),

		AdjustmentRepo:    adjustmentRepo,
		AdjustmentService: adjustmentService,
		AdjustmentHandler: adjustment.NewHandler(adjustmentService),

		RolloverSettings: settingsRepo,
		RolloverEngine:   engine,
		RolloverHandler:  rollover.NewHandler(engine),

		OverviewService: overviewService,
		OverviewHandler: overview.NewHandler(overviewService),

		ReportService:     reportService,
		CsvReportRenderer: csvRenderer,
		ReportHandler:     report.NewHandler(reportService, csvRenderer, clock),

		Clock: clock,
	}
}
