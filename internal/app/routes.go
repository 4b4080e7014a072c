package app

import (
	"github.com/gorilla/mux"
	"github.com/pesatrack/pesatrack/internal/config"
)

// RegisterRoutes registers all API endpoints.
func RegisterRoutes(r *mux.Router, deps *Dependencies, cfg config.Application) {

	// Budget
	r.HandleFunc("/api/budget", deps.BudgetHandler.GetBudget).Methods("GET")
	r.HandleFunc("/api/budget", deps.BudgetHandler.SetupBudget).Methods("PUT")
	r.HandleFunc("/api/budget", deps.BudgetHandler.DeleteBudget).Methods("DELETE")

	// Expenses
	r.HandleFunc("/api/expense", deps.ExpenseHandler.ListExpenses).Methods("GET")
	r.HandleFunc("/api/expense", deps.ExpenseHandler.CreateExpense).Methods("POST")
	r.HandleFunc("/api/expense/import", deps.ExpenseHandler.ImportTransactions).Methods("POST")
	r.HandleFunc("/api/expense/category-suggestion", deps.ExpenseHandler.CategorySuggestion).Methods("GET")
	r.HandleFunc("/api/expense/{expenseId}", deps.ExpenseHandler.UpdateExpense).Methods("PUT")
	r.HandleFunc("/api/expense/{expenseId}", deps.ExpenseHandler.DeleteExpense).Methods("DELETE")

	// Daily adjustments
	r.HandleFunc("/api/adjustment", deps.AdjustmentHandler.ListAdjustments).Methods("GET")
	r.HandleFunc("/api/adjustment/{date}", deps.AdjustmentHandler.GetAdjustment).Methods("GET")
	r.HandleFunc("/api/adjustment/{date}", deps.AdjustmentHandler.PutAdjustment).Methods("PUT")
	r.HandleFunc("/api/adjustment/{date}", deps.AdjustmentHandler.DeleteAdjustment).Methods("DELETE")

	// Rollover
	r.HandleFunc("/api/rollover/settings", deps.RolloverHandler.GetSettings).Methods("GET")
	r.HandleFunc("/api/rollover/settings", deps.RolloverHandler.PutSettings).Methods("PUT")
	r.HandleFunc("/api/rollover/check", deps.RolloverHandler.Check).Methods("POST")
	r.HandleFunc("/api/rollover/last", deps.RolloverHandler.GetLastRollover).Methods("GET")

	// Daily overview
	r.HandleFunc("/api/overview", deps.OverviewHandler.GetOverview).Methods("GET")
	r.HandleFunc("/api/overview/underflow", deps.OverviewHandler.AcknowledgeUnderflow).Methods("POST")

	// Reports
	r.HandleFunc("/api/report", deps.ReportHandler.GetReport).Methods("GET")
	r.HandleFunc("/api/report/csv", deps.ReportHandler.GetReportCsv).Methods("GET")

	// Full reset
	r.HandleFunc("/api/data", deps.BudgetHandler.ResetAllData).Methods("DELETE")
}
