package app

import (
	"github.com/gorilla/mux"
)

// RegisterRoutes registers all API endpoints.
func RegisterRoutes(r *mux.Router, deps *Dependencies) {

	// Auth
	r.HandleFunc("/api/auth/register", deps.AuthHandler.Register).Methods("POST")
	r.HandleFunc("/api/auth/login", deps.AuthHandler.Login).Methods("POST")
	r.HandleFunc("/api/auth/refresh", deps.AuthHandler.Refresh).Methods("POST")
	r.HandleFunc("/api/auth/logout", deps.AuthHandler.Logout).Methods("POST")

	// Users
	r.HandleFunc("/api/users/current", deps.UserHandler.CurrentUser).Methods("GET")
	r.HandleFunc("/api/users", deps.UserHandler.ListUsers).Methods("GET")
	r.HandleFunc("/api/users/{id}", deps.UserHandler.GetUser).Methods("GET")
	r.HandleFunc("/api/users/{id}", deps.UserHandler.UpdateUser).Methods("PATCH")
	r.HandleFunc("/api/users/{id}", deps.UserHandler.DeleteUser).Methods("DELETE")

	// Families
	r.HandleFunc("/api/families", deps.FamilyHandler.Create).Methods("POST")
	r.HandleFunc("/api/families", deps.FamilyHandler.ListMine).Methods("GET")
	r.HandleFunc("/api/families/{familyId}", deps.FamilyHandler.Get).Methods("GET")
	r.HandleFunc("/api/families/{familyId}", deps.FamilyHandler.Update).Methods("PATCH")
	r.HandleFunc("/api/families/{familyId}", deps.FamilyHandler.Delete).Methods("DELETE")

	// Categories
	r.HandleFunc("/api/families/{familyId}/categories", deps.CategoryHandler.Create).Methods("POST")
	r.HandleFunc("/api/families/{familyId}/categories", deps.CategoryHandler.ListByFamily).Methods("GET")
	r.HandleFunc("/api/categories/{id}", deps.CategoryHandler.Get).Methods("GET")
	r.HandleFunc("/api/categories/{id}", deps.CategoryHandler.Update).Methods("PATCH")
	r.HandleFunc("/api/categories/{id}", deps.CategoryHandler.Delete).Methods("DELETE")

	// Accounts
	r.HandleFunc("/api/families/{familyId}/accounts", deps.AccountHandler.Create).Methods("POST")
	r.HandleFunc("/api/families/{familyId}/accounts", deps.AccountHandler.ListByFamily).Methods("GET")
	r.HandleFunc("/api/families/{familyId}/accounts/balance", deps.AccountHandler.TotalBalance).Methods("GET")
	r.HandleFunc("/api/accounts/{id}", deps.AccountHandler.Get).Methods("GET")
	r.HandleFunc("/api/accounts/{id}", deps.AccountHandler.Update).Methods("PATCH")
	r.HandleFunc("/api/accounts/{id}", deps.AccountHandler.Delete).Methods("DELETE")

	// Transactions
	r.HandleFunc("/api/accounts/{accountId}/transactions", deps.TransactionHandler.Create).Methods("POST")
	r.HandleFunc("/api/accounts/{accountId}/transactions", deps.TransactionHandler.ListByAccount).Methods("GET")
	r.HandleFunc("/api/transactions", deps.TransactionHandler.ListMine).Methods("GET")
	r.HandleFunc("/api/transactions/{id}", deps.TransactionHandler.Get).Methods("GET")
	r.HandleFunc("/api/transactions/{id}", deps.TransactionHandler.Update).Methods("PATCH")
	r.HandleFunc("/api/transactions/{id}", deps.TransactionHandler.Delete).Methods("DELETE")

	// Expenses
	r.HandleFunc("/api/families/{familyId}/expenses", deps.ExpenseHandler.Create).Methods("POST")
	r.HandleFunc("/api/families/{familyId}/expenses", deps.ExpenseHandler.ListByFamily).Methods("GET")
	r.HandleFunc("/api/families/{familyId}/expenses/by-category", deps.ExpenseHandler.TotalByCategory).Methods("GET")
	r.HandleFunc("/api/expenses/{id}", deps.ExpenseHandler.Get).Methods("GET")
	r.HandleFunc("/api/expenses/{id}", deps.ExpenseHandler.Update).Methods("PATCH")
	r.HandleFunc("/api/expenses/{id}", deps.ExpenseHandler.Delete).Methods("DELETE")

	// Income
	r.HandleFunc("/api/families/{familyId}/incomes", deps.IncomeHandler.Create).Methods("POST")
	r.HandleFunc("/api/families/{familyId}/incomes", deps.IncomeHandler.ListByFamily).Methods("GET")
	r.HandleFunc("/api/families/{familyId}/incomes/total", deps.IncomeHandler.Total).Methods("GET")
	r.HandleFunc("/api/incomes/{id}", deps.IncomeHandler.Get).Methods("GET")
	r.HandleFunc("/api/incomes/{id}", deps.IncomeHandler.Update).Methods("PATCH")
	r.HandleFunc("/api/incomes/{id}", deps.IncomeHandler.Delete).Methods("DELETE")

	// Budgets
	r.HandleFunc("/api/families/{familyId}/budgets", deps.BudgetHandler.Register).Methods("POST")
	r.HandleFunc("/api/families/{familyId}/budgets", deps.BudgetHandler.GetAll).Methods("GET")
	r.HandleFunc("/api/budgets/{id}", deps.BudgetHandler.Get).Methods("GET")
	r.HandleFunc("/api/budgets/{id}/usage", deps.BudgetHandler.Usage).Methods("GET")
	r.HandleFunc("/api/budgets/{id}", deps.BudgetHandler.Update).Methods("PATCH")
	r.HandleFunc("/api/budgets/{id}", deps.BudgetHandler.Delete).Methods("DELETE")

	// Stats
	r.HandleFunc("/api/families/{familyId}/stats/monthly", deps.StatsHandler.GetMonthly).Methods("GET")

	// Bills
	r.HandleFunc("/api/families/{familyId}/bills", deps.BillHandler.Create).Methods("POST")
	r.HandleFunc("/api/families/{familyId}/bills", deps.BillHandler.ListByFamily).Methods("GET")
	r.HandleFunc("/api/families/{familyId}/bills/upcoming", deps.BillHandler.ListUpcoming).Methods("GET")
	r.HandleFunc("/api/bills/check-overdue", deps.BillHandler.CheckOverdue).Methods("POST")
	r.HandleFunc("/api/bills/{id}", deps.BillHandler.Get).Methods("GET")
	r.HandleFunc("/api/bills/{id}/pay", deps.BillHandler.Pay).Methods("POST")
	r.HandleFunc("/api/bills/{id}", deps.BillHandler.Update).Methods("PATCH")
	r.HandleFunc("/api/bills/{id}", deps.BillHandler.Delete).Methods("DELETE")

	// Debts
	r.HandleFunc("/api/families/{familyId}/debts", deps.DebtHandler.Create).Methods("POST")
	r.HandleFunc("/api/families/{familyId}/debts", deps.DebtHandler.ListByFamily).Methods("GET")
	r.HandleFunc("/api/debts/check-overdue", deps.DebtHandler.CheckOverdue).Methods("POST")
	r.HandleFunc("/api/debts/{id}", deps.DebtHandler.Get).Methods("GET")
	r.HandleFunc("/api/debts/{id}/repay", deps.DebtHandler.Repay).Methods("POST")
	r.HandleFunc("/api/debts/{id}", deps.DebtHandler.Update).Methods("PATCH")
	r.HandleFunc("/api/debts/{id}", deps.DebtHandler.Delete).Methods("DELETE")

	// Savings goals
	r.HandleFunc("/api/families/{familyId}/savings-goals", deps.SavingsGoalHandler.Create).Methods("POST")
	r.HandleFunc("/api/families/{familyId}/savings-goals", deps.SavingsGoalHandler.ListByFamily).Methods("GET")
	r.HandleFunc("/api/savings-goals/{id}", deps.SavingsGoalHandler.Get).Methods("GET")
	r.HandleFunc("/api/savings-goals/{id}/add", deps.SavingsGoalHandler.AddAmount).Methods("POST")
	r.HandleFunc("/api/savings-goals/{id}", deps.SavingsGoalHandler.Update).Methods("PATCH")
	r.HandleFunc("/api/savings-goals/{id}", deps.SavingsGoalHandler.Delete).Methods("DELETE")

	// Investments
	r.HandleFunc("/api/families/{familyId}/investments", deps.InvestmentHandler.Create).Methods("POST")
	r.HandleFunc("/api/families/{familyId}/investments", deps.InvestmentHandler.ListByFamily).Methods("GET")
	r.HandleFunc("/api/families/{familyId}/investments/portfolio", deps.InvestmentHandler.Portfolio).Methods("GET")
	r.HandleFunc("/api/investments/{id}", deps.InvestmentHandler.Get).Methods("GET")
	r.HandleFunc("/api/investments/{id}/value", deps.InvestmentHandler.UpdateValue).Methods("PUT")
	r.HandleFunc("/api/investments/{id}/sell", deps.InvestmentHandler.Sell).Methods("POST")
	r.HandleFunc("/api/investments/{id}", deps.InvestmentHandler.Update).Methods("PATCH")
	r.HandleFunc("/api/investments/{id}", deps.InvestmentHandler.Delete).Methods("DELETE")

	// Notifications
	r.HandleFunc("/api/notifications", deps.NotificationHandler.Create).Methods("POST")
	r.HandleFunc("/api/notifications", deps.NotificationHandler.ListMine).Methods("GET")
	r.HandleFunc("/api/notifications/unread-count", deps.NotificationHandler.CountUnread).Methods("GET")
	r.HandleFunc("/api/notifications/read", deps.NotificationHandler.MarkManyRead).Methods("POST")
	r.HandleFunc("/api/notifications/{id}", deps.NotificationHandler.Get).Methods("GET")
	r.HandleFunc("/api/notifications/{id}/read", deps.NotificationHandler.MarkRead).Methods("POST")
	r.HandleFunc("/api/notifications/{id}", deps.NotificationHandler.Update).Methods("PATCH")
	r.HandleFunc("/api/notifications/{id}", deps.NotificationHandler.Delete).Methods("DELETE")

	// Settings
	r.HandleFunc("/api/settings", deps.SettingHandler.ListMine).Methods("GET")
	r.HandleFunc("/api/settings/key/{key}", deps.SettingHandler.GetByKey).Methods("GET")
	r.HandleFunc("/api/settings/key/{key}", deps.SettingHandler.Put).Methods("PUT")
	r.HandleFunc("/api/settings/{id}", deps.SettingHandler.Update).Methods("PATCH")
	r.HandleFunc("/api/settings/{id}", deps.SettingHandler.Delete).Methods("DELETE")
}
