package app

import (
	"database/sql"

	"github.com/gestfin/gestfin/internal/config"
	"github.com/gestfin/gestfin/internal/event_bus"
	"github.com/gestfin/gestfin/internal/utils"
	"github.com/gestfin/gestfin/pkg/account"
	"github.com/gestfin/gestfin/pkg/auth"
	"github.com/gestfin/gestfin/pkg/bill"
	"github.com/gestfin/gestfin/pkg/budget"
	"github.com/gestfin/gestfin/pkg/category"
	"github.com/gestfin/gestfin/pkg/debt"
	"github.com/gestfin/gestfin/pkg/expense"
	"github.com/gestfin/gestfin/pkg/family"
	"github.com/gestfin/gestfin/pkg/income"
	"github.com/gestfin/gestfin/pkg/investment"
	"github.com/gestfin/gestfin/pkg/notification"
	"github.com/gestfin/gestfin/pkg/savings_goal"
	"github.com/gestfin/gestfin/pkg/setting"
	"github.com/gestfin/gestfin/pkg/stats"
	"github.com/gestfin/gestfin/pkg/transaction"
	"github.com/gestfin/gestfin/pkg/user"
)

// Dependencies holds all services and handlers for the application.
type Dependencies struct {
	Clock    utils.Clock
	EventBus *event_bus.EventBus

	UserService user.Service
	UserHandler *user.Handler

	AuthManager *auth.Manager
	AuthHandler *auth.Handler

	FamilyService family.Service
	FamilyHandler *family.Handler

	CategoryService category.Service
	CategoryHandler *category.Handler

	AccountService account.Service
	AccountHandler *account.Handler

	TransactionService transaction.Service
	TransactionHandler *transaction.Handler

	ExpenseService expense.Service
	ExpenseHandler *expense.Handler

	IncomeService income.Service
	IncomeHandler *income.Handler

	BudgetService *budget.BudgetServiceImpl
	BudgetHandler *budget.BudgetHandler

	BillService bill.Service
	BillHandler *bill.Handler

	DebtService debt.Service
	DebtHandler *debt.Handler

	SavingsGoalService savings_goal.Service
	SavingsGoalHandler *savings_goal.Handler

	InvestmentService investment.Service
	InvestmentHandler *investment.Handler

	NotificationService notification.Service
	NotificationHandler *notification.Handler
	unsubscribeAlerts   func()

	SettingService setting.Service
	SettingHandler *setting.Handler

	StatsService     *stats.StatsServiceImpl
	CsvStatsRenderer *stats.CsvStatsRendererImpl
	StatsHandler     *stats.StatsHandler
}

// BuildDependencies initializes and wires all application services and handlers.
func BuildDependencies(db *sql.DB, cfg config.Application) *Dependencies {
	deps := &Dependencies{}

	deps.Clock = &utils.SystemClock{}
	deps.EventBus = event_bus.NewEventBus()

	deps.UserService = user.NewService(user.NewRepository(db), deps.Clock, cfg.Auth.BcryptCost)
	deps.UserHandler = user.NewHandler(deps.UserService)

	deps.AuthManager = auth.NewManager(deps.UserService, deps.Clock, cfg.Auth)
	deps.AuthHandler = auth.NewHandler(deps.AuthManager)

	deps.FamilyService = family.NewService(family.NewRepository(db), deps.Clock)
	deps.FamilyHandler = family.NewHandler(deps.FamilyService)

	deps.CategoryService = category.NewService(category.NewRepository(db))
	deps.CategoryHandler = category.NewHandler(deps.CategoryService)

	deps.AccountService = account.NewService(account.NewRepository(db), deps.Clock)
	deps.AccountHandler = account.NewHandler(deps.AccountService)

	deps.TransactionService = transaction.NewService(transaction.NewRepository(db), deps.Clock)
	deps.TransactionHandler = transaction.NewHandler(deps.TransactionService)

	deps.ExpenseService = expense.NewService(expense.NewRepository(db), deps.Clock)
	deps.ExpenseHandler = expense.NewHandler(deps.ExpenseService)

	deps.IncomeService = income.NewService(income.NewRepository(db), deps.Clock)
	deps.IncomeHandler = income.NewHandler(deps.IncomeService)

	deps.BudgetService = budget.NewBudgetServiceImpl(budget.NewBudgetRepo(db), deps.Clock)
	deps.BudgetHandler = budget.NewBudgetHandler(deps.BudgetService)

	deps.BillService = bill.NewService(bill.NewRepository(db), deps.Clock)
	deps.BillHandler = bill.NewHandler(deps.BillService)

	deps.DebtService = debt.NewService(debt.NewRepository(db), deps.Clock, deps.EventBus)
	deps.DebtHandler = debt.NewHandler(deps.DebtService)

	deps.SavingsGoalService = savings_goal.NewService(savings_goal.NewRepository(db), deps.Clock, deps.EventBus)
	deps.SavingsGoalHandler = savings_goal.NewHandler(deps.SavingsGoalService)

	deps.InvestmentService = investment.NewService(investment.NewRepository(db), deps.Clock)
	deps.InvestmentHandler = investment.NewHandler(deps.InvestmentService)

	deps.NotificationService = notification.NewService(notification.NewRepository(db), deps.Clock)
	deps.NotificationHandler = notification.NewHandler(deps.NotificationService)
	deps.unsubscribeAlerts = notification.NewAlerts(deps.NotificationService, deps.FamilyService).Subscribe(deps.EventBus)

	deps.SettingService = setting.NewService(setting.NewRepository(db), deps.Clock)
	deps.SettingHandler = setting.NewHandler(deps.SettingService)

	deps.StatsService = stats.NewStatsServiceImpl(deps.IncomeService, deps.ExpenseService, deps.BudgetService)
	deps.CsvStatsRenderer = stats.NewCsvStatsRenderer()
	deps.StatsHandler = stats.NewStatsHandler(deps.StatsService, deps.CsvStatsRenderer, deps.Clock)

	return deps
}

// Close detaches the event subscribers.
func (d *Dependencies) Close() {
	if d.unsubscribeAlerts != nil {
		d.unsubscribeAlerts()
	}
}
