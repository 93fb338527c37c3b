package budget

import (
	"net/http"

	"github.com/gestfin/gestfin/internal/rest"
	log "github.com/sirupsen/logrus"
)

type BudgetHandler struct {
	budgetService BudgetService
}

func NewBudgetHandler(budgetService BudgetService) *BudgetHandler {
	return &BudgetHandler{budgetService}
}

func (handler *BudgetHandler) Register(w http.ResponseWriter, r *http.Request) {
	log.Debug("Registering new budget")
	familyId, ok := rest.PathId(w, r, "familyId")
	if !ok {
		return
	}
	var budget Budget
	if !rest.DecodeBody(w, r, &budget) {
		return
	}
	budget.FamilyId = familyId

	createdBudget, err := handler.budgetService.Create(r.Context(), budget)
	if err != nil {
		rest.WriteFailure(w, err)
		return
	}
	rest.WriteJSON(w, http.StatusCreated, createdBudget)
}

// GetAll lists the budgets of a family, narrowed by the optional month, year,
// categoryId and userId query parameters.
func (handler *BudgetHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	familyId, ok := rest.PathId(w, r, "familyId")
	if !ok {
		return
	}
	query := rest.NewQuery(r)
	filter := Filter{
		Month:      query.Int("month"),
		Year:       query.Int("year"),
		CategoryId: query.Int("categoryId"),
		UserId:     query.Int("userId"),
	}
	if !query.Valid(w) {
		return
	}

	budgets, err := handler.budgetService.ListByFamily(r.Context(), familyId, filter)
	if err != nil {
		rest.WriteFailure(w, err)
		return
	}
	rest.WriteJSON(w, http.StatusOK, budgets)
}

func (handler *BudgetHandler) Get(w http.ResponseWriter, r *http.Request) {
	budgetId, ok := rest.PathId(w, r, "id")
	if !ok {
		return
	}
	budget, err := handler.budgetService.GetById(r.Context(), budgetId)
	rest.WriteFound(w, budget, err)
}

func (handler *BudgetHandler) Usage(w http.ResponseWriter, r *http.Request) {
	budgetId, ok := rest.PathId(w, r, "id")
	if !ok {
		return
	}
	usage, err := handler.budgetService.GetUsage(r.Context(), budgetId)
	rest.WriteFound(w, usage, err)
}

func (handler *BudgetHandler) Update(w http.ResponseWriter, r *http.Request) {
	budgetId, ok := rest.PathId(w, r, "id")
	if !ok {
		return
	}
	var p Patch
	if !rest.DecodeBody(w, r, &p) {
		return
	}
	budget, err := handler.budgetService.Update(r.Context(), budgetId, p)
	rest.WriteFound(w, budget, err)
}

func (handler *BudgetHandler) Delete(w http.ResponseWriter, r *http.Request) {
	budgetId, ok := rest.PathId(w, r, "id")
	if !ok {
		return
	}
	deleted, err := handler.budgetService.Delete(r.Context(), budgetId)
	rest.WriteDeleted(w, deleted, err)
}
