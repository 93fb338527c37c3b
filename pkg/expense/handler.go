package expense

import (
	"net/http"

	"github.com/gestfin/gestfin/internal/rest"
	"github.com/gestfin/gestfin/pkg/user"
)

type Handler struct {
	expenseService Service
}

func NewHandler(expenseService Service) *Handler {
	return &Handler{expenseService: expenseService}
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	familyId, ok := rest.PathId(w, r, "familyId")
	if !ok {
		return
	}
	var expense Expense
	if !rest.DecodeBody(w, r, &expense) {
		return
	}
	expense.FamilyId = familyId
	if expense.UserId == 0 {
		if userId, err := user.CurrentId(r.Context()); err == nil {
			expense.UserId = userId
		}
	}
	created, err := h.expenseService.Create(r.Context(), expense)
	if err != nil {
		rest.WriteFailure(w, err)
		return
	}
	rest.WriteJSON(w, http.StatusCreated, created)
}

func (h *Handler) ListByFamily(w http.ResponseWriter, r *http.Request) {
	familyId, ok := rest.PathId(w, r, "familyId")
	if !ok {
		return
	}
	query := rest.NewQuery(r)
	filter := Filter{
		CategoryId: query.Int("categoryId"),
		UserId:     query.Int("userId"),
		From:       query.Date("from"),
		To:         query.Date("to"),
		MinAmount:  query.Decimal("minAmount"),
		MaxAmount:  query.Decimal("maxAmount"),
	}
	if s := query.String("status"); s != nil {
		status := Status(*s)
		filter.Status = &status
	}
	if !query.Valid(w) {
		return
	}
	expenses, err := h.expenseService.ListByFamily(r.Context(), familyId, filter)
	if err != nil {
		rest.WriteFailure(w, err)
		return
	}
	rest.WriteJSON(w, http.StatusOK, expenses)
}

func (h *Handler) TotalByCategory(w http.ResponseWriter, r *http.Request) {
	familyId, ok := rest.PathId(w, r, "familyId")
	if !ok {
		return
	}
	query := rest.NewQuery(r)
	month, year := query.Int("month"), query.Int("year")
	if !query.Valid(w) {
		return
	}
	if month == nil || year == nil {
		rest.WriteError(w, http.StatusBadRequest, "month and year are required")
		return
	}
	totals, err := h.expenseService.TotalByCategory(r.Context(), familyId, *month, *year)
	if err != nil {
		rest.WriteFailure(w, err)
		return
	}
	rest.WriteJSON(w, http.StatusOK, totals)
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := rest.PathId(w, r, "id")
	if !ok {
		return
	}
	expense, err := h.expenseService.GetById(r.Context(), id)
	rest.WriteFound(w, expense, err)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := rest.PathId(w, r, "id")
	if !ok {
		return
	}
	var p Patch
	if !rest.DecodeBody(w, r, &p) {
		return
	}
	expense, err := h.expenseService.Update(r.Context(), id, p)
	rest.WriteFound(w, expense, err)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := rest.PathId(w, r, "id")
	if !ok {
		return
	}
	deleted, err := h.expenseService.Delete(r.Context(), id)
	rest.WriteDeleted(w, deleted, err)
}
