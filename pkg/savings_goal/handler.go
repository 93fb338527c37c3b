package savings_goal

import (
	"net/http"

	"github.com/gestfin/gestfin/internal/rest"
	"github.com/shopspring/decimal"
)

type Handler struct {
	goalService Service
}

func NewHandler(goalService Service) *Handler {
	return &Handler{goalService: goalService}
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	familyId, ok := rest.PathId(w, r, "familyId")
	if !ok {
		return
	}
	var goal SavingsGoal
	if !rest.DecodeBody(w, r, &goal) {
		return
	}
	goal.FamilyId = familyId
	created, err := h.goalService.Create(r.Context(), goal)
	if err != nil {
		rest.WriteFailure(w, err)
		return
	}
	rest.WriteJSON(w, http.StatusCreated, NewView(created))
}

func (h *Handler) ListByFamily(w http.ResponseWriter, r *http.Request) {
	familyId, ok := rest.PathId(w, r, "familyId")
	if !ok {
		return
	}
	var filter Filter
	if s := rest.NewQuery(r).String("status"); s != nil {
		status := Status(*s)
		filter.Status = &status
	}
	goals, err := h.goalService.ListByFamily(r.Context(), familyId, filter)
	if err != nil {
		rest.WriteFailure(w, err)
		return
	}
	views := make([]View, 0, len(goals))
	for _, goal := range goals {
		views = append(views, NewView(goal))
	}
	rest.WriteJSON(w, http.StatusOK, views)
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := rest.PathId(w, r, "id")
	if !ok {
		return
	}
	goal, err := h.goalService.GetById(r.Context(), id)
	rest.WriteFound(w, view(goal), err)
}

func (h *Handler) AddAmount(w http.ResponseWriter, r *http.Request) {
	id, ok := rest.PathId(w, r, "id")
	if !ok {
		return
	}
	var request struct {
		Amount decimal.Decimal `json:"amount"`
	}
	if !rest.DecodeBody(w, r, &request) {
		return
	}
	goal, err := h.goalService.AddAmount(r.Context(), id, request.Amount)
	rest.WriteFound(w, view(goal), err)
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
	goal, err := h.goalService.Update(r.Context(), id, p)
	rest.WriteFound(w, view(goal), err)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := rest.PathId(w, r, "id")
	if !ok {
		return
	}
	deleted, err := h.goalService.Delete(r.Context(), id)
	rest.WriteDeleted(w, deleted, err)
}

func view(goal *SavingsGoal) *View {
	if goal == nil {
		return nil
	}
	v := NewView(*goal)
	return &v
}
