package debt

import (
	"net/http"

	"github.com/gestfin/gestfin/internal/rest"
	"github.com/shopspring/decimal"
)

type Handler struct {
	debtService Service
}

func NewHandler(debtService Service) *Handler {
	return &Handler{debtService: debtService}
}

type repaymentRequest struct {
	Amount decimal.Decimal `json:"amount"`
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	familyId, ok := rest.PathId(w, r, "familyId")
	if !ok {
		return
	}
	var debt Debt
	if !rest.DecodeBody(w, r, &debt) {
		return
	}
	debt.FamilyId = familyId
	created, err := h.debtService.Create(r.Context(), debt)
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
	query := rest.NewQuery(r)
	filter := Filter{Creditor: query.String("creditor")}
	if s := query.String("status"); s != nil {
		status := Status(*s)
		filter.Status = &status
	}
	if !query.Valid(w) {
		return
	}
	debts, err := h.debtService.ListByFamily(r.Context(), familyId, filter)
	if err != nil {
		rest.WriteFailure(w, err)
		return
	}
	views := make([]View, 0, len(debts))
	for _, debt := range debts {
		views = append(views, NewView(debt))
	}
	rest.WriteJSON(w, http.StatusOK, views)
}

func (h *Handler) CheckOverdue(w http.ResponseWriter, r *http.Request) {
	count, err := h.debtService.CheckOverdue(r.Context())
	if err != nil {
		rest.WriteFailure(w, err)
		return
	}
	rest.WriteJSON(w, http.StatusOK, map[string]int{"updated": count})
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := rest.PathId(w, r, "id")
	if !ok {
		return
	}
	debt, err := h.debtService.GetById(r.Context(), id)
	rest.WriteFound(w, view(debt), err)
}

func (h *Handler) Repay(w http.ResponseWriter, r *http.Request) {
	id, ok := rest.PathId(w, r, "id")
	if !ok {
		return
	}
	var request repaymentRequest
	if !rest.DecodeBody(w, r, &request) {
		return
	}
	debt, err := h.debtService.Repay(r.Context(), id, request.Amount)
	rest.WriteFound(w, view(debt), err)
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
	debt, err := h.debtService.Update(r.Context(), id, p)
	rest.WriteFound(w, view(debt), err)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := rest.PathId(w, r, "id")
	if !ok {
		return
	}
	deleted, err := h.debtService.Delete(r.Context(), id)
	rest.WriteDeleted(w, deleted, err)
}

func view(debt *Debt) *View {
	if debt == nil {
		return nil
	}
	v := NewView(*debt)
	return &v
}
