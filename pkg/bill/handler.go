package bill

import (
	"net/http"

	"github.com/gestfin/gestfin/internal/rest"
)

type Handler struct {
	billService Service
}

func NewHandler(billService Service) *Handler {
	return &Handler{billService: billService}
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	familyId, ok := rest.PathId(w, r, "familyId")
	if !ok {
		return
	}
	var bill Bill
	if !rest.DecodeBody(w, r, &bill) {
		return
	}
	bill.FamilyId = familyId
	created, err := h.billService.Create(r.Context(), bill)
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
		From:       query.Date("from"),
		To:         query.Date("to"),
	}
	if s := query.String("status"); s != nil {
		status := Status(*s)
		filter.Status = &status
	}
	if !query.Valid(w) {
		return
	}
	bills, err := h.billService.ListByFamily(r.Context(), familyId, filter)
	if err != nil {
		rest.WriteFailure(w, err)
		return
	}
	rest.WriteJSON(w, http.StatusOK, bills)
}

// ListUpcoming defaults to the next 7 days.
func (h *Handler) ListUpcoming(w http.ResponseWriter, r *http.Request) {
	familyId, ok := rest.PathId(w, r, "familyId")
	if !ok {
		return
	}
	query := rest.NewQuery(r)
	days := query.Int("days")
	if !query.Valid(w) {
		return
	}
	if days == nil {
		week := 7
		days = &week
	}
	bills, err := h.billService.ListUpcoming(r.Context(), familyId, *days)
	if err != nil {
		rest.WriteFailure(w, err)
		return
	}
	rest.WriteJSON(w, http.StatusOK, bills)
}

func (h *Handler) CheckOverdue(w http.ResponseWriter, r *http.Request) {
	count, err := h.billService.CheckOverdue(r.Context())
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
	bill, err := h.billService.GetById(r.Context(), id)
	rest.WriteFound(w, bill, err)
}

func (h *Handler) Pay(w http.ResponseWriter, r *http.Request) {
	id, ok := rest.PathId(w, r, "id")
	if !ok {
		return
	}
	payment, err := h.billService.MarkPaid(r.Context(), id)
	rest.WriteFound(w, payment, err)
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
	bill, err := h.billService.Update(r.Context(), id, p)
	rest.WriteFound(w, bill, err)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := rest.PathId(w, r, "id")
	if !ok {
		return
	}
	deleted, err := h.billService.Delete(r.Context(), id)
	rest.WriteDeleted(w, deleted, err)
}
