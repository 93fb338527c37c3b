package income

import (
	"net/http"
	"time"

	"github.com/gestfin/gestfin/internal/rest"
	"github.com/gestfin/gestfin/pkg/transaction"
	"github.com/gestfin/gestfin/pkg/user"
	"github.com/shopspring/decimal"
)

type Handler struct {
	incomeService Service
}

func NewHandler(incomeService Service) *Handler {
	return &Handler{incomeService: incomeService}
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	familyId, ok := rest.PathId(w, r, "familyId")
	if !ok {
		return
	}
	var income Income
	if !rest.DecodeBody(w, r, &income) {
		return
	}
	income.FamilyId = familyId
	if income.UserId == 0 {
		if userId, err := user.CurrentId(r.Context()); err == nil {
			income.UserId = userId
		}
	}
	created, err := h.incomeService.Create(r.Context(), income)
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
		AccountId:  query.Int("accountId"),
		From:       query.Date("from"),
		To:         query.Date("to"),
		MinAmount:  query.Decimal("minAmount"),
		MaxAmount:  query.Decimal("maxAmount"),
	}
	if s := query.String("status"); s != nil {
		status := transaction.Status(*s)
		filter.Status = &status
	}
	if !query.Valid(w) {
		return
	}
	incomes, err := h.incomeService.ListByFamily(r.Context(), familyId, filter)
	if err != nil {
		rest.WriteFailure(w, err)
		return
	}
	rest.WriteJSON(w, http.StatusOK, incomes)
}

func (h *Handler) Total(w http.ResponseWriter, r *http.Request) {
	familyId, ok := rest.PathId(w, r, "familyId")
	if !ok {
		return
	}
	query := rest.NewQuery(r)
	from, to := query.Date("from"), query.Date("to")
	if !query.Valid(w) {
		return
	}
	if from == nil || to == nil {
		rest.WriteError(w, http.StatusBadRequest, "from and to are required")
		return
	}
	total, err := h.incomeService.Total(r.Context(), familyId, *from, *to)
	if err != nil {
		rest.WriteFailure(w, err)
		return
	}
	rest.WriteJSON(w, http.StatusOK, struct {
		From  time.Time       `json:"from"`
		To    time.Time       `json:"to"`
		Total decimal.Decimal `json:"total"`
	}{*from, *to, total})
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := rest.PathId(w, r, "id")
	if !ok {
		return
	}
	income, err := h.incomeService.GetById(r.Context(), id)
	rest.WriteFound(w, income, err)
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
	income, err := h.incomeService.Update(r.Context(), id, p)
	rest.WriteFound(w, income, err)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := rest.PathId(w, r, "id")
	if !ok {
		return
	}
	deleted, err := h.incomeService.Delete(r.Context(), id)
	rest.WriteDeleted(w, deleted, err)
}
