package investment

import (
	"net/http"
	"time"

	"github.com/gestfin/gestfin/internal/rest"
	"github.com/shopspring/decimal"
)

type Handler struct {
	investmentService Service
}

func NewHandler(investmentService Service) *Handler {
	return &Handler{investmentService: investmentService}
}

type valueRequest struct {
	Value decimal.Decimal `json:"value"`
	Date  *time.Time      `json:"date"`
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	familyId, ok := rest.PathId(w, r, "familyId")
	if !ok {
		return
	}
	var investment Investment
	if !rest.DecodeBody(w, r, &investment) {
		return
	}
	investment.FamilyId = familyId
	created, err := h.investmentService.Create(r.Context(), investment)
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
	var filter Filter
	if query.String("sold") != nil {
		sold := query.Bool("sold")
		filter.Sold = &sold
	}
	if s := query.String("type"); s != nil {
		investmentType := Type(*s)
		filter.Type = &investmentType
	}
	if !query.Valid(w) {
		return
	}
	investments, err := h.investmentService.ListByFamily(r.Context(), familyId, filter)
	if err != nil {
		rest.WriteFailure(w, err)
		return
	}
	rest.WriteJSON(w, http.StatusOK, investments)
}

func (h *Handler) Portfolio(w http.ResponseWriter, r *http.Request) {
	familyId, ok := rest.PathId(w, r, "familyId")
	if !ok {
		return
	}
	portfolio, err := h.investmentService.Portfolio(r.Context(), familyId)
	if err != nil {
		rest.WriteFailure(w, err)
		return
	}
	rest.WriteJSON(w, http.StatusOK, portfolio)
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := rest.PathId(w, r, "id")
	if !ok {
		return
	}
	investment, err := h.investmentService.GetById(r.Context(), id)
	rest.WriteFound(w, investment, err)
}

func (h *Handler) UpdateValue(w http.ResponseWriter, r *http.Request) {
	id, ok := rest.PathId(w, r, "id")
	if !ok {
		return
	}
	var request valueRequest
	if !rest.DecodeBody(w, r, &request) {
		return
	}
	investment, err := h.investmentService.UpdateValue(r.Context(), id, request.Value)
	rest.WriteFound(w, investment, err)
}

func (h *Handler) Sell(w http.ResponseWriter, r *http.Request) {
	id, ok := rest.PathId(w, r, "id")
	if !ok {
		return
	}
	var request valueRequest
	if !rest.DecodeBody(w, r, &request) {
		return
	}
	var saleDate time.Time
	if request.Date != nil {
		saleDate = *request.Date
	}
	investment, err := h.investmentService.Sell(r.Context(), id, request.Value, saleDate)
	rest.WriteFound(w, investment, err)
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
	investment, err := h.investmentService.Update(r.Context(), id, p)
	rest.WriteFound(w, investment, err)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := rest.PathId(w, r, "id")
	if !ok {
		return
	}
	deleted, err := h.investmentService.Delete(r.Context(), id)
	rest.WriteDeleted(w, deleted, err)
}
