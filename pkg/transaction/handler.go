package transaction

import (
	"net/http"

	"github.com/gestfin/gestfin/internal/rest"
	"github.com/gestfin/gestfin/pkg/user"
)

type Handler struct {
	transactionService Service
}

func NewHandler(transactionService Service) *Handler {
	return &Handler{transactionService: transactionService}
}

// Create records a transaction on the account in the path for the current user.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	accountId, ok := rest.PathId(w, r, "accountId")
	if !ok {
		return
	}
	userId, err := user.CurrentId(r.Context())
	if err != nil {
		rest.WriteError(w, http.StatusUnauthorized, err.Error())
		return
	}
	var transaction Transaction
	if !rest.DecodeBody(w, r, &transaction) {
		return
	}
	transaction.AccountId = accountId
	transaction.UserId = userId

	created, err := h.transactionService.Create(r.Context(), transaction)
	if err != nil {
		rest.WriteFailure(w, err)
		return
	}
	rest.WriteJSON(w, http.StatusCreated, created)
}

func (h *Handler) ListByAccount(w http.ResponseWriter, r *http.Request) {
	accountId, ok := rest.PathId(w, r, "accountId")
	if !ok {
		return
	}
	filter, ok := parseFilter(w, r)
	if !ok {
		return
	}
	transactions, err := h.transactionService.ListByAccount(r.Context(), accountId, filter)
	if err != nil {
		rest.WriteFailure(w, err)
		return
	}
	rest.WriteJSON(w, http.StatusOK, transactions)
}

func (h *Handler) ListMine(w http.ResponseWriter, r *http.Request) {
	userId, err := user.CurrentId(r.Context())
	if err != nil {
		rest.WriteError(w, http.StatusUnauthorized, err.Error())
		return
	}
	filter, ok := parseFilter(w, r)
	if !ok {
		return
	}
	transactions, err := h.transactionService.ListByUser(r.Context(), userId, filter)
	if err != nil {
		rest.WriteFailure(w, err)
		return
	}
	rest.WriteJSON(w, http.StatusOK, transactions)
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := rest.PathId(w, r, "id")
	if !ok {
		return
	}
	transaction, err := h.transactionService.GetById(r.Context(), id)
	rest.WriteFound(w, transaction, err)
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
	transaction, err := h.transactionService.Update(r.Context(), id, p)
	rest.WriteFound(w, transaction, err)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := rest.PathId(w, r, "id")
	if !ok {
		return
	}
	deleted, err := h.transactionService.Delete(r.Context(), id)
	rest.WriteDeleted(w, deleted, err)
}

func parseFilter(w http.ResponseWriter, r *http.Request) (Filter, bool) {
	query := rest.NewQuery(r)
	filter := Filter{
		CategoryId: query.Int("categoryId"),
		From:       query.Date("from"),
		To:         query.Date("to"),
		MinAmount:  query.Decimal("minAmount"),
		MaxAmount:  query.Decimal("maxAmount"),
	}
	if t := query.String("type"); t != nil {
		transactionType := Type(*t)
		filter.Type = &transactionType
	}
	if s := query.String("status"); s != nil {
		status := Status(*s)
		filter.Status = &status
	}
	return filter, query.Valid(w)
}
