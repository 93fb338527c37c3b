package account

import (
	"net/http"

	"github.com/gestfin/gestfin/internal/rest"
)

type Handler struct {
	accountService Service
}

func NewHandler(accountService Service) *Handler {
	return &Handler{accountService: accountService}
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	familyId, ok := rest.PathId(w, r, "familyId")
	if !ok {
		return
	}
	var account Account
	if !rest.DecodeBody(w, r, &account) {
		return
	}
	account.FamilyId = familyId
	created, err := h.accountService.Create(r.Context(), account)
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
	filter := Filter{Currency: query.String("currency")}
	if t := query.String("type"); t != nil {
		accountType := Type(*t)
		filter.Type = &accountType
	}
	accounts, err := h.accountService.ListByFamily(r.Context(), familyId, filter)
	if err != nil {
		rest.WriteFailure(w, err)
		return
	}
	rest.WriteJSON(w, http.StatusOK, accounts)
}

func (h *Handler) TotalBalance(w http.ResponseWriter, r *http.Request) {
	familyId, ok := rest.PathId(w, r, "familyId")
	if !ok {
		return
	}
	balances, err := h.accountService.TotalBalance(r.Context(), familyId)
	if err != nil {
		rest.WriteFailure(w, err)
		return
	}
	rest.WriteJSON(w, http.StatusOK, balances)
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := rest.PathId(w, r, "id")
	if !ok {
		return
	}
	account, err := h.accountService.GetById(r.Context(), id)
	rest.WriteFound(w, account, err)
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
	account, err := h.accountService.Update(r.Context(), id, p)
	rest.WriteFound(w, account, err)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := rest.PathId(w, r, "id")
	if !ok {
		return
	}
	deleted, err := h.accountService.Delete(r.Context(), id)
	rest.WriteDeleted(w, deleted, err)
}
