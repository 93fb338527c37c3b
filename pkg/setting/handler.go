package setting

import (
	"net/http"

	"github.com/gestfin/gestfin/internal/rest"
	"github.com/gestfin/gestfin/pkg/user"
	"github.com/gorilla/mux"
)

type Handler struct {
	settingService Service
}

func NewHandler(settingService Service) *Handler {
	return &Handler{settingService: settingService}
}

func (h *Handler) ListMine(w http.ResponseWriter, r *http.Request) {
	userId, err := user.CurrentId(r.Context())
	if err != nil {
		rest.WriteError(w, http.StatusUnauthorized, err.Error())
		return
	}
	settings, err := h.settingService.ListByUser(r.Context(), userId)
	if err != nil {
		rest.WriteFailure(w, err)
		return
	}
	rest.WriteJSON(w, http.StatusOK, settings)
}

func (h *Handler) GetByKey(w http.ResponseWriter, r *http.Request) {
	userId, err := user.CurrentId(r.Context())
	if err != nil {
		rest.WriteError(w, http.StatusUnauthorized, err.Error())
		return
	}
	setting, err := h.settingService.Get(r.Context(), userId, mux.Vars(r)["key"])
	rest.WriteFound(w, setting, err)
}

// Put stores the value of the current user's key, creating it if needed.
func (h *Handler) Put(w http.ResponseWriter, r *http.Request) {
	userId, err := user.CurrentId(r.Context())
	if err != nil {
		rest.WriteError(w, http.StatusUnauthorized, err.Error())
		return
	}
	var request struct {
		Value string `json:"value"`
	}
	if !rest.DecodeBody(w, r, &request) {
		return
	}
	setting, err := h.settingService.Set(r.Context(), userId, mux.Vars(r)["key"], request.Value)
	if err != nil {
		rest.WriteFailure(w, err)
		return
	}
	rest.WriteJSON(w, http.StatusOK, setting)
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
	setting, err := h.settingService.Update(r.Context(), id, p)
	rest.WriteFound(w, setting, err)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := rest.PathId(w, r, "id")
	if !ok {
		return
	}
	deleted, err := h.settingService.Delete(r.Context(), id)
	rest.WriteDeleted(w, deleted, err)
}
