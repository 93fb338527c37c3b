package user

import (
	"net/http"

	"github.com/gestfin/gestfin/internal/rest"
	log "github.com/sirupsen/logrus"
)

type Handler struct {
	userService Service
}

func NewHandler(userService Service) *Handler {
	return &Handler{userService: userService}
}

func (h *Handler) CurrentUser(w http.ResponseWriter, r *http.Request) {
	log.Trace("Getting current user")
	currentUser, err := h.userService.GetCurrentUser(r.Context())
	rest.WriteFound(w, currentUser, err)
}

func (h *Handler) GetUser(w http.ResponseWriter, r *http.Request) {
	id, ok := rest.PathId(w, r, "id")
	if !ok {
		return
	}
	user, err := h.userService.GetById(r.Context(), id)
	rest.WriteFound(w, user, err)
}

func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.userService.List(r.Context())
	if err != nil {
		rest.WriteFailure(w, err)
		return
	}
	rest.WriteJSON(w, http.StatusOK, users)
}

func (h *Handler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	id, ok := rest.PathId(w, r, "id")
	if !ok {
		return
	}
	var p Patch
	if !rest.DecodeBody(w, r, &p) {
		return
	}
	log.Debugf("Updating user %d", id)
	user, err := h.userService.Update(r.Context(), id, p)
	rest.WriteFound(w, user, err)
}

func (h *Handler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	id, ok := rest.PathId(w, r, "id")
	if !ok {
		return
	}
	deleted, err := h.userService.Delete(r.Context(), id)
	rest.WriteDeleted(w, deleted, err)
}
