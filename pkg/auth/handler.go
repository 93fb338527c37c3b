package auth

import (
	"errors"
	"net/http"

	"github.com/gestfin/gestfin/internal/rest"
	"github.com/gestfin/gestfin/pkg/user"
	log "github.com/sirupsen/logrus"
)

type Handler struct {
	manager *Manager
}

func NewHandler(manager *Manager) *Handler {
	return &Handler{manager: manager}
}

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var newUser user.NewUser
	if !rest.DecodeBody(w, r, &newUser) {
		return
	}
	created, err := h.manager.CreateUser(r.Context(), newUser)
	if err != nil {
		rest.WriteFailure(w, err)
		return
	}
	log.Infof("registered user %d", created.Id)
	rest.WriteJSON(w, http.StatusCreated, created)
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var request credentials
	if !rest.DecodeBody(w, r, &request) {
		return
	}
	session, err := h.manager.Login(r.Context(), request.Email, request.Password)
	if errors.Is(err, ErrInvalidCredentials) {
		rest.WriteError(w, http.StatusUnauthorized, err.Error())
		return
	}
	if err != nil {
		rest.WriteFailure(w, err)
		return
	}
	rest.WriteJSON(w, http.StatusOK, session)
}

func (h *Handler) Refresh(w http.ResponseWriter, r *http.Request) {
	var request refreshRequest
	if !rest.DecodeBody(w, r, &request) {
		return
	}
	session, err := h.manager.Refresh(r.Context(), request.RefreshToken)
	if errors.Is(err, ErrInvalidToken) {
		rest.WriteError(w, http.StatusUnauthorized, ErrInvalidToken.Error())
		return
	}
	if err != nil {
		rest.WriteFailure(w, err)
		return
	}
	rest.WriteJSON(w, http.StatusOK, session)
}

func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	var request refreshRequest
	if !rest.DecodeBody(w, r, &request) {
		return
	}
	if err := h.manager.Logout(request.RefreshToken); err != nil {
		rest.WriteError(w, http.StatusUnauthorized, ErrInvalidToken.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
