package notification

import (
	"net/http"

	"github.com/gestfin/gestfin/internal/rest"
	"github.com/gestfin/gestfin/pkg/user"
)

type Handler struct {
	notificationService Service
}

func NewHandler(notificationService Service) *Handler {
	return &Handler{notificationService: notificationService}
}

type countResponse struct {
	Count int `json:"count"`
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var notification Notification
	if !rest.DecodeBody(w, r, &notification) {
		return
	}
	if notification.UserId == 0 {
		userId, err := user.CurrentId(r.Context())
		if err != nil {
			rest.WriteError(w, http.StatusUnauthorized, err.Error())
			return
		}
		notification.UserId = userId
	}
	created, err := h.notificationService.Create(r.Context(), notification)
	if err != nil {
		rest.WriteFailure(w, err)
		return
	}
	rest.WriteJSON(w, http.StatusCreated, created)
}

// ListMine lists the current user's notifications, only unread ones with
// ?unread.
func (h *Handler) ListMine(w http.ResponseWriter, r *http.Request) {
	userId, err := user.CurrentId(r.Context())
	if err != nil {
		rest.WriteError(w, http.StatusUnauthorized, err.Error())
		return
	}
	query := rest.NewQuery(r)
	unreadOnly := query.Bool("unread")
	if !query.Valid(w) {
		return
	}
	notifications, err := h.notificationService.ListByUser(r.Context(), userId, unreadOnly)
	if err != nil {
		rest.WriteFailure(w, err)
		return
	}
	rest.WriteJSON(w, http.StatusOK, notifications)
}

func (h *Handler) CountUnread(w http.ResponseWriter, r *http.Request) {
	userId, err := user.CurrentId(r.Context())
	if err != nil {
		rest.WriteError(w, http.StatusUnauthorized, err.Error())
		return
	}
	count, err := h.notificationService.CountUnread(r.Context(), userId)
	if err != nil {
		rest.WriteFailure(w, err)
		return
	}
	rest.WriteJSON(w, http.StatusOK, countResponse{Count: count})
}

// MarkManyRead marks the ids in the body read, or every notification of the
// current user when the body lists none.
func (h *Handler) MarkManyRead(w http.ResponseWriter, r *http.Request) {
	var request struct {
		Ids []int `json:"ids"`
	}
	if !rest.DecodeBody(w, r, &request) {
		return
	}
	var count int
	var err error
	if len(request.Ids) > 0 {
		count, err = h.notificationService.MarkManyRead(r.Context(), request.Ids)
	} else {
		userId, userErr := user.CurrentId(r.Context())
		if userErr != nil {
			rest.WriteError(w, http.StatusUnauthorized, userErr.Error())
			return
		}
		count, err = h.notificationService.MarkAllRead(r.Context(), userId)
	}
	if err != nil {
		rest.WriteFailure(w, err)
		return
	}
	rest.WriteJSON(w, http.StatusOK, countResponse{Count: count})
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := rest.PathId(w, r, "id")
	if !ok {
		return
	}
	notification, err := h.notificationService.GetById(r.Context(), id)
	rest.WriteFound(w, notification, err)
}

func (h *Handler) MarkRead(w http.ResponseWriter, r *http.Request) {
	id, ok := rest.PathId(w, r, "id")
	if !ok {
		return
	}
	notification, err := h.notificationService.MarkRead(r.Context(), id)
	rest.WriteFound(w, notification, err)
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
	notification, err := h.notificationService.Update(r.Context(), id, p)
	rest.WriteFound(w, notification, err)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := rest.PathId(w, r, "id")
	if !ok {
		return
	}
	deleted, err := h.notificationService.Delete(r.Context(), id)
	rest.WriteDeleted(w, deleted, err)
}
