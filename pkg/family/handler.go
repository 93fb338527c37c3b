package family

import (
	"net/http"

	"github.com/gestfin/gestfin/internal/rest"
	"github.com/gestfin/gestfin/pkg/user"
	log "github.com/sirupsen/logrus"
)

type Handler struct {
	familyService Service
}

func NewHandler(familyService Service) *Handler {
	return &Handler{familyService: familyService}
}

// Create registers a family owned by the current user.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	userId, err := user.CurrentId(r.Context())
	if err != nil {
		rest.WriteError(w, http.StatusUnauthorized, err.Error())
		return
	}
	var family Family
	if !rest.DecodeBody(w, r, &family) {
		return
	}
	family.OwnerUserId = userId
	log.Debugf("Creating family %q for user %d", family.Name, userId)

	created, err := h.familyService.Create(r.Context(), family)
	if err != nil {
		rest.WriteFailure(w, err)
		return
	}
	rest.WriteJSON(w, http.StatusCreated, created)
}

func (h *Handler) ListMine(w http.ResponseWriter, r *http.Request) {
	userId, err := user.CurrentId(r.Context())
	if err != nil {
		rest.WriteError(w, http.StatusUnauthorized, err.Error())
		return
	}
	families, err := h.familyService.ListByUser(r.Context(), userId)
	if err != nil {
		rest.WriteFailure(w, err)
		return
	}
	rest.WriteJSON(w, http.StatusOK, families)
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := rest.PathId(w, r, "familyId")
	if !ok {
		return
	}
	family, err := h.familyService.GetById(r.Context(), id)
	rest.WriteFound(w, family, err)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := rest.PathId(w, r, "familyId")
	if !ok {
		return
	}
	var p Patch
	if !rest.DecodeBody(w, r, &p) {
		return
	}
	family, err := h.familyService.Update(r.Context(), id, p)
	rest.WriteFound(w, family, err)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := rest.PathId(w, r, "familyId")
	if !ok {
		return
	}
	deleted, err := h.familyService.Delete(r.Context(), id)
	rest.WriteDeleted(w, deleted, err)
}
