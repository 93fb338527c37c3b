package category

import (
	"net/http"

	"github.com/gestfin/gestfin/internal/rest"
)

type Handler struct {
	categoryService Service
}

func NewHandler(categoryService Service) *Handler {
	return &Handler{categoryService: categoryService}
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	familyId, ok := rest.PathId(w, r, "familyId")
	if !ok {
		return
	}
	var category Category
	if !rest.DecodeBody(w, r, &category) {
		return
	}
	category.FamilyId = familyId
	created, err := h.categoryService.Create(r.Context(), category)
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
	var filter Filter
	if t := rest.NewQuery(r).String("type"); t != nil {
		categoryType := Type(*t)
		filter.Type = &categoryType
	}
	categories, err := h.categoryService.ListByFamily(r.Context(), familyId, filter)
	if err != nil {
		rest.WriteFailure(w, err)
		return
	}
	rest.WriteJSON(w, http.StatusOK, categories)
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := rest.PathId(w, r, "id")
	if !ok {
		return
	}
	category, err := h.categoryService.GetById(r.Context(), id)
	rest.WriteFound(w, category, err)
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
	category, err := h.categoryService.Update(r.Context(), id, p)
	rest.WriteFound(w, category, err)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := rest.PathId(w, r, "id")
	if !ok {
		return
	}
	deleted, err := h.categoryService.Delete(r.Context(), id)
	rest.WriteDeleted(w, deleted, err)
}
