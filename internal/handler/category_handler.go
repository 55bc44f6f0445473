package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/pranav1211/bmb-content-server/internal/model"
	"github.com/pranav1211/bmb-content-server/internal/service"
)

type CategoryHandler struct {
	service *service.CategoryService
}

func NewCategoryHandler(service *service.CategoryService) *CategoryHandler {
	return &CategoryHandler{service: service}
}

func (h *CategoryHandler) List(w http.ResponseWriter, _ *http.Request) {
	writeSuccess(w, http.StatusOK, map[string]any{"categories": h.service.List()})
}

func (h *CategoryHandler) Create(w http.ResponseWriter, r *http.Request) {
	var payload model.CreateCategoryRequest
	if err := decodeJSON(r, &payload); err != nil {
		writeError(w, err)
		return
	}

	created, err := h.service.Create(payload.ID, payload.Name)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusCreated, map[string]any{"category": created})
}

func (h *CategoryHandler) Rename(w http.ResponseWriter, r *http.Request) {
	var payload model.RenameRequest
	if err := decodeJSON(r, &payload); err != nil {
		writeError(w, err)
		return
	}

	if err := h.service.Rename(chi.URLParam(r, "id"), payload.Name); err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, nil)
}

func (h *CategoryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, nil)
}

func (h *CategoryHandler) CreateSubcategory(w http.ResponseWriter, r *http.Request) {
	var payload model.CreateSubcategoryRequest
	if err := decodeJSON(r, &payload); err != nil {
		writeError(w, err)
		return
	}

	if err := h.service.CreateSubcategory(chi.URLParam(r, "id"), payload.ID, payload.Name); err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusCreated, nil)
}

func (h *CategoryHandler) RenameSubcategory(w http.ResponseWriter, r *http.Request) {
	var payload model.RenameRequest
	if err := decodeJSON(r, &payload); err != nil {
		writeError(w, err)
		return
	}

	if err := h.service.RenameSubcategory(chi.URLParam(r, "catID"), chi.URLParam(r, "subID"), payload.Name); err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, nil)
}

func (h *CategoryHandler) DeleteSubcategory(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteSubcategory(chi.URLParam(r, "catID"), chi.URLParam(r, "subID")); err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, nil)
}
