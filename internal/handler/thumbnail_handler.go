package handler

import (
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/pranav1211/bmb-content-server/internal/model"
	"github.com/pranav1211/bmb-content-server/internal/service"
	"github.com/pranav1211/bmb-content-server/pkg/apierror"
)

type ThumbnailHandler struct {
	service       *service.ThumbnailService
	maxUploadSize int64
}

func NewThumbnailHandler(service *service.ThumbnailService, maxUploadSize int64) *ThumbnailHandler {
	return &ThumbnailHandler{service: service, maxUploadSize: maxUploadSize}
}

func (h *ThumbnailHandler) List(w http.ResponseWriter, r *http.Request) {
	thumbnails := h.service.List(
		strings.TrimSpace(r.URL.Query().Get("category")),
		strings.TrimSpace(r.URL.Query().Get("subcategory")),
	)

	writeSuccess(w, http.StatusOK, map[string]any{"thumbnails": thumbnails})
}

func (h *ThumbnailHandler) Upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize)

	if err := r.ParseMultipartForm(h.maxUploadSize); err != nil {
		writeError(w, err)
		return
	}

	file, header, err := r.FormFile("thumbnail")
	if err != nil {
		writeError(w, apierror.BadRequest("no file uploaded", "thumbnail"))
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		writeError(w, err)
		return
	}

	entry, err := h.service.Upload(
		strings.TrimSpace(r.FormValue("category")),
		strings.TrimSpace(r.FormValue("subcategory")),
		data,
		header.Filename,
		header.Header.Get("Content-Type"),
	)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, map[string]any{"thumbnail": entry})
}

func (h *ThumbnailHandler) Edit(w http.ResponseWriter, r *http.Request) {
	var payload model.EditThumbnailRequest
	if err := decodeJSON(r, &payload); err != nil {
		writeError(w, err)
		return
	}

	updated, err := h.service.Edit(chi.URLParam(r, "id"), payload)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, map[string]any{"thumbnail": updated})
}

func (h *ThumbnailHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, nil)
}
