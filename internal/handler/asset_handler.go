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

type AssetHandler struct {
	service       *service.AssetService
	maxUploadSize int64
}

func NewAssetHandler(service *service.AssetService, maxUploadSize int64) *AssetHandler {
	return &AssetHandler{service: service, maxUploadSize: maxUploadSize}
}

func (h *AssetHandler) List(w http.ResponseWriter, r *http.Request) {
	writeSuccess(w, http.StatusOK, map[string]any{"assets": h.service.List(r.URL.Query().Get("folder"))})
}

func (h *AssetHandler) ListFolders(w http.ResponseWriter, r *http.Request) {
	writeSuccess(w, http.StatusOK, map[string]any{"folders": h.service.ListFolders(r.URL.Query().Get("parent"))})
}

func (h *AssetHandler) CreateFolder(w http.ResponseWriter, r *http.Request) {
	var payload model.CreateFolderRequest
	if err := decodeJSON(r, &payload); err != nil {
		writeError(w, err)
		return
	}

	folder, err := h.service.CreateFolder(payload.Name, payload.Parent)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusCreated, map[string]any{"folder": folder})
}

func (h *AssetHandler) RenameFolder(w http.ResponseWriter, r *http.Request) {
	var payload model.RenameFolderRequest
	if err := decodeJSON(r, &payload); err != nil {
		writeError(w, err)
		return
	}

	newPath, err := h.service.RenameFolder(payload.OldPath, payload.NewName)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, map[string]any{"newPath": newPath})
}

func (h *AssetHandler) DeleteFolder(w http.ResponseWriter, r *http.Request) {
	var payload model.DeleteFolderRequest
	if err := decodeJSON(r, &payload); err != nil {
		writeError(w, err)
		return
	}

	if err := h.service.DeleteFolder(payload.FolderPath); err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, nil)
}

func (h *AssetHandler) Upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize)

	if err := r.ParseMultipartForm(h.maxUploadSize); err != nil {
		writeError(w, err)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, apierror.BadRequest("no file uploaded", "file"))
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		writeError(w, err)
		return
	}

	entry, err := h.service.Upload(
		strings.TrimSpace(r.FormValue("folder")),
		data,
		header.Filename,
		header.Header.Get("Content-Type"),
	)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, map[string]any{"asset": entry})
}

func (h *AssetHandler) Rename(w http.ResponseWriter, r *http.Request) {
	var payload model.RenameAssetRequest
	if err := decodeJSON(r, &payload); err != nil {
		writeError(w, err)
		return
	}

	updated, err := h.service.Rename(chi.URLParam(r, "id"), payload.NewName)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, map[string]any{"asset": updated})
}

func (h *AssetHandler) Move(w http.ResponseWriter, r *http.Request) {
	var payload model.MoveAssetRequest
	if err := decodeJSON(r, &payload); err != nil {
		writeError(w, err)
		return
	}

	updated, err := h.service.Move(chi.URLParam(r, "id"), payload.TargetFolder)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, map[string]any{"asset": updated})
}

func (h *AssetHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, nil)
}
