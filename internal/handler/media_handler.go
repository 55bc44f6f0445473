package handler

import (
	"net/http"
	"strconv"

	"github.com/pranav1211/bmb-content-server/internal/service"
	"github.com/pranav1211/bmb-content-server/pkg/apierror"
)

const (
	previewDefaultSize = 256
	previewMinSize     = 32
	previewMaxSize     = 2048
)

type MediaHandler struct {
	service *service.ImageService
}

func NewMediaHandler(service *service.ImageService) *MediaHandler {
	return &MediaHandler{service: service}
}

func (h *MediaHandler) Preview(w http.ResponseWriter, r *http.Request) {
	servingPath := r.URL.Query().Get("path")
	if servingPath == "" {
		writeError(w, apierror.BadRequest("missing path parameter", "path"))
		return
	}

	size := previewDefaultSize
	if raw := r.URL.Query().Get("size"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			writeError(w, apierror.BadRequest("size must be an integer", raw))
			return
		}
		size = parsed
	}
	if size < previewMinSize {
		size = previewMinSize
	}
	if size > previewMaxSize {
		size = previewMaxSize
	}

	file, info, err := h.service.Preview(servingPath, size)
	if err != nil {
		writeError(w, err)
		return
	}
	defer file.Close()

	w.Header().Set("Content-Type", "image/jpeg")
	w.Header().Set("Cache-Control", "public, max-age=3600")
	http.ServeContent(w, r, info.Name(), info.ModTime(), file)
}
