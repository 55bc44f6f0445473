package handler

import (
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/pranav1211/bmb-content-server/internal/service"
	"github.com/pranav1211/bmb-content-server/pkg/apierror"
)

type PostHandler struct {
	service       *service.PostService
	maxUploadSize int64
}

func NewPostHandler(service *service.PostService, maxUploadSize int64) *PostHandler {
	return &PostHandler{service: service, maxUploadSize: maxUploadSize}
}

func (h *PostHandler) List(w http.ResponseWriter, r *http.Request) {
	writeSuccess(w, http.StatusOK, map[string]any{"posts": h.service.List()})
}

func (h *PostHandler) Get(w http.ResponseWriter, r *http.Request) {
	detail, err := h.service.Get(chi.URLParam(r, "slug"))
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, map[string]any{"post": detail})
}

func (h *PostHandler) Upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize)

	if err := r.ParseMultipartForm(h.maxUploadSize); err != nil {
		writeError(w, err)
		return
	}

	htmlData, err := readFormFile(r, "htmlFile")
	if err != nil {
		writeError(w, err)
		return
	}

	var images []service.PostImage
	if r.MultipartForm != nil {
		for _, header := range r.MultipartForm.File["images"] {
			data, err := readFileHeader(header)
			if err != nil {
				writeError(w, err)
				return
			}
			images = append(images, service.PostImage{
				Name:     header.Filename,
				MimeType: header.Header.Get("Content-Type"),
				Data:     data,
			})
		}
	}

	post, err := h.service.Upload(strings.TrimSpace(r.FormValue("title")), htmlData, images)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusCreated, map[string]any{"post": post})
}

func (h *PostHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, nil)
}

func readFormFile(r *http.Request, field string) ([]byte, error) {
	file, _, err := r.FormFile(field)
	if err != nil {
		return nil, apierror.BadRequest("missing file field", field)
	}
	defer file.Close()

	return io.ReadAll(file)
}

func readFileHeader(header *multipart.FileHeader) ([]byte, error) {
	file, err := header.Open()
	if err != nil {
		return nil, apierror.IO("failed to read uploaded file", err)
	}
	defer file.Close()

	return io.ReadAll(file)
}
