package handler

import (
	"net/http"
	"os"
	"path"

	"github.com/go-chi/chi/v5"

	"github.com/pranav1211/bmb-content-server/internal/storage"
	"github.com/pranav1211/bmb-content-server/pkg/apierror"
)

// StaticHandler serves files from one storage root. Every request path is
// resolved through the root's boundary check before anything is opened, so
// the usual http.FileServer traversal concerns do not apply.
type StaticHandler struct {
	root      *storage.Root
	indexFile string
}

func NewStaticHandler(root *storage.Root) *StaticHandler {
	return &StaticHandler{root: root}
}

// NewPublicHandler serves a static site directory, falling back to
// index.html for the root path.
func NewPublicHandler(root *storage.Root) *StaticHandler {
	return &StaticHandler{root: root, indexFile: "index.html"}
}

func (h *StaticHandler) Serve(w http.ResponseWriter, r *http.Request) {
	relPath := chi.URLParam(r, "*")
	if relPath == "" && h.indexFile != "" {
		relPath = h.indexFile
	}

	info, err := h.root.Stat(relPath)
	if err != nil {
		if os.IsNotExist(err) {
			writeError(w, apierror.NotFound("file not found", relPath))
			return
		}
		writeError(w, err)
		return
	}

	if info.IsDir() {
		if h.indexFile == "" {
			writeError(w, apierror.NotFound("file not found", relPath))
			return
		}

		relPath = path.Join(relPath, h.indexFile)
		if info, err = h.root.Stat(relPath); err != nil {
			writeError(w, apierror.NotFound("file not found", relPath))
			return
		}
	}

	file, err := h.root.Open(relPath)
	if err != nil {
		writeError(w, err)
		return
	}
	defer file.Close()

	http.ServeContent(w, r, info.Name(), info.ModTime(), file)
}
