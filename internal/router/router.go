package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/pranav1211/bmb-content-server/internal/config"
	"github.com/pranav1211/bmb-content-server/internal/handler"
	"github.com/pranav1211/bmb-content-server/internal/middleware"
)

// Handlers bundles everything the route table needs.
type Handlers struct {
	Auth      *handler.AuthHandler
	Category  *handler.CategoryHandler
	Thumbnail *handler.ThumbnailHandler
	Asset     *handler.AssetHandler
	Post      *handler.PostHandler
	Media     *handler.MediaHandler

	ThumbnailFiles *handler.StaticHandler
	AssetFiles     *handler.StaticHandler
	UploadFiles    *handler.StaticHandler
	PublicFiles    *handler.StaticHandler
}

func New(cfg *config.Config, authMiddleware *middleware.AuthMiddleware, h Handlers) http.Handler {
	r := chi.NewRouter()
	rateLimitMiddleware := middleware.NewRateLimitMiddleware(cfg.RateLimitRPM, cfg.AuthRateLimitRPM)

	r.Use(middleware.Recovery)
	r.Use(middleware.Logging)
	r.Use(middleware.CORS(cfg.CORSOrigins))
	r.Use(rateLimitMiddleware.Handler)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Route("/api", func(api chi.Router) {
		api.Post("/auth/login", h.Auth.Login)

		api.Route("/categories", func(categories chi.Router) {
			categories.Get("/", h.Category.List)
			categories.With(authMiddleware.RequireAuth).Post("/", h.Category.Create)
			categories.With(authMiddleware.RequireAuth).Put("/{id}", h.Category.Rename)
			categories.With(authMiddleware.RequireAuth).Delete("/{id}", h.Category.Delete)
			categories.With(authMiddleware.RequireAuth).Post("/{id}/subcategories", h.Category.CreateSubcategory)
			categories.With(authMiddleware.RequireAuth).Put("/{catID}/subcategories/{subID}", h.Category.RenameSubcategory)
			categories.With(authMiddleware.RequireAuth).Delete("/{catID}/subcategories/{subID}", h.Category.DeleteSubcategory)
		})

		api.Get("/thumbnails", h.Thumbnail.List)
		api.With(authMiddleware.RequireAuth).Post("/upload/thumbnail", h.Thumbnail.Upload)
		api.With(authMiddleware.RequireAuth).Put("/thumbnails/{id}", h.Thumbnail.Edit)
		api.With(authMiddleware.RequireAuth).Delete("/thumbnails/{id}", h.Thumbnail.Delete)

		api.Route("/assets", func(assets chi.Router) {
			assets.Use(authMiddleware.RequireAuth)
			assets.Get("/", h.Asset.List)
			assets.Get("/folders", h.Asset.ListFolders)
			assets.Post("/folders", h.Asset.CreateFolder)
			assets.Put("/folders/rename", h.Asset.RenameFolder)
			assets.Delete("/folders", h.Asset.DeleteFolder)
			assets.Put("/{id}/rename", h.Asset.Rename)
			assets.Put("/{id}/move", h.Asset.Move)
			assets.Delete("/{id}", h.Asset.Delete)
		})
		api.With(authMiddleware.RequireAuth).Post("/upload/asset", h.Asset.Upload)

		api.Get("/posts", h.Post.List)
		api.Get("/posts/{slug}", h.Post.Get)
		api.With(authMiddleware.RequireAuth).Post("/upload/post", h.Post.Upload)
		api.With(authMiddleware.RequireAuth).Delete("/posts/{id}", h.Post.Delete)

		api.Get("/media/preview", h.Media.Preview)
	})

	r.Get("/thumbnails/*", h.ThumbnailFiles.Serve)
	r.Get("/assets/*", h.AssetFiles.Serve)
	r.Get("/uploads/*", h.UploadFiles.Serve)
	r.Get("/*", h.PublicFiles.Serve)

	return r
}
