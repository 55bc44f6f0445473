package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pranav1211/bmb-content-server/internal/auth"
	"github.com/pranav1211/bmb-content-server/internal/config"
	"github.com/pranav1211/bmb-content-server/internal/event"
	"github.com/pranav1211/bmb-content-server/internal/handler"
	"github.com/pranav1211/bmb-content-server/internal/hook"
	"github.com/pranav1211/bmb-content-server/internal/metadata"
	"github.com/pranav1211/bmb-content-server/internal/middleware"
	"github.com/pranav1211/bmb-content-server/internal/router"
	"github.com/pranav1211/bmb-content-server/internal/service"
	"github.com/pranav1211/bmb-content-server/internal/storage"
)

type App struct {
	server       *http.Server
	cleanupFuncs []func()
}

func New() (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	store, err := metadata.NewStore(cfg.DataDir)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize metadata store: %w", err)
	}

	thumbnails, err := storage.New(cfg.ThumbnailsRoot)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize thumbnails root: %w", err)
	}
	assets, err := storage.New(cfg.AssetsRoot)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize assets root: %w", err)
	}
	uploads, err := storage.New(cfg.UploadsRoot)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize uploads root: %w", err)
	}
	public, err := storage.New(cfg.PublicDir)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize public root: %w", err)
	}
	previewCache, err := storage.New(cfg.PreviewCacheDir)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize preview cache: %w", err)
	}

	authService, err := auth.NewService(cfg.AdminPasswordHash, cfg.JWTSecret, cfg.SessionTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize auth service: %w", err)
	}
	authMiddleware := middleware.NewAuthMiddleware(authService)

	bus := event.NewBus()

	hookCtx, hookCancel := context.WithCancel(context.Background())
	if cfg.SyncHookCommand != "" {
		runner := hook.NewRunner(cfg.SyncHookCommand, cfg.SyncHookWorkDir)
		go runner.Start(hookCtx, bus)
		slog.Info("sync hook enabled", "command", cfg.SyncHookCommand)
	}

	categoryService := service.NewCategoryService(store, thumbnails, bus)
	thumbnailService := service.NewThumbnailService(store, thumbnails, bus)
	assetService := service.NewAssetService(store, assets, bus)
	postService := service.NewPostService(store, uploads, bus)
	imageService := service.NewImageService(map[string]*storage.Root{
		"thumbnails": thumbnails,
		"assets":     assets,
		"uploads":    uploads,
	}, previewCache)

	appRouter := router.New(cfg, authMiddleware, router.Handlers{
		Auth:      handler.NewAuthHandler(authService),
		Category:  handler.NewCategoryHandler(categoryService),
		Thumbnail: handler.NewThumbnailHandler(thumbnailService, cfg.MaxThumbnailUpload),
		Asset:     handler.NewAssetHandler(assetService, cfg.MaxAssetUpload),
		Post:      handler.NewPostHandler(postService, cfg.MaxPostUpload),
		Media:     handler.NewMediaHandler(imageService),

		ThumbnailFiles: handler.NewStaticHandler(thumbnails),
		AssetFiles:     handler.NewStaticHandler(assets),
		UploadFiles:    handler.NewStaticHandler(uploads),
		PublicFiles:    handler.NewPublicHandler(public),
	})

	server := &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      appRouter,
		ReadTimeout:  cfg.ServerReadTimeout,
		WriteTimeout: cfg.ServerWriteTimeout,
		IdleTimeout:  cfg.ServerIdleTimeout,
	}

	return &App{
		server: server,
		cleanupFuncs: []func(){
			hookCancel,
		},
	}, nil
}

func (a *App) Run() error {
	go func() {
		slog.Info("server starting", "addr", a.server.Addr)
		if serveErr := a.server.ListenAndServe(); serveErr != nil && !errors.Is(serveErr, http.ErrServerClosed) {
			slog.Error("server failed", "error", serveErr)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	for _, cleanup := range a.cleanupFuncs {
		cleanup()
	}

	if err := a.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}

	slog.Info("server stopped")
	return nil
}
