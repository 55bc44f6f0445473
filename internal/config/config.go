package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	ServerPort         string
	ServerReadTimeout  time.Duration
	ServerWriteTimeout time.Duration
	ServerIdleTimeout  time.Duration

	DataDir         string
	ThumbnailsRoot  string
	AssetsRoot      string
	UploadsRoot     string
	PublicDir       string
	PreviewCacheDir string

	AdminPasswordHash string
	JWTSecret         string
	SessionTTL        time.Duration

	CORSOrigins      []string
	RateLimitRPM     int
	AuthRateLimitRPM int

	MaxThumbnailUpload int64
	MaxAssetUpload     int64
	MaxPostUpload      int64

	SyncHookCommand string
	SyncHookWorkDir string
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		ServerPort:         getEnv("SERVER_PORT", "3000"),
		ServerReadTimeout:  getDuration("SERVER_READ_TIMEOUT", 15*time.Second),
		ServerWriteTimeout: getDuration("SERVER_WRITE_TIMEOUT", 60*time.Second),
		ServerIdleTimeout:  getDuration("SERVER_IDLE_TIMEOUT", 120*time.Second),

		DataDir:         getEnv("DATA_DIR", "./data"),
		ThumbnailsRoot:  getEnv("THUMBNAILS_ROOT", "./thumbnails"),
		AssetsRoot:      getEnv("ASSETS_ROOT", "./assets"),
		UploadsRoot:     getEnv("UPLOADS_ROOT", "./uploads"),
		PublicDir:       getEnv("PUBLIC_DIR", "./public"),
		PreviewCacheDir: getEnv("PREVIEW_CACHE_DIR", "./state/previews"),

		AdminPasswordHash: strings.TrimSpace(os.Getenv("ADMIN_PASSWORD_HASH")),
		JWTSecret:         strings.TrimSpace(os.Getenv("JWT_SECRET")),
		SessionTTL:        getDuration("SESSION_TTL", 12*time.Hour),

		CORSOrigins:      splitCSV(getEnv("CORS_ORIGINS", "*")),
		RateLimitRPM:     getInt("RATE_LIMIT_RPM", 300),
		AuthRateLimitRPM: getInt("AUTH_RATE_LIMIT_RPM", 10),

		MaxThumbnailUpload: getInt64("MAX_THUMBNAIL_UPLOAD", 10*1024*1024),
		MaxAssetUpload:     getInt64("MAX_ASSET_UPLOAD", 50*1024*1024),
		MaxPostUpload:      getInt64("MAX_POST_UPLOAD", 10*1024*1024),

		SyncHookCommand: strings.TrimSpace(os.Getenv("SYNC_HOOK_COMMAND")),
		SyncHookWorkDir: getEnv("SYNC_HOOK_WORKDIR", "."),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.ServerPort == "" {
		return fmt.Errorf("SERVER_PORT cannot be empty")
	}

	if c.AdminPasswordHash == "" {
		return fmt.Errorf("ADMIN_PASSWORD_HASH is required")
	}

	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}

	for key, value := range map[string]string{
		"DATA_DIR":        c.DataDir,
		"THUMBNAILS_ROOT": c.ThumbnailsRoot,
		"ASSETS_ROOT":     c.AssetsRoot,
		"UPLOADS_ROOT":    c.UploadsRoot,
	} {
		if strings.TrimSpace(value) == "" {
			return fmt.Errorf("%s cannot be empty", key)
		}
	}

	if c.MaxThumbnailUpload <= 0 || c.MaxAssetUpload <= 0 || c.MaxPostUpload <= 0 {
		return fmt.Errorf("upload size limits must be positive")
	}

	return nil
}

func getEnv(key string, fallback string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}

	return v
}

func getInt(key string, fallback int) int {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}

	v, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}

	return v
}

func getInt64(key string, fallback int64) int64 {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}

	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return fallback
	}

	return v
}

func getDuration(key string, fallback time.Duration) time.Duration {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}

	v, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}

	return v
}

func splitCSV(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed == "" {
			continue
		}
		out = append(out, trimmed)
	}

	return out
}
