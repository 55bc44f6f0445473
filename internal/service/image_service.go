package service

import (
	"crypto/sha256"
	"encoding/hex"
	"image"
	"image/jpeg"
	"math"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	_ "image/gif"
	_ "image/png"

	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"

	"github.com/pranav1211/bmb-content-server/internal/storage"
	"github.com/pranav1211/bmb-content-server/pkg/apierror"
)

// ImageService renders scaled JPEG previews of stored media on demand,
// caching them on disk keyed by source path and size. Sources are
// addressed by their canonical serving path (/thumbnails/..., /assets/...,
// /uploads/...) so the preview URL mirrors the static one.
type ImageService struct {
	roots     map[string]*storage.Root
	cacheRoot *storage.Root
}

func NewImageService(roots map[string]*storage.Root, cacheRoot *storage.Root) *ImageService {
	return &ImageService{roots: roots, cacheRoot: cacheRoot}
}

func (s *ImageService) Preview(servingPath string, size int) (*os.File, os.FileInfo, error) {
	if size <= 0 {
		size = 256
	}

	mount, rel, err := splitServingPath(servingPath)
	if err != nil {
		return nil, nil, err
	}

	root, ok := s.roots[mount]
	if !ok {
		return nil, nil, apierror.NotFound("unknown media root", mount)
	}

	resolved, err := root.Resolve(rel)
	if err != nil {
		return nil, nil, err
	}

	info, err := os.Stat(resolved)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil, apierror.NotFound("file not found", servingPath)
		}
		return nil, nil, err
	}
	if info.IsDir() {
		return nil, nil, apierror.BadRequest("path points to a directory", servingPath)
	}

	cacheName := previewCacheName(resolved, size)
	cachePath, err := s.cacheRoot.Resolve(cacheName)
	if err != nil {
		return nil, nil, err
	}

	// Serve from cache when the cached copy is at least as new as the
	// source file.
	if cacheInfo, statErr := os.Stat(cachePath); statErr == nil && !cacheInfo.ModTime().Before(info.ModTime()) {
		if cached, openErr := os.Open(cachePath); openErr == nil {
			return cached, cacheInfo, nil
		}
	}

	src, err := decodeImage(resolved)
	if err != nil {
		return nil, nil, err
	}

	if err := writeScaledJPEG(src, cachePath, size); err != nil {
		return nil, nil, err
	}

	cached, err := os.Open(cachePath)
	if err != nil {
		return nil, nil, err
	}

	cacheInfo, err := os.Stat(cachePath)
	if err != nil {
		_ = cached.Close()
		return nil, nil, err
	}

	return cached, cacheInfo, nil
}

func splitServingPath(servingPath string) (string, string, error) {
	trimmed := strings.TrimPrefix(strings.TrimSpace(servingPath), "/")
	mount, rel, found := strings.Cut(trimmed, "/")
	if !found || mount == "" || rel == "" {
		return "", "", apierror.BadRequest("path must name a media root and a file", servingPath)
	}

	return mount, rel, nil
}

func previewCacheName(resolvedPath string, size int) string {
	sum := sha256.Sum256([]byte(resolvedPath + "|" + strconv.Itoa(size)))
	return hex.EncodeToString(sum[:]) + ".jpg"
}

func decodeImage(resolvedPath string) (image.Image, error) {
	file, err := os.Open(resolvedPath)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	src, _, err := image.Decode(file)
	if err != nil {
		return nil, apierror.New("UNSUPPORTED_TYPE", "cannot decode image", err.Error(), http.StatusUnsupportedMediaType)
	}

	return src, nil
}

// writeScaledJPEG scales so the longer edge fits size (never upscaling)
// and encodes the result to targetPath.
func writeScaledJPEG(src image.Image, targetPath string, size int) error {
	bounds := src.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()
	if width <= 0 || height <= 0 {
		return apierror.New("UNSUPPORTED_TYPE", "invalid image dimensions", "", http.StatusUnsupportedMediaType)
	}

	maxDim := width
	if height > maxDim {
		maxDim = height
	}

	scale := float64(size) / float64(maxDim)
	if scale > 1 {
		scale = 1
	}

	targetWidth := int(math.Round(float64(width) * scale))
	targetHeight := int(math.Round(float64(height) * scale))
	if targetWidth < 1 {
		targetWidth = 1
	}
	if targetHeight < 1 {
		targetHeight = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, targetWidth, targetHeight))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, bounds, draw.Over, nil)

	if err := os.MkdirAll(filepath.Dir(targetPath), 0o755); err != nil {
		return err
	}

	out, err := os.OpenFile(targetPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}

	encodeErr := jpeg.Encode(out, dst, &jpeg.Options{Quality: 90})
	closeErr := out.Close()
	if encodeErr != nil {
		return encodeErr
	}

	return closeErr
}
