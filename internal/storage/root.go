package storage

import (
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/pranav1211/bmb-content-server/pkg/apierror"
)

// Root confines all path resolution to one absolute base directory. It is
// pure path math plus a boundary check; the filesystem helpers below all
// resolve before touching disk.
type Root struct {
	abs string
}

// New resolves base to an absolute path and creates the directory if it
// does not exist yet.
func New(base string) (*Root, error) {
	if strings.TrimSpace(base) == "" {
		return nil, fmt.Errorf("root path cannot be empty")
	}

	abs, err := filepath.Abs(base)
	if err != nil {
		return nil, fmt.Errorf("resolve root: %w", err)
	}

	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, fmt.Errorf("create root %q: %w", abs, err)
	}

	return &Root{abs: abs}, nil
}

func (r *Root) Abs() string {
	return r.abs
}

// Resolve joins a user-supplied relative path onto the root and rejects
// anything that would escape it. The containment check compares full
// normalized paths so a sibling like "root-evil" never passes as "root".
func (r *Root) Resolve(relPath string) (string, error) {
	normalized := strings.ReplaceAll(strings.TrimSpace(relPath), `\`, "/")
	normalized = strings.TrimPrefix(normalized, "/")
	if normalized == "" {
		return r.abs, nil
	}

	if strings.Contains(normalized, "\x00") || hasControlChars(normalized) {
		return "", apierror.New("INVALID_PATH", "path contains invalid characters", relPath, http.StatusBadRequest)
	}

	for _, segment := range strings.Split(normalized, "/") {
		if segment == ".." {
			return "", apierror.New("PATH_TRAVERSAL", "path traversal attempt detected", relPath, http.StatusForbidden)
		}
	}

	cleaned := filepath.Clean(normalized)
	if cleaned == "." {
		return r.abs, nil
	}

	resolved, err := filepath.Abs(filepath.Join(r.abs, cleaned))
	if err != nil {
		return "", fmt.Errorf("resolve %q: %w", relPath, err)
	}

	if resolved != r.abs && !strings.HasPrefix(resolved, r.abs+string(filepath.Separator)) {
		return "", apierror.New("PATH_TRAVERSAL", "resolved path is outside the root", relPath, http.StatusForbidden)
	}

	return resolved, nil
}

func (r *Root) Stat(relPath string) (fs.FileInfo, error) {
	resolved, err := r.Resolve(relPath)
	if err != nil {
		return nil, err
	}

	return os.Stat(resolved)
}

// Exists reports whether the path resolves inside the root and something
// is present at it.
func (r *Root) Exists(relPath string) bool {
	resolved, err := r.Resolve(relPath)
	if err != nil {
		return false
	}

	_, statErr := os.Stat(resolved)
	return statErr == nil
}

func (r *Root) MkdirAll(relPath string) error {
	resolved, err := r.Resolve(relPath)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(resolved, 0o755); err != nil {
		return fmt.Errorf("mkdir %q: %w", relPath, err)
	}

	return nil
}

func (r *Root) ReadDir(relPath string) ([]fs.DirEntry, error) {
	resolved, err := r.Resolve(relPath)
	if err != nil {
		return nil, err
	}

	return os.ReadDir(resolved)
}

func (r *Root) Rename(oldRel string, newRel string) error {
	oldResolved, err := r.Resolve(oldRel)
	if err != nil {
		return err
	}

	newResolved, err := r.Resolve(newRel)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(newResolved), 0o755); err != nil {
		return fmt.Errorf("prepare destination %q: %w", newRel, err)
	}

	if err := os.Rename(oldResolved, newResolved); err != nil {
		return fmt.Errorf("rename %q to %q: %w", oldRel, newRel, err)
	}

	return nil
}

func (r *Root) RemoveAll(relPath string) error {
	resolved, err := r.Resolve(relPath)
	if err != nil {
		return err
	}

	if resolved == r.abs {
		return apierror.New("INVALID_PATH", "refusing to remove the root itself", relPath, http.StatusBadRequest)
	}

	if err := os.RemoveAll(resolved); err != nil {
		return fmt.Errorf("remove %q: %w", relPath, err)
	}

	return nil
}

// Remove deletes a single file. A missing file is not an error; callers
// treat file removal and metadata removal as one logical operation and a
// file that is already gone leaves nothing to undo.
func (r *Root) Remove(relPath string) error {
	resolved, err := r.Resolve(relPath)
	if err != nil {
		return err
	}

	if err := os.Remove(resolved); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove %q: %w", relPath, err)
	}

	return nil
}

func (r *Root) WriteFile(relPath string, data []byte) error {
	resolved, err := r.Resolve(relPath)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(resolved), 0o755); err != nil {
		return fmt.Errorf("create parent directory: %w", err)
	}

	if err := os.WriteFile(resolved, data, 0o644); err != nil {
		return fmt.Errorf("write %q: %w", relPath, err)
	}

	return nil
}

func (r *Root) ReadFile(relPath string) ([]byte, error) {
	resolved, err := r.Resolve(relPath)
	if err != nil {
		return nil, err
	}

	return os.ReadFile(resolved)
}

func (r *Root) Open(relPath string) (*os.File, error) {
	resolved, err := r.Resolve(relPath)
	if err != nil {
		return nil, err
	}

	return os.Open(resolved)
}

func hasControlChars(value string) bool {
	for _, char := range value {
		if unicode.IsControl(char) {
			return true
		}
	}

	return false
}
