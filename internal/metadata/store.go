package metadata

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/pranav1211/bmb-content-server/internal/model"
	"github.com/pranav1211/bmb-content-server/pkg/apierror"
)

// ReservedKey addresses the combined posts/assets document and can never
// be used as a category id.
const ReservedKey = "metadata"

// Store reads and writes the JSON documents under one data directory: the
// combined metadata.json plus one {categoryId}.json per category. It is
// the source of truth for all entity listings. Writes are whole-document
// tmp-file+rename so an interrupted process never leaves a truncated file.
//
// The store deliberately re-reads from disk on every call instead of
// caching; the keyed mutex lets callers serialize their read-modify-write
// cycles per document without blocking unrelated resources.
type Store struct {
	dataDir string

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewStore(dataDir string) (*Store, error) {
	if strings.TrimSpace(dataDir) == "" {
		return nil, fmt.Errorf("data directory cannot be empty")
	}

	abs, err := filepath.Abs(dataDir)
	if err != nil {
		return nil, fmt.Errorf("resolve data directory: %w", err)
	}

	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}

	return &Store{dataDir: abs, locks: map[string]*sync.Mutex{}}, nil
}

// Lock acquires the per-document mutexes for the given keys and returns
// the unlock func. Keys are deduplicated and taken in sorted order so two
// callers locking overlapping key sets cannot deadlock.
func (s *Store) Lock(keys ...string) func() {
	unique := map[string]struct{}{}
	for _, key := range keys {
		unique[key] = struct{}{}
	}

	ordered := make([]string, 0, len(unique))
	for key := range unique {
		ordered = append(ordered, key)
	}
	sort.Strings(ordered)

	acquired := make([]*sync.Mutex, 0, len(ordered))
	for _, key := range ordered {
		mu := s.lockFor(key)
		mu.Lock()
		acquired = append(acquired, mu)
	}

	return func() {
		for i := len(acquired) - 1; i >= 0; i-- {
			acquired[i].Unlock()
		}
	}
}

func (s *Store) lockFor(key string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()

	if mu, ok := s.locks[key]; ok {
		return mu
	}

	mu := &sync.Mutex{}
	s.locks[key] = mu
	return mu
}

// CategoryIDs lists every known category id from the data directory.
// Unreadable directories yield an empty list; listings never fail.
func (s *Store) CategoryIDs() []string {
	entries, err := os.ReadDir(s.dataDir)
	if err != nil {
		return nil
	}

	ids := make([]string, 0, len(entries))
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".json") {
			continue
		}

		id := strings.TrimSuffix(name, ".json")
		if id == ReservedKey || id == "" {
			continue
		}

		ids = append(ids, id)
	}

	sort.Strings(ids)
	return ids
}

func (s *Store) CategoryExists(id string) bool {
	_, err := os.Stat(s.categoryPath(id))
	return err == nil
}

// LoadCategory reads one category document. A missing or malformed file
// is reported as NOT_FOUND; listings treat that as "absent" while
// mutations surface it to the caller.
func (s *Store) LoadCategory(id string) (model.CategoryDoc, error) {
	raw, err := os.ReadFile(s.categoryPath(id))
	if err != nil {
		return model.CategoryDoc{}, apierror.NotFound("category not found", id)
	}

	var doc model.CategoryDoc
	if err := json.Unmarshal(raw, &doc); err != nil {
		return model.CategoryDoc{}, apierror.NotFound("category document is unreadable", id)
	}

	if doc.Subcategories == nil {
		doc.Subcategories = []model.Subcategory{}
	}
	if doc.Thumbnails == nil {
		doc.Thumbnails = []model.Thumbnail{}
	}

	return doc, nil
}

func (s *Store) SaveCategory(id string, doc model.CategoryDoc) error {
	if err := s.writeDoc(s.categoryPath(id), doc); err != nil {
		return apierror.IO("failed to persist category document", err)
	}

	return nil
}

func (s *Store) DeleteCategory(id string) error {
	if err := os.Remove(s.categoryPath(id)); err != nil {
		return apierror.IO("failed to remove category document", err)
	}

	return nil
}

// LoadIndex reads the combined posts/assets document. Missing or invalid
// files return the default empty shape so the system is self-healing on
// first run.
func (s *Store) LoadIndex() model.IndexDoc {
	doc := model.IndexDoc{Posts: []model.Post{}, Assets: []model.Asset{}}

	raw, err := os.ReadFile(s.indexPath())
	if err != nil {
		return doc
	}

	if err := json.Unmarshal(raw, &doc); err != nil {
		return model.IndexDoc{Posts: []model.Post{}, Assets: []model.Asset{}}
	}

	if doc.Posts == nil {
		doc.Posts = []model.Post{}
	}
	if doc.Assets == nil {
		doc.Assets = []model.Asset{}
	}

	return doc
}

func (s *Store) SaveIndex(doc model.IndexDoc) error {
	if err := s.writeDoc(s.indexPath(), doc); err != nil {
		return apierror.IO("failed to persist metadata document", err)
	}

	return nil
}

func (s *Store) categoryPath(id string) string {
	return filepath.Join(s.dataDir, id+".json")
}

func (s *Store) indexPath() string {
	return filepath.Join(s.dataDir, ReservedKey+".json")
}

// writeDoc marshals and writes via a sibling temp file followed by rename.
func (s *Store) writeDoc(path string, doc any) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(s.dataDir, ".doc-*.tmp")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return err
	}

	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return err
	}

	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return err
	}

	return nil
}
