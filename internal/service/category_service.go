package service

import (
	"log/slog"

	"github.com/pranav1211/bmb-content-server/internal/event"
	"github.com/pranav1211/bmb-content-server/internal/metadata"
	"github.com/pranav1211/bmb-content-server/internal/model"
	"github.com/pranav1211/bmb-content-server/internal/storage"
	"github.com/pranav1211/bmb-content-server/internal/util"
	"github.com/pranav1211/bmb-content-server/pkg/apierror"
)

// CategoryService owns categories and subcategories: the per-category
// JSON documents plus the matching directory tree under the thumbnails
// root.
type CategoryService struct {
	store  *metadata.Store
	thumbs *storage.Root
	bus    event.Bus
}

func NewCategoryService(store *metadata.Store, thumbs *storage.Root, bus event.Bus) *CategoryService {
	return &CategoryService{store: store, thumbs: thumbs, bus: bus}
}

// List never fails; categories whose documents cannot be read are treated
// as absent.
func (s *CategoryService) List() []model.CategorySummary {
	ids := s.store.CategoryIDs()
	summaries := make([]model.CategorySummary, 0, len(ids))
	for _, id := range ids {
		doc, err := s.store.LoadCategory(id)
		if err != nil {
			continue
		}

		name := doc.Name
		if name == "" {
			name = id
		}

		summaries = append(summaries, model.CategorySummary{
			ID:             id,
			Name:           name,
			Subcategories:  doc.Subcategories,
			ThumbnailCount: len(doc.Thumbnails),
		})
	}

	return summaries
}

func (s *CategoryService) Create(id string, name string) (model.CategorySummary, error) {
	sanitized := util.SanitizeCategoryID(id)
	if sanitized == "" {
		return model.CategorySummary{}, apierror.BadRequest("invalid category id", id)
	}
	if sanitized == metadata.ReservedKey {
		return model.CategorySummary{}, apierror.New("RESERVED", "category id is reserved", sanitized, 400)
	}
	if name == "" {
		return model.CategorySummary{}, apierror.BadRequest("category name is required", "")
	}

	unlock := s.store.Lock(sanitized)
	defer unlock()

	if s.store.CategoryExists(sanitized) {
		return model.CategorySummary{}, apierror.AlreadyExists("category already exists", sanitized)
	}

	doc := model.CategoryDoc{Name: name, Subcategories: []model.Subcategory{}, Thumbnails: []model.Thumbnail{}}
	if err := s.store.SaveCategory(sanitized, doc); err != nil {
		return model.CategorySummary{}, err
	}

	if err := s.thumbs.MkdirAll(sanitized); err != nil {
		return model.CategorySummary{}, apierror.IO("failed to create category directory", err)
	}

	s.publish(event.TypeCategoryCreated, map[string]string{"id": sanitized})
	slog.Info("category created", "id", sanitized)

	return model.CategorySummary{ID: sanitized, Name: name, Subcategories: doc.Subcategories}, nil
}

// Rename updates the display name only; the id and files are untouched.
func (s *CategoryService) Rename(id string, newName string) error {
	if newName == "" {
		return apierror.BadRequest("category name is required", "")
	}

	unlock := s.store.Lock(id)
	defer unlock()

	doc, err := s.store.LoadCategory(id)
	if err != nil {
		return err
	}

	doc.Name = newName
	if err := s.store.SaveCategory(id, doc); err != nil {
		return err
	}

	s.publish(event.TypeCategoryRenamed, map[string]string{"id": id, "name": newName})
	return nil
}

// Delete removes the category's whole thumbnail directory and its JSON
// document. Destructive and non-recoverable.
func (s *CategoryService) Delete(id string) error {
	unlock := s.store.Lock(id)
	defer unlock()

	if !s.store.CategoryExists(id) {
		return apierror.NotFound("category not found", id)
	}

	if err := s.thumbs.RemoveAll(id); err != nil {
		return apierror.IO("failed to remove category directory", err)
	}

	if err := s.store.DeleteCategory(id); err != nil {
		return err
	}

	s.publish(event.TypeCategoryDeleted, map[string]string{"id": id})
	slog.Info("category deleted", "id", id)
	return nil
}

func (s *CategoryService) CreateSubcategory(catID string, subID string, name string) error {
	sanitized := util.SanitizeSubcategoryID(subID)
	if sanitized == "" {
		return apierror.BadRequest("invalid subcategory id", subID)
	}
	if name == "" {
		return apierror.BadRequest("subcategory name is required", "")
	}

	unlock := s.store.Lock(catID)
	defer unlock()

	doc, err := s.store.LoadCategory(catID)
	if err != nil {
		return err
	}

	for _, sub := range doc.Subcategories {
		if sub.ID == sanitized {
			return apierror.AlreadyExists("subcategory already exists", sanitized)
		}
	}

	doc.Subcategories = append(doc.Subcategories, model.Subcategory{ID: sanitized, Name: name})
	if err := s.store.SaveCategory(catID, doc); err != nil {
		return err
	}

	if err := s.thumbs.MkdirAll(thumbRelDir(catID, sanitized)); err != nil {
		return apierror.IO("failed to create subcategory directory", err)
	}

	return nil
}

func (s *CategoryService) RenameSubcategory(catID string, subID string, newName string) error {
	if newName == "" {
		return apierror.BadRequest("subcategory name is required", "")
	}

	unlock := s.store.Lock(catID)
	defer unlock()

	doc, err := s.store.LoadCategory(catID)
	if err != nil {
		return err
	}

	for i := range doc.Subcategories {
		if doc.Subcategories[i].ID == subID {
			doc.Subcategories[i].Name = newName
			return s.store.SaveCategory(catID, doc)
		}
	}

	return apierror.NotFound("subcategory not found", subID)
}

// DeleteSubcategory removes the grouping but not its thumbnails: orphans
// are moved to the category's root directory with collision-safe names,
// their subcategory cleared and their path recomputed, so no entry is
// left referencing the deleted id.
func (s *CategoryService) DeleteSubcategory(catID string, subID string) error {
	unlock := s.store.Lock(catID)
	defer unlock()

	doc, err := s.store.LoadCategory(catID)
	if err != nil {
		return err
	}

	found := -1
	for i, sub := range doc.Subcategories {
		if sub.ID == subID {
			found = i
			break
		}
	}
	if found == -1 {
		return apierror.NotFound("subcategory not found", subID)
	}

	for i := range doc.Thumbnails {
		if doc.Thumbnails[i].Subcategory != subID {
			continue
		}

		thumb := &doc.Thumbnails[i]
		newName, nameErr := util.UniqueFilename(thumb.Filename, func(candidate string) bool {
			return s.thumbs.Exists(catID + "/" + candidate)
		})
		if nameErr != nil {
			return nameErr
		}

		oldRel := thumbRelDir(catID, subID) + "/" + thumb.Filename
		if s.thumbs.Exists(oldRel) {
			if renameErr := s.thumbs.Rename(oldRel, catID+"/"+newName); renameErr != nil {
				return apierror.IO("failed to move thumbnail out of subcategory", renameErr)
			}
		}

		thumb.Filename = newName
		thumb.Subcategory = ""
		thumb.Path = thumbPath(catID, "", newName)
	}

	doc.Subcategories = append(doc.Subcategories[:found], doc.Subcategories[found+1:]...)
	if err := s.store.SaveCategory(catID, doc); err != nil {
		return err
	}

	// The emptied directory is no longer addressable; drop it.
	if err := s.thumbs.RemoveAll(thumbRelDir(catID, subID)); err != nil {
		slog.Warn("failed to remove subcategory directory", "category", catID, "subcategory", subID, "error", err)
	}

	return nil
}

func (s *CategoryService) publish(t event.Type, payload any) {
	publish(s.bus, t, payload)
}
