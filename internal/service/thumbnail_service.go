package service

import (
	"log/slog"
	"net/http"
	"sort"
	"strings"

	"github.com/pranav1211/bmb-content-server/internal/event"
	"github.com/pranav1211/bmb-content-server/internal/metadata"
	"github.com/pranav1211/bmb-content-server/internal/model"
	"github.com/pranav1211/bmb-content-server/internal/storage"
	"github.com/pranav1211/bmb-content-server/internal/util"
	"github.com/pranav1211/bmb-content-server/pkg/apierror"
)

var allowedThumbnailMIMEs = map[string]struct{}{
	"image/jpeg": {},
	"image/png":  {},
	"image/webp": {},
}

// ThumbnailService keeps the thumbnail entries in the per-category JSON
// documents consistent with the files under the thumbnails root.
type ThumbnailService struct {
	store  *metadata.Store
	thumbs *storage.Root
	bus    event.Bus
}

func NewThumbnailService(store *metadata.Store, thumbs *storage.Root, bus event.Bus) *ThumbnailService {
	return &ThumbnailService{store: store, thumbs: thumbs, bus: bus}
}

// List flattens thumbnails from all categories, annotated with display
// names, optionally filtered, newest first.
func (s *ThumbnailService) List(category string, subcategory string) []model.ThumbnailInfo {
	all := []model.ThumbnailInfo{}
	for _, catID := range s.store.CategoryIDs() {
		doc, err := s.store.LoadCategory(catID)
		if err != nil {
			continue
		}

		subNames := map[string]string{}
		for _, sub := range doc.Subcategories {
			subNames[sub.ID] = sub.Name
		}

		for _, thumb := range doc.Thumbnails {
			all = append(all, model.ThumbnailInfo{
				Thumbnail:       thumb,
				Category:        catID,
				CategoryName:    doc.Name,
				SubcategoryName: subNames[thumb.Subcategory],
			})
		}
	}

	filtered := all[:0]
	for _, info := range all {
		if category != "" && info.Category != category {
			continue
		}
		if subcategory != "" && info.Subcategory != subcategory {
			continue
		}
		filtered = append(filtered, info)
	}

	sort.SliceStable(filtered, func(i int, j int) bool {
		return uploadedAfter(filtered[i].UploadDate, filtered[j].UploadDate)
	})

	return filtered
}

// Upload writes the file under {category}[/{subcategory}] with a
// collision-free name, then appends the entry to the category document.
func (s *ThumbnailService) Upload(category string, subcategory string, data []byte, originalName string, mimeType string) (model.Thumbnail, error) {
	if category == "" {
		return model.Thumbnail{}, apierror.BadRequest("category is required", "")
	}

	if _, ok := allowedThumbnailMIMEs[strings.ToLower(mimeType)]; !ok {
		return model.Thumbnail{}, apierror.New("UNSUPPORTED_TYPE", "only JPG, PNG, and WebP images are allowed", mimeType, http.StatusUnsupportedMediaType)
	}

	unlock := s.store.Lock(category)
	defer unlock()

	doc, err := s.store.LoadCategory(category)
	if err != nil {
		return model.Thumbnail{}, err
	}

	if err := validateSubcategory(doc, subcategory); err != nil {
		return model.Thumbnail{}, err
	}

	dir := thumbRelDir(category, subcategory)
	if err := s.thumbs.MkdirAll(dir); err != nil {
		return model.Thumbnail{}, apierror.IO("failed to prepare thumbnail directory", err)
	}

	filename, err := util.UniqueFilename(originalName, func(candidate string) bool {
		return s.thumbs.Exists(dir + "/" + candidate)
	})
	if err != nil {
		return model.Thumbnail{}, err
	}

	if err := s.thumbs.WriteFile(dir+"/"+filename, data); err != nil {
		return model.Thumbnail{}, apierror.IO("failed to write thumbnail file", err)
	}

	entry := model.Thumbnail{
		ID:           util.NewID(),
		Filename:     filename,
		OriginalName: originalName,
		Path:         thumbPath(category, subcategory, filename),
		FileSize:     int64(len(data)),
		MimeType:     mimeType,
		Subcategory:  subcategory,
		UploadDate:   nowISO(),
	}

	doc.Thumbnails = append(doc.Thumbnails, entry)
	if err := s.store.SaveCategory(category, doc); err != nil {
		// The file is on disk but the entry is not recorded; surface it
		// rather than pretend the upload succeeded.
		return model.Thumbnail{}, err
	}

	publish(s.bus, event.TypeThumbnailUploaded, entry)
	slog.Info("thumbnail uploaded", "id", entry.ID, "path", entry.Path)
	return entry, nil
}

// Edit is the unified move-and-maybe-rename operation: any combination of
// newName / newCategory / newSubcategory resolves to one file move and
// one path recomputation.
func (s *ThumbnailService) Edit(id string, req model.EditThumbnailRequest) (model.Thumbnail, error) {
	sourceCat, err := s.findOwner(id)
	if err != nil {
		return model.Thumbnail{}, err
	}

	targetCat := sourceCat
	if req.NewCategory != "" {
		targetCat = req.NewCategory
	}

	unlock := s.store.Lock(sourceCat, targetCat)
	defer unlock()

	// Re-read under the lock; the entry may have moved since the scan.
	sourceDoc, err := s.store.LoadCategory(sourceCat)
	if err != nil {
		return model.Thumbnail{}, err
	}

	index := thumbIndex(sourceDoc, id)
	if index == -1 {
		return model.Thumbnail{}, apierror.NotFound("thumbnail not found", id)
	}
	current := sourceDoc.Thumbnails[index]

	targetDoc := sourceDoc
	if targetCat != sourceCat {
		targetDoc, err = s.store.LoadCategory(targetCat)
		if err != nil {
			return model.Thumbnail{}, apierror.NotFound("target category not found", targetCat)
		}
	}

	targetSub := current.Subcategory
	if req.NewSubcategory != nil {
		targetSub = *req.NewSubcategory
	}
	if err := validateSubcategory(targetDoc, targetSub); err != nil {
		return model.Thumbnail{}, err
	}

	finalName := current.Filename
	if req.NewName != "" && req.NewName != current.Filename {
		finalName, err = util.SanitizeFilename(util.EnsureExtension(req.NewName, current.Filename))
		if err != nil {
			return model.Thumbnail{}, err
		}
	}

	oldRel := thumbRelDir(sourceCat, current.Subcategory) + "/" + current.Filename
	newRel := thumbRelDir(targetCat, targetSub) + "/" + finalName

	if oldRel != newRel {
		if s.thumbs.Exists(newRel) {
			return model.Thumbnail{}, apierror.AlreadyExists("a file with that name already exists in the target location", newRel)
		}
		if err := s.thumbs.MkdirAll(thumbRelDir(targetCat, targetSub)); err != nil {
			return model.Thumbnail{}, apierror.IO("failed to prepare target directory", err)
		}
		if s.thumbs.Exists(oldRel) {
			if err := s.thumbs.Rename(oldRel, newRel); err != nil {
				return model.Thumbnail{}, apierror.IO("failed to move thumbnail file", err)
			}
		}
	}

	current.Filename = finalName
	current.OriginalName = finalName
	current.Subcategory = targetSub
	current.Path = thumbPath(targetCat, targetSub, finalName)

	if targetCat == sourceCat {
		sourceDoc.Thumbnails[index] = current
		if err := s.store.SaveCategory(sourceCat, sourceDoc); err != nil {
			return model.Thumbnail{}, err
		}
	} else {
		sourceDoc.Thumbnails = append(sourceDoc.Thumbnails[:index], sourceDoc.Thumbnails[index+1:]...)
		if err := s.store.SaveCategory(sourceCat, sourceDoc); err != nil {
			return model.Thumbnail{}, err
		}

		targetDoc.Thumbnails = append(targetDoc.Thumbnails, current)
		if err := s.store.SaveCategory(targetCat, targetDoc); err != nil {
			return model.Thumbnail{}, err
		}
	}

	publish(s.bus, event.TypeThumbnailUpdated, current)
	return current, nil
}

// Delete removes the file (a missing file is tolerated) and the entry as
// one logical operation.
func (s *ThumbnailService) Delete(id string) error {
	sourceCat, err := s.findOwner(id)
	if err != nil {
		return err
	}

	unlock := s.store.Lock(sourceCat)
	defer unlock()

	doc, err := s.store.LoadCategory(sourceCat)
	if err != nil {
		return err
	}

	index := thumbIndex(doc, id)
	if index == -1 {
		return apierror.NotFound("thumbnail not found", id)
	}

	thumb := doc.Thumbnails[index]
	rel := thumbRelDir(sourceCat, thumb.Subcategory) + "/" + thumb.Filename
	if err := s.thumbs.Remove(rel); err != nil {
		return apierror.IO("failed to remove thumbnail file", err)
	}

	doc.Thumbnails = append(doc.Thumbnails[:index], doc.Thumbnails[index+1:]...)
	if err := s.store.SaveCategory(sourceCat, doc); err != nil {
		return err
	}

	publish(s.bus, event.TypeThumbnailDeleted, map[string]string{"id": id})
	slog.Info("thumbnail deleted", "id", id)
	return nil
}

// findOwner scans every category document for the thumbnail id. Linear,
// which is fine at the expected scale of tens of entries per category.
func (s *ThumbnailService) findOwner(id string) (string, error) {
	for _, catID := range s.store.CategoryIDs() {
		doc, err := s.store.LoadCategory(catID)
		if err != nil {
			continue
		}

		if thumbIndex(doc, id) != -1 {
			return catID, nil
		}
	}

	return "", apierror.NotFound("thumbnail not found", id)
}

func thumbIndex(doc model.CategoryDoc, id string) int {
	for i, thumb := range doc.Thumbnails {
		if thumb.ID == id {
			return i
		}
	}

	return -1
}

// validateSubcategory enforces that a thumbnail's subcategory is either
// empty or an existing subcategory id of its owning category.
func validateSubcategory(doc model.CategoryDoc, subcategory string) error {
	if subcategory == "" {
		return nil
	}

	for _, sub := range doc.Subcategories {
		if sub.ID == subcategory {
			return nil
		}
	}

	return apierror.BadRequest("unknown subcategory", subcategory)
}
