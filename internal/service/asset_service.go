package service

import (
	"log/slog"
	"path"
	"sort"
	"strings"

	"github.com/pranav1211/bmb-content-server/internal/event"
	"github.com/pranav1211/bmb-content-server/internal/metadata"
	"github.com/pranav1211/bmb-content-server/internal/model"
	"github.com/pranav1211/bmb-content-server/internal/storage"
	"github.com/pranav1211/bmb-content-server/internal/util"
	"github.com/pranav1211/bmb-content-server/pkg/apierror"
)

// AssetService manages an arbitrary nested folder tree under the assets
// root with flat metadata entries in the combined index document.
type AssetService struct {
	store  *metadata.Store
	assets *storage.Root
	bus    event.Bus
}

func NewAssetService(store *metadata.Store, assets *storage.Root, bus event.Bus) *AssetService {
	return &AssetService{store: store, assets: assets, bus: bus}
}

// List returns the direct contents of one folder (exact match, not a
// prefix), newest first.
func (s *AssetService) List(folder string) []model.Asset {
	folder = normalizeFolder(folder)

	matched := []model.Asset{}
	for _, asset := range s.store.LoadIndex().Assets {
		if asset.Folder == folder {
			matched = append(matched, asset)
		}
	}

	sort.SliceStable(matched, func(i int, j int) bool {
		return uploadedAfter(matched[i].UploadDate, matched[j].UploadDate)
	})

	return matched
}

// ListFolders unions the distinct folder values across all asset entries
// with a recursive directory scan (empty folders have no entry referencing
// them), then filters to direct children of parent.
func (s *AssetService) ListFolders(parent string) []string {
	parent = normalizeFolder(parent)

	all := map[string]struct{}{}
	for _, asset := range s.store.LoadIndex().Assets {
		if asset.Folder != "" {
			all[asset.Folder] = struct{}{}
		}
	}
	s.scanFolders("", all)

	children := []string{}
	for folder := range all {
		if parent == "" {
			if !strings.Contains(folder, "/") {
				children = append(children, folder)
			}
			continue
		}

		if strings.HasPrefix(folder, parent+"/") && !strings.Contains(folder[len(parent)+1:], "/") {
			children = append(children, folder)
		}
	}

	sort.Strings(children)
	return children
}

func (s *AssetService) scanFolders(prefix string, out map[string]struct{}) {
	entries, err := s.assets.ReadDir(prefix)
	if err != nil {
		return
	}

	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		rel := entry.Name()
		if prefix != "" {
			rel = prefix + "/" + entry.Name()
		}

		out[rel] = struct{}{}
		s.scanFolders(rel, out)
	}
}

func (s *AssetService) CreateFolder(name string, parent string) (string, error) {
	if name == "" {
		return "", apierror.BadRequest("folder name is required", "")
	}

	sanitized, err := util.SanitizeFilename(name)
	if err != nil {
		return "", apierror.BadRequest("invalid folder name", name)
	}

	parent = normalizeFolder(parent)
	folderPath := sanitized
	if parent != "" {
		folderPath = parent + "/" + sanitized
	}

	if _, err := s.assets.Resolve(folderPath); err != nil {
		return "", err
	}
	if s.assets.Exists(folderPath) {
		return "", apierror.AlreadyExists("folder already exists", folderPath)
	}

	if err := s.assets.MkdirAll(folderPath); err != nil {
		return "", apierror.IO("failed to create folder", err)
	}

	publish(s.bus, event.TypeFolderCreated, map[string]string{"folder": folderPath})
	return folderPath, nil
}

// RenameFolder renames the directory in place, then rewrites the folder
// and path of every asset entry at or under the old path.
func (s *AssetService) RenameFolder(oldPath string, newName string) (string, error) {
	oldPath = normalizeFolder(oldPath)
	if oldPath == "" || newName == "" {
		return "", apierror.BadRequest("old path and new name are required", "")
	}

	sanitized, err := util.SanitizeFilename(newName)
	if err != nil {
		return "", apierror.BadRequest("invalid folder name", newName)
	}

	if !s.assets.Exists(oldPath) {
		return "", apierror.NotFound("folder not found", oldPath)
	}

	newPath := sanitized
	if parent := path.Dir(oldPath); parent != "." {
		newPath = parent + "/" + sanitized
	}

	if _, err := s.assets.Resolve(newPath); err != nil {
		return "", err
	}
	if newPath == oldPath {
		return newPath, nil
	}
	if s.assets.Exists(newPath) {
		return "", apierror.AlreadyExists("a folder with that name already exists", newPath)
	}

	if err := s.assets.Rename(oldPath, newPath); err != nil {
		return "", apierror.IO("failed to rename folder", err)
	}

	unlock := s.store.Lock(metadata.ReservedKey)
	defer unlock()

	index := s.store.LoadIndex()
	for i := range index.Assets {
		asset := &index.Assets[i]
		if asset.Folder == oldPath {
			asset.Folder = newPath
		} else if strings.HasPrefix(asset.Folder, oldPath+"/") {
			asset.Folder = newPath + asset.Folder[len(oldPath):]
		} else {
			continue
		}
		asset.Path = assetPath(asset.Folder, asset.Filename)
	}

	if err := s.store.SaveIndex(index); err != nil {
		return "", err
	}

	publish(s.bus, event.TypeFolderRenamed, map[string]string{"from": oldPath, "to": newPath})
	slog.Info("folder renamed", "from", oldPath, "to", newPath)
	return newPath, nil
}

// DeleteFolder recursively removes the directory tree and every asset
// entry at or under it. Destructive; no guard for nested content.
func (s *AssetService) DeleteFolder(folderPath string) error {
	folderPath = normalizeFolder(folderPath)
	if folderPath == "" {
		return apierror.BadRequest("folder path is required", "")
	}

	if !s.assets.Exists(folderPath) {
		return apierror.NotFound("folder not found", folderPath)
	}

	if err := s.assets.RemoveAll(folderPath); err != nil {
		return apierror.IO("failed to remove folder", err)
	}

	unlock := s.store.Lock(metadata.ReservedKey)
	defer unlock()

	index := s.store.LoadIndex()
	kept := index.Assets[:0]
	for _, asset := range index.Assets {
		if asset.Folder == folderPath || strings.HasPrefix(asset.Folder, folderPath+"/") {
			continue
		}
		kept = append(kept, asset)
	}
	index.Assets = kept

	if err := s.store.SaveIndex(index); err != nil {
		return err
	}

	publish(s.bus, event.TypeFolderDeleted, map[string]string{"folder": folderPath})
	slog.Info("folder deleted", "folder", folderPath)
	return nil
}

// Upload writes the file into the folder (root when empty) with a
// collision-free name and appends the entry to the index.
func (s *AssetService) Upload(folder string, data []byte, originalName string, mimeType string) (model.Asset, error) {
	folder = normalizeFolder(folder)

	if folder != "" {
		if _, err := s.assets.Resolve(folder); err != nil {
			return model.Asset{}, err
		}
		if err := s.assets.MkdirAll(folder); err != nil {
			return model.Asset{}, apierror.IO("failed to prepare folder", err)
		}
	}

	filename, err := util.UniqueFilename(originalName, func(candidate string) bool {
		return s.assets.Exists(path.Join(folder, candidate))
	})
	if err != nil {
		return model.Asset{}, err
	}

	if err := s.assets.WriteFile(path.Join(folder, filename), data); err != nil {
		return model.Asset{}, apierror.IO("failed to write asset file", err)
	}

	entry := model.Asset{
		ID:           util.NewID(),
		Filename:     filename,
		OriginalName: originalName,
		Folder:       folder,
		Path:         assetPath(folder, filename),
		FileSize:     int64(len(data)),
		MimeType:     mimeType,
		UploadDate:   nowISO(),
	}

	unlock := s.store.Lock(metadata.ReservedKey)
	defer unlock()

	index := s.store.LoadIndex()
	index.Assets = append(index.Assets, entry)
	if err := s.store.SaveIndex(index); err != nil {
		return model.Asset{}, err
	}

	publish(s.bus, event.TypeAssetUploaded, entry)
	slog.Info("asset uploaded", "id", entry.ID, "path", entry.Path)
	return entry, nil
}

// Rename changes the filename within the asset's folder, preserving the
// previous extension when the new name has none.
func (s *AssetService) Rename(id string, newName string) (model.Asset, error) {
	if newName == "" {
		return model.Asset{}, apierror.BadRequest("new name is required", "")
	}

	sanitized, err := util.SanitizeFilename(newName)
	if err != nil {
		return model.Asset{}, apierror.BadRequest("invalid filename", newName)
	}

	unlock := s.store.Lock(metadata.ReservedKey)
	defer unlock()

	index := s.store.LoadIndex()
	pos := assetIndex(index, id)
	if pos == -1 {
		return model.Asset{}, apierror.NotFound("asset not found", id)
	}

	asset := index.Assets[pos]
	finalName := util.EnsureExtension(sanitized, asset.Filename)

	oldRel := path.Join(asset.Folder, asset.Filename)
	newRel := path.Join(asset.Folder, finalName)
	if oldRel != newRel {
		if s.assets.Exists(newRel) {
			return model.Asset{}, apierror.AlreadyExists("a file with that name already exists", newRel)
		}
		if s.assets.Exists(oldRel) {
			if err := s.assets.Rename(oldRel, newRel); err != nil {
				return model.Asset{}, apierror.IO("failed to rename asset file", err)
			}
		}
	}

	asset.Filename = finalName
	asset.OriginalName = finalName
	asset.Path = assetPath(asset.Folder, finalName)
	index.Assets[pos] = asset

	if err := s.store.SaveIndex(index); err != nil {
		return model.Asset{}, err
	}

	publish(s.bus, event.TypeAssetRenamed, asset)
	return asset, nil
}

// Move relocates the asset into another folder, creating it if needed.
func (s *AssetService) Move(id string, targetFolder string) (model.Asset, error) {
	targetFolder = normalizeFolder(targetFolder)

	unlock := s.store.Lock(metadata.ReservedKey)
	defer unlock()

	index := s.store.LoadIndex()
	pos := assetIndex(index, id)
	if pos == -1 {
		return model.Asset{}, apierror.NotFound("asset not found", id)
	}

	asset := index.Assets[pos]

	if targetFolder != "" {
		if _, err := s.assets.Resolve(targetFolder); err != nil {
			return model.Asset{}, err
		}
		if err := s.assets.MkdirAll(targetFolder); err != nil {
			return model.Asset{}, apierror.IO("failed to prepare target folder", err)
		}
	}

	oldRel := path.Join(asset.Folder, asset.Filename)
	newRel := path.Join(targetFolder, asset.Filename)
	if oldRel != newRel {
		if s.assets.Exists(newRel) {
			return model.Asset{}, apierror.AlreadyExists("a file with that name already exists in the target folder", newRel)
		}
		if s.assets.Exists(oldRel) {
			if err := s.assets.Rename(oldRel, newRel); err != nil {
				return model.Asset{}, apierror.IO("failed to move asset file", err)
			}
		}
	}

	asset.Folder = targetFolder
	asset.Path = assetPath(targetFolder, asset.Filename)
	index.Assets[pos] = asset

	if err := s.store.SaveIndex(index); err != nil {
		return model.Asset{}, err
	}

	publish(s.bus, event.TypeAssetMoved, asset)
	return asset, nil
}

// Delete removes the file (tolerating one already missing) and the entry.
func (s *AssetService) Delete(id string) error {
	unlock := s.store.Lock(metadata.ReservedKey)
	defer unlock()

	index := s.store.LoadIndex()
	pos := assetIndex(index, id)
	if pos == -1 {
		return apierror.NotFound("asset not found", id)
	}

	asset := index.Assets[pos]
	if err := s.assets.Remove(path.Join(asset.Folder, asset.Filename)); err != nil {
		return apierror.IO("failed to remove asset file", err)
	}

	index.Assets = append(index.Assets[:pos], index.Assets[pos+1:]...)
	if err := s.store.SaveIndex(index); err != nil {
		return err
	}

	publish(s.bus, event.TypeAssetDeleted, map[string]string{"id": id})
	slog.Info("asset deleted", "id", id)
	return nil
}

func assetIndex(index model.IndexDoc, id string) int {
	for i, asset := range index.Assets {
		if asset.ID == id {
			return i
		}
	}

	return -1
}
