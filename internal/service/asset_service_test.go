package service

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/pranav1211/bmb-content-server/internal/event"
	"github.com/pranav1211/bmb-content-server/internal/metadata"
	"github.com/pranav1211/bmb-content-server/internal/storage"
)

func newAssetFixture(t *testing.T) (*AssetService, *storage.Root) {
	t.Helper()

	store, err := metadata.NewStore(t.TempDir())
	require.NoError(t, err)
	assets, err := storage.New(t.TempDir())
	require.NoError(t, err)

	return NewAssetService(store, assets, event.NewBus()), assets
}

func TestAssetFolders(t *testing.T) {
	t.Parallel()

	svc, assets := newAssetFixture(t)

	t.Run("create at root and nested", func(t *testing.T) {
		folder, err := svc.CreateFolder("logos", "")
		require.NoError(t, err)
		require.Equal(t, "logos", folder)

		nested, err := svc.CreateFolder("2024", "logos")
		require.NoError(t, err)
		require.Equal(t, "logos/2024", nested)
		require.True(t, assets.Exists("logos/2024"))
	})

	t.Run("duplicate folder conflicts", func(t *testing.T) {
		_, err := svc.CreateFolder("logos", "")
		requireCode(t, err, "ALREADY_EXISTS")
	})

	t.Run("traversal in parent is rejected", func(t *testing.T) {
		_, err := svc.CreateFolder("x", "../outside")
		requireCode(t, err, "PATH_TRAVERSAL")
	})

	t.Run("empty name is rejected", func(t *testing.T) {
		_, err := svc.CreateFolder("", "")
		requireCode(t, err, "BAD_REQUEST")
	})

	t.Run("listing shows direct children only", func(t *testing.T) {
		require.Equal(t, []string{"logos"}, svc.ListFolders(""))
		require.Equal(t, []string{"logos/2024"}, svc.ListFolders("logos"))
		require.Empty(t, svc.ListFolders("logos/2024"))
	})
}

func TestAssetRenameFolder(t *testing.T) {
	t.Parallel()

	svc, assets := newAssetFixture(t)

	_, err := svc.CreateFolder("docs", "")
	require.NoError(t, err)
	_, err = svc.CreateFolder("old", "docs")
	require.NoError(t, err)

	inRoot, err := svc.Upload("docs/old", []byte("a"), "guide.pdf", "application/pdf")
	require.NoError(t, err)

	t.Run("renames directory and rewrites entries", func(t *testing.T) {
		newPath, renameErr := svc.RenameFolder("docs/old", "new")
		require.NoError(t, renameErr)
		require.Equal(t, "docs/new", newPath)
		require.True(t, assets.Exists("docs/new/guide.pdf"))
		require.False(t, assets.Exists("docs/old"))

		listed := svc.List("docs/new")
		require.Len(t, listed, 1)
		require.Equal(t, inRoot.ID, listed[0].ID)
		require.Equal(t, "docs/new", listed[0].Folder)
		require.Equal(t, "/assets/docs/new/guide.pdf", listed[0].Path)
	})

	t.Run("missing folder reports not found", func(t *testing.T) {
		_, renameErr := svc.RenameFolder("docs/old", "other")
		requireCode(t, renameErr, "NOT_FOUND")
	})

	t.Run("rename onto an existing sibling conflicts", func(t *testing.T) {
		_, createErr := svc.CreateFolder("sibling", "docs")
		require.NoError(t, createErr)

		_, renameErr := svc.RenameFolder("docs/sibling", "new")
		requireCode(t, renameErr, "ALREADY_EXISTS")
	})
}

func TestAssetDeleteFolderCascades(t *testing.T) {
	t.Parallel()

	svc, assets := newAssetFixture(t)

	_, err := svc.CreateFolder("a", "")
	require.NoError(t, err)
	_, err = svc.CreateFolder("b", "a")
	require.NoError(t, err)

	_, err = svc.Upload("a", []byte("top"), "top.txt", "text/plain")
	require.NoError(t, err)
	_, err = svc.Upload("a/b", []byte("deep"), "deep.txt", "text/plain")
	require.NoError(t, err)
	keeper, err := svc.Upload("", []byte("root"), "root.txt", "text/plain")
	require.NoError(t, err)

	require.NoError(t, svc.DeleteFolder("a"))

	require.False(t, assets.Exists("a"))
	require.Empty(t, svc.List("a"))
	require.Empty(t, svc.List("a/b"))

	remaining := svc.List("")
	require.Len(t, remaining, 1)
	require.Equal(t, keeper.ID, remaining[0].ID)

	requireCode(t, svc.DeleteFolder("a"), "NOT_FOUND")
}

func TestAssetUpload(t *testing.T) {
	t.Parallel()

	svc, assets := newAssetFixture(t)

	t.Run("root upload", func(t *testing.T) {
		entry, err := svc.Upload("", []byte("bytes"), "logo.png", "image/png")
		require.NoError(t, err)
		require.Equal(t, "/assets/logo.png", entry.Path)
		require.Empty(t, entry.Folder)
		require.True(t, assets.Exists("logo.png"))
	})

	t.Run("upload creates the folder when missing", func(t *testing.T) {
		entry, err := svc.Upload("press/kits", []byte("x"), "kit.zip", "application/zip")
		require.NoError(t, err)
		require.Equal(t, "/assets/press/kits/kit.zip", entry.Path)
		require.True(t, assets.Exists("press/kits/kit.zip"))
	})

	t.Run("name collision gets a suffix", func(t *testing.T) {
		entry, err := svc.Upload("", []byte("other"), "logo.png", "image/png")
		require.NoError(t, err)
		require.Equal(t, "logo-1.png", entry.Filename)
	})

	t.Run("traversal in folder is rejected", func(t *testing.T) {
		_, err := svc.Upload("../evil", []byte("x"), "a.txt", "text/plain")
		requireCode(t, err, "PATH_TRAVERSAL")
	})
}

func TestAssetRenameMoveDelete(t *testing.T) {
	t.Parallel()

	svc, assets := newAssetFixture(t)

	entry, err := svc.Upload("", []byte("doc"), "report.pdf", "application/pdf")
	require.NoError(t, err)

	t.Run("rename keeps the extension", func(t *testing.T) {
		updated, renameErr := svc.Rename(entry.ID, "summary")
		require.NoError(t, renameErr)
		require.Equal(t, "summary.pdf", updated.Filename)
		require.Equal(t, "/assets/summary.pdf", updated.Path)
		require.True(t, assets.Exists("summary.pdf"))
		require.False(t, assets.Exists("report.pdf"))
	})

	t.Run("rename onto an existing file conflicts", func(t *testing.T) {
		_, uploadErr := svc.Upload("", []byte("x"), "other.pdf", "application/pdf")
		require.NoError(t, uploadErr)

		_, renameErr := svc.Rename(entry.ID, "other.pdf")
		requireCode(t, renameErr, "ALREADY_EXISTS")
	})

	t.Run("move into a new folder", func(t *testing.T) {
		updated, moveErr := svc.Move(entry.ID, "archive/2024")
		require.NoError(t, moveErr)
		require.Equal(t, "archive/2024", updated.Folder)
		require.Equal(t, "/assets/archive/2024/summary.pdf", updated.Path)
		require.True(t, assets.Exists("archive/2024/summary.pdf"))
	})

	t.Run("move onto an existing file conflicts", func(t *testing.T) {
		_, uploadErr := svc.Upload("", []byte("y"), "summary.pdf", "application/pdf")
		require.NoError(t, uploadErr)

		_, moveErr := svc.Move(entry.ID, "")
		requireCode(t, moveErr, "ALREADY_EXISTS")
	})

	t.Run("delete removes file and entry", func(t *testing.T) {
		require.NoError(t, svc.Delete(entry.ID))
		require.False(t, assets.Exists("archive/2024/summary.pdf"))
		requireCode(t, svc.Delete(entry.ID), "NOT_FOUND")
	})

	t.Run("unknown id reports not found", func(t *testing.T) {
		_, renameErr := svc.Rename("zzzzzz", "x")
		requireCode(t, renameErr, "NOT_FOUND")
		_, moveErr := svc.Move("zzzzzz", "anywhere")
		requireCode(t, moveErr, "NOT_FOUND")
	})
}
