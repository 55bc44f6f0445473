package service

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/pranav1211/bmb-content-server/internal/event"
	"github.com/pranav1211/bmb-content-server/internal/metadata"
	"github.com/pranav1211/bmb-content-server/internal/model"
	"github.com/pranav1211/bmb-content-server/internal/storage"
)

func newThumbnailFixture(t *testing.T) (*ThumbnailService, *CategoryService, *storage.Root) {
	t.Helper()

	store, err := metadata.NewStore(t.TempDir())
	require.NoError(t, err)
	thumbs, err := storage.New(t.TempDir())
	require.NoError(t, err)
	bus := event.NewBus()

	return NewThumbnailService(store, thumbs, bus), NewCategoryService(store, thumbs, bus), thumbs
}

func TestThumbnailUpload(t *testing.T) {
	t.Parallel()

	svc, categories, thumbs := newThumbnailFixture(t)

	_, err := categories.Create("f1", "Formula 1")
	require.NoError(t, err)
	require.NoError(t, categories.CreateSubcategory("f1", "races", "Races"))

	t.Run("writes file and records entry", func(t *testing.T) {
		entry, uploadErr := svc.Upload("f1", "", []byte("jpeg-bytes"), "race1.jpg", "image/jpeg")
		require.NoError(t, uploadErr)
		require.Equal(t, "race1.jpg", entry.Filename)
		require.Equal(t, "/thumbnails/f1/race1.jpg", entry.Path)
		require.Equal(t, int64(10), entry.FileSize)
		require.True(t, thumbs.Exists("f1/race1.jpg"))
	})

	t.Run("same name gets a collision-safe suffix", func(t *testing.T) {
		entry, uploadErr := svc.Upload("f1", "", []byte("other"), "race1.jpg", "image/jpeg")
		require.NoError(t, uploadErr)
		require.Equal(t, "race1-1.jpg", entry.Filename)
		require.Equal(t, "/thumbnails/f1/race1-1.jpg", entry.Path)
		require.True(t, thumbs.Exists("f1/race1.jpg"))
		require.True(t, thumbs.Exists("f1/race1-1.jpg"))
	})

	t.Run("subcategory upload lands in the nested directory", func(t *testing.T) {
		entry, uploadErr := svc.Upload("f1", "races", []byte("x"), "start.png", "image/png")
		require.NoError(t, uploadErr)
		require.Equal(t, "/thumbnails/f1/races/start.png", entry.Path)
		require.True(t, thumbs.Exists("f1/races/start.png"))
	})

	t.Run("unknown subcategory is rejected", func(t *testing.T) {
		_, uploadErr := svc.Upload("f1", "ghost", []byte("x"), "a.jpg", "image/jpeg")
		requireCode(t, uploadErr, "BAD_REQUEST")
	})

	t.Run("unsupported mime type is rejected", func(t *testing.T) {
		_, uploadErr := svc.Upload("f1", "", []byte("x"), "a.gif", "image/gif")
		requireCode(t, uploadErr, "UNSUPPORTED_TYPE")
	})

	t.Run("missing category reports not found", func(t *testing.T) {
		_, uploadErr := svc.Upload("nope", "", []byte("x"), "a.jpg", "image/jpeg")
		requireCode(t, uploadErr, "NOT_FOUND")
	})

	t.Run("empty category is rejected", func(t *testing.T) {
		_, uploadErr := svc.Upload("", "", []byte("x"), "a.jpg", "image/jpeg")
		requireCode(t, uploadErr, "BAD_REQUEST")
	})
}

func TestThumbnailList(t *testing.T) {
	t.Parallel()

	svc, categories, _ := newThumbnailFixture(t)

	_, err := categories.Create("f1", "Formula 1")
	require.NoError(t, err)
	_, err = categories.Create("wec", "Endurance")
	require.NoError(t, err)
	require.NoError(t, categories.CreateSubcategory("f1", "races", "Races"))

	_, err = svc.Upload("f1", "", []byte("a"), "one.jpg", "image/jpeg")
	require.NoError(t, err)
	_, err = svc.Upload("f1", "races", []byte("b"), "two.jpg", "image/jpeg")
	require.NoError(t, err)
	_, err = svc.Upload("wec", "", []byte("c"), "three.jpg", "image/jpeg")
	require.NoError(t, err)

	t.Run("no filter returns everything annotated", func(t *testing.T) {
		all := svc.List("", "")
		require.Len(t, all, 3)
		for _, info := range all {
			require.NotEmpty(t, info.CategoryName)
		}
	})

	t.Run("category filter", func(t *testing.T) {
		require.Len(t, svc.List("f1", ""), 2)
		require.Len(t, svc.List("wec", ""), 1)
	})

	t.Run("subcategory filter includes display name", func(t *testing.T) {
		infos := svc.List("f1", "races")
		require.Len(t, infos, 1)
		require.Equal(t, "two.jpg", infos[0].Filename)
		require.Equal(t, "Races", infos[0].SubcategoryName)
	})

	t.Run("unknown category filter is empty not an error", func(t *testing.T) {
		require.Empty(t, svc.List("ghost", ""))
	})
}

func TestThumbnailEdit(t *testing.T) {
	t.Parallel()

	svc, categories, thumbs := newThumbnailFixture(t)

	_, err := categories.Create("f1", "Formula 1")
	require.NoError(t, err)
	_, err = categories.Create("wec", "Endurance")
	require.NoError(t, err)
	require.NoError(t, categories.CreateSubcategory("f1", "races", "Races"))

	entry, err := svc.Upload("f1", "", []byte("data"), "race1.jpg", "image/jpeg")
	require.NoError(t, err)

	t.Run("rename keeps the extension", func(t *testing.T) {
		updated, editErr := svc.Edit(entry.ID, model.EditThumbnailRequest{NewName: "monza"})
		require.NoError(t, editErr)
		require.Equal(t, "monza.jpg", updated.Filename)
		require.Equal(t, "/thumbnails/f1/monza.jpg", updated.Path)
		require.True(t, thumbs.Exists("f1/monza.jpg"))
		require.False(t, thumbs.Exists("f1/race1.jpg"))
	})

	t.Run("move into a subcategory", func(t *testing.T) {
		sub := "races"
		updated, editErr := svc.Edit(entry.ID, model.EditThumbnailRequest{NewSubcategory: &sub})
		require.NoError(t, editErr)
		require.Equal(t, "races", updated.Subcategory)
		require.Equal(t, "/thumbnails/f1/races/monza.jpg", updated.Path)
		require.True(t, thumbs.Exists("f1/races/monza.jpg"))
	})

	t.Run("move across categories relocates the entry", func(t *testing.T) {
		none := ""
		updated, editErr := svc.Edit(entry.ID, model.EditThumbnailRequest{NewCategory: "wec", NewSubcategory: &none})
		require.NoError(t, editErr)
		require.Equal(t, "/thumbnails/wec/monza.jpg", updated.Path)
		require.True(t, thumbs.Exists("wec/monza.jpg"))

		require.Empty(t, svc.List("f1", ""))
		require.Len(t, svc.List("wec", ""), 1)
	})

	t.Run("move onto an existing name conflicts", func(t *testing.T) {
		_, uploadErr := svc.Upload("wec", "", []byte("x"), "lemans.jpg", "image/jpeg")
		require.NoError(t, uploadErr)

		_, editErr := svc.Edit(entry.ID, model.EditThumbnailRequest{NewName: "lemans.jpg"})
		requireCode(t, editErr, "ALREADY_EXISTS")
	})

	t.Run("unknown target category reports not found", func(t *testing.T) {
		_, editErr := svc.Edit(entry.ID, model.EditThumbnailRequest{NewCategory: "ghost"})
		requireCode(t, editErr, "NOT_FOUND")
	})

	t.Run("unknown id reports not found", func(t *testing.T) {
		_, editErr := svc.Edit("zzzzzz", model.EditThumbnailRequest{NewName: "x"})
		requireCode(t, editErr, "NOT_FOUND")
	})
}

func TestThumbnailDelete(t *testing.T) {
	t.Parallel()

	svc, categories, thumbs := newThumbnailFixture(t)

	_, err := categories.Create("f1", "Formula 1")
	require.NoError(t, err)

	entry, err := svc.Upload("f1", "", []byte("data"), "race1.jpg", "image/jpeg")
	require.NoError(t, err)

	t.Run("removes file and entry", func(t *testing.T) {
		require.NoError(t, svc.Delete(entry.ID))
		require.False(t, thumbs.Exists("f1/race1.jpg"))
		require.Empty(t, svc.List("", ""))
	})

	t.Run("second delete reports not found", func(t *testing.T) {
		requireCode(t, svc.Delete(entry.ID), "NOT_FOUND")
	})
}
