package service

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/pranav1211/bmb-content-server/internal/event"
	"github.com/pranav1211/bmb-content-server/internal/metadata"
	"github.com/pranav1211/bmb-content-server/internal/storage"
)

func newPostFixture(t *testing.T) (*PostService, *storage.Root) {
	t.Helper()

	store, err := metadata.NewStore(t.TempDir())
	require.NoError(t, err)
	uploads, err := storage.New(t.TempDir())
	require.NoError(t, err)

	return NewPostService(store, uploads, event.NewBus()), uploads
}

func TestPostUpload(t *testing.T) {
	t.Parallel()

	svc, uploads := newPostFixture(t)

	t.Run("writes content and images under the slug directory", func(t *testing.T) {
		post, err := svc.Upload("2024 Season Review!", []byte("<h1>Review</h1>"), []PostImage{
			{Name: "podium photo.jpg", MimeType: "image/jpeg", Data: []byte("img")},
		})
		require.NoError(t, err)
		require.Equal(t, "2024-season-review", post.Slug)
		require.Equal(t, "/uploads/posts/2024-season-review/content.html", post.HTMLPath)
		require.Len(t, post.Images, 1)
		require.True(t, strings.HasPrefix(post.Images[0], "/uploads/posts/2024-season-review/images/"))
		require.True(t, strings.HasSuffix(post.Images[0], "-podium_photo.jpg"))

		content, readErr := uploads.ReadFile("posts/2024-season-review/content.html")
		require.NoError(t, readErr)
		require.Equal(t, []byte("<h1>Review</h1>"), content)
	})

	t.Run("duplicate slug conflicts", func(t *testing.T) {
		_, err := svc.Upload("2024 SEASON review", []byte("<p>dup</p>"), nil)
		requireCode(t, err, "ALREADY_EXISTS")
	})

	t.Run("empty title is rejected", func(t *testing.T) {
		_, err := svc.Upload("   ", []byte("<p>x</p>"), nil)
		requireCode(t, err, "BAD_REQUEST")
	})

	t.Run("title that slugs to nothing is rejected", func(t *testing.T) {
		_, err := svc.Upload("!!!", []byte("<p>x</p>"), nil)
		requireCode(t, err, "BAD_REQUEST")
	})

	t.Run("missing html file is rejected", func(t *testing.T) {
		_, err := svc.Upload("No Body", nil, nil)
		requireCode(t, err, "BAD_REQUEST")
	})

	t.Run("non-image attachment is rejected", func(t *testing.T) {
		_, err := svc.Upload("With PDF", []byte("<p>x</p>"), []PostImage{
			{Name: "doc.pdf", MimeType: "application/pdf", Data: []byte("x")},
		})
		requireCode(t, err, "UNSUPPORTED_TYPE")
	})
}

func TestPostGetListDelete(t *testing.T) {
	t.Parallel()

	svc, uploads := newPostFixture(t)

	post, err := svc.Upload("Hello World", []byte("<p>hi</p>"), nil)
	require.NoError(t, err)

	t.Run("get returns entry plus html body", func(t *testing.T) {
		detail, getErr := svc.Get("hello-world")
		require.NoError(t, getErr)
		require.Equal(t, post.ID, detail.ID)
		require.Equal(t, "<p>hi</p>", detail.HTMLContent)
	})

	t.Run("get of unknown slug reports not found", func(t *testing.T) {
		_, getErr := svc.Get("nope")
		requireCode(t, getErr, "NOT_FOUND")
	})

	t.Run("get with missing content file reports not found", func(t *testing.T) {
		broken, uploadErr := svc.Upload("Broken Post", []byte("<p>x</p>"), nil)
		require.NoError(t, uploadErr)
		require.NoError(t, uploads.Remove("posts/broken-post/content.html"))

		_, getErr := svc.Get(broken.Slug)
		requireCode(t, getErr, "NOT_FOUND")
	})

	t.Run("list summarizes entries", func(t *testing.T) {
		summaries := svc.List()
		require.Len(t, summaries, 2)
		for _, summary := range summaries {
			require.NotEmpty(t, summary.Slug)
			require.Zero(t, summary.ImageCount)
		}
	})

	t.Run("delete removes tree and entry", func(t *testing.T) {
		require.NoError(t, svc.Delete(post.ID))
		require.False(t, uploads.Exists("posts/hello-world"))

		_, getErr := svc.Get("hello-world")
		requireCode(t, getErr, "NOT_FOUND")
		requireCode(t, svc.Delete(post.ID), "NOT_FOUND")
	})
}
