package service

import (
	"fmt"
	"log/slog"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/pranav1211/bmb-content-server/internal/event"
	"github.com/pranav1211/bmb-content-server/internal/metadata"
	"github.com/pranav1211/bmb-content-server/internal/model"
	"github.com/pranav1211/bmb-content-server/internal/storage"
	"github.com/pranav1211/bmb-content-server/internal/util"
	"github.com/pranav1211/bmb-content-server/pkg/apierror"
)

var allowedPostImageMIMEs = map[string]struct{}{
	"image/jpeg": {},
	"image/png":  {},
	"image/webp": {},
}

// PostImage is one image file attached to a post upload.
type PostImage struct {
	Name     string
	MimeType string
	Data     []byte
}

// PostService stores HTML posts under {uploadsRoot}/posts/{slug}/ with the
// content body in a side file and the entry in the combined index.
type PostService struct {
	store   *metadata.Store
	uploads *storage.Root
	bus     event.Bus
}

func NewPostService(store *metadata.Store, uploads *storage.Root, bus event.Bus) *PostService {
	return &PostService{store: store, uploads: uploads, bus: bus}
}

func (s *PostService) List() []model.PostSummary {
	posts := s.store.LoadIndex().Posts
	sort.SliceStable(posts, func(i int, j int) bool {
		return uploadedAfter(posts[i].UploadDate, posts[j].UploadDate)
	})

	summaries := make([]model.PostSummary, 0, len(posts))
	for _, post := range posts {
		summaries = append(summaries, model.PostSummary{
			ID:         post.ID,
			Title:      post.Title,
			Slug:       post.Slug,
			UploadDate: post.UploadDate,
			ImageCount: len(post.Images),
		})
	}

	return summaries
}

// Get returns the entry plus the HTML body read from its side file.
func (s *PostService) Get(slug string) (model.PostDetail, error) {
	for _, post := range s.store.LoadIndex().Posts {
		if post.Slug != slug {
			continue
		}

		content, err := s.uploads.ReadFile("posts/" + slug + "/content.html")
		if err != nil {
			return model.PostDetail{}, apierror.NotFound("post content not found", slug)
		}

		return model.PostDetail{Post: post, HTMLContent: string(content)}, nil
	}

	return model.PostDetail{}, apierror.NotFound("post not found", slug)
}

// Upload writes the content file and images first, then appends the
// entry. The slug derived from the title is the post's immutable identity.
func (s *PostService) Upload(title string, htmlFile []byte, images []PostImage) (model.Post, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return model.Post{}, apierror.BadRequest("title is required", "")
	}
	if len(htmlFile) == 0 {
		return model.Post{}, apierror.BadRequest("HTML file is required", "")
	}

	slug := util.Slug(title)
	if slug == "" {
		return model.Post{}, apierror.BadRequest("title produces an empty slug", title)
	}

	for _, img := range images {
		if _, ok := allowedPostImageMIMEs[strings.ToLower(img.MimeType)]; !ok {
			return model.Post{}, apierror.New("UNSUPPORTED_TYPE", "only JPG, PNG, and WebP images are allowed", img.MimeType, http.StatusUnsupportedMediaType)
		}
	}

	unlock := s.store.Lock(metadata.ReservedKey)
	defer unlock()

	index := s.store.LoadIndex()
	for _, post := range index.Posts {
		if post.Slug == slug {
			return model.Post{}, apierror.AlreadyExists("a post with this title already exists", slug)
		}
	}

	postDir := "posts/" + slug
	if err := s.uploads.MkdirAll(postDir + "/images"); err != nil {
		return model.Post{}, apierror.IO("failed to create post directory", err)
	}
	if err := s.uploads.WriteFile(postDir+"/content.html", htmlFile); err != nil {
		return model.Post{}, apierror.IO("failed to write post content", err)
	}

	imagePaths := []string{}
	for _, img := range images {
		sanitized, err := util.SanitizeFilename(img.Name)
		if err != nil {
			return model.Post{}, err
		}

		filename := fmt.Sprintf("%d-%s", time.Now().UnixMilli(), sanitized)
		if err := s.uploads.WriteFile(postDir+"/images/"+filename, img.Data); err != nil {
			return model.Post{}, apierror.IO("failed to write post image", err)
		}

		imagePaths = append(imagePaths, "/uploads/posts/"+slug+"/images/"+filename)
	}

	entry := model.Post{
		ID:         util.NewID(),
		Title:      title,
		Slug:       slug,
		HTMLPath:   "/uploads/posts/" + slug + "/content.html",
		Images:     imagePaths,
		UploadDate: nowISO(),
	}

	index.Posts = append(index.Posts, entry)
	if err := s.store.SaveIndex(index); err != nil {
		return model.Post{}, err
	}

	publish(s.bus, event.TypePostUploaded, entry)
	slog.Info("post uploaded", "id", entry.ID, "slug", slug)
	return entry, nil
}

// Delete removes the post's whole directory tree and its entry.
func (s *PostService) Delete(id string) error {
	unlock := s.store.Lock(metadata.ReservedKey)
	defer unlock()

	index := s.store.LoadIndex()
	pos := -1
	for i, post := range index.Posts {
		if post.ID == id {
			pos = i
			break
		}
	}
	if pos == -1 {
		return apierror.NotFound("post not found", id)
	}

	post := index.Posts[pos]
	if err := s.uploads.RemoveAll("posts/" + post.Slug); err != nil {
		return apierror.IO("failed to remove post directory", err)
	}

	index.Posts = append(index.Posts[:pos], index.Posts[pos+1:]...)
	if err := s.store.SaveIndex(index); err != nil {
		return err
	}

	publish(s.bus, event.TypePostDeleted, map[string]string{"id": id, "slug": post.Slug})
	slog.Info("post deleted", "id", id, "slug", post.Slug)
	return nil
}
