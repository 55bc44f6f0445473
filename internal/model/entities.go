package model

// Subcategory is a named grouping inside a category. Its id is unique
// within the owning category.
type Subcategory struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Thumbnail is a single image entry inside a category document. Path is
// always derivable from (category, subcategory, filename) and never edited
// independently.
type Thumbnail struct {
	ID           string `json:"id"`
	Filename     string `json:"filename"`
	OriginalName string `json:"originalName"`
	Path         string `json:"path"`
	FileSize     int64  `json:"fileSize"`
	MimeType     string `json:"mimeType"`
	Subcategory  string `json:"subcategory"`
	UploadDate   string `json:"uploadDate"`
}

// CategoryDoc is the on-disk shape of one {categoryId}.json document.
type CategoryDoc struct {
	Name          string        `json:"name"`
	Subcategories []Subcategory `json:"subcategories"`
	Thumbnails    []Thumbnail   `json:"thumbnails"`
}

// CategorySummary is the listing shape: the document plus its id and a
// thumbnail count instead of the full entries.
type CategorySummary struct {
	ID             string        `json:"id"`
	Name           string        `json:"name"`
	Subcategories  []Subcategory `json:"subcategories"`
	ThumbnailCount int           `json:"thumbnailCount"`
}

// ThumbnailInfo is a flattened thumbnail annotated with its owning
// category and the display names used by listings.
type ThumbnailInfo struct {
	Thumbnail
	Category        string `json:"category"`
	CategoryName    string `json:"categoryName"`
	SubcategoryName string `json:"subcategoryName"`
}

// Asset is a file under the assets root. Folder is a slash-separated
// relative path; empty means the root.
type Asset struct {
	ID           string `json:"id"`
	Filename     string `json:"filename"`
	OriginalName string `json:"originalName"`
	Folder       string `json:"folder"`
	Path         string `json:"path"`
	FileSize     int64  `json:"fileSize"`
	MimeType     string `json:"mimeType"`
	UploadDate   string `json:"uploadDate"`
}

// Post is an HTML article whose content body lives in a side file under
// the uploads root; the entry records only paths.
type Post struct {
	ID         string   `json:"id"`
	Title      string   `json:"title"`
	Slug       string   `json:"slug"`
	HTMLPath   string   `json:"htmlPath"`
	Images     []string `json:"images"`
	UploadDate string   `json:"uploadDate"`
}

// PostSummary is the listing shape for posts.
type PostSummary struct {
	ID         string `json:"id"`
	Title      string `json:"title"`
	Slug       string `json:"slug"`
	UploadDate string `json:"uploadDate"`
	ImageCount int    `json:"imageCount"`
}

// PostDetail is a post plus its HTML content body.
type PostDetail struct {
	Post
	HTMLContent string `json:"htmlContent"`
}

// IndexDoc is the combined metadata.json document holding posts and assets.
type IndexDoc struct {
	Posts  []Post  `json:"posts"`
	Assets []Asset `json:"assets"`
}
