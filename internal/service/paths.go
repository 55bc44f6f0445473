package service

import (
	"strings"
	"time"
)

// thumbRelDir is the directory of a thumbnail relative to the thumbnails
// root: {category}[/{subcategory}].
func thumbRelDir(category string, subcategory string) string {
	if subcategory == "" {
		return category
	}

	return category + "/" + subcategory
}

// thumbPath derives the canonical serving path of a thumbnail. Every
// stored path field is rebuilt through here; nothing edits it piecemeal.
func thumbPath(category string, subcategory string, filename string) string {
	parts := []string{"/thumbnails", category}
	if subcategory != "" {
		parts = append(parts, subcategory)
	}
	parts = append(parts, filename)
	return strings.Join(parts, "/")
}

// assetPath derives the canonical serving path of an asset.
func assetPath(folder string, filename string) string {
	if folder == "" {
		return "/assets/" + filename
	}

	return "/assets/" + folder + "/" + filename
}

// normalizeFolder strips leading slashes from a client-supplied folder so
// "" and "/" both mean the assets root.
func normalizeFolder(folder string) string {
	return strings.TrimLeft(strings.TrimSpace(folder), "/")
}

// uploadedAfter orders ISO upload timestamps, newest first. Entries with
// unparseable dates sort last.
func uploadedAfter(a string, b string) bool {
	ta, errA := time.Parse(time.RFC3339, a)
	tb, errB := time.Parse(time.RFC3339, b)
	if errA != nil {
		return false
	}
	if errB != nil {
		return true
	}

	return ta.After(tb)
}

func nowISO() string {
	return time.Now().UTC().Format(time.RFC3339)
}
