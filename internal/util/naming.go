package util

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"path/filepath"
	"strings"
)

// NewID returns the short random hex identifier used for all entities.
func NewID() string {
	buf := make([]byte, 3)
	_, _ = rand.Read(buf)
	return hex.EncodeToString(buf)
}

// UniqueFilename sanitizes originalName and, while exists reports the
// candidate as taken, appends -1, -2, ... before the extension until a
// free name is found. Both managers use this so that uploading the same
// name twice never overwrites the first file.
func UniqueFilename(originalName string, exists func(filename string) bool) (string, error) {
	candidate, err := SanitizeFilename(originalName)
	if err != nil {
		return "", err
	}

	ext := filepath.Ext(originalName)
	base := strings.TrimSuffix(originalName, ext)
	for counter := 1; exists(candidate); counter++ {
		candidate, err = SanitizeFilename(fmt.Sprintf("%s-%d%s", base, counter, ext))
		if err != nil {
			return "", err
		}
	}

	return candidate, nil
}

// EnsureExtension keeps the previous extension when the new name omits
// one, so renames never silently change a file's type on disk.
func EnsureExtension(newName string, previousName string) string {
	if filepath.Ext(newName) != "" {
		return newName
	}

	return newName + filepath.Ext(previousName)
}
