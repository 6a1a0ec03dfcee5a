package reference

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"npi-linker/core/storage"
)

// ErrOutsideRoot is returned when a local location leaves its allowed directory.
var ErrOutsideRoot = errors.New("location outside allowed directory")

// Confine resolves a caller-supplied location against root. Object storage
// locations and the empty location pass through unchanged. Relative paths are
// joined to root and the result must stay inside it. An empty or object
// storage root admits no local paths.
func Confine(root, location string) (string, error) {
	if location == "" || storage.IsURI(location) {
		return location, nil
	}
	if root == "" || storage.IsURI(root) {
		return "", fmt.Errorf("%w: %s", ErrOutsideRoot, location)
	}

	base, err := filepath.Abs(root)
	if err != nil {
		return "", fmt.Errorf("resolve %s: %w", root, err)
	}
	path := location
	if !filepath.IsAbs(path) {
		path = filepath.Join(base, path)
	}
	path = filepath.Clean(path)

	rel, err := filepath.Rel(base, path)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: %s", ErrOutsideRoot, location)
	}
	return path, nil
}

// ReferenceRoot is the directory local reference reads are confined to: the
// directory holding the configured reference, or "" when it lives in a bucket.
func ReferenceRoot(configured string) string {
	if configured == "" || storage.IsURI(configured) {
		return ""
	}
	return filepath.Dir(configured)
}
