// Package organize builds canonical names and locations for classified
// documents and copies them into place.
package organize

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/capsresources/resource-organizer/internal/entity"
)

var (
	reUnsafe = regexp.MustCompile(`[^\w\s-]`)
	reSpace  = regexp.MustCompile(`\s+`)
	reDashes = regexp.MustCompile(`-+`)
)

// Slug makes s safe for a filename: "Physical Sciences!!" -> "physical-sciences".
func Slug(s string) string {
	s = reUnsafe.ReplaceAllString(s, "")
	s = reSpace.ReplaceAllString(s, "-")
	s = reDashes.ReplaceAllString(s, "-")
	return strings.ToLower(strings.Trim(s, "-"))
}

// Filename returns {grade}-{slug(subject)}-{type}-{year}{ext}.
func Filename(c entity.Classification, ext string) string {
	return fmt.Sprintf("%s-%s-%s-%s%s", c.Grade, Slug(c.Subject), c.Type, c.Year, ext)
}

// TargetDir returns root/{grade}/{subject with spaces replaced by hyphens}.
func TargetDir(root string, c entity.Classification) string {
	return filepath.Join(root, string(c.Grade), strings.ReplaceAll(c.Subject, " ", "-"))
}

// ResolveCollision returns the first free path in dir for name, trying
// name, then stem-1, stem-2, ... before the extension.
func ResolveCollision(dir, name string) (string, error) {
	return ResolveCollisionWith(dir, name, Exists)
}

// ResolveCollisionWith is ResolveCollision with a custom occupancy check.
func ResolveCollisionWith(dir, name string, taken func(path string) (bool, error)) (string, error) {
	ext := filepath.Ext(name)
	stem := strings.TrimSuffix(name, ext)

	candidate := filepath.Join(dir, name)
	for n := 1; ; n++ {
		used, err := taken(candidate)
		if err != nil {
			return "", err
		}
		if !used {
			return candidate, nil
		}
		candidate = filepath.Join(dir, fmt.Sprintf("%s-%d%s", stem, n, ext))
	}
}

// Exists reports whether anything occupies path.
func Exists(path string) (bool, error) {
	_, err := os.Lstat(path)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, fs.ErrNotExist):
		return false, nil
	default:
		return false, fmt.Errorf("stat %s: %w", path, err)
	}
}
