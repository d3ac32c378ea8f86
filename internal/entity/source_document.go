package entity

import (
	"path/filepath"
	"strings"
)

// SourceDocument is a file discovered under the input root. It is never mutated.
type SourceDocument struct {
	Path      string `json:"path"`
	Filename  string `json:"filename"`
	Extension string `json:"extension"` // lowercase, with dot
	Size      int64  `json:"size"`
}

// NewSourceDocument fills Filename and Extension from path.
func NewSourceDocument(path string, size int64) SourceDocument {
	return SourceDocument{
		Path:      path,
		Filename:  filepath.Base(path),
		Extension: strings.ToLower(filepath.Ext(path)),
		Size:      size,
	}
}
