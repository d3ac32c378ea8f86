package constants

import "strings"

// FileType is the coarse category reported in the manifest's file_type field.
type FileType string

const (
	PDF        FileType = "pdf"
	Word       FileType = "word"
	Excel      FileType = "excel"
	PowerPoint FileType = "powerpoint"
	Archive    FileType = "archive"
	OtherFile  FileType = "other"
)

// fileTypes maps a normalized extension (no dot) to its category.
var fileTypes = map[string]FileType{
	"pdf":  PDF,
	"docx": Word,
	"doc":  Word,
	"xlsx": Excel,
	"xls":  Excel,
	"pptx": PowerPoint,
	"ppt":  PowerPoint,
	"zip":  Archive,
	"rar":  Archive,
	"7z":   Archive,
}

// DefaultExtensions is the walk filter used when none is configured.
// Archives are walked but only their filename is classified.
var DefaultExtensions = []string{"pdf", "docx", "doc", "xlsx", "xls", "pptx", "ppt", "zip", "rar", "7z"}

// DefaultYear is used when no year appears in the text or filename.
const DefaultYear = "2024"

// ManifestFilename is written inside the organized root at the end of a run.
const ManifestFilename = "_organization_results.json"

// NormalizeExt lowercases and trims the dot from a file extension.
func NormalizeExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}

// FileTypeOf returns the category for an extension, with or without the dot.
func FileTypeOf(ext string) FileType {
	if ft, ok := fileTypes[NormalizeExt(ext)]; ok {
		return ft
	}
	return OtherFile
}

// ExtensionSet builds a lookup set from a list of extensions, normalizing each.
// An empty list yields the default set.
func ExtensionSet(exts []string) map[string]struct{} {
	if len(exts) == 0 {
		exts = DefaultExtensions
	}
	set := make(map[string]struct{}, len(exts))
	for _, e := range exts {
		e = NormalizeExt(strings.TrimSpace(e))
		if e != "" {
			set[e] = struct{}{}
		}
	}
	return set
}
