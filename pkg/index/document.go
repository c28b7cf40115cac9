package index

import (
	"path/filepath"
	"strings"
)

// Document is one ingested source file. Immutable after creation; the index
// owns it for the duration of a run.
type Document struct {
	ID        string
	Path      string
	Text      string
	Extension string
	Name      string
}

// NewDocument creates a Document for the given repo-relative path.
func NewDocument(path, text string) Document {
	return Document{
		ID:        path,
		Path:      path,
		Text:      text,
		Extension: strings.ToLower(filepath.Ext(path)),
		Name:      filepath.Base(path),
	}
}
