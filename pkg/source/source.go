// Package source defines the input type the engine consumes and how unit
// content is obtained. The engine never reads files itself; callers build
// units from whatever they own (filesystem, archive, in-memory submission).
package source

import "os"

// Unit is one analyzable source unit: an identifier (path or logical name)
// and its raw text. Units are owned by the caller and never mutated by the
// engine.
type Unit struct {
	ID   string
	Text string
}

// ContentSource provides file content for unit construction.
type ContentSource interface {
	// Read returns the content of the file at path.
	Read(path string) ([]byte, error)
}

// FilesystemSource reads files from the local filesystem.
type FilesystemSource struct{}

// NewFilesystem creates a source that reads from the filesystem.
func NewFilesystem() *FilesystemSource {
	return &FilesystemSource{}
}

// Read implements ContentSource.
func (f *FilesystemSource) Read(path string) ([]byte, error) {
	return os.ReadFile(path)
}

// Load builds units from paths using the given content source. Unreadable
// paths are returned separately so the caller can decide whether they are
// fatal; the engine itself only ever sees the units that loaded.
func Load(src ContentSource, paths []string) ([]Unit, []error) {
	units := make([]Unit, 0, len(paths))
	var errs []error

	for _, path := range paths {
		content, err := src.Read(path)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		units = append(units, Unit{ID: path, Text: string(content)})
	}

	return units, errs
}
