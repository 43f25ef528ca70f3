// Package archive bundles rendered workbooks into a single download.
package archive

import (
	"archive/zip"
	"bytes"
	"fmt"
)

// Entry is one file inside the bundle.
type Entry struct {
	Name string
	Data []byte
}

// Builder produces deflate-compressed ZIP bundles, preserving entry order.
type Builder struct{}

// NewBuilder creates a new Builder
func NewBuilder() *Builder {
	return &Builder{}
}

// Build writes all entries into an in-memory ZIP archive.
func (b *Builder) Build(entries []Entry) ([]byte, error) {
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)

	for _, entry := range entries {
		fw, err := w.Create(entry.Name)
		if err != nil {
			return nil, fmt.Errorf("create archive entry %q: %w", entry.Name, err)
		}
		if _, err := fw.Write(entry.Data); err != nil {
			return nil, fmt.Errorf("write archive entry %q: %w", entry.Name, err)
		}
	}

	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("finalize archive: %w", err)
	}
	return buf.Bytes(), nil
}
