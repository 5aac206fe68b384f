// Plain-file [Source] implementation: one "title - artist" per line.
package sources

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"stationport/internal/models"
	"stationport/internal/shared"
)

// FileSource resolves a local UTF-8 text file of song references.
type FileSource struct{}

// NewFileSource creates a file source.
func NewFileSource() *FileSource {
	return &FileSource{}
}

// Name returns the source name.
func (s *FileSource) Name() string {
	return "File"
}

// Resolve reads the file and parses one entry per non-empty line. The
// playlist name defaults to the file's base name without extension.
func (s *FileSource) Resolve(ctx context.Context, reference string) (*Playlist, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(reference)
	if err != nil {
		return nil, fmt.Errorf("failed to read song list: %w", err)
	}

	entries, skipped := models.ParseSongList(strings.Split(string(data), "\n"))
	if len(entries) == 0 {
		return nil, fmt.Errorf("%w: no valid entries in %s", shared.ErrInvalidEntryFormat, reference)
	}

	base := filepath.Base(reference)
	name := strings.TrimSuffix(base, filepath.Ext(base))

	return &Playlist{Name: name, Entries: entries, Skipped: skipped}, nil
}
