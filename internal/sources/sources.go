// package sources resolves shared playlist references into raw song entries.
//
// One implementation per music platform plus a plain-file variant; Detect
// picks the implementation from the reference's shape. The reconciliation
// core consumes the resolved entries without caring how they were produced.
package sources

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"strings"

	"stationport/internal/models"
	"stationport/internal/shared"
)

// Playlist is a resolved reference: the playlist's name, its parsed song
// entries, and any raw lines that failed to parse (kept for diagnostics).
type Playlist struct {
	Name    string
	Entries []models.SongEntry
	Skipped []string
}

// Source resolves an external playlist reference into song entries.
type Source interface {
	// Name returns the human-readable platform name.
	Name() string

	// Resolve turns a reference (share link or file path) into a Playlist.
	Resolve(ctx context.Context, reference string) (*Playlist, error)
}

// Detect selects a Source by inspecting the reference's shape: NetEase and
// QQ share links by host, anything naming an existing file by path.
func Detect(reference string) (Source, error) {
	if u, err := url.Parse(reference); err == nil && u.Host != "" {
		host := strings.ToLower(u.Host)
		switch {
		case strings.Contains(host, "music.163.com") || host == "t.cn":
			return NewNetEaseSource("", nil), nil
		case strings.Contains(host, "y.qq.com") || host == "t.qq.com":
			return NewQQMusicSource("", "", nil), nil
		}
	}

	if info, err := os.Stat(reference); err == nil && !info.IsDir() {
		return NewFileSource(), nil
	}

	return nil, fmt.Errorf("%w: %s", shared.ErrInvalidReference, reference)
}
