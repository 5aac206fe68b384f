package models

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// entryPattern splits a raw reference on the first " - " style separator.
var entryPattern = regexp.MustCompile(`^(.*?)\s*-\s*(.*)$`)

// SongEntry is a single raw "title - artist" reference to be resolved
// against the catalog.
type SongEntry struct {
	Title  string
	Artist string
}

func (e SongEntry) String() string {
	return fmt.Sprintf("%s - %s", e.Title, e.Artist)
}

// ParseSongEntry parses a raw line into a SongEntry by splitting on the
// first "-" separator. Both fields are trimmed. Lines without a separator
// are invalid.
func ParseSongEntry(raw string) (SongEntry, error) {
	m := entryPattern.FindStringSubmatch(strings.TrimSpace(raw))
	if m == nil {
		return SongEntry{}, fmt.Errorf("no title/artist separator in %q", raw)
	}
	return SongEntry{
		Title:  strings.TrimSpace(m[1]),
		Artist: strings.TrimSpace(m[2]),
	}, nil
}

// ParseSongList parses raw lines into entries, returning the lines that
// failed to parse alongside the valid entries. Blank lines are ignored.
func ParseSongList(lines []string) ([]SongEntry, []string) {
	var entries []SongEntry
	var skipped []string

	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		entry, err := ParseSongEntry(line)
		if err != nil {
			skipped = append(skipped, line)
			continue
		}
		entries = append(entries, entry)
	}

	return entries, skipped
}

// CatalogEntry is a song row from the remote catalog with title and artist
// normalized for scoring. ID is the remote service's opaque identifier.
type CatalogEntry struct {
	ID     string
	Title  string
	Artist string
}

// NewCatalogEntry builds a CatalogEntry, trimming and lower-casing title and
// artist at ingestion time.
func NewCatalogEntry(id, title, artist string) CatalogEntry {
	return CatalogEntry{
		ID:     id,
		Title:  strings.ToLower(strings.TrimSpace(title)),
		Artist: strings.ToLower(strings.TrimSpace(artist)),
	}
}

// MatchResult is the outcome of scoring one entry against the catalog.
// Score is the best combined score seen (0-100), reported even on a miss
// so callers can tune their threshold.
type MatchResult struct {
	CatalogID string
	Score     float64
	Matched   bool
}

// UnmatchedEntry records an entry that failed both match orientations,
// together with the best score either attempt produced.
type UnmatchedEntry struct {
	Entry     SongEntry
	BestScore float64
}

// ImportRun is the persisted summary of one finished reconciliation run.
type ImportRun struct {
	RunID             string
	PlaylistName      string
	CreatedPlaylistID string
	Requested         int
	Matched           int
	Added             int
	Threshold         float64
	Phase             string
	CreatedAt         time.Time
}

// Validate checks that the run has the fields the history table requires.
func (r *ImportRun) Validate() error {
	if r.RunID == "" {
		return fmt.Errorf("import run missing id")
	}
	if r.PlaylistName == "" {
		return fmt.Errorf("import run missing playlist name")
	}
	if r.Phase == "" {
		return fmt.Errorf("import run missing phase")
	}
	return nil
}
