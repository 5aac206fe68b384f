package models

import (
	"testing"
)

func TestParseSongEntry(t *testing.T) {
	t.Run("parses title and artist", func(t *testing.T) {
		entry, err := ParseSongEntry("Yesterday - The Beatles")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if entry.Title != "Yesterday" {
			t.Errorf("expected title 'Yesterday', got %q", entry.Title)
		}
		if entry.Artist != "The Beatles" {
			t.Errorf("expected artist 'The Beatles', got %q", entry.Artist)
		}
	})

	t.Run("splits on the first separator only", func(t *testing.T) {
		entry, err := ParseSongEntry("Ob-La-Di, Ob-La-Da - The Beatles")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if entry.Title != "Ob" {
			t.Errorf("expected title 'Ob', got %q", entry.Title)
		}
		if entry.Artist != "La-Di, Ob-La-Da - The Beatles" {
			t.Errorf("unexpected artist %q", entry.Artist)
		}
	})

	t.Run("trims whitespace around fields", func(t *testing.T) {
		entry, err := ParseSongEntry("  Hey Jude   -   The Beatles  ")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if entry.Title != "Hey Jude" || entry.Artist != "The Beatles" {
			t.Errorf("expected trimmed fields, got %q / %q", entry.Title, entry.Artist)
		}
	})

	t.Run("fails without a separator", func(t *testing.T) {
		if _, err := ParseSongEntry("Yesterday The Beatles"); err == nil {
			t.Fatal("expected error for line without separator")
		}
	})

	t.Run("allows an empty artist", func(t *testing.T) {
		entry, err := ParseSongEntry("Instrumental - ")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if entry.Artist != "" {
			t.Errorf("expected empty artist, got %q", entry.Artist)
		}
	})
}

func TestParseSongList(t *testing.T) {
	t.Run("collects valid entries and skipped lines", func(t *testing.T) {
		lines := []string{
			"Yesterday - The Beatles",
			"",
			"not a valid line",
			"  Hey Jude - The Beatles  ",
		}

		entries, skipped := ParseSongList(lines)
		if len(entries) != 2 {
			t.Fatalf("expected 2 entries, got %d", len(entries))
		}
		if len(skipped) != 1 {
			t.Fatalf("expected 1 skipped line, got %d", len(skipped))
		}
		if skipped[0] != "not a valid line" {
			t.Errorf("unexpected skipped line %q", skipped[0])
		}
	})

	t.Run("preserves input order", func(t *testing.T) {
		entries, _ := ParseSongList([]string{"b - x", "a - y"})
		if entries[0].Title != "b" || entries[1].Title != "a" {
			t.Errorf("expected input order preserved, got %v", entries)
		}
	})
}

func TestSongEntryString(t *testing.T) {
	entry := SongEntry{Title: "Yesterday", Artist: "The Beatles"}
	if got := entry.String(); got != "Yesterday - The Beatles" {
		t.Errorf("expected 'Yesterday - The Beatles', got %q", got)
	}
}

func TestNewCatalogEntry(t *testing.T) {
	entry := NewCatalogEntry("42", "  Yesterday ", " The BEATLES ")
	if entry.ID != "42" {
		t.Errorf("expected id '42', got %q", entry.ID)
	}
	if entry.Title != "yesterday" {
		t.Errorf("expected normalized title 'yesterday', got %q", entry.Title)
	}
	if entry.Artist != "the beatles" {
		t.Errorf("expected normalized artist 'the beatles', got %q", entry.Artist)
	}
}

func TestImportRunValidate(t *testing.T) {
	t.Run("accepts a complete run", func(t *testing.T) {
		run := &ImportRun{RunID: "r1", PlaylistName: "mix", Phase: "done"}
		if err := run.Validate(); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
	})

	t.Run("rejects missing fields", func(t *testing.T) {
		cases := []ImportRun{
			{PlaylistName: "mix", Phase: "done"},
			{RunID: "r1", Phase: "done"},
			{RunID: "r1", PlaylistName: "mix"},
		}
		for i, run := range cases {
			if err := run.Validate(); err == nil {
				t.Errorf("case %d: expected validation error", i)
			}
		}
	})
}
