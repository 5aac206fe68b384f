package sources

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"stationport/internal/shared"
)

func TestDetect(t *testing.T) {
	t.Run("netease share links", func(t *testing.T) {
		for _, link := range []string{
			"https://music.163.com/playlist?id=123",
			"https://music.163.com/#/playlist?id=123",
			"http://t.cn/abc123",
		} {
			source, err := Detect(link)
			if err != nil {
				t.Fatalf("%s: expected no error, got %v", link, err)
			}
			if _, ok := source.(*NetEaseSource); !ok {
				t.Errorf("%s: expected NetEaseSource, got %T", link, source)
			}
		}
	})

	t.Run("qq music share links", func(t *testing.T) {
		for _, link := range []string{
			"https://y.qq.com/n/m/detail/taoge/index.html?disstid=123",
			"https://i.y.qq.com/n2/m/share/details/taoge.html?disstid=123",
			"http://t.qq.com/abc123",
		} {
			source, err := Detect(link)
			if err != nil {
				t.Fatalf("%s: expected no error, got %v", link, err)
			}
			if _, ok := source.(*QQMusicSource); !ok {
				t.Errorf("%s: expected QQMusicSource, got %T", link, source)
			}
		}
	})

	t.Run("existing files", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "songs.txt")
		if err := os.WriteFile(path, []byte("a - b\n"), 0644); err != nil {
			t.Fatal(err)
		}

		source, err := Detect(path)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if _, ok := source.(*FileSource); !ok {
			t.Errorf("expected FileSource, got %T", source)
		}
	})

	t.Run("rejects unknown references", func(t *testing.T) {
		for _, reference := range []string{
			"https://open.spotify.com/playlist/abc",
			"/no/such/file.txt",
			"not a reference at all",
		} {
			if _, err := Detect(reference); !errors.Is(err, shared.ErrInvalidReference) {
				t.Errorf("%s: expected ErrInvalidReference, got %v", reference, err)
			}
		}
	})
}

func TestFileSource(t *testing.T) {
	ctx := context.Background()
	source := NewFileSource()

	t.Run("Name", func(t *testing.T) {
		if source.Name() != "File" {
			t.Errorf("expected 'File', got %q", source.Name())
		}
	})

	t.Run("resolves entries and names the playlist after the file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "road trip.txt")
		content := "Yesterday - The Beatles\n\nbroken line\nImagine - John Lennon\n"
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatal(err)
		}

		playlist, err := source.Resolve(ctx, path)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if playlist.Name != "road trip" {
			t.Errorf("expected name 'road trip', got %q", playlist.Name)
		}
		if len(playlist.Entries) != 2 {
			t.Errorf("expected 2 entries, got %d", len(playlist.Entries))
		}
		if len(playlist.Skipped) != 1 || playlist.Skipped[0] != "broken line" {
			t.Errorf("expected 'broken line' skipped, got %v", playlist.Skipped)
		}
	})

	t.Run("fails when no line parses", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "garbage.txt")
		if err := os.WriteFile(path, []byte("nothing here\n"), 0644); err != nil {
			t.Fatal(err)
		}

		if _, err := source.Resolve(ctx, path); !errors.Is(err, shared.ErrInvalidEntryFormat) {
			t.Errorf("expected ErrInvalidEntryFormat, got %v", err)
		}
	})

	t.Run("fails on a missing file", func(t *testing.T) {
		if _, err := source.Resolve(ctx, "/no/such/file.txt"); err == nil {
			t.Fatal("expected error for missing file")
		}
	})
}
