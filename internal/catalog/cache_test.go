package catalog

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"stationport/internal/models"
)

// pagedClient serves a fixed catalog in pages and records every request.
type pagedClient struct {
	entries []models.CatalogEntry
	total   int // server-reported total; defaults to len(entries)
	failAt  int // offset at which ListCatalogPage fails; -1 disables
	err     error
	calls   []int // offsets requested
}

func newPagedClient(n int) *pagedClient {
	entries := make([]models.CatalogEntry, n)
	for i := range entries {
		entries[i] = models.NewCatalogEntry(fmt.Sprintf("%d", i), fmt.Sprintf("song %d", i), "artist")
	}
	return &pagedClient{entries: entries, total: n, failAt: -1}
}

func (c *pagedClient) ListCatalogPage(ctx context.Context, offset, limit int) ([]models.CatalogEntry, int, error) {
	c.calls = append(c.calls, offset)
	if c.failAt >= 0 && offset >= c.failAt {
		return nil, 0, c.err
	}
	if offset >= len(c.entries) {
		return nil, c.total, nil
	}
	end := offset + limit
	if end > len(c.entries) {
		end = len(c.entries)
	}
	return c.entries[offset:end], c.total, nil
}

func (c *pagedClient) CreatePlaylist(ctx context.Context, name string) (string, error) {
	return "", errors.New("not expected")
}

func (c *pagedClient) AddSongsToPlaylist(ctx context.Context, playlistID string, songIDs []string) error {
	return errors.New("not expected")
}

func TestCacheFetchAll(t *testing.T) {
	ctx := context.Background()

	t.Run("fetches every page in order", func(t *testing.T) {
		client := newPagedClient(25)
		cache := NewCache(client)

		entries, err := cache.FetchAll(ctx, 10, nil)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(entries) != 25 {
			t.Fatalf("expected 25 entries, got %d", len(entries))
		}
		if len(client.calls) != 3 {
			t.Fatalf("expected 3 page requests, got %d (%v)", len(client.calls), client.calls)
		}
		for i, offset := range []int{0, 10, 20} {
			if client.calls[i] != offset {
				t.Errorf("request %d: expected offset %d, got %d", i, offset, client.calls[i])
			}
		}
		if entries[0].ID != "0" || entries[24].ID != "24" {
			t.Errorf("expected server order preserved, got first %q last %q", entries[0].ID, entries[24].ID)
		}
	})

	t.Run("stops when cumulative count reaches total", func(t *testing.T) {
		client := newPagedClient(20)
		cache := NewCache(client)

		entries, err := cache.FetchAll(ctx, 10, nil)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(entries) != 20 {
			t.Fatalf("expected 20 entries, got %d", len(entries))
		}
		// 20 rows over page size 10 needs exactly 2 requests, not a
		// trailing empty probe.
		if len(client.calls) != 2 {
			t.Errorf("expected 2 page requests, got %d (%v)", len(client.calls), client.calls)
		}
	})

	t.Run("advances by rows received on short pages", func(t *testing.T) {
		client := newPagedClient(10)
		client.total = 100 // server claims more than it serves
		cache := NewCache(client)

		entries, err := cache.FetchAll(ctx, 6, nil)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(entries) != 10 {
			t.Fatalf("expected 10 entries, got %d", len(entries))
		}
		// Offsets 0 and 6 return rows, offset 10 comes back empty and
		// terminates the loop despite the inflated total.
		if len(client.calls) != 3 || client.calls[2] != 10 {
			t.Errorf("unexpected request offsets %v", client.calls)
		}
	})

	t.Run("total of zero is a valid empty cache", func(t *testing.T) {
		client := newPagedClient(0)
		cache := NewCache(client)

		entries, err := cache.FetchAll(ctx, 10, nil)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(entries) != 0 {
			t.Errorf("expected empty cache, got %d entries", len(entries))
		}
		if len(client.calls) != 1 {
			t.Errorf("expected 1 request, got %d", len(client.calls))
		}
	})

	t.Run("page error aborts with partial result", func(t *testing.T) {
		client := newPagedClient(30)
		client.failAt = 10
		client.err = errors.New("boom")
		cache := NewCache(client)

		entries, err := cache.FetchAll(ctx, 10, nil)
		if err == nil {
			t.Fatal("expected error")
		}

		var fetchErr *FetchError
		if !errors.As(err, &fetchErr) {
			t.Fatalf("expected FetchError, got %T", err)
		}
		if fetchErr.Offset != 10 {
			t.Errorf("expected failing offset 10, got %d", fetchErr.Offset)
		}
		if !errors.Is(err, client.err) {
			t.Error("expected FetchError to wrap the page error")
		}
		if len(entries) != 10 {
			t.Errorf("expected partial result of 10 entries, got %d", len(entries))
		}
	})

	t.Run("reports progress after each page", func(t *testing.T) {
		client := newPagedClient(25)
		cache := NewCache(client)

		var fetched []int
		var totals []int
		_, err := cache.FetchAll(ctx, 10, func(f, total int) {
			fetched = append(fetched, f)
			totals = append(totals, total)
		})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		want := []int{10, 20, 25}
		if len(fetched) != len(want) {
			t.Fatalf("expected %d progress calls, got %d (%v)", len(want), len(fetched), fetched)
		}
		for i := range want {
			if fetched[i] != want[i] {
				t.Errorf("progress %d: expected %d, got %d", i, want[i], fetched[i])
			}
			if totals[i] != 25 {
				t.Errorf("progress %d: expected total 25, got %d", i, totals[i])
			}
		}
	})

	t.Run("honors context cancellation", func(t *testing.T) {
		cancelled, cancel := context.WithCancel(context.Background())
		cancel()

		client := newPagedClient(10)
		cache := NewCache(client)

		_, err := cache.FetchAll(cancelled, 10, nil)
		if !errors.Is(err, context.Canceled) {
			t.Errorf("expected context.Canceled, got %v", err)
		}
	})

	t.Run("rejects a non-positive page size", func(t *testing.T) {
		cache := NewCache(newPagedClient(5))
		if _, err := cache.FetchAll(ctx, 0, nil); err == nil {
			t.Fatal("expected error for page size 0")
		}
	})
}
