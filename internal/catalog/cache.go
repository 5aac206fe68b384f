// package catalog pulls the full remote catalog into an in-memory snapshot
// before any matching begins.
package catalog

import (
	"context"
	"fmt"

	"stationport/internal/models"
	"stationport/internal/services"
)

// FetchError wraps a failed page request with the offset it failed at.
type FetchError struct {
	Offset int
	Err    error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("catalog fetch failed at offset %d: %v", e.Offset, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// ProgressFunc receives the running fetched count and the server-reported
// total after each page.
type ProgressFunc func(fetched, total int)

// Cache fetches and holds one immutable catalog snapshot per run. The
// snapshot is read-only after FetchAll returns and safe for concurrent
// reads by matching workers.
type Cache struct {
	client services.CatalogClient
}

// NewCache creates a Cache backed by the given client.
func NewCache(client services.CatalogClient) *Cache {
	return &Cache{client: client}
}

// FetchAll pages through the remote catalog starting at offset 0 until a
// page comes back empty or the cumulative count reaches the total reported
// by the first page. The offset advances by the rows actually received, so
// a server returning short pages is tolerated.
//
// Any page error aborts immediately and returns the partial result
// alongside the error; callers must not match against a partial catalog.
// A server-reported total of 0 is a valid empty cache, not an error.
func (c *Cache) FetchAll(ctx context.Context, pageSize int, onPage ProgressFunc) ([]models.CatalogEntry, error) {
	if pageSize <= 0 {
		return nil, fmt.Errorf("page size must be positive, got %d", pageSize)
	}

	var entries []models.CatalogEntry
	offset := 0
	total := -1

	for {
		if err := ctx.Err(); err != nil {
			return entries, &FetchError{Offset: offset, Err: err}
		}

		rows, pageTotal, err := c.client.ListCatalogPage(ctx, offset, pageSize)
		if err != nil {
			return entries, &FetchError{Offset: offset, Err: err}
		}

		if total < 0 {
			total = pageTotal
		}

		if len(rows) == 0 {
			break
		}

		entries = append(entries, rows...)
		offset += len(rows)

		if onPage != nil {
			onPage(len(entries), total)
		}

		if offset >= total {
			break
		}
	}

	return entries, nil
}
