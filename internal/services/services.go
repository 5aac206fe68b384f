// package services defines interface CatalogClient for the remote music catalog
//
// Synology AudioStation (via the DSM Web API)
package services

import (
	"context"
	"errors"
	"fmt"

	"stationport/internal/models"
)

// CatalogClient defines the remote catalog operations the reconciliation
// core depends on: paginated catalog reads and playlist mutations against a
// single authenticated session.
type CatalogClient interface {
	// ListCatalogPage fetches one page of catalog rows starting at offset.
	// Returns the rows in server order and the server-reported total count.
	ListCatalogPage(ctx context.Context, offset, limit int) ([]models.CatalogEntry, int, error)

	// CreatePlaylist creates an empty playlist and returns its id.
	// Never retried internally; a failure may not be safe to repeat.
	CreatePlaylist(ctx context.Context, name string) (string, error)

	// AddSongsToPlaylist appends the given song ids to an existing playlist.
	// Never retried internally.
	AddSongsToPlaylist(ctx context.Context, playlistID string, songIDs []string) error
}

// NetworkError wraps a transient transport failure or a retryable server
// status. Read operations retry these; mutating operations surface them.
type NetworkError struct {
	Op  string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("network error during %s: %v", e.Op, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// ServerError is a non-transient remote-side failure, carrying the API name
// and the service's error code.
type ServerError struct {
	API  string
	Code int
}

func (e *ServerError) Error() string {
	return fmt.Sprintf("%s failed with code %d", e.API, e.Code)
}

// IsTransient reports whether err is a retryable network-layer failure.
func IsTransient(err error) bool {
	var netErr *NetworkError
	return errors.As(err, &netErr)
}
