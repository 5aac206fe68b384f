package tasks

import (
	"errors"
	"fmt"
)

// ErrNoMatches means zero input entries matched the catalog. The run mutates
// nothing remote in this case, so re-invoking is always safe.
var ErrNoMatches = errors.New("no catalog entries matched")

// ErrCancelledAfterMutation means cancellation arrived after playlist
// creation had started; the remote playlist may already exist and cannot be
// retracted automatically.
var ErrCancelledAfterMutation = errors.New("cancelled after remote mutation")

// CatalogFetchError wraps a failed or cancelled catalog fetch.
type CatalogFetchError struct {
	Err error
}

func (e *CatalogFetchError) Error() string {
	return fmt.Sprintf("catalog fetch: %v", e.Err)
}

func (e *CatalogFetchError) Unwrap() error { return e.Err }

// PlaylistCreationError wraps a failed playlist create call. Nothing was
// populated; the remote side may or may not have created the playlist.
type PlaylistCreationError struct {
	Name string
	Err  error
}

func (e *PlaylistCreationError) Error() string {
	return fmt.Sprintf("failed to create playlist %q: %v", e.Name, e.Err)
}

func (e *PlaylistCreationError) Unwrap() error { return e.Err }

// PopulationError wraps a failed add-songs call. Distinguished because the
// playlist already exists remotely at this point: a partial, externally
// visible side effect the report records rather than hides.
type PopulationError struct {
	PlaylistID string
	Err        error
}

func (e *PopulationError) Error() string {
	return fmt.Sprintf("failed to populate playlist %s: %v", e.PlaylistID, e.Err)
}

func (e *PopulationError) Unwrap() error { return e.Err }
