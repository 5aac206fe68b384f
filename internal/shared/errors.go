package shared

import "fmt"

var (
	ErrNotImplemented = fmt.Errorf("not implemented")

	// Configuration errors
	ErrMissingConfig = fmt.Errorf("configuration not found")
	ErrInvalidConfig = fmt.Errorf("invalid configuration")

	// Authentication errors
	ErrAuthFailed       = fmt.Errorf("authentication failed")
	ErrNotAuthenticated = fmt.Errorf("not authenticated")
	ErrOTPRequired      = fmt.Errorf("one-time password required")
	ErrTimeout          = fmt.Errorf("operation timed out")

	// API and service errors
	ErrAPIRequest        = fmt.Errorf("API request failed")
	ErrEndpointNotFound  = fmt.Errorf("API endpoint not found")
	ErrPlaylistNotFound  = fmt.Errorf("playlist not found")
	ErrCatalogIncomplete = fmt.Errorf("catalog fetch incomplete")

	// Input validation errors
	ErrInvalidEntryFormat = fmt.Errorf("invalid song entry format")
	ErrInvalidReference   = fmt.Errorf("unrecognized playlist reference")
	ErrMissingArgument    = fmt.Errorf("missing required argument")
	ErrInvalidArgument    = fmt.Errorf("invalid argument")
)
