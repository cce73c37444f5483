package shared

import "fmt"

var (
	// Configuration errors
	ErrMissingConfig = fmt.Errorf("configuration not found")
	ErrInvalidConfig = fmt.Errorf("invalid configuration")

	// Authentication errors
	ErrAuthFailed       = fmt.Errorf("authentication failed")
	ErrNotAuthenticated = fmt.Errorf("not authenticated")

	// API and service errors
	ErrAPIRequest       = fmt.Errorf("API request failed")
	ErrQuotaExceeded    = fmt.Errorf("quota exceeded")
	ErrPlaylistNotFound = fmt.Errorf("playlist not found")
	ErrVideoNotFound    = fmt.Errorf("video not found")
	ErrStaleCursor      = fmt.Errorf("server repeated a page cursor")

	// Input validation errors
	ErrInvalidInput    = fmt.Errorf("invalid input")
	ErrMissingArgument = fmt.Errorf("missing required argument")
	ErrInvalidArgument = fmt.Errorf("invalid argument")
)
