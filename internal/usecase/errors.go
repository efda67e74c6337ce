package usecase

import "errors"

var (
	ErrInvalidInput          = errors.New("invalid input")
	ErrNotFound              = errors.New("resource not found")
	ErrUnauthorized          = errors.New("unauthorized")
	ErrDependencyUnavailable = errors.New("dependency unavailable")

	// ErrNoLiveSource means the match is known but carries no slug to
	// scrape. Expected for fixtures not yet linked to the score site.
	ErrNoLiveSource = errors.New("no live source for match")
	// ErrLiveUnavailable means fetching or extracting the live score
	// failed; the caller may retry the whole resolution later.
	ErrLiveUnavailable = errors.New("live score temporarily unavailable")
)
