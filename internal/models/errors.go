package models

import (
	"errors"
	"fmt"
)

// Caller errors. Wrap them with fmt.Errorf("...: %w", ...) to add context.
var (
	ErrMissingInput     = errors.New("URL or channelId is required")
	ErrInvalidReference = errors.New("invalid channel reference")
	ErrNotFound         = errors.New("channel not found")
	ErrUpstreamFailure  = errors.New("YouTube API request failed")
)

// UpstreamError is a failed call to the YouTube Data API. Status is the
// provider's HTTP status, or 0 when the request never got a response.
type UpstreamError struct {
	Op     string
	Status int
	Body   string
	Err    error
}

func (e *UpstreamError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s: YouTube API returned status code %d", e.Op, e.Status)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}

// Is makes every UpstreamError match ErrUpstreamFailure.
func (e *UpstreamError) Is(target error) bool {
	return target == ErrUpstreamFailure
}
