package ports

import (
	"context"
	"errors"
	"fmt"

	"github.com/purushottamk3112/MoodVibe/internal/core/domain"
)

// ErrUpstreamAuth indicates the catalog token exchange failed.
var ErrUpstreamAuth = errors.New("upstream auth failed")

// ErrTrackSearch indicates the catalog search itself failed.
var ErrTrackSearch = errors.New("track search failed")

// UpstreamAuthError wraps a failed client-credentials exchange.
type UpstreamAuthError struct {
	Cause error
}

func (e *UpstreamAuthError) Error() string {
	if e.Cause == nil {
		return ErrUpstreamAuth.Error()
	}
	return fmt.Sprintf("upstream auth failed: %v", e.Cause)
}

func (e *UpstreamAuthError) Unwrap() error { return e.Cause }

func (e *UpstreamAuthError) Is(target error) bool { return target == ErrUpstreamAuth }

// TrackSearchError wraps a failed catalog search. No partial results
// accompany it; search is all-or-nothing per call.
type TrackSearchError struct {
	Cause error
}

func (e *TrackSearchError) Error() string {
	if e.Cause == nil {
		return ErrTrackSearch.Error()
	}
	return fmt.Sprintf("track search failed: %v", e.Cause)
}

func (e *TrackSearchError) Unwrap() error { return e.Cause }

func (e *TrackSearchError) Is(target error) bool { return target == ErrTrackSearch }

// TrackSearcher queries the music catalog for tracks matching the given
// keywords, returning at most six deduplicated songs in catalog order.
type TrackSearcher interface {
	SearchTracks(ctx context.Context, keywords []string) ([]domain.Song, error)
}
