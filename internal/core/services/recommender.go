package services

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/purushottamk3112/MoodVibe/internal/core/domain"
	"github.com/purushottamk3112/MoodVibe/internal/core/ports"
)

// maxMoodLength bounds the free-text mood accepted from clients,
// counted in characters rather than bytes.
const maxMoodLength = 500

// ValidationError reports malformed client input with field-level detail.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed: %s: %s", e.Field, e.Message)
}

// Recommender coordinates mood analysis and track search for one request.
type Recommender struct {
	analyzer ports.MoodAnalyzer
	searcher ports.TrackSearcher
}

// NewRecommender constructs a Recommender.
func NewRecommender(analyzer ports.MoodAnalyzer, searcher ports.TrackSearcher) *Recommender {
	return &Recommender{
		analyzer: analyzer,
		searcher: searcher,
	}
}

// Recommend turns a mood string into a deduplicated song list.
// Mood analysis never fails the request: the analyzer substitutes a fixed
// genre set on upstream failure. A track-search failure aborts the request
// with no partial results.
func (r *Recommender) Recommend(ctx context.Context, mood string) (domain.Recommendations, error) {
	mood = strings.TrimSpace(mood)
	if mood == "" {
		return domain.Recommendations{}, &ValidationError{Field: "mood", Message: "Mood cannot be empty"}
	}
	if utf8.RuneCountInString(mood) > maxMoodLength {
		return domain.Recommendations{}, &ValidationError{Field: "mood", Message: "Mood is too long"}
	}

	analysis, err := r.analyzer.AnalyzeMood(ctx, mood)
	if err != nil {
		return domain.Recommendations{}, fmt.Errorf("service: analyze mood: %w", err)
	}

	songs, err := r.searcher.SearchTracks(ctx, analysis.Genres)
	if err != nil {
		return domain.Recommendations{}, fmt.Errorf("service: search tracks: %w", err)
	}

	return domain.Recommendations{
		DetectedMood: strings.Join(analysis.Genres, ", "),
		Songs:        songs,
	}, nil
}
