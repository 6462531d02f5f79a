package ports

import (
	"context"

	"github.com/purushottamk3112/MoodVibe/internal/core/domain"
)

// MoodAnalyzer turns a free-text mood into genre keywords.
// Implementations absorb upstream failures into a fallback result, so a
// non-nil error is exceptional; the return is kept for interface symmetry.
type MoodAnalyzer interface {
	AnalyzeMood(ctx context.Context, text string) (domain.MoodAnalysis, error)
}
