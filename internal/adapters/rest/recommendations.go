package rest

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/purushottamk3112/MoodVibe/internal/core/services"
)

type recommendationsRequest struct {
	Mood string `json:"mood"`
}

// Recommendations handles POST /api/recommendations: mood in, at most six
// deduplicated songs out.
func (h *Handler) Recommendations(w http.ResponseWriter, r *http.Request) {
	if !isJSONContentType(r) {
		writeError(w, http.StatusUnsupportedMediaType, "Content-Type must be application/json")
		return
	}

	var req recommendationsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request")
		return
	}

	recs, err := h.recommender.Recommend(r.Context(), req.Mood)
	if err != nil {
		var verr *services.ValidationError
		if errors.As(err, &verr) {
			writeError(w, http.StatusBadRequest, "Invalid request", fieldError{Field: verr.Field, Message: verr.Message})
			return
		}
		// Upstream detail stays in the logs; the client gets a generic line.
		h.logger.WithError(err).Error("recommendation pipeline failed")
		writeError(w, http.StatusInternalServerError, "Failed to get recommendations. Please try again.")
		return
	}

	recs.User = userFromContext(r.Context())
	writeJSON(w, http.StatusOK, recs)
}
