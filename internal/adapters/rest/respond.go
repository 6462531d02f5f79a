package rest

import (
	"encoding/json"
	"net/http"
)

// fieldError is the per-field detail attached to validation failures.
type fieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// errorResponse is the uniform error body. Internal detail never goes here;
// it is logged server-side only.
type errorResponse struct {
	Message string       `json:"message"`
	Errors  []fieldError `json:"errors,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string, fields ...fieldError) {
	writeJSON(w, status, errorResponse{Message: message, Errors: fields})
}

func isJSONContentType(r *http.Request) bool {
	ct := r.Header.Get("Content-Type")
	return ct == "" || ct == "application/json" || len(ct) > 16 && ct[:16] == "application/json"
}
