package rest

import (
	"context"
	"net/http"
	"strings"

	"github.com/purushottamk3112/MoodVibe/internal/core/domain"
)

type contextKey string

const userContextKey contextKey = "user"

// userFromContext returns the authenticated user attached by a gate, if any.
func userFromContext(ctx context.Context) *domain.User {
	u, ok := ctx.Value(userContextKey).(*domain.User)
	if !ok {
		return nil
	}
	return u
}

// extractBearer pulls the token out of the Authorization header.
func extractBearer(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return ""
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

// withGate wraps next with the configured authentication policy. One knob,
// one code path: required and optional share the token resolution and differ
// only in what happens when it yields nothing.
func (h *Handler) withGate(next http.HandlerFunc) http.HandlerFunc {
	switch h.gate {
	case GateRequired:
		return h.requireUser(next)
	case GateOptional:
		return h.attachUser(next)
	default:
		return next
	}
}

// requireUser rejects requests without a valid bearer token.
func (h *Handler) requireUser(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := extractBearer(r)
		if token == "" {
			writeError(w, http.StatusUnauthorized, "Access token required")
			return
		}
		user, err := h.auth.UserFromToken(r.Context(), token)
		if err != nil {
			writeError(w, http.StatusForbidden, "Invalid or expired token")
			return
		}
		ctx := context.WithValue(r.Context(), userContextKey, &user)
		next(w, r.WithContext(ctx))
	}
}

// attachUser resolves a bearer token when present but never blocks the
// request; an invalid token is treated the same as no token.
func (h *Handler) attachUser(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if token := extractBearer(r); token != "" {
			if user, err := h.auth.UserFromToken(r.Context(), token); err == nil {
				r = r.WithContext(context.WithValue(r.Context(), userContextKey, &user))
			}
		}
		next(w, r)
	}
}

// rateLimited throttles credential endpoints per client IP.
func (h *Handler) rateLimited(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !h.limiter.Allow(clientIP(r)) {
			writeError(w, http.StatusTooManyRequests, "Too many attempts. Please try again later.")
			return
		}
		next(w, r)
	}
}
