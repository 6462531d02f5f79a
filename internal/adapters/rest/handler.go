// Package rest provides the HTTP interface: route table, request decoding,
// authentication gate and response shaping.
package rest

import (
	"context"
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/purushottamk3112/MoodVibe/internal/core/services"
)

// GateMode controls how the recommendations route treats bearer tokens.
type GateMode string

const (
	// GateRequired rejects requests without a valid token.
	GateRequired GateMode = "required"
	// GateOptional attaches the user when a valid token is present but
	// serves anonymous requests too.
	GateOptional GateMode = "optional"
	// GateNone ignores tokens entirely.
	GateNone GateMode = "none"
)

// GoogleAuthenticator is the slice of the federated-login adapter the
// handler needs: building the consent URL and turning a callback code into
// a profile.
type GoogleAuthenticator interface {
	AuthURL(state string) string
	FetchProfile(ctx context.Context, code string) (services.GoogleProfile, error)
}

// Handler manages the HTTP interface for the application.
type Handler struct {
	recommender *services.Recommender
	auth        *services.AuthService
	google      GoogleAuthenticator // nil when federated login is not configured
	gate        GateMode
	logger      *logrus.Logger
	limiter     *clientLimiter
	router      *http.ServeMux
}

// NewHandler initializes the HTTP adapter and sets up routes.
func NewHandler(recommender *services.Recommender, auth *services.AuthService, google GoogleAuthenticator, gate GateMode, logger *logrus.Logger) *Handler {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	h := &Handler{
		recommender: recommender,
		auth:        auth,
		google:      google,
		gate:        gate,
		logger:      logger,
		limiter:     newClientLimiter(loginRatePerMinute, loginBurst),
		router:      http.NewServeMux(),
	}

	h.routes()

	return h
}

// ServeHTTP satisfies the http.Handler interface.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.router.ServeHTTP(w, r)
}

// Close releases the handler's background resources. Call it once when the
// handler is retired.
func (h *Handler) Close() {
	h.limiter.stop()
}

// routes defines the mapping between URLs and methods.
func (h *Handler) routes() {
	h.router.HandleFunc("GET /health", h.HealthCheck)

	h.router.HandleFunc("POST /api/recommendations", h.withGate(h.Recommendations))

	h.router.HandleFunc("POST /api/auth/register", h.rateLimited(h.Register))
	h.router.HandleFunc("POST /api/auth/login", h.rateLimited(h.Login))
	h.router.HandleFunc("GET /api/auth/me", h.requireUser(h.Me))
	h.router.HandleFunc("POST /api/auth/logout", h.Logout)
	h.router.HandleFunc("GET /api/auth/google", h.GoogleLogin)
	h.router.HandleFunc("GET /api/auth/google/callback", h.GoogleCallback)
}

// HealthCheck is a simple endpoint to verify the API is running.
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
