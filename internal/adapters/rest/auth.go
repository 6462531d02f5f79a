package rest

import (
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/purushottamk3112/MoodVibe/internal/core/domain"
	"github.com/purushottamk3112/MoodVibe/internal/core/services"
)

const stateCookie = "oauth_state"

type registerRequest struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type authResponse struct {
	Message string      `json:"message"`
	User    domain.User `json:"user"`
	Token   string      `json:"token"`
}

// Register handles POST /api/auth/register.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request")
		return
	}

	user, token, err := h.auth.Register(r.Context(), req.Email, req.Name, req.Password)
	if err != nil {
		var verr *services.ValidationError
		switch {
		case errors.As(err, &verr):
			writeError(w, http.StatusBadRequest, "Validation failed", fieldError{Field: verr.Field, Message: verr.Message})
		case errors.Is(err, domain.ErrEmailTaken):
			writeError(w, http.StatusBadRequest, "User already exists with this email")
		default:
			h.logger.WithError(err).Error("registration failed")
			writeError(w, http.StatusBadRequest, "Registration failed")
		}
		return
	}

	writeJSON(w, http.StatusOK, authResponse{Message: "Registration successful", User: user, Token: token})
}

// Login handles POST /api/auth/login. Bad email and bad password produce the
// same response, so callers cannot probe for registered accounts.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request")
		return
	}
	if req.Email == "" {
		writeError(w, http.StatusBadRequest, "Validation failed", fieldError{Field: "email", Message: "Email is required"})
		return
	}
	if req.Password == "" {
		writeError(w, http.StatusBadRequest, "Validation failed", fieldError{Field: "password", Message: "Password is required"})
		return
	}

	user, token, err := h.auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			writeError(w, http.StatusUnauthorized, "Invalid email or password")
			return
		}
		h.logger.WithError(err).Error("login failed")
		writeError(w, http.StatusUnauthorized, "Login failed")
		return
	}

	writeJSON(w, http.StatusOK, authResponse{Message: "Login successful", User: user, Token: token})
}

// Me handles GET /api/auth/me; it runs behind requireUser.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())
	if user == nil {
		writeError(w, http.StatusForbidden, "Invalid or expired token")
		return
	}
	writeJSON(w, http.StatusOK, map[string]*domain.User{"user": user})
}

// Logout handles POST /api/auth/logout. Sessions are stateless bearer
// tokens; the server has nothing to revoke, so this is an acknowledgement
// the client uses to drop its copy.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"message": "Logged out successfully"})
}

// GoogleLogin handles GET /api/auth/google: stash a random state in a
// short-lived cookie and send the client to the consent screen.
func (h *Handler) GoogleLogin(w http.ResponseWriter, r *http.Request) {
	if h.google == nil {
		writeError(w, http.StatusNotImplemented, "Federated login not configured")
		return
	}

	state, err := randomState()
	if err != nil {
		h.logger.WithError(err).Error("state generation failed")
		writeError(w, http.StatusInternalServerError, "Login unavailable")
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     stateCookie,
		Value:    state,
		Path:     "/api/auth/google",
		MaxAge:   600,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	http.Redirect(w, r, h.google.AuthURL(state), http.StatusFound)
}

// GoogleCallback handles GET /api/auth/google/callback. Every failure mode
// lands on the same front-end error redirect; detail goes to the logs.
func (h *Handler) GoogleCallback(w http.ResponseWriter, r *http.Request) {
	if h.google == nil {
		writeError(w, http.StatusNotImplemented, "Federated login not configured")
		return
	}

	fail := func(reason string, err error) {
		entry := h.logger.WithField("reason", reason)
		if err != nil {
			entry = entry.WithError(err)
		}
		entry.Warn("google callback failed")
		http.Redirect(w, r, "/?error=auth_failed", http.StatusFound)
	}

	if errParam := r.URL.Query().Get("error"); errParam != "" {
		fail("provider error: "+errParam, nil)
		return
	}

	cookie, err := r.Cookie(stateCookie)
	if err != nil || cookie.Value == "" || cookie.Value != r.URL.Query().Get("state") {
		fail("state mismatch", nil)
		return
	}

	code := r.URL.Query().Get("code")
	if code == "" {
		fail("missing code", nil)
		return
	}

	profile, err := h.google.FetchProfile(r.Context(), code)
	if err != nil {
		fail("profile fetch", err)
		return
	}

	user, token, err := h.auth.LoginWithGoogle(r.Context(), profile)
	if err != nil {
		fail("account resolution", err)
		return
	}

	userJSON, err := json.Marshal(user)
	if err != nil {
		fail("encode user", err)
		return
	}

	target := fmt.Sprintf("/?token=%s&user=%s", url.QueryEscape(token), url.QueryEscape(string(userJSON)))
	http.Redirect(w, r, target, http.StatusFound)
}

func randomState() (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
