// Package googleauth provides the federated-login adapter: the OAuth2
// authorization-code flow against Google plus the userinfo fetch that yields
// a profile the auth service can resolve to an account.
package googleauth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"golang.org/x/oauth2"

	"github.com/purushottamk3112/MoodVibe/internal/config"
	"github.com/purushottamk3112/MoodVibe/internal/core/services"
)

const defaultUserinfoURL = "https://www.googleapis.com/oauth2/v2/userinfo"

var defaultEndpoint = oauth2.Endpoint{
	AuthURL:  "https://accounts.google.com/o/oauth2/auth",
	TokenURL: "https://oauth2.googleapis.com/token",
}

// Adapter runs the authorization-code flow and fetches the user profile.
type Adapter struct {
	conf        *oauth2.Config
	userinfoURL string
}

// New constructs the adapter from configuration.
func New(cfg config.GoogleConfig) *Adapter {
	return &Adapter{
		conf: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Scopes:       []string{"profile", "email"},
			Endpoint:     defaultEndpoint,
		},
		userinfoURL: defaultUserinfoURL,
	}
}

// AuthURL returns the consent-screen URL carrying the CSRF state.
func (a *Adapter) AuthURL(state string) string {
	return a.conf.AuthCodeURL(state)
}

// FetchProfile exchanges the callback code for a token and loads the
// userinfo document.
func (a *Adapter) FetchProfile(ctx context.Context, code string) (services.GoogleProfile, error) {
	token, err := a.conf.Exchange(ctx, code)
	if err != nil {
		return services.GoogleProfile{}, fmt.Errorf("googleauth: code exchange: %w", err)
	}

	client := a.conf.Client(ctx, token)
	resp, err := client.Get(a.userinfoURL)
	if err != nil {
		return services.GoogleProfile{}, fmt.Errorf("googleauth: userinfo request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return services.GoogleProfile{}, fmt.Errorf("googleauth: userinfo status %d", resp.StatusCode)
	}

	var info struct {
		ID      string `json:"id"`
		Email   string `json:"email"`
		Name    string `json:"name"`
		Picture string `json:"picture"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return services.GoogleProfile{}, fmt.Errorf("googleauth: decode userinfo: %w", err)
	}
	if info.ID == "" || info.Email == "" {
		return services.GoogleProfile{}, fmt.Errorf("googleauth: incomplete profile")
	}

	return services.GoogleProfile{
		ID:     info.ID,
		Email:  info.Email,
		Name:   info.Name,
		Avatar: info.Picture,
	}, nil
}
