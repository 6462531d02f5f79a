// Package spotify provides the music-catalog adapter: a cached
// client-credentials token and keyword track search with first-wins
// deduplication.
package spotify

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/purushottamk3112/MoodVibe/internal/config"
	"github.com/purushottamk3112/MoodVibe/internal/core/domain"
	"github.com/purushottamk3112/MoodVibe/internal/core/ports"
)

const (
	searchLimit = 20
	maxSongs    = 6
)

// Client is an HTTP client for the catalog search API.
type Client struct {
	httpClient  *http.Client
	baseURL     string
	market      string
	tokens      *tokenCache
	logger      *logrus.Logger
	maxRetries  int
	baseBackoff time.Duration
}

var _ ports.TrackSearcher = (*Client)(nil)

// NewClient constructs a catalog client from configuration.
func NewClient(cfg config.SpotifyConfig, logger *logrus.Logger) *Client {
	timeout := cfg.Timeout()
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	market := cfg.Market
	if market == "" {
		market = "US"
	}
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    strings.TrimRight(cfg.APIBaseURL, "/"),
		market:     market,
		tokens:     newTokenCache(cfg.ClientID, cfg.ClientSecret, cfg.TokenURL, timeout),
		logger:     logger,
	}
}

// SearchTracks runs one boolean-OR keyword search against the catalog and
// returns at most six deduplicated songs in catalog order. Failures are
// all-or-nothing: no partial list is ever returned.
func (c *Client) SearchTracks(ctx context.Context, keywords []string) ([]domain.Song, error) {
	token, err := c.tokens.Token(ctx)
	if err != nil {
		return nil, err
	}

	searchURL, err := url.Parse(c.baseURL + "/search")
	if err != nil {
		return nil, &ports.TrackSearchError{Cause: fmt.Errorf("invalid search url: %w", err)}
	}
	query := searchURL.Query()
	query.Set("q", strings.Join(keywords, " OR "))
	query.Set("type", "track")
	query.Set("limit", fmt.Sprintf("%d", searchLimit))
	query.Set("market", c.market)
	searchURL.RawQuery = query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, searchURL.String(), nil)
	if err != nil {
		return nil, &ports.TrackSearchError{Cause: fmt.Errorf("build request: %w", err)}
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.doRequestWithRetry(req)
	if err != nil {
		return nil, &ports.TrackSearchError{Cause: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		// The catalog rejected a token the cache considered valid; the next
		// call exchanges fresh credentials.
		c.tokens.Invalidate()
		return nil, &ports.TrackSearchError{Cause: fmt.Errorf("search status %d", resp.StatusCode)}
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &ports.TrackSearchError{Cause: fmt.Errorf("search status %d", resp.StatusCode)}
	}

	var body searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, &ports.TrackSearchError{Cause: fmt.Errorf("decode search response: %w", err)}
	}

	unique := dedupeTracks(body.Tracks.Items)
	if len(unique) > maxSongs {
		unique = unique[:maxSongs]
	}

	songs := make([]domain.Song, 0, len(unique))
	for _, tr := range unique {
		songs = append(songs, mapTrackToSong(tr))
	}

	c.logger.WithFields(logrus.Fields{
		"keywords": len(keywords),
		"returned": len(body.Tracks.Items),
		"songs":    len(songs),
	}).Debug("catalog search complete")

	return songs, nil
}
