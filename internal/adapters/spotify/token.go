package spotify

import (
	"context"
	"sync"
	"time"

	"golang.org/x/oauth2/clientcredentials"

	"github.com/purushottamk3112/MoodVibe/internal/core/ports"
)

// safetyMargin is subtracted from the provider's expiry so a token is never
// presented moments before it dies mid-request.
const safetyMargin = 60 * time.Second

// tokenCache holds the catalog bearer token and refreshes it on expiry via a
// client-credentials exchange. The mutex is held across the whole
// check-and-refresh sequence, so concurrent callers observing an expired
// token block on one exchange instead of issuing duplicates. The exchange
// itself is bounded by the configured timeout; a hung token endpoint must not
// stall every request queued on the mutex.
type tokenCache struct {
	conf    *clientcredentials.Config
	timeout time.Duration

	mu     sync.Mutex
	token  string
	expiry time.Time
	now    func() time.Time
}

func newTokenCache(clientID, clientSecret, tokenURL string, timeout time.Duration) *tokenCache {
	return &tokenCache{
		conf: &clientcredentials.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			TokenURL:     tokenURL,
		},
		timeout: timeout,
		now:     time.Now,
	}
}

// Token returns a valid bearer token, exchanging credentials when the cached
// one is missing or within the safety margin of its expiry.
func (c *tokenCache) Token(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.token != "" && c.now().Before(c.expiry) {
		return c.token, nil
	}

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	tok, err := c.conf.Token(ctx)
	if err != nil {
		return "", &ports.UpstreamAuthError{Cause: err}
	}

	expiry := tok.Expiry
	if expiry.IsZero() {
		// Provider omitted expires_in; treat the token as hourly.
		expiry = c.now().Add(time.Hour)
	}
	c.token = tok.AccessToken
	c.expiry = expiry.Add(-safetyMargin)
	return c.token, nil
}

// Invalidate drops the cached token so the next call exchanges credentials.
// Called when the catalog rejects a token the cache still considered valid.
func (c *tokenCache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = ""
	c.expiry = time.Time{}
}
