package spotify

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/purushottamk3112/MoodVibe/internal/core/ports"
)

// newTokenServer serves a client-credentials token endpoint that counts
// exchanges.
func newTokenServer(t *testing.T, exchanges *atomic.Int64) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.NoError(t, r.ParseForm())
		require.Equal(t, "client_credentials", r.FormValue("grant_type"))
		exchanges.Add(1)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"token-abc","token_type":"Bearer","expires_in":3600}`))
	}))
}

func TestTokenCacheReusesValidToken(t *testing.T) {
	var exchanges atomic.Int64
	srv := newTokenServer(t, &exchanges)
	defer srv.Close()

	cache := newTokenCache("id", "secret", srv.URL, 2*time.Second)

	first, err := cache.Token(context.Background())
	require.NoError(t, err)
	second, err := cache.Token(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "token-abc", first)
	assert.Equal(t, first, second)
	assert.Equal(t, int64(1), exchanges.Load())
}

func TestTokenCacheRefreshesAfterExpiry(t *testing.T) {
	var exchanges atomic.Int64
	srv := newTokenServer(t, &exchanges)
	defer srv.Close()

	cache := newTokenCache("id", "secret", srv.URL, 2*time.Second)

	_, err := cache.Token(context.Background())
	require.NoError(t, err)

	// Jump past the stored expiry (provider expiry minus the safety margin).
	cache.now = func() time.Time { return time.Now().Add(2 * time.Hour) }

	_, err = cache.Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(2), exchanges.Load())
}

func TestTokenCacheSafetyMargin(t *testing.T) {
	var exchanges atomic.Int64
	srv := newTokenServer(t, &exchanges)
	defer srv.Close()

	cache := newTokenCache("id", "secret", srv.URL, 2*time.Second)

	_, err := cache.Token(context.Background())
	require.NoError(t, err)

	// Thirty seconds before the provider expiry is inside the safety margin,
	// so the cache must exchange again.
	cache.now = func() time.Time { return time.Now().Add(3600*time.Second - 30*time.Second) }

	_, err = cache.Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(2), exchanges.Load())
}

func TestTokenCacheSerializesConcurrentRefresh(t *testing.T) {
	var exchanges atomic.Int64
	srv := newTokenServer(t, &exchanges)
	defer srv.Close()

	cache := newTokenCache("id", "secret", srv.URL, 2*time.Second)

	var wg sync.WaitGroup
	for range 10 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			tok, err := cache.Token(context.Background())
			assert.NoError(t, err)
			assert.Equal(t, "token-abc", tok)
		}()
	}
	wg.Wait()

	assert.Equal(t, int64(1), exchanges.Load())
}

func TestTokenCacheExchangeFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	cache := newTokenCache("id", "secret", srv.URL, 2*time.Second)

	_, err := cache.Token(context.Background())
	assert.ErrorIs(t, err, ports.ErrUpstreamAuth)
}

func TestTokenCacheExchangeTimeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Hang until the test ends; the exchange must give up on its own.
		<-release
	}))
	defer srv.Close()
	defer close(release)

	cache := newTokenCache("id", "secret", srv.URL, 50*time.Millisecond)

	start := time.Now()
	_, err := cache.Token(context.Background())
	assert.ErrorIs(t, err, ports.ErrUpstreamAuth)
	assert.Less(t, time.Since(start), time.Second)
}

func TestTokenCacheInvalidate(t *testing.T) {
	var exchanges atomic.Int64
	srv := newTokenServer(t, &exchanges)
	defer srv.Close()

	cache := newTokenCache("id", "secret", srv.URL, 2*time.Second)

	_, err := cache.Token(context.Background())
	require.NoError(t, err)

	cache.Invalidate()

	_, err = cache.Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(2), exchanges.Load())
}
