package rest

import (
	"net"
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const (
	loginRatePerMinute = 10
	loginBurst         = 5
)

// clientLimiter keeps one token bucket per client IP. Stale entries are
// swept periodically so the map cannot grow without bound.
type clientLimiter struct {
	mu      sync.Mutex
	clients map[string]*clientEntry
	limit   rate.Limit
	burst   int
	done    chan struct{}
}

type clientEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

func newClientLimiter(perMinute, burst int) *clientLimiter {
	l := &clientLimiter{
		clients: make(map[string]*clientEntry),
		limit:   rate.Limit(float64(perMinute) / 60.0),
		burst:   burst,
		done:    make(chan struct{}),
	}
	go l.sweep(5 * time.Minute)
	return l
}

// Allow reports whether the client may proceed.
func (l *clientLimiter) Allow(ip string) bool {
	l.mu.Lock()
	entry, ok := l.clients[ip]
	if !ok {
		entry = &clientEntry{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.clients[ip] = entry
	}
	entry.lastSeen = time.Now()
	l.mu.Unlock()

	return entry.limiter.Allow()
}

func (l *clientLimiter) sweep(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-l.done:
			return
		case <-ticker.C:
			l.removeStale(interval)
		}
	}
}

func (l *clientLimiter) removeStale(olderThan time.Duration) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for ip, entry := range l.clients {
		if time.Since(entry.lastSeen) > olderThan {
			delete(l.clients, ip)
		}
	}
}

// stop ends the sweeper goroutine. Must be called at most once.
func (l *clientLimiter) stop() {
	close(l.done)
}

// clientIP extracts the remote host, ignoring the port.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
