package http

import (
	"strconv"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/time/rate"

	apperrors "github.com/accept/school-service/pkg/util/errorutil"
)

type clientLimiter struct {
	general  *rate.Limiter
	auth     *rate.Limiter
	lastSeen time.Time
}

// RateLimiter keeps per-client token buckets: a general budget and a tighter
// one for credential endpoints.
type RateLimiter struct {
	generalRPM int
	authRPM    int
	authPaths  map[string]struct{}
	now        func() time.Time

	mu      sync.Mutex
	clients map[string]*clientLimiter
}

const (
	limiterGCThreshold = 1000
	limiterIdleTTL     = 10 * time.Minute
)

// NewRateLimiter builds a limiter; authPaths use the auth budget.
func NewRateLimiter(generalRPM, authRPM int, authPaths ...string) *RateLimiter {
	if generalRPM <= 0 {
		generalRPM = 300
	}
	if authRPM <= 0 {
		authRPM = 20
	}
	paths := make(map[string]struct{}, len(authPaths))
	for _, p := range authPaths {
		paths[p] = struct{}{}
	}
	return &RateLimiter{
		generalRPM: generalRPM,
		authRPM:    authRPM,
		authPaths:  paths,
		now:        time.Now,
		clients:    map[string]*clientLimiter{},
	}
}

// Handle rejects requests over budget with 429 and Retry-After.
func (m *RateLimiter) Handle(c *fiber.Ctx) error {
	limiter := m.limiterFor(c.IP())

	target, rpm := limiter.general, m.generalRPM
	if _, ok := m.authPaths[c.Path()]; ok {
		target, rpm = limiter.auth, m.authRPM
	}

	if !target.AllowN(m.now(), 1) {
		retry := time.Minute / time.Duration(rpm)
		c.Set(fiber.HeaderRetryAfter, strconv.Itoa(int(retry.Seconds())+1))
		return apperrors.NewTooManyRequests("too many requests")
	}
	return c.Next()
}

func newLimiter(rpm int) *rate.Limiter {
	return rate.NewLimiter(rate.Every(time.Minute/time.Duration(rpm)), rpm)
}

func (m *RateLimiter) limiterFor(clientIP string) *clientLimiter {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	if limiter, exists := m.clients[clientIP]; exists {
		limiter.lastSeen = now
		return limiter
	}

	m.gcLocked(now)
	created := &clientLimiter{general: newLimiter(m.generalRPM), auth: newLimiter(m.authRPM), lastSeen: now}
	m.clients[clientIP] = created
	return created
}

func (m *RateLimiter) gcLocked(now time.Time) {
	if len(m.clients) < limiterGCThreshold {
		return
	}
	cutoff := now.Add(-limiterIdleTTL)
	for ip, limiter := range m.clients {
		if limiter.lastSeen.Before(cutoff) {
			delete(m.clients, ip)
		}
	}
}
