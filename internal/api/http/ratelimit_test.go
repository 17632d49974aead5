package http

import (
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func limitedApp(limiter *RateLimiter) *fiber.App {
	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler})
	app.Use(limiter.Handle)
	ok := func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusOK) }
	app.Post(PathEmployeeLogin, ok)
	app.Get("/employees", ok)
	return app
}

func hit(t *testing.T, app *fiber.App, method, path string) (int, string) {
	t.Helper()
	resp, err := app.Test(httptest.NewRequest(method, path, nil))
	require.NoError(t, err)
	defer resp.Body.Close()
	return resp.StatusCode, resp.Header.Get(fiber.HeaderRetryAfter)
}

func TestRateLimiterAuthBudgetRefills(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	limiter := NewRateLimiter(60, 2, PathEmployeeLogin)
	limiter.now = func() time.Time { return now }
	app := limitedApp(limiter)

	for i := 0; i < 2; i++ {
		status, _ := hit(t, app, fiber.MethodPost, PathEmployeeLogin)
		assert.Equal(t, fiber.StatusOK, status)
	}

	status, retry := hit(t, app, fiber.MethodPost, PathEmployeeLogin)
	assert.Equal(t, fiber.StatusTooManyRequests, status)
	assert.Equal(t, strconv.Itoa(31), retry)

	status, _ = hit(t, app, fiber.MethodGet, "/employees")
	assert.Equal(t, fiber.StatusOK, status, "general budget is separate")

	now = now.Add(30 * time.Second)
	status, _ = hit(t, app, fiber.MethodPost, PathEmployeeLogin)
	assert.Equal(t, fiber.StatusOK, status)
}

func TestRateLimiterDefaults(t *testing.T) {
	limiter := NewRateLimiter(0, -1)
	assert.Equal(t, 300, limiter.generalRPM)
	assert.Equal(t, 20, limiter.authRPM)
}

func TestRateLimiterEvictsIdleClients(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	limiter := NewRateLimiter(60, 10)
	limiter.now = func() time.Time { return now }

	for i := 0; i < limiterGCThreshold; i++ {
		limiter.limiterFor("10.0.0." + strconv.Itoa(i))
	}
	require.Len(t, limiter.clients, limiterGCThreshold)

	now = now.Add(limiterIdleTTL + time.Second)
	limiter.limiterFor("10.0.0.1")
	limiter.limiterFor("192.168.1.1")

	assert.Len(t, limiter.clients, 2)
	assert.Contains(t, limiter.clients, "10.0.0.1")
	assert.Contains(t, limiter.clients, "192.168.1.1")
}
