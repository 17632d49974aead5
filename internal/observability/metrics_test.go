package observability

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	apperrors "github.com/accept/school-service/pkg/util/errorutil"
)

func TestMetrics_Counters(t *testing.T) {
	m := NewMetrics("school")

	m.RecordRequest("/employees/:id", "GET", 200, 15*time.Millisecond)
	m.RecordRequest("/employees/:id", "GET", 200, 5*time.Millisecond)
	m.RecordError("/employees/login", "POST", apperrors.CodeUnauthorized)
	m.RecordLogin("success")
	m.RecordLogin("success")
	m.RecordLogin("invalid_credentials")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.requestsTotal.WithLabelValues("GET", "/employees/:id", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.errorsTotal.WithLabelValues("POST", "/employees/login", apperrors.CodeUnauthorized)))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.loginsTotal.WithLabelValues("success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.loginsTotal.WithLabelValues("invalid_credentials")))

	done := m.TrackInFlight()
	assert.Equal(t, 1.0, testutil.ToFloat64(m.inFlight))
	done()
	assert.Equal(t, 0.0, testutil.ToFloat64(m.inFlight))
}

func TestMetrics_NilIsSafe(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.RecordRequest("/", "GET", 200, time.Millisecond)
		m.RecordError("/", "GET", "X")
		m.RecordLogin("success")
		m.TrackInFlight()()
	})
}

func TestMetrics_HandlerExposesRegistry(t *testing.T) {
	m := NewMetrics("school")
	m.RecordLogin("throttled")

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	require.Equal(t, 200, rec.Code)
	assert.Contains(t, rec.Body.String(), `school_auth_logins_total{outcome="throttled"} 1`)
}

func TestRequestLogger_RecordsRoutePatternAndErrorStatus(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	m := NewMetrics("school")

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			de := apperrors.ToDomainError(err)
			return c.Status(de.HTTPStatus).SendString(de.Code)
		},
	})
	app.Use(RequestLogger(zap.New(core), m))
	app.Get("/employees/:id", func(c *fiber.Ctx) error {
		if c.Params("id") == "missing" {
			return apperrors.NewNotFound("employee", nil)
		}
		return c.SendString("ok")
	})

	for _, id := range []string{"a", "b", "missing"} {
		resp, err := app.Test(httptest.NewRequest("GET", "/employees/"+id, nil))
		require.NoError(t, err)
		_, _ = io.Copy(io.Discard, resp.Body)
		resp.Body.Close()
	}

	assert.Equal(t, 2.0, testutil.ToFloat64(m.requestsTotal.WithLabelValues("GET", "/employees/:id", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.requestsTotal.WithLabelValues("GET", "/employees/:id", "404")))

	entries := logs.FilterMessage("http request").All()
	require.Len(t, entries, 3)
	last := entries[2].ContextMap()
	assert.Equal(t, int64(404), last["status"])
	assert.True(t, strings.HasSuffix(last["path"].(string), "/missing"))
}
