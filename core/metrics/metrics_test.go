package metrics

import (
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterAndServe(t *testing.T) {
	reg := prometheus.NewRegistry()
	require.NoError(t, Register(reg))
	assert.Error(t, Register(reg), "registering twice should fail")

	RendersAdmitted.WithLabelValues("metrics-test").Inc()
	RendersApplied.WithLabelValues("metrics-test", "apply").Add(2)

	app := fiber.New()
	app.Get("/metrics", Handler(reg))

	resp, err := app.Test(httptest.NewRequest("GET", "/metrics", nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `surface_renderer_scheduler_renders_admitted_total{surface="metrics-test"} 1`)
	assert.Contains(t, string(body), `surface_renderer_scheduler_renders_applied_total{mode="apply",surface="metrics-test"} 2`)
}

func TestForget(t *testing.T) {
	RendersFailed.WithLabelValues("forget-me").Inc()
	assert.Equal(t, float64(1), testutil.ToFloat64(RendersFailed.WithLabelValues("forget-me")))

	Forget("forget-me")
	assert.Equal(t, float64(0), testutil.ToFloat64(RendersFailed.WithLabelValues("forget-me")))
}
