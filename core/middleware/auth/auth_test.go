package auth

import (
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name   string
		apiKey string
		path   string
		header string
		want   int
	}{
		{"No key configured", "", "/surfaces", "", fiber.StatusOK},
		{"Missing key", "secret", "/surfaces", "", fiber.StatusUnauthorized},
		{"Wrong key", "secret", "/surfaces", "nope", fiber.StatusUnauthorized},
		{"Valid key", "secret", "/surfaces", "secret", fiber.StatusOK},
		{"Skipped path", "secret", "/metrics", "", fiber.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := fiber.New()
			app.Use(New(Config{ApiKey: tt.apiKey, Skip: []string{"/metrics"}}))
			app.Get("/*", func(c *fiber.Ctx) error {
				return c.SendStatus(fiber.StatusOK)
			})

			req := httptest.NewRequest("GET", tt.path, nil)
			if tt.header != "" {
				req.Header.Set(Header, tt.header)
			}
			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, tt.want, resp.StatusCode)
		})
	}
}
