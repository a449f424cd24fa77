package middleware

import (
	"academy/config"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupConfig() {
	config.AppConfig = &config.Config{
		JWTKey:    "test-secret",
		SaltRound: 4,
	}
}

func TestJWTMiddlewareRoundTrip(t *testing.T) {
	setupConfig()

	token, err := GenerateJWT(42, "Test User", "STUDENT", "test@example.com")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	app := fiber.New()
	app.Get("/me", JWTMiddleware, func(c *fiber.Ctx) error {
		userID, _ := c.Locals("userId").(uint)
		role, _ := c.Locals("role").(string)
		return c.JSON(fiber.Map{"user_id": userID, "role": role})
	})

	req := httptest.NewRequest("GET", "/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestJWTMiddlewareRejectsMissingToken(t *testing.T) {
	setupConfig()

	app := fiber.New()
	app.Get("/me", JWTMiddleware, func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/me", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestJWTMiddlewareRejectsTamperedToken(t *testing.T) {
	setupConfig()

	token, err := GenerateJWT(42, "Test User", "STUDENT", "test@example.com")
	require.NoError(t, err)

	app := fiber.New()
	app.Get("/me", JWTMiddleware, func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})

	req := httptest.NewRequest("GET", "/me", nil)
	req.Header.Set("Authorization", "Bearer "+token+"x")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestOptionalJWTMiddlewareAllowsAnonymous(t *testing.T) {
	setupConfig()

	app := fiber.New()
	app.Get("/list", OptionalJWTMiddleware, func(c *fiber.Ctx) error {
		_, authed := c.Locals("userId").(uint)
		return c.JSON(fiber.Map{"authed": authed})
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/list", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestResetTokenRoundTrip(t *testing.T) {
	setupConfig()

	token, err := GenerateResetToken(7)
	require.NoError(t, err)

	userID, err := ParseResetToken(token)
	require.NoError(t, err)
	assert.Equal(t, uint(7), userID)
}

func TestResetTokenRejectsLoginToken(t *testing.T) {
	setupConfig()

	// A normal session token must not pass as a reset token
	token, err := GenerateJWT(7, "Test User", "STUDENT", "test@example.com")
	require.NoError(t, err)

	_, err = ParseResetToken(token)
	assert.Error(t, err)
}
