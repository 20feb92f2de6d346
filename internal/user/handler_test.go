package user

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lectoria/lectoria/internal/config"
	"github.com/lectoria/lectoria/internal/domain"
	"github.com/lectoria/lectoria/internal/logging"
	"github.com/lectoria/lectoria/internal/media"
)

func newTestApp(t *testing.T) *fiber.App {
	t.Helper()

	cfg := config.Config{
		AppEnv:      "development",
		JWTSecret:   "test-secret",
		SessionTTL:  time.Hour,
		BcryptCost:  4,
		FrontendURL: "http://app.test",
	}
	svc := NewService(NewMemoryRepository(), media.NewMemoryStorage(), &mailerStub{}, cfg, logging.Discard())
	h := NewHandler(svc, cfg, logging.Discard())

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			var de *domain.Error
			if errors.As(err, &de) {
				return c.Status(domain.StatusOf(err)).JSON(fiber.Map{
					"success": false,
					"message": domain.MessageOf(err),
				})
			}
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"success": false,
				"message": "internal server error",
			})
		},
	})
	app.Post("/register", h.Register)
	app.Post("/login", h.Login)
	app.Post("/logout", h.Logout)
	return app
}

func postJSON(t *testing.T, app *fiber.App, path, body string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	return resp
}

func sessionCookie(resp *http.Response) *http.Cookie {
	for _, c := range resp.Cookies() {
		if c.Name == SessionCookieName {
			return c
		}
	}
	return nil
}

func TestRegisterEndpoint_RespondsWithoutUpload(t *testing.T) {
	app := newTestApp(t)

	resp := postJSON(t, app, "/register",
		`{"fullName":"Grace Hopper","email":"grace@example.com","password":"s3cret!"}`)
	defer resp.Body.Close()

	require.Equal(t, http.StatusCreated, resp.StatusCode)

	cookie := sessionCookie(resp)
	require.NotNil(t, cookie, "registration must open a session")
	assert.NotEmpty(t, cookie.Value)
	assert.True(t, cookie.HttpOnly)

	var body struct {
		Success bool `json:"success"`
		User    struct {
			Email string `json:"email"`
			Role  string `json:"role"`
		} `json:"user"`
	}
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(raw, &body))
	assert.True(t, body.Success)
	assert.Equal(t, "grace@example.com", body.User.Email)
	assert.Equal(t, "user", body.User.Role)
	assert.NotContains(t, string(raw), "password")
}

func TestRegisterEndpoint_Validation(t *testing.T) {
	app := newTestApp(t)

	resp := postJSON(t, app, "/register",
		`{"fullName":"Ada","email":"ada@example.com","password":"s3cret!"}`)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Nil(t, sessionCookie(resp))
}

func TestLoginEndpoint(t *testing.T) {
	app := newTestApp(t)

	postJSON(t, app, "/register",
		`{"fullName":"Grace Hopper","email":"grace@example.com","password":"s3cret!"}`)

	resp := postJSON(t, app, "/login",
		`{"email":"grace@example.com","password":"s3cret!"}`)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	require.NotNil(t, sessionCookie(resp))

	bad := postJSON(t, app, "/login",
		`{"email":"grace@example.com","password":"wrong"}`)
	defer bad.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, bad.StatusCode)
	assert.Nil(t, sessionCookie(bad))
}

func TestLogoutEndpoint_ClearsCookie(t *testing.T) {
	app := newTestApp(t)

	resp := postJSON(t, app, "/logout", `{}`)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)

	cookie := sessionCookie(resp)
	require.NotNil(t, cookie)
	assert.Empty(t, cookie.Value)
	assert.True(t, cookie.Expires.Before(time.Now()), "cookie must be expired")
}
