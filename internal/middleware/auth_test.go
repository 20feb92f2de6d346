package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lectoria/lectoria/internal/auth"
	"github.com/lectoria/lectoria/internal/config"
	"github.com/lectoria/lectoria/internal/domain"
	"github.com/lectoria/lectoria/internal/user"
)

const testSecret = "test-secret"

func testConfig() config.Config {
	return config.Config{AppEnv: "development", JWTSecret: testSecret, SessionTTL: time.Hour}
}

func newGatedApp(handlers ...fiber.Handler) *fiber.App {
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			var de *domain.Error
			if errors.As(err, &de) {
				return c.Status(domain.StatusOf(err)).JSON(fiber.Map{
					"success": false,
					"message": domain.MessageOf(err),
				})
			}
			var fe *fiber.Error
			if errors.As(err, &fe) {
				return c.Status(fe.Code).JSON(fiber.Map{"success": false, "message": fe.Message})
			}
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false})
		},
	})

	chain := append(handlers, func(c *fiber.Ctx) error {
		id, _ := user.IdentityFrom(c)
		return c.JSON(fiber.Map{"id": id.ID, "email": id.Email, "role": string(id.Role)})
	})
	app.Get("/protected", chain...)
	return app
}

func issueToken(t *testing.T, role user.Role, subscription string) string {
	t.Helper()
	token, err := auth.IssueToken(auth.Claims{
		UserID:             "user-1",
		Email:              "grace@example.com",
		Role:               string(role),
		SubscriptionStatus: subscription,
	}, []byte(testSecret), time.Hour)
	require.NoError(t, err)
	return token
}

func get(t *testing.T, app *fiber.App, mutate func(*http.Request)) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if mutate != nil {
		mutate(req)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	return resp
}

func TestRequireAuth_MissingToken(t *testing.T) {
	app := newGatedApp(RequireAuth(testConfig()))

	resp := get(t, app, nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestRequireAuth_GarbageToken(t *testing.T) {
	app := newGatedApp(RequireAuth(testConfig()))

	resp := get(t, app, func(r *http.Request) {
		r.Header.Set("Authorization", "Bearer not.a.token")
	})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestRequireAuth_BearerHeader(t *testing.T) {
	app := newGatedApp(RequireAuth(testConfig()))
	token := issueToken(t, user.RoleUser, "")

	resp := get(t, app, func(r *http.Request) {
		r.Header.Set("Authorization", "Bearer "+token)
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestRequireAuth_SessionCookie(t *testing.T) {
	app := newGatedApp(RequireAuth(testConfig()))
	token := issueToken(t, user.RoleUser, "")

	resp := get(t, app, func(r *http.Request) {
		r.AddCookie(&http.Cookie{Name: user.SessionCookieName, Value: token})
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestRequireRoles(t *testing.T) {
	app := newGatedApp(RequireAuth(testConfig()), RequireRoles(user.RoleAdmin))

	asUser := get(t, app, func(r *http.Request) {
		r.Header.Set("Authorization", "Bearer "+issueToken(t, user.RoleUser, ""))
	})
	assert.Equal(t, http.StatusForbidden, asUser.StatusCode)

	asAdmin := get(t, app, func(r *http.Request) {
		r.Header.Set("Authorization", "Bearer "+issueToken(t, user.RoleAdmin, ""))
	})
	assert.Equal(t, http.StatusOK, asAdmin.StatusCode)
}

// Entitlement is decided by the current store record, not by claims frozen
// into the token at issue time.
func TestRequireSubscriber_LiveRecheck(t *testing.T) {
	repo := user.NewMemoryRepository()
	require.NoError(t, repo.Create(context.Background(), user.User{
		ID:    "user-1",
		Email: "grace@example.com",
		Role:  user.RoleUser,
	}))

	app := newGatedApp(RequireAuth(testConfig()), RequireSubscriber(repo))

	// Token claims say active, store says no subscription.
	stale := get(t, app, func(r *http.Request) {
		r.Header.Set("Authorization", "Bearer "+issueToken(t, user.RoleUser, user.SubscriptionActive))
	})
	assert.Equal(t, http.StatusForbidden, stale.StatusCode)

	require.NoError(t, repo.UpdateSubscription(context.Background(), "user-1", user.Subscription{
		ID:     "sub-1",
		Status: user.SubscriptionActive,
	}))

	fresh := get(t, app, func(r *http.Request) {
		r.Header.Set("Authorization", "Bearer "+issueToken(t, user.RoleUser, ""))
	})
	assert.Equal(t, http.StatusOK, fresh.StatusCode)
}

func TestRequireSubscriber_AdminBypass(t *testing.T) {
	repo := user.NewMemoryRepository()
	require.NoError(t, repo.Create(context.Background(), user.User{
		ID:    "user-1",
		Email: "admin@example.com",
		Role:  user.RoleAdmin,
	}))

	app := newGatedApp(RequireAuth(testConfig()), RequireSubscriber(repo))

	resp := get(t, app, func(r *http.Request) {
		r.Header.Set("Authorization", "Bearer "+issueToken(t, user.RoleAdmin, ""))
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
