package middleware

import (
	"net/http/httptest"
	"strings"
	"testing"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
)

func setupLimitedApp(t *testing.T, maxPerMin int) (*fiber.App, func()) {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("start miniredis: %v", err)
	}

	cache := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	app := fiber.New()
	app.Post("/login", LoginRateLimit(cache, maxPerMin), func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"ok": true})
	})

	cleanup := func() {
		cache.Close()
		mr.Close()
	}
	return app, cleanup
}

func attemptLogin(t *testing.T, app *fiber.App, email string) int {
	t.Helper()
	req := httptest.NewRequest(fiber.MethodPost, "/login",
		strings.NewReader(`{"email":"`+email+`","password":"wrong"}`))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	return resp.StatusCode
}

func TestLoginRateLimitBlocksAfterMax(t *testing.T) {
	app, cleanup := setupLimitedApp(t, 5)
	defer cleanup()

	for i := 0; i < 5; i++ {
		if code := attemptLogin(t, app, "grace@example.com"); code != fiber.StatusOK {
			t.Fatalf("attempt %d: expected %d got %d", i+1, fiber.StatusOK, code)
		}
	}
	if code := attemptLogin(t, app, "grace@example.com"); code != fiber.StatusTooManyRequests {
		t.Fatalf("expected %d got %d", fiber.StatusTooManyRequests, code)
	}
}

func TestLoginRateLimitKeyedPerEmail(t *testing.T) {
	app, cleanup := setupLimitedApp(t, 2)
	defer cleanup()

	attemptLogin(t, app, "grace@example.com")
	attemptLogin(t, app, "grace@example.com")
	if code := attemptLogin(t, app, "grace@example.com"); code != fiber.StatusTooManyRequests {
		t.Fatalf("expected %d got %d", fiber.StatusTooManyRequests, code)
	}

	// A different account is counted separately.
	if code := attemptLogin(t, app, "ada@example.com"); code != fiber.StatusOK {
		t.Fatalf("expected %d got %d", fiber.StatusOK, code)
	}
}

func TestLoginRateLimitWithoutCache(t *testing.T) {
	app := fiber.New()
	app.Post("/login", LoginRateLimit(nil, 1), func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"ok": true})
	})

	for i := 0; i < 3; i++ {
		if code := attemptLogin(t, app, "grace@example.com"); code != fiber.StatusOK {
			t.Fatalf("expected pass-through without cache, got %d", code)
		}
	}
}
