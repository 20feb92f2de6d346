package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/lectoria/lectoria/internal/auth"
	"github.com/lectoria/lectoria/internal/config"
	"github.com/lectoria/lectoria/internal/domain"
	"github.com/lectoria/lectoria/internal/user"
)

// RequireAuth extracts a session token from the bearer header or the
// session cookie, verifies it and attaches the identity to the request.
// Extraction and verification always run before any role or entitlement
// gate.
func RequireAuth(cfg config.Config) fiber.Handler {
	secret := []byte(cfg.JWTSecret)
	return func(c *fiber.Ctx) error {
		tokenStr := extractToken(c)
		if tokenStr == "" {
			return domain.E(domain.KindNotLoggedIn, "you are not logged in")
		}

		claims, err := auth.VerifyToken(tokenStr, secret)
		if err != nil {
			return domain.E(domain.KindInvalidToken, "invalid or expired token")
		}

		user.StoreIdentity(c, user.Identity{
			ID:                 claims.UserID,
			Email:              claims.Email,
			Role:               user.ParseRole(claims.Role),
			SubscriptionStatus: claims.SubscriptionStatus,
		})
		return c.Next()
	}
}

// RequireRoles rejects identities whose role is not in the allow-set.
func RequireRoles(roles ...user.Role) fiber.Handler {
	allowed := make(map[user.Role]struct{}, len(roles))
	for _, r := range roles {
		allowed[r] = struct{}{}
	}
	return func(c *fiber.Ctx) error {
		id, ok := user.IdentityFrom(c)
		if !ok {
			return domain.E(domain.KindNotLoggedIn, "you are not logged in")
		}
		if _, ok := allowed[id.Role]; !ok {
			return domain.E(domain.KindForbidden, "you are not authorized to access this route")
		}
		return c.Next()
	}
}

// RequireSubscriber gates subscriber-only content. Entitlement can change
// after a token was issued, so the current store record decides, not the
// token claims.
func RequireSubscriber(repo user.Repository) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := user.IdentityFrom(c)
		if !ok {
			return domain.E(domain.KindNotLoggedIn, "you are not logged in")
		}

		u, err := repo.FindByID(c.UserContext(), id.ID)
		if err != nil {
			return domain.E(domain.KindInvalidToken, "invalid or expired token")
		}

		if !u.HasActiveSubscription() {
			return domain.E(domain.KindSubscriptionRequired, "please subscribe to access this route")
		}
		return c.Next()
	}
}

func extractToken(c *fiber.Ctx) string {
	authz := c.Get(fiber.HeaderAuthorization)
	if strings.HasPrefix(strings.ToLower(authz), "bearer ") {
		return strings.TrimSpace(authz[len("Bearer "):])
	}
	return c.Cookies(user.SessionCookieName)
}
