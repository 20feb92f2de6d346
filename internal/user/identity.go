package user

import "github.com/gofiber/fiber/v2"

const identityLocal = "identity"

// Identity is the verified claim snapshot the auth gate attaches to a
// request. Role and SubscriptionStatus reflect the record at token issue
// time; entitlement gates re-read the store instead of trusting them.
type Identity struct {
	ID                 string
	Email              string
	Role               Role
	SubscriptionStatus string
}

// StoreIdentity attaches a verified identity to the request context.
func StoreIdentity(c *fiber.Ctx, id Identity) {
	c.Locals(identityLocal, id)
}

// IdentityFrom returns the identity attached by the auth gate.
func IdentityFrom(c *fiber.Ctx) (Identity, bool) {
	id, ok := c.Locals(identityLocal).(Identity)
	return id, ok
}
