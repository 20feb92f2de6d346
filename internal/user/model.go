package user

import (
	"regexp"
	"strings"
	"time"
)

// Role is the closed set of authorization roles. The legacy data carried a
// redundant upper-cased admin variant; ParseRole collapses it so there is a
// single elevated-privilege role.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// ParseRole canonicalizes a stored or supplied role string. Unknown values
// fall back to the unprivileged role.
func ParseRole(s string) Role {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case string(RoleAdmin):
		return RoleAdmin
	default:
		return RoleUser
	}
}

// SubscriptionActive is the only subscription status this service
// interprets; everything else is opaque provider state.
const SubscriptionActive = "active"

// Avatar points at externally stored profile media.
type Avatar struct {
	PublicID string `json:"public_id"`
	URL      string `json:"secure_url"`
}

// PlaceholderAvatar is assigned at registration until a real upload lands.
func PlaceholderAvatar(email string) Avatar {
	return Avatar{
		PublicID: email,
		URL:      "https://res.cloudinary.com/lectoria/image/upload/avatar.png",
	}
}

// Subscription mirrors the payment provider's view of the account. The
// service only ever compares Status against SubscriptionActive.
type Subscription struct {
	ID     string `json:"id,omitempty"`
	Status string `json:"status,omitempty"`
}

// User is the persisted identity record. PasswordHash and the reset token
// fields never serialize into a response body.
type User struct {
	ID           string       `json:"id"`
	FullName     string       `json:"full_name"`
	Email        string       `json:"email"`
	PasswordHash string       `json:"-"`
	Avatar       Avatar       `json:"avatar"`
	Role         Role         `json:"role"`
	Subscription Subscription `json:"subscription"`

	ResetTokenHash   string    `json:"-"`
	ResetTokenExpiry time.Time `json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// HasActiveSubscription reports whether the record is currently entitled to
// subscriber-only content. Admins are always entitled.
func (u User) HasActiveSubscription() bool {
	return u.Role == RoleAdmin || u.Subscription.Status == SubscriptionActive
}

// HasValidResetToken reports whether an unexpired reset fingerprint is
// outstanding. A fingerprint without a future expiry counts as absent.
func (u User) HasValidResetToken(now time.Time) bool {
	return u.ResetTokenHash != "" && now.Before(u.ResetTokenExpiry)
}

var emailPattern = regexp.MustCompile(`^[\w\-.]+@([\w-]+\.)+[\w-]{2,4}$`)

// NormalizeEmail lowers and trims an email address for storage and lookup.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ValidFullName checks the 5-50 character constraint on the trimmed name.
func ValidFullName(name string) bool {
	n := len(strings.TrimSpace(name))
	return n >= 5 && n <= 50
}

// ValidEmail checks the normalized address against the standard shape.
func ValidEmail(email string) bool {
	return emailPattern.MatchString(NormalizeEmail(email))
}

// ValidPassword enforces the minimum plaintext length.
func ValidPassword(password string) bool {
	return len(password) >= 6
}
