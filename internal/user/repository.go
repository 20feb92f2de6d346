package user

import (
	"context"
	"errors"
	"time"
)

// Store-level sentinel errors. The service layer translates these into
// transport error kinds.
var (
	ErrNotFound       = errors.New("user not found")
	ErrDuplicateEmail = errors.New("email already exists")
)

// ProfilePatch carries the mutable profile fields of a partial update. Nil
// fields are left untouched.
type ProfilePatch struct {
	FullName *string
	Avatar   *Avatar
}

// Repository persists identity records. Email uniqueness is enforced here;
// per-record writes are serialized so concurrent updates cannot interleave
// partial field sets.
type Repository interface {
	Create(ctx context.Context, u User) error
	FindByEmail(ctx context.Context, email string) (User, error)
	FindByID(ctx context.Context, id string) (User, error)
	UpdatePassword(ctx context.Context, id, passwordHash string) error
	SetResetToken(ctx context.Context, id, fingerprint string, expiry time.Time) error
	ClearResetToken(ctx context.Context, id string) error
	// ConsumeResetToken atomically matches an unexpired fingerprint,
	// replaces the credential hash and clears the reset fields. A second
	// concurrent consume of the same fingerprint must miss.
	ConsumeResetToken(ctx context.Context, fingerprint string, now time.Time, newPasswordHash string) (User, error)
	UpdateProfile(ctx context.Context, id string, patch ProfilePatch) (User, error)
	UpdateSubscription(ctx context.Context, id string, sub Subscription) error
	CountUsers(ctx context.Context) (total int64, subscribed int64, err error)
}
