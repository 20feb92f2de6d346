package user

import (
	"context"
	"sync"
	"time"
)

type memoryRepository struct {
	mu    sync.RWMutex
	users map[string]User // keyed by normalized email
	byID  map[string]string
}

// NewMemoryRepository builds an in-memory user store for tests and
// development mode.
func NewMemoryRepository() Repository {
	return &memoryRepository{
		users: make(map[string]User),
		byID:  make(map[string]string),
	}
}

func (r *memoryRepository) Create(_ context.Context, u User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	email := NormalizeEmail(u.Email)
	if _, exists := r.users[email]; exists {
		return ErrDuplicateEmail
	}
	u.Email = email
	r.users[email] = u
	r.byID[u.ID] = email
	return nil
}

func (r *memoryRepository) FindByEmail(_ context.Context, email string) (User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.users[NormalizeEmail(email)]
	if !ok {
		return User{}, ErrNotFound
	}
	return u, nil
}

func (r *memoryRepository) FindByID(_ context.Context, id string) (User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.get(id)
	if !ok {
		return User{}, ErrNotFound
	}
	return u, nil
}

func (r *memoryRepository) UpdatePassword(_ context.Context, id, passwordHash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.get(id)
	if !ok {
		return ErrNotFound
	}
	u.PasswordHash = passwordHash
	u.UpdatedAt = time.Now().UTC()
	r.users[u.Email] = u
	return nil
}

func (r *memoryRepository) SetResetToken(_ context.Context, id, fingerprint string, expiry time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.get(id)
	if !ok {
		return ErrNotFound
	}
	u.ResetTokenHash = fingerprint
	u.ResetTokenExpiry = expiry.UTC()
	u.UpdatedAt = time.Now().UTC()
	r.users[u.Email] = u
	return nil
}

func (r *memoryRepository) ClearResetToken(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.get(id)
	if !ok {
		return ErrNotFound
	}
	u.ResetTokenHash = ""
	u.ResetTokenExpiry = time.Time{}
	u.UpdatedAt = time.Now().UTC()
	r.users[u.Email] = u
	return nil
}

// ConsumeResetToken performs the find-and-clear under a single lock: a
// concurrent second consume of the same fingerprint misses.
func (r *memoryRepository) ConsumeResetToken(_ context.Context, fingerprint string, now time.Time, newPasswordHash string) (User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for email, u := range r.users {
		if u.ResetTokenHash == fingerprint && now.Before(u.ResetTokenExpiry) {
			u.PasswordHash = newPasswordHash
			u.ResetTokenHash = ""
			u.ResetTokenExpiry = time.Time{}
			u.UpdatedAt = time.Now().UTC()
			r.users[email] = u
			return u, nil
		}
	}
	return User{}, ErrNotFound
}

func (r *memoryRepository) UpdateProfile(_ context.Context, id string, patch ProfilePatch) (User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.get(id)
	if !ok {
		return User{}, ErrNotFound
	}
	if patch.FullName != nil {
		u.FullName = *patch.FullName
	}
	if patch.Avatar != nil {
		u.Avatar = *patch.Avatar
	}
	u.UpdatedAt = time.Now().UTC()
	r.users[u.Email] = u
	return u, nil
}

func (r *memoryRepository) UpdateSubscription(_ context.Context, id string, sub Subscription) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.get(id)
	if !ok {
		return ErrNotFound
	}
	u.Subscription = sub
	u.UpdatedAt = time.Now().UTC()
	r.users[u.Email] = u
	return nil
}

func (r *memoryRepository) CountUsers(_ context.Context) (int64, int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var subscribed int64
	for _, u := range r.users {
		if u.Subscription.Status == SubscriptionActive {
			subscribed++
		}
	}
	return int64(len(r.users)), subscribed, nil
}

// get resolves a record by id; callers hold the lock.
func (r *memoryRepository) get(id string) (User, bool) {
	email, ok := r.byID[id]
	if !ok {
		return User{}, false
	}
	u, ok := r.users[email]
	return u, ok
}
