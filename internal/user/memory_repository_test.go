package user

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/lectoria/lectoria/internal/auth"
)

func seedRecord(t *testing.T, repo Repository) User {
	t.Helper()
	u := User{
		ID:        "user-1",
		FullName:  "Grace Hopper",
		Email:     "grace@example.com",
		Role:      RoleUser,
		CreatedAt: time.Now().UTC(),
	}
	if err := repo.Create(context.Background(), u); err != nil {
		t.Fatalf("seed record: %v", err)
	}
	return u
}

func TestMemoryRepository_EmailNormalization(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()
	seedRecord(t, repo)

	if _, err := repo.FindByEmail(ctx, "  GRACE@Example.COM "); err != nil {
		t.Fatalf("lookup with unnormalized email: %v", err)
	}

	err := repo.Create(ctx, User{ID: "user-2", Email: "Grace@Example.com"})
	if !errors.Is(err, ErrDuplicateEmail) {
		t.Fatalf("expected duplicate email, got %v", err)
	}
}

// Exactly one of N racing consumers wins the fingerprint; everyone else
// gets a miss. This is the single-use guarantee the password reset flow
// depends on.
func TestMemoryRepository_ConcurrentResetConsume(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()
	u := seedRecord(t, repo)

	_, fingerprint, err := auth.NewResetToken()
	if err != nil {
		t.Fatalf("new reset token: %v", err)
	}
	if err := repo.SetResetToken(ctx, u.ID, fingerprint, time.Now().Add(auth.ResetTokenTTL)); err != nil {
		t.Fatalf("set reset token: %v", err)
	}

	const workers = 16
	var wg sync.WaitGroup
	wins := make(chan struct{}, workers)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := repo.ConsumeResetToken(ctx, fingerprint, time.Now(), "new-hash"); err == nil {
				wins <- struct{}{}
			}
		}()
	}
	wg.Wait()
	close(wins)

	count := 0
	for range wins {
		count++
	}
	if count != 1 {
		t.Fatalf("expected exactly one successful consume, got %d", count)
	}

	stored, err := repo.FindByID(ctx, u.ID)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if stored.PasswordHash != "new-hash" {
		t.Fatalf("password not rotated by winning consume")
	}
	if stored.HasValidResetToken(time.Now()) {
		t.Fatalf("fingerprint survived consumption")
	}
}

func TestMemoryRepository_ConsumeExpiredToken(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()
	u := seedRecord(t, repo)

	_, fingerprint, err := auth.NewResetToken()
	if err != nil {
		t.Fatalf("new reset token: %v", err)
	}
	if err := repo.SetResetToken(ctx, u.ID, fingerprint, time.Now().Add(-time.Minute)); err != nil {
		t.Fatalf("set reset token: %v", err)
	}

	if _, err := repo.ConsumeResetToken(ctx, fingerprint, time.Now(), "new-hash"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected miss for expired fingerprint, got %v", err)
	}
}

func TestMemoryRepository_CountUsers(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()
	u := seedRecord(t, repo)
	if err := repo.Create(ctx, User{ID: "user-2", Email: "ada@example.com"}); err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := repo.UpdateSubscription(ctx, u.ID, Subscription{ID: "sub-1", Status: SubscriptionActive}); err != nil {
		t.Fatalf("update subscription: %v", err)
	}

	total, subscribed, err := repo.CountUsers(ctx)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if total != 2 || subscribed != 1 {
		t.Fatalf("expected 2 total and 1 subscribed, got %d and %d", total, subscribed)
	}
}
