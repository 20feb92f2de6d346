package payment

import (
	"context"
	"errors"

	"github.com/lectoria/lectoria/internal/domain"
	"github.com/lectoria/lectoria/internal/user"
)

const (
	statusCreated   = "created"
	statusCancelled = "cancelled"
)

// Service bridges the opaque payment provider and the credential store's
// subscription fields.
type Service struct {
	provider Provider
	users    user.Repository
}

// NewService builds a payment service instance.
func NewService(provider Provider, users user.Repository) *Service {
	return &Service{provider: provider, users: users}
}

// APIKey returns the provider's public key.
func (s *Service) APIKey() string {
	return s.provider.APIKey()
}

// Subscribe opens a provider subscription and records its id. Admins manage
// content and have nothing to buy.
func (s *Service) Subscribe(ctx context.Context, userID string) (string, error) {
	u, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return "", domain.E(domain.KindNotFound, "user not found")
	}
	if u.Role == user.RoleAdmin {
		return "", domain.E(domain.KindValidation, "admin cannot purchase a subscription")
	}

	subID, err := s.provider.CreateSubscription(ctx, userID)
	if err != nil {
		return "", domain.Wrap(domain.KindStoreUnavailable, "failed to create subscription", err)
	}

	sub := user.Subscription{ID: subID, Status: statusCreated}
	if err := s.users.UpdateSubscription(ctx, userID, sub); err != nil {
		return "", domain.Wrap(domain.KindStoreUnavailable, "failed to create subscription", err)
	}
	return subID, nil
}

// Verify validates the checkout callback and activates the stored
// subscription. Entitlement flows only from this provider-confirmed write.
func (s *Service) Verify(ctx context.Context, userID, paymentID, signature string) error {
	u, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return domain.E(domain.KindNotFound, "user not found")
	}
	if u.Subscription.ID == "" {
		return domain.E(domain.KindValidation, "no subscription to verify")
	}

	if err := s.provider.VerifySignature(ctx, u.Subscription.ID, paymentID, signature); err != nil {
		if errors.Is(err, ErrBadSignature) {
			return domain.E(domain.KindValidation, "payment verification failed, please try again")
		}
		return domain.Wrap(domain.KindStoreUnavailable, "payment verification failed", err)
	}

	sub := user.Subscription{ID: u.Subscription.ID, Status: user.SubscriptionActive}
	if err := s.users.UpdateSubscription(ctx, userID, sub); err != nil {
		return domain.Wrap(domain.KindStoreUnavailable, "payment verification failed", err)
	}
	return nil
}

// Cancel terminates the provider subscription and records the new status.
func (s *Service) Cancel(ctx context.Context, userID string) error {
	u, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return domain.E(domain.KindNotFound, "user not found")
	}
	if u.Subscription.ID == "" {
		return domain.E(domain.KindValidation, "no active subscription")
	}

	if err := s.provider.Cancel(ctx, u.Subscription.ID); err != nil {
		return domain.Wrap(domain.KindStoreUnavailable, "failed to cancel subscription", err)
	}

	sub := user.Subscription{ID: u.Subscription.ID, Status: statusCancelled}
	if err := s.users.UpdateSubscription(ctx, userID, sub); err != nil {
		return domain.Wrap(domain.KindStoreUnavailable, "failed to cancel subscription", err)
	}
	return nil
}

// Payments lists recent provider payment records for administrators.
func (s *Service) Payments(ctx context.Context, count int) ([]Payment, error) {
	payments, err := s.provider.Payments(ctx, count)
	if err != nil {
		return nil, domain.Wrap(domain.KindStoreUnavailable, "failed to fetch payments", err)
	}
	return payments, nil
}
