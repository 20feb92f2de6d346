package payment

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"
)

// Payment is an opaque provider-side record surfaced to administrators.
type Payment struct {
	ID             string `json:"id"`
	SubscriptionID string `json:"subscription_id"`
	Status         string `json:"status"`
}

// ErrBadSignature is returned when a payment verification fails.
var ErrBadSignature = errors.New("payment signature mismatch")

// Provider is the external payment collaborator. This service never
// computes entitlement; it only stores what the provider reports.
type Provider interface {
	// APIKey is the public key the frontend checkout widget needs.
	APIKey() string
	// CreateSubscription opens a provider-side subscription for the user.
	CreateSubscription(ctx context.Context, userID string) (subscriptionID string, err error)
	// VerifySignature checks the checkout callback signature.
	VerifySignature(ctx context.Context, subscriptionID, paymentID, signature string) error
	// Cancel terminates a provider-side subscription.
	Cancel(ctx context.Context, subscriptionID string) error
	// Payments lists recent provider-side payment records.
	Payments(ctx context.Context, count int) ([]Payment, error)
}

// StubProvider is an in-process Provider for tests and development mode.
// It accepts any signature equal to "valid".
type StubProvider struct {
	mu       sync.Mutex
	key      string
	payments []Payment
}

// NewStubProvider builds a stub payment provider.
func NewStubProvider(key string) *StubProvider {
	return &StubProvider{key: key}
}

func (p *StubProvider) APIKey() string { return p.key }

func (p *StubProvider) CreateSubscription(_ context.Context, _ string) (string, error) {
	return "sub_" + uuid.NewString(), nil
}

func (p *StubProvider) VerifySignature(_ context.Context, subscriptionID, paymentID, signature string) error {
	if signature != "valid" {
		return ErrBadSignature
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.payments = append(p.payments, Payment{ID: paymentID, SubscriptionID: subscriptionID, Status: "captured"})
	return nil
}

func (p *StubProvider) Cancel(_ context.Context, _ string) error { return nil }

func (p *StubProvider) Payments(_ context.Context, count int) ([]Payment, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if count <= 0 || count > len(p.payments) {
		count = len(p.payments)
	}
	out := make([]Payment, count)
	copy(out, p.payments[len(p.payments)-count:])
	return out, nil
}
