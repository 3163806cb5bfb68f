package checkout

import (
	"context"
	"math/rand"
	"time"

	"github.com/ausadhi/pos-api/pkg/utils"
)

// PaymentMethod identifies how the customer pays.
type PaymentMethod string

const (
	MethodCash       PaymentMethod = "cash"
	MethodKhalti     PaymentMethod = "khalti"
	MethodESewa      PaymentMethod = "esewa"
	MethodConnectIPS PaymentMethod = "connectips"
)

// IsQR reports whether the method settles through a QR wallet provider.
func (m PaymentMethod) IsQR() bool {
	switch m {
	case MethodKhalti, MethodESewa, MethodConnectIPS:
		return true
	}
	return false
}

// Valid reports whether the method is one the terminal accepts.
func (m PaymentMethod) Valid() bool {
	return m == MethodCash || m.IsQR()
}

// PaymentIntent is the in-flight payment for a session. It is created when a
// payment modal opens and either becomes a Receipt or is discarded on cancel.
type PaymentIntent struct {
	Method        PaymentMethod
	Amount        int64 // requested amount in cents, fixed at open time
	CashReceived  int64 // cash only
	Change        int64 // cash only
	TransactionID string
}

// ValidateCash checks a tendered amount against the amount due.
// A cash payment is valid only when tendered >= total.
func ValidateCash(tendered, total int64) bool {
	return tendered >= total
}

// CashChange returns the change due for a valid cash payment.
func CashChange(tendered, total int64) int64 {
	return tendered - total
}

// Provider confirms a QR payment with the external wallet service. Confirm
// blocks until the provider acknowledges the payment, the context is
// cancelled, or the provider gives up; on success it returns the provider
// transaction id.
type Provider interface {
	Confirm(ctx context.Context, intent PaymentIntent) (string, error)
}

// ProviderFunc adapts a function to the Provider interface.
type ProviderFunc func(ctx context.Context, intent PaymentIntent) (string, error)

// Confirm implements Provider.
func (f ProviderFunc) Confirm(ctx context.Context, intent PaymentIntent) (string, error) {
	return f(ctx, intent)
}

// SimulatedProvider stands in for a real wallet integration: it confirms
// every payment after a random 3-5 second delay.
type SimulatedProvider struct {
	MinDelay time.Duration
	MaxDelay time.Duration
}

// NewSimulatedProvider returns a provider with the default 3-5s delay.
func NewSimulatedProvider() *SimulatedProvider {
	return &SimulatedProvider{MinDelay: 3 * time.Second, MaxDelay: 5 * time.Second}
}

// Confirm waits out the simulated delay and returns a generated transaction id.
func (p *SimulatedProvider) Confirm(ctx context.Context, intent PaymentIntent) (string, error) {
	delay := p.MinDelay
	if p.MaxDelay > p.MinDelay {
		delay += time.Duration(rand.Int63n(int64(p.MaxDelay - p.MinDelay)))
	}

	select {
	case <-time.After(delay):
		return utils.GenerateTransactionID(), nil
	case <-ctx.Done():
		return "", ctx.Err()
	}
}
