package checkout

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// blockingProvider never confirms on its own; tests drive the state machine
// through timeouts and manual confirmation.
var blockingProvider = ProviderFunc(func(ctx context.Context, intent PaymentIntent) (string, error) {
	<-ctx.Done()
	return "", ctx.Err()
})

func newTestManager(t *testing.T, cfg Config) *Manager {
	t.Helper()
	if cfg.Provider == nil {
		cfg.Provider = blockingProvider
	}
	m := NewManager(cfg)
	t.Cleanup(m.Close)
	return m
}

func newTestSession(t *testing.T, cfg Config) *Session {
	t.Helper()
	return newTestManager(t, cfg).Create(uuid.New(), "Test Cashier")
}

func TestManagerCreateGetDelete(t *testing.T) {
	m := newTestManager(t, Config{})

	s := m.Create(uuid.New(), "Sita")
	got, err := m.Get(s.ID)
	require.NoError(t, err)
	assert.Same(t, s, got)
	assert.Equal(t, 1, m.Count())

	m.Delete(s.ID)
	_, err = m.Get(s.ID)
	assert.Error(t, err)
	assert.Equal(t, 0, m.Count())

	// deleting again is a no-op
	m.Delete(s.ID)
}

func TestManagerSweepRemovesIdleSessions(t *testing.T) {
	m := newTestManager(t, Config{SessionTTL: 2 * time.Hour})
	s := m.Create(uuid.New(), "Sita")

	s.mu.Lock()
	s.touchedAt = time.Now().Add(-3 * time.Hour)
	s.mu.Unlock()

	m.sweep()

	_, err := m.Get(s.ID)
	assert.Error(t, err)
}

func TestSessionCashFlow(t *testing.T) {
	s := newTestSession(t, Config{})
	p := testProduct("Item", 5000, 10)
	require.NoError(t, s.AddItem(p))
	require.NoError(t, s.SetQuantity(p.ID, 3))

	intent, err := s.BeginCash()
	require.NoError(t, err)
	assert.Equal(t, int64(16950), intent.Amount)

	// insufficient cash keeps the payment open
	_, err = s.ConfirmCash(16949)
	require.Error(t, err)

	receipt, err := s.ConfirmCash(20000)
	require.NoError(t, err)
	assert.Equal(t, MethodCash, receipt.Method)
	assert.Equal(t, int64(20000), receipt.CashReceived)
	assert.Equal(t, int64(3050), receipt.Change)
	assert.Equal(t, int64(16950), receipt.Totals.Total)
	assert.NotEmpty(t, receipt.TransactionID)
	require.Len(t, receipt.Lines, 1)
	assert.Equal(t, 3, receipt.Lines[0].Quantity)

	// cart is intact until Complete, then empty; the receipt keeps its snapshot
	assert.Len(t, s.Lines(), 1)
	s.Complete()
	assert.Empty(t, s.Lines())
	assert.Equal(t, Discount{}, s.Discount())
	require.Len(t, receipt.Lines, 1)
	assert.Equal(t, int64(16950), receipt.Totals.Total)
}

func TestSessionBeginCashEmptyCart(t *testing.T) {
	s := newTestSession(t, Config{})
	_, err := s.BeginCash()
	assert.Error(t, err)
}

func TestSessionCartLockedDuringPayment(t *testing.T) {
	s := newTestSession(t, Config{})
	p := testProduct("Item", 5000, 10)
	require.NoError(t, s.AddItem(p))

	_, err := s.BeginCash()
	require.NoError(t, err)

	assert.Error(t, s.AddItem(p))
	assert.Error(t, s.SetQuantity(p.ID, 2))
	assert.Error(t, s.RemoveItem(p.ID))
	assert.Error(t, s.Clear())
	assert.Error(t, s.SetDiscount(Discount{Type: DiscountFixed, Value: 5}))

	_, err = s.BeginCash()
	assert.Error(t, err, "second payment must be rejected")
}

func TestSessionCancelPaymentPreservesCart(t *testing.T) {
	s := newTestSession(t, Config{})
	p := testProduct("Item", 5000, 10)
	require.NoError(t, s.AddItem(p))
	require.NoError(t, s.SetQuantity(p.ID, 2))

	_, err := s.BeginCash()
	require.NoError(t, err)
	require.NoError(t, s.CancelPayment())

	lines := s.Lines()
	require.Len(t, lines, 1)
	assert.Equal(t, 2, lines[0].Quantity)

	assert.Error(t, s.CancelPayment(), "nothing left to cancel")
}

func TestSessionQRProviderConfirms(t *testing.T) {
	confirmed := make(chan struct{})
	provider := ProviderFunc(func(ctx context.Context, intent PaymentIntent) (string, error) {
		select {
		case <-confirmed:
			return "TXN-PROVIDER", nil
		case <-ctx.Done():
			return "", ctx.Err()
		}
	})
	s := newTestSession(t, Config{QRWindow: 5 * time.Second, QRRefresh: time.Hour, Provider: provider})
	require.NoError(t, s.AddItem(testProduct("Item", 5000, 10)))

	status, err := s.BeginQR(MethodKhalti)
	require.NoError(t, err)
	assert.Equal(t, StateWaiting, status.State)
	assert.Equal(t, MethodKhalti, status.Method)
	assert.NotEmpty(t, status.Payload)
	assert.Positive(t, status.SecondsRemaining)

	close(confirmed)
	require.Eventually(t, func() bool {
		st, err := s.QRStatus()
		return err == nil && st.State == StateSucceeded
	}, 2*time.Second, 10*time.Millisecond)

	receipt, err := s.QRReceipt()
	require.NoError(t, err)
	assert.Equal(t, "TXN-PROVIDER", receipt.TransactionID)
	assert.Equal(t, MethodKhalti, receipt.Method)
	assert.Equal(t, int64(0), receipt.CashReceived)
}

func TestSessionQRExpiryAndRetryResetsWindow(t *testing.T) {
	s := newTestSession(t, Config{QRWindow: 50 * time.Millisecond, QRRefresh: time.Hour})
	require.NoError(t, s.AddItem(testProduct("Item", 5000, 10)))

	_, err := s.BeginQR(MethodESewa)
	require.NoError(t, err)

	// retry before expiry is rejected
	_, err = s.RetryQR()
	require.Error(t, err)

	require.Eventually(t, func() bool {
		st, err := s.QRStatus()
		return err == nil && st.State == StateExpired
	}, 2*time.Second, 10*time.Millisecond)

	// expired payments cannot be confirmed or completed
	_, err = s.ConfirmQRManual("TXN-LATE")
	require.Error(t, err)
	_, err = s.QRReceipt()
	require.Error(t, err)

	status, err := s.RetryQR()
	require.NoError(t, err)
	assert.Equal(t, StateWaiting, status.State, "retry must re-open the window")
	assert.Zero(t, status.RefreshSeq)

	// the cart survived the whole exchange
	assert.Len(t, s.Lines(), 1)
}

func TestSessionQRRefreshSequence(t *testing.T) {
	s := newTestSession(t, Config{QRWindow: 5 * time.Second, QRRefresh: 20 * time.Millisecond})
	require.NoError(t, s.AddItem(testProduct("Item", 5000, 10)))

	first, err := s.BeginQR(MethodConnectIPS)
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		st, err := s.QRStatus()
		return err == nil && st.RefreshSeq >= 2
	}, 2*time.Second, 5*time.Millisecond)

	st, err := s.QRStatus()
	require.NoError(t, err)
	assert.NotEqual(t, first.Payload, st.Payload, "payload must change with each refresh")
}

func TestSessionQRManualConfirm(t *testing.T) {
	s := newTestSession(t, Config{QRWindow: 5 * time.Second, QRRefresh: time.Hour})
	require.NoError(t, s.AddItem(testProduct("Item", 5000, 10)))

	_, err := s.BeginQR(MethodKhalti)
	require.NoError(t, err)

	_, err = s.ConfirmQRManual("")
	require.Error(t, err)

	receipt, err := s.ConfirmQRManual("TXN-MANUAL1")
	require.NoError(t, err)
	assert.Equal(t, "TXN-MANUAL1", receipt.TransactionID)

	st, err := s.QRStatus()
	require.NoError(t, err)
	assert.Equal(t, StateSucceeded, st.State)
}

func TestSessionBeginQRValidation(t *testing.T) {
	s := newTestSession(t, Config{})

	_, err := s.BeginQR(MethodCash)
	assert.Error(t, err, "cash is not a QR method")

	_, err = s.BeginQR(MethodKhalti)
	assert.Error(t, err, "empty cart")

	_, err = s.QRStatus()
	assert.Error(t, err, "no payment open")
}

func TestSessionDiscountAppliedToPayment(t *testing.T) {
	s := newTestSession(t, Config{})
	p := testProduct("Item", 10000, 10)
	require.NoError(t, s.AddItem(p))
	require.NoError(t, s.SetQuantity(p.ID, 2))
	require.NoError(t, s.SetDiscount(Discount{Type: DiscountPercentage, Value: 10}))

	totals := s.Totals()
	assert.Equal(t, int64(20000+2600-2000), totals.Total)

	intent, err := s.BeginCash()
	require.NoError(t, err)
	assert.Equal(t, totals.Total, intent.Amount)
}

func TestSessionSetDiscountUnknownType(t *testing.T) {
	s := newTestSession(t, Config{})
	assert.Error(t, s.SetDiscount(Discount{Type: "bogus", Value: 5}))
}
