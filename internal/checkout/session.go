package checkout

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ausadhi/pos-api/pkg/apperror"
	"github.com/ausadhi/pos-api/pkg/utils"
)

// PaymentState is the lifecycle of a payment intent.
type PaymentState string

const (
	StateWaiting   PaymentState = "waiting"
	StateSucceeded PaymentState = "succeeded"
	StateExpired   PaymentState = "expired"
)

// Config controls payment timing and session retention. Zero values fall back
// to the production defaults via Normalize.
type Config struct {
	QRWindow   time.Duration // confirmation window per QR attempt
	QRRefresh  time.Duration // QR code regeneration interval
	SessionTTL time.Duration // idle session retention
	Provider   Provider
}

// Normalize fills unset fields with production defaults.
func (c Config) Normalize() Config {
	if c.QRWindow <= 0 {
		c.QRWindow = 300 * time.Second
	}
	if c.QRRefresh <= 0 {
		c.QRRefresh = 30 * time.Second
	}
	if c.SessionTTL <= 0 {
		c.SessionTTL = 2 * time.Hour
	}
	if c.Provider == nil {
		c.Provider = NewSimulatedProvider()
	}
	return c
}

// QRStatus is a point-in-time view of the current QR attempt.
type QRStatus struct {
	State            PaymentState  `json:"state"`
	Method           PaymentMethod `json:"method"`
	Payload          string        `json:"payload"`
	RefreshSeq       int           `json:"refresh_seq"`
	SecondsRemaining int           `json:"seconds_remaining"`
	TransactionID    string        `json:"transaction_id,omitempty"`
}

// qrAttempt holds the timers behind one QR confirmation window. A new attempt
// replaces the old one on retry; stale timer callbacks check identity before
// touching session state.
type qrAttempt struct {
	cancel context.CancelFunc
	timer  *time.Timer
}

// Session is one terminal's checkout: a cart, a discount and at most one
// in-flight payment. All methods are safe for concurrent use.
type Session struct {
	ID          uuid.UUID
	CashierID   uuid.UUID
	CashierName string

	mu         sync.Mutex
	cart       *Cart
	discount   Discount
	intent     *PaymentIntent
	qr         *qrAttempt
	qrDeadline time.Time
	qrPayload  string
	refreshSeq int
	touchedAt  time.Time

	cfg Config
}

func newSession(cashierID uuid.UUID, cashierName string, cfg Config) *Session {
	return &Session{
		ID:          uuid.New(),
		CashierID:   cashierID,
		CashierName: cashierName,
		cart:        NewCart(),
		touchedAt:   time.Now(),
		cfg:         cfg,
	}
}

func (s *Session) touchLocked() {
	s.touchedAt = time.Now()
}

// AddItem adds one unit of the product to the cart. Cart mutations are
// rejected while a payment is open.
func (s *Session) AddItem(p Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touchLocked()

	if s.intent != nil {
		return apperror.ErrPaymentInProgress
	}
	s.cart.AddItem(p)
	return nil
}

// RemoveItem deletes the product's line if present.
func (s *Session) RemoveItem(productID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touchLocked()

	if s.intent != nil {
		return apperror.ErrPaymentInProgress
	}
	s.cart.RemoveItem(productID)
	return nil
}

// SetQuantity sets a line's quantity, subject to the stock ceiling.
func (s *Session) SetQuantity(productID uuid.UUID, quantity int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touchLocked()

	if s.intent != nil {
		return apperror.ErrPaymentInProgress
	}
	s.cart.SetQuantity(productID, quantity)
	return nil
}

// SetDiscount replaces the session discount.
func (s *Session) SetDiscount(d Discount) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touchLocked()

	if s.intent != nil {
		return apperror.ErrPaymentInProgress
	}
	if d.Type != "" && d.Type != DiscountPercentage && d.Type != DiscountFixed {
		return apperror.NewBadRequestError(fmt.Sprintf("Unknown discount type %q", d.Type))
	}
	s.discount = d
	return nil
}

// Clear empties the cart and resets the discount.
func (s *Session) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touchLocked()

	if s.intent != nil {
		return apperror.ErrPaymentInProgress
	}
	s.cart.Clear()
	s.discount = Discount{}
	return nil
}

// Lines returns a copy of the cart lines.
func (s *Session) Lines() []Line {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cart.Lines()
}

// Discount returns the current discount.
func (s *Session) Discount() Discount {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.discount
}

// Totals recomputes the pricing from the current cart and discount.
func (s *Session) Totals() Totals {
	s.mu.Lock()
	defer s.mu.Unlock()
	return ComputeTotals(s.cart, s.discount)
}

// BeginCash opens a cash payment for the current total.
func (s *Session) BeginCash() (*PaymentIntent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touchLocked()

	if s.intent != nil {
		return nil, apperror.ErrPaymentInProgress
	}
	if s.cart.IsEmpty() {
		return nil, apperror.ErrCartEmpty
	}

	totals := ComputeTotals(s.cart, s.discount)
	s.intent = &PaymentIntent{Method: MethodCash, Amount: totals.Total}
	intent := *s.intent
	return &intent, nil
}

// ConfirmCash validates the tendered amount against the amount due. On
// success the intent carries the change and a generated transaction id and
// the payment is ready for receipt assembly. An insufficient amount leaves
// the intent open so the cashier can re-enter.
func (s *Session) ConfirmCash(tendered int64) (*Receipt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touchLocked()

	if s.intent == nil || s.intent.Method != MethodCash {
		return nil, apperror.ErrNoPaymentInProgress
	}
	if !ValidateCash(tendered, s.intent.Amount) {
		return nil, apperror.ErrInsufficientCash
	}

	s.intent.CashReceived = tendered
	s.intent.Change = CashChange(tendered, s.intent.Amount)
	s.intent.TransactionID = utils.GenerateTransactionID()

	totals := ComputeTotals(s.cart, s.discount)
	return buildReceipt(s.cart, totals, s.intent, s.CashierID, s.CashierName, time.Now()), nil
}

// BeginQR opens a QR payment: it arms the confirmation window, the refresh
// tick and the provider confirmation for the given wallet method.
func (s *Session) BeginQR(method PaymentMethod) (*QRStatus, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touchLocked()

	if !method.IsQR() {
		return nil, apperror.NewBadRequestError(fmt.Sprintf("Unsupported QR method %q", method))
	}
	if s.intent != nil {
		return nil, apperror.ErrPaymentInProgress
	}
	if s.cart.IsEmpty() {
		return nil, apperror.ErrCartEmpty
	}

	totals := ComputeTotals(s.cart, s.discount)
	s.intent = &PaymentIntent{Method: method, Amount: totals.Total}
	s.refreshSeq = 0
	s.armQRLocked()
	return s.qrStatusLocked(), nil
}

// armQRLocked starts a fresh confirmation attempt. Callers hold s.mu.
func (s *Session) armQRLocked() {
	ctx, cancel := context.WithCancel(context.Background())
	attempt := &qrAttempt{cancel: cancel}
	s.qr = attempt
	s.qrDeadline = time.Now().Add(s.cfg.QRWindow)
	s.qrPayload = s.buildQRPayloadLocked()

	intent := *s.intent
	provider := s.cfg.Provider

	attempt.timer = time.AfterFunc(s.cfg.QRWindow, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if s.qr != attempt || s.intent == nil {
			return
		}
		cancel()
		if s.intent.TransactionID == "" {
			s.expireLocked()
		}
	})

	go func() {
		txnID, err := provider.Confirm(ctx, intent)
		if err != nil {
			return
		}
		s.mu.Lock()
		defer s.mu.Unlock()
		if s.qr != attempt || s.intent == nil || s.intent.TransactionID != "" {
			return
		}
		s.succeedQRLocked(txnID)
	}()

	go func() {
		ticker := time.NewTicker(s.cfg.QRRefresh)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				s.mu.Lock()
				if s.qr == attempt && s.intent != nil && s.intent.TransactionID == "" {
					s.refreshSeq++
					s.qrPayload = s.buildQRPayloadLocked()
				}
				s.mu.Unlock()
			case <-ctx.Done():
				return
			}
		}
	}()
}

// buildQRPayloadLocked encodes the payment request for the wallet app. A real
// gateway would return this; here it is a deterministic local encoding that
// changes with each refresh.
func (s *Session) buildQRPayloadLocked() string {
	return fmt.Sprintf("%s://pay?amount=%.2f&ref=%s&seq=%d",
		s.intent.Method, Cents(s.intent.Amount).Decimal(), s.ID, s.refreshSeq)
}

func (s *Session) expireLocked() {
	// Window elapsed without confirmation. The attempt stays around so the
	// cashier can retry or cancel.
}

func (s *Session) succeedQRLocked(txnID string) {
	s.intent.TransactionID = txnID
	if s.qr != nil {
		s.qr.cancel()
		s.qr.timer.Stop()
	}
}

// QRStatus reports the state of the current QR attempt.
func (s *Session) QRStatus() (*QRStatus, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.intent == nil || !s.intent.Method.IsQR() {
		return nil, apperror.ErrNoPaymentInProgress
	}
	return s.qrStatusLocked(), nil
}

func (s *Session) qrStatusLocked() *QRStatus {
	st := &QRStatus{
		Method:        s.intent.Method,
		Payload:       s.qrPayload,
		RefreshSeq:    s.refreshSeq,
		TransactionID: s.intent.TransactionID,
	}
	remaining := time.Until(s.qrDeadline)
	switch {
	case s.intent.TransactionID != "":
		st.State = StateSucceeded
	case remaining <= 0:
		st.State = StateExpired
	default:
		st.State = StateWaiting
		st.SecondsRemaining = int(remaining.Round(time.Second) / time.Second)
	}
	return st
}

// RetryQR restarts an expired QR attempt: the confirmation window resets to
// its full length and provider confirmation is re-armed.
func (s *Session) RetryQR() (*QRStatus, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touchLocked()

	if s.intent == nil || !s.intent.Method.IsQR() {
		return nil, apperror.ErrNoPaymentInProgress
	}
	if s.intent.TransactionID != "" {
		return nil, apperror.NewConflictError("Payment already confirmed")
	}
	if time.Until(s.qrDeadline) > 0 {
		return nil, apperror.NewConflictError("Payment window has not expired yet")
	}

	s.teardownQRLocked()
	s.refreshSeq = 0
	s.armQRLocked()
	return s.qrStatusLocked(), nil
}

// ConfirmQRManual records a transaction id the cashier read off the
// customer's wallet app, moving the attempt to succeeded.
func (s *Session) ConfirmQRManual(txnID string) (*Receipt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touchLocked()

	if s.intent == nil || !s.intent.Method.IsQR() {
		return nil, apperror.ErrNoPaymentInProgress
	}
	if txnID == "" {
		return nil, apperror.NewBadRequestError("Transaction id is required")
	}
	if time.Until(s.qrDeadline) <= 0 && s.intent.TransactionID == "" {
		return nil, apperror.ErrPaymentExpired
	}
	if s.intent.TransactionID == "" {
		s.succeedQRLocked(txnID)
	}
	return s.receiptLocked()
}

// QRReceipt assembles the receipt for a succeeded QR payment.
func (s *Session) QRReceipt() (*Receipt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.intent == nil || !s.intent.Method.IsQR() {
		return nil, apperror.ErrNoPaymentInProgress
	}
	return s.receiptLocked()
}

func (s *Session) receiptLocked() (*Receipt, error) {
	if s.intent.TransactionID == "" {
		if time.Until(s.qrDeadline) <= 0 {
			return nil, apperror.ErrPaymentExpired
		}
		return nil, apperror.NewConflictError("Payment has not been confirmed yet")
	}
	totals := ComputeTotals(s.cart, s.discount)
	return buildReceipt(s.cart, totals, s.intent, s.CashierID, s.CashierName, time.Now()), nil
}

// CancelPayment abandons the open payment. The cart is left untouched so the
// cashier can switch methods or keep editing.
func (s *Session) CancelPayment() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touchLocked()

	if s.intent == nil {
		return apperror.ErrNoPaymentInProgress
	}
	s.teardownQRLocked()
	s.intent = nil
	return nil
}

// Complete finishes the sale after the receipt has been persisted: the cart
// and discount reset and the session is ready for the next customer.
func (s *Session) Complete() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touchLocked()

	s.teardownQRLocked()
	s.intent = nil
	s.cart.Clear()
	s.discount = Discount{}
}

func (s *Session) teardownQRLocked() {
	if s.qr == nil {
		return
	}
	s.qr.cancel()
	if s.qr.timer != nil {
		s.qr.timer.Stop()
	}
	s.qr = nil
}

func (s *Session) idleSince() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.touchedAt
}

// Manager is the in-memory session store. Sessions idle past the configured
// TTL are torn down by a background sweep.
type Manager struct {
	mu       sync.RWMutex
	sessions map[uuid.UUID]*Session
	cfg      Config
	stop     chan struct{}
	stopOnce sync.Once
}

// NewManager creates a session store and starts its cleanup sweep.
func NewManager(cfg Config) *Manager {
	m := &Manager{
		sessions: make(map[uuid.UUID]*Session),
		cfg:      cfg.Normalize(),
		stop:     make(chan struct{}),
	}
	go m.cleanupLoop()
	return m
}

// Create opens a new session for the given cashier.
func (m *Manager) Create(cashierID uuid.UUID, cashierName string) *Session {
	s := newSession(cashierID, cashierName, m.cfg)
	m.mu.Lock()
	m.sessions[s.ID] = s
	m.mu.Unlock()
	return s
}

// Get looks up a session by id.
func (m *Manager) Get(id uuid.UUID) (*Session, error) {
	m.mu.RLock()
	s, ok := m.sessions[id]
	m.mu.RUnlock()
	if !ok {
		return nil, apperror.ErrSessionNotFound
	}
	return s, nil
}

// Delete tears down and removes a session. Deleting an unknown id is a no-op.
func (m *Manager) Delete(id uuid.UUID) {
	m.mu.Lock()
	s, ok := m.sessions[id]
	if ok {
		delete(m.sessions, id)
	}
	m.mu.Unlock()
	if ok {
		s.mu.Lock()
		s.teardownQRLocked()
		s.intent = nil
		s.mu.Unlock()
	}
}

// Count returns the number of live sessions.
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// Close stops the cleanup sweep and drops all sessions.
func (m *Manager) Close() {
	m.stopOnce.Do(func() { close(m.stop) })

	m.mu.Lock()
	sessions := m.sessions
	m.sessions = make(map[uuid.UUID]*Session)
	m.mu.Unlock()

	for _, s := range sessions {
		s.mu.Lock()
		s.teardownQRLocked()
		s.intent = nil
		s.mu.Unlock()
	}
}

func (m *Manager) cleanupLoop() {
	interval := m.cfg.SessionTTL / 2
	if interval < time.Second {
		interval = time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			m.sweep()
		case <-m.stop:
			return
		}
	}
}

func (m *Manager) sweep() {
	cutoff := time.Now().Add(-m.cfg.SessionTTL)

	m.mu.Lock()
	var stale []*Session
	for id, s := range m.sessions {
		if s.idleSince().Before(cutoff) {
			stale = append(stale, s)
			delete(m.sessions, id)
		}
	}
	m.mu.Unlock()

	for _, s := range stale {
		s.mu.Lock()
		s.teardownQRLocked()
		s.intent = nil
		s.mu.Unlock()
	}
}
