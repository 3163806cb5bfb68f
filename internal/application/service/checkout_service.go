package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/ausadhi/pos-api/internal/checkout"
	"github.com/ausadhi/pos-api/internal/config"
	"github.com/ausadhi/pos-api/internal/domain/entity"
	"github.com/ausadhi/pos-api/internal/domain/enum"
	"github.com/ausadhi/pos-api/internal/domain/repository"
	"github.com/ausadhi/pos-api/pkg/apperror"
)

// CheckoutService drives the per-terminal checkout flow: the in-memory
// session holds the cart and payment state, and a confirmed payment is
// persisted as a Sale with an atomic stock decrement.
type CheckoutService struct {
	sessions    *checkout.Manager
	productRepo repository.ProductRepository
	saleRepo    repository.SaleRepository
	userRepo    repository.UserRepository
	store       config.StoreConfig
}

// NewCheckoutService creates a new checkout service
func NewCheckoutService(
	sessions *checkout.Manager,
	productRepo repository.ProductRepository,
	saleRepo repository.SaleRepository,
	userRepo repository.UserRepository,
	store config.StoreConfig,
) *CheckoutService {
	return &CheckoutService{
		sessions:    sessions,
		productRepo: productRepo,
		saleRepo:    saleRepo,
		userRepo:    userRepo,
		store:       store,
	}
}

// CartLineView is a cart line with money as decimals for the API.
type CartLineView struct {
	ProductID uuid.UUID `json:"product_id"`
	Name      string    `json:"name"`
	Quantity  int       `json:"quantity"`
	Stock     int       `json:"stock"`
	UnitPrice float64   `json:"unit_price"`
	Total     float64   `json:"total"`
}

// SessionState is the API view of a checkout session.
type SessionState struct {
	SessionID  uuid.UUID         `json:"session_id"`
	Cashier    string            `json:"cashier"`
	Lines      []CartLineView    `json:"lines"`
	TotalItems int               `json:"total_items"`
	Discount   checkout.Discount `json:"discount"`
	Totals     checkout.Totals   `json:"totals"`
}

func sessionState(sess *checkout.Session) *SessionState {
	lines := sess.Lines()
	views := make([]CartLineView, 0, len(lines))
	items := 0
	for i := range lines {
		views = append(views, CartLineView{
			ProductID: lines[i].ProductID,
			Name:      lines[i].Name,
			Quantity:  lines[i].Quantity,
			Stock:     lines[i].Stock,
			UnitPrice: checkout.Cents(lines[i].Price).Decimal(),
			Total:     checkout.Cents(lines[i].LineTotal()).Decimal(),
		})
		items += lines[i].Quantity
	}

	return &SessionState{
		SessionID:  sess.ID,
		Cashier:    sess.CashierName,
		Lines:      views,
		TotalItems: items,
		Discount:   sess.Discount(),
		Totals:     sess.Totals(),
	}
}

// CreateSession opens a checkout session for the cashier.
func (s *CheckoutService) CreateSession(ctx context.Context, cashierID uuid.UUID) (*SessionState, error) {
	cashier, err := s.userRepo.GetByID(ctx, cashierID)
	if err != nil {
		return nil, err
	}
	if cashier == nil {
		return nil, apperror.NewNotFoundError("Cashier")
	}

	sess := s.sessions.Create(cashier.ID, cashier.FullName())
	return sessionState(sess), nil
}

// GetSession returns the current state of a session.
func (s *CheckoutService) GetSession(ctx context.Context, sessionID uuid.UUID) (*SessionState, error) {
	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, err
	}
	return sessionState(sess), nil
}

// DeleteSession discards a session and anything in its cart.
func (s *CheckoutService) DeleteSession(ctx context.Context, sessionID uuid.UUID) {
	s.sessions.Delete(sessionID)
}

// AddItem adds one unit of the product to the session cart. The product may
// be addressed by id or by scanned barcode.
func (s *CheckoutService) AddItem(ctx context.Context, sessionID uuid.UUID, productID *uuid.UUID, barcode string) (*SessionState, error) {
	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, err
	}

	var product *entity.Product
	switch {
	case productID != nil:
		product, err = s.productRepo.GetByID(ctx, *productID)
	case barcode != "":
		product, err = s.productRepo.GetByBarcode(ctx, barcode)
	default:
		return nil, apperror.NewBadRequestError("Either product_id or barcode is required")
	}
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, apperror.NewNotFoundError("Product")
	}

	if err := sess.AddItem(checkout.Product{
		ID:      product.ID,
		Name:    product.Name,
		Barcode: product.Barcode,
		Price:   product.SellingPrice,
		Stock:   product.Quantity,
	}); err != nil {
		return nil, err
	}

	return sessionState(sess), nil
}

// SetQuantity sets a line's quantity, subject to the stock ceiling.
func (s *CheckoutService) SetQuantity(ctx context.Context, sessionID, productID uuid.UUID, quantity int) (*SessionState, error) {
	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, err
	}
	if err := sess.SetQuantity(productID, quantity); err != nil {
		return nil, err
	}
	return sessionState(sess), nil
}

// RemoveItem removes a line from the cart.
func (s *CheckoutService) RemoveItem(ctx context.Context, sessionID, productID uuid.UUID) (*SessionState, error) {
	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, err
	}
	if err := sess.RemoveItem(productID); err != nil {
		return nil, err
	}
	return sessionState(sess), nil
}

// SetDiscount applies a percentage or fixed discount to the session.
func (s *CheckoutService) SetDiscount(ctx context.Context, sessionID uuid.UUID, discount checkout.Discount) (*SessionState, error) {
	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, err
	}
	if err := sess.SetDiscount(discount); err != nil {
		return nil, err
	}
	return sessionState(sess), nil
}

// ClearCart empties the cart and resets the discount.
func (s *CheckoutService) ClearCart(ctx context.Context, sessionID uuid.UUID) (*SessionState, error) {
	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, err
	}
	if err := sess.Clear(); err != nil {
		return nil, err
	}
	return sessionState(sess), nil
}

// CashIntentView is the response to opening a cash payment.
type CashIntentView struct {
	AmountDue float64 `json:"amount_due"`
}

// BeginCash opens a cash payment for the session total.
func (s *CheckoutService) BeginCash(ctx context.Context, sessionID uuid.UUID) (*CashIntentView, error) {
	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, err
	}
	intent, err := sess.BeginCash()
	if err != nil {
		return nil, err
	}
	return &CashIntentView{AmountDue: checkout.Cents(intent.Amount).Decimal()}, nil
}

// ConfirmCash validates the tendered amount and, on success, persists the
// sale and clears the cart. The receipt snapshot is returned.
func (s *CheckoutService) ConfirmCash(ctx context.Context, sessionID uuid.UUID, tendered float64) (*entity.Receipt, error) {
	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, err
	}

	receipt, err := sess.ConfirmCash(checkout.ToCents(tendered))
	if err != nil {
		return nil, err
	}

	return s.finishSale(ctx, sess, receipt)
}

// BeginQR opens a QR payment for the given wallet method.
func (s *CheckoutService) BeginQR(ctx context.Context, sessionID uuid.UUID, method string) (*checkout.QRStatus, error) {
	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, err
	}
	return sess.BeginQR(checkout.PaymentMethod(method))
}

// QRStatus reports the state of the session's QR attempt.
func (s *CheckoutService) QRStatus(ctx context.Context, sessionID uuid.UUID) (*checkout.QRStatus, error) {
	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, err
	}
	return sess.QRStatus()
}

// RetryQR restarts an expired QR attempt with a fresh window.
func (s *CheckoutService) RetryQR(ctx context.Context, sessionID uuid.UUID) (*checkout.QRStatus, error) {
	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, err
	}
	return sess.RetryQR()
}

// ConfirmQR completes a QR payment. With a transaction id it records a manual
// confirmation; without one it requires the provider to have confirmed
// already. On success the sale is persisted and the cart cleared.
func (s *CheckoutService) ConfirmQR(ctx context.Context, sessionID uuid.UUID, transactionID string) (*entity.Receipt, error) {
	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, err
	}

	var receipt *checkout.Receipt
	if transactionID != "" {
		receipt, err = sess.ConfirmQRManual(transactionID)
	} else {
		receipt, err = sess.QRReceipt()
	}
	if err != nil {
		return nil, err
	}

	return s.finishSale(ctx, sess, receipt)
}

// CancelPayment abandons the open payment, leaving the cart untouched.
func (s *CheckoutService) CancelPayment(ctx context.Context, sessionID uuid.UUID) (*SessionState, error) {
	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, err
	}
	if err := sess.CancelPayment(); err != nil {
		return nil, err
	}
	return sessionState(sess), nil
}

// finishSale persists the receipt as a Sale with an atomic stock decrement,
// then clears the session. A failure leaves the session's payment open so
// the cashier can retry or cancel; nothing is decremented on failure.
func (s *CheckoutService) finishSale(ctx context.Context, sess *checkout.Session, receipt *checkout.Receipt) (*entity.Receipt, error) {
	decrements := make(map[uuid.UUID]int, len(receipt.Lines))
	for _, line := range receipt.Lines {
		decrements[line.ProductID] = line.Quantity
	}

	failed, err := s.productRepo.AtomicDecrementBatch(ctx, decrements)
	if err != nil {
		return nil, err
	}
	if len(failed) > 0 {
		return nil, apperror.NewConflictError("Insufficient stock to complete the sale")
	}

	sale := &entity.Sale{
		CashierID:     receipt.CashierID,
		TransactionID: receipt.TransactionID,
		SaleDate:      receipt.IssuedAt,
		Status:        enum.SaleStatusCompleted,
		SubTotal:      receipt.Totals.Subtotal,
		Tax:           receipt.Totals.Tax,
		Discount:      receipt.Totals.Discount,
		Total:         receipt.Totals.Total,
		PaymentMethod: string(receipt.Method),
		CashReceived:  receipt.CashReceived,
		Change:        receipt.Change,
	}
	for _, line := range receipt.Lines {
		sale.TotalItems += line.Quantity
		sale.Items = append(sale.Items, entity.SaleItem{
			ProductID: line.ProductID,
			Name:      line.Name,
			Quantity:  line.Quantity,
			UnitPrice: line.UnitPrice,
			Total:     line.Total,
		})
	}

	if err := s.saleRepo.Create(ctx, sale); err != nil {
		// Put the stock back; the payment stays open on the session.
		_ = s.productRepo.AtomicIncrementBatch(ctx, decrements)
		return nil, err
	}

	sess.Complete()
	return s.receiptVO(receipt), nil
}

// receiptVO converts the session receipt into the printable value object.
func (s *CheckoutService) receiptVO(r *checkout.Receipt) *entity.Receipt {
	vo := &entity.Receipt{
		Header: entity.ReceiptHeader{
			StoreName: s.store.Name,
			Address:   s.store.Address,
			Phone:     s.store.Phone,
			TaxID:     s.store.TaxID,
		},
		TransactionID: r.TransactionID,
		Date:          r.IssuedAt.Format("2006-01-02"),
		Time:          r.IssuedAt.Format("15:04:05"),
		Cashier:       r.CashierName,
		PaymentMethod: string(r.Method),
		SubTotal:      checkout.Cents(r.Totals.Subtotal).Decimal(),
		Tax:           checkout.Cents(r.Totals.Tax).Decimal(),
		Discount:      checkout.Cents(r.Totals.Discount).Decimal(),
		Total:         checkout.Cents(r.Totals.Total).Decimal(),
		CashReceived:  checkout.Cents(r.CashReceived).Decimal(),
		Change:        checkout.Cents(r.Change).Decimal(),
	}
	for _, line := range r.Lines {
		vo.Items = append(vo.Items, entity.ReceiptItem{
			Name:      line.Name,
			Quantity:  line.Quantity,
			UnitPrice: checkout.Cents(line.UnitPrice).Decimal(),
			Total:     checkout.Cents(line.Total).Decimal(),
		})
	}
	return vo
}

// SessionCount reports the number of live checkout sessions.
func (s *CheckoutService) SessionCount() int {
	return s.sessions.Count()
}
