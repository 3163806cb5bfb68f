package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ausadhi/pos-api/internal/checkout"
	"github.com/ausadhi/pos-api/internal/config"
	"github.com/ausadhi/pos-api/internal/domain/entity"
	"github.com/ausadhi/pos-api/internal/domain/enum"
	"github.com/ausadhi/pos-api/internal/domain/repository"
	"github.com/ausadhi/pos-api/pkg/apperror"
	"github.com/ausadhi/pos-api/pkg/pagination"
)

// mockProductRepo is a hand-rolled ProductRepository backed by a map.
type mockProductRepo struct {
	products    map[uuid.UUID]*entity.Product
	decrementFn func(decrements map[uuid.UUID]int) ([]uuid.UUID, error)
	decremented []map[uuid.UUID]int
	incremented []map[uuid.UUID]int
}

func newMockProductRepo(products ...*entity.Product) *mockProductRepo {
	m := &mockProductRepo{products: make(map[uuid.UUID]*entity.Product)}
	for _, p := range products {
		m.products[p.ID] = p
	}
	return m
}

func (m *mockProductRepo) Create(ctx context.Context, product *entity.Product) error {
	m.products[product.ID] = product
	return nil
}

func (m *mockProductRepo) CreateBatch(ctx context.Context, products []entity.Product) error {
	return nil
}

func (m *mockProductRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.Product, error) {
	return m.products[id], nil
}

func (m *mockProductRepo) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]entity.Product, error) {
	var out []entity.Product
	for _, id := range ids {
		if p, ok := m.products[id]; ok {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (m *mockProductRepo) GetByBarcode(ctx context.Context, barcode string) (*entity.Product, error) {
	for _, p := range m.products {
		if p.Barcode == barcode {
			return p, nil
		}
	}
	return nil, nil
}

func (m *mockProductRepo) GetBySlug(ctx context.Context, slug string) (*entity.Product, error) {
	return nil, nil
}

func (m *mockProductRepo) Update(ctx context.Context, product *entity.Product) error { return nil }
func (m *mockProductRepo) Delete(ctx context.Context, id uuid.UUID) error            { return nil }

func (m *mockProductRepo) List(ctx context.Context, params *repository.ProductFilterParams) ([]entity.Product, int64, error) {
	return nil, 0, nil
}

func (m *mockProductRepo) GetLowStock(ctx context.Context) ([]entity.Product, error) {
	return nil, nil
}

func (m *mockProductRepo) GetNearExpiry(ctx context.Context, cutoff time.Time) ([]entity.Product, error) {
	return nil, nil
}

func (m *mockProductRepo) AtomicDecrementBatch(ctx context.Context, decrements map[uuid.UUID]int) ([]uuid.UUID, error) {
	m.decremented = append(m.decremented, decrements)
	if m.decrementFn != nil {
		return m.decrementFn(decrements)
	}
	for id, qty := range decrements {
		m.products[id].Quantity -= qty
	}
	return nil, nil
}

func (m *mockProductRepo) AtomicIncrementBatch(ctx context.Context, increments map[uuid.UUID]int) error {
	m.incremented = append(m.incremented, increments)
	for id, qty := range increments {
		if p, ok := m.products[id]; ok {
			p.Quantity += qty
		}
	}
	return nil
}

// mockSaleRepo captures created sales.
type mockSaleRepo struct {
	createFn func(sale *entity.Sale) error
	created  []*entity.Sale
}

func (m *mockSaleRepo) Create(ctx context.Context, sale *entity.Sale) error {
	if m.createFn != nil {
		if err := m.createFn(sale); err != nil {
			return err
		}
	}
	m.created = append(m.created, sale)
	return nil
}

func (m *mockSaleRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.Sale, error) {
	return nil, nil
}

func (m *mockSaleRepo) GetByTransactionID(ctx context.Context, transactionID string) (*entity.Sale, error) {
	return nil, nil
}

func (m *mockSaleRepo) GetWithItems(ctx context.Context, id uuid.UUID) (*entity.Sale, error) {
	return nil, nil
}

func (m *mockSaleRepo) List(ctx context.Context, params *repository.SaleFilterParams) ([]entity.Sale, int64, error) {
	return nil, 0, nil
}

func (m *mockSaleRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status enum.SaleStatus) error {
	return nil
}

// mockUserRepo serves a fixed set of users.
type mockUserRepo struct {
	users map[uuid.UUID]*entity.User
}

func newMockUserRepo(users ...*entity.User) *mockUserRepo {
	m := &mockUserRepo{users: make(map[uuid.UUID]*entity.User)}
	for _, u := range users {
		m.users[u.ID] = u
	}
	return m
}

func (m *mockUserRepo) Create(ctx context.Context, user *entity.User) error { return nil }

func (m *mockUserRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	return m.users[id], nil
}

func (m *mockUserRepo) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, nil
}

func (m *mockUserRepo) Update(ctx context.Context, user *entity.User) error { return nil }
func (m *mockUserRepo) Delete(ctx context.Context, id uuid.UUID) error      { return nil }

func (m *mockUserRepo) List(ctx context.Context, params *pagination.PaginationParams, search string) ([]entity.User, int64, error) {
	return nil, 0, nil
}

func (m *mockUserRepo) GetWithRoles(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	return m.users[id], nil
}

func (m *mockUserRepo) AssignRole(ctx context.Context, userID uuid.UUID, roleID uint) error {
	return nil
}

func (m *mockUserRepo) RemoveRole(ctx context.Context, userID uuid.UUID, roleID uint) error {
	return nil
}

func testCashier() *entity.User {
	return &entity.User{
		ID:        uuid.New(),
		FirstName: "Sita",
		LastName:  "Shrestha",
		Email:     "sita@ausadhi.local",
	}
}

func testCatalogProduct(name string, priceCents int64, stock int) *entity.Product {
	return &entity.Product{
		ID:           uuid.New(),
		Name:         name,
		Barcode:      "BC-" + name,
		SellingPrice: priceCents,
		Quantity:     stock,
	}
}

type checkoutFixture struct {
	svc      *CheckoutService
	products *mockProductRepo
	sales    *mockSaleRepo
	cashier  *entity.User
}

func newCheckoutFixture(t *testing.T, products ...*entity.Product) *checkoutFixture {
	t.Helper()

	cashier := testCashier()
	productRepo := newMockProductRepo(products...)
	saleRepo := &mockSaleRepo{}

	manager := checkout.NewManager(checkout.Config{
		QRWindow: time.Minute,
		Provider: checkout.ProviderFunc(func(ctx context.Context, intent checkout.PaymentIntent) (string, error) {
			// Never confirms on its own; tests drive confirmation manually.
			<-ctx.Done()
			return "", ctx.Err()
		}),
	})
	t.Cleanup(manager.Close)

	store := config.StoreConfig{Name: "AUSADHI PHARMACY", Address: "New Road, Kathmandu"}
	svc := NewCheckoutService(manager, productRepo, saleRepo, newMockUserRepo(cashier), store)

	return &checkoutFixture{
		svc:      svc,
		products: productRepo,
		sales:    saleRepo,
		cashier:  cashier,
	}
}

func TestCheckoutService_CreateSessionUnknownCashier(t *testing.T) {
	f := newCheckoutFixture(t)

	_, err := f.svc.CreateSession(context.Background(), uuid.New())
	require.Error(t, err)
	assert.Equal(t, "Cashier not found", err.Error())
}

func TestCheckoutService_SessionNotFound(t *testing.T) {
	f := newCheckoutFixture(t)

	_, err := f.svc.GetSession(context.Background(), uuid.New())
	assert.ErrorIs(t, err, apperror.ErrSessionNotFound)
}

func TestCheckoutService_CashCheckout(t *testing.T) {
	ctx := context.Background()
	paracetamol := testCatalogProduct("Paracetamol 500mg", 5000, 10)
	f := newCheckoutFixture(t, paracetamol)

	state, err := f.svc.CreateSession(ctx, f.cashier.ID)
	require.NoError(t, err)
	assert.Equal(t, "Sita Shrestha", state.Cashier)

	for i := 0; i < 3; i++ {
		state, err = f.svc.AddItem(ctx, state.SessionID, &paracetamol.ID, "")
		require.NoError(t, err)
	}
	assert.Equal(t, 3, state.TotalItems)
	assert.Equal(t, int64(16950), state.Totals.Total)

	intent, err := f.svc.BeginCash(ctx, state.SessionID)
	require.NoError(t, err)
	assert.Equal(t, 169.50, intent.AmountDue)

	_, err = f.svc.ConfirmCash(ctx, state.SessionID, 100.00)
	assert.ErrorIs(t, err, apperror.ErrInsufficientCash)
	assert.Empty(t, f.sales.created)
	assert.Empty(t, f.products.decremented)

	receipt, err := f.svc.ConfirmCash(ctx, state.SessionID, 200.00)
	require.NoError(t, err)
	assert.Equal(t, "AUSADHI PHARMACY", receipt.Header.StoreName)
	assert.Equal(t, "cash", receipt.PaymentMethod)
	assert.Equal(t, 150.00, receipt.SubTotal)
	assert.Equal(t, 19.50, receipt.Tax)
	assert.Equal(t, 169.50, receipt.Total)
	assert.Equal(t, 200.00, receipt.CashReceived)
	assert.Equal(t, 30.50, receipt.Change)
	require.Len(t, receipt.Items, 1)
	assert.Equal(t, 3, receipt.Items[0].Quantity)

	require.Len(t, f.products.decremented, 1)
	assert.Equal(t, map[uuid.UUID]int{paracetamol.ID: 3}, f.products.decremented[0])
	assert.Equal(t, 7, paracetamol.Quantity)

	require.Len(t, f.sales.created, 1)
	sale := f.sales.created[0]
	assert.Equal(t, f.cashier.ID, sale.CashierID)
	assert.Equal(t, enum.SaleStatusCompleted, sale.Status)
	assert.Equal(t, int64(15000), sale.SubTotal)
	assert.Equal(t, int64(1950), sale.Tax)
	assert.Equal(t, int64(16950), sale.Total)
	assert.Equal(t, int64(20000), sale.CashReceived)
	assert.Equal(t, int64(3050), sale.Change)
	assert.Equal(t, "cash", sale.PaymentMethod)
	assert.Equal(t, 3, sale.TotalItems)
	require.Len(t, sale.Items, 1)
	assert.Equal(t, paracetamol.ID, sale.Items[0].ProductID)
	assert.Equal(t, "Paracetamol 500mg", sale.Items[0].Name)

	// The session survives the sale with an empty cart.
	state, err = f.svc.GetSession(ctx, state.SessionID)
	require.NoError(t, err)
	assert.Empty(t, state.Lines)
	assert.Equal(t, int64(0), state.Totals.Total)
}

func TestCheckoutService_AddItemByBarcode(t *testing.T) {
	ctx := context.Background()
	cetamol := testCatalogProduct("Cetamol", 1500, 5)
	f := newCheckoutFixture(t, cetamol)

	state, err := f.svc.CreateSession(ctx, f.cashier.ID)
	require.NoError(t, err)

	state, err = f.svc.AddItem(ctx, state.SessionID, nil, cetamol.Barcode)
	require.NoError(t, err)
	require.Len(t, state.Lines, 1)
	assert.Equal(t, cetamol.ID, state.Lines[0].ProductID)

	_, err = f.svc.AddItem(ctx, state.SessionID, nil, "")
	require.Error(t, err)

	unknown := uuid.New()
	_, err = f.svc.AddItem(ctx, state.SessionID, &unknown, "")
	require.Error(t, err)
	assert.Equal(t, "Product not found", err.Error())
}

func TestCheckoutService_StockConflictLeavesPaymentOpen(t *testing.T) {
	ctx := context.Background()
	product := testCatalogProduct("Amoxicillin", 8000, 2)
	f := newCheckoutFixture(t, product)

	// Another terminal sold out the stock between carting and payment.
	f.products.decrementFn = func(decrements map[uuid.UUID]int) ([]uuid.UUID, error) {
		return []uuid.UUID{product.ID}, nil
	}

	state, err := f.svc.CreateSession(ctx, f.cashier.ID)
	require.NoError(t, err)
	state, err = f.svc.AddItem(ctx, state.SessionID, &product.ID, "")
	require.NoError(t, err)

	_, err = f.svc.BeginCash(ctx, state.SessionID)
	require.NoError(t, err)

	_, err = f.svc.ConfirmCash(ctx, state.SessionID, 100.00)
	require.Error(t, err)
	assert.Equal(t, "Insufficient stock to complete the sale", err.Error())
	assert.Empty(t, f.sales.created)

	// The payment stays open so the cashier can back out; the cart is intact.
	state, err = f.svc.CancelPayment(ctx, state.SessionID)
	require.NoError(t, err)
	require.Len(t, state.Lines, 1)
	assert.Equal(t, 1, state.Lines[0].Quantity)
}

func TestCheckoutService_SaleCreateFailureRestoresStock(t *testing.T) {
	ctx := context.Background()
	product := testCatalogProduct("Ibuprofen", 2500, 8)
	f := newCheckoutFixture(t, product)
	f.sales.createFn = func(sale *entity.Sale) error {
		return errors.New("connection reset")
	}

	state, err := f.svc.CreateSession(ctx, f.cashier.ID)
	require.NoError(t, err)
	state, err = f.svc.AddItem(ctx, state.SessionID, &product.ID, "")
	require.NoError(t, err)

	_, err = f.svc.BeginCash(ctx, state.SessionID)
	require.NoError(t, err)

	_, err = f.svc.ConfirmCash(ctx, state.SessionID, 50.00)
	require.Error(t, err)

	// The decrement was compensated and nothing was persisted.
	require.Len(t, f.products.decremented, 1)
	require.Len(t, f.products.incremented, 1)
	assert.Equal(t, f.products.decremented[0], f.products.incremented[0])
	assert.Equal(t, 8, product.Quantity)
	assert.Empty(t, f.sales.created)
}

func TestCheckoutService_QRManualConfirm(t *testing.T) {
	ctx := context.Background()
	product := testCatalogProduct("Vitamin C", 3000, 4)
	f := newCheckoutFixture(t, product)

	state, err := f.svc.CreateSession(ctx, f.cashier.ID)
	require.NoError(t, err)
	state, err = f.svc.AddItem(ctx, state.SessionID, &product.ID, "")
	require.NoError(t, err)

	status, err := f.svc.BeginQR(ctx, state.SessionID, "esewa")
	require.NoError(t, err)
	assert.Equal(t, checkout.StateWaiting, status.State)
	assert.NotEmpty(t, status.Payload)

	// Wallet app confirmed out of band; cashier keys in the reference.
	receipt, err := f.svc.ConfirmQR(ctx, state.SessionID, "TXN-AB12CD34")
	require.NoError(t, err)
	assert.Equal(t, "TXN-AB12CD34", receipt.TransactionID)
	assert.Equal(t, "esewa", receipt.PaymentMethod)

	require.Len(t, f.sales.created, 1)
	assert.Equal(t, "TXN-AB12CD34", f.sales.created[0].TransactionID)
	assert.Equal(t, "esewa", f.sales.created[0].PaymentMethod)

	state, err = f.svc.GetSession(ctx, state.SessionID)
	require.NoError(t, err)
	assert.Empty(t, state.Lines)
}
