package service_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/govalues/decimal"
	"github.com/grupo7/ecommerce-api/internal/core/domain"
	"github.com/grupo7/ecommerce-api/internal/core/port"
	"github.com/grupo7/ecommerce-api/internal/core/port/mock"
	"github.com/grupo7/ecommerce-api/internal/core/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type prepareCheckoutMocks func(repo *mock.MockRepository, vault *mock.MockCardVault)

func testCheckout(items ...domain.CheckoutItem) *domain.Checkout {
	return &domain.Checkout{
		Billing: domain.Address{
			FirstName:  "Ada",
			LastName:   "Lovelace",
			DNI:        "12345678A",
			Street:     "Analytical st. 1",
			City:       "London",
			PostalCode: "E1 6AN",
		},
		Payment: domain.CardDetails{
			Number:     "4111111111111111",
			ExpiryDate: "12/30",
			CVV:        "123",
			HolderName: "ADA LOVELACE",
		},
		Items: items,
	}
}

func testProduct(id uint64, price string, discount string, stock int32) *domain.Product {
	p := &domain.Product{
		ID:       id,
		Name:     "product",
		Price:    decimal.MustParse(price),
		Stock:    stock,
		Kind:     domain.ProductKindPhysical,
		Physical: &domain.PhysicalDetails{WeightKG: 1},
		IsActive: true,
	}
	if discount != "" {
		p.Discount = decimal.NullDecimal{Decimal: decimal.MustParse(discount), Valid: true}
	}
	return p
}

func expectSealedPayment(vault *mock.MockCardVault) {
	vault.EXPECT().Seal("4111111111111111").Return("sealed-number", nil)
	vault.EXPECT().Seal("123").Return("sealed-cvv", nil)
}

func TestService_Checkout(t *testing.T) {
	mockCtrl := gomock.NewController(t)
	defer mockCtrl.Finish()

	logger, _ := zap.NewProduction()

	created := domain.Order{ID: 42, Number: "ORD-AAAAAAAA-1", Status: domain.OrderStatusPending}

	type checkoutTest struct {
		name     string
		checkout *domain.Checkout
		mock     prepareCheckoutMocks
		expError error
		check    func(t *testing.T, result *domain.Order)
	}

	tests := []checkoutTest{
		{
			name: "good checkout with discount",
			checkout: testCheckout(
				domain.CheckoutItem{ProductID: 1, Quantity: 2},
			),
			mock: func(repo *mock.MockRepository, vault *mock.MockCardVault) {
				repo.EXPECT().ReadProduct(gomock.Any(), uint64(1)).
					Return(testProduct(1, "100.00", "80.00", 5), nil)
				expectSealedPayment(vault)
				repo.EXPECT().CreateOrder(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, order *domain.Order) (*domain.Order, error) {
						assert.Equal(t, uint64(7), order.UserID)
						assert.Equal(t, domain.OrderStatusPending, order.Status)
						assert.Equal(t, 0, order.TotalAmount.Cmp(decimal.MustParse("160.00")))
						require.Len(t, order.Items, 1)
						assert.Equal(t, 0, order.Items[0].UnitPrice.Cmp(decimal.MustParse("80.00")))
						assert.Equal(t, 0, order.Items[0].TotalPrice.Cmp(decimal.MustParse("160.00")))
						assert.Equal(t, "sealed-number", order.Payment.CardNumberEncrypted)
						assert.Equal(t, "sealed-cvv", order.Payment.CVVEncrypted)
						assert.Equal(t, "1111", order.Payment.CardLast4)
						return &created, nil
					})
				repo.EXPECT().ReadOrder(gomock.Any(), uint64(42)).Return(&created, nil)
			},
			check: func(t *testing.T, result *domain.Order) {
				assert.Equal(t, created.ID, result.ID)
			},
		},
		{
			name: "duplicate lines validated as a sum",
			checkout: testCheckout(
				domain.CheckoutItem{ProductID: 1, Quantity: 2},
				domain.CheckoutItem{ProductID: 1, Quantity: 2},
			),
			mock: func(repo *mock.MockRepository, vault *mock.MockCardVault) {
				repo.EXPECT().ReadProduct(gomock.Any(), uint64(1)).
					Return(testProduct(1, "10.00", "", 3), nil)
			},
			expError: domain.ErrInsufficientStock,
		},
		{
			name: "insufficient stock carries line details",
			checkout: testCheckout(
				domain.CheckoutItem{ProductID: 9, Quantity: 10},
			),
			mock: func(repo *mock.MockRepository, vault *mock.MockCardVault) {
				repo.EXPECT().ReadProduct(gomock.Any(), uint64(9)).
					Return(testProduct(9, "10.00", "", 3), nil)
			},
			expError: domain.ErrInsufficientStock,
			check: func(t *testing.T, result *domain.Order) {
				assert.Nil(t, result)
			},
		},
		{
			name: "product not found",
			checkout: testCheckout(
				domain.CheckoutItem{ProductID: 404, Quantity: 1},
			),
			mock: func(repo *mock.MockRepository, vault *mock.MockCardVault) {
				repo.EXPECT().ReadProduct(gomock.Any(), uint64(404)).
					Return(nil, domain.ErrDataNotFound)
			},
			expError: domain.ErrProductNotFound,
		},
		{
			name:     "empty order rejected before any repo call",
			checkout: testCheckout(),
			mock:     func(repo *mock.MockRepository, vault *mock.MockCardVault) {},
			expError: domain.ErrEmptyOrder,
		},
		{
			name: "non-positive quantity rejected",
			checkout: testCheckout(
				domain.CheckoutItem{ProductID: 1, Quantity: 0},
			),
			mock:     func(repo *mock.MockRepository, vault *mock.MockCardVault) {},
			expError: domain.ErrBadRequest,
		},
		{
			name: "stock drained by concurrent checkout",
			checkout: testCheckout(
				domain.CheckoutItem{ProductID: 1, Quantity: 1},
			),
			mock: func(repo *mock.MockRepository, vault *mock.MockCardVault) {
				repo.EXPECT().ReadProduct(gomock.Any(), uint64(1)).
					Return(testProduct(1, "10.00", "", 1), nil)
				expectSealedPayment(vault)
				repo.EXPECT().CreateOrder(gomock.Any(), gomock.Any()).
					Return(nil, &domain.InsufficientStockError{ProductID: 1, Available: 0, Requested: 1})
			},
			expError: domain.ErrInsufficientStock,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			repo := mock.NewMockRepository(mockCtrl)
			ts := mock.NewMockTokenService(mockCtrl)
			vault := mock.NewMockCardVault(mockCtrl)
			test.mock(repo, vault)

			s, err := service.NewService(repo, ts, vault, logger)
			require.NoError(t, err)

			result, err := s.CreateOrder(context.Background(), 7, test.checkout)

			if test.expError != nil {
				assert.ErrorIs(t, err, test.expError)
				assert.Nil(t, result)
			} else {
				assert.NoError(t, err)
			}
			if test.check != nil {
				test.check(t, result)
			}
		})
	}
}

func TestService_CheckoutInsufficientStockError(t *testing.T) {
	mockCtrl := gomock.NewController(t)
	defer mockCtrl.Finish()

	logger, _ := zap.NewProduction()

	repo := mock.NewMockRepository(mockCtrl)
	ts := mock.NewMockTokenService(mockCtrl)
	vault := mock.NewMockCardVault(mockCtrl)

	repo.EXPECT().ReadProduct(gomock.Any(), uint64(9)).
		Return(testProduct(9, "10.00", "", 3), nil)

	s, err := service.NewService(repo, ts, vault, logger)
	require.NoError(t, err)

	_, err = s.CreateOrder(context.Background(), 7,
		testCheckout(domain.CheckoutItem{ProductID: 9, Quantity: 10}))

	var stockErr *domain.InsufficientStockError
	require.True(t, errors.As(err, &stockErr))
	assert.Equal(t, uint64(9), stockErr.ProductID)
	assert.Equal(t, int32(3), stockErr.Available)
	assert.Equal(t, int32(10), stockErr.Requested)
}

func TestService_CheckoutWithoutShipping(t *testing.T) {
	mockCtrl := gomock.NewController(t)
	defer mockCtrl.Finish()

	logger, _ := zap.NewProduction()

	repo := mock.NewMockRepository(mockCtrl)
	ts := mock.NewMockTokenService(mockCtrl)
	vault := mock.NewMockCardVault(mockCtrl)

	created := domain.Order{ID: 1}

	repo.EXPECT().ReadProduct(gomock.Any(), uint64(1)).
		Return(testProduct(1, "10.00", "", 5), nil)
	expectSealedPayment(vault)
	repo.EXPECT().CreateOrder(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, order *domain.Order) (*domain.Order, error) {
			assert.Nil(t, order.Shipping)
			assert.NotNil(t, order.Billing)
			assert.Equal(t, uint64(7), order.Billing.UserID)
			return &created, nil
		})
	repo.EXPECT().ReadOrder(gomock.Any(), uint64(1)).Return(&created, nil)

	s, err := service.NewService(repo, ts, vault, logger)
	require.NoError(t, err)

	_, err = s.CreateOrder(context.Background(), 7,
		testCheckout(domain.CheckoutItem{ProductID: 1, Quantity: 1}))
	assert.NoError(t, err)
}

// racingRepository mimics the conditional stock decrement the SQL layer does:
// the decrement succeeds only while stock remains, under a lock, so exactly
// one of two concurrent checkouts for the last unit can win.
type racingRepository struct {
	port.Repository

	mu      sync.Mutex
	product *domain.Product
	nextID  uint64
	orders  map[uint64]*domain.Order
}

func (r *racingRepository) ReadProduct(_ context.Context, productID uint64) (*domain.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if productID != r.product.ID {
		return nil, domain.ErrDataNotFound
	}
	copy := *r.product
	return &copy, nil
}

func (r *racingRepository) CreateOrder(_ context.Context, order *domain.Order) (*domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, item := range order.Items {
		if r.product.Stock < item.Quantity {
			return nil, &domain.InsufficientStockError{
				ProductID: item.ProductID,
				Available: r.product.Stock,
				Requested: item.Quantity,
			}
		}
		r.product.Stock -= item.Quantity
	}

	r.nextID++
	stored := *order
	stored.ID = r.nextID
	r.orders[stored.ID] = &stored
	return &stored, nil
}

func (r *racingRepository) ReadOrder(_ context.Context, orderID uint64) (*domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	order, ok := r.orders[orderID]
	if !ok {
		return nil, domain.ErrDataNotFound
	}
	return order, nil
}

func TestService_CheckoutPriceSnapshotSurvivesCatalogChange(t *testing.T) {
	mockCtrl := gomock.NewController(t)
	defer mockCtrl.Finish()

	logger, _ := zap.NewProduction()

	repo := &racingRepository{
		product: testProduct(1, "100.00", "80.00", 5),
		orders:  make(map[uint64]*domain.Order),
	}
	vault := mock.NewMockCardVault(mockCtrl)
	vault.EXPECT().Seal(gomock.Any()).Return("sealed", nil).AnyTimes()

	s, err := service.NewService(repo, mock.NewMockTokenService(mockCtrl), vault, logger)
	require.NoError(t, err)

	created, err := s.CreateOrder(context.Background(), uint64(7),
		testCheckout(domain.CheckoutItem{ProductID: 1, Quantity: 2}))
	require.NoError(t, err)

	// Reprice the catalog after checkout; the stored snapshot must not move.
	repo.mu.Lock()
	repo.product.Price = decimal.MustParse("999.99")
	repo.product.Discount = decimal.NullDecimal{}
	repo.mu.Unlock()

	reread, err := s.GetOrder(context.Background(), created.ID)
	require.NoError(t, err)

	require.Len(t, reread.Items, 1)
	assert.Equal(t, 0, reread.Items[0].UnitPrice.Cmp(decimal.MustParse("80.00")))
	assert.Equal(t, 0, reread.Items[0].TotalPrice.Cmp(decimal.MustParse("160.00")))
	assert.Equal(t, 0, reread.TotalAmount.Cmp(decimal.MustParse("160.00")))
}

func TestService_CheckoutConcurrentLastUnit(t *testing.T) {
	mockCtrl := gomock.NewController(t)
	defer mockCtrl.Finish()

	logger, _ := zap.NewProduction()

	repo := &racingRepository{
		product: testProduct(1, "10.00", "", 1),
		orders:  make(map[uint64]*domain.Order),
	}
	vault := mock.NewMockCardVault(mockCtrl)
	vault.EXPECT().Seal(gomock.Any()).Return("sealed", nil).AnyTimes()

	s, err := service.NewService(repo, mock.NewMockTokenService(mockCtrl), vault, logger)
	require.NoError(t, err)

	results := make(chan error, 2)
	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.CreateOrder(context.Background(), uint64(7),
				testCheckout(domain.CheckoutItem{ProductID: 1, Quantity: 1}))
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	var succeeded, rejected int
	for err := range results {
		switch {
		case err == nil:
			succeeded++
		case errors.Is(err, domain.ErrInsufficientStock):
			rejected++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}

	// Both goroutines may pass validation, but only one decrement can land.
	assert.Equal(t, 1, succeeded)
	assert.Equal(t, 1, rejected)
	assert.Equal(t, int32(0), repo.product.Stock)
}
