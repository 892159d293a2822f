package service_test

import (
	"context"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/grupo7/ecommerce-api/internal/core/domain"
	"github.com/grupo7/ecommerce-api/internal/core/port/mock"
	"github.com/grupo7/ecommerce-api/internal/core/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestService(t *testing.T, mockCtrl *gomock.Controller, repo *mock.MockRepository) *service.Service {
	t.Helper()
	logger, _ := zap.NewProduction()
	s, err := service.NewService(repo,
		mock.NewMockTokenService(mockCtrl), mock.NewMockCardVault(mockCtrl), logger)
	require.NoError(t, err)
	return s
}

func TestService_GetOrder(t *testing.T) {
	mockCtrl := gomock.NewController(t)
	defer mockCtrl.Finish()

	order := domain.Order{ID: 42, Number: "ORD-AAAAAAAA-1", Status: domain.OrderStatusPending}

	tests := []struct {
		name     string
		orderID  uint64
		mock     func(repo *mock.MockRepository)
		expError error
	}{
		{
			name:    "found",
			orderID: 42,
			mock: func(repo *mock.MockRepository) {
				repo.EXPECT().ReadOrder(gomock.Any(), uint64(42)).Return(&order, nil)
			},
		},
		{
			name:    "not found",
			orderID: 404,
			mock: func(repo *mock.MockRepository) {
				repo.EXPECT().ReadOrder(gomock.Any(), uint64(404)).Return(nil, domain.ErrDataNotFound)
			},
			expError: domain.ErrOrderNotFound,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			repo := mock.NewMockRepository(mockCtrl)
			test.mock(repo)
			s := newTestService(t, mockCtrl, repo)

			result, err := s.GetOrder(context.Background(), test.orderID)

			if test.expError != nil {
				assert.ErrorIs(t, err, test.expError)
				assert.Nil(t, result)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, &order, result)
			}
		})
	}
}

func TestService_GetOrderByNumber(t *testing.T) {
	mockCtrl := gomock.NewController(t)
	defer mockCtrl.Finish()

	order := domain.Order{ID: 42, Number: "ORD-AAAAAAAA-1"}

	repo := mock.NewMockRepository(mockCtrl)
	repo.EXPECT().ReadOrderByNumber(gomock.Any(), order.Number).Return(&order, nil)
	repo.EXPECT().ReadOrderByNumber(gomock.Any(), "ORD-MISSING1-1").Return(nil, domain.ErrDataNotFound)

	s := newTestService(t, mockCtrl, repo)

	result, err := s.GetOrderByNumber(context.Background(), order.Number)
	assert.NoError(t, err)
	assert.Equal(t, &order, result)

	result, err = s.GetOrderByNumber(context.Background(), "ORD-MISSING1-1")
	assert.ErrorIs(t, err, domain.ErrOrderNotFound)
	assert.Nil(t, result)
}

func TestService_UpdateOrderStatus(t *testing.T) {
	mockCtrl := gomock.NewController(t)
	defer mockCtrl.Finish()

	shipped := domain.Order{ID: 42, Number: "ORD-AAAAAAAA-1", Status: domain.OrderStatusShipped}

	tests := []struct {
		name     string
		orderID  uint64
		status   domain.OrderStatus
		mock     func(repo *mock.MockRepository)
		expError error
	}{
		{
			name:    "pending to shipped",
			orderID: 42,
			status:  domain.OrderStatusShipped,
			mock: func(repo *mock.MockRepository) {
				repo.EXPECT().UpdateOrderStatus(gomock.Any(), uint64(42), domain.OrderStatusShipped).
					Return(&shipped, nil)
			},
		},
		{
			name:    "delivered back to pending is allowed",
			orderID: 42,
			status:  domain.OrderStatusPending,
			mock: func(repo *mock.MockRepository) {
				repo.EXPECT().UpdateOrderStatus(gomock.Any(), uint64(42), domain.OrderStatusPending).
					Return(&domain.Order{ID: 42, Status: domain.OrderStatusPending}, nil)
			},
		},
		{
			name:     "unknown status rejected without repo call",
			orderID:  42,
			status:   domain.OrderStatus("TELEPORTED"),
			mock:     func(repo *mock.MockRepository) {},
			expError: domain.ErrInvalidStatus,
		},
		{
			name:    "order not found",
			orderID: 404,
			status:  domain.OrderStatusCancelled,
			mock: func(repo *mock.MockRepository) {
				repo.EXPECT().UpdateOrderStatus(gomock.Any(), uint64(404), domain.OrderStatusCancelled).
					Return(nil, domain.ErrDataNotFound)
			},
			expError: domain.ErrOrderNotFound,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			repo := mock.NewMockRepository(mockCtrl)
			test.mock(repo)
			s := newTestService(t, mockCtrl, repo)

			result, err := s.UpdateOrderStatus(context.Background(), test.orderID, test.status)

			if test.expError != nil {
				assert.ErrorIs(t, err, test.expError)
				assert.Nil(t, result)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, test.status, result.Status)
			}
		})
	}
}

func TestService_GetOrdersByStatus(t *testing.T) {
	mockCtrl := gomock.NewController(t)
	defer mockCtrl.Finish()

	repo := mock.NewMockRepository(mockCtrl)
	repo.EXPECT().ListOrdersByStatus(gomock.Any(), domain.OrderStatusPending).
		Return([]*domain.Order{{ID: 1}, {ID: 2}}, nil)

	s := newTestService(t, mockCtrl, repo)

	list, err := s.GetOrdersByStatus(context.Background(), domain.OrderStatusPending)
	assert.NoError(t, err)
	assert.Len(t, list, 2)

	_, err = s.GetOrdersByStatus(context.Background(), domain.OrderStatus("nope"))
	assert.ErrorIs(t, err, domain.ErrInvalidStatus)
}
