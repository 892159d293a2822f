package service

import (
	"context"
	"errors"

	"github.com/grupo7/ecommerce-api/internal/core/domain"
	"go.uber.org/zap"
)

func (s *Service) GetOrder(ctx context.Context, orderID uint64) (*domain.Order, error) {
	order, err := s.repo.ReadOrder(ctx, orderID)
	if err != nil {
		if errors.Is(err, domain.ErrDataNotFound) {
			return nil, domain.ErrOrderNotFound
		}
		s.logger.Error("Read order", zap.Uint64("order_id", orderID), zap.Error(err))
		return nil, domain.ErrInternal
	}
	return order, nil
}

func (s *Service) GetOrderByNumber(ctx context.Context, number string) (*domain.Order, error) {
	order, err := s.repo.ReadOrderByNumber(ctx, number)
	if err != nil {
		if errors.Is(err, domain.ErrDataNotFound) {
			return nil, domain.ErrOrderNotFound
		}
		s.logger.Error("Read order by number", zap.String("number", number), zap.Error(err))
		return nil, domain.ErrInternal
	}
	return order, nil
}

func (s *Service) GetOrdersByUser(ctx context.Context, userID uint64) ([]*domain.Order, error) {
	list, err := s.repo.ListOrdersByUser(ctx, userID)
	if err != nil {
		s.logger.Error("List orders for user", zap.Uint64("user_id", userID), zap.Error(err))
		return nil, domain.ErrInternal
	}
	return list, nil
}

func (s *Service) GetOrdersByStatus(ctx context.Context, status domain.OrderStatus) ([]*domain.Order, error) {
	if !status.Valid() {
		return nil, domain.ErrInvalidStatus
	}
	list, err := s.repo.ListOrdersByStatus(ctx, status)
	if err != nil {
		s.logger.Error("List orders by status", zap.String("status", string(status)), zap.Error(err))
		return nil, domain.ErrInternal
	}
	return list, nil
}

// UpdateOrderStatus moves an order to any known status. Transition legality
// between known statuses is deliberately not enforced.
func (s *Service) UpdateOrderStatus(ctx context.Context, orderID uint64, status domain.OrderStatus) (*domain.Order, error) {
	if !status.Valid() {
		return nil, domain.ErrInvalidStatus
	}

	order, err := s.repo.UpdateOrderStatus(ctx, orderID, status)
	if err != nil {
		if errors.Is(err, domain.ErrDataNotFound) {
			return nil, domain.ErrOrderNotFound
		}
		s.logger.Error("Update order status",
			zap.Uint64("order_id", orderID), zap.String("status", string(status)), zap.Error(err))
		return nil, domain.ErrInternal
	}
	return order, nil
}
