package service

import (
	"context"
	"errors"

	"github.com/grupo7/ecommerce-api/internal/core/domain"
	"github.com/govalues/decimal"
	"go.uber.org/zap"
)

func (s *Service) CreateProduct(ctx context.Context, product *domain.Product) (*domain.Product, error) {
	if product.Price.Cmp(decimal.Zero) <= 0 {
		return nil, domain.ErrBadRequest
	}
	switch product.Kind {
	case domain.ProductKindPhysical:
		if product.Physical == nil || product.Digital != nil {
			return nil, domain.ErrBadRequest
		}
	case domain.ProductKindDigital:
		if product.Digital == nil || product.Physical != nil {
			return nil, domain.ErrBadRequest
		}
	default:
		return nil, domain.ErrBadRequest
	}
	if product.Stock < 0 {
		return nil, domain.ErrBadRequest
	}

	product.IsActive = true
	created, err := s.repo.CreateProduct(ctx, product)
	if err != nil {
		s.logger.Error("Create product", zap.String("name", product.Name), zap.Error(err))
		return nil, domain.ErrInternal
	}
	return created, nil
}

func (s *Service) GetProduct(ctx context.Context, productID uint64) (*domain.Product, error) {
	product, err := s.repo.ReadProduct(ctx, productID)
	if err != nil {
		if errors.Is(err, domain.ErrDataNotFound) {
			return nil, &domain.ProductNotFoundError{ProductID: productID}
		}
		s.logger.Error("Read product", zap.Uint64("product_id", productID), zap.Error(err))
		return nil, domain.ErrInternal
	}
	return product, nil
}

func (s *Service) ListProducts(ctx context.Context) ([]*domain.Product, error) {
	list, err := s.repo.ListProducts(ctx)
	if err != nil {
		s.logger.Error("List products", zap.Error(err))
		return nil, domain.ErrInternal
	}
	return list, nil
}

func (s *Service) ListProductsByCategory(ctx context.Context, category string) ([]*domain.Product, error) {
	list, err := s.repo.ListProductsByCategory(ctx, category)
	if err != nil {
		s.logger.Error("List products by category", zap.String("category", category), zap.Error(err))
		return nil, domain.ErrInternal
	}
	return list, nil
}

// AdjustProductStock applies a signed delta outside of any checkout, for
// restocking and manual corrections. A decrement that would drive stock
// negative is rejected with the same typed error checkout uses.
func (s *Service) AdjustProductStock(ctx context.Context, productID uint64, delta int32) (*domain.Product, error) {
	err := s.repo.AdjustStock(ctx, productID, delta)
	if err != nil {
		if errors.Is(err, domain.ErrProductNotFound) || errors.Is(err, domain.ErrInsufficientStock) {
			return nil, err
		}
		s.logger.Error("Adjust product stock",
			zap.Uint64("product_id", productID), zap.Int32("delta", delta), zap.Error(err))
		return nil, domain.ErrInternal
	}

	return s.GetProduct(ctx, productID)
}

// DeactivateProduct soft-deletes: the row stays for existing order lines but
// every read boundary reports it as not found afterwards.
func (s *Service) DeactivateProduct(ctx context.Context, productID uint64) error {
	err := s.repo.DeactivateProduct(ctx, productID)
	if err != nil {
		if errors.Is(err, domain.ErrDataNotFound) {
			return &domain.ProductNotFoundError{ProductID: productID}
		}
		s.logger.Error("Deactivate product", zap.Uint64("product_id", productID), zap.Error(err))
		return domain.ErrInternal
	}
	return nil
}
