package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/grupo7/ecommerce-api/internal/core/domain"
	"github.com/govalues/decimal"
	"go.uber.org/zap"
)

// CreateOrder runs the checkout workflow for an authenticated user: validate
// every requested line against current stock, price the lines with the
// snapshotted effective price, and persist the whole aggregate together with
// the stock decrements in one repository transaction. A failure on any line
// rejects the whole request with nothing written.
func (s *Service) CreateOrder(ctx context.Context, userID uint64, checkout *domain.Checkout) (*domain.Order, error) {
	if checkout == nil || len(checkout.Items) == 0 {
		return nil, domain.ErrEmptyOrder
	}
	for _, item := range checkout.Items {
		if item.Quantity < 1 {
			return nil, domain.ErrBadRequest
		}
	}

	products, err := s.validateStock(ctx, checkout.Items)
	if err != nil {
		return nil, err
	}

	items, total, err := priceItems(checkout.Items, products)
	if err != nil {
		s.logger.Error("Price order", zap.Error(err))
		return nil, domain.ErrInternal
	}

	payment, err := s.sealPayment(checkout.Payment)
	if err != nil {
		s.logger.Error("Seal payment data", zap.Error(err))
		return nil, domain.ErrInternal
	}

	billing := checkout.Billing
	billing.UserID = userID
	var shipping *domain.Address
	if checkout.Shipping != nil {
		sh := *checkout.Shipping
		sh.UserID = userID
		sh.DNI = ""
		shipping = &sh
	}

	order := &domain.Order{
		UserID:      userID,
		Number:      NewOrderNumber(),
		Status:      domain.OrderStatusPending,
		TotalAmount: total,
		Items:       items,
		Billing:     &billing,
		Shipping:    shipping,
		Payment:     payment,
	}

	created, err := s.repo.CreateOrder(ctx, order)
	if err != nil {
		// A concurrent checkout may have drained stock between validation
		// and the conditional decrement. The transaction has been rolled
		// back, so the caller sees it as plain insufficient stock.
		if errors.Is(err, domain.ErrInsufficientStock) {
			return nil, err
		}
		s.logger.Error("Persist order", zap.String("number", order.Number), zap.Error(err))
		return nil, err
	}

	full, err := s.repo.ReadOrder(ctx, created.ID)
	if err != nil {
		s.logger.Error("Read back created order",
			zap.Uint64("order_id", created.ID), zap.Error(err))
		return nil, domain.ErrInternal
	}

	s.logger.Info("Order created",
		zap.Uint64("order_id", full.ID),
		zap.String("number", full.Number),
		zap.Uint64("user_id", userID),
		zap.Int("items", len(full.Items)))

	return full, nil
}

// validateStock resolves every requested product and checks requested
// quantities against available stock before anything is written. Quantities
// of duplicate lines for the same product are validated as a sum.
func (s *Service) validateStock(ctx context.Context, items []domain.CheckoutItem) (map[uint64]*domain.Product, error) {
	products := make(map[uint64]*domain.Product, len(items))
	requested := make(map[uint64]int32, len(items))

	for _, item := range items {
		product, ok := products[item.ProductID]
		if !ok {
			var err error
			product, err = s.repo.ReadProduct(ctx, item.ProductID)
			if err != nil {
				if errors.Is(err, domain.ErrDataNotFound) {
					return nil, &domain.ProductNotFoundError{ProductID: item.ProductID}
				}
				s.logger.Error("Read product", zap.Uint64("product_id", item.ProductID), zap.Error(err))
				return nil, domain.ErrInternal
			}
			products[item.ProductID] = product
		}

		requested[item.ProductID] += item.Quantity
		if product.Stock < requested[item.ProductID] {
			return nil, &domain.InsufficientStockError{
				ProductID: item.ProductID,
				Available: product.Stock,
				Requested: requested[item.ProductID],
			}
		}
	}

	return products, nil
}

// priceItems snapshots the effective unit price per line and accumulates the
// grand total left to right in currency-precision decimals.
func priceItems(items []domain.CheckoutItem, products map[uint64]*domain.Product) ([]domain.OrderItem, decimal.Decimal, error) {
	total := decimal.Zero
	out := make([]domain.OrderItem, 0, len(items))

	for _, item := range items {
		product := products[item.ProductID]
		unitPrice := product.EffectivePrice()

		quantity, err := decimal.New(int64(item.Quantity), 0)
		if err != nil {
			return nil, decimal.Zero, fmt.Errorf("math error:%w", err)
		}
		lineTotal, err := unitPrice.Mul(quantity)
		if err != nil {
			return nil, decimal.Zero, fmt.Errorf("math error:%w", err)
		}
		total, err = total.Add(lineTotal)
		if err != nil {
			return nil, decimal.Zero, fmt.Errorf("math error:%w", err)
		}

		out = append(out, domain.OrderItem{
			ProductID:  item.ProductID,
			Quantity:   item.Quantity,
			UnitPrice:  unitPrice,
			TotalPrice: lineTotal,
		})
	}

	return out, total, nil
}

func (s *Service) sealPayment(card domain.CardDetails) (*domain.PaymentRecord, error) {
	number, err := s.vault.Seal(card.Number)
	if err != nil {
		return nil, err
	}
	cvv, err := s.vault.Seal(card.CVV)
	if err != nil {
		return nil, err
	}

	last4 := card.Number
	if len(last4) > 4 {
		last4 = last4[len(last4)-4:]
	}

	return &domain.PaymentRecord{
		CardNumberEncrypted: number,
		CVVEncrypted:        cvv,
		CardLast4:           last4,
		ExpiryDate:          card.ExpiryDate,
		CardholderName:      card.HolderName,
		PaymentMethod:       domain.PaymentMethodCreditCard,
	}, nil
}
