package port

import (
	"context"

	"github.com/grupo7/ecommerce-api/internal/core/domain"
)

//go:generate mockgen -source=repository.go -destination=mock/repository.go -package=mock
type Repository interface {
	// User
	CreateUser(ctx context.Context, user *domain.User) (*domain.User, error)
	GetUserByEmail(ctx context.Context, email string) (*domain.User, error)

	// Product catalog
	CreateProduct(ctx context.Context, product *domain.Product) (*domain.Product, error)
	ReadProduct(ctx context.Context, productID uint64) (*domain.Product, error)
	ListProducts(ctx context.Context) ([]*domain.Product, error)
	ListProductsByCategory(ctx context.Context, category string) ([]*domain.Product, error)
	DeactivateProduct(ctx context.Context, productID uint64) error
	// AdjustStock applies a signed delta atomically. A decrement that would
	// drive stock negative fails with InsufficientStockError and leaves the
	// row untouched.
	AdjustStock(ctx context.Context, productID uint64, delta int32) error

	// Order
	// CreateOrder persists the whole aggregate (header, items, addresses,
	// payment) and decrements stock for every item inside one transaction.
	// Either all writes become visible or none do.
	CreateOrder(ctx context.Context, order *domain.Order) (*domain.Order, error)
	ReadOrder(ctx context.Context, orderID uint64) (*domain.Order, error)
	ReadOrderByNumber(ctx context.Context, number string) (*domain.Order, error)
	ListOrdersByUser(ctx context.Context, userID uint64) ([]*domain.Order, error)
	ListOrdersByStatus(ctx context.Context, status domain.OrderStatus) ([]*domain.Order, error)
	UpdateOrderStatus(ctx context.Context, orderID uint64, status domain.OrderStatus) (*domain.Order, error)
}
