package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/grupo7/ecommerce-api/internal/core/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

var productColumns = []string{
	"id", "name", "description", "category", "image",
	"price", "discount", "stock", "kind", "details",
	"is_active", "created_at", "updated_at",
}

func (r *Repository) CreateProduct(ctx context.Context, product *domain.Product) (*domain.Product, error) {
	details, err := marshalDetails(product)
	if err != nil {
		return nil, err
	}

	statement := r.db.QueryBuilder.
		Insert("products").
		Columns("name", "description", "category", "image",
			"price", "discount", "stock", "kind", "details", "is_active").
		Values(product.Name, product.Description, product.Category, product.Image,
			product.Price, product.Discount, product.Stock, product.Kind, details, product.IsActive).
		Suffix("RETURNING id, created_at, updated_at")

	sql, args, err := statement.ToSql()
	if err != nil {
		return nil, err
	}

	err = r.db.QueryRow(ctx, sql, args...).Scan(
		&product.ID,
		&product.CreatedAt,
		&product.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	return product, nil
}

// ReadProduct returns an active product only; deactivated rows read as not
// found.
func (r *Repository) ReadProduct(ctx context.Context, productID uint64) (*domain.Product, error) {
	statement := r.db.QueryBuilder.
		Select(productColumns...).
		From("products").
		Where(sq.Eq{"id": productID, "is_active": true})

	sql, args, err := statement.ToSql()
	if err != nil {
		return nil, err
	}

	product, err := scanProduct(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrDataNotFound
		}
		return nil, err
	}

	return product, nil
}

func (r *Repository) ListProducts(ctx context.Context) ([]*domain.Product, error) {
	statement := r.db.QueryBuilder.
		Select(productColumns...).
		From("products").
		Where(sq.Eq{"is_active": true}).
		OrderBy("id")

	return r.listProducts(ctx, statement)
}

func (r *Repository) ListProductsByCategory(ctx context.Context, category string) ([]*domain.Product, error) {
	statement := r.db.QueryBuilder.
		Select(productColumns...).
		From("products").
		Where(sq.Eq{"is_active": true}).
		Where(sq.Expr("lower(category) = lower(?)", category)).
		OrderBy("id")

	return r.listProducts(ctx, statement)
}

func (r *Repository) listProducts(ctx context.Context, statement sq.SelectBuilder) ([]*domain.Product, error) {
	sql, args, err := statement.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	list := make([]*domain.Product, 0)
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, product)
	}

	err = rows.Err()
	if err != nil {
		return nil, err
	}

	return list, nil
}

func (r *Repository) DeactivateProduct(ctx context.Context, productID uint64) error {
	statement := r.db.QueryBuilder.
		Update("products").
		Set("is_active", false).
		Set("updated_at", sq.Expr("now()")).
		Where(sq.Eq{"id": productID, "is_active": true})

	sql, args, err := statement.ToSql()
	if err != nil {
		return err
	}

	res, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return domain.ErrDataNotFound
	}

	return nil
}

// dbtx is satisfied by both the pool and an open pgx.Tx, so stock
// adjustments run identically standalone and inside the checkout
// transaction.
type dbtx interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// AdjustStock applies a signed delta in a single conditional statement, so a
// decrement can never drive stock below zero even under concurrent checkouts.
func (r *Repository) AdjustStock(ctx context.Context, productID uint64, delta int32) error {
	return adjustStock(ctx, r.db, r.db.QueryBuilder, productID, delta)
}

func adjustStock(ctx context.Context, q dbtx, qb *sq.StatementBuilderType, productID uint64, delta int32) error {
	statement := qb.
		Update("products").
		Set("stock", sq.Expr("stock + ?", delta)).
		Set("updated_at", sq.Expr("now()")).
		Where(sq.Eq{"id": productID, "is_active": true})
	if delta < 0 {
		statement = statement.Where(sq.GtOrEq{"stock": -delta})
	}

	sql, args, err := statement.ToSql()
	if err != nil {
		return err
	}

	res, err := q.Exec(ctx, sql, args...)
	if err != nil {
		return err
	}
	if res.RowsAffected() != 0 {
		return nil
	}

	// The guarded update matched nothing: either the product is gone or a
	// concurrent checkout drained the stock first.
	sql, args, err = qb.
		Select("stock").
		From("products").
		Where(sq.Eq{"id": productID, "is_active": true}).
		ToSql()
	if err != nil {
		return err
	}

	var available int32
	err = q.QueryRow(ctx, sql, args...).Scan(&available)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return &domain.ProductNotFoundError{ProductID: productID}
		}
		return err
	}

	return &domain.InsufficientStockError{
		ProductID: productID,
		Available: available,
		Requested: -delta,
	}
}

func marshalDetails(product *domain.Product) ([]byte, error) {
	switch product.Kind {
	case domain.ProductKindPhysical:
		return json.Marshal(product.Physical)
	case domain.ProductKindDigital:
		return json.Marshal(product.Digital)
	default:
		return nil, fmt.Errorf("unknown product kind %q", product.Kind)
	}
}

func scanProduct(row pgx.Row) (*domain.Product, error) {
	product := domain.Product{}
	var details []byte

	err := row.Scan(
		&product.ID,
		&product.Name,
		&product.Description,
		&product.Category,
		&product.Image,
		&product.Price,
		&product.Discount,
		&product.Stock,
		&product.Kind,
		&details,
		&product.IsActive,
		&product.CreatedAt,
		&product.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	switch product.Kind {
	case domain.ProductKindPhysical:
		product.Physical = &domain.PhysicalDetails{}
		err = json.Unmarshal(details, product.Physical)
	case domain.ProductKindDigital:
		product.Digital = &domain.DigitalDetails{}
		err = json.Unmarshal(details, product.Digital)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to decode product details: %w", err)
	}

	return &product, nil
}
