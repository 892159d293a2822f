package repository

import (
	"context"
	"errors"

	sq "github.com/Masterminds/squirrel"
	"github.com/grupo7/ecommerce-api/internal/core/domain"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// CreateOrder persists the whole checkout aggregate and decrements stock per
// line inside one transaction. A guarded decrement that matches no row (a
// concurrent checkout won the race) aborts the transaction, so either every
// row and every decrement lands or none of them do.
func (r *Repository) CreateOrder(ctx context.Context, order *domain.Order) (*domain.Order, error) {
	err := pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		statement := r.db.QueryBuilder.
			Insert("orders").
			Columns("user_id", "number", "status", "total_amount").
			Values(order.UserID, order.Number, order.Status, order.TotalAmount).
			Suffix("RETURNING id, created_at, updated_at")

		sql, args, err := statement.ToSql()
		if err != nil {
			return err
		}

		err = tx.QueryRow(ctx, sql, args...).Scan(
			&order.ID,
			&order.CreatedAt,
			&order.UpdatedAt,
		)
		if err != nil {
			return err
		}

		for i := range order.Items {
			item := &order.Items[i]
			item.OrderID = order.ID

			statement := r.db.QueryBuilder.
				Insert("order_items").
				Columns("order_id", "product_id", "quantity", "unit_price", "total_price").
				Values(item.OrderID, item.ProductID, item.Quantity, item.UnitPrice, item.TotalPrice).
				Suffix("RETURNING id, created_at")

			sql, args, err := statement.ToSql()
			if err != nil {
				return err
			}

			err = tx.QueryRow(ctx, sql, args...).Scan(&item.ID, &item.CreatedAt)
			if err != nil {
				return err
			}

			err = adjustStock(ctx, tx, r.db.QueryBuilder, item.ProductID, -item.Quantity)
			if err != nil {
				return err
			}
		}

		order.Billing.OrderID = order.ID
		err = insertAddress(ctx, tx, r.db.QueryBuilder, "billing_addresses", order.Billing, true)
		if err != nil {
			return err
		}

		if order.Shipping != nil {
			order.Shipping.OrderID = order.ID
			err = insertAddress(ctx, tx, r.db.QueryBuilder, "shipping_addresses", order.Shipping, false)
			if err != nil {
				return err
			}
		}

		payment := order.Payment
		payment.OrderID = order.ID
		statement = r.db.QueryBuilder.
			Insert("payment_info").
			Columns("order_id", "card_number_encrypted", "cvv_encrypted", "card_last4",
				"expiry_date", "cardholder_name", "payment_method").
			Values(payment.OrderID, payment.CardNumberEncrypted, payment.CVVEncrypted, payment.CardLast4,
				payment.ExpiryDate, payment.CardholderName, payment.PaymentMethod).
			Suffix("RETURNING id, created_at")

		sql, args, err = statement.ToSql()
		if err != nil {
			return err
		}

		return tx.QueryRow(ctx, sql, args...).Scan(&payment.ID, &payment.CreatedAt)
	})
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return nil, domain.ErrConflictingData
		}
		return nil, err
	}

	return order, nil
}

func insertAddress(ctx context.Context, tx pgx.Tx, qb *sq.StatementBuilderType,
	table string, address *domain.Address, withDNI bool) error {
	columns := []string{"order_id", "user_id", "first_name", "last_name", "address", "city", "postal_code"}
	values := []any{address.OrderID, address.UserID, address.FirstName, address.LastName,
		address.Street, address.City, address.PostalCode}
	if withDNI {
		columns = append(columns, "dni")
		values = append(values, address.DNI)
	}

	statement := qb.
		Insert(table).
		Columns(columns...).
		Values(values...).
		Suffix("RETURNING id")

	sql, args, err := statement.ToSql()
	if err != nil {
		return err
	}

	return tx.QueryRow(ctx, sql, args...).Scan(&address.ID)
}

var orderColumns = []string{"id", "user_id", "number", "status", "total_amount", "created_at", "updated_at"}

func (r *Repository) ReadOrder(ctx context.Context, orderID uint64) (*domain.Order, error) {
	return r.readOrder(ctx, sq.Eq{"id": orderID})
}

func (r *Repository) ReadOrderByNumber(ctx context.Context, number string) (*domain.Order, error) {
	return r.readOrder(ctx, sq.Eq{"number": number})
}

// readOrder assembles the flat order view: header, items, addresses and
// payment are fetched separately and stitched together, never exposing the
// storage graph.
func (r *Repository) readOrder(ctx context.Context, where sq.Eq) (*domain.Order, error) {
	statement := r.db.QueryBuilder.
		Select(orderColumns...).
		From("orders").
		Where(where)

	sql, args, err := statement.ToSql()
	if err != nil {
		return nil, err
	}

	order := domain.Order{}
	err = r.db.QueryRow(ctx, sql, args...).Scan(
		&order.ID,
		&order.UserID,
		&order.Number,
		&order.Status,
		&order.TotalAmount,
		&order.CreatedAt,
		&order.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrDataNotFound
		}
		return nil, err
	}

	order.Items, err = r.listOrderItems(ctx, order.ID)
	if err != nil {
		return nil, err
	}

	order.Billing, err = r.readAddress(ctx, "billing_addresses", order.ID, true)
	if err != nil {
		return nil, err
	}

	order.Shipping, err = r.readAddress(ctx, "shipping_addresses", order.ID, false)
	if err != nil {
		return nil, err
	}

	order.Payment, err = r.readPayment(ctx, order.ID)
	if err != nil {
		return nil, err
	}

	return &order, nil
}

func (r *Repository) listOrderItems(ctx context.Context, orderID uint64) ([]domain.OrderItem, error) {
	statement := r.db.QueryBuilder.
		Select("id", "order_id", "product_id", "quantity", "unit_price", "total_price", "created_at").
		From("order_items").
		Where(sq.Eq{"order_id": orderID}).
		OrderBy("id")

	sql, args, err := statement.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]domain.OrderItem, 0)
	for rows.Next() {
		item := domain.OrderItem{}
		err := rows.Scan(
			&item.ID,
			&item.OrderID,
			&item.ProductID,
			&item.Quantity,
			&item.UnitPrice,
			&item.TotalPrice,
			&item.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}

	err = rows.Err()
	if err != nil {
		return nil, err
	}

	return items, nil
}

func (r *Repository) readAddress(ctx context.Context, table string, orderID uint64, withDNI bool) (*domain.Address, error) {
	columns := []string{"id", "order_id", "user_id", "first_name", "last_name", "address", "city", "postal_code"}
	if withDNI {
		columns = append(columns, "dni")
	}

	statement := r.db.QueryBuilder.
		Select(columns...).
		From(table).
		Where(sq.Eq{"order_id": orderID}).
		OrderBy("id").
		Limit(1)

	sql, args, err := statement.ToSql()
	if err != nil {
		return nil, err
	}

	address := domain.Address{}
	dest := []any{&address.ID, &address.OrderID, &address.UserID, &address.FirstName,
		&address.LastName, &address.Street, &address.City, &address.PostalCode}
	if withDNI {
		dest = append(dest, &address.DNI)
	}

	err = r.db.QueryRow(ctx, sql, args...).Scan(dest...)
	if err != nil {
		// Shipping is optional; a missing row is a valid state.
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	return &address, nil
}

func (r *Repository) readPayment(ctx context.Context, orderID uint64) (*domain.PaymentRecord, error) {
	statement := r.db.QueryBuilder.
		Select("id", "order_id", "card_number_encrypted", "cvv_encrypted", "card_last4",
			"expiry_date", "cardholder_name", "payment_method", "created_at").
		From("payment_info").
		Where(sq.Eq{"order_id": orderID})

	sql, args, err := statement.ToSql()
	if err != nil {
		return nil, err
	}

	payment := domain.PaymentRecord{}
	err = r.db.QueryRow(ctx, sql, args...).Scan(
		&payment.ID,
		&payment.OrderID,
		&payment.CardNumberEncrypted,
		&payment.CVVEncrypted,
		&payment.CardLast4,
		&payment.ExpiryDate,
		&payment.CardholderName,
		&payment.PaymentMethod,
		&payment.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	return &payment, nil
}

func (r *Repository) ListOrdersByUser(ctx context.Context, userID uint64) ([]*domain.Order, error) {
	statement := r.db.QueryBuilder.
		Select(orderColumns...).
		From("orders").
		Where(sq.Eq{"user_id": userID}).
		OrderBy("created_at DESC")

	return r.listOrders(ctx, statement)
}

func (r *Repository) ListOrdersByStatus(ctx context.Context, status domain.OrderStatus) ([]*domain.Order, error) {
	statement := r.db.QueryBuilder.
		Select(orderColumns...).
		From("orders").
		Where(sq.Eq{"status": status}).
		OrderBy("created_at DESC")

	return r.listOrders(ctx, statement)
}

// listOrders returns headers only; the full aggregate is assembled by
// ReadOrder when a single order is requested.
func (r *Repository) listOrders(ctx context.Context, statement sq.SelectBuilder) ([]*domain.Order, error) {
	sql, args, err := statement.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	list := make([]*domain.Order, 0)
	for rows.Next() {
		order := domain.Order{}
		err := rows.Scan(
			&order.ID,
			&order.UserID,
			&order.Number,
			&order.Status,
			&order.TotalAmount,
			&order.CreatedAt,
			&order.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		list = append(list, &order)
	}

	err = rows.Err()
	if err != nil {
		return nil, err
	}

	return list, nil
}

func (r *Repository) UpdateOrderStatus(ctx context.Context, orderID uint64, status domain.OrderStatus) (*domain.Order, error) {
	statement := r.db.QueryBuilder.
		Update("orders").
		Set("status", status).
		Set("updated_at", sq.Expr("now()")).
		Where(sq.Eq{"id": orderID}).
		Suffix("RETURNING id")

	sql, args, err := statement.ToSql()
	if err != nil {
		return nil, err
	}

	var id uint64
	err = r.db.QueryRow(ctx, sql, args...).Scan(&id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrDataNotFound
		}
		return nil, err
	}

	return r.ReadOrder(ctx, id)
}
