package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/shopora/go-shop-backend/internal/app/entity"
	err_storage "github.com/shopora/go-shop-backend/internal/app/storage/api/errors"
)

const orderColumns = `id, user_id, shop_id, cart, shipping_address, total_price, payment_info,
					  status, stock_committed, version, created_at, delivered_at`

func (s *Postgres) CreateOrder(ctx context.Context, order entity.Order) error {
	cart, shippingAddress, paymentInfo, err := marshalOrderColumns(order)
	if err != nil {
		return err
	}

	query := `INSERT INTO orders (id, user_id, shop_id, cart, shipping_address, total_price,
								  payment_info, status, stock_committed, version, created_at, delivered_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`

	_, err = s.db.ExecContext(ctx, query,
		order.ID.String(), order.UserID.String(), order.ShopID.String(), cart,
		shippingAddress, order.TotalPrice, paymentInfo, string(order.Status),
		order.StockCommitted, order.Version, order.CreatedAt, deliveredAtColumn(order.DeliveredAt))
	if err != nil {
		if isUniqueViolation(err) {
			return err_storage.ErrOrderExists
		}

		return fmt.Errorf("error while inserting order: %w", err)
	}

	return nil
}

func (s *Postgres) GetOrder(ctx context.Context, id entity.OrderID) (entity.Order, error) {
	query := fmt.Sprintf(`SELECT %s FROM orders WHERE id = $1`, orderColumns)

	order, err := scanOrder(s.db.QueryRowContext(ctx, query, id.String()))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return entity.Order{}, err_storage.ErrOrderNotFound
		}

		return entity.Order{}, fmt.Errorf("error while selecting order: %w", err)
	}

	return order, nil
}

// UpdateOrder persists the order under an optimistic version check: the
// write only lands if nobody else advanced the order since it was read.
func (s *Postgres) UpdateOrder(ctx context.Context, order entity.Order) error {
	cart, shippingAddress, paymentInfo, err := marshalOrderColumns(order)
	if err != nil {
		return err
	}

	query := `UPDATE orders
			  SET cart = $1, shipping_address = $2, total_price = $3, payment_info = $4,
				  status = $5, stock_committed = $6, delivered_at = $7, version = version + 1
			  WHERE id = $8 AND version = $9`

	result, err := s.db.ExecContext(ctx, query,
		cart, shippingAddress, order.TotalPrice, paymentInfo, string(order.Status),
		order.StockCommitted, deliveredAtColumn(order.DeliveredAt),
		order.ID.String(), order.Version)
	if err != nil {
		return fmt.Errorf("error while updating order: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("error while reading affected rows: %w", err)
	}
	if affected != 0 {
		return nil
	}

	var exists bool
	err = s.db.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM orders WHERE id = $1)`, order.ID.String()).
		Scan(&exists)
	if err != nil {
		return fmt.Errorf("error while checking order existence: %w", err)
	}
	if !exists {
		return err_storage.ErrOrderNotFound
	}

	return err_storage.ErrVersionConflict
}

func (s *Postgres) GetUserOrders(ctx context.Context, userID entity.UserID) (entity.Orders, error) {
	query := fmt.Sprintf(`SELECT %s FROM orders WHERE user_id = $1 ORDER BY created_at DESC`, orderColumns)

	return s.queryOrders(ctx, query, userID.String())
}

func (s *Postgres) GetShopOrders(ctx context.Context, shopID entity.ShopID) (entity.Orders, error) {
	query := fmt.Sprintf(`SELECT %s FROM orders WHERE shop_id = $1 ORDER BY created_at DESC`, orderColumns)

	return s.queryOrders(ctx, query, shopID.String())
}

func (s *Postgres) GetOrders(ctx context.Context) (entity.Orders, error) {
	query := fmt.Sprintf(`SELECT %s FROM orders
						  ORDER BY delivered_at DESC NULLS LAST, created_at DESC`, orderColumns)

	return s.queryOrders(ctx, query)
}

func (s *Postgres) queryOrders(ctx context.Context, query string, args ...any) (entity.Orders, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("error while selecting orders: %w", err)
	}
	defer rows.Close()

	orders := make(entity.Orders, 0)
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("error while scanning order row: %w", err)
		}

		orders = append(orders, order)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error while iterating order rows: %w", err)
	}

	return orders, nil
}

func marshalOrderColumns(order entity.Order) (cart, shippingAddress, paymentInfo []byte, err error) {
	cart, err = marshalColumn(order.Cart)
	if err != nil {
		return nil, nil, nil, err
	}
	shippingAddress, err = marshalColumn(order.ShippingAddress)
	if err != nil {
		return nil, nil, nil, err
	}
	paymentInfo, err = marshalColumn(order.PaymentInfo)
	if err != nil {
		return nil, nil, nil, err
	}

	return cart, shippingAddress, paymentInfo, nil
}

func deliveredAtColumn(deliveredAt time.Time) sql.NullTime {
	return sql.NullTime{
		Time:  deliveredAt,
		Valid: !deliveredAt.IsZero(),
	}
}

func scanOrder(row rowScanner) (entity.Order, error) {
	var (
		order           entity.Order
		id              string
		userID          string
		shopID          string
		cart            []byte
		shippingAddress []byte
		paymentInfo     []byte
		status          string
		deliveredAt     sql.NullTime
	)

	err := row.Scan(&id, &userID, &shopID, &cart, &shippingAddress, &order.TotalPrice,
		&paymentInfo, &status, &order.StockCommitted, &order.Version,
		&order.CreatedAt, &deliveredAt)
	if err != nil {
		return entity.Order{}, err
	}

	order.ID = entity.OrderID(id)
	order.UserID = entity.UserID(userID)
	order.ShopID = entity.ShopID(shopID)
	order.Status = entity.OrderStatus(status)
	if deliveredAt.Valid {
		order.DeliveredAt = deliveredAt.Time
	}

	if err := unmarshalColumn(cart, &order.Cart); err != nil {
		return entity.Order{}, err
	}
	if err := unmarshalColumn(shippingAddress, &order.ShippingAddress); err != nil {
		return entity.Order{}, err
	}
	if err := unmarshalColumn(paymentInfo, &order.PaymentInfo); err != nil {
		return entity.Order{}, err
	}

	return order, nil
}
