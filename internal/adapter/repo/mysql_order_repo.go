package repo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/nishantchy/ecom-microservice/internal/entity"
	"github.com/nishantchy/ecom-microservice/internal/usecase"
	"github.com/shopspring/decimal"
)

// MySQLOrderRepo persists orders against the tables `orders` and
// `order_items` (provisioned externally; order_items.order_id is a foreign
// key into orders.id).
type MySQLOrderRepo struct{ db *sql.DB }

func NewMySQLOrderRepo(db *sql.DB) *MySQLOrderRepo { return &MySQLOrderRepo{db: db} }

// Create lands the order and all of its items in one transaction: either
// every row commits or none do. On success the store-assigned ids and the
// creation timestamp are populated on o.
func (r *MySQLOrderRepo) Create(ctx context.Context, o *entity.Order) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	now := time.Now().UTC().Truncate(time.Second)
	res, err := tx.ExecContext(ctx, `
INSERT INTO orders (user_id, order_number, status, total_amount, payment_method, shipping_address, created_at)
VALUES (?,?,?,?,?,?,?)`,
		o.UserID, o.OrderNumber, string(o.Status), o.TotalAmount.String(), o.PaymentMethod, o.ShippingAddress, now,
	)
	if err != nil {
		return fmt.Errorf("insert order: %w", err)
	}
	orderID, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("order id: %w", err)
	}

	for i := range o.Items {
		it := &o.Items[i]
		res, err := tx.ExecContext(ctx, `
INSERT INTO order_items (order_id, product_id, quantity, unit_price, line_total)
VALUES (?,?,?,?,?)`,
			orderID, it.ProductID, it.Quantity, it.UnitPrice.String(), it.LineTotal.String(),
		)
		if err != nil {
			return fmt.Errorf("insert item (product %d): %w", it.ProductID, err)
		}
		itemID, err := res.LastInsertId()
		if err != nil {
			return fmt.Errorf("item id: %w", err)
		}
		it.ID, it.OrderID = itemID, orderID
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	o.ID, o.CreatedAt = orderID, now
	return nil
}

func (r *MySQLOrderRepo) GetByID(ctx context.Context, id int64) (*entity.Order, error) {
	row := r.db.QueryRowContext(ctx, `
SELECT id, user_id, order_number, status, total_amount, payment_method, shipping_address, created_at
FROM orders WHERE id=?`, id)

	o, err := scanOrder(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, usecase.ErrNotFound
		}
		return nil, err
	}
	if err := r.loadItems(ctx, o); err != nil {
		return nil, err
	}
	return o, nil
}

func (r *MySQLOrderRepo) ListAll(ctx context.Context) ([]entity.Order, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT id, user_id, order_number, status, total_amount, payment_method, shipping_address, created_at
FROM orders ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []entity.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for i := range out {
		if err := r.loadItems(ctx, &out[i]); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func (r *MySQLOrderRepo) loadItems(ctx context.Context, o *entity.Order) error {
	rows, err := r.db.QueryContext(ctx, `
SELECT id, order_id, product_id, quantity, unit_price, line_total
FROM order_items WHERE order_id=? ORDER BY id`, o.ID)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var it entity.OrderItem
		var unitPrice, lineTotal string
		if err := rows.Scan(&it.ID, &it.OrderID, &it.ProductID, &it.Quantity, &unitPrice, &lineTotal); err != nil {
			return err
		}
		if it.UnitPrice, err = decimal.NewFromString(unitPrice); err != nil {
			return fmt.Errorf("item %d unit_price: %w", it.ID, err)
		}
		if it.LineTotal, err = decimal.NewFromString(lineTotal); err != nil {
			return fmt.Errorf("item %d line_total: %w", it.ID, err)
		}
		o.Items = append(o.Items, it)
	}
	return rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanOrder(row rowScanner) (*entity.Order, error) {
	var o entity.Order
	var status, total string
	if err := row.Scan(&o.ID, &o.UserID, &o.OrderNumber, &status, &total, &o.PaymentMethod, &o.ShippingAddress, &o.CreatedAt); err != nil {
		return nil, err
	}
	o.Status = entity.Status(status)
	var err error
	if o.TotalAmount, err = decimal.NewFromString(total); err != nil {
		return nil, fmt.Errorf("order %d total_amount: %w", o.ID, err)
	}
	return &o, nil
}

var _ usecase.OrderRepo = (*MySQLOrderRepo)(nil)
