package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/vgclassic/storefront/internal/order/domain"
	"github.com/vgclassic/storefront/pkg/apperr"
)

type OrderRepo struct {
	db *sql.DB
}

func NewOrderRepo(db *sql.DB) *OrderRepo {
	return &OrderRepo{db: db}
}

// PlaceOrder is the checkout unit of work: order insert, line inserts, cart
// line deletes and the version-guarded cart delete all commit together or
// not at all. Readers either see the old cart or the new order, never an
// in-between state.
func (r *OrderRepo) PlaceOrder(ctx context.Context, order domain.Order, cartID uuid.UUID, cartVersion int64) (domain.Order, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return domain.Order{}, apperr.Wrap(apperr.KindPersistence, "failed to begin checkout transaction", err)
	}
	defer tx.Rollback()

	if order.ID == uuid.Nil {
		order.ID = uuid.New()
	}

	var bFirst, bLast, bLine1, bLine2, bCity, bState, bZip, bCountry, bPhone *string
	if b := order.BillingAddress; b != nil {
		bFirst, bLast = &b.FirstName, &b.LastName
		bLine1, bLine2 = &b.Line1, &b.Line2
		bCity, bState = &b.City, &b.State
		bZip, bCountry, bPhone = &b.ZipCode, &b.Country, &b.Phone
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO orders (
			id, order_number, owner_id, placed_at, status, payment_status,
			subtotal, shipping, tax, discount, total,
			ship_first_name, ship_last_name, ship_line1, ship_line2,
			ship_city, ship_state, ship_zip, ship_country, ship_phone,
			bill_first_name, bill_last_name, bill_line1, bill_line2,
			bill_city, bill_state, bill_zip, bill_country, bill_phone,
			customer_notes
		) VALUES (
			$1, $2, $3, $4, $5, $6,
			$7, $8, $9, $10, $11,
			$12, $13, $14, $15, $16, $17, $18, $19, $20,
			$21, $22, $23, $24, $25, $26, $27, $28, $29,
			$30
		)
	`,
		order.ID, order.OrderNumber, order.OwnerID, order.PlacedAt, order.Status, order.PaymentStatus,
		order.Subtotal, order.Shipping, order.Tax, order.Discount, order.Total,
		order.ShippingAddress.FirstName, order.ShippingAddress.LastName,
		order.ShippingAddress.Line1, order.ShippingAddress.Line2,
		order.ShippingAddress.City, order.ShippingAddress.State,
		order.ShippingAddress.ZipCode, order.ShippingAddress.Country, order.ShippingAddress.Phone,
		bFirst, bLast, bLine1, bLine2, bCity, bState, bZip, bCountry, bPhone,
		order.CustomerNotes,
	)
	if err != nil {
		return domain.Order{}, fmt.Errorf("failed to insert order: %w", err)
	}

	for i := range order.Lines {
		if order.Lines[i].ID == uuid.Nil {
			order.Lines[i].ID = uuid.New()
		}
		l := order.Lines[i]
		_, err := tx.ExecContext(ctx, `
			INSERT INTO order_lines (
				id, order_id, product_id, variant_id,
				product_name, variant_label,
				unit_price, quantity, line_discount, line_total, position
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		`, l.ID, order.ID, l.ProductID, l.VariantID,
			l.ProductName, l.VariantLabel,
			l.UnitPrice, l.Quantity, l.LineDiscount, l.LineTotal, i)
		if err != nil {
			return domain.Order{}, fmt.Errorf("failed to insert order line: %w", err)
		}
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM cart_lines WHERE cart_id = $1`, cartID); err != nil {
		return domain.Order{}, fmt.Errorf("failed to delete cart lines: %w", err)
	}

	res, err := tx.ExecContext(ctx, `DELETE FROM carts WHERE id = $1 AND version = $2`, cartID, cartVersion)
	if err != nil {
		return domain.Order{}, fmt.Errorf("failed to delete cart: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return domain.Order{}, fmt.Errorf("failed to read affected rows: %w", err)
	}
	if affected == 0 {
		return domain.Order{}, apperr.Newf(apperr.KindConcurrentModification, "cart %s changed during checkout", cartID)
	}

	if err := tx.Commit(); err != nil {
		return domain.Order{}, apperr.Wrap(apperr.KindPersistence, "failed to commit checkout", err)
	}

	return order, nil
}

func (r *OrderRepo) ListByOwner(ctx context.Context, ownerID string) ([]domain.Order, error) {
	rows, err := r.db.QueryContext(ctx, orderSelect+`
		WHERE owner_id = $1
		ORDER BY placed_at DESC
	`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to query orders: %w", err)
	}
	defer rows.Close()

	var orders []domain.Order
	index := make(map[uuid.UUID]int)
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		index[o.ID] = len(orders)
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	if len(orders) == 0 {
		return nil, nil
	}

	ids := make([]string, 0, len(orders))
	for _, o := range orders {
		ids = append(ids, o.ID.String())
	}

	lineRows, err := r.db.QueryContext(ctx, lineSelect+`
		WHERE order_id = ANY($1::uuid[])
		ORDER BY order_id, position
	`, pq.Array(ids))
	if err != nil {
		return nil, fmt.Errorf("failed to query order lines: %w", err)
	}
	defer lineRows.Close()

	for lineRows.Next() {
		var orderID uuid.UUID
		l, err := scanLine(lineRows, &orderID)
		if err != nil {
			return nil, err
		}
		if i, ok := index[orderID]; ok {
			orders[i].Lines = append(orders[i].Lines, l)
		}
	}
	if err := lineRows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return orders, nil
}

func (r *OrderRepo) GetByOwner(ctx context.Context, ownerID string, orderID uuid.UUID) (domain.Order, error) {
	row := r.db.QueryRowContext(ctx, orderSelect+`
		WHERE owner_id = $1 AND id = $2
	`, ownerID, orderID)

	o, err := scanOrder(row)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Order{}, apperr.Newf(apperr.KindNotFound, "order %s not found", orderID)
	}
	if err != nil {
		return domain.Order{}, err
	}

	lineRows, err := r.db.QueryContext(ctx, lineSelect+`
		WHERE order_id = $1
		ORDER BY position
	`, orderID)
	if err != nil {
		return domain.Order{}, fmt.Errorf("failed to query order lines: %w", err)
	}
	defer lineRows.Close()

	for lineRows.Next() {
		var id uuid.UUID
		l, err := scanLine(lineRows, &id)
		if err != nil {
			return domain.Order{}, err
		}
		o.Lines = append(o.Lines, l)
	}
	if err := lineRows.Err(); err != nil {
		return domain.Order{}, fmt.Errorf("row iteration error: %w", err)
	}

	return o, nil
}

const orderSelect = `
	SELECT id, order_number, owner_id, placed_at, status, payment_status,
		subtotal, shipping, tax, discount, total,
		ship_first_name, ship_last_name, ship_line1, ship_line2,
		ship_city, ship_state, ship_zip, ship_country, ship_phone,
		bill_first_name, bill_last_name, bill_line1, bill_line2,
		bill_city, bill_state, bill_zip, bill_country, bill_phone,
		customer_notes
	FROM orders
`

const lineSelect = `
	SELECT id, order_id, product_id, variant_id,
		product_name, variant_label,
		unit_price, quantity, line_discount, line_total
	FROM order_lines
`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanOrder(row rowScanner) (domain.Order, error) {
	var o domain.Order
	var bFirst, bLast, bLine1, bLine2, bCity, bState, bZip, bCountry, bPhone sql.NullString

	err := row.Scan(
		&o.ID, &o.OrderNumber, &o.OwnerID, &o.PlacedAt, &o.Status, &o.PaymentStatus,
		&o.Subtotal, &o.Shipping, &o.Tax, &o.Discount, &o.Total,
		&o.ShippingAddress.FirstName, &o.ShippingAddress.LastName,
		&o.ShippingAddress.Line1, &o.ShippingAddress.Line2,
		&o.ShippingAddress.City, &o.ShippingAddress.State,
		&o.ShippingAddress.ZipCode, &o.ShippingAddress.Country, &o.ShippingAddress.Phone,
		&bFirst, &bLast, &bLine1, &bLine2, &bCity, &bState, &bZip, &bCountry, &bPhone,
		&o.CustomerNotes,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Order{}, err
	}
	if err != nil {
		return domain.Order{}, fmt.Errorf("failed to scan order: %w", err)
	}

	if bFirst.Valid {
		o.BillingAddress = &domain.Address{
			FirstName: bFirst.String,
			LastName:  bLast.String,
			Line1:     bLine1.String,
			Line2:     bLine2.String,
			City:      bCity.String,
			State:     bState.String,
			ZipCode:   bZip.String,
			Country:   bCountry.String,
			Phone:     bPhone.String,
		}
	}

	return o, nil
}

func scanLine(row rowScanner, orderID *uuid.UUID) (domain.Line, error) {
	var l domain.Line
	err := row.Scan(
		&l.ID, orderID, &l.ProductID, &l.VariantID,
		&l.ProductName, &l.VariantLabel,
		&l.UnitPrice, &l.Quantity, &l.LineDiscount, &l.LineTotal,
	)
	if err != nil {
		return domain.Line{}, fmt.Errorf("failed to scan order line: %w", err)
	}
	return l, nil
}
