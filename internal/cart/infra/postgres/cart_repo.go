package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/vgclassic/storefront/internal/cart/domain"
	"github.com/vgclassic/storefront/pkg/apperr"
)

const uniqueViolation = "23505"

type CartRepo struct {
	db *sql.DB
}

func NewCartRepo(db *sql.DB) *CartRepo {
	return &CartRepo{db: db}
}

func (r *CartRepo) GetByOwner(ctx context.Context, ownerID string) (domain.Cart, error) {
	var cart domain.Cart

	err := r.db.QueryRowContext(ctx, `
		SELECT id, owner_id, version, last_activity
		FROM carts
		WHERE owner_id = $1
	`, ownerID).Scan(&cart.ID, &cart.OwnerID, &cart.Version, &cart.LastActivity)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Cart{}, apperr.Newf(apperr.KindNotFound, "no cart for owner %s", ownerID)
	}
	if err != nil {
		return domain.Cart{}, fmt.Errorf("failed to query cart: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT id, product_id, variant_id, quantity, unit_price
		FROM cart_lines
		WHERE cart_id = $1
		ORDER BY added_at
	`, cart.ID)
	if err != nil {
		return domain.Cart{}, fmt.Errorf("failed to query cart lines: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var l domain.Line
		if err := rows.Scan(&l.ID, &l.ProductID, &l.VariantID, &l.Quantity, &l.UnitPrice); err != nil {
			return domain.Cart{}, fmt.Errorf("failed to scan cart line: %w", err)
		}
		cart.Lines = append(cart.Lines, l)
	}
	if err := rows.Err(); err != nil {
		return domain.Cart{}, fmt.Errorf("row iteration error: %w", err)
	}

	return cart, nil
}

// Save writes the whole aggregate. New carts (Version == 0) are inserted at
// version 1; existing carts bump their version with a guard on the loaded
// one, so a lost update fails instead of silently overwriting. The line set
// is replaced wholesale, which keeps the merge semantics in the aggregate
// and out of SQL.
func (r *CartRepo) Save(ctx context.Context, cart *domain.Cart) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return apperr.Wrap(apperr.KindPersistence, "failed to begin transaction", err)
	}
	defer tx.Rollback()

	if cart.Version == 0 {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO carts (id, owner_id, version, last_activity)
			VALUES ($1, $2, 1, $3)
		`, cart.ID, cart.OwnerID, cart.LastActivity)
		if isUniqueViolation(err) {
			return apperr.Wrap(apperr.KindConcurrentModification, "cart was created concurrently", err)
		}
		if err != nil {
			return fmt.Errorf("failed to insert cart: %w", err)
		}
		cart.Version = 1
	} else {
		var newVersion int64
		err = tx.QueryRowContext(ctx, `
			UPDATE carts
			SET last_activity = $2, version = version + 1
			WHERE id = $1 AND version = $3
			RETURNING version
		`, cart.ID, cart.LastActivity, cart.Version).Scan(&newVersion)
		if errors.Is(err, sql.ErrNoRows) {
			return apperr.Newf(apperr.KindConcurrentModification, "cart %s was modified concurrently", cart.ID)
		}
		if err != nil {
			return fmt.Errorf("failed to update cart: %w", err)
		}
		cart.Version = newVersion
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM cart_lines WHERE cart_id = $1`, cart.ID); err != nil {
		return fmt.Errorf("failed to clear cart lines: %w", err)
	}

	for _, l := range cart.Lines {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO cart_lines (id, cart_id, product_id, variant_id, quantity, unit_price, added_at)
			VALUES ($1, $2, $3, $4, $5, $6, now())
		`, l.ID, cart.ID, l.ProductID, l.VariantID, l.Quantity, l.UnitPrice)
		if err != nil {
			return fmt.Errorf("failed to insert cart line: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return apperr.Wrap(apperr.KindPersistence, "failed to commit cart", err)
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && string(pqErr.Code) == uniqueViolation
}
