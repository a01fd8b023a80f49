package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/vgclassic/storefront/internal/catalog/domain"
	"github.com/vgclassic/storefront/pkg/apperr"
)

type ProductRepo struct {
	db *sql.DB
}

func NewProductRepo(db *sql.DB) *ProductRepo {
	return &ProductRepo{db: db}
}

// sortColumns is the closed mapping from sort keys to columns. Anything
// outside this table cannot reach the query.
var sortColumns = map[domain.SortKey]string{
	domain.SortByName:  "name",
	domain.SortByPrice: "price",
	domain.SortByDate:  "created_at",
}

func (r *ProductRepo) Get(ctx context.Context, id uuid.UUID) (domain.Product, error) {
	var p domain.Product
	err := r.db.QueryRowContext(ctx, `
		SELECT id, name, description, brand, category, sku, price, stock_quantity, state, featured, image_urls, created_at, updated_at
		FROM products
		WHERE id = $1
	`, id).Scan(&p.ID, &p.Name, &p.Description, &p.Brand, &p.Category, &p.SKU, &p.Price, &p.StockQuantity, &p.State, &p.Featured, pq.Array(&p.Images), &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Product{}, apperr.Newf(apperr.KindNotFound, "product %s not found", id)
	}
	if err != nil {
		return domain.Product{}, fmt.Errorf("failed to query product: %w", err)
	}

	variants, err := r.variants(ctx, p.ID)
	if err != nil {
		return domain.Product{}, err
	}
	p.Variants = variants
	return p, nil
}

func (r *ProductRepo) variants(ctx context.Context, productID uuid.UUID) ([]domain.Variant, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, label, sku, additional_price, stock_quantity, state
		FROM product_variants
		WHERE product_id = $1
		ORDER BY label
	`, productID)
	if err != nil {
		return nil, fmt.Errorf("failed to query variants: %w", err)
	}
	defer rows.Close()

	var variants []domain.Variant
	for rows.Next() {
		var v domain.Variant
		if err := rows.Scan(&v.ID, &v.Label, &v.SKU, &v.AdditionalPrice, &v.StockQuantity, &v.State); err != nil {
			return nil, fmt.Errorf("failed to scan variant: %w", err)
		}
		variants = append(variants, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return variants, nil
}

func (r *ProductRepo) List(ctx context.Context, filter domain.ListFilter) ([]domain.Product, int, error) {
	where := []string{"state = 'active'"}
	args := []any{}

	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if filter.Search != "" {
		p := arg("%" + strings.ToLower(filter.Search) + "%")
		where = append(where, fmt.Sprintf("(lower(name) LIKE %s OR lower(description) LIKE %s OR lower(brand) LIKE %s)", p, p, p))
	}
	if filter.Category != "" {
		where = append(where, "category = "+arg(filter.Category))
	}
	if filter.MinPrice != nil {
		where = append(where, "price >= "+arg(*filter.MinPrice))
	}
	if filter.MaxPrice != nil {
		where = append(where, "price <= "+arg(*filter.MaxPrice))
	}
	if filter.Featured != nil {
		where = append(where, "featured = "+arg(*filter.Featured))
	}

	whereClause := "WHERE " + strings.Join(where, " AND ")

	var total int
	if err := r.db.QueryRowContext(ctx, "SELECT count(*) FROM products "+whereClause, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count products: %w", err)
	}

	column, ok := sortColumns[filter.Sort]
	if !ok {
		column = sortColumns[domain.SortByName]
	}
	direction := "ASC"
	if filter.Desc {
		direction = "DESC"
	}

	limit := arg(filter.PageSize)
	offset := arg((filter.Page - 1) * filter.PageSize)

	query := fmt.Sprintf(`
		SELECT id, name, description, brand, category, sku, price, stock_quantity, state, featured, image_urls, created_at, updated_at
		FROM products
		%s
		ORDER BY %s %s
		LIMIT %s OFFSET %s
	`, whereClause, column, direction, limit, offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query products: %w", err)
	}
	defer rows.Close()

	var products []domain.Product
	for rows.Next() {
		var p domain.Product
		if err := rows.Scan(&p.ID, &p.Name, &p.Description, &p.Brand, &p.Category, &p.SKU, &p.Price, &p.StockQuantity, &p.State, &p.Featured, pq.Array(&p.Images), &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, 0, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("row iteration error: %w", err)
	}

	for i := range products {
		variants, err := r.variants(ctx, products[i].ID)
		if err != nil {
			return nil, 0, err
		}
		products[i].Variants = variants
	}

	return products, total, nil
}
