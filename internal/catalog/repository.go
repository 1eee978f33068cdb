package catalog

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"storefront-be/internal/logger"

	"go.uber.org/zap"
)

type Repository interface {
	GetByCategory(ctx context.Context, category string, limit int) ([]Product, error)
	GetByID(ctx context.Context, productID string) (*Product, error)
	GetRelated(ctx context.Context, category, excludeID string, limit int) ([]Product, error)
	SearchByName(ctx context.Context, q string) ([]Product, error)
	GetList(ctx context.Context, opts ListOptions) ([]Product, error)
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

// productSelect aggregates the size rows into a JSON array so every read
// returns complete products in a single query.
const productSelect = `
	SELECT
		p.id, p.category, p.name, p.price, p.image_url, p.description, p.created_at,
		COALESCE(
			json_agg(json_build_object('size', s.size, 'stock', s.stock) ORDER BY s.size)
				FILTER (WHERE s.size IS NOT NULL),
			'[]'
		) AS sizes
	FROM products p
	LEFT JOIN product_sizes s ON s.product_id = p.id
`

func (r *repository) GetByCategory(ctx context.Context, category string, limit int) ([]Product, error) {
	query := productSelect + `
		WHERE p.category = $1
		GROUP BY p.id
		ORDER BY p.created_at DESC
		LIMIT $2
	`
	rows, err := r.db.QueryContext(ctx, query, category, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanProducts(ctx, rows)
}

func (r *repository) GetByID(ctx context.Context, productID string) (*Product, error) {
	query := productSelect + `
		WHERE p.id = $1
		GROUP BY p.id
	`

	row := r.db.QueryRowContext(ctx, query, productID)
	p, err := scanProduct(ctx, row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (r *repository) GetRelated(ctx context.Context, category, excludeID string, limit int) ([]Product, error) {
	query := productSelect + `
		WHERE p.category = $1 AND p.id <> $2
		GROUP BY p.id
		ORDER BY p.created_at DESC
		LIMIT $3
	`
	rows, err := r.db.QueryContext(ctx, query, category, excludeID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanProducts(ctx, rows)
}

func (r *repository) SearchByName(ctx context.Context, q string) ([]Product, error) {
	query := productSelect + `
		WHERE p.name ILIKE $1
		GROUP BY p.id
		ORDER BY p.name
	`
	rows, err := r.db.QueryContext(ctx, query, "%"+q+"%")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanProducts(ctx, rows)
}

func (r *repository) GetList(ctx context.Context, opts ListOptions) ([]Product, error) {
	query := productSelect
	args := []any{}
	argIndex := 1

	if opts.Filter != "" {
		query += fmt.Sprintf(" WHERE p.category = $%d", argIndex)
		args = append(args, opts.Filter)
		argIndex++
	}

	offset := (opts.Page - 1) * opts.Limit
	query += fmt.Sprintf(`
		GROUP BY p.id
		ORDER BY p.created_at DESC
		LIMIT $%d OFFSET $%d
	`, argIndex, argIndex+1)
	args = append(args, opts.Limit, offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanProducts(ctx, rows)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProduct(ctx context.Context, row rowScanner) (*Product, error) {
	var p Product
	var sizesJSON []byte

	err := row.Scan(
		&p.ID, &p.Category, &p.Name, &p.Price,
		&p.ImageURL, &p.Description, &p.CreatedAt,
		&sizesJSON,
	)
	if err != nil {
		return nil, err
	}

	p.Sizes = []SizeStock{}
	if err := json.Unmarshal(sizesJSON, &p.Sizes); err != nil {
		logger.FromCtx(ctx).Warn("failed to decode sizes json",
			zap.String("product_id", p.ID),
			zap.Error(err),
		)
		p.Sizes = []SizeStock{}
	}

	return &p, nil
}

func scanProducts(ctx context.Context, rows *sql.Rows) ([]Product, error) {
	var products []Product
	for rows.Next() {
		p, err := scanProduct(ctx, rows)
		if err != nil {
			return nil, err
		}
		products = append(products, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return products, nil
}
