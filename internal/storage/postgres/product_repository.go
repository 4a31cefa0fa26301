package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/vladislavdragonenkov/storefront/internal/domain"
)

type productRepository struct {
	q querier
}

const productColumns = `
	p.id, p.name, p.description, p.price_minor, p.stock, p.category_id,
	p.created_at, p.updated_at,
	c.id, c.name, c.description, c.created_at, c.updated_at
`

const productFrom = `
	FROM products p
	LEFT JOIN categories c ON c.id = p.category_id
`

func (r *productRepository) Create(ctx context.Context, product domain.Product) error {
	_, err := r.q.ExecContext(ctx, `
		INSERT INTO products (id, name, description, price_minor, stock, category_id, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
	`,
		product.ID, product.Name, product.Description, product.PriceMinor,
		product.Stock, product.CategoryID, product.CreatedAt, product.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

func (r *productRepository) Get(ctx context.Context, id string) (domain.Product, error) {
	row := r.q.QueryRowContext(ctx, `SELECT `+productColumns+productFrom+` WHERE p.id = $1`, id)
	product, err := scanProduct(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Product{}, domain.ErrProductNotFound
		}
		return domain.Product{}, fmt.Errorf("select product: %w", err)
	}
	return product, nil
}

func (r *productRepository) List(ctx context.Context, filter domain.ProductFilter) ([]domain.Product, error) {
	query := `SELECT ` + productColumns + productFrom
	var args []any
	if filter.CategoryID != nil {
		query += ` WHERE p.category_id = $1`
		args = append(args, *filter.CategoryID)
	}
	query += ` ORDER BY p.name ASC`

	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	result := make([]domain.Product, 0)
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product row: %w", err)
		}
		result = append(result, product)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate product rows: %w", err)
	}
	return result, nil
}

func (r *productRepository) Update(ctx context.Context, product domain.Product) error {
	res, err := r.q.ExecContext(ctx, `
		UPDATE products
		SET name = $2, description = $3, price_minor = $4, stock = $5,
		    category_id = $6, updated_at = $7
		WHERE id = $1
	`,
		product.ID, product.Name, product.Description, product.PriceMinor,
		product.Stock, product.CategoryID, product.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update product: %w", err)
	}
	return requireAffected(res, domain.ErrProductNotFound)
}

func (r *productRepository) Delete(ctx context.Context, id string) error {
	res, err := r.q.ExecContext(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	return requireAffected(res, domain.ErrProductNotFound)
}

// AdjustStock применяет дельту одним условным UPDATE: проверка остатка и
// запись выполняются атомарно, поэтому параллельные заказы не теряют
// обновления и остаток не уходит ниже нуля.
func (r *productRepository) AdjustStock(ctx context.Context, id string, delta int32) (domain.Product, error) {
	res, err := r.q.ExecContext(ctx, `
		UPDATE products
		SET stock = stock + $2, updated_at = NOW()
		WHERE id = $1 AND stock + $2 >= 0
	`, id, delta)
	if err != nil {
		return domain.Product{}, fmt.Errorf("adjust stock: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return domain.Product{}, fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		// Либо товара нет, либо остатка не хватает: различаем по чтению.
		var (
			name  string
			stock int32
		)
		err := r.q.QueryRowContext(ctx, `SELECT name, stock FROM products WHERE id = $1`, id).
			Scan(&name, &stock)
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Product{}, domain.ErrProductNotFound
		}
		if err != nil {
			return domain.Product{}, fmt.Errorf("read stock after failed adjust: %w", err)
		}
		return domain.Product{}, &domain.InsufficientStockError{
			ProductID:   id,
			ProductName: name,
			Available:   stock,
			Requested:   -delta,
		}
	}

	return r.Get(ctx, id)
}

func (r *productRepository) CountByCategory(ctx context.Context, categoryID string) (int, error) {
	var count int
	if err := r.q.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM products WHERE category_id = $1
	`, categoryID).Scan(&count); err != nil {
		return 0, fmt.Errorf("count products by category: %w", err)
	}
	return count, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProduct(row rowScanner) (domain.Product, error) {
	var (
		product    domain.Product
		categoryID sql.NullString

		catID, catName, catDescription sql.NullString
		catCreatedAt, catUpdatedAt     sql.NullTime
	)
	if err := row.Scan(
		&product.ID, &product.Name, &product.Description, &product.PriceMinor,
		&product.Stock, &categoryID, &product.CreatedAt, &product.UpdatedAt,
		&catID, &catName, &catDescription, &catCreatedAt, &catUpdatedAt,
	); err != nil {
		return domain.Product{}, err
	}
	if categoryID.Valid {
		id := categoryID.String
		product.CategoryID = &id
	}
	if catID.Valid {
		product.Category = &domain.Category{
			ID:          catID.String,
			Name:        catName.String,
			Description: catDescription.String,
			CreatedAt:   catCreatedAt.Time,
			UpdatedAt:   catUpdatedAt.Time,
		}
	}
	return product, nil
}

var _ domain.ProductRepository = (*productRepository)(nil)
