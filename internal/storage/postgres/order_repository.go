package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/vladislavdragonenkov/storefront/internal/domain"
)

type orderRepository struct {
	q querier
}

const orderColumns = `
	o.id, o.customer_id, o.status, o.order_date, o.total_minor, o.created_at, o.updated_at,
	cu.name, cu.email, cu.tax_id, cu.phone, cu.created_at, cu.updated_at
`

const orderFrom = `
	FROM orders o
	JOIN customers cu ON cu.id = o.customer_id
`

func (r *orderRepository) Create(ctx context.Context, order domain.Order) error {
	_, err := r.q.ExecContext(ctx, `
		INSERT INTO orders (id, customer_id, status, order_date, total_minor, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
	`,
		order.ID, order.CustomerID, string(order.Status), order.OrderDate,
		order.TotalMinor, order.CreatedAt, order.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert order: %w", err)
	}

	for _, line := range order.Lines {
		line.OrderID = order.ID
		if err := r.InsertLine(ctx, line); err != nil {
			return err
		}
	}
	return nil
}

func (r *orderRepository) Get(ctx context.Context, id string) (domain.Order, error) {
	row := r.q.QueryRowContext(ctx, `SELECT `+orderColumns+orderFrom+` WHERE o.id = $1`, id)
	order, err := scanOrder(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Order{}, domain.ErrOrderNotFound
		}
		return domain.Order{}, fmt.Errorf("select order: %w", err)
	}

	lines, err := r.loadLines(ctx, order.ID)
	if err != nil {
		return domain.Order{}, err
	}
	order.Lines = lines
	return order, nil
}

func (r *orderRepository) List(ctx context.Context, filter domain.OrderFilter) ([]domain.Order, error) {
	query := `SELECT ` + orderColumns + orderFrom
	var (
		args  []any
		where string
	)
	if filter.CustomerID != nil {
		args = append(args, *filter.CustomerID)
		where = fmt.Sprintf(" WHERE o.customer_id = $%d", len(args))
	}
	if filter.Status != nil {
		args = append(args, string(*filter.Status))
		if where == "" {
			where = fmt.Sprintf(" WHERE o.status = $%d", len(args))
		} else {
			where += fmt.Sprintf(" AND o.status = $%d", len(args))
		}
	}
	query += where + ` ORDER BY o.order_date DESC, o.id DESC`

	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()

	orders := make([]domain.Order, 0)
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("scan order row: %w", err)
		}
		orders = append(orders, order)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate order rows: %w", err)
	}

	for i := range orders {
		lines, err := r.loadLines(ctx, orders[i].ID)
		if err != nil {
			return nil, err
		}
		orders[i].Lines = lines
	}
	return orders, nil
}

func (r *orderRepository) Save(ctx context.Context, order domain.Order) error {
	res, err := r.q.ExecContext(ctx, `
		UPDATE orders
		SET status = $2, total_minor = $3, updated_at = $4
		WHERE id = $1
	`, order.ID, string(order.Status), order.TotalMinor, order.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update order: %w", err)
	}
	return requireAffected(res, domain.ErrOrderNotFound)
}

func (r *orderRepository) InsertLine(ctx context.Context, line domain.OrderLine) error {
	_, err := r.q.ExecContext(ctx, `
		INSERT INTO order_lines (id, order_id, product_id, qty, created_at)
		VALUES ($1,$2,$3,$4,$5)
	`, line.ID, line.OrderID, line.ProductID, line.Qty, line.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert order line: %w", err)
	}
	return nil
}

func (r *orderRepository) UpdateLineQty(ctx context.Context, lineID string, qty int32) error {
	res, err := r.q.ExecContext(ctx, `
		UPDATE order_lines SET qty = $2 WHERE id = $1
	`, lineID, qty)
	if err != nil {
		return fmt.Errorf("update order line qty: %w", err)
	}
	return requireAffected(res, domain.ErrOrderLineNotFound)
}

func (r *orderRepository) DeleteLine(ctx context.Context, lineID string) error {
	res, err := r.q.ExecContext(ctx, `DELETE FROM order_lines WHERE id = $1`, lineID)
	if err != nil {
		return fmt.Errorf("delete order line: %w", err)
	}
	return requireAffected(res, domain.ErrOrderLineNotFound)
}

func (r *orderRepository) DeleteLines(ctx context.Context, orderID string) error {
	if _, err := r.q.ExecContext(ctx, `DELETE FROM order_lines WHERE order_id = $1`, orderID); err != nil {
		return fmt.Errorf("delete order lines: %w", err)
	}
	return nil
}

func (r *orderRepository) Delete(ctx context.Context, id string) error {
	res, err := r.q.ExecContext(ctx, `DELETE FROM orders WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete order: %w", err)
	}
	return requireAffected(res, domain.ErrOrderNotFound)
}

func (r *orderRepository) CountByCustomer(ctx context.Context, customerID string) (int, error) {
	var count int
	if err := r.q.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM orders WHERE customer_id = $1
	`, customerID).Scan(&count); err != nil {
		return 0, fmt.Errorf("count orders by customer: %w", err)
	}
	return count, nil
}

func (r *orderRepository) CountLinesByProduct(ctx context.Context, productID string) (int, error) {
	var count int
	if err := r.q.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM order_lines WHERE product_id = $1
	`, productID).Scan(&count); err != nil {
		return 0, fmt.Errorf("count order lines by product: %w", err)
	}
	return count, nil
}

// loadLines возвращает позиции заказа с гидрированными товарами и категориями.
func (r *orderRepository) loadLines(ctx context.Context, orderID string) ([]domain.OrderLine, error) {
	rows, err := r.q.QueryContext(ctx, `
		SELECT
			l.id, l.order_id, l.product_id, l.qty, l.created_at,
			`+productColumns+`
		FROM order_lines l
		JOIN products p ON p.id = l.product_id
		LEFT JOIN categories c ON c.id = p.category_id
		WHERE l.order_id = $1
		ORDER BY l.created_at ASC, l.id ASC
	`, orderID)
	if err != nil {
		return nil, fmt.Errorf("load order lines: %w", err)
	}
	defer rows.Close()

	lines := make([]domain.OrderLine, 0)
	for rows.Next() {
		var (
			line domain.OrderLine

			product    domain.Product
			categoryID sql.NullString

			catID, catName, catDescription sql.NullString
			catCreatedAt, catUpdatedAt     sql.NullTime
		)
		if err := rows.Scan(
			&line.ID, &line.OrderID, &line.ProductID, &line.Qty, &line.CreatedAt,
			&product.ID, &product.Name, &product.Description, &product.PriceMinor,
			&product.Stock, &categoryID, &product.CreatedAt, &product.UpdatedAt,
			&catID, &catName, &catDescription, &catCreatedAt, &catUpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan order line: %w", err)
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
		line.Product = &product
		lines = append(lines, line)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate order lines: %w", err)
	}
	return lines, nil
}

func scanOrder(row rowScanner) (domain.Order, error) {
	var (
		order    domain.Order
		status   string
		customer domain.Customer
	)
	if err := row.Scan(
		&order.ID, &order.CustomerID, &status, &order.OrderDate,
		&order.TotalMinor, &order.CreatedAt, &order.UpdatedAt,
		&customer.Name, &customer.Email, &customer.TaxID, &customer.Phone,
		&customer.CreatedAt, &customer.UpdatedAt,
	); err != nil {
		return domain.Order{}, err
	}
	order.Status = domain.OrderStatus(status)
	customer.ID = order.CustomerID
	order.Customer = &customer
	return order, nil
}

var _ domain.OrderRepository = (*orderRepository)(nil)
