package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/vladislavdragonenkov/storefront/internal/domain"
)

type customerRepository struct {
	q querier
}

const customerColumns = `id, name, email, tax_id, phone, password_hash, created_at, updated_at`

func (r *customerRepository) Create(ctx context.Context, customer domain.Customer) error {
	_, err := r.q.ExecContext(ctx, `
		INSERT INTO customers (id, name, email, tax_id, phone, password_hash, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
	`,
		customer.ID, customer.Name, customer.Email, customer.TaxID,
		customer.Phone, customer.PasswordHash, customer.CreatedAt, customer.UpdatedAt,
	)
	if err != nil {
		return mapCustomerConstraint(err, "insert customer")
	}
	return nil
}

func (r *customerRepository) Get(ctx context.Context, id string) (domain.Customer, error) {
	return r.getBy(ctx, "id", id)
}

func (r *customerRepository) GetByEmail(ctx context.Context, email string) (domain.Customer, error) {
	return r.getBy(ctx, "email", email)
}

func (r *customerRepository) getBy(ctx context.Context, column, value string) (domain.Customer, error) {
	var customer domain.Customer
	err := r.q.QueryRowContext(ctx,
		`SELECT `+customerColumns+` FROM customers WHERE `+column+` = $1`, value,
	).Scan(
		&customer.ID, &customer.Name, &customer.Email, &customer.TaxID,
		&customer.Phone, &customer.PasswordHash, &customer.CreatedAt, &customer.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Customer{}, domain.ErrCustomerNotFound
		}
		return domain.Customer{}, fmt.Errorf("select customer by %s: %w", column, err)
	}
	return customer, nil
}

func (r *customerRepository) List(ctx context.Context) ([]domain.Customer, error) {
	rows, err := r.q.QueryContext(ctx, `SELECT `+customerColumns+` FROM customers ORDER BY name ASC`)
	if err != nil {
		return nil, fmt.Errorf("list customers: %w", err)
	}
	defer rows.Close()

	result := make([]domain.Customer, 0)
	for rows.Next() {
		var customer domain.Customer
		if err := rows.Scan(
			&customer.ID, &customer.Name, &customer.Email, &customer.TaxID,
			&customer.Phone, &customer.PasswordHash, &customer.CreatedAt, &customer.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan customer row: %w", err)
		}
		result = append(result, customer)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate customer rows: %w", err)
	}
	return result, nil
}

func (r *customerRepository) Update(ctx context.Context, customer domain.Customer) error {
	res, err := r.q.ExecContext(ctx, `
		UPDATE customers
		SET name = $2, email = $3, tax_id = $4, phone = $5, password_hash = $6, updated_at = $7
		WHERE id = $1
	`,
		customer.ID, customer.Name, customer.Email, customer.TaxID,
		customer.Phone, customer.PasswordHash, customer.UpdatedAt,
	)
	if err != nil {
		return mapCustomerConstraint(err, "update customer")
	}
	return requireAffected(res, domain.ErrCustomerNotFound)
}

func (r *customerRepository) Delete(ctx context.Context, id string) error {
	res, err := r.q.ExecContext(ctx, `DELETE FROM customers WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete customer: %w", err)
	}
	return requireAffected(res, domain.ErrCustomerNotFound)
}

func mapCustomerConstraint(err error, op string) error {
	if constraint, ok := uniqueConstraint(err); ok {
		switch constraint {
		case "customers_email_key":
			return domain.ErrEmailTaken
		case "customers_tax_id_key":
			return domain.ErrTaxIDTaken
		}
	}
	return fmt.Errorf("%s: %w", op, err)
}

var _ domain.CustomerRepository = (*customerRepository)(nil)
