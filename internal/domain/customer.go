package domain

import "time"

// Customer представляет покупателя магазина.
type Customer struct {
	ID    string
	Name  string
	Email string
	// TaxID — налоговый идентификатор покупателя (например, CPF); уникален.
	TaxID string
	Phone string
	// PasswordHash хранит bcrypt-дайджест учётных данных и никогда
	// не попадает во внешние ответы.
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// ValidateInvariants проверяет базовые инварианты покупателя.
func (c *Customer) ValidateInvariants() []error {
	var errs []error

	if c.Name == "" {
		errs = append(errs, ErrCustomerNameRequired)
	}
	if c.Email == "" {
		errs = append(errs, ErrEmailRequired)
	}
	if c.TaxID == "" {
		errs = append(errs, ErrTaxIDRequired)
	}

	return errs
}

// Sanitized возвращает копию покупателя без учётных данных.
func (c Customer) Sanitized() Customer {
	c.PasswordHash = ""
	return c
}
