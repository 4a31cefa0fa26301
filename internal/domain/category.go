package domain

import "time"

// Category группирует товары каталога. Имя уникально в пределах магазина.
type Category struct {
	ID          string
	Name        string
	Description string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// ValidateInvariants проверяет базовые инварианты категории.
func (c *Category) ValidateInvariants() []error {
	var errs []error

	if c.Name == "" {
		errs = append(errs, ErrCategoryNameRequired)
	}

	return errs
}
