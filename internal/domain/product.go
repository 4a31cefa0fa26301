package domain

import "time"

// Product описывает товар каталога с ценой и складским остатком.
type Product struct {
	ID          string
	Name        string
	Description string
	// PriceMinor — цена за единицу в минимальных денежных единицах (например, центы).
	PriceMinor int64
	// Stock — доступный складской остаток; никогда не опускается ниже нуля.
	Stock int32
	// CategoryID опционален: товар может существовать без категории.
	CategoryID *string
	// Category заполняется при гидрации из хранилища.
	Category  *Category
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ValidateInvariants проверяет базовые инварианты товара.
func (p *Product) ValidateInvariants() []error {
	var errs []error

	if p.Name == "" {
		errs = append(errs, ErrProductNameRequired)
	}
	if p.PriceMinor < 0 {
		errs = append(errs, ErrPriceNegative)
	}
	if p.Stock < 0 {
		errs = append(errs, ErrStockNegative)
	}

	return errs
}
