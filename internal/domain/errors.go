package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrCategoryNotFound возвращается, если категория не найдена в хранилище.
	ErrCategoryNotFound = errors.New("category not found")
	// ErrProductNotFound возвращается, если товар не найден в хранилище.
	ErrProductNotFound = errors.New("product not found")
	// ErrCustomerNotFound возвращается, если покупатель не найден в хранилище.
	ErrCustomerNotFound = errors.New("customer not found")
	// ErrOrderNotFound возвращается, если заказ не найден в хранилище.
	ErrOrderNotFound = errors.New("order not found")
	// ErrOrderLineNotFound возвращается, если позиция заказа не найдена
	// (в том числе когда при обновлении передан чужой id позиции).
	ErrOrderLineNotFound = errors.New("order line not found")

	// ErrCategoryNameTaken — нарушение уникальности имени категории.
	ErrCategoryNameTaken = errors.New("category name already in use")
	// ErrEmailTaken — нарушение уникальности email покупателя.
	ErrEmailTaken = errors.New("email already in use")
	// ErrTaxIDTaken — нарушение уникальности налогового идентификатора.
	ErrTaxIDTaken = errors.New("tax id already in use")

	// ErrCategoryHasProducts — удаление категории заблокировано ссылками товаров.
	ErrCategoryHasProducts = errors.New("category still has products")
	// ErrProductReferenced — удаление товара заблокировано позициями заказов.
	ErrProductReferenced = errors.New("product is referenced by order lines")
	// ErrCustomerHasOrders — удаление покупателя заблокировано его заказами.
	ErrCustomerHasOrders = errors.New("customer still has orders")
	// ErrOrderNotPending — операция допустима только для pending-заказа.
	ErrOrderNotPending = errors.New("only pending orders can be deleted")

	// ErrInsufficientStock — запрошенное количество превышает остаток.
	// Конкретные случаи несут имя товара и количества, см. InsufficientStockError.
	ErrInsufficientStock = errors.New("insufficient stock")

	// ErrInvalidCredentials — логин/пароль не подошли.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrInvalidInput — нарушение входного контракта; детали в ValidationError.
	ErrInvalidInput = errors.New("invalid input")

	// Ошибки отдельных полей входного контракта.
	ErrCategoryNameRequired = errors.New("category name is required")
	ErrProductNameRequired  = errors.New("product name is required")
	ErrCustomerNameRequired = errors.New("customer name is required")
	ErrEmailRequired        = errors.New("email is required")
	ErrTaxIDRequired        = errors.New("tax id is required")
	ErrPasswordRequired     = errors.New("password is required")
	ErrCustomerRequired     = errors.New("customer_id is required")
	ErrLinesRequired        = errors.New("order must contain at least one line")
	ErrLineQtyInvalid       = errors.New("line qty must be greater than zero")
	ErrLineProductRequired  = errors.New("line product_id is required")
	ErrLineDuplicate        = errors.New("duplicate order line id")
	ErrPriceNegative        = errors.New("price must be non-negative")
	ErrStockNegative        = errors.New("stock must be non-negative")
	ErrTotalNegative        = errors.New("order total must be non-negative")
	ErrUnknownStatus        = errors.New("unknown order status")
)

// InsufficientStockError уточняет ErrInsufficientStock: какой товар,
// сколько доступно и сколько запрошено. Текст ошибки — наблюдаемый
// контракт, а не просто строка для логов.
type InsufficientStockError struct {
	ProductID   string
	ProductName string
	Available   int32
	Requested   int32
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for product %q: available %d, requested %d",
		e.ProductName, e.Available, e.Requested)
}

// Is позволяет сопоставлять типизированную ошибку с ErrInsufficientStock.
func (e *InsufficientStockError) Is(target error) bool {
	return target == ErrInsufficientStock
}

// FieldViolation описывает нарушение контракта для конкретного поля.
type FieldViolation struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError агрегирует разбивку нарушений входного контракта по полям.
type ValidationError struct {
	Violations []FieldViolation
}

func (e *ValidationError) Error() string {
	if len(e.Violations) == 0 {
		return ErrInvalidInput.Error()
	}
	parts := make([]string, 0, len(e.Violations))
	for _, v := range e.Violations {
		parts = append(parts, fmt.Sprintf("%s: %s", v.Field, v.Message))
	}
	return "invalid input: " + strings.Join(parts, "; ")
}

// Is позволяет сопоставлять ValidationError с ErrInvalidInput.
func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

// NewValidationError собирает ValidationError из пар поле/ошибка.
func NewValidationError(violations ...FieldViolation) *ValidationError {
	return &ValidationError{Violations: violations}
}

// ErrorKind классифицирует ошибку для транспортного слоя.
type ErrorKind string

const (
	KindNotFound          ErrorKind = "not_found"
	KindInvalidInput      ErrorKind = "invalid_input"
	KindConflict          ErrorKind = "conflict"
	KindInsufficientStock ErrorKind = "insufficient_stock"
	KindInvalidState      ErrorKind = "invalid_state"
	KindUnauthenticated   ErrorKind = "unauthenticated"
	KindInternal          ErrorKind = "internal"
)

// KindOf сопоставляет ошибке её вид; транспорт отображает вид в код ответа.
func KindOf(err error) ErrorKind {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrCategoryNotFound),
		errors.Is(err, ErrProductNotFound),
		errors.Is(err, ErrCustomerNotFound),
		errors.Is(err, ErrOrderNotFound),
		errors.Is(err, ErrOrderLineNotFound):
		return KindNotFound
	case errors.Is(err, ErrCategoryNameTaken),
		errors.Is(err, ErrEmailTaken),
		errors.Is(err, ErrTaxIDTaken):
		return KindConflict
	case errors.Is(err, ErrInsufficientStock):
		return KindInsufficientStock
	case errors.Is(err, ErrCategoryHasProducts),
		errors.Is(err, ErrProductReferenced),
		errors.Is(err, ErrCustomerHasOrders),
		errors.Is(err, ErrOrderNotPending):
		return KindInvalidState
	case errors.Is(err, ErrInvalidCredentials):
		return KindUnauthenticated
	case errors.Is(err, ErrInvalidInput):
		return KindInvalidInput
	default:
		return KindInternal
	}
}
