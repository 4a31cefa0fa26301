package domain

import "time"

// OrderStatus описывает жизненный цикл заказа магазина.
type OrderStatus string

const (
	// OrderStatusPending — заказ создан и ещё не взят в обработку;
	// только в этом статусе заказ можно удалить.
	OrderStatusPending OrderStatus = "pending"
	// OrderStatusProcessing — заказ собирается на складе.
	OrderStatusProcessing OrderStatus = "processing"
	// OrderStatusShipped — заказ передан в доставку.
	OrderStatusShipped OrderStatus = "shipped"
	// OrderStatusDelivered — заказ получен покупателем.
	OrderStatusDelivered OrderStatus = "delivered"
	// OrderStatusCanceled — заказ отменён.
	OrderStatusCanceled OrderStatus = "canceled"
)

// KnownOrderStatus сообщает, входит ли статус в допустимое множество.
// Граф переходов намеренно не ограничивается: любой статус может
// смениться на любой другой.
func KnownOrderStatus(s OrderStatus) bool {
	switch s {
	case OrderStatusPending, OrderStatusProcessing, OrderStatusShipped,
		OrderStatusDelivered, OrderStatusCanceled:
		return true
	}
	return false
}

// OrderLine представляет одну позицию заказа: товар и количество.
// Позиции создаются и изменяются только через workflow заказов.
type OrderLine struct {
	ID        string
	OrderID   string
	ProductID string
	Qty       int32
	// Product заполняется при гидрации заказа из хранилища.
	Product   *Product
	CreatedAt time.Time
}

// Order агрегирует заказ покупателя и его позиции.
type Order struct {
	ID string
	// CustomerID обязателен и не меняется после создания заказа.
	CustomerID string
	// Customer заполняется при гидрации.
	Customer  *Customer
	Status    OrderStatus
	OrderDate time.Time
	// TotalMinor — производная сумма заказа: Σ qty * текущая цена товара.
	TotalMinor int64
	Lines      []OrderLine
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// ValidateInvariants проверяет базовые инварианты заказа.
func (o *Order) ValidateInvariants() []error {
	var errs []error

	if o.CustomerID == "" {
		errs = append(errs, ErrCustomerRequired)
	}
	if len(o.Lines) == 0 {
		errs = append(errs, ErrLinesRequired)
	}
	if o.TotalMinor < 0 {
		errs = append(errs, ErrTotalNegative)
	}
	if !KnownOrderStatus(o.Status) {
		errs = append(errs, ErrUnknownStatus)
	}
	for _, line := range o.Lines {
		if line.Qty <= 0 {
			errs = append(errs, ErrLineQtyInvalid)
		}
		if line.ProductID == "" {
			errs = append(errs, ErrLineProductRequired)
		}
	}

	return errs
}
