package order

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/storefront/internal/domain"
	"github.com/vladislavdragonenkov/storefront/internal/messaging/kafka"
	"github.com/vladislavdragonenkov/storefront/internal/metrics"
)

// LineInput описывает позицию заказа во входном контракте.
// Пустой ID означает новую позицию; непустой ссылается на существующую.
type LineInput struct {
	ID        string
	ProductID string
	Qty       int32
}

// CreateOrderInput — входной контракт создания заказа.
type CreateOrderInput struct {
	CustomerID string
	OrderDate  time.Time
	Lines      []LineInput
}

// UpdateOrderInput — входной контракт обновления заказа. Nil-поле означает
// «не трогать»: nil Lines сохраняет позиции как есть, nil Status — статус.
type UpdateOrderInput struct {
	Status *domain.OrderStatus
	Lines  *[]LineInput
}

// Engine реализует workflow заказов: создание, обновление и удаление
// выполняются атомарно вместе с движением остатков и пересчётом суммы.
type Engine struct {
	store   domain.Store
	stock   *stockAdjuster
	logger  *log.Entry
	metrics *metrics.OrderMetrics
}

// NewEngine создаёт рабочий экземпляр workflow заказов.
func NewEngine(store domain.Store, logger *log.Entry) *Engine {
	if logger == nil {
		logger = log.New().WithField("component", "order-engine")
	}
	m := metrics.NewOrderMetrics()
	return &Engine{
		store:   store,
		stock:   newStockAdjuster(logger, m),
		logger:  logger,
		metrics: m,
	}
}

// NewEngineWithoutMetrics создаёт workflow без метрик (для тестов).
func NewEngineWithoutMetrics(store domain.Store, logger *log.Entry) *Engine {
	if logger == nil {
		logger = log.New().WithField("component", "order-engine")
	}
	return &Engine{
		store:  store,
		stock:  newStockAdjuster(logger, nil),
		logger: logger,
	}
}

// Create размещает заказ: проверяет покупателя, списывает остатки по каждой
// позиции и фиксирует сумму по текущим ценам. Любая нехватка остатка
// откатывает транзакцию целиком, частичных списаний не бывает.
func (e *Engine) Create(ctx context.Context, input CreateOrderInput) (domain.Order, error) {
	start := time.Now()
	defer e.observeDuration("create", start)

	if err := validateCreate(input); err != nil {
		return domain.Order{}, err
	}

	var created domain.Order
	err := e.store.RunAtomic(ctx, func(tx domain.Store) error {
		if _, err := tx.Customers().Get(ctx, input.CustomerID); err != nil {
			return err
		}

		now := time.Now().UTC()
		orderDate := input.OrderDate
		if orderDate.IsZero() {
			orderDate = now
		}

		order := domain.Order{
			ID:         uuid.NewString(),
			CustomerID: input.CustomerID,
			Status:     domain.OrderStatusPending,
			OrderDate:  orderDate,
			CreatedAt:  now,
			UpdatedAt:  now,
		}

		var total int64
		for i, line := range input.Lines {
			product, err := e.stock.apply(ctx, tx, line.ProductID, -line.Qty)
			if err != nil {
				return err
			}
			total += int64(line.Qty) * product.PriceMinor
			order.Lines = append(order.Lines, domain.OrderLine{
				ID:        uuid.NewString(),
				OrderID:   order.ID,
				ProductID: line.ProductID,
				Qty:       line.Qty,
				// Смещение сохраняет порядок позиций при одинаковом created_at.
				CreatedAt: now.Add(time.Duration(i) * time.Microsecond),
			})
		}
		order.TotalMinor = total

		if err := tx.Orders().Create(ctx, order); err != nil {
			return err
		}
		if err := e.emitEvent(ctx, tx, &order, kafka.EventTypeOrderCreated); err != nil {
			return err
		}

		hydrated, err := tx.Orders().Get(ctx, order.ID)
		if err != nil {
			return err
		}
		created = hydrated
		return nil
	})
	if err != nil {
		e.recordFailure(err)
		return domain.Order{}, err
	}

	if e.metrics != nil {
		e.metrics.RecordOrderCreated()
	}
	e.logger.WithFields(log.Fields{
		"order_id":    created.ID,
		"customer_id": created.CustomerID,
		"total_minor": created.TotalMinor,
		"lines":       len(created.Lines),
	}).Info("order created")
	return created, nil
}

// Get возвращает полностью гидрированный заказ.
func (e *Engine) Get(ctx context.Context, id string) (domain.Order, error) {
	return e.store.Orders().Get(ctx, id)
}

// List возвращает заказы по фильтру, свежие первыми.
func (e *Engine) List(ctx context.Context, filter domain.OrderFilter) ([]domain.Order, error) {
	return e.store.Orders().List(ctx, filter)
}

// Update применяет смену статуса и/или новый набор позиций. Набор позиций
// согласуется трёхсторонне: позиции без ID добавляются, позиции с известным
// ID получают дельту количества, отсутствующие в наборе удаляются с
// возвратом остатка. Сумма всегда пересчитывается по текущим ценам.
func (e *Engine) Update(ctx context.Context, id string, input UpdateOrderInput) (domain.Order, error) {
	start := time.Now()
	defer e.observeDuration("update", start)

	if err := validateUpdate(input); err != nil {
		return domain.Order{}, err
	}

	var updated domain.Order
	err := e.store.RunAtomic(ctx, func(tx domain.Store) error {
		order, err := tx.Orders().Get(ctx, id)
		if err != nil {
			return err
		}

		if input.Status != nil {
			order.Status = *input.Status
		}
		if input.Lines != nil {
			if err := e.reconcileLines(ctx, tx, &order, *input.Lines); err != nil {
				return err
			}
		}

		// Перечитываем позиции после согласования: сумма считается по
		// актуальным ценам товаров, а не по ценам на момент создания.
		fresh, err := tx.Orders().Get(ctx, id)
		if err != nil {
			return err
		}
		var total int64
		for _, line := range fresh.Lines {
			total += int64(line.Qty) * line.Product.PriceMinor
		}

		order.TotalMinor = total
		order.UpdatedAt = time.Now().UTC()
		if err := tx.Orders().Save(ctx, order); err != nil {
			return err
		}
		if err := e.emitEvent(ctx, tx, &order, kafka.EventTypeOrderUpdated); err != nil {
			return err
		}

		fresh.Status = order.Status
		fresh.TotalMinor = total
		fresh.UpdatedAt = order.UpdatedAt
		updated = fresh
		return nil
	})
	if err != nil {
		e.recordFailure(err)
		return domain.Order{}, err
	}

	if e.metrics != nil {
		e.metrics.RecordOrderUpdated()
	}
	e.logger.WithFields(log.Fields{
		"order_id":    updated.ID,
		"status":      updated.Status,
		"total_minor": updated.TotalMinor,
	}).Info("order updated")
	return updated, nil
}

// Delete удаляет pending-заказ и возвращает списанные остатки на склад.
// Заказ в любом другом статусе удалить нельзя.
func (e *Engine) Delete(ctx context.Context, id string) error {
	start := time.Now()
	defer e.observeDuration("delete", start)

	err := e.store.RunAtomic(ctx, func(tx domain.Store) error {
		order, err := tx.Orders().Get(ctx, id)
		if err != nil {
			return err
		}
		if order.Status != domain.OrderStatusPending {
			return domain.ErrOrderNotPending
		}

		for _, line := range order.Lines {
			if _, err := e.stock.apply(ctx, tx, line.ProductID, line.Qty); err != nil {
				return err
			}
		}

		if err := tx.Orders().DeleteLines(ctx, order.ID); err != nil {
			return err
		}
		if err := tx.Orders().Delete(ctx, order.ID); err != nil {
			return err
		}
		return e.emitEvent(ctx, tx, &order, kafka.EventTypeOrderCanceled)
	})
	if err != nil {
		e.recordFailure(err)
		return err
	}

	if e.metrics != nil {
		e.metrics.RecordOrderCanceled()
	}
	e.logger.WithField("order_id", id).Info("order deleted, stock restored")
	return nil
}

// reconcileLines приводит позиции заказа к желаемому набору, двигая остатки
// ровно на разницу. Неизвестный ID позиции — ошибка всей операции.
func (e *Engine) reconcileLines(ctx context.Context, tx domain.Store, order *domain.Order, desired []LineInput) error {
	current := make(map[string]domain.OrderLine, len(order.Lines))
	for _, line := range order.Lines {
		current[line.ID] = line
	}

	now := time.Now().UTC()
	seen := make(map[string]struct{}, len(desired))
	for i, want := range desired {
		if want.ID == "" {
			if _, err := e.stock.apply(ctx, tx, want.ProductID, -want.Qty); err != nil {
				return err
			}
			line := domain.OrderLine{
				ID:        uuid.NewString(),
				OrderID:   order.ID,
				ProductID: want.ProductID,
				Qty:       want.Qty,
				CreatedAt: now.Add(time.Duration(i) * time.Microsecond),
			}
			if err := tx.Orders().InsertLine(ctx, line); err != nil {
				return err
			}
			continue
		}

		have, ok := current[want.ID]
		if !ok {
			return fmt.Errorf("reconcile line %s: %w", want.ID, domain.ErrOrderLineNotFound)
		}
		seen[want.ID] = struct{}{}

		if want.ProductID != "" && want.ProductID != have.ProductID {
			return domain.NewValidationError(domain.FieldViolation{
				Field:   fmt.Sprintf("lines[%d].product_id", i),
				Message: "product of an existing line cannot be changed",
			})
		}

		diff := want.Qty - have.Qty
		if diff == 0 {
			continue
		}
		if _, err := e.stock.apply(ctx, tx, have.ProductID, -diff); err != nil {
			return err
		}
		if err := tx.Orders().UpdateLineQty(ctx, have.ID, want.Qty); err != nil {
			return err
		}
	}

	for _, line := range order.Lines {
		if _, ok := seen[line.ID]; ok {
			continue
		}
		if _, err := e.stock.apply(ctx, tx, line.ProductID, line.Qty); err != nil {
			return err
		}
		if err := tx.Orders().DeleteLine(ctx, line.ID); err != nil {
			return err
		}
	}
	return nil
}

// emitEvent кладёт событие заказа в outbox в рамках той же транзакции.
// Любая ошибка здесь откатывает транзакцию: изменение без события не фиксируется.
func (e *Engine) emitEvent(ctx context.Context, tx domain.Store, order *domain.Order, eventType kafka.EventType) error {
	event := kafka.NewOrderEvent(eventType, order.ID, order.CustomerID, string(order.Status), map[string]interface{}{
		"total_minor": order.TotalMinor,
	})
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal %s event: %w", eventType, err)
	}

	msg := domain.OutboxMessage{
		AggregateType: "order",
		AggregateID:   order.ID,
		EventType:     string(eventType),
		Payload:       payload,
	}
	if _, err := tx.Outbox().Enqueue(ctx, msg); err != nil {
		return fmt.Errorf("enqueue %s event: %w", eventType, err)
	}
	if e.metrics != nil {
		e.metrics.RecordOutboxEvent()
	}
	return nil
}

func (e *Engine) observeDuration(operation string, start time.Time) {
	if e.metrics != nil {
		e.metrics.RecordWorkflowDuration(operation, time.Since(start))
	}
}

func (e *Engine) recordFailure(err error) {
	if e.metrics == nil {
		return
	}
	e.metrics.RecordWorkflowFailed()
	if domain.KindOf(err) == domain.KindInsufficientStock {
		e.metrics.RecordInsufficientStock()
	}
}

func validateCreate(input CreateOrderInput) error {
	var violations []domain.FieldViolation
	if input.CustomerID == "" {
		violations = append(violations, domain.FieldViolation{
			Field:   "customer_id",
			Message: domain.ErrCustomerRequired.Error(),
		})
	}
	violations = append(violations, validateLines(input.Lines)...)
	if len(violations) > 0 {
		return domain.NewValidationError(violations...)
	}
	return nil
}

func validateUpdate(input UpdateOrderInput) error {
	var violations []domain.FieldViolation
	if input.Status != nil && !domain.KnownOrderStatus(*input.Status) {
		violations = append(violations, domain.FieldViolation{
			Field:   "status",
			Message: domain.ErrUnknownStatus.Error(),
		})
	}
	if input.Lines != nil {
		violations = append(violations, validateLines(*input.Lines)...)
	}
	if len(violations) > 0 {
		return domain.NewValidationError(violations...)
	}
	return nil
}

func validateLines(lines []LineInput) []domain.FieldViolation {
	var violations []domain.FieldViolation
	if len(lines) == 0 {
		violations = append(violations, domain.FieldViolation{
			Field:   "lines",
			Message: domain.ErrLinesRequired.Error(),
		})
		return violations
	}
	// Повтор id позиции применил бы дельту остатка дважды.
	seen := make(map[string]struct{}, len(lines))
	for i, line := range lines {
		if line.ProductID == "" && line.ID == "" {
			violations = append(violations, domain.FieldViolation{
				Field:   fmt.Sprintf("lines[%d].product_id", i),
				Message: domain.ErrLineProductRequired.Error(),
			})
		}
		if line.Qty <= 0 {
			violations = append(violations, domain.FieldViolation{
				Field:   fmt.Sprintf("lines[%d].qty", i),
				Message: domain.ErrLineQtyInvalid.Error(),
			})
		}
		if line.ID != "" {
			if _, ok := seen[line.ID]; ok {
				violations = append(violations, domain.FieldViolation{
					Field:   fmt.Sprintf("lines[%d].id", i),
					Message: domain.ErrLineDuplicate.Error(),
				})
			}
			seen[line.ID] = struct{}{}
		}
	}
	return violations
}
