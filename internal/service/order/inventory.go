package order

import (
	"context"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/storefront/internal/domain"
	"github.com/vladislavdragonenkov/storefront/internal/metrics"
)

// stockAdjuster двигает остатки товаров внутри транзакции workflow
// и ведёт учёт движений. Сам по себе транзакций не открывает: работает
// с теми репозиториями, которые ему передали.
type stockAdjuster struct {
	logger  *log.Entry
	metrics *metrics.OrderMetrics
}

func newStockAdjuster(logger *log.Entry, m *metrics.OrderMetrics) *stockAdjuster {
	if logger == nil {
		logger = log.New().WithField("component", "stock-adjuster")
	}
	return &stockAdjuster{logger: logger, metrics: m}
}

// apply применяет знаковую дельту к остатку товара. Отрицательная дельта
// списывает, положительная возвращает. Нехватка остатка возвращается как
// *domain.InsufficientStockError без изменения данных.
func (a *stockAdjuster) apply(ctx context.Context, tx domain.Store, productID string, delta int32) (domain.Product, error) {
	product, err := tx.Products().AdjustStock(ctx, productID, delta)
	if err != nil {
		a.logger.WithError(err).WithFields(log.Fields{
			"product_id": productID,
			"delta":      delta,
		}).Warn("stock adjustment rejected")
		return domain.Product{}, err
	}

	if a.metrics != nil {
		a.metrics.RecordStockAdjustment(delta)
	}
	a.logger.WithFields(log.Fields{
		"product_id": productID,
		"delta":      delta,
		"stock":      product.Stock,
	}).Debug("stock adjusted")
	return product, nil
}
