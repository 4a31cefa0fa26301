package app

import (
	"context"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/storefront/internal/domain"
	"github.com/vladislavdragonenkov/storefront/internal/messaging/kafka"
	"github.com/vladislavdragonenkov/storefront/internal/service/catalog"
	"github.com/vladislavdragonenkov/storefront/internal/service/customer"
	"github.com/vladislavdragonenkov/storefront/internal/service/order"
	"github.com/vladislavdragonenkov/storefront/internal/storage/memory"
	"github.com/vladislavdragonenkov/storefront/internal/storage/postgres"
)

// Dependencies содержит собранные зависимости приложения.
type Dependencies struct {
	Store domain.Store

	Categories *catalog.CategoryService
	Products   *catalog.ProductService
	Customers  *customer.Service
	Orders     *order.Engine

	OutboxPublisher domain.OutboxPublisher
	DLQPublisher    domain.OutboxPublisher

	pg            *postgres.Store
	kafkaProducer *kafka.Producer
}

// NewDependencies создаёт хранилище, сервисы и опциональный Kafka producer.
// С PostgresDSN подключается к PostgreSQL и применяет миграции; без него
// работает на in-memory хранилище.
func NewDependencies(ctx context.Context, cfg Config, logger *log.Entry) (*Dependencies, error) {
	if logger == nil {
		logger = log.WithField("component", "app")
	}

	deps := &Dependencies{}

	if cfg.PostgresDSN != "" {
		pg, err := postgres.Open(ctx, cfg.PostgresDSN)
		if err != nil {
			return nil, err
		}
		if err := pg.EnsureSchema(ctx); err != nil {
			_ = pg.Close()
			return nil, err
		}
		deps.pg = pg
		deps.Store = pg
		logger.Info("postgres storage initialized")
	} else {
		deps.Store = memory.NewStore()
		logger.Info("in-memory storage initialized")
	}

	deps.Categories = catalog.NewCategoryService(deps.Store, logger.WithField("component", "catalog"))
	deps.Products = catalog.NewProductService(deps.Store, logger.WithField("component", "catalog"))
	deps.Customers = customer.NewService(deps.Store, customer.NewBcryptHasher(), logger.WithField("component", "customer"))
	deps.Orders = order.NewEngine(deps.Store, logger.WithField("component", "order-engine"))

	producer, err := initKafkaProducer(cfg.KafkaBrokers, logger)
	if err != nil {
		logger.WithError(err).Warn("continuing without kafka")
	}
	if producer != nil {
		deps.kafkaProducer = producer
		deps.OutboxPublisher = kafka.NewOutboxPublisher(producer, cfg.OrderEventsTopic)
		deps.DLQPublisher = kafka.NewOutboxPublisher(producer, kafka.TopicDeadLetterQueue)
	}

	return deps, nil
}

// PingStorage проверяет доступность хранилища для health checks.
func (d *Dependencies) PingStorage(ctx context.Context) error {
	if d.pg != nil {
		return d.pg.Ping(ctx)
	}
	return nil
}

// Close освобождает внешние ресурсы приложения.
func (d *Dependencies) Close(logger *log.Entry) {
	closeKafka(d.kafkaProducer, logger)
	if d.pg != nil {
		if err := d.pg.Close(); err != nil {
			logger.WithError(err).Warn("failed to close postgres connection")
		}
	}
}
