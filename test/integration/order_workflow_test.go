package integration

import (
	"context"
	"testing"

	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/vladislavdragonenkov/storefront/internal/domain"
	"github.com/vladislavdragonenkov/storefront/internal/service/catalog"
	"github.com/vladislavdragonenkov/storefront/internal/service/customer"
	"github.com/vladislavdragonenkov/storefront/internal/service/order"
	"github.com/vladislavdragonenkov/storefront/internal/storage/memory"
)

// OrderWorkflowTestSuite тестирует полный жизненный цикл заказа поверх
// всех сервисов и общего хранилища.
type OrderWorkflowTestSuite struct {
	suite.Suite
	store      *memory.Store
	categories *catalog.CategoryService
	products   *catalog.ProductService
	customers  *customer.Service
	orders     *order.Engine
}

func (suite *OrderWorkflowTestSuite) SetupTest() {
	baseLogger := log.New()
	baseLogger.SetLevel(log.WarnLevel) // Уменьшаем шум в тестах
	logger := baseLogger.WithField("component", "integration-test")

	suite.store = memory.NewStore()
	suite.categories = catalog.NewCategoryService(suite.store, logger)
	suite.products = catalog.NewProductService(suite.store, logger)
	suite.customers = customer.NewService(suite.store, customer.NewBcryptHasher(), logger)
	suite.orders = order.NewEngineWithoutMetrics(suite.store, logger)
}

func (suite *OrderWorkflowTestSuite) TestFullOrderLifecycle() {
	ctx := context.Background()

	// 1. Каталог: категория и товар в ней
	category, err := suite.categories.Create(ctx, catalog.CategoryInput{
		Name:        "Electronics",
		Description: "Gadgets and accessories",
	})
	require.NoError(suite.T(), err)

	product, err := suite.products.Create(ctx, catalog.ProductInput{
		Name:       "Gadget",
		PriceMinor: 500, // $5.00
		Stock:      10,
		CategoryID: &category.ID,
	})
	require.NoError(suite.T(), err)

	// 2. Регистрируем покупателя
	buyer, err := suite.customers.Create(ctx, customer.CreateInput{
		Name:     "Alice",
		Email:    "alice@example.com",
		TaxID:    "111-222",
		Password: "s3cret",
	})
	require.NoError(suite.T(), err)
	require.Empty(suite.T(), buyer.PasswordHash)

	// 3. Размещаем заказ: списание остатка и сумма по текущей цене
	placed, err := suite.orders.Create(ctx, order.CreateOrderInput{
		CustomerID: buyer.ID,
		Lines:      []order.LineInput{{ProductID: product.ID, Qty: 3}},
	})
	require.NoError(suite.T(), err)
	require.Equal(suite.T(), domain.OrderStatusPending, placed.Status)
	require.Equal(suite.T(), int64(1500), placed.TotalMinor)
	suite.requireStock(product.ID, 7)

	// Позиция гидрирована товаром вместе с категорией
	require.Len(suite.T(), placed.Lines, 1)
	require.NotNil(suite.T(), placed.Lines[0].Product)
	require.NotNil(suite.T(), placed.Lines[0].Product.Category)
	require.Equal(suite.T(), "Electronics", placed.Lines[0].Product.Category.Name)

	// 4. Увеличиваем количество: двигается только дельта остатка
	lineID := placed.Lines[0].ID
	lines := []order.LineInput{{ID: lineID, Qty: 5}}
	updated, err := suite.orders.Update(ctx, placed.ID, order.UpdateOrderInput{Lines: &lines})
	require.NoError(suite.T(), err)
	require.Equal(suite.T(), int64(2500), updated.TotalMinor)
	suite.requireStock(product.ID, 5)

	// 5. Отмена pending-заказа возвращает остаток целиком
	require.NoError(suite.T(), suite.orders.Delete(ctx, placed.ID))
	suite.requireStock(product.ID, 10)

	_, err = suite.orders.Get(ctx, placed.ID)
	require.ErrorIs(suite.T(), err, domain.ErrOrderNotFound)

	// 6. Весь workflow оставил события в outbox в порядке возникновения
	events := suite.pendingEvents(ctx)
	require.Equal(suite.T(), []string{"order.created", "order.updated", "order.canceled"}, events)
}

func (suite *OrderWorkflowTestSuite) TestInsufficientStockLeavesNoTrace() {
	ctx := context.Background()

	product := suite.seedProduct("Gadget", 500, 2)
	buyer := suite.seedCustomer("bob@example.com")

	_, err := suite.orders.Create(ctx, order.CreateOrderInput{
		CustomerID: buyer.ID,
		Lines:      []order.LineInput{{ProductID: product.ID, Qty: 5}},
	})
	require.ErrorIs(suite.T(), err, domain.ErrInsufficientStock)

	var stockErr *domain.InsufficientStockError
	require.ErrorAs(suite.T(), err, &stockErr)
	require.Equal(suite.T(), int32(2), stockErr.Available)
	require.Equal(suite.T(), int32(5), stockErr.Requested)

	// Откат полный: остаток на месте, заказов и событий нет
	suite.requireStock(product.ID, 2)
	orders, err := suite.orders.List(ctx, domain.OrderFilter{})
	require.NoError(suite.T(), err)
	require.Empty(suite.T(), orders)
	require.Empty(suite.T(), suite.pendingEvents(ctx))
}

func (suite *OrderWorkflowTestSuite) TestPriceChangeRecomputesTotal() {
	ctx := context.Background()

	product := suite.seedProduct("Gadget", 500, 10)
	buyer := suite.seedCustomer("carol@example.com")

	placed, err := suite.orders.Create(ctx, order.CreateOrderInput{
		CustomerID: buyer.ID,
		Lines:      []order.LineInput{{ProductID: product.ID, Qty: 3}},
	})
	require.NoError(suite.T(), err)
	require.Equal(suite.T(), int64(1500), placed.TotalMinor)

	// Цена растёт после размещения заказа
	_, err = suite.products.Update(ctx, product.ID, catalog.ProductInput{
		Name:       product.Name,
		PriceMinor: 600,
		Stock:      7,
	})
	require.NoError(suite.T(), err)

	// Любое обновление пересчитывает сумму по текущим ценам
	status := domain.OrderStatusProcessing
	updated, err := suite.orders.Update(ctx, placed.ID, order.UpdateOrderInput{Status: &status})
	require.NoError(suite.T(), err)
	require.Equal(suite.T(), domain.OrderStatusProcessing, updated.Status)
	require.Equal(suite.T(), int64(1800), updated.TotalMinor)
}

func (suite *OrderWorkflowTestSuite) TestDeleteGuards() {
	ctx := context.Background()

	product := suite.seedProduct("Gadget", 500, 10)
	buyer := suite.seedCustomer("dave@example.com")

	placed, err := suite.orders.Create(ctx, order.CreateOrderInput{
		CustomerID: buyer.ID,
		Lines:      []order.LineInput{{ProductID: product.ID, Qty: 1}},
	})
	require.NoError(suite.T(), err)

	// Товар с позициями заказов и покупатель с заказами защищены от удаления
	require.ErrorIs(suite.T(), suite.products.Delete(ctx, product.ID), domain.ErrProductReferenced)
	require.ErrorIs(suite.T(), suite.customers.Delete(ctx, buyer.ID), domain.ErrCustomerHasOrders)

	// Отгруженный заказ удалить нельзя
	status := domain.OrderStatusShipped
	_, err = suite.orders.Update(ctx, placed.ID, order.UpdateOrderInput{Status: &status})
	require.NoError(suite.T(), err)
	require.ErrorIs(suite.T(), suite.orders.Delete(ctx, placed.ID), domain.ErrOrderNotPending)
}

// Вспомогательные методы

func (suite *OrderWorkflowTestSuite) seedProduct(name string, price int64, stock int32) domain.Product {
	product, err := suite.products.Create(context.Background(), catalog.ProductInput{
		Name:       name,
		PriceMinor: price,
		Stock:      stock,
	})
	require.NoError(suite.T(), err)
	return product
}

func (suite *OrderWorkflowTestSuite) seedCustomer(email string) domain.Customer {
	buyer, err := suite.customers.Create(context.Background(), customer.CreateInput{
		Name:     "Test Buyer",
		Email:    email,
		TaxID:    email, // уникальность достаточна для теста
		Password: "s3cret",
	})
	require.NoError(suite.T(), err)
	return buyer
}

func (suite *OrderWorkflowTestSuite) requireStock(productID string, want int32) {
	product, err := suite.products.Get(context.Background(), productID)
	require.NoError(suite.T(), err)
	require.Equal(suite.T(), want, product.Stock)
}

func (suite *OrderWorkflowTestSuite) pendingEvents(ctx context.Context) []string {
	pending, err := suite.store.Outbox().PullPending(ctx, 100)
	require.NoError(suite.T(), err)
	events := make([]string, 0, len(pending))
	for _, msg := range pending {
		events = append(events, msg.EventType)
	}
	return events
}

func TestOrderWorkflow(t *testing.T) {
	suite.Run(t, new(OrderWorkflowTestSuite))
}
