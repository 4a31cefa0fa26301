package catalog

import (
	"context"
	"testing"

	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/vladislavdragonenkov/storefront/internal/domain"
	"github.com/vladislavdragonenkov/storefront/internal/storage/memory"
)

func testLogger() *log.Entry {
	base := log.New()
	base.SetLevel(log.WarnLevel)
	return base.WithField("component", "catalog-test")
}

func TestCategoryCRUD(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	svc := NewCategoryService(store, testLogger())

	created, err := svc.Create(ctx, CategoryInput{Name: "Electronics", Description: "Gadgets"})
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)

	found, err := svc.Get(ctx, created.ID)
	require.NoError(t, err)
	require.Equal(t, "Electronics", found.Name)

	updated, err := svc.Update(ctx, created.ID, CategoryInput{Name: "Home Electronics"})
	require.NoError(t, err)
	require.Equal(t, "Home Electronics", updated.Name)

	require.NoError(t, svc.Delete(ctx, created.ID))
	_, err = svc.Get(ctx, created.ID)
	require.ErrorIs(t, err, domain.ErrCategoryNotFound)
}

func TestCategoryNameUnique(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	svc := NewCategoryService(store, testLogger())

	_, err := svc.Create(ctx, CategoryInput{Name: "Books"})
	require.NoError(t, err)

	_, err = svc.Create(ctx, CategoryInput{Name: "Books"})
	require.ErrorIs(t, err, domain.ErrCategoryNameTaken)
}

func TestCategoryNameRequired(t *testing.T) {
	ctx := context.Background()
	svc := NewCategoryService(memory.NewStore(), testLogger())

	_, err := svc.Create(ctx, CategoryInput{Description: "nameless"})
	require.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestCategoryDeleteBlockedByProducts(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	categories := NewCategoryService(store, testLogger())
	products := NewProductService(store, testLogger())

	category, err := categories.Create(ctx, CategoryInput{Name: "Toys"})
	require.NoError(t, err)

	_, err = products.Create(ctx, ProductInput{
		Name:       "Teddy Bear",
		PriceMinor: 1999,
		Stock:      5,
		CategoryID: &category.ID,
	})
	require.NoError(t, err)

	err = categories.Delete(ctx, category.ID)
	require.ErrorIs(t, err, domain.ErrCategoryHasProducts)

	// Категория остаётся читаемой после отклонённого удаления.
	_, err = categories.Get(ctx, category.ID)
	require.NoError(t, err)
}

func TestProductCRUD(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	categories := NewCategoryService(store, testLogger())
	products := NewProductService(store, testLogger())

	category, err := categories.Create(ctx, CategoryInput{Name: "Audio"})
	require.NoError(t, err)

	created, err := products.Create(ctx, ProductInput{
		Name:       "Headphones",
		PriceMinor: 9900,
		Stock:      3,
		CategoryID: &category.ID,
	})
	require.NoError(t, err)
	require.NotNil(t, created.Category)
	require.Equal(t, "Audio", created.Category.Name)

	updated, err := products.Update(ctx, created.ID, ProductInput{
		Name:       "Headphones Pro",
		PriceMinor: 14900,
		Stock:      7,
		CategoryID: &category.ID,
	})
	require.NoError(t, err)
	require.Equal(t, int64(14900), updated.PriceMinor)
	require.Equal(t, int32(7), updated.Stock)

	listed, err := products.List(ctx, domain.ProductFilter{CategoryID: &category.ID})
	require.NoError(t, err)
	require.Len(t, listed, 1)

	require.NoError(t, products.Delete(ctx, created.ID))
	_, err = products.Get(ctx, created.ID)
	require.ErrorIs(t, err, domain.ErrProductNotFound)
}

func TestProductValidation(t *testing.T) {
	ctx := context.Background()
	products := NewProductService(memory.NewStore(), testLogger())

	_, err := products.Create(ctx, ProductInput{Name: "Negative", PriceMinor: -1})
	require.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = products.Create(ctx, ProductInput{Name: "Backorder", PriceMinor: 100, Stock: -5})
	require.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestProductUnknownCategory(t *testing.T) {
	ctx := context.Background()
	products := NewProductService(memory.NewStore(), testLogger())

	missing := "no-such-category"
	_, err := products.Create(ctx, ProductInput{
		Name:       "Orphan",
		PriceMinor: 100,
		CategoryID: &missing,
	})
	require.ErrorIs(t, err, domain.ErrCategoryNotFound)
}

func TestProductDeleteBlockedByOrderLines(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	products := NewProductService(store, testLogger())

	created, err := products.Create(ctx, ProductInput{Name: "Lamp", PriceMinor: 2500, Stock: 10})
	require.NoError(t, err)

	// Позиция заказа ссылается на товар: удаление отклоняется.
	require.NoError(t, store.Customers().Create(ctx, domain.Customer{
		ID: "cust-1", Name: "Alice", Email: "alice@example.com", TaxID: "1",
	}))
	require.NoError(t, store.Orders().Create(ctx, domain.Order{
		ID:         "order-1",
		CustomerID: "cust-1",
		Status:     domain.OrderStatusPending,
		Lines: []domain.OrderLine{
			{ID: "line-1", OrderID: "order-1", ProductID: created.ID, Qty: 1},
		},
	}))

	err = products.Delete(ctx, created.ID)
	require.ErrorIs(t, err, domain.ErrProductReferenced)
}
