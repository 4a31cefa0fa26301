package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/vladislavdragonenkov/storefront/internal/domain"
)

func seedProduct(t *testing.T, store *Store, id string, stock int32) {
	t.Helper()
	require.NoError(t, store.Products().Create(context.Background(), domain.Product{
		ID:         id,
		Name:       "Gadget " + id,
		PriceMinor: 500,
		Stock:      stock,
	}))
}

func TestRunAtomicRollback(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	seedProduct(t, store, "prod-1", 10)

	boom := errors.New("boom")
	err := store.RunAtomic(ctx, func(tx domain.Store) error {
		if _, err := tx.Products().AdjustStock(ctx, "prod-1", -4); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	// Изменения рабочей копии не опубликованы.
	product, err := store.Products().Get(ctx, "prod-1")
	require.NoError(t, err)
	require.Equal(t, int32(10), product.Stock)
}

func TestRunAtomicCommit(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	seedProduct(t, store, "prod-1", 10)

	err := store.RunAtomic(ctx, func(tx domain.Store) error {
		_, err := tx.Products().AdjustStock(ctx, "prod-1", -4)
		return err
	})
	require.NoError(t, err)

	product, err := store.Products().Get(ctx, "prod-1")
	require.NoError(t, err)
	require.Equal(t, int32(6), product.Stock)
}

func TestRunAtomicNestedJoins(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	seedProduct(t, store, "prod-1", 10)

	err := store.RunAtomic(ctx, func(tx domain.Store) error {
		return tx.RunAtomic(ctx, func(inner domain.Store) error {
			_, err := inner.Products().AdjustStock(ctx, "prod-1", -1)
			return err
		})
	})
	require.NoError(t, err)

	product, err := store.Products().Get(ctx, "prod-1")
	require.NoError(t, err)
	require.Equal(t, int32(9), product.Stock)
}

func TestAdjustStockNeverNegative(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	seedProduct(t, store, "prod-1", 3)

	_, err := store.Products().AdjustStock(ctx, "prod-1", -4)
	require.ErrorIs(t, err, domain.ErrInsufficientStock)

	var stockErr *domain.InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	require.Equal(t, int32(3), stockErr.Available)
	require.Equal(t, int32(4), stockErr.Requested)

	product, err := store.Products().Get(ctx, "prod-1")
	require.NoError(t, err)
	require.Equal(t, int32(3), product.Stock)

	_, err = store.Products().AdjustStock(ctx, "missing", -1)
	require.ErrorIs(t, err, domain.ErrProductNotFound)
}

func TestCategoryNameUnique(t *testing.T) {
	ctx := context.Background()
	store := NewStore()

	require.NoError(t, store.Categories().Create(ctx, domain.Category{ID: "c1", Name: "Books"}))
	err := store.Categories().Create(ctx, domain.Category{ID: "c2", Name: "Books"})
	require.ErrorIs(t, err, domain.ErrCategoryNameTaken)
}

func TestCustomerUniqueness(t *testing.T) {
	ctx := context.Background()
	store := NewStore()

	require.NoError(t, store.Customers().Create(ctx, domain.Customer{
		ID: "u1", Name: "Alice", Email: "a@example.com", TaxID: "111",
	}))

	err := store.Customers().Create(ctx, domain.Customer{
		ID: "u2", Name: "Bob", Email: "a@example.com", TaxID: "222",
	})
	require.ErrorIs(t, err, domain.ErrEmailTaken)

	err = store.Customers().Create(ctx, domain.Customer{
		ID: "u3", Name: "Carol", Email: "c@example.com", TaxID: "111",
	})
	require.ErrorIs(t, err, domain.ErrTaxIDTaken)

	found, err := store.Customers().GetByEmail(ctx, "a@example.com")
	require.NoError(t, err)
	require.Equal(t, "u1", found.ID)
}

func TestOrderHydration(t *testing.T) {
	ctx := context.Background()
	store := NewStore()

	require.NoError(t, store.Categories().Create(ctx, domain.Category{ID: "cat-1", Name: "Audio"}))
	categoryID := "cat-1"
	require.NoError(t, store.Products().Create(ctx, domain.Product{
		ID: "prod-1", Name: "Headphones", PriceMinor: 9900, Stock: 5, CategoryID: &categoryID,
	}))
	require.NoError(t, store.Customers().Create(ctx, domain.Customer{
		ID: "cust-1", Name: "Alice", Email: "a@example.com", TaxID: "111", PasswordHash: "digest",
	}))

	now := time.Now().UTC()
	require.NoError(t, store.Orders().Create(ctx, domain.Order{
		ID:         "order-1",
		CustomerID: "cust-1",
		Status:     domain.OrderStatusPending,
		OrderDate:  now,
		TotalMinor: 9900,
		Lines: []domain.OrderLine{
			{ID: "line-1", OrderID: "order-1", ProductID: "prod-1", Qty: 1, CreatedAt: now},
		},
	}))

	order, err := store.Orders().Get(ctx, "order-1")
	require.NoError(t, err)
	require.NotNil(t, order.Customer)
	require.Equal(t, "Alice", order.Customer.Name)
	require.Empty(t, order.Customer.PasswordHash, "гидрация не должна раскрывать хеш")
	require.Len(t, order.Lines, 1)
	require.NotNil(t, order.Lines[0].Product)
	require.Equal(t, "Headphones", order.Lines[0].Product.Name)
	require.NotNil(t, order.Lines[0].Product.Category)
	require.Equal(t, "Audio", order.Lines[0].Product.Category.Name)
}

func TestOutboxLifecycle(t *testing.T) {
	ctx := context.Background()
	store := NewStore()

	first, err := store.Outbox().Enqueue(ctx, domain.OutboxMessage{
		AggregateType: "order", AggregateID: "order-1", EventType: "order.created", Payload: []byte(`{}`),
	})
	require.NoError(t, err)
	require.NotEmpty(t, first.ID)

	second, err := store.Outbox().Enqueue(ctx, domain.OutboxMessage{
		AggregateType: "order", AggregateID: "order-1", EventType: "order.updated", Payload: []byte(`{}`),
	})
	require.NoError(t, err)

	pending, err := store.Outbox().PullPending(ctx, 10)
	require.NoError(t, err)
	require.Len(t, pending, 2)
	require.Equal(t, first.ID, pending[0].ID, "события читаются в порядке записи")

	stats, err := store.Outbox().Stats(ctx)
	require.NoError(t, err)
	require.Equal(t, 2, stats.PendingCount)
	require.False(t, stats.OldestPendingAt.IsZero())

	require.NoError(t, store.Outbox().MarkSent(ctx, first.ID))
	require.NoError(t, store.Outbox().MarkFailed(ctx, second.ID))

	pending, err = store.Outbox().PullPending(ctx, 10)
	require.NoError(t, err)
	require.Empty(t, pending)

	require.ErrorIs(t, store.Outbox().MarkSent(ctx, "missing"), domain.ErrOutboxPublish)
}
