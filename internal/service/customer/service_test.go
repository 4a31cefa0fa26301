package customer

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
	return base.WithField("component", "customer-test")
}

func newService(t *testing.T) (*memory.Store, *Service) {
	t.Helper()
	store := memory.NewStore()
	return store, NewService(store, NewBcryptHasher(), testLogger())
}

func TestCreateCustomerHashesPassword(t *testing.T) {
	ctx := context.Background()
	store, svc := newService(t)

	created, err := svc.Create(ctx, CreateInput{
		Name:     "Alice",
		Email:    "alice@example.com",
		TaxID:    "111.222.333-44",
		Password: "s3cret",
	})
	require.NoError(t, err)
	require.Empty(t, created.PasswordHash, "внешний ответ не должен содержать хеш")

	// В хранилище лежит bcrypt-дайджест, а не сам пароль.
	raw, err := store.Customers().Get(ctx, created.ID)
	require.NoError(t, err)
	require.NotEmpty(t, raw.PasswordHash)
	require.NotEqual(t, "s3cret", raw.PasswordHash)
}

func TestCreateCustomerValidation(t *testing.T) {
	ctx := context.Background()
	_, svc := newService(t)

	_, err := svc.Create(ctx, CreateInput{Name: "No Email", TaxID: "1", Password: "x"})
	require.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = svc.Create(ctx, CreateInput{Name: "No Password", Email: "a@b.c", TaxID: "1"})
	require.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestCreateCustomerUniqueness(t *testing.T) {
	ctx := context.Background()
	_, svc := newService(t)

	_, err := svc.Create(ctx, CreateInput{
		Name: "Alice", Email: "alice@example.com", TaxID: "111", Password: "pw",
	})
	require.NoError(t, err)

	_, err = svc.Create(ctx, CreateInput{
		Name: "Other Alice", Email: "alice@example.com", TaxID: "222", Password: "pw",
	})
	require.ErrorIs(t, err, domain.ErrEmailTaken)

	_, err = svc.Create(ctx, CreateInput{
		Name: "Tax Twin", Email: "twin@example.com", TaxID: "111", Password: "pw",
	})
	require.ErrorIs(t, err, domain.ErrTaxIDTaken)
}

func TestAuthenticate(t *testing.T) {
	ctx := context.Background()
	_, svc := newService(t)

	created, err := svc.Create(ctx, CreateInput{
		Name: "Alice", Email: "alice@example.com", TaxID: "111", Password: "s3cret",
	})
	require.NoError(t, err)

	authenticated, err := svc.Authenticate(ctx, "alice@example.com", "s3cret")
	require.NoError(t, err)
	require.Equal(t, created.ID, authenticated.ID)
	require.Empty(t, authenticated.PasswordHash)

	_, err = svc.Authenticate(ctx, "alice@example.com", "wrong")
	require.ErrorIs(t, err, domain.ErrInvalidCredentials)

	// Несуществующий email неотличим от неверного пароля.
	_, err = svc.Authenticate(ctx, "ghost@example.com", "s3cret")
	require.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestUpdateKeepsPasswordWhenEmpty(t *testing.T) {
	ctx := context.Background()
	_, svc := newService(t)

	created, err := svc.Create(ctx, CreateInput{
		Name: "Alice", Email: "alice@example.com", TaxID: "111", Password: "s3cret",
	})
	require.NoError(t, err)

	updated, err := svc.Update(ctx, created.ID, UpdateInput{
		Name:  "Alice Cooper",
		Email: "alice@example.com",
		TaxID: "111",
	})
	require.NoError(t, err)
	require.Equal(t, "Alice Cooper", updated.Name)

	// Старый пароль продолжает работать.
	_, err = svc.Authenticate(ctx, "alice@example.com", "s3cret")
	require.NoError(t, err)

	// А с новым паролем старый перестаёт подходить.
	_, err = svc.Update(ctx, created.ID, UpdateInput{
		Name: "Alice Cooper", Email: "alice@example.com", TaxID: "111", Password: "n3w-pass",
	})
	require.NoError(t, err)
	_, err = svc.Authenticate(ctx, "alice@example.com", "s3cret")
	require.ErrorIs(t, err, domain.ErrInvalidCredentials)
	_, err = svc.Authenticate(ctx, "alice@example.com", "n3w-pass")
	require.NoError(t, err)
}

func TestDeleteCustomerBlockedByOrders(t *testing.T) {
	ctx := context.Background()
	store, svc := newService(t)

	created, err := svc.Create(ctx, CreateInput{
		Name: "Alice", Email: "alice@example.com", TaxID: "111", Password: "pw",
	})
	require.NoError(t, err)

	require.NoError(t, store.Products().Create(ctx, domain.Product{
		ID: "prod-1", Name: "Gadget", PriceMinor: 500, Stock: 10,
	}))
	require.NoError(t, store.Orders().Create(ctx, domain.Order{
		ID:         "order-1",
		CustomerID: created.ID,
		Status:     domain.OrderStatusPending,
		Lines: []domain.OrderLine{
			{ID: "line-1", OrderID: "order-1", ProductID: "prod-1", Qty: 1},
		},
	}))

	err = svc.Delete(ctx, created.ID)
	require.ErrorIs(t, err, domain.ErrCustomerHasOrders)

	_, err = svc.Get(ctx, created.ID)
	require.NoError(t, err)
}
