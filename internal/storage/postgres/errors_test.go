package postgres

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/require"
)

func TestUniqueConstraint(t *testing.T) {
	pgErr := &pgconn.PgError{
		Code:           pgUniqueViolation,
		ConstraintName: "customers_email_key",
	}

	name, ok := uniqueConstraint(pgErr)
	require.True(t, ok)
	require.Equal(t, "customers_email_key", name)

	// Обёртка не мешает классификации.
	name, ok = uniqueConstraint(fmt.Errorf("insert customer: %w", pgErr))
	require.True(t, ok)
	require.Equal(t, "customers_email_key", name)
}

func TestUniqueConstraintOtherErrors(t *testing.T) {
	_, ok := uniqueConstraint(errors.New("connection reset"))
	require.False(t, ok)

	_, ok = uniqueConstraint(&pgconn.PgError{Code: "23503"})
	require.False(t, ok)

	_, ok = uniqueConstraint(nil)
	require.False(t, ok)
}
