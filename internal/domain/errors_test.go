package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestInsufficientStockError(t *testing.T) {
	err := &InsufficientStockError{
		ProductID:   "prod-1",
		ProductName: "Gadget",
		Available:   3,
		Requested:   5,
	}

	require.ErrorIs(t, err, ErrInsufficientStock)
	require.Equal(t, `insufficient stock for product "Gadget": available 3, requested 5`, err.Error())

	// Типизированная ошибка достаётся и из обёртки.
	wrapped := fmt.Errorf("create order: %w", err)
	var stockErr *InsufficientStockError
	require.ErrorAs(t, wrapped, &stockErr)
	require.Equal(t, int32(3), stockErr.Available)
}

func TestValidationError(t *testing.T) {
	err := NewValidationError(
		FieldViolation{Field: "name", Message: "category name is required"},
		FieldViolation{Field: "lines[0].qty", Message: "line qty must be greater than zero"},
	)

	require.ErrorIs(t, err, ErrInvalidInput)
	require.Contains(t, err.Error(), "name: category name is required")
	require.Contains(t, err.Error(), "lines[0].qty")

	empty := NewValidationError()
	require.Equal(t, ErrInvalidInput.Error(), empty.Error())
}

func TestKindOf(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want ErrorKind
	}{
		{"nil", nil, ErrorKind("")},
		{"category not found", ErrCategoryNotFound, KindNotFound},
		{"order line not found", fmt.Errorf("reconcile: %w", ErrOrderLineNotFound), KindNotFound},
		{"email taken", ErrEmailTaken, KindConflict},
		{"tax id taken", ErrTaxIDTaken, KindConflict},
		{"category name taken", ErrCategoryNameTaken, KindConflict},
		{"insufficient stock sentinel", ErrInsufficientStock, KindInsufficientStock},
		{"insufficient stock typed", &InsufficientStockError{Available: 1, Requested: 2}, KindInsufficientStock},
		{"category has products", ErrCategoryHasProducts, KindInvalidState},
		{"order not pending", ErrOrderNotPending, KindInvalidState},
		{"invalid credentials", ErrInvalidCredentials, KindUnauthenticated},
		{"validation", NewValidationError(FieldViolation{Field: "x"}), KindInvalidInput},
		{"unknown", errors.New("disk on fire"), KindInternal},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, KindOf(tc.err))
		})
	}
}
