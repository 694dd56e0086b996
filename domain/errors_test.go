package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorf(t *testing.T) {
	err := Errorf(ErrInsufficientStock, "insufficient stock for %s", "Rice 5kg")

	assert.EqualError(t, err, "insufficient stock for Rice 5kg")
	assert.ErrorIs(t, err, ErrInsufficientStock)
	assert.ErrorIs(t, fmt.Errorf("create order: %w", err), ErrInsufficientStock)
	assert.False(t, errors.Is(err, ErrNotFound))
}
