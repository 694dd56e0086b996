package cart

import (
	"context"
	"testing"

	"github.com/it-is-Aman/ram-enterprise/domain"
	"github.com/it-is-Aman/ram-enterprise/internal/repository/postgres"
	"github.com/it-is-Aman/ram-enterprise/internal/testutil"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCart(t *testing.T) {
	db := testutil.NewDB(t)
	svc := NewCartService(postgres.NewCartRepository(db), postgres.NewProductRepository(db))
	ctx := context.Background()

	user := testutil.CreateUser(t, db, "asha@example.com", domain.RoleCustomer)
	category := testutil.CreateCategory(t, db, "Lighting")
	lamp := testutil.CreateProduct(t, db, category.ID, "Lamp", 900, 10, 3)
	vase := testutil.CreateProduct(t, db, category.ID, "Vase", 300, 0, 10)

	t.Run("empty cart is created lazily", func(t *testing.T) {
		cart, err := svc.GetCart(ctx, user.ID)
		require.NoError(t, err)
		assert.Empty(t, cart.Items)
		assert.True(t, cart.Total.IsZero())

		again, err := svc.GetCart(ctx, user.ID)
		require.NoError(t, err)
		assert.Equal(t, cart.ID, again.ID)
	})

	t.Run("adding the same product increments quantity", func(t *testing.T) {
		_, err := svc.AddItem(ctx, user.ID, lamp.ID, 1)
		require.NoError(t, err)

		cart, err := svc.AddItem(ctx, user.ID, lamp.ID, 1)
		require.NoError(t, err)
		require.Len(t, cart.Items, 1)
		assert.Equal(t, 2, cart.Items[0].Quantity)
		assert.True(t, cart.Total.Equal(decimal.NewFromInt(1620)), cart.Total.String())
		assert.Equal(t, 2, cart.ItemCount)
	})

	t.Run("quantity cannot exceed stock", func(t *testing.T) {
		_, err := svc.AddItem(ctx, user.ID, lamp.ID, 2)
		assert.ErrorIs(t, err, domain.ErrInsufficientStock)

		_, err = svc.UpdateItem(ctx, user.ID, lamp.ID, 4)
		assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	})

	t.Run("update and remove", func(t *testing.T) {
		_, err := svc.UpdateItem(ctx, user.ID, vase.ID, 1)
		assert.ErrorIs(t, err, domain.ErrNotFound)

		_, err = svc.AddItem(ctx, user.ID, vase.ID, 2)
		require.NoError(t, err)

		cart, err := svc.UpdateItem(ctx, user.ID, lamp.ID, 3)
		require.NoError(t, err)
		assert.Equal(t, 5, cart.ItemCount)
		assert.True(t, cart.Total.Equal(decimal.NewFromInt(3030)), cart.Total.String())

		cart, err = svc.RemoveItem(ctx, user.ID, vase.ID)
		require.NoError(t, err)
		assert.Len(t, cart.Items, 1)

		_, err = svc.RemoveItem(ctx, user.ID, vase.ID)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("clear", func(t *testing.T) {
		require.NoError(t, svc.ClearCart(ctx, user.ID))
		cart, err := svc.GetCart(ctx, user.ID)
		require.NoError(t, err)
		assert.Empty(t, cart.Items)
	})

	t.Run("unknown product", func(t *testing.T) {
		_, err := svc.AddItem(ctx, user.ID, 999, 1)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}
