package wishlist

import (
	"context"
	"testing"

	"github.com/it-is-Aman/ram-enterprise/business/cart"
	"github.com/it-is-Aman/ram-enterprise/domain"
	"github.com/it-is-Aman/ram-enterprise/internal/repository/postgres"
	"github.com/it-is-Aman/ram-enterprise/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWishlist(t *testing.T) {
	db := testutil.NewDB(t)
	productRepo := postgres.NewProductRepository(db)
	cartSvc := cart.NewCartService(postgres.NewCartRepository(db), productRepo)
	svc := NewWishlistService(postgres.NewWishlistRepository(db), productRepo, cartSvc)
	ctx := context.Background()

	user := testutil.CreateUser(t, db, "asha@example.com", domain.RoleCustomer)
	category := testutil.CreateCategory(t, db, "Lighting")
	lamp := testutil.CreateProduct(t, db, category.ID, "Lamp", 900, 10, 3)
	soldOut := testutil.CreateProduct(t, db, category.ID, "Bulb", 50, 0, 0)

	wishlist, err := svc.AddItem(ctx, user.ID, lamp.ID)
	require.NoError(t, err)
	require.Len(t, wishlist.Items, 1)
	assert.Equal(t, "810", wishlist.Items[0].Product.FinalPrice.String())

	_, err = svc.AddItem(ctx, user.ID, lamp.ID)
	assert.ErrorIs(t, err, domain.ErrConflict)
	assert.EqualError(t, err, "product already in wishlist")

	_, err = svc.AddItem(ctx, user.ID, soldOut.ID)
	require.NoError(t, err)

	_, err = svc.MoveToCart(ctx, user.ID, soldOut.ID)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	c, err := svc.MoveToCart(ctx, user.ID, lamp.ID)
	require.NoError(t, err)
	require.Len(t, c.Items, 1)
	assert.Equal(t, lamp.ID, c.Items[0].ProductID)

	wishlist, err = svc.GetWishlist(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, wishlist.Items, 1)
	assert.Equal(t, soldOut.ID, wishlist.Items[0].ProductID)

	_, err = svc.MoveToCart(ctx, user.ID, lamp.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	require.NoError(t, svc.ClearWishlist(ctx, user.ID))
	wishlist, err = svc.GetWishlist(ctx, user.ID)
	require.NoError(t, err)
	assert.Empty(t, wishlist.Items)
}
