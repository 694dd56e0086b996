package postgres

import (
	"context"
	"testing"

	"github.com/it-is-Aman/ram-enterprise/domain"
	"github.com/it-is-Aman/ram-enterprise/internal/testutil"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrdersRepository_CreateRollsBackOnShortStock(t *testing.T) {
	db := testutil.NewDB(t)
	ctx := context.Background()

	buyer := testutil.CreateUser(t, db, "buyer@example.com", domain.RoleCustomer)
	category := testutil.CreateCategory(t, db, "Decor")
	vase := testutil.CreateProduct(t, db, category.ID, "Brass Vase", 900, 10, 5)
	lamp := testutil.CreateProduct(t, db, category.ID, "Desk Lamp", 400, 0, 1)

	carts := NewCartRepository(db)
	cart, err := carts.GetOrCreate(ctx, buyer.ID)
	require.NoError(t, err)
	require.NoError(t, carts.SetQuantity(ctx, cart.ID, lamp.ID, 1))

	// The vase line succeeds before the lamp line runs short, so the
	// rollback has to undo a decrement that already happened.
	vaseItem := domain.NewOrderItem(vase, 2)
	lampItem := domain.NewOrderItem(lamp, 2)
	order := domain.Order{
		OrderNumber:     uuid.NewString(),
		UserID:          buyer.ID,
		Status:          domain.OrderStatusPending,
		TotalAmount:     vaseItem.Subtotal.Add(lampItem.Subtotal),
		PaymentMethod:   domain.PaymentMethodCOD,
		ShippingName:    "Asha",
		ShippingPhone:   "9999999999",
		ShippingAddress: "12 Lake Rd",
		ShippingCity:    "Pune",
		Items:           []domain.OrderItem{vaseItem, lampItem},
	}

	err = NewOrdersRepository(db).Create(ctx, &order)
	require.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Contains(t, err.Error(), "Desk Lamp")

	var orders, items int64
	require.NoError(t, db.Model(&domain.Order{}).Count(&orders).Error)
	require.NoError(t, db.Model(&domain.OrderItem{}).Count(&items).Error)
	assert.Zero(t, orders)
	assert.Zero(t, items)

	assert.Equal(t, 5, testutil.ReloadProduct(t, db, vase.ID).Stock)
	assert.Equal(t, 1, testutil.ReloadProduct(t, db, lamp.ID).Stock)

	line, err := carts.FindItem(ctx, cart.ID, lamp.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, line.Quantity)
}

func TestCartRepository_SetQuantityUpserts(t *testing.T) {
	db := testutil.NewDB(t)
	ctx := context.Background()

	buyer := testutil.CreateUser(t, db, "buyer@example.com", domain.RoleCustomer)
	category := testutil.CreateCategory(t, db, "Decor")
	vase := testutil.CreateProduct(t, db, category.ID, "Brass Vase", 900, 10, 5)

	carts := NewCartRepository(db)
	cart, err := carts.GetOrCreate(ctx, buyer.ID)
	require.NoError(t, err)

	// Two first-time writes for the same line, as two racing adds would issue.
	require.NoError(t, carts.SetQuantity(ctx, cart.ID, vase.ID, 1))
	require.NoError(t, carts.SetQuantity(ctx, cart.ID, vase.ID, 3))

	var lines int64
	require.NoError(t, db.Model(&domain.CartItem{}).Where("cart_id = ?", cart.ID).Count(&lines).Error)
	assert.Equal(t, int64(1), lines)

	line, err := carts.FindItem(ctx, cart.ID, vase.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, line.Quantity)
}

func TestLikePattern(t *testing.T) {
	assert.Equal(t, "%brass%", likePattern("  Brass "))
	assert.Equal(t, `%100\%%`, likePattern("100%"))
	assert.Equal(t, `%desk\_lamp%`, likePattern("desk_lamp"))
	assert.Equal(t, `%a\\b%`, likePattern(`a\b`))
}

func TestProductRepository_SearchTreatsWildcardsLiterally(t *testing.T) {
	db := testutil.NewDB(t)
	ctx := context.Background()

	category := testutil.CreateCategory(t, db, "Textiles")
	testutil.CreateProduct(t, db, category.ID, "100% Cotton Throw", 1200, 0, 4)
	testutil.CreateProduct(t, db, category.ID, "desk_lamp", 400, 0, 2)
	testutil.CreateProduct(t, db, category.ID, "Brass Vase", 900, 10, 5)

	repo := NewProductRepository(db)
	search := func(term string) []string {
		page, err := repo.List(ctx, domain.ProductFilter{
			PageQuery: domain.PageQuery{Page: 1, Limit: 10},
			Search:    term,
		})
		require.NoError(t, err)

		names := make([]string, 0, len(page.Items))
		for _, p := range page.Items {
			names = append(names, p.Name)
		}
		return names
	}

	assert.Equal(t, []string{"100% Cotton Throw"}, search("%"))
	assert.Equal(t, []string{"desk_lamp"}, search("_"))
	assert.Equal(t, []string{"Brass Vase"}, search("brass"))
}
