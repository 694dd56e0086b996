package category

import (
	"context"
	"testing"

	"github.com/it-is-Aman/ram-enterprise/domain"
	"github.com/it-is-Aman/ram-enterprise/internal/repository/postgres"
	"github.com/it-is-Aman/ram-enterprise/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type CategoryServiceSuite struct {
	suite.Suite
	ctx context.Context
}

func (s *CategoryServiceSuite) SetupTest() {
	s.ctx = context.Background()
}

func TestCategoryServiceSuite(t *testing.T) {
	suite.Run(t, new(CategoryServiceSuite))
}

func (s *CategoryServiceSuite) TestCreateGeneratesSlug() {
	db := testutil.NewDB(s.T())
	svc := NewCategoryService(postgres.NewCategoryRepository(db))

	category, err := svc.CreateCategory(s.ctx, CategoryInput{Name: "Garden Tools & Décor"})
	s.Require().NoError(err)
	s.Equal("garden-tools-decor", category.Slug)

	_, err = svc.CreateCategory(s.ctx, CategoryInput{Name: "garden tools & décor"})
	s.ErrorIs(err, domain.ErrConflict)
}

func (s *CategoryServiceSuite) TestDeleteRefusesCategoryWithProducts() {
	db := testutil.NewDB(s.T())
	svc := NewCategoryService(postgres.NewCategoryRepository(db))

	full := testutil.CreateCategory(s.T(), db, "Kitchen")
	testutil.CreateProduct(s.T(), db, full.ID, "Pan", 100, 0, 3)
	empty := testutil.CreateCategory(s.T(), db, "Empty")

	err := svc.DeleteCategory(s.ctx, full.ID)
	s.ErrorIs(err, domain.ErrConflict)
	s.EqualError(err, "category has products")

	s.NoError(svc.DeleteCategory(s.ctx, empty.ID))
	s.ErrorIs(svc.DeleteCategory(s.ctx, empty.ID), domain.ErrNotFound)
}

func TestListCategoriesCountsProducts(t *testing.T) {
	db := testutil.NewDB(t)
	svc := NewCategoryService(postgres.NewCategoryRepository(db))
	ctx := context.Background()

	kitchen := testutil.CreateCategory(t, db, "Kitchen")
	testutil.CreateCategory(t, db, "Bath")
	testutil.CreateProduct(t, db, kitchen.ID, "Pan", 100, 0, 3)
	testutil.CreateProduct(t, db, kitchen.ID, "Pot", 150, 0, 3)

	page, err := svc.ListCategories(ctx, domain.CategoryFilter{PageQuery: domain.PageQuery{Page: 1, Limit: 1}})
	require.NoError(t, err)

	require.Len(t, page.Items, 1)
	assert.Equal(t, "Bath", page.Items[0].Name)
	assert.Equal(t, int64(0), page.Items[0].ProductCount)
	assert.Equal(t, domain.Pagination{CurrentPage: 1, TotalPages: 2, TotalItems: 2, Limit: 1, HasNext: true, HasPrev: false}, page.Pagination)

	got, err := svc.GetCategoryBySlug(ctx, kitchen.Slug)
	require.NoError(t, err)
	assert.Equal(t, int64(2), got.ProductCount)
}
