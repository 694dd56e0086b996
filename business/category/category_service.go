package category

import (
	"context"
	"strings"

	"github.com/it-is-Aman/ram-enterprise/domain"
	"github.com/it-is-Aman/ram-enterprise/pkg/logger"
	"github.com/it-is-Aman/ram-enterprise/pkg/utils"
)

type CategoryRepository interface {
	Create(ctx context.Context, category *domain.Category) error
	FindByID(ctx context.Context, id uint) (domain.Category, error)
	FindBySlug(ctx context.Context, slug string) (domain.Category, error)
	NameTaken(ctx context.Context, name, slug string, exceptID uint) (bool, error)
	List(ctx context.Context, filter domain.CategoryFilter) (domain.Page[domain.Category], error)
	Update(ctx context.Context, category *domain.Category) error
	CountProducts(ctx context.Context, id uint) (int64, error)
	Delete(ctx context.Context, id uint) error
}

type CategoryInput struct {
	Name        string
	Slug        string
	Description string
}

type categoryService struct {
	categoryRepo CategoryRepository
}

func NewCategoryService(categoryRepo CategoryRepository) *categoryService {
	return &categoryService{
		categoryRepo: categoryRepo,
	}
}

func (s *categoryService) ListCategories(ctx context.Context, filter domain.CategoryFilter) (domain.Page[domain.Category], error) {
	return s.categoryRepo.List(ctx, filter)
}

func (s *categoryService) GetCategory(ctx context.Context, id uint) (domain.Category, error) {
	return s.categoryRepo.FindByID(ctx, id)
}

func (s *categoryService) GetCategoryBySlug(ctx context.Context, slug string) (domain.Category, error) {
	return s.categoryRepo.FindBySlug(ctx, slug)
}

func (s *categoryService) prepare(ctx context.Context, input CategoryInput, exceptID uint) (domain.Category, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return domain.Category{}, domain.Errorf(domain.ErrValidation, "category name is required")
	}

	slug := utils.Slugify(input.Slug)
	if slug == "" {
		slug = utils.Slugify(name)
	}
	if slug == "" {
		return domain.Category{}, domain.Errorf(domain.ErrValidation, "category name must contain letters or digits")
	}

	taken, err := s.categoryRepo.NameTaken(ctx, name, slug, exceptID)
	if err != nil {
		return domain.Category{}, err
	}
	if taken {
		return domain.Category{}, domain.Errorf(domain.ErrConflict, "category already exists")
	}

	return domain.Category{
		ID:          exceptID,
		Name:        name,
		Slug:        slug,
		Description: strings.TrimSpace(input.Description),
	}, nil
}

func (s *categoryService) CreateCategory(ctx context.Context, input CategoryInput) (domain.Category, error) {
	category, err := s.prepare(ctx, input, 0)
	if err != nil {
		return domain.Category{}, err
	}

	if err := s.categoryRepo.Create(ctx, &category); err != nil {
		return domain.Category{}, err
	}

	logger.Info("Category created", "category_id", category.ID, "slug", category.Slug)
	return category, nil
}

func (s *categoryService) UpdateCategory(ctx context.Context, id uint, input CategoryInput) (domain.Category, error) {
	if _, err := s.categoryRepo.FindByID(ctx, id); err != nil {
		return domain.Category{}, err
	}

	category, err := s.prepare(ctx, input, id)
	if err != nil {
		return domain.Category{}, err
	}

	if err := s.categoryRepo.Update(ctx, &category); err != nil {
		return domain.Category{}, err
	}

	return s.categoryRepo.FindByID(ctx, id)
}

func (s *categoryService) DeleteCategory(ctx context.Context, id uint) error {
	if _, err := s.categoryRepo.FindByID(ctx, id); err != nil {
		return err
	}

	count, err := s.categoryRepo.CountProducts(ctx, id)
	if err != nil {
		return err
	}
	if count > 0 {
		return domain.Errorf(domain.ErrConflict, "category has products")
	}

	return s.categoryRepo.Delete(ctx, id)
}
