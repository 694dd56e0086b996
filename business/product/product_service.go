package product

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/it-is-Aman/ram-enterprise/domain"
	"github.com/it-is-Aman/ram-enterprise/pkg/logger"
	"github.com/it-is-Aman/ram-enterprise/pkg/utils"

	"github.com/shopspring/decimal"
	"github.com/tealeg/xlsx"
	"gorm.io/datatypes"
)

type ProductRepository interface {
	Create(ctx context.Context, product *domain.Product) error
	FindByID(ctx context.Context, id uint) (domain.Product, error)
	FindBySlug(ctx context.Context, slug string) (domain.Product, error)
	SlugTaken(ctx context.Context, slug string, exceptID uint) (bool, error)
	List(ctx context.Context, filter domain.ProductFilter) (domain.Page[domain.Product], error)
	RatingSummaries(ctx context.Context, ids []uint) (map[uint]domain.RatingSummary, error)
	Update(ctx context.Context, product *domain.Product, images []domain.ProductImage, variants []domain.ProductVariant) error
	Delete(ctx context.Context, id uint) error
	ListLowStock(ctx context.Context, threshold int) ([]domain.Product, error)
	All(ctx context.Context) ([]domain.Product, error)
}

type CategoryRepository interface {
	FindByID(ctx context.Context, id uint) (domain.Category, error)
}

type ImageInput struct {
	URL       string
	Alt       string
	IsPrimary bool
	SortOrder int
}

type VariantInput struct {
	Name       string
	SKU        string
	Attributes map[string]interface{}
	Stock      int
}

type ProductInput struct {
	Name        string
	Slug        string
	Description string
	Price       decimal.Decimal
	Discount    decimal.Decimal
	Stock       int
	IsActive    *bool
	IsFeatured  bool
	CategoryID  uint

	// nil keeps the current images or variants on update
	Images   []ImageInput
	Variants []VariantInput
}

type productService struct {
	productRepo  ProductRepository
	categoryRepo CategoryRepository
}

func NewProductService(productRepo ProductRepository, categoryRepo CategoryRepository) *productService {
	return &productService{
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
	}
}

func (s *productService) enrich(ctx context.Context, products []domain.Product) error {
	ids := make([]uint, len(products))
	for i := range products {
		ids[i] = products[i].ID
	}

	summaries, err := s.productRepo.RatingSummaries(ctx, ids)
	if err != nil {
		return err
	}

	for i := range products {
		p := &products[i]
		p.FinalPrice = p.DiscountedPrice()
		summary := summaries[p.ID]
		p.AverageRating = roundRating(summary.AverageRating)
		p.ReviewCount = summary.TotalReviews
	}

	return nil
}

func roundRating(v float64) float64 {
	return decimal.NewFromFloat(v).Round(1).InexactFloat64()
}

func (s *productService) ListProducts(ctx context.Context, filter domain.ProductFilter) (domain.Page[domain.Product], error) {
	if filter.MinPrice != nil && filter.MaxPrice != nil && filter.MinPrice.GreaterThan(*filter.MaxPrice) {
		return domain.Page[domain.Product]{}, domain.Errorf(domain.ErrValidation, "minPrice cannot be greater than maxPrice")
	}

	page, err := s.productRepo.List(ctx, filter)
	if err != nil {
		return domain.Page[domain.Product]{}, err
	}

	if err := s.enrich(ctx, page.Items); err != nil {
		return domain.Page[domain.Product]{}, err
	}

	return page, nil
}

func (s *productService) visible(product domain.Product, includeInactive bool) (domain.Product, error) {
	if !product.IsActive && !includeInactive {
		return domain.Product{}, domain.Errorf(domain.ErrNotFound, "product not found")
	}
	return product, nil
}

func (s *productService) GetProduct(ctx context.Context, id uint, includeInactive bool) (domain.Product, error) {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return domain.Product{}, err
	}
	return s.finish(ctx, product, includeInactive)
}

func (s *productService) GetProductBySlug(ctx context.Context, slug string, includeInactive bool) (domain.Product, error) {
	product, err := s.productRepo.FindBySlug(ctx, slug)
	if err != nil {
		return domain.Product{}, err
	}
	return s.finish(ctx, product, includeInactive)
}

func (s *productService) finish(ctx context.Context, product domain.Product, includeInactive bool) (domain.Product, error) {
	product, err := s.visible(product, includeInactive)
	if err != nil {
		return domain.Product{}, err
	}

	products := []domain.Product{product}
	if err := s.enrich(ctx, products); err != nil {
		return domain.Product{}, err
	}

	return products[0], nil
}

func validateInput(input ProductInput) error {
	if strings.TrimSpace(input.Name) == "" {
		return domain.Errorf(domain.ErrValidation, "product name is required")
	}
	if !input.Price.IsPositive() {
		return domain.Errorf(domain.ErrValidation, "price must be greater than 0")
	}
	if input.Discount.IsNegative() || input.Discount.GreaterThan(decimal.NewFromInt(100)) {
		return domain.Errorf(domain.ErrValidation, "discount must be between 0 and 100")
	}
	if input.Stock < 0 {
		return domain.Errorf(domain.ErrValidation, "stock cannot be negative")
	}
	for _, v := range input.Variants {
		if v.Stock < 0 {
			return domain.Errorf(domain.ErrValidation, "variant stock cannot be negative")
		}
	}
	return nil
}

// uniqueSlug derives the slug from the requested one or the name. A derived
// slug gets a numeric suffix when taken; an explicit one is rejected.
func (s *productService) uniqueSlug(ctx context.Context, requested, name string, exceptID uint) (string, error) {
	explicit := strings.TrimSpace(requested) != ""
	base := utils.Slugify(requested)
	if !explicit {
		base = utils.Slugify(name)
	}
	if base == "" {
		return "", domain.Errorf(domain.ErrValidation, "product slug must contain letters or digits")
	}

	slug := base
	for i := 2; ; i++ {
		taken, err := s.productRepo.SlugTaken(ctx, slug, exceptID)
		if err != nil {
			return "", err
		}
		if !taken {
			return slug, nil
		}
		if explicit || i > 50 {
			return "", domain.Errorf(domain.ErrConflict, "product slug %q already exists", slug)
		}
		slug = fmt.Sprintf("%s-%d", base, i)
	}
}

func toImages(inputs []ImageInput) []domain.ProductImage {
	if inputs == nil {
		return nil
	}
	images := make([]domain.ProductImage, len(inputs))
	for i, in := range inputs {
		images[i] = domain.ProductImage{
			URL:       in.URL,
			Alt:       in.Alt,
			IsPrimary: in.IsPrimary,
			SortOrder: in.SortOrder,
		}
	}
	return images
}

func toVariants(inputs []VariantInput) []domain.ProductVariant {
	if inputs == nil {
		return nil
	}
	variants := make([]domain.ProductVariant, len(inputs))
	for i, in := range inputs {
		variants[i] = domain.ProductVariant{
			Name:       in.Name,
			SKU:        in.SKU,
			Attributes: datatypes.JSONMap(in.Attributes),
			Stock:      in.Stock,
		}
	}
	return variants
}

func (s *productService) CreateProduct(ctx context.Context, input ProductInput) (domain.Product, error) {
	if err := validateInput(input); err != nil {
		return domain.Product{}, err
	}

	if _, err := s.categoryRepo.FindByID(ctx, input.CategoryID); err != nil {
		return domain.Product{}, err
	}

	slug, err := s.uniqueSlug(ctx, input.Slug, input.Name, 0)
	if err != nil {
		return domain.Product{}, err
	}

	active := true
	if input.IsActive != nil {
		active = *input.IsActive
	}

	product := domain.Product{
		Name:        strings.TrimSpace(input.Name),
		Slug:        slug,
		Description: input.Description,
		Price:       input.Price.Round(2),
		Discount:    input.Discount.Round(2),
		Stock:       input.Stock,
		IsActive:    active,
		IsFeatured:  input.IsFeatured,
		CategoryID:  input.CategoryID,
		Images:      toImages(input.Images),
		Variants:    toVariants(input.Variants),
	}

	if err := s.productRepo.Create(ctx, &product); err != nil {
		return domain.Product{}, err
	}

	logger.Info("Product created", "product_id", product.ID, "slug", product.Slug)
	return s.GetProduct(ctx, product.ID, true)
}

func (s *productService) UpdateProduct(ctx context.Context, id uint, input ProductInput) (domain.Product, error) {
	existing, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return domain.Product{}, err
	}

	if err := validateInput(input); err != nil {
		return domain.Product{}, err
	}

	if input.CategoryID != existing.CategoryID {
		if _, err := s.categoryRepo.FindByID(ctx, input.CategoryID); err != nil {
			return domain.Product{}, err
		}
	}

	requested := input.Slug
	if requested == "" && input.Name == existing.Name {
		requested = existing.Slug
	}
	slug, err := s.uniqueSlug(ctx, requested, input.Name, id)
	if err != nil {
		return domain.Product{}, err
	}

	active := existing.IsActive
	if input.IsActive != nil {
		active = *input.IsActive
	}

	product := domain.Product{
		ID:          id,
		Name:        strings.TrimSpace(input.Name),
		Slug:        slug,
		Description: input.Description,
		Price:       input.Price.Round(2),
		Discount:    input.Discount.Round(2),
		Stock:       input.Stock,
		IsActive:    active,
		IsFeatured:  input.IsFeatured,
		CategoryID:  input.CategoryID,
	}

	if err := s.productRepo.Update(ctx, &product, toImages(input.Images), toVariants(input.Variants)); err != nil {
		return domain.Product{}, err
	}

	return s.GetProduct(ctx, id, true)
}

func (s *productService) DeleteProduct(ctx context.Context, id uint) error {
	if err := s.productRepo.Delete(ctx, id); err != nil {
		return err
	}
	logger.Info("Product deleted", "product_id", id)
	return nil
}

func (s *productService) ListLowStock(ctx context.Context, threshold int) ([]domain.Product, error) {
	if threshold < 0 {
		return nil, domain.Errorf(domain.ErrValidation, "threshold cannot be negative")
	}

	products, err := s.productRepo.ListLowStock(ctx, threshold)
	if err != nil {
		return nil, err
	}

	for i := range products {
		products[i].FinalPrice = products[i].DiscountedPrice()
	}

	return products, nil
}

var exportHeader = []string{"ID", "Name", "Slug", "Category", "Price", "Discount %", "Final Price", "Stock", "Active", "Featured", "Created At"}

// ExportProducts writes every product as an .xlsx workbook.
func (s *productService) ExportProducts(ctx context.Context, w io.Writer) error {
	products, err := s.productRepo.All(ctx)
	if err != nil {
		return err
	}

	file := xlsx.NewFile()
	sheet, err := file.AddSheet("Products")
	if err != nil {
		return fmt.Errorf("failed to create sheet: %w", err)
	}

	header := sheet.AddRow()
	for _, title := range exportHeader {
		header.AddCell().SetValue(title)
	}

	for _, p := range products {
		category := ""
		if p.Category != nil {
			category = p.Category.Name
		}

		row := sheet.AddRow()
		row.AddCell().SetInt(int(p.ID))
		row.AddCell().SetValue(p.Name)
		row.AddCell().SetValue(p.Slug)
		row.AddCell().SetValue(category)
		row.AddCell().SetFloat(p.Price.InexactFloat64())
		row.AddCell().SetFloat(p.Discount.InexactFloat64())
		row.AddCell().SetFloat(p.DiscountedPrice().InexactFloat64())
		row.AddCell().SetInt(p.Stock)
		row.AddCell().SetBool(p.IsActive)
		row.AddCell().SetBool(p.IsFeatured)
		row.AddCell().SetValue(p.CreatedAt.Format("2006-01-02 15:04:05"))
	}

	if err := file.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}

	return nil
}
