package domain

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

var hundred = decimal.NewFromInt(100)

type Product struct {
	ID          uint             `gorm:"primaryKey" json:"id"`
	Name        string           `gorm:"column:name;not null" json:"name"`
	Slug        string           `gorm:"column:slug;uniqueIndex;not null" json:"slug"`
	Description string           `gorm:"column:description;type:text" json:"description,omitempty"`
	Price       decimal.Decimal  `gorm:"column:price;type:decimal(12,2);not null" json:"price"`
	Discount    decimal.Decimal  `gorm:"column:discount;type:decimal(5,2);not null;default:0" json:"discount"`
	Stock       int              `gorm:"column:stock;not null;default:0" json:"stock"`
	IsActive    bool             `gorm:"column:is_active;not null" json:"is_active"`
	IsFeatured  bool             `gorm:"column:is_featured;not null;default:false" json:"is_featured"`
	CategoryID  uint             `gorm:"column:category_id;index;not null" json:"category_id"`
	Category    *Category        `gorm:"foreignKey:CategoryID;constraint:OnDelete:RESTRICT" json:"category,omitempty"`
	Images      []ProductImage   `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE" json:"images,omitempty"`
	Variants    []ProductVariant `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE" json:"variants,omitempty"`
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at"`

	FinalPrice    decimal.Decimal `gorm:"-" json:"final_price"`
	AverageRating float64         `gorm:"-" json:"average_rating"`
	ReviewCount   int64           `gorm:"-" json:"review_count"`
}

func (Product) TableName() string {
	return "products"
}

// DiscountedPrice is price * (1 - discount/100) rounded to cents.
func (p Product) DiscountedPrice() decimal.Decimal {
	return DiscountedPrice(p.Price, p.Discount)
}

func DiscountedPrice(price, discountPercent decimal.Decimal) decimal.Decimal {
	factor := decimal.NewFromInt(1).Sub(discountPercent.Div(hundred))
	return price.Mul(factor).Round(2)
}

type ProductImage struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	ProductID uint      `gorm:"column:product_id;index;not null" json:"product_id"`
	URL       string    `gorm:"column:url;not null" json:"url"`
	Alt       string    `gorm:"column:alt" json:"alt,omitempty"`
	IsPrimary bool      `gorm:"column:is_primary;default:false" json:"is_primary"`
	SortOrder int       `gorm:"column:sort_order;default:0" json:"sort_order"`
	CreatedAt time.Time `json:"created_at"`
}

func (ProductImage) TableName() string {
	return "product_images"
}

type ProductVariant struct {
	ID         uint              `gorm:"primaryKey" json:"id"`
	ProductID  uint              `gorm:"column:product_id;index;not null" json:"product_id"`
	Name       string            `gorm:"column:name;not null" json:"name"`
	SKU        string            `gorm:"column:sku;uniqueIndex" json:"sku"`
	Attributes datatypes.JSONMap `gorm:"column:attributes" json:"attributes,omitempty"`
	Stock      int               `gorm:"column:stock;default:0" json:"stock"`
	CreatedAt  time.Time         `json:"created_at"`
}

func (ProductVariant) TableName() string {
	return "product_variants"
}

type ProductFilter struct {
	PageQuery
	Search          string
	CategoryID      uint
	CategorySlug    string
	MinPrice        *decimal.Decimal
	MaxPrice        *decimal.Decimal
	InStock         bool
	Featured        bool
	IncludeInactive bool
	SortBy          string
	SortOrder       string
}

// RatingSummary is the aggregate of a product's reviews.
type RatingSummary struct {
	AverageRating float64 `json:"average_rating"`
	TotalReviews  int64   `json:"total_reviews"`
}
