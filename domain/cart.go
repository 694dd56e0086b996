package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type Cart struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	UserID    uint       `gorm:"column:user_id;uniqueIndex;not null" json:"user_id"`
	Items     []CartItem `gorm:"foreignKey:CartID;constraint:OnDelete:CASCADE" json:"items"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`

	Total     decimal.Decimal `gorm:"-" json:"total"`
	ItemCount int             `gorm:"-" json:"item_count"`
}

func (Cart) TableName() string {
	return "carts"
}

type CartItem struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CartID    uint      `gorm:"column:cart_id;uniqueIndex:idx_cart_product;not null" json:"cart_id"`
	ProductID uint      `gorm:"column:product_id;uniqueIndex:idx_cart_product;not null" json:"product_id"`
	Product   *Product  `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE" json:"product,omitempty"`
	Quantity  int       `gorm:"column:quantity;not null" json:"quantity"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	UnitPrice decimal.Decimal `gorm:"-" json:"unit_price"`
	Subtotal  decimal.Decimal `gorm:"-" json:"subtotal"`
}

func (CartItem) TableName() string {
	return "cart_items"
}

// Summarize fills line prices, the total and the item count from the
// preloaded products at their current discounted price.
func (c *Cart) Summarize() {
	total := decimal.Zero
	count := 0
	for i := range c.Items {
		item := &c.Items[i]
		if item.Product != nil {
			item.UnitPrice = item.Product.DiscountedPrice()
			item.Subtotal = item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity)))
			total = total.Add(item.Subtotal)
		}
		count += item.Quantity
	}
	c.Total = total
	c.ItemCount = count
}
