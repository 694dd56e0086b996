package domain

import "time"

type Wishlist struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	UserID    uint           `gorm:"column:user_id;uniqueIndex;not null" json:"user_id"`
	Items     []WishlistItem `gorm:"foreignKey:WishlistID;constraint:OnDelete:CASCADE" json:"items"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

func (Wishlist) TableName() string {
	return "wishlists"
}

type WishlistItem struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	WishlistID uint      `gorm:"column:wishlist_id;uniqueIndex:idx_wishlist_product;not null" json:"wishlist_id"`
	ProductID  uint      `gorm:"column:product_id;uniqueIndex:idx_wishlist_product;not null" json:"product_id"`
	Product    *Product  `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE" json:"product,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

func (WishlistItem) TableName() string {
	return "wishlist_items"
}
