package domain

import "time"

type Review struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	ProductID uint      `gorm:"column:product_id;uniqueIndex:idx_review_product_user;not null" json:"product_id"`
	Product   *Product  `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE" json:"product,omitempty"`
	UserID    uint      `gorm:"column:user_id;uniqueIndex:idx_review_product_user;index;not null" json:"user_id"`
	User      *User     `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Rating    int       `gorm:"column:rating;not null" json:"rating"`
	Comment   string    `gorm:"column:comment;type:text" json:"comment,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Review) TableName() string {
	return "reviews"
}

type ReviewFilter struct {
	PageQuery
	ProductID uint
	UserID    uint
	Rating    int
}

type ReviewEligibility struct {
	CanReview    bool `json:"can_review"`
	HasPurchased bool `json:"has_purchased"`
	HasReviewed  bool `json:"has_reviewed"`
}

// ProductReviews is one page of a product's reviews with its rating summary.
type ProductReviews struct {
	Page[Review]
	RatingSummary
	Distribution map[int]int64 `json:"distribution"`
}
