package domain

import "time"

type InquiryStatus string

const (
	InquiryStatusPending   InquiryStatus = "PENDING"
	InquiryStatusContacted InquiryStatus = "CONTACTED"
	InquiryStatusFulfilled InquiryStatus = "FULFILLED"
	InquiryStatusClosed    InquiryStatus = "CLOSED"
)

func (s InquiryStatus) Valid() bool {
	switch s {
	case InquiryStatusPending, InquiryStatusContacted, InquiryStatusFulfilled, InquiryStatusClosed:
		return true
	}
	return false
}

type ProductInquiry struct {
	ID         uint          `gorm:"primaryKey" json:"id"`
	Reference  string        `gorm:"column:reference;uniqueIndex;not null" json:"reference"`
	Name       string        `gorm:"column:name;not null" json:"name"`
	Email      string        `gorm:"column:email;not null" json:"email"`
	Phone      string        `gorm:"column:phone" json:"phone,omitempty"`
	Company    string        `gorm:"column:company" json:"company,omitempty"`
	Message    string        `gorm:"column:message;type:text;not null" json:"message"`
	ProductID  *uint         `gorm:"column:product_id;index" json:"product_id,omitempty"`
	Product    *Product      `gorm:"foreignKey:ProductID;constraint:OnDelete:SET NULL" json:"product,omitempty"`
	Quantity   int           `gorm:"column:quantity" json:"quantity,omitempty"`
	UserID     *uint         `gorm:"column:user_id;index" json:"user_id,omitempty"`
	Status     InquiryStatus `gorm:"column:status;type:varchar(20);index;not null" json:"status"`
	AdminNotes string        `gorm:"column:admin_notes;type:text" json:"admin_notes,omitempty"`
	CreatedAt  time.Time     `json:"created_at"`
	UpdatedAt  time.Time     `json:"updated_at"`
}

func (ProductInquiry) TableName() string {
	return "product_inquiries"
}

type InquiryFilter struct {
	PageQuery
	UserID uint
	Status InquiryStatus
	Search string
}
