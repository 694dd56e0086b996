package domain

import (
	"time"
)

type Category struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Name         string    `gorm:"column:name;uniqueIndex;not null" json:"name"`
	Slug         string    `gorm:"column:slug;uniqueIndex;not null" json:"slug"`
	Description  string    `gorm:"column:description;type:text" json:"description,omitempty"`
	ProductCount int64     `gorm:"->;-:migration" json:"product_count"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (Category) TableName() string {
	return "categories"
}

type CategoryFilter struct {
	PageQuery
	Search string
}
