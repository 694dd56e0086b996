package domain

import (
	"time"

	"gorm.io/gorm"
)

const (
	RoleAdmin    = "ADMIN"
	RoleCustomer = "CUSTOMER"
)

var ValidRoles = map[string]bool{
	RoleAdmin:    true,
	RoleCustomer: true,
}

type User struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	Name      string         `gorm:"column:name;not null" json:"name"`
	Email     string         `gorm:"column:email;uniqueIndex;not null" json:"email"`
	Password  string         `gorm:"column:password;not null" json:"-"`
	Phone     string         `gorm:"column:phone" json:"phone,omitempty"`
	Address   string         `gorm:"column:address;type:text" json:"address,omitempty"`
	Role      string         `gorm:"column:role;type:varchar(20);default:CUSTOMER;not null" json:"role"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (User) TableName() string {
	return "users"
}

func (u User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

type UserFilter struct {
	PageQuery
	Search string
	Role   string
}

// Session is what the token store keeps for each issued bearer token.
type Session struct {
	UserID    string    `json:"user_id"`
	Role      string    `json:"role"`
	IssuedAt  time.Time `json:"issued_at"`
	ExpiresAt time.Time `json:"expires_at"`
	IPAddress string    `json:"ip_address,omitempty"`
	UserAgent string    `json:"user_agent,omitempty"`
}

// Actor is the authenticated caller of an operation.
type Actor struct {
	UserID uint
	Role   string
}

func (a Actor) IsAdmin() bool {
	return a.Role == RoleAdmin
}
