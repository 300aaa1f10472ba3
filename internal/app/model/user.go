package model

import (
	"time"

	"gorm.io/gorm"
)

type UserRole string

const (
	RoleSuperAdmin UserRole = "super_admin"
	RoleAdmin      UserRole = "admin"
	RoleSales      UserRole = "sales"
	RoleViewer     UserRole = "viewer"
)

// User is an operator account scoped to a business. Usernames are unique
// within their business, not globally. During sync the password hash travels
// as-is; plaintext passwords never leave the process.
type User struct {
	ID           uint           `gorm:"primarykey" json:"id"`
	BusinessID   uint           `gorm:"not null;uniqueIndex:idx_users_business_username" json:"business_id"`
	Username     string         `gorm:"not null;uniqueIndex:idx_users_business_username" json:"username"`
	PasswordHash string         `gorm:"not null" json:"-"`
	Role         UserRole       `gorm:"type:varchar(20);default:'sales'" json:"role"`
	Active       bool           `gorm:"default:true" json:"active"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`

	Business *Business `gorm:"foreignKey:BusinessID" json:"-"`
}

func (User) TableName() string {
	return "users"
}
