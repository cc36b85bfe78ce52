package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// UserAuth represents a login account (yard admin or customer contact)
type UserAuth struct {
	ID           uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	Email        string         `gorm:"unique;not null" json:"email"`
	PasswordHash string         `gorm:"not null" json:"-"`
	Name         string         `json:"name"`
	Role         string         `gorm:"type:varchar(20);default:'customer'" json:"role"` // admin, customer
	CompanyID    *uuid.UUID     `gorm:"type:uuid;index" json:"company_id,omitempty"`     // nil for yard staff
	IsActive     bool           `gorm:"default:true" json:"is_active"`
	LastLoginAt  *time.Time     `json:"last_login_at,omitempty"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`

	// Relations
	Company *Company `gorm:"foreignKey:CompanyID" json:"company,omitempty"`
}

// TableName specifies the table name for UserAuth model
func (UserAuth) TableName() string {
	return "user_auth"
}
