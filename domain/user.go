package domain

import (
	"time"

	"gorm.io/gorm"
)

// User is an administrative account (admin/staff). Credential issuance lives
// outside this service; the seeded admin from config.BootDB is the only row
// this service ever writes.
type User struct {
	UserID    int            `gorm:"primaryKey;autoIncrement" json:"user_id"`
	Username  string         `gorm:"type:varchar(50);not null;unique" json:"username" valid:"required~Username is required"`
	Name      string         `gorm:"type:varchar(150);not null" json:"name"`
	Password  string         `gorm:"type:varchar(255);not null" json:"-"`
	Role      string         `gorm:"type:role_enum;not null" json:"role"`
	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}
