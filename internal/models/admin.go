package models

import (
	"time"
)

// AdminUser is the single back-office account. Shoppers never log in.
type AdminUser struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Username     string    `gorm:"size:50;unique;not null" json:"username"`
	PasswordHash string    `gorm:"size:255;not null" json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type LoginHistory struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	AdminUserID uint      `gorm:"index" json:"admin_user_id"`
	LoginTime   time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"login_time"`
	IPAddress   string    `gorm:"size:45" json:"ip_address"`
}
