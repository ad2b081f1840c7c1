package database

import (
	"log"

	"github.com/mekha7/mekha-store/config"
	"github.com/mekha7/mekha-store/internal/models"
	"github.com/mekha7/mekha-store/internal/utils"

	"gorm.io/gorm"
)

// SeedAdmin creates the single back-office account from config defaults if
// it does not exist yet.
func SeedAdmin() {
	username := config.AppConfig.Defaults.AdminUsername
	if username == "" {
		log.Println("ADMIN_USERNAME not set, skipping admin seed")
		return
	}

	var admin models.AdminUser
	err := DB.Where("username = ?", username).First(&admin).Error
	if err == nil {
		return
	}
	if err != gorm.ErrRecordNotFound {
		log.Printf("Failed to look up admin user: %v", err)
		return
	}

	hashedPassword, err := utils.HashPassword(config.AppConfig.Defaults.AdminPassword)
	if err != nil {
		log.Printf("Failed to hash admin password: %v", err)
		return
	}

	admin = models.AdminUser{
		Username:     username,
		PasswordHash: hashedPassword,
	}
	if err := DB.Create(&admin).Error; err != nil {
		log.Printf("Failed to seed admin user: %v", err)
		return
	}
	log.Println("Admin user seeded successfully.")
}
