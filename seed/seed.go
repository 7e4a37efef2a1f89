package seed

import (
	"log"

	"github.com/KTZN/ShoppingCartApi/models"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Run populates an empty database with an admin account and a sample
// catalog. A database with any user is left untouched.
func Run(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.User{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte("admin123"), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	admin := models.User{
		Username:     "admin",
		PasswordHash: string(hash),
		Role:         models.RoleAdmin,
	}
	if err := db.Create(&admin).Error; err != nil {
		return err
	}

	products := []models.Product{
		{Name: "Laptop", Description: "High performance laptop", Price: decimal.RequireFromString("999.99"), StockQuantity: 10},
		{Name: "Smartphone", Description: "Latest smartphone", Price: decimal.RequireFromString("699.99"), StockQuantity: 20},
		{Name: "Headphones", Description: "Noise cancelling headphones", Price: decimal.RequireFromString("199.99"), StockQuantity: 30},
		{Name: "Keyboard", Description: "Mechanical keyboard", Price: decimal.RequireFromString("129.99"), StockQuantity: 15},
		{Name: "Mouse", Description: "Wireless mouse", Price: decimal.RequireFromString("49.99"), StockQuantity: 25},
	}
	if err := db.Create(&products).Error; err != nil {
		return err
	}

	log.Printf("seeded database: 1 admin, %d products", len(products))
	return nil
}
