package models

import (
	"time"
)

// DefaultCategory is assigned when a product is created or imported
// without a category.
const DefaultCategory = "Misc"

type Product struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	Name        string         `gorm:"size:150;not null" json:"name"`
	Category    string         `gorm:"size:100;not null;default:'Misc'" json:"category"`
	MRP         *float64       `gorm:"type:decimal(10,2)" json:"mrp"`
	Price       *float64       `gorm:"type:decimal(10,2)" json:"price"`
	Stock       int            `gorm:"not null;default:0" json:"stock"`
	Description string         `gorm:"type:text" json:"description"`
	Images      []ProductImage `gorm:"foreignKey:ProductID" json:"images"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

// UnitPrice returns the selling price, treating an unpriced ("ask price")
// product as contributing zero.
func (p Product) UnitPrice() float64 {
	if p.Price == nil {
		return 0
	}
	return *p.Price
}

type ProductImage struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	ProductID uint   `gorm:"index" json:"product_id"`
	Position  int    `json:"position"`
	URL       string `gorm:"type:text" json:"url"`
}
