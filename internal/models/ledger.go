package models

import (
	"time"
)

// SaleRecord is one entry in the append-only sales ledger. Records are
// never updated or deleted once written.
type SaleRecord struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	SaleID    int64      `gorm:"not null;index" json:"sale_id"` // epoch millis at generation
	Date      string     `gorm:"size:50;not null" json:"date"`
	Total     float64    `gorm:"type:decimal(10,2);not null" json:"total"`
	Items     []SaleItem `gorm:"foreignKey:SaleRecordID" json:"items"`
	CreatedAt time.Time  `json:"created_at"`
}

type SaleItem struct {
	ID           uint    `gorm:"primaryKey" json:"id"`
	SaleRecordID uint    `gorm:"index" json:"sale_record_id"`
	ProductID    uint    `json:"product_id"`
	Name         string  `gorm:"size:150" json:"name"`
	Qty          int     `json:"qty"`
	Price        float64 `gorm:"type:decimal(10,2)" json:"price"`
}

// PriceChange records one admin price edit. Written only when both the old
// and the new price are set and differ; immutable once written.
type PriceChange struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	ProductID uint      `gorm:"not null;index" json:"product_id"`
	Name      string    `gorm:"size:150" json:"name"`
	OldPrice  float64   `gorm:"type:decimal(10,2);not null" json:"old_price"`
	NewPrice  float64   `gorm:"type:decimal(10,2);not null" json:"new_price"`
	Date      string    `gorm:"size:50;not null" json:"date"`
	CreatedAt time.Time `json:"created_at"`
}
