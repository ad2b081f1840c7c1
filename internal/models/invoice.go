package models

import (
	"time"
)

// Invoice is the immutable record of a completed checkout. Items and total
// are frozen copies of the cart at generation time; later cart or catalog
// edits never touch a stored invoice.
type Invoice struct {
	ID              uint          `gorm:"primaryKey" json:"id"`
	// InvoiceNo is human-scannable, not globally unique: the number space
	// cycles, and a repeat must never fail a checkout, so no unique index.
	InvoiceNo       string        `gorm:"size:50;not null;index" json:"invoice_no"`
	Date            string        `gorm:"size:50;not null" json:"date"`
	IssuedAt        time.Time     `gorm:"default:CURRENT_TIMESTAMP" json:"issued_at"`
	CustomerName    string        `gorm:"size:100;not null" json:"customer_name"`
	CustomerPhone   string        `gorm:"size:20;not null" json:"customer_phone"`
	CustomerAddress string        `gorm:"type:text;not null" json:"customer_address"`
	Total           float64       `gorm:"type:decimal(10,2);not null" json:"total"`
	Items           []InvoiceItem `gorm:"foreignKey:InvoiceID" json:"items"`
}

type InvoiceItem struct {
	ID        uint    `gorm:"primaryKey" json:"id"`
	InvoiceID uint    `gorm:"index" json:"invoice_id"`
	ProductID uint    `json:"product_id"`
	Name      string  `gorm:"size:150" json:"name"`
	Qty       int     `json:"qty"`
	UnitPrice float64 `gorm:"type:decimal(10,2)" json:"unit_price"`
	LineTotal float64 `gorm:"type:decimal(10,2)" json:"line_total"`
}
