// Package catalog is the system of record for product data. The rest of
// the application talks to it through the Store interface; the shipped
// implementation is backed by MySQL via gorm.
package catalog

import (
	"context"
	"errors"

	"github.com/mekha7/mekha-store/internal/models"
)

var (
	ErrProductNotFound = errors.New("product not found")
	ErrNameRequired    = errors.New("product name is required")
	ErrStockWrite      = errors.New("stock write failed")
)

// ProductFilter narrows ListProducts. Zero values match everything.
type ProductFilter struct {
	Search   string
	Category string
}

// ProductInput carries admin-entered product fields. Nil MRP/Price mean
// "ask price"; they are stored as NULL, never coerced to zero.
type ProductInput struct {
	Name        string   `json:"name"`
	Category    string   `json:"category"`
	MRP         *float64 `json:"mrp"`
	Price       *float64 `json:"price"`
	Stock       int      `json:"stock"`
	Description string   `json:"description"`
	Images      []string `json:"images"`
}

type Store interface {
	ListProducts(ctx context.Context, f ProductFilter) ([]models.Product, error)
	GetProduct(ctx context.Context, id uint) (*models.Product, error)
	CreateProduct(ctx context.Context, in ProductInput) (*models.Product, error)

	// UpdateProduct overwrites the product's fields. When the old and new
	// price are both set and differ, a PriceChange ledger entry is written
	// in the same transaction.
	UpdateProduct(ctx context.Context, id uint, in ProductInput) (*models.Product, error)

	DeleteProduct(ctx context.Context, id uint) error
	BulkImport(ctx context.Context, products []models.Product) (int, error)
	LowStock(ctx context.Context, threshold int) ([]models.Product, error)
	CategoryCounts(ctx context.Context) (map[string]int64, error)

	// CommitSale persists the invoice and sales-ledger entry and applies a
	// clamped stock decrement for every line, all in one transaction. Any
	// failure rolls the whole sale back.
	CommitSale(ctx context.Context, inv *models.Invoice, sale *models.SaleRecord) error
}
