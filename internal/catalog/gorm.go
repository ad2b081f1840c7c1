package catalog

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/mekha7/mekha-store/internal/models"

	"gorm.io/gorm"
)

// DateFormat is the human-readable timestamp stamped onto invoices and
// ledger entries.
const DateFormat = "02 Jan 2006, 03:04 PM"

type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) ListProducts(ctx context.Context, f ProductFilter) ([]models.Product, error) {
	var products []models.Product
	query := s.db.WithContext(ctx).Preload("Images").Order("id")

	if f.Search != "" {
		query = query.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(f.Search)+"%")
	}
	if f.Category != "" && f.Category != "All" {
		query = query.Where("category = ?", f.Category)
	}

	if err := query.Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

func (s *GormStore) GetProduct(ctx context.Context, id uint) (*models.Product, error) {
	var product models.Product
	err := s.db.WithContext(ctx).Preload("Images").First(&product, id).Error
	if err == gorm.ErrRecordNotFound {
		return nil, ErrProductNotFound
	}
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (s *GormStore) CreateProduct(ctx context.Context, in ProductInput) (*models.Product, error) {
	product, err := productFromInput(in)
	if err != nil {
		return nil, err
	}

	if err := s.db.WithContext(ctx).Create(product).Error; err != nil {
		return nil, err
	}
	return product, nil
}

func (s *GormStore) UpdateProduct(ctx context.Context, id uint, in ProductInput) (*models.Product, error) {
	updated, err := productFromInput(in)
	if err != nil {
		return nil, err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing models.Product
		if err := tx.First(&existing, id).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return ErrProductNotFound
			}
			return err
		}

		// Price-change ledger entry only for a set-to-set change; moving
		// between "ask price" and a value does not log.
		if existing.Price != nil && updated.Price != nil && *existing.Price != *updated.Price {
			change := models.PriceChange{
				ProductID: existing.ID,
				Name:      existing.Name,
				OldPrice:  *existing.Price,
				NewPrice:  *updated.Price,
				Date:      time.Now().Format(DateFormat),
			}
			if err := tx.Create(&change).Error; err != nil {
				return err
			}
		}

		updated.ID = existing.ID
		updated.CreatedAt = existing.CreatedAt
		if err := tx.Where("product_id = ?", existing.ID).Delete(&models.ProductImage{}).Error; err != nil {
			return err
		}
		for i := range updated.Images {
			updated.Images[i].ProductID = existing.ID
		}
		return tx.Save(updated).Error
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *GormStore) DeleteProduct(ctx context.Context, id uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Delete(&models.Product{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrProductNotFound
		}
		return tx.Where("product_id = ?", id).Delete(&models.ProductImage{}).Error
	})
}

func (s *GormStore) BulkImport(ctx context.Context, products []models.Product) (int, error) {
	if len(products) == 0 {
		return 0, nil
	}
	if err := s.db.WithContext(ctx).Create(&products).Error; err != nil {
		return 0, err
	}
	return len(products), nil
}

func (s *GormStore) LowStock(ctx context.Context, threshold int) ([]models.Product, error) {
	var products []models.Product
	err := s.db.WithContext(ctx).
		Where("stock > 0 AND stock < ?", threshold).
		Order("stock").
		Find(&products).Error
	if err != nil {
		return nil, err
	}
	return products, nil
}

func (s *GormStore) CategoryCounts(ctx context.Context) (map[string]int64, error) {
	rows, err := s.db.WithContext(ctx).
		Model(&models.Product{}).
		Select("category, COUNT(*)").
		Group("category").
		Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[string]int64)
	for rows.Next() {
		var category string
		var count int64
		if err := rows.Scan(&category, &count); err != nil {
			return nil, err
		}
		counts[category] = count
	}
	return counts, rows.Err()
}

func (s *GormStore) CommitSale(ctx context.Context, inv *models.Invoice, sale *models.SaleRecord) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(inv).Error; err != nil {
			return fmt.Errorf("create invoice: %w", err)
		}
		if err := tx.Create(sale).Error; err != nil {
			return fmt.Errorf("append sale record: %w", err)
		}
		for _, item := range inv.Items {
			if err := decrementStockClamped(tx, item.ProductID, item.Qty); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrStockWrite, err)
	}
	return nil
}

// decrementStockClamped applies newStock = max(0, stock - qty) as a single
// UPDATE so concurrent checkouts cannot interleave a read-then-write.
func decrementStockClamped(tx *gorm.DB, productID uint, qty int) error {
	var product models.Product
	if err := tx.Select("id").First(&product, productID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return ErrProductNotFound
		}
		return err
	}
	return tx.Model(&models.Product{}).
		Where("id = ?", productID).
		Update("stock", gorm.Expr("GREATEST(stock - ?, 0)", qty)).Error
}

func productFromInput(in ProductInput) (*models.Product, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, ErrNameRequired
	}

	category := strings.TrimSpace(in.Category)
	if category == "" {
		category = models.DefaultCategory
	}

	stock := in.Stock
	if stock < 0 {
		stock = 0
	}

	images := make([]models.ProductImage, 0, len(in.Images))
	for i, u := range in.Images {
		images = append(images, models.ProductImage{Position: i, URL: u})
	}

	return &models.Product{
		Name:        name,
		Category:    category,
		MRP:         in.MRP,
		Price:       in.Price,
		Stock:       stock,
		Description: strings.TrimSpace(in.Description),
		Images:      images,
	}, nil
}
