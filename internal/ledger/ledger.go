// Package ledger exposes read access to the append-only sales and
// price-history logs. Entries are written by checkout and by product edits;
// nothing here mutates them.
package ledger

import (
	"context"

	"github.com/mekha7/mekha-store/internal/models"

	"gorm.io/gorm"
)

// RecentWindow is the number of trailing sales the dashboard chart shows.
const RecentWindow = 7

type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// RecentSales returns the last n ledger entries in insertion order.
func (s *Service) RecentSales(ctx context.Context, n int) ([]models.SaleRecord, error) {
	var records []models.SaleRecord
	err := s.db.WithContext(ctx).
		Preload("Items").
		Order("id DESC").
		Limit(n).
		Find(&records).Error
	if err != nil {
		return nil, err
	}
	// Query runs newest-first; flip back to insertion order.
	for i, j := 0, len(records)-1; i < j; i, j = i+1, j-1 {
		records[i], records[j] = records[j], records[i]
	}
	return records, nil
}

func (s *Service) TotalRevenue(ctx context.Context) (float64, error) {
	var total float64
	err := s.db.WithContext(ctx).
		Model(&models.SaleRecord{}).
		Select("COALESCE(SUM(total), 0)").
		Scan(&total).Error
	return total, err
}

func (s *Service) SalesCount(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.SaleRecord{}).Count(&count).Error
	return count, err
}

func (s *Service) PriceChanges(ctx context.Context) ([]models.PriceChange, error) {
	var changes []models.PriceChange
	err := s.db.WithContext(ctx).Order("id").Find(&changes).Error
	if err != nil {
		return nil, err
	}
	return changes, nil
}

// MaxTotal is the tallest bar of the recent-revenue chart: max(0, max of
// the records' totals). Never negative, zero for an empty window.
func MaxTotal(records []models.SaleRecord) float64 {
	var max float64
	for _, r := range records {
		if r.Total > max {
			max = r.Total
		}
	}
	return max
}
