package handler

import (
	"fmt"
	"net/http"
	"sort"

	"github.com/mekha7/mekha-store/config"
	"github.com/mekha7/mekha-store/internal/catalog"
	"github.com/mekha7/mekha-store/internal/models"

	"github.com/gin-gonic/gin"
)

type PublicHandler struct {
	Store catalog.Store
}

func (h *PublicHandler) GetSiteInfo(c *gin.Context) {
	c.JSON(http.StatusOK, config.AppConfig.Site)
}

func (h *PublicHandler) GetPublicConfig(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"company_name":    config.AppConfig.Defaults.CompanyName,
		"company_logo":    config.AppConfig.Defaults.CompanyLogo,
		"company_address": config.AppConfig.Defaults.CompanyAddress,
		"company_phone":   config.AppConfig.Defaults.CompanyPhone,
		"company_email":   config.AppConfig.Defaults.CompanyEmail,
	})
}

type shopProduct struct {
	models.Product
	StockLabel string `json:"stock_label"`
}

func (h *PublicHandler) ListProducts(c *gin.Context) {
	products, err := h.Store.ListProducts(c.Request.Context(), catalog.ProductFilter{
		Search:   c.Query("q"),
		Category: c.Query("category"),
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch products"})
		return
	}

	out := make([]shopProduct, 0, len(products))
	for _, p := range products {
		out = append(out, shopProduct{Product: p, StockLabel: stockLabel(p)})
	}
	c.JSON(http.StatusOK, out)
}

func (h *PublicHandler) ListCategories(c *gin.Context) {
	counts, err := h.Store.CategoryCounts(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch categories"})
		return
	}

	names := make([]string, 0, len(counts))
	for name := range counts {
		names = append(names, name)
	}
	sort.Strings(names)

	c.JSON(http.StatusOK, gin.H{
		"categories": names,
		"counts":     counts,
	})
}

func stockLabel(p models.Product) string {
	lowStockThreshold := config.AppConfig.Defaults.LowStockThreshold
	switch {
	case p.Stock <= 0:
		return "Out of stock"
	case p.Stock < lowStockThreshold:
		return fmt.Sprintf("Only %d left", p.Stock)
	default:
		return fmt.Sprintf("%d in stock", p.Stock)
	}
}
