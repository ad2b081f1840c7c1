package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/mekha7/mekha-store/config"
	"github.com/mekha7/mekha-store/internal/cart"
	"github.com/mekha7/mekha-store/internal/catalog"
	"github.com/mekha7/mekha-store/internal/ledger"

	"github.com/gin-gonic/gin"
)

// AdminHandler serves the back-office: product management, bulk
// import/export, ledgers and the dashboard.
type AdminHandler struct {
	Store  catalog.Store
	Carts  *cart.Store
	Ledger *ledger.Service
}

func (h *AdminHandler) ListProducts(c *gin.Context) {
	products, err := h.Store.ListProducts(c.Request.Context(), catalog.ProductFilter{
		Search:   c.Query("q"),
		Category: c.Query("category"),
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch products"})
		return
	}
	c.JSON(http.StatusOK, products)
}

func (h *AdminHandler) CreateProduct(c *gin.Context) {
	var req catalog.ProductInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	product, err := h.Store.CreateProduct(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, catalog.ErrNameRequired) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create product"})
		return
	}
	c.JSON(http.StatusCreated, product)
}

func (h *AdminHandler) UpdateProduct(c *gin.Context) {
	productID, ok := productIDParam(c)
	if !ok {
		return
	}

	var req catalog.ProductInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	product, err := h.Store.UpdateProduct(c.Request.Context(), productID, req)
	if err != nil {
		switch {
		case errors.Is(err, catalog.ErrProductNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		case errors.Is(err, catalog.ErrNameRequired):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update product"})
		}
		return
	}
	c.JSON(http.StatusOK, product)
}

func (h *AdminHandler) DeleteProduct(c *gin.Context) {
	productID, ok := productIDParam(c)
	if !ok {
		return
	}

	if err := h.Store.DeleteProduct(c.Request.Context(), productID); err != nil {
		if errors.Is(err, catalog.ErrProductNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete product"})
		return
	}

	// Cascade into every active shopper session.
	h.Carts.RemoveProductEverywhere(productID)

	c.JSON(http.StatusOK, gin.H{"message": "Product deleted"})
}

func (h *AdminHandler) GetLowStockAlerts(c *gin.Context) {
	products, err := h.Store.LowStock(c.Request.Context(), config.AppConfig.Defaults.LowStockThreshold)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch alerts"})
		return
	}
	c.JSON(http.StatusOK, products)
}

func (h *AdminHandler) GetDashboardStats(c *gin.Context) {
	ctx := c.Request.Context()

	totalRevenue, err := h.Ledger.TotalRevenue(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch revenue"})
		return
	}
	salesCount, err := h.Ledger.SalesCount(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch sales count"})
		return
	}
	recent, err := h.Ledger.RecentSales(ctx, ledger.RecentWindow)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch recent sales"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"metrics": gin.H{
			"totalRevenue": totalRevenue,
			"salesCount":   salesCount,
		},
		"charts": gin.H{
			"recentSales": recent,
			"recentMax":   ledger.MaxTotal(recent),
		},
	})
}

func (h *AdminHandler) ListSales(c *gin.Context) {
	limit := 50
	if raw := c.Query("limit"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v > 0 {
			limit = v
		}
	}

	records, err := h.Ledger.RecentSales(c.Request.Context(), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch sales history"})
		return
	}
	c.JSON(http.StatusOK, records)
}

func (h *AdminHandler) ListPriceHistory(c *gin.Context) {
	changes, err := h.Ledger.PriceChanges(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch price history"})
		return
	}
	c.JSON(http.StatusOK, changes)
}

func (h *AdminHandler) ExportProductsCSV(c *gin.Context) {
	products, err := h.Store.ListProducts(c.Request.Context(), catalog.ProductFilter{})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch products"})
		return
	}

	data, err := catalog.ProductsCSV(products)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to build CSV"})
		return
	}

	c.Header("Content-Disposition", `attachment; filename="products.csv"`)
	c.Data(http.StatusOK, "text/csv", data)
}

func (h *AdminHandler) ImportProductsCSV(c *gin.Context) {
	products, err := catalog.ParseProductsCSV(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	count, err := h.Store.BulkImport(c.Request.Context(), products)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to import products"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"imported": count})
}
