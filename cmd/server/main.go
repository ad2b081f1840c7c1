package main

import (
	"log"
	"time"

	"github.com/mekha7/mekha-store/config"
	"github.com/mekha7/mekha-store/internal/cart"
	"github.com/mekha7/mekha-store/internal/catalog"
	"github.com/mekha7/mekha-store/internal/checkout"
	"github.com/mekha7/mekha-store/internal/handler"
	"github.com/mekha7/mekha-store/internal/ledger"
	"github.com/mekha7/mekha-store/internal/middleware"
	"github.com/mekha7/mekha-store/internal/models"
	"github.com/mekha7/mekha-store/internal/notify"
	"github.com/mekha7/mekha-store/pkg/database"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func main() {
	// 1. Load Configuration
	config.LoadConfig()

	// 2. Connect to Database
	database.Connect()

	// 3. Auto-Migrate Models
	log.Println("Running migrations...")
	err := database.DB.AutoMigrate(
		&models.AdminUser{},
		&models.LoginHistory{},
		&models.Product{},
		&models.ProductImage{},
		&models.Invoice{},
		&models.InvoiceItem{},
		&models.SaleRecord{},
		&models.SaleItem{},
		&models.PriceChange{},
	)
	if err != nil {
		log.Fatalf("Migration failed: %v", err)
	}
	log.Println("Migrations completed successfully.")

	// 3a. Seed Data
	database.SeedAdmin()

	// 4. Build Services
	store := catalog.NewGormStore(database.DB)
	carts := cart.NewStore()
	ledgerSvc := ledger.NewService(database.DB)
	whatsapp := notify.NewWhatsApp(
		config.AppConfig.Defaults.CompanyName,
		config.AppConfig.Defaults.CompanyPhone,
	)
	checkoutSvc := checkout.NewService(carts, store, whatsapp, config.AppConfig.Defaults.InvoicePrefix)

	// 5. Initialize Router
	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowAllOrigins:  true,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Session-ID"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// 6. Setup Routes
	authHandler := &handler.AuthHandler{}
	authRoutes := r.Group("/api/v1/auth")
	{
		authRoutes.POST("/login", authHandler.Login)
	}

	publicHandler := &handler.PublicHandler{Store: store}
	publicRoutes := r.Group("/api/v1/public")
	{
		publicRoutes.GET("/config", publicHandler.GetPublicConfig)
		publicRoutes.GET("/site-info", publicHandler.GetSiteInfo)
		publicRoutes.GET("/products", publicHandler.ListProducts)
		publicRoutes.GET("/categories", publicHandler.ListCategories)
	}

	shopHandler := &handler.ShopHandler{
		Carts:       carts,
		Store:       store,
		CheckoutSvc: checkoutSvc,
		WhatsApp:    whatsapp,
	}
	shopRoutes := r.Group("/api/v1/shop")
	{
		shopRoutes.POST("/session", shopHandler.CreateSession)
		shopRoutes.GET("/cart", shopHandler.GetCart)
		shopRoutes.POST("/cart/items", shopHandler.AddItem)
		shopRoutes.PUT("/cart/items/:id", shopHandler.UpdateItem)
		shopRoutes.DELETE("/cart/items/:id", shopHandler.RemoveItem)
		shopRoutes.POST("/wishlist/:id", shopHandler.ToggleWishlist)
		shopRoutes.POST("/compare/:id", shopHandler.ToggleCompare)
		shopRoutes.POST("/feedback", shopHandler.SubmitFeedback)
		shopRoutes.GET("/feedback", shopHandler.ListFeedback)
		shopRoutes.POST("/checkout", shopHandler.Checkout)
	}

	adminHandler := &handler.AdminHandler{
		Store:  store,
		Carts:  carts,
		Ledger: ledgerSvc,
	}
	adminRoutes := r.Group("/api/v1/admin")
	adminRoutes.Use(middleware.AuthMiddleware())
	{
		adminRoutes.PUT("/password", authHandler.ChangePassword)
		adminRoutes.GET("/products", adminHandler.ListProducts)
		adminRoutes.POST("/products", adminHandler.CreateProduct)
		adminRoutes.PUT("/products/:id", adminHandler.UpdateProduct)
		adminRoutes.DELETE("/products/:id", adminHandler.DeleteProduct)
		adminRoutes.GET("/products/export", adminHandler.ExportProductsCSV)
		adminRoutes.POST("/products/import", adminHandler.ImportProductsCSV)
		adminRoutes.GET("/alerts", adminHandler.GetLowStockAlerts)
		adminRoutes.GET("/dashboard", adminHandler.GetDashboardStats)
		adminRoutes.GET("/sales", adminHandler.ListSales)
		adminRoutes.GET("/price-history", adminHandler.ListPriceHistory)
	}

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"message": "pong",
		})
	})

	// 7. Start Server
	port := config.AppConfig.Server.Port
	if port == "" {
		port = "8080"
	}
	log.Printf("Server starting on port %s", port)
	if err := r.Run(":" + port); err != nil {
		log.Fatalf("Failed to run server: %v", err)
	}
}
