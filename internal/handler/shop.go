package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/mekha7/mekha-store/internal/cart"
	"github.com/mekha7/mekha-store/internal/catalog"
	"github.com/mekha7/mekha-store/internal/checkout"
	"github.com/mekha7/mekha-store/internal/notify"

	"github.com/gin-gonic/gin"
)

const sessionHeader = "X-Session-ID"

// ShopHandler serves the anonymous shopper flow: session, cart mutations,
// wishlist/compare and checkout.
type ShopHandler struct {
	Carts       *cart.Store
	Store       catalog.Store
	CheckoutSvc *checkout.Service
	WhatsApp    *notify.WhatsApp
}

func (h *ShopHandler) CreateSession(c *gin.Context) {
	c.JSON(http.StatusCreated, gin.H{"session_id": h.Carts.NewSession()})
}

// session validates the shopper's session header. Only ids issued by
// CreateSession are accepted, so arbitrary headers cannot allocate state.
func (h *ShopHandler) session(c *gin.Context) (string, bool) {
	id := c.GetHeader(sessionHeader)
	if id == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "X-Session-ID header required"})
		return "", false
	}
	if !h.Carts.Exists(id) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Unknown session"})
		return "", false
	}
	return id, true
}

func (h *ShopHandler) cartResponse(sid string) gin.H {
	return gin.H{
		"items":    h.Carts.Lines(sid),
		"total":    h.Carts.Total(sid),
		"wishlist": h.Carts.Wishlist(sid),
		"compare":  h.Carts.Compare(sid),
	}
}

func (h *ShopHandler) GetCart(c *gin.Context) {
	sid, ok := h.session(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, h.cartResponse(sid))
}

type addItemRequest struct {
	ProductID uint `json:"product_id" binding:"required"`
}

func (h *ShopHandler) AddItem(c *gin.Context) {
	sid, ok := h.session(c)
	if !ok {
		return
	}

	var req addItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	product, err := h.Store.GetProduct(c.Request.Context(), req.ProductID)
	if err != nil {
		if errors.Is(err, catalog.ErrProductNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch product"})
		return
	}

	// Out-of-stock products are silently skipped; the cart is returned
	// unchanged either way.
	h.Carts.Add(sid, *product)
	c.JSON(http.StatusOK, h.cartResponse(sid))
}

type updateQtyRequest struct {
	Qty string `json:"qty"`
}

func (h *ShopHandler) UpdateItem(c *gin.Context) {
	sid, ok := h.session(c)
	if !ok {
		return
	}
	productID, ok := productIDParam(c)
	if !ok {
		return
	}

	var req updateQtyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.Carts.UpdateQty(sid, productID, req.Qty); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, h.cartResponse(sid))
}

func (h *ShopHandler) RemoveItem(c *gin.Context) {
	sid, ok := h.session(c)
	if !ok {
		return
	}
	productID, ok := productIDParam(c)
	if !ok {
		return
	}

	h.Carts.Remove(sid, productID)
	c.JSON(http.StatusOK, h.cartResponse(sid))
}

func (h *ShopHandler) ToggleWishlist(c *gin.Context) {
	sid, ok := h.session(c)
	if !ok {
		return
	}
	productID, ok := productIDParam(c)
	if !ok {
		return
	}

	added := h.Carts.ToggleWishlist(sid, productID)
	c.JSON(http.StatusOK, gin.H{"added": added, "wishlist": h.Carts.Wishlist(sid)})
}

func (h *ShopHandler) ToggleCompare(c *gin.Context) {
	sid, ok := h.session(c)
	if !ok {
		return
	}
	productID, ok := productIDParam(c)
	if !ok {
		return
	}

	added, err := h.Carts.ToggleCompare(sid, productID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"added": added, "compare": h.Carts.Compare(sid)})
}

type feedbackRequest struct {
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
}

func (h *ShopHandler) SubmitFeedback(c *gin.Context) {
	sid, ok := h.session(c)
	if !ok {
		return
	}

	var req feedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.Carts.AddFeedback(sid, req.Rating, req.Comment); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"feedback": h.Carts.Feedbacks(sid)})
}

func (h *ShopHandler) ListFeedback(c *gin.Context) {
	sid, ok := h.session(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"feedback": h.Carts.Feedbacks(sid)})
}

type checkoutRequest struct {
	CustomerName    string `json:"customer_name"`
	CustomerPhone   string `json:"customer_phone"`
	CustomerAddress string `json:"customer_address"`
}

func (h *ShopHandler) Checkout(c *gin.Context) {
	sid, ok := h.session(c)
	if !ok {
		return
	}

	var req checkoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	inv, err := h.CheckoutSvc.GenerateInvoice(c.Request.Context(), sid,
		req.CustomerName, req.CustomerPhone, req.CustomerAddress)
	if err != nil {
		switch {
		case errors.Is(err, checkout.ErrMissingCustomerDetails),
			errors.Is(err, checkout.ErrEmptyCart):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, cart.ErrCheckoutInFlight):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		case errors.Is(err, cart.ErrSessionNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Checkout failed, cart preserved"})
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"invoice":      inv,
		"whatsapp_url": h.WhatsApp.Link(*inv),
	})
}

func productIDParam(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product id"})
		return 0, false
	}
	return uint(id), true
}
