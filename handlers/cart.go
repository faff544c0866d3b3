package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"pasteleria-api/internal/pricing"
	"pasteleria-api/internal/products"
	"pasteleria-api/pkg/ctxmanage"
	"pasteleria-api/pkg/logkey"

	"github.com/gin-gonic/gin"
)

func (h *Handler) AddToCart(c *gin.Context) {
	traceId := ctxmanage.GetTraceIdOfRequest(c)

	userId, ok := currentUserID(c)
	if !ok {
		return
	}

	var request struct {
		ProductID      int64  `json:"product_id"`
		Quantity       int    `json:"quantity"`
		MessageForCake string `json:"message_for_cake"`
	}
	if err := c.ShouldBindJSON(&request); err != nil {
		slog.Error("invalid request body", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"message": "Invalid request body"})
		return
	}

	if request.ProductID <= 0 || request.Quantity <= 0 {
		slog.Error("invalid product ID or quantity", slog.String(logkey.TraceID, traceId))
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"message": "Product ID and quantity must be valid"})
		return
	}

	stock, _, err := h.p.GetProductStockAndStripePriceId(c.Request.Context(), request.ProductID)
	if err != nil {
		if errors.Is(err, products.ErrNotFound) {
			slog.Error("product not found", slog.String(logkey.TraceID, traceId), slog.Int64("ProductID", request.ProductID))
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"message": "Product not found"})
			return
		}
		slog.Error("error fetching product details", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"message": "Failed to fetch product details"})
		return
	}

	if request.Quantity > stock {
		slog.Error("insufficient stock", slog.String(logkey.TraceID, traceId),
			slog.Int64("ProductID", request.ProductID), slog.Int("Requested", request.Quantity), slog.Int("Available", stock))
		c.AbortWithStatusJSON(http.StatusConflict, gin.H{"message": "Insufficient stock available"})
		return
	}

	err = h.cConf.AddToCartDB(c.Request.Context(), userId, request.ProductID, request.Quantity, stock, request.MessageForCake)
	if err != nil {
		slog.Error("error adding product to cart", slog.String(logkey.TraceID, traceId),
			slog.String(logkey.ERROR, err.Error()), slog.Int64("ProductID", request.ProductID), slog.Int("Quantity", request.Quantity))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"message": "Failed to add product to cart"})
		return
	}

	slog.Info("product added to cart", slog.String(logkey.TraceID, traceId),
		slog.Int64("ProductID", request.ProductID), slog.Int("Quantity", request.Quantity), slog.Int64("UserID", userId))
	c.JSON(http.StatusOK, gin.H{"message": "Product added to cart successfully"})
}

func (h *Handler) GetActiveCartItems(c *gin.Context) {
	traceId := ctxmanage.GetTraceIdOfRequest(c)

	userId, ok := currentUserID(c)
	if !ok {
		return
	}

	cartResponse, err := h.cConf.GetActiveCartItems(c.Request.Context(), userId)
	if err != nil {
		slog.Error("error fetching active cart items", slog.String(logkey.TraceID, traceId),
			slog.String(logkey.ERROR, err.Error()), slog.Int64("UserID", userId))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"message": "Failed to fetch cart items"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"items": cartResponse.Items})
}

func (h *Handler) UpdateCartQuantity(c *gin.Context) {
	traceId := ctxmanage.GetTraceIdOfRequest(c)

	userId, ok := currentUserID(c)
	if !ok {
		return
	}

	var request struct {
		ProductID int64 `json:"product_id"`
		Quantity  int   `json:"quantity"`
	}
	if err := c.ShouldBindJSON(&request); err != nil {
		slog.Error("invalid request body", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"message": "Invalid request body"})
		return
	}
	if request.ProductID <= 0 {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"message": "Product ID must be valid"})
		return
	}

	if err := h.cConf.UpdateQuantity(c.Request.Context(), userId, request.ProductID, request.Quantity); err != nil {
		slog.Error("error updating cart quantity", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"message": "Failed to update quantity"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Cart updated"})
}

func (h *Handler) UpdateCartMessage(c *gin.Context) {
	traceId := ctxmanage.GetTraceIdOfRequest(c)

	userId, ok := currentUserID(c)
	if !ok {
		return
	}

	var request struct {
		ProductID      int64  `json:"product_id"`
		MessageForCake string `json:"message_for_cake"`
	}
	if err := c.ShouldBindJSON(&request); err != nil {
		slog.Error("invalid request body", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"message": "Invalid request body"})
		return
	}
	if request.ProductID <= 0 {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"message": "Product ID must be valid"})
		return
	}

	if err := h.cConf.UpdateMessage(c.Request.Context(), userId, request.ProductID, request.MessageForCake); err != nil {
		slog.Error("error updating cake inscription", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"message": "Failed to update inscription"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Inscription updated"})
}

func (h *Handler) RemoveCartItem(c *gin.Context) {
	traceId := ctxmanage.GetTraceIdOfRequest(c)

	userId, ok := currentUserID(c)
	if !ok {
		return
	}

	productId, err := strconv.ParseInt(c.Param("productID"), 10, 64)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"message": "Product ID must be valid"})
		return
	}

	if err := h.cConf.RemoveItem(c.Request.Context(), userId, productId); err != nil {
		slog.Error("error removing cart item", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"message": "Failed to remove item"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Item removed"})
}

func (h *Handler) ClearCart(c *gin.Context) {
	traceId := ctxmanage.GetTraceIdOfRequest(c)

	userId, ok := currentUserID(c)
	if !ok {
		return
	}

	if err := h.cConf.ClearCart(c.Request.Context(), userId); err != nil {
		slog.Error("error clearing cart", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"message": "Failed to clear cart"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Cart cleared"})
}

// CartSummary runs the discount engine against the caller's current cart and
// profile snapshots and returns the itemized breakdown the storefront renders.
func (h *Handler) CartSummary(c *gin.Context) {
	traceId := ctxmanage.GetTraceIdOfRequest(c)

	userId, ok := currentUserID(c)
	if !ok {
		return
	}

	items, err := h.cConf.Snapshot(c.Request.Context(), userId)
	if err != nil {
		slog.Error("error fetching cart snapshot", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"message": "Failed to fetch cart"})
		return
	}

	user, err := h.u.GetByID(c.Request.Context(), userId)
	if err != nil {
		slog.Error("error fetching user profile", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"message": "Failed to fetch profile"})
		return
	}

	summary := pricing.ComputeOrderSummary(items, user.PricingProfile(), time.Now())
	c.JSON(http.StatusOK, summary)
}
