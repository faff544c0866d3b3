package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"pasteleria-api/internal/orders"
	"pasteleria-api/internal/pricing"
	"pasteleria-api/pkg/ctxmanage"
	"pasteleria-api/pkg/logkey"

	"github.com/gin-gonic/gin"
)

// encodeOrderLines packs the order lines into the compact JSON the Stripe
// metadata and the order-paid events carry.
func encodeOrderLines(items []pricing.LineItem) string {
	type line struct {
		ProductID int64 `json:"product_id"`
		Quantity  int   `json:"quantity"`
	}
	lines := make([]line, 0, len(items))
	for _, it := range items {
		lines = append(lines, line{ProductID: it.ProductID, Quantity: it.Quantity})
	}
	out, err := json.Marshal(lines)
	if err != nil {
		slog.Error("failed to marshal order lines", slog.String(logkey.ERROR, err.Error()))
		return "[]"
	}
	return string(out)
}

func (h *Handler) MyOrders(c *gin.Context) {
	traceId := ctxmanage.GetTraceIdOfRequest(c)

	userId, ok := currentUserID(c)
	if !ok {
		return
	}

	list, err := h.o.ListByUser(c.Request.Context(), userId)
	if err != nil {
		slog.Error("error listing orders", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch orders"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"orders": list})
}

func (h *Handler) AllOrders(c *gin.Context) {
	traceId := ctxmanage.GetTraceIdOfRequest(c)

	list, err := h.o.ListAll(c.Request.Context())
	if err != nil {
		slog.Error("error listing orders", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch orders"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"orders": list})
}

func (h *Handler) UpdateOrderStatus(c *gin.Context) {
	traceId := ctxmanage.GetTraceIdOfRequest(c)

	orderId := c.Param("id")
	if orderId == "" {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Order ID is required"})
		return
	}

	var request struct {
		Status string `json:"status"`
	}
	if err := c.ShouldBindJSON(&request); err != nil {
		slog.Error("invalid request body", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	if !orders.ValidStatus(request.Status) {
		slog.Error("invalid order status", slog.String(logkey.TraceID, traceId), slog.String("Status", request.Status))
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid order status"})
		return
	}

	if err := h.o.UpdateOrder(c.Request.Context(), orderId, request.Status, ""); err != nil {
		if errors.Is(err, orders.ErrNotFound) {
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "Order not found"})
			return
		}
		slog.Error("error updating order", slog.String(logkey.TraceID, traceId),
			slog.String(logkey.OrderID, orderId), slog.String(logkey.ERROR, err.Error()))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to update order"})
		return
	}

	order, err := h.o.GetByID(c.Request.Context(), orderId)
	if err != nil {
		slog.Error("error fetching updated order", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch order"})
		return
	}

	slog.Info("order status updated", slog.String(logkey.TraceID, traceId),
		slog.String(logkey.OrderID, orderId), slog.String("Status", request.Status))
	c.JSON(http.StatusOK, order)
}
