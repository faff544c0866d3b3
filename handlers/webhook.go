package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"pasteleria-api/internal/orders"
	"pasteleria-api/internal/stores/kafka"
	"pasteleria-api/pkg/logkey"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stripe/stripe-go/v81"
)

// Webhook receives Stripe events. A successful payment confirms the order and
// produces one order-paid event per line so stock consumers can decrement.
func (h *Handler) Webhook(c *gin.Context) {
	traceId := uuid.NewString()
	const MaxBodyBytes = int64(65536)

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, MaxBodyBytes)

	var event stripe.Event
	if err := c.ShouldBindJSON(&event); err != nil {
		slog.Error("failed to bind webhook event", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	switch event.Type {
	case "payment_intent.succeeded":
		var paymentIntent stripe.PaymentIntent
		if err := json.Unmarshal(event.Data.Raw, &paymentIntent); err != nil {
			slog.Error("failed to unmarshal payment intent", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		orderId := paymentIntent.Metadata["order_id"]
		productsJson := paymentIntent.Metadata["products"]
		userID := paymentIntent.Metadata["user_id"]
		slog.Info("payment intent succeeded", slog.String(logkey.TraceID, traceId),
			slog.String(logkey.OrderID, orderId), slog.String(logkey.UserID, userID),
			slog.String("PaymentIntentID", paymentIntent.ID))

		var lines []struct {
			ProductID int64 `json:"product_id"`
			Quantity  int   `json:"quantity"`
		}
		if err := json.Unmarshal([]byte(productsJson), &lines); err != nil {
			slog.Error("failed to unmarshal product metadata", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		go func() {
			for _, line := range lines {
				jsonData, err := json.Marshal(kafka.OrderPaidEvent{
					OrderId:   orderId,
					ProductId: strconv.FormatInt(line.ProductID, 10),
					Quantity:  line.Quantity,
					CreatedAt: time.Now().UTC(),
				})
				if err != nil {
					slog.Error("failed to marshal OrderPaidEvent", slog.String(logkey.ERROR, err.Error()))
					return
				}
				if err := h.k.ProduceMessage(kafka.TopicOrderPaid, []byte(orderId), jsonData); err != nil {
					slog.Error("failed to produce order-paid event", slog.String(logkey.ERROR, err.Error()))
					return
				}
			}
		}()

		if err := h.o.UpdateOrder(c.Request.Context(), orderId, orders.StatusConfirmed, paymentIntent.ID); err != nil {
			slog.Error("failed to confirm order", slog.String(logkey.TraceID, traceId),
				slog.String(logkey.OrderID, orderId), slog.String(logkey.ERROR, err.Error()))
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to update order"})
			return
		}

		c.Status(http.StatusOK)

	default:
		slog.Info("unhandled event type", slog.String("event_type", string(event.Type)))
		c.JSON(http.StatusOK, gin.H{
			"message": "Event type not handled",
			"event":   event.Type,
		})
	}
}
