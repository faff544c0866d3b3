package handlers

import (
	"log/slog"
	"net/http"
	"os"
	"strconv"
	"time"

	"pasteleria-api/internal/pricing"
	"pasteleria-api/pkg/ctxmanage"
	"pasteleria-api/pkg/logkey"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stripe/stripe-go/v81"
	"github.com/stripe/stripe-go/v81/checkout/session"
)

// Checkout freezes the caller's cart into a PENDING order with the discount
// breakdown computed by the pricing engine, then opens a Stripe checkout
// session for it.
func (h *Handler) Checkout(c *gin.Context) {
	traceId := ctxmanage.GetTraceIdOfRequest(c)

	userId, ok := currentUserID(c)
	if !ok {
		return
	}

	items, err := h.cConf.Snapshot(c.Request.Context(), userId)
	if err != nil {
		slog.Error("failed to fetch cart items", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch cart items"})
		return
	}
	if len(items) == 0 {
		slog.Error("checkout with empty cart", slog.String(logkey.TraceID, traceId), slog.Int64("UserID", userId))
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Cart is empty"})
		return
	}

	user, err := h.u.GetByID(c.Request.Context(), userId)
	if err != nil {
		slog.Error("failed to fetch user profile", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch profile"})
		return
	}

	summary := pricing.ComputeOrderSummary(items, user.PricingProfile(), time.Now())

	// Stripe configuration
	sKey := os.Getenv("STRIPE_TEST_KEY")
	if sKey == "" {
		slog.Error("Stripe secret key not found", slog.String(logkey.TraceID, traceId))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Stripe secret key not found"})
		return
	}
	stripe.Key = sKey

	orderId := uuid.NewString()

	order, err := h.o.CreateOrder(c.Request.Context(), orderId, userId, items, summary)
	if err != nil {
		slog.Error("error creating order", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to create order"})
		return
	}

	// The charged amount is the engine total, so the session uses one ad hoc
	// price in CLP instead of per-product price ids; the per-line detail
	// travels in the metadata for the webhook.
	lineItems := []*stripe.CheckoutSessionLineItemParams{
		{
			PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
				Currency:   stripe.String(string(stripe.CurrencyCLP)),
				UnitAmount: stripe.Int64(int64(summary.Total)),
				ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
					Name: stripe.String("Pastelería 1000 Sabores — pedido " + orderId),
				},
			},
			Quantity: stripe.Int64(1),
		},
	}

	params := &stripe.CheckoutSessionParams{
		SubmitType:               stripe.String("pay"),
		Currency:                 stripe.String(string(stripe.CurrencyCLP)),
		BillingAddressCollection: stripe.String("auto"),
		LineItems:                lineItems,
		Mode:                     stripe.String(string(stripe.CheckoutSessionModePayment)),
		SuccessURL:               stripe.String(os.Getenv("CHECKOUT_SUCCESS_URL")),
		CancelURL:                stripe.String(os.Getenv("CHECKOUT_CANCEL_URL")),
		PaymentIntentData: &stripe.CheckoutSessionPaymentIntentDataParams{
			Metadata: map[string]string{
				"order_id": orderId,
				"user_id":  strconv.FormatInt(userId, 10),
				"products": encodeOrderLines(items),
			},
		},
	}
	sessionStripe, err := session.New(params)
	if err != nil {
		slog.Error("error creating Stripe checkout session", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to create Stripe checkout session"})
		return
	}

	slog.Info("checkout session created", slog.String(logkey.TraceID, traceId),
		slog.String(logkey.OrderID, orderId), slog.Int64("UserID", userId), slog.Float64("Total", summary.Total))

	c.JSON(http.StatusOK, gin.H{
		"checkout_session_url": sessionStripe.URL,
		"order":                order,
		"summary":              summary,
	})
}
