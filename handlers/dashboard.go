package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	"pasteleria-api/internal/consul"
	"pasteleria-api/pkg/ctxmanage"
	"pasteleria-api/pkg/logkey"

	"github.com/gin-gonic/gin"
)

func (h *Handler) DashboardSummary(c *gin.Context) {
	traceId := ctxmanage.GetTraceIdOfRequest(c)

	days, err := strconv.Atoi(c.DefaultQuery("days", "30"))
	if err != nil || days <= 0 || days > 365 {
		slog.Error("invalid days parameter", slog.String(logkey.TraceID, traceId))
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid days parameter"})
		return
	}

	summary, err := h.d.BuildSummary(c.Request.Context(), days)
	if err != nil {
		slog.Error("error building dashboard summary", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to build dashboard summary"})
		return
	}

	c.JSON(http.StatusOK, summary)
}

// ServiceStatus reports how this instance looks from the discovery side:
// whether Consul currently resolves a healthy address for it.
func (h *Handler) ServiceStatus(c *gin.Context) {
	traceId := ctxmanage.GetTraceIdOfRequest(c)

	if h.client == nil {
		c.JSON(http.StatusOK, gin.H{"service": ServiceName, "discovery": "disabled"})
		return
	}

	address, port, err := consul.GetServiceAddress(h.client, ServiceName)
	if err != nil {
		slog.Error("service not resolvable via consul", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
		c.JSON(http.StatusOK, gin.H{"service": ServiceName, "discovery": "unresolved"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"service":   ServiceName,
		"discovery": "healthy",
		"address":   address,
		"port":      port,
	})
}
