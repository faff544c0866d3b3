package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"pasteleria-api/internal/contact"
	"pasteleria-api/internal/stores/kafka"
	"pasteleria-api/pkg/ctxmanage"
	"pasteleria-api/pkg/logkey"

	"github.com/gin-gonic/gin"
)

func (h *Handler) Contact(c *gin.Context) {
	traceId := ctxmanage.GetTraceIdOfRequest(c)

	var newMessage contact.NewMessage
	if err := c.ShouldBindJSON(&newMessage); err != nil {
		slog.Error("invalid request body", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	if err := h.validate.Struct(newMessage); err != nil {
		slog.Error("validation failed", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	m, err := h.ct.InsertMessage(c.Request.Context(), newMessage)
	if err != nil {
		slog.Error("error saving contact message", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to send message"})
		return
	}

	go func(msg contact.Message) {
		event := kafka.ContactReceivedEvent{
			Name:      msg.Name,
			Email:     msg.Email,
			Message:   msg.Message,
			CreatedAt: msg.CreatedAt,
		}
		jsonData, err := json.Marshal(event)
		if err != nil {
			slog.Error("failed to marshal ContactReceivedEvent", slog.String(logkey.ERROR, err.Error()))
			return
		}
		if err := h.k.ProduceMessage(kafka.TopicContactReceived, []byte(msg.Email), jsonData); err != nil {
			slog.Error("failed to produce contact-received event", slog.String(logkey.ERROR, err.Error()))
		}
	}(m)

	c.JSON(http.StatusOK, gin.H{"message": "Message received"})
}
