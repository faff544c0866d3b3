package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"pasteleria-api/internal/blog"
	"pasteleria-api/pkg/ctxmanage"
	"pasteleria-api/pkg/logkey"

	"github.com/gin-gonic/gin"
)

func (h *Handler) ListBlogPosts(c *gin.Context) {
	traceId := ctxmanage.GetTraceIdOfRequest(c)

	posts, err := h.b.ListPosts(c.Request.Context())
	if err != nil {
		slog.Error("error listing blog posts", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch blog posts"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"posts": posts})
}

func (h *Handler) GetBlogPost(c *gin.Context) {
	traceId := ctxmanage.GetTraceIdOfRequest(c)

	id := c.Param("id")
	post, err := h.b.GetPostByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, blog.ErrNotFound) {
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "Blog post not found"})
			return
		}
		slog.Error("error fetching blog post", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch blog post"})
		return
	}

	c.JSON(http.StatusOK, post)
}

func (h *Handler) CreateBlogPost(c *gin.Context) {
	traceId := ctxmanage.GetTraceIdOfRequest(c)

	var newPost blog.NewPost
	if err := c.ShouldBindJSON(&newPost); err != nil {
		slog.Error("invalid request body", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	if err := h.validate.Struct(newPost); err != nil {
		slog.Error("validation failed", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	post, err := h.b.InsertPost(c.Request.Context(), newPost)
	if err != nil {
		slog.Error("error inserting blog post", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to create blog post"})
		return
	}

	c.JSON(http.StatusOK, post)
}
