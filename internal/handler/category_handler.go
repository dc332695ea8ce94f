package handler

import (
	"log"
	"net/http"

	"complaint_portal/internal/service"

	"github.com/gin-gonic/gin"
)

// CategoryHandler handles category listing requests
type CategoryHandler struct {
	service service.CategoryService
}

// NewCategoryHandler creates a new CategoryHandler
func NewCategoryHandler(s service.CategoryService) *CategoryHandler {
	return &CategoryHandler{service: s}
}

func (h *CategoryHandler) GetCategories(c *gin.Context) {
	categories, source, err := h.service.GetCategories(c.Request.Context())
	if err != nil {
		log.Printf("Error fetching categories: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch categories"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data":   categories,
		"source": source,
	})
}

// RegisterCategoryRoutes registers the public category routes
func (h *CategoryHandler) RegisterCategoryRoutes(rg *gin.RouterGroup) {
	rg.GET("/categories", h.GetCategories)
}
