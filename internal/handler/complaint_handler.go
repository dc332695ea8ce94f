package handler

import (
	"errors"
	"log"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"complaint_portal/internal/middleware"
	"complaint_portal/internal/model"
	"complaint_portal/internal/service"

	"github.com/gin-gonic/gin"
)

// ComplaintHandler handles complaint related requests
type ComplaintHandler struct {
	service service.ComplaintService
}

// NewComplaintHandler creates a new ComplaintHandler
func NewComplaintHandler(s service.ComplaintService) *ComplaintHandler {
	return &ComplaintHandler{service: s}
}

// Helper to get authenticated user ID from context
func getAuthUserID(c *gin.Context) (int64, error) {
	userIDVal, exists := c.Get(middleware.AuthUserKey)
	if !exists {
		return 0, errors.New("user ID not found in context")
	}
	userID, ok := userIDVal.(int64)
	if !ok {
		return 0, errors.New("invalid user ID type in context")
	}
	return userID, nil
}

// CreateComplaint accepts either a JSON body or a multipart form carrying an
// evidence file. Both paths funnel into the same service call.
func (h *ComplaintHandler) CreateComplaint(c *gin.Context) {
	userID, err := getAuthUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	var req model.CreateComplaintRequest
	var evidence *multipart.FileHeader

	contentType := c.ContentType()
	if strings.HasPrefix(contentType, "multipart/form-data") {
		req, evidence, err = bindMultipartComplaint(c)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	} else {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
			return
		}
	}

	complaint, err := h.service.CreateComplaint(c.Request.Context(), userID, req, evidence)
	if err != nil {
		if errors.Is(err, service.ErrInvalidFileFormat) || errors.Is(err, service.ErrFileSizeExceeded) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		log.Printf("Error creating complaint: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create complaint"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Complaint registered successfully",
		"data":    complaint,
	})
}

func bindMultipartComplaint(c *gin.Context) (model.CreateComplaintRequest, *multipart.FileHeader, error) {
	var req model.CreateComplaintRequest

	req.Title = c.PostForm("title")
	req.Description = c.PostForm("description")
	if req.Title == "" || req.Description == "" {
		return req, nil, errors.New("title and description are required")
	}

	categoryStr := c.PostForm("category")
	if categoryStr == "" {
		return req, nil, errors.New("category is required")
	}
	categoryID, err := strconv.Atoi(categoryStr)
	if err != nil {
		return req, nil, errors.New("invalid category value")
	}
	req.CategoryID = categoryID

	if latStr := c.PostForm("latitude"); latStr != "" {
		lat, err := strconv.ParseFloat(latStr, 64)
		if err != nil {
			return req, nil, errors.New("invalid latitude value")
		}
		req.Latitude = lat
	}
	if lonStr := c.PostForm("longitude"); lonStr != "" {
		lon, err := strconv.ParseFloat(lonStr, 64)
		if err != nil {
			return req, nil, errors.New("invalid longitude value")
		}
		req.Longitude = lon
	}
	if isPublicStr := c.PostForm("is_public"); isPublicStr != "" {
		isPublic, err := strconv.ParseBool(isPublicStr)
		if err != nil {
			return req, nil, errors.New("invalid is_public value")
		}
		req.IsPublic = isPublic
	}
	if district := c.PostForm("district"); district != "" {
		req.District = &district
	}

	// Evidence file is optional
	file, err := c.FormFile("evidence")
	if err != nil {
		return req, nil, nil
	}
	return req, file, nil
}

func (h *ComplaintHandler) GetMyComplaints(c *gin.Context) {
	userID, err := getAuthUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	complaints, err := h.service.GetMyComplaints(c.Request.Context(), userID)
	if err != nil {
		log.Printf("Error getting user complaints: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve complaints"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": complaints})
}

// GetFilteredComplaints serves the triage feed. Every filter is optional;
// an unfiltered request returns the full feed in the same envelope.
func (h *ComplaintHandler) GetFilteredComplaints(c *gin.Context) {
	var filters model.ComplaintFilters
	if district := c.Query("district"); district != "" {
		filters.District = &district
	}
	if categoryStr := c.Query("category"); categoryStr != "" {
		categoryID, err := strconv.Atoi(categoryStr)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid category format"})
			return
		}
		filters.CategoryID = &categoryID
	}
	if status := c.Query("status"); status != "" {
		filters.Status = &status
	}
	if userIDStr := c.Query("userid"); userIDStr != "" {
		userID, err := strconv.ParseInt(userIDStr, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid userid format"})
			return
		}
		filters.UserID = &userID
	}

	complaints, err := h.service.GetFilteredComplaints(c.Request.Context(), filters)
	if err != nil {
		log.Printf("Error getting filtered complaints: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve complaints"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "Complaints retrieved successfully",
		"data":    complaints,
	})
}

func (h *ComplaintHandler) AddUpdate(c *gin.Context) {
	officialID, err := getAuthUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	complaintID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid complaint ID"})
		return
	}

	var req model.AddUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	update, err := h.service.AddUpdate(c.Request.Context(), complaintID, officialID, req)
	if err != nil {
		if errors.Is(err, service.ErrComplaintNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		} else {
			log.Printf("Error adding complaint update: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add complaint update"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Status updated",
		"details": update,
	})
}

// RegisterComplaintRoutes registers complaint routes
func (h *ComplaintHandler) RegisterComplaintRoutes(rg *gin.RouterGroup, authMW, userMW, triageMW, officialMW gin.HandlerFunc) {
	// Citizen routes
	citizenRoutes := rg.Group("/complaints")
	citizenRoutes.Use(authMW)
	{
		citizenRoutes.POST("", userMW, h.CreateComplaint)
		citizenRoutes.GET("/my", userMW, h.GetMyComplaints)
		// Triage feed for officials and admins; filters are query params
		citizenRoutes.GET("", triageMW, h.GetFilteredComplaints)
	}

	// Official triage routes
	officialRoutes := rg.Group("/official")
	officialRoutes.Use(authMW)
	officialRoutes.Use(officialMW)
	{
		officialRoutes.POST("/complaints/:id/updates", h.AddUpdate)
	}
}
