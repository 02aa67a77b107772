package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jpk1234556/machacoshostels/db"
	"github.com/jpk1234556/machacoshostels/services"
)

type PropertyHandler struct {
	PropertyService *services.PropertyService
}

func NewPropertyHandler(propertyService *services.PropertyService) *PropertyHandler {
	return &PropertyHandler{PropertyService: propertyService}
}

// ListProperties returns the caller's properties
// GET /properties
func (h *PropertyHandler) ListProperties(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}

	properties, err := h.PropertyService.List(c.Request.Context(), userID)
	if err != nil {
		respondServiceError(c, err, "list properties")
		return
	}

	c.JSON(http.StatusOK, gin.H{"properties": properties})
}

// GetProperty returns a single property
// GET /properties/{id}
func (h *PropertyHandler) GetProperty(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}

	property, err := h.PropertyService.Get(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		respondServiceError(c, err, "get property")
		return
	}

	c.JSON(http.StatusOK, gin.H{"property": property})
}

// CreateProperty creates a property owned by the caller
// POST /properties
func (h *PropertyHandler) CreateProperty(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}

	var req db.CreatePropertyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}

	property, err := h.PropertyService.Create(c.Request.Context(), userID, req)
	if err != nil {
		respondServiceError(c, err, "create property")
		return
	}

	c.JSON(http.StatusCreated, gin.H{"property": property})
}

// UpdateProperty applies a partial update
// PUT /properties/{id}
func (h *PropertyHandler) UpdateProperty(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}

	var req db.UpdatePropertyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}

	property, err := h.PropertyService.Update(c.Request.Context(), userID, c.Param("id"), req)
	if err != nil {
		respondServiceError(c, err, "update property")
		return
	}

	c.JSON(http.StatusOK, gin.H{"property": property})
}

// DeleteProperty removes a property and its dependent rows
// DELETE /properties/{id}
func (h *PropertyHandler) DeleteProperty(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}

	if err := h.PropertyService.Delete(c.Request.Context(), userID, c.Param("id")); err != nil {
		respondServiceError(c, err, "delete property")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Property deleted successfully"})
}
