package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jpk1234556/machacoshostels/db"
	"github.com/jpk1234556/machacoshostels/services"
)

type UnitHandler struct {
	UnitService *services.UnitService
}

func NewUnitHandler(unitService *services.UnitService) *UnitHandler {
	return &UnitHandler{UnitService: unitService}
}

// ListUnits returns the caller's units, optionally scoped to one property
// GET /units?property_id=...
func (h *UnitHandler) ListUnits(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}

	units, err := h.UnitService.List(c.Request.Context(), userID, c.Query("property_id"))
	if err != nil {
		respondServiceError(c, err, "list units")
		return
	}

	c.JSON(http.StatusOK, gin.H{"units": units})
}

// GetUnit returns a single unit
// GET /units/{id}
func (h *UnitHandler) GetUnit(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}

	unit, err := h.UnitService.Get(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		respondServiceError(c, err, "get unit")
		return
	}

	c.JSON(http.StatusOK, gin.H{"unit": unit})
}

// CreateUnit adds a unit to a property the caller owns
// POST /units
func (h *UnitHandler) CreateUnit(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}

	var req db.CreateUnitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}

	unit, err := h.UnitService.Create(c.Request.Context(), userID, req)
	if err != nil {
		respondServiceError(c, err, "create unit")
		return
	}

	c.JSON(http.StatusCreated, gin.H{"unit": unit})
}

// UpdateUnit applies a partial update
// PUT /units/{id}
func (h *UnitHandler) UpdateUnit(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}

	var req db.UpdateUnitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}

	unit, err := h.UnitService.Update(c.Request.Context(), userID, c.Param("id"), req)
	if err != nil {
		respondServiceError(c, err, "update unit")
		return
	}

	c.JSON(http.StatusOK, gin.H{"unit": unit})
}

// DeleteUnit removes a unit
// DELETE /units/{id}
func (h *UnitHandler) DeleteUnit(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}

	if err := h.UnitService.Delete(c.Request.Context(), userID, c.Param("id")); err != nil {
		respondServiceError(c, err, "delete unit")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Unit deleted successfully"})
}
