package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jpk1234556/machacoshostels/db"
	"github.com/jpk1234556/machacoshostels/services"
)

type PaymentHandler struct {
	PaymentService *services.PaymentService
}

func NewPaymentHandler(paymentService *services.PaymentService) *PaymentHandler {
	return &PaymentHandler{PaymentService: paymentService}
}

// ListPayments returns the caller's payments, optionally for one lease
// GET /payments?lease_id=...
func (h *PaymentHandler) ListPayments(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}

	payments, err := h.PaymentService.List(c.Request.Context(), userID, c.Query("lease_id"))
	if err != nil {
		respondServiceError(c, err, "list payments")
		return
	}

	c.JSON(http.StatusOK, gin.H{"payments": payments})
}

// GetPayment returns a single payment with receipt fields
// GET /payments/{id}
func (h *PaymentHandler) GetPayment(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}

	payment, err := h.PaymentService.Get(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		respondServiceError(c, err, "get payment")
		return
	}

	c.JSON(http.StatusOK, gin.H{"payment": payment})
}

// CreatePayment records a payment against a lease the caller owns
// POST /payments
func (h *PaymentHandler) CreatePayment(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}

	var req db.CreatePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}

	payment, err := h.PaymentService.Create(c.Request.Context(), userID, req)
	if err != nil {
		respondServiceError(c, err, "create payment")
		return
	}

	c.JSON(http.StatusCreated, gin.H{"payment": payment})
}

// DeletePayment removes a payment record
// DELETE /payments/{id}
func (h *PaymentHandler) DeletePayment(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}

	if err := h.PaymentService.Delete(c.Request.Context(), userID, c.Param("id")); err != nil {
		respondServiceError(c, err, "delete payment")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Payment deleted successfully"})
}
