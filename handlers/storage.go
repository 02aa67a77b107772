package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jpk1234556/machacoshostels/services"
)

type StorageHandler struct {
	StorageService *services.StorageService
}

func NewStorageHandler(storageService *services.StorageService) *StorageHandler {
	return &StorageHandler{StorageService: storageService}
}

// UploadIDDocument stores the caller's KYC document
// POST /profile/id-document (multipart form, field "document")
func (h *StorageHandler) UploadIDDocument(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}

	fileHeader, err := c.FormFile("document")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Document file is required"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read document: " + err.Error()})
		return
	}
	defer file.Close()

	contentType := fileHeader.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	path, err := h.StorageService.UploadIDDocument(c.Request.Context(), userID, fileHeader.Filename, contentType, file)
	if err != nil {
		respondServiceError(c, err, "upload document")
		return
	}

	c.JSON(http.StatusCreated, gin.H{"path": path})
}

// GetIDDocumentURL returns a signed URL for a stored document. Owners can
// fetch their own; admins can fetch anyone's.
// GET /users/{id}/id-document-url
func (h *StorageHandler) GetIDDocumentURL(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}

	targetID := c.Param("id")
	if targetID == "" {
		targetID = userID
	}

	url, err := h.StorageService.SignedDocumentURL(c.Request.Context(), userID, targetID)
	if err != nil {
		respondServiceError(c, err, "sign document URL")
		return
	}

	c.JSON(http.StatusOK, gin.H{"url": url})
}
