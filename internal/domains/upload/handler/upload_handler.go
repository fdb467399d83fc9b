package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"memorial-backend/internal/domains/upload"
	"memorial-backend/internal/domains/upload/service"
	"memorial-backend/internal/shared/response"
)

// UploadHandler handles HTTP requests for upload-URL issuance.
type UploadHandler struct {
	service service.UploadService
}

func NewUploadHandler(service service.UploadService) *UploadHandler {
	return &UploadHandler{
		service: service,
	}
}

// IssueUploadURL handles POST /upload-url
func (h *UploadHandler) IssueUploadURL(c *gin.Context) {
	var req upload.IssueUploadURLRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request payload")
		return
	}

	result, err := h.service.IssueUploadURL(c.Request.Context(), &req)
	if err != nil {
		statusCode, message, code := upload.GetErrorResponse(err)
		response.ErrorResponse(c, statusCode, code, message)
		return
	}

	response.Success(c, http.StatusOK, result)
}
