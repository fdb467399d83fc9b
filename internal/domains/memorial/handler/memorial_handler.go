package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"memorial-backend/internal/domains/memorial/model"
	"memorial-backend/internal/domains/memorial/service"
	"memorial-backend/internal/shared/middleware"
	"memorial-backend/internal/shared/response"
)

// MemorialHandler handles HTTP requests for the memorial domain.
type MemorialHandler struct {
	service service.MemorialService
}

func NewMemorialHandler(service service.MemorialService) *MemorialHandler {
	return &MemorialHandler{
		service: service,
	}
}

// Create handles POST /memorials
func (h *MemorialHandler) Create(c *gin.Context) {
	var req model.CreateMemorialRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request payload")
		return
	}

	result, err := h.service.Create(c.Request.Context(), &req)
	if err != nil {
		statusCode, message, code := model.GetErrorResponse(err)
		response.ErrorResponse(c, statusCode, code, message)
		return
	}

	response.Success(c, http.StatusCreated, result)
}

// Get handles GET /memorials/:slug
func (h *MemorialHandler) Get(c *gin.Context) {
	slug := c.Param("slug")

	result, err := h.service.Get(c.Request.Context(), slug)
	if err != nil {
		statusCode, message, code := model.GetErrorResponse(err)
		response.ErrorResponse(c, statusCode, code, message)
		return
	}

	response.Success(c, http.StatusOK, result)
}

// Lookup handles POST /memorials/lookup
func (h *MemorialHandler) Lookup(c *gin.Context) {
	var req model.LookupRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request payload")
		return
	}

	result, err := h.service.Summarize(c.Request.Context(), &req)
	if err != nil {
		statusCode, message, code := model.GetErrorResponse(err)
		response.ErrorResponse(c, statusCode, code, message)
		return
	}

	response.Success(c, http.StatusOK, result)
}

// Update handles PUT /memorials/:slug
func (h *MemorialHandler) Update(c *gin.Context) {
	slug := c.Param("slug")

	editKey := c.GetHeader(middleware.EditKeyHeader)
	if editKey == "" {
		response.Unauthorized(c, "Edit key is required")
		return
	}

	var req model.UpdateMemorialRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request payload")
		return
	}

	result, err := h.service.Update(c.Request.Context(), slug, editKey, &req)
	if err != nil {
		statusCode, message, code := model.GetErrorResponse(err)
		response.ErrorResponse(c, statusCode, code, message)
		return
	}

	response.Success(c, http.StatusOK, result)
}

// Delete handles DELETE /memorials/:slug
func (h *MemorialHandler) Delete(c *gin.Context) {
	slug := c.Param("slug")

	editKey := c.GetHeader(middleware.EditKeyHeader)
	if editKey == "" {
		response.Unauthorized(c, "Edit key is required")
		return
	}

	if err := h.service.Delete(c.Request.Context(), slug, editKey); err != nil {
		statusCode, message, code := model.GetErrorResponse(err)
		response.ErrorResponse(c, statusCode, code, message)
		return
	}

	c.Status(http.StatusNoContent)
}
