package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"memorial-backend/internal/domains/upload"
)

type stubService struct {
	resp *upload.UploadURLResponse
	err  error
}

func (s *stubService) IssueUploadURL(context.Context, *upload.IssueUploadURLRequest) (*upload.UploadURLResponse, error) {
	return s.resp, s.err
}

func setupRouter(svc *stubService) *gin.Engine {
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.POST("/upload-url", NewUploadHandler(svc).IssueUploadURL)
	return router
}

func post(router *gin.Engine, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/upload-url", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestIssueUploadURL_Handler(t *testing.T) {
	router := setupRouter(&stubService{
		resp: &upload.UploadURLResponse{
			UploadURL: "https://store.example/presigned/memorials/abc.jpg",
			PublicURL: "https://cdn.example/memorials/abc.jpg",
		},
	})

	w := post(router, `{"filename":"a.jpg","contentType":"image/jpeg"}`)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"uploadUrl"`)
	assert.Contains(t, w.Body.String(), `"publicUrl"`)
}

func TestIssueUploadURL_Handler_BadJSON(t *testing.T) {
	router := setupRouter(&stubService{})

	w := post(router, `{"filename":`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestIssueUploadURL_Handler_ValidationError(t *testing.T) {
	router := setupRouter(&stubService{
		err: upload.NewValidationError(assert.AnError),
	})

	w := post(router, `{"filename":"a.jpg"}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "VALIDATION_ERROR")
}

func TestIssueUploadURL_Handler_SigningError(t *testing.T) {
	router := setupRouter(&stubService{
		err: upload.NewSigningError(assert.AnError),
	})

	w := post(router, `{"filename":"a.jpg","contentType":"image/jpeg"}`)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	// The client gets a generic message, never the underlying config detail.
	assert.Contains(t, w.Body.String(), "Failed to issue upload URL")
}
