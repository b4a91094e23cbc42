package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/tripbound/travel-booking-backend/internal/apperrors"
	"github.com/tripbound/travel-booking-backend/internal/models"
)

// Response is the uniform success envelope
type Response struct {
	Success    bool               `json:"success"`
	Data       interface{}        `json:"data,omitempty"`
	Pagination *models.Pagination `json:"pagination,omitempty"`
}

// ErrorResponse is the uniform error envelope
type ErrorResponse struct {
	Success bool        `json:"success"`
	Error   ErrorDetail `json:"error"`
}

// ErrorDetail carries the machine code and human message
type ErrorDetail struct {
	Message string `json:"message"`
	Code    string `json:"code"`
}

func respondOK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{Success: true, Data: data})
}

func respondCreated(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, Response{Success: true, Data: data})
}

func respondPage(c *gin.Context, data interface{}, pagination models.Pagination) {
	c.JSON(http.StatusOK, Response{Success: true, Data: data, Pagination: &pagination})
}

// respondError maps service errors onto the envelope. Unclassified
// errors are logged and surface as opaque 500s.
func respondError(c *gin.Context, err error) {
	if appErr, ok := apperrors.As(err); ok {
		c.JSON(appErr.Status, ErrorResponse{
			Success: false,
			Error:   ErrorDetail{Message: appErr.Message, Code: appErr.Code},
		})
		return
	}

	logrus.WithFields(logrus.Fields{
		"path":  c.Request.URL.Path,
		"error": err.Error(),
	}).Error("Unhandled error")

	c.JSON(http.StatusInternalServerError, ErrorResponse{
		Success: false,
		Error:   ErrorDetail{Message: "An unexpected error occurred", Code: apperrors.CodeInternal},
	})
}

func respondBadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, ErrorResponse{
		Success: false,
		Error:   ErrorDetail{Message: message, Code: apperrors.CodeBadRequest},
	})
}

func respondUnauthorized(c *gin.Context) {
	c.JSON(http.StatusUnauthorized, ErrorResponse{
		Success: false,
		Error:   ErrorDetail{Message: "Authentication required", Code: apperrors.CodeUnauthorized},
	})
}
