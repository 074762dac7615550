package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "costcheck/pkg/errors"
)

// ErrorBody is the error shape of the cost manager API.
type ErrorBody struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
	Details string `json:"details,omitempty"`
}

// Success sends data with 200
func Success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, data)
}

// Created sends data with 201
func Created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, data)
}

// Error sends an error body with the given status
func Error(c *gin.Context, status int, msg string) {
	c.JSON(status, ErrorBody{Error: msg})
}

// FromError converts an error to a status and body.
// AppError codes pick the status; anything else is a 500.
func FromError(err error) (int, ErrorBody) {
	if err == nil {
		return http.StatusOK, ErrorBody{}
	}

	body := ErrorBody{
		Error:   apperrors.GetMessage(err),
		Details: apperrors.GetDetail(err),
	}

	switch apperrors.GetCode(err) {
	case apperrors.CodeInvalidParams:
		return http.StatusBadRequest, body
	case apperrors.CodeNotFound:
		return http.StatusNotFound, body
	default:
		var appErr *apperrors.AppError
		if !errors.As(err, &appErr) {
			body.Error = "Internal server error"
			body.Details = err.Error()
		}
		return http.StatusInternalServerError, body
	}
}

// ErrorResponse sends an error response from an error
func ErrorResponse(c *gin.Context, err error) {
	status, body := FromError(err)
	c.JSON(status, body)
}
