package apiutil

import (
	"net/http"

	"github.com/Aidin1998/qrmenu/common/errors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ErrorResponse is the error body of every API response
//
// Example:
//
//	{
//	  "error": "Subdomain already exists"
//	}
type ErrorResponse struct {
	Error  string              `json:"error"`
	Fields []errors.FieldError `json:"fields,omitempty"`
}

// WriteError aborts the request with the status and message carried by err.
// Errors without a status are logged and reported as a generic 500.
func WriteError(c *gin.Context, logger *zap.Logger, err error) {
	var e *errors.Error
	if errors.As(err, &e) && e.StatusCode() != 0 && e.StatusCode() < http.StatusInternalServerError {
		message := e.Message
		if message == "" {
			message = http.StatusText(e.StatusCode())
		}
		c.AbortWithStatusJSON(e.StatusCode(), ErrorResponse{Error: message, Fields: e.Fields})
		return
	}

	status := http.StatusInternalServerError
	if e != nil && e.StatusCode() != 0 {
		status = e.StatusCode()
	}
	logger.Error("request failed",
		zap.String("method", c.Request.Method),
		zap.String("path", c.Request.URL.Path),
		zap.Int("status", status),
		zap.Error(err))
	c.AbortWithStatusJSON(status, ErrorResponse{Error: http.StatusText(status)})
}

// WriteErrorResponse writes a bare error body with the given status
func WriteErrorResponse(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, ErrorResponse{Error: message})
}
