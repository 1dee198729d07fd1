package utils

import (
	"edunova/common"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// GenerateDashlessUUID returns a random UUID as 32 hex characters.
func GenerateDashlessUUID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}

// APIError is the body of every error response.
type APIError struct {
	Error string `json:"error"`
}

// GinError aborts with {"error": message}. The error is also attached to the
// context so GinLogger reports it.
func GinError(c *gin.Context, statusCode int, message string) {
	_ = c.Error(errors.New(message))
	c.AbortWithStatusJSON(statusCode, APIError{Error: message})
}

// GinBadRequest aborts with 400.
func GinBadRequest(c *gin.Context, message string) {
	GinError(c, http.StatusBadRequest, message)
}

// GinUnauthorized aborts with 401.
func GinUnauthorized(c *gin.Context, message string) {
	GinError(c, http.StatusUnauthorized, message)
}

// GinNotFound aborts with 404.
func GinNotFound(c *gin.Context, message string) {
	GinError(c, http.StatusNotFound, message)
}

// GinInternalServerError aborts with 500.
func GinInternalServerError(c *gin.Context, message string) {
	GinError(c, http.StatusInternalServerError, message)
}

// StatusForError maps the shared sentinel errors to HTTP status codes.
func StatusForError(err error) int {
	switch {
	case errors.Is(err, common.ErrInvalidCredentials), errors.Is(err, common.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, common.ErrDuplicateEmail):
		return http.StatusConflict
	case errors.Is(err, common.ErrInvalidInput), errors.Is(err, common.ErrPasswordMismatch):
		return http.StatusBadRequest
	case errors.Is(err, common.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, common.ErrAuthInProgress), errors.Is(err, common.ErrRateLimited):
		return http.StatusTooManyRequests
	case errors.Is(err, common.ErrDataSourceUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// GinFromError sends the response matching err's sentinel.
func GinFromError(c *gin.Context, err error) {
	GinError(c, StatusForError(err), err.Error())
}
