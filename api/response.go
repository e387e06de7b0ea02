package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/xiaoyuanzhu-com/project-import/models"
)

// =============================================================================
// Response Types
// =============================================================================
//
// Errors are a flat {"error": "..."} body; existing browser clients of the
// import route read that field directly. Journal endpoints use the
// data/pagination envelope.

// ErrorBody is the error response of every endpoint
type ErrorBody struct {
	Error string `json:"error"`
}

// Error messages with fixed wording
const (
	MsgMissingProjectHex = "Missing projectHex parameter"
	MsgMethodNotAllowed  = "Method Not Allowed"
)

// ListResponse wraps a collection of resources with optional pagination
type ListResponse[T any] struct {
	Data       []T         `json:"data"`
	Pagination *Pagination `json:"pagination,omitempty"`
}

// Pagination contains pagination metadata
type Pagination struct {
	Limit   int  `json:"limit"`
	HasMore bool `json:"hasMore"`
}

// RespondList sends a successful response with a list of items
func RespondList[T any](c *gin.Context, data []T, pagination *Pagination) {
	// Ensure empty array instead of null
	if data == nil {
		data = []T{}
	}
	c.JSON(http.StatusOK, ListResponse[T]{Data: data, Pagination: pagination})
}

// RespondError sends an error body with the given status
func RespondError(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, ErrorBody{Error: message})
}

// RespondErr maps an error to its status code; the message is the error text
func RespondErr(c *gin.Context, err error) {
	RespondError(c, StatusForError(err), err.Error())
}

// StatusForError maps error kinds to HTTP status codes
func StatusForError(err error) int {
	var maxBytes *http.MaxBytesError
	switch {
	case errors.Is(err, models.ErrInvalidRequest):
		return http.StatusBadRequest
	case errors.Is(err, models.ErrMethodNotAllowed):
		return http.StatusMethodNotAllowed
	case errors.As(err, &maxBytes):
		return http.StatusRequestEntityTooLarge
	default:
		return http.StatusInternalServerError
	}
}

// MethodNotAllowed answers every route hit with an unsupported method
func MethodNotAllowed(c *gin.Context) {
	RespondError(c, http.StatusMethodNotAllowed, MsgMethodNotAllowed)
}
