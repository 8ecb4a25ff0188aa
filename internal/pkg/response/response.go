package response

import (
	"net/http"
	"reflect"

	"github.com/gin-gonic/gin"
	"github.com/inkpress/core/internal/pkg/apperr"
)

// Pagination metadata returned with paginated responses.
type Pagination struct {
	Total       int64 `json:"total"`
	CurrentPage int   `json:"current_page"`
	TotalPage   int   `json:"total_page"`
	Size        int   `json:"size"`
	HasNextPage bool  `json:"has_next_page"`
}

type pagedResponse struct {
	Data       interface{} `json:"data"`
	Pagination Pagination  `json:"pagination"`
}

// OK sends a 200 response. Arrays/slices are wrapped in {data: [...]}.
func OK(c *gin.Context, data interface{}) {
	if data != nil {
		v := reflect.ValueOf(data)
		if v.Kind() == reflect.Slice {
			c.JSON(http.StatusOK, gin.H{"data": data})
			return
		}
	}
	c.JSON(http.StatusOK, data)
}

// Paged sends a paginated response.
func Paged(c *gin.Context, data interface{}, pagination Pagination) {
	c.JSON(http.StatusOK, pagedResponse{Data: data, Pagination: pagination})
}

// Created sends a 201 response.
func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, data)
}

// Message sends a 200 response with a plain message body.
func Message(c *gin.Context, message string) {
	c.JSON(http.StatusOK, gin.H{"message": message})
}

func abort(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, gin.H{"ok": 0, "code": status, "message": message})
}

// BadRequest sends a 400 error response.
func BadRequest(c *gin.Context, message string) { abort(c, http.StatusBadRequest, message) }

// Unauthorized sends a 401 error response.
func Unauthorized(c *gin.Context) { abort(c, http.StatusUnauthorized, "authentication required") }

// Forbidden sends a 403 error response.
func Forbidden(c *gin.Context) { abort(c, http.StatusForbidden, "insufficient permissions") }

// NotFound sends a 404 error response.
func NotFound(c *gin.Context) { abort(c, http.StatusNotFound, "not found") }

// NotFoundMsg sends a 404 error with a custom message.
func NotFoundMsg(c *gin.Context, message string) { abort(c, http.StatusNotFound, message) }

// MethodNotAllowed sends a 405 error response.
func MethodNotAllowed(c *gin.Context) { abort(c, http.StatusMethodNotAllowed, "method not allowed") }

// Conflict sends a 409 error response.
func Conflict(c *gin.Context, message string) { abort(c, http.StatusConflict, message) }

// InternalError sends a 500 error response.
func InternalError(c *gin.Context, err error) {
	if err != nil {
		_ = c.Error(err)
	}
	abort(c, http.StatusInternalServerError, "internal error")
}

// StatusFor maps an error kind to its HTTP status.
func StatusFor(kind apperr.Kind) int {
	switch kind {
	case apperr.KindUnauthorized:
		return http.StatusUnauthorized
	case apperr.KindForbidden:
		return http.StatusForbidden
	case apperr.KindNotFound:
		return http.StatusNotFound
	case apperr.KindValidation:
		return http.StatusBadRequest
	case apperr.KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// Error sends the response matching err's kind.
func Error(c *gin.Context, err error) {
	kind := apperr.KindOf(err)
	if kind == apperr.KindInternal {
		InternalError(c, err)
		return
	}
	abort(c, StatusFor(kind), apperr.Message(err))
}
