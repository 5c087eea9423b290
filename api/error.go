package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/katatrina/postboard/internal/lifecycle"
)

var (
	ErrInvalidPostID = errors.New("invalid post ID format")
)

func errorResponse(err error) gin.H {
	return gin.H{"error": err.Error()}
}

// lifecycleErrorStatus maps lifecycle errors to the HTTP status returned to the caller.
func lifecycleErrorStatus(err error) int {
	switch {
	case errors.Is(err, lifecycle.ErrInvalidPost):
		return http.StatusBadRequest
	case errors.Is(err, lifecycle.ErrPostNotFound):
		return http.StatusNotFound
	case errors.Is(err, lifecycle.ErrPostClosed):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}
