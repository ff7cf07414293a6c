package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Error carries an HTTP status and a message for structured error bodies.
type Error struct {
	Code    int
	Message string
}

// HandlerFunc is an endpoint returning a payload or a structured error.
type HandlerFunc func(ctx *gin.Context) (any, *Error)

// ResolveEndpoint adapts a HandlerFunc to gin, rendering the payload or
// the error body uniformly.
func ResolveEndpoint(h HandlerFunc) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		result, apiErr := h(ctx)
		if apiErr != nil {
			ctx.JSON(apiErr.Code, gin.H{"error": apiErr.Message})
			return
		}
		ctx.JSON(http.StatusOK, result)
	}
}
