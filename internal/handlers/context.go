package handlers

import (
	"context"

	"github.com/gin-gonic/gin"
)

// requestContext safely returns the request context with a background fallback for tests.
func requestContext(c *gin.Context) context.Context {
	if c == nil || c.Request == nil {
		return context.Background()
	}
	return c.Request.Context()
}

// detachedContext keeps request values but ignores client disconnects, so a started
// ask always runs to completion and its result is persisted.
func detachedContext(c *gin.Context) context.Context {
	return context.WithoutCancel(requestContext(c))
}
