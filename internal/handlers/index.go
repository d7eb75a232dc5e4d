package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Index serves the static question page. It never touches the database or the
// completion provider.
func Index(page []byte) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Data(http.StatusOK, "text/html; charset=utf-8", page)
	}
}
