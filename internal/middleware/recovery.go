package middleware

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	appErrors "github.com/charlesng35/askai/pkg/errors"
	"github.com/charlesng35/askai/pkg/logger"
	"github.com/charlesng35/askai/pkg/response"
)

// Recovery converts panics into a 500 response and logs the error.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				logger.WithModule("http").Error("panic",
					zap.String("path", c.Request.URL.Path),
					zap.String("request_id", GetRequestID(c)),
					zap.Any("error", r),
					zap.Stack("stack"),
				)
				// The panic value stays in the log.
				response.Abort(c, appErrors.ErrInternalServer)
			}
		}()
		c.Next()
	}
}

// NotFoundHandler returns a JSON 404 response for unknown routes.
func NotFoundHandler(c *gin.Context) {
	response.Error(c, appErrors.New(
		appErrors.ErrNotFound.Code,
		fmt.Sprintf("route %s not found", c.Request.URL.Path),
		http.StatusNotFound,
	))
}
