package api

import (
	"github.com/gin-gonic/gin"

	"github.com/charlesng35/askai/internal/handlers"
)

func registerQueryRoutes(api *gin.RouterGroup, handler *handlers.QueryHandler) {
	if api == nil || handler == nil {
		return
	}

	queries := api.Group("/queries")
	{
		queries.GET("", handler.List)
		queries.GET("/:id", handler.Get)
	}
}
