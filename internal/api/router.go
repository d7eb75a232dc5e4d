package api

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/charlesng35/askai/internal/app"
	"github.com/charlesng35/askai/internal/handlers"
	"github.com/charlesng35/askai/internal/middleware"
	"github.com/charlesng35/askai/internal/monitoring"
)

// QueryStore is the query log as seen by the HTTP layer.
type QueryStore interface {
	handlers.QueryAppender
	handlers.QueryReader
}

// Dependencies lists everything the router wires into handlers.
type Dependencies struct {
	Config    *app.Config
	Generator handlers.Generator
	Queries   QueryStore
	Health    *monitoring.HealthManager
	IndexPage []byte
}

// NewRouter builds the Gin engine, wires middleware and registers every route.
func NewRouter(deps Dependencies) (*gin.Engine, error) {
	if deps.Config == nil {
		return nil, errors.New("config must be provided")
	}
	if deps.Queries == nil {
		return nil, errors.New("query store must be provided")
	}

	askHandler, err := handlers.NewAskHandler(deps.Generator, deps.Queries)
	if err != nil {
		return nil, err
	}
	queryHandler, err := handlers.NewQueryHandler(deps.Queries)
	if err != nil {
		return nil, err
	}

	r := gin.New()

	// Global middleware
	r.Use(middleware.RequestID())
	r.Use(middleware.Recovery())
	r.Use(middleware.Logger())
	r.Use(middleware.Metrics())
	r.Use(middleware.SecurityHeaders())

	r.GET("/", handlers.Index(deps.IndexPage))
	r.POST("/ask", askHandler.Ask)

	registerQueryRoutes(r.Group("/api"), queryHandler)
	registerHealthRoutes(r, deps.Config, deps.Health)
	registerMetricsRoutes(r, deps.Config)

	r.NoRoute(middleware.NotFoundHandler)

	return r, nil
}
