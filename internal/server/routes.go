// Package server configures the HTTP server and routes.
package server

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/fleveque/investor-scout/internal/config"
	"github.com/fleveque/investor-scout/internal/handler"
	"github.com/fleveque/investor-scout/internal/llm"
	"github.com/fleveque/investor-scout/internal/middleware"
	"github.com/fleveque/investor-scout/internal/search"
	"github.com/fleveque/investor-scout/internal/storage"
)

// Deps carries the wired application pieces into route registration. No DI
// container — each handler gets exactly the dependencies it needs.
type Deps struct {
	Store        *search.Store
	Orchestrator *search.Orchestrator
	Gateway      *llm.Gateway
	CallRepo     storage.CallRepository
	SearchRepo   storage.SearchRepository
}

// RegisterRoutes sets up all HTTP routes on the Gin engine.
func RegisterRoutes(r *gin.Engine, cfg *config.Config, deps Deps, logger *zap.Logger) {
	healthHandler := handler.NewHealthHandler()
	searchHandler := handler.NewSearchHandler(deps.Store, deps.Orchestrator, logger)
	generateHandler := handler.NewGenerateHandler(deps.Gateway, logger)
	adminHandler := handler.NewAdminHandler(deps.CallRepo, deps.SearchRepo, deps.Gateway.Providers(), logger)

	// Public endpoints (no auth)
	r.GET("/healthz", healthHandler.Healthz)

	// CORS middleware applies to the entire API group.
	api := r.Group("/api/v1")
	api.Use(middleware.CORS(cfg.CORS.AllowedOrigins))

	// Authenticated API endpoints
	authed := api.Group("")
	authed.Use(middleware.APIKeyAuth(cfg.Auth.APIKeys))
	authed.Use(middleware.RateLimit(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst))
	{
		authed.POST("/searches", searchHandler.Start)
		authed.GET("/searches/:id", searchHandler.Get)
		authed.GET("/searches/:id/results", searchHandler.Results)
		authed.GET("/searches/:id/export.csv", searchHandler.ExportCSV)
		authed.POST("/generate/:provider", generateHandler.Generate)
	}

	// Admin endpoints (separate auth with admin keys)
	admin := api.Group("/admin")
	admin.Use(middleware.AdminKeyAuth(cfg.Auth.AdminKeys))
	{
		admin.GET("/stats", adminHandler.Stats)
	}
}
