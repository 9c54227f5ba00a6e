package api

import (
	"net/http"

	"crmadmin/internal/api/middleware"
	"crmadmin/internal/api/registry"
	"crmadmin/internal/models"
	"crmadmin/internal/routes"

	_ "crmadmin/docs/swagger"

	"github.com/labstack/echo/v4"
	echoSwagger "github.com/swaggo/echo-swagger"
)

func (s *Server) registerRoutes() {
	s.echo.GET("/", func(c echo.Context) error {
		return c.String(http.StatusOK, "CRM Admin API")
	})
	// Health check
	// @Summary Health check
	// @Description Check if the server is running
	// @Accept json
	// @Produce json
	// @Success 200 {object} map[string]string "OK"
	// @Router /health [get]
	s.echo.GET("/health", s.healthCheck)
	s.echo.GET("/swagger/*", echoSwagger.WrapHandler)

	routes.SetupAuthRoutes(s.echo, s.db, s.redis, s.config)

	// API v1 group
	api := s.echo.Group("/api/v1")
	auth := middleware.NewAuthMiddleware(s.db, s.redis, s.config.JWT.Secret)
	api.Use(auth.Middleware())

	// Register CRUD routes for all catalog-backed entities
	if err := registry.RegisterCRUDRoutes(api, s.db); err != nil {
		_ = log.Error("Failed to register CRUD routes", err)
		return
	}

	userMgmtID, err := models.ModuleIDByName(s.db, models.ModuleUserManagement)
	if err != nil {
		_ = log.Error("Failed to resolve user management module", err)
		return
	}
	salesID, err := models.ModuleIDByName(s.db, models.ModuleSales)
	if err != nil {
		_ = log.Error("Failed to resolve sales module", err)
		return
	}

	routes.SetupGrantRoutes(api, s.db, userMgmtID)
	routes.SetupUserExportRoute(api, s.db, s.exports, userMgmtID)
	routes.SetupAdminRoutes(api, s.db, s.taskClient, s.config.Retention.LogDays, userMgmtID)
	routes.SetupDropdownRoutes(api, s.db)
	routes.SetupSalesRoutes(api, s.db, s.exports, s.taskClient, salesID)
}
