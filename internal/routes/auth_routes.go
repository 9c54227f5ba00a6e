package routes

import (
	"crmadmin/internal/api/middleware"
	"crmadmin/internal/config"
	"crmadmin/internal/handlers"
	"crmadmin/internal/services"
	"crmadmin/internal/tasks"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// SetupAuthRoutes wires login, token lifecycle and the current-user endpoint.
func SetupAuthRoutes(e *echo.Echo, db *gorm.DB, redisClient *redis.Client, cfg *config.Config) {
	authHandler := handlers.NewAuthHandler(db, redisClient)

	base := e.Group("/api/v1")
	auth := base.Group("/auth")

	// Public routes (no auth required)
	auth.POST("/login", authHandler.Login)
	auth.POST("/refresh", authHandler.Refresh)

	// Protected auth routes (require authentication)
	authMiddleware := middleware.NewAuthMiddleware(db, redisClient, cfg.JWT.Secret)
	protected := auth.Group("")
	protected.Use(authMiddleware.Middleware())

	protected.POST("/logout", authHandler.Logout)
	protected.GET("/me", authHandler.Me)
	protected.POST("/change-password", authHandler.ChangePassword)
}

// SetupGrantRoutes wires the permission assignment endpoints. The group must
// already run the auth middleware; userMgmtModuleID scopes the gates.
func SetupGrantRoutes(api *echo.Group, db *gorm.DB, userMgmtModuleID int64) {
	grantsHandler := handlers.NewGrantsHandler(db)

	const menuPath = "/permission-assignment"
	view := middleware.RequirePermission(db, userMgmtModuleID, menuPath, middleware.PermissionView)
	edit := middleware.RequirePermission(db, userMgmtModuleID, menuPath, middleware.PermissionEdit)

	api.GET("/roles/:id/permissions", grantsHandler.ListRolePermissions, view)
	api.POST("/roles/:id/permissions", grantsHandler.AssignRolePermissions, edit)
	api.GET("/users/:id/permissions", grantsHandler.ListUserPermissions, view)
	api.POST("/users/:id/permissions", grantsHandler.AssignUserPermissions, edit)
	api.POST("/users/:id/modules", grantsHandler.AssignModules, edit)
}

// SetupUserExportRoute streams the accounts CSV to admins holding the export
// permission on the Users menu.
func SetupUserExportRoute(api *echo.Group, db *gorm.DB, exports *services.ExportService, userMgmtModuleID int64) {
	exportHandler := handlers.NewExportHandler(db, exports, nil)
	api.GET("/users/export", exportHandler.ExportUsers,
		middleware.RequirePermission(db, userMgmtModuleID, "/users", middleware.PermissionExport))
}

// SetupAdminRoutes wires the operational endpoints: temporary password resets
// and the on-demand log cleanup trigger.
func SetupAdminRoutes(api *echo.Group, db *gorm.DB, taskClient *tasks.TaskClient, defaultRetentionDays int, userMgmtModuleID int64) {
	authHandler := handlers.NewAuthHandler(db, nil)
	api.POST("/users/:id/reset-password", authHandler.ResetPassword,
		middleware.RequirePermission(db, userMgmtModuleID, "/users", middleware.PermissionEdit))

	maintenanceHandler := handlers.NewMaintenanceHandler(taskClient, defaultRetentionDays)
	api.POST("/maintenance/logs/cleanup", maintenanceHandler.TriggerLogCleanup,
		middleware.RequireSuperAdmin(db))
}

// SetupDropdownRoutes exposes id/name option lists to any authenticated user.
func SetupDropdownRoutes(api *echo.Group, db *gorm.DB) {
	dropdownHandler := handlers.NewDropdownHandler(db)
	api.GET("/dropdowns/:entity", dropdownHandler.Options)
}
