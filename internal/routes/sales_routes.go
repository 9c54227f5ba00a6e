package routes

import (
	"crmadmin/internal/api/middleware"
	"crmadmin/internal/handlers"
	"crmadmin/internal/services"
	"crmadmin/internal/tasks"
	"crmadmin/internal/utils/logger"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

// SetupSalesRoutes wires companies with nested children, document uploads and
// CSV export/import. The group must already run the auth middleware.
func SetupSalesRoutes(api *echo.Group, db *gorm.DB, exports *services.ExportService, taskClient *tasks.TaskClient, salesModuleID int64) {
	log := logger.New("sales_routes")

	companyHandler := handlers.NewCompanyHandler(db)
	uploadHandler := handlers.NewUploadHandler(db)
	exportHandler := handlers.NewExportHandler(db, exports, taskClient)

	const companiesMenu = "/sales/companies"
	view := middleware.RequirePermission(db, salesModuleID, companiesMenu, middleware.PermissionView)
	create := middleware.RequirePermission(db, salesModuleID, companiesMenu, middleware.PermissionCreate)
	edit := middleware.RequirePermission(db, salesModuleID, companiesMenu, middleware.PermissionEdit)
	remove := middleware.RequirePermission(db, salesModuleID, companiesMenu, middleware.PermissionDelete)

	companies := api.Group("/sales/companies")
	companies.GET("", companyHandler.List, view)
	companies.GET("/:id", companyHandler.Get, view)
	companies.POST("", companyHandler.Create, create)
	companies.PUT("/:id", companyHandler.Update, edit)
	companies.DELETE("/:id", companyHandler.Delete, remove)

	companies.POST("/:id/documents", uploadHandler.UploadCompanyDocument, edit)
	companies.DELETE("/:id/documents/:docId", uploadHandler.DeleteCompanyDocument, edit)

	api.GET("/sales/export/:entity", exportHandler.ExportCSV,
		middleware.RequirePermission(db, salesModuleID, companiesMenu, middleware.PermissionExport))
	importGate := middleware.RequirePermission(db, salesModuleID, companiesMenu, middleware.PermissionImport)
	api.POST("/sales/import/companies", exportHandler.ImportCompanies, importGate)
	api.POST("/sales/import/companies/storage", exportHandler.ImportCompaniesFromStorage, importGate)

	log.Success("Sales routes initialized successfully")
}
