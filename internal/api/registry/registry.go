package registry

import (
	"github.com/labstack/echo/v4"

	"crmadmin/internal/api/controllers"
	"crmadmin/internal/api/middleware"
	"crmadmin/internal/models"
	"crmadmin/internal/services"

	"gorm.io/gorm"
)

// registerCRUD wires the generic controller for one entity behind the
// permission gates of its menu. List/Get need view, writes need
// create/edit/delete at the same menu path.
func registerCRUD[T any](g *echo.Group, db *gorm.DB, routePath, nameColumn string, moduleID int64, menuPath string) {
	service := services.NewBaseService(db, *new(T), nameColumn)
	controller := controllers.NewBaseController(service)
	group := g.Group(routePath)

	view := middleware.RequirePermission(db, moduleID, menuPath, middleware.PermissionView)
	group.GET("", controller.List, view)
	group.GET("/:id", controller.Get, view)
	group.POST("", controller.Create, middleware.RequirePermission(db, moduleID, menuPath, middleware.PermissionCreate))
	group.PUT("/:id", controller.Update, middleware.RequirePermission(db, moduleID, menuPath, middleware.PermissionEdit))
	group.DELETE("/:id", controller.Delete, middleware.RequirePermission(db, moduleID, menuPath, middleware.PermissionDelete))
}

// RegisterCRUDRoutes registers CRUD routes for all catalog-backed entities.
// The group must already run the auth middleware.
func RegisterCRUDRoutes(g *echo.Group, db *gorm.DB) error {
	userMgmtID, err := models.ModuleIDByName(db, models.ModuleUserManagement)
	if err != nil {
		return err
	}
	mastersID, err := models.ModuleIDByName(db, models.ModuleMasters)
	if err != nil {
		return err
	}
	salesID, err := models.ModuleIDByName(db, models.ModuleSales)
	if err != nil {
		return err
	}

	// User management
	registerCRUD[models.User](g, db, "/users", "username", userMgmtID, "/users")
	registerCRUD[models.Role](g, db, "/roles", "name", userMgmtID, "/roles")

	// Access catalog, managed from the permission assignment screen
	registerCRUD[models.Module](g, db, "/modules", "name", userMgmtID, "/permission-assignment")
	// Menu names repeat across modules, so no duplicate-name column here
	registerCRUD[models.Menu](g, db, "/menus", "", userMgmtID, "/permission-assignment")
	registerCRUD[models.Permission](g, db, "/permissions", "name", userMgmtID, "/permission-assignment")

	// Masters
	registerCRUD[models.Country](g, db, "/masters/countries", "name", mastersID, "/masters/countries")
	registerCRUD[models.State](g, db, "/masters/states", "name", mastersID, "/masters/states")
	registerCRUD[models.City](g, db, "/masters/cities", "name", mastersID, "/masters/cities")
	registerCRUD[models.Currency](g, db, "/masters/currencies", "name", mastersID, "/masters/currencies")
	registerCRUD[models.BusinessType](g, db, "/masters/business-types", "name", mastersID, "/masters/business-types")
	registerCRUD[models.AccountType](g, db, "/masters/account-types", "name", mastersID, "/masters/account-types")
	registerCRUD[models.AddressType](g, db, "/masters/address-types", "name", mastersID, "/masters/address-types")
	registerCRUD[models.DocumentType](g, db, "/masters/document-types", "name", mastersID, "/masters/document-types")
	registerCRUD[models.CompanyType](g, db, "/masters/company-types", "name", mastersID, "/masters/company-types")
	registerCRUD[models.PartnerType](g, db, "/masters/partner-types", "name", mastersID, "/masters/partner-types")
	registerCRUD[models.IndustrySegment](g, db, "/masters/industry-segments", "name", mastersID, "/masters/industry-segments")
	registerCRUD[models.SubIndustrySegment](g, db, "/masters/sub-industry-segments", "name", mastersID, "/masters/sub-industry-segments")
	registerCRUD[models.JobFunction](g, db, "/masters/job-functions", "name", mastersID, "/masters/job-functions")
	registerCRUD[models.ProductServiceInterest](g, db, "/masters/product-service-interests", "name", mastersID, "/masters/product-service-interests")
	registerCRUD[models.HeadOfCompany](g, db, "/masters/head-of-companies", "name", mastersID, "/masters/head-of-companies")
	registerCRUD[models.Department](g, db, "/masters/departments", "name", mastersID, "/masters/departments")
	registerCRUD[models.SubDepartment](g, db, "/masters/sub-departments", "name", mastersID, "/masters/sub-departments")
	registerCRUD[models.Designation](g, db, "/masters/designations", "name", mastersID, "/masters/designations")
	registerCRUD[models.Region](g, db, "/masters/regions", "name", mastersID, "/masters/regions")
	registerCRUD[models.BusinessVertical](g, db, "/masters/business-verticals", "name", mastersID, "/masters/business-verticals")

	// Sales contacts; companies have a dedicated handler for nested writes
	registerCRUD[models.Contact](g, db, "/sales/contacts", "first_name", salesID, "/sales/contacts")

	return nil
}
