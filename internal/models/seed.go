package models

import (
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"crmadmin/internal/config"
	console "crmadmin/internal/utils/logger"

	"gorm.io/gorm"
)

var log = console.New("SEEDER")

// Well-known module names. Route registration resolves their ids at startup.
const (
	ModuleUserManagement = "User Management"
	ModuleMasters        = "Masters"
	ModuleSales          = "Sales"
)

// Canonical permission catalog.
var defaultPermissions = []Permission{
	{Name: "view", Description: "Read records"},
	{Name: "create", Description: "Create records"},
	{Name: "edit", Description: "Update records"},
	{Name: "delete", Description: "Delete records"},
	{Name: "export", Description: "Export records to CSV"},
	{Name: "import", Description: "Import records from CSV"},
}

type menuSeed struct {
	Name      string
	Path      string
	Icon      string
	IsSidebar bool
	Children  []menuSeed
}

type moduleSeed struct {
	Name        string
	Description string
	Menus       []menuSeed
}

var defaultModules = []moduleSeed{
	{
		Name:        ModuleUserManagement,
		Description: "Accounts, roles and permission assignment",
		Menus: []menuSeed{
			{Name: "Users", Path: "/users", Icon: "user", IsSidebar: true},
			{Name: "Roles", Path: "/roles", Icon: "shield", IsSidebar: true},
			{Name: "Permission Assignment", Path: "/permission-assignment", Icon: "key", IsSidebar: true},
		},
	},
	{
		Name:        ModuleMasters,
		Description: "Master data maintained by admins",
		Menus: []menuSeed{
			{Name: "Geography", Icon: "globe", IsSidebar: true, Children: []menuSeed{
				{Name: "Countries", Path: "/masters/countries", IsSidebar: true},
				{Name: "States", Path: "/masters/states", IsSidebar: true},
				{Name: "Cities", Path: "/masters/cities", IsSidebar: true},
			}},
			{Name: "Organisation", Icon: "building", IsSidebar: true, Children: []menuSeed{
				{Name: "Departments", Path: "/masters/departments", IsSidebar: true},
				{Name: "Sub Departments", Path: "/masters/sub-departments", IsSidebar: true},
				{Name: "Designations", Path: "/masters/designations", IsSidebar: true},
				{Name: "Regions", Path: "/masters/regions", IsSidebar: true},
				{Name: "Business Verticals", Path: "/masters/business-verticals", IsSidebar: true},
			}},
			{Name: "Classifications", Icon: "tags", IsSidebar: true, Children: []menuSeed{
				{Name: "Currencies", Path: "/masters/currencies", IsSidebar: true},
				{Name: "Business Types", Path: "/masters/business-types", IsSidebar: true},
				{Name: "Account Types", Path: "/masters/account-types", IsSidebar: true},
				{Name: "Address Types", Path: "/masters/address-types", IsSidebar: true},
				{Name: "Document Types", Path: "/masters/document-types", IsSidebar: true},
				{Name: "Company Types", Path: "/masters/company-types", IsSidebar: true},
				{Name: "Partner Types", Path: "/masters/partner-types", IsSidebar: true},
				{Name: "Industry Segments", Path: "/masters/industry-segments", IsSidebar: true},
				{Name: "Sub Industry Segments", Path: "/masters/sub-industry-segments", IsSidebar: true},
				{Name: "Job Functions", Path: "/masters/job-functions", IsSidebar: true},
				{Name: "Product Service Interests", Path: "/masters/product-service-interests", IsSidebar: true},
				{Name: "Head Of Companies", Path: "/masters/head-of-companies", IsSidebar: true},
			}},
		},
	},
	{
		Name:        ModuleSales,
		Description: "Companies and contacts",
		Menus: []menuSeed{
			{Name: "Companies", Path: "/sales/companies", Icon: "briefcase", IsSidebar: true},
			{Name: "Contacts", Path: "/sales/contacts", Icon: "users", IsSidebar: true},
		},
	},
}

// SuperAdminRoleName is the seeded role holding every grant.
const SuperAdminRoleName = "Super Admin"

// SeedAccessCatalog creates the permission, module and menu catalog. It is
// idempotent: rows are matched by name (menus by module and path).
func SeedAccessCatalog(db *gorm.DB) error {
	for _, perm := range defaultPermissions {
		if err := db.Where(Permission{Name: perm.Name}).
			FirstOrCreate(&Permission{Name: perm.Name, Description: perm.Description}).Error; err != nil {
			return fmt.Errorf("failed to create permission %s: %v", perm.Name, err)
		}
	}

	for _, moduleDef := range defaultModules {
		module := Module{Name: moduleDef.Name}
		if err := db.Where(Module{Name: moduleDef.Name}).
			Attrs(Module{Description: moduleDef.Description}).
			FirstOrCreate(&module).Error; err != nil {
			return fmt.Errorf("failed to create module %s: %v", moduleDef.Name, err)
		}
		if err := seedMenus(db, module.ID, nil, moduleDef.Menus); err != nil {
			return err
		}
	}

	log.Info("Access catalog seeded")
	return nil
}

func seedMenus(db *gorm.DB, moduleID int64, parentID *int64, menus []menuSeed) error {
	for order, menuDef := range menus {
		menu := Menu{ModuleID: moduleID, Name: menuDef.Name}
		if err := db.Where(Menu{ModuleID: moduleID, Name: menuDef.Name}).
			Attrs(Menu{
				ParentID:   parentID,
				Path:       menuDef.Path,
				Icon:       menuDef.Icon,
				OrderIndex: order,
				IsSidebar:  menuDef.IsSidebar,
			}).
			FirstOrCreate(&menu).Error; err != nil {
			return fmt.Errorf("failed to create menu %s: %v", menuDef.Name, err)
		}
		if len(menuDef.Children) > 0 {
			if err := seedMenus(db, moduleID, &menu.ID, menuDef.Children); err != nil {
				return err
			}
		}
	}
	return nil
}

// SeedSuperAdminRole creates the Super Admin role and grants it every
// permission at every menu of every module.
func SeedSuperAdminRole(db *gorm.DB) (*Role, error) {
	role := Role{Name: SuperAdminRoleName}
	if err := db.Where(Role{Name: SuperAdminRoleName}).
		Attrs(Role{Description: "Full access to every module"}).
		FirstOrCreate(&role).Error; err != nil {
		return nil, fmt.Errorf("failed to create role %s: %v", SuperAdminRoleName, err)
	}

	var permissions []Permission
	if err := db.Where("is_deleted = ?", false).Order("id ASC").Find(&permissions).Error; err != nil {
		return nil, err
	}
	permissionIDs := make([]string, 0, len(permissions))
	for _, perm := range permissions {
		permissionIDs = append(permissionIDs, strconv.FormatInt(perm.ID, 10))
	}
	allPermissions := strings.Join(permissionIDs, ",")

	var menus []Menu
	if err := db.Where("is_deleted = ?", false).Find(&menus).Error; err != nil {
		return nil, err
	}
	for _, menu := range menus {
		grant := RolePermission{RoleID: role.ID, ModuleID: menu.ModuleID, MenuID: menu.ID}
		if err := db.Where(RolePermission{RoleID: role.ID, ModuleID: menu.ModuleID, MenuID: menu.ID}).
			Assign(RolePermission{PermissionIDs: allPermissions}).
			FirstOrCreate(&grant).Error; err != nil {
			return nil, fmt.Errorf("failed to grant menu %d to %s: %v", menu.ID, SuperAdminRoleName, err)
		}
	}

	return &role, nil
}

// CreateSuperAdminFromEnv ensures the bootstrap account exists. Without a
// configured password no account is created.
func CreateSuperAdminFromEnv(db *gorm.DB, cfg config.SeedConfig) error {
	role, err := SeedSuperAdminRole(db)
	if err != nil {
		return err
	}

	var count int64
	db.Model(&User{}).Where("role_id = ? AND is_deleted = ?", role.ID, false).Count(&count)
	if count > 0 {
		return nil
	}

	if cfg.SuperAdminPassword == "" {
		log.Warn("SUPERADMIN_PASSWORD not set, skipping super admin creation")
		return nil
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(cfg.SuperAdminPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %v", err)
	}

	var modules []Module
	if err := db.Where("is_deleted = ?", false).Order("id ASC").Find(&modules).Error; err != nil {
		return err
	}
	moduleIDs := make([]string, 0, len(modules))
	for _, module := range modules {
		moduleIDs = append(moduleIDs, strconv.FormatInt(module.ID, 10))
	}

	user := User{
		FullName:      "Super Admin",
		Username:      cfg.SuperAdminUsername,
		Email:         cfg.SuperAdminEmail,
		RoleID:        &role.ID,
		AssignModules: strings.Join(moduleIDs, ","),
		PasswordHash:  string(hashedPassword),
	}

	if err := db.Create(&user).Error; err != nil {
		return fmt.Errorf("failed to create superadmin user: %v", err)
	}

	log.Success("Super admin %s created", cfg.SuperAdminUsername)
	return nil
}

// ModuleIDByName resolves a seeded module id for route registration.
func ModuleIDByName(db *gorm.DB, name string) (int64, error) {
	var module Module
	if err := db.Where("name = ? AND is_deleted = ?", name, false).First(&module).Error; err != nil {
		return 0, fmt.Errorf("module %s is not seeded: %v", name, err)
	}
	return module.ID, nil
}
