package models

// Module is a top-level grouping of menus, e.g. "User Management" or "Sales".
// A user may only see modules listed in User.AssignModules.
type Module struct {
	Base
	Name        string `gorm:"size:100;not null" json:"name" validate:"required,min=2"`
	Description string `gorm:"size:255" json:"description,omitempty"`
}

func (Module) TableName() string { return "mst_modules" }

// Menu is a node in a per-module tree. ParentID is nil for roots; Path is the
// logical resource identifier permission checks match against.
type Menu struct {
	Base
	ModuleID   int64  `gorm:"not null;index" json:"module_id" validate:"required"`
	ParentID   *int64 `gorm:"index" json:"parent_id,omitempty"`
	Name       string `gorm:"size:100;not null" json:"name" validate:"required,min=2"`
	Path       string `gorm:"size:255" json:"path"`
	Icon       string `gorm:"size:50" json:"icon"`
	OrderIndex int    `gorm:"default:0" json:"order_index"`
	IsSidebar  bool   `gorm:"default:true" json:"is_sidebar"`
}

func (Menu) TableName() string { return "mst_menus" }

// Permission is a named capability such as "view" or "create". Access checks
// look permissions up by exact name.
type Permission struct {
	Base
	Name        string `gorm:"size:50;not null" json:"name" validate:"required,min=2"`
	Description string `gorm:"size:255" json:"description,omitempty"`
}

func (Permission) TableName() string { return "mst_permissions" }

// RolePermission grants a CSV list of permission ids to one role at one menu.
// At most one active, non-deleted row exists per (role, module, menu) triple;
// the write path upserts by that triple.
type RolePermission struct {
	Base
	RoleID        int64  `gorm:"not null;index:idx_role_module_menu" json:"role_id" validate:"required"`
	ModuleID      int64  `gorm:"not null;index:idx_role_module_menu" json:"module_id" validate:"required"`
	MenuID        int64  `gorm:"not null;index:idx_role_module_menu" json:"menu_id" validate:"required"`
	PermissionIDs string `gorm:"size:255" json:"permission_ids" validate:"omitempty,id_csv"`
}

func (RolePermission) TableName() string { return "tbl_role_permissions" }

// UserPermission has the same shape keyed by user instead of role. It is an
// additive override layer: it can grant on top of the role, never revoke.
type UserPermission struct {
	Base
	UserID        int64  `gorm:"not null;index:idx_user_module_menu" json:"user_id" validate:"required"`
	ModuleID      int64  `gorm:"not null;index:idx_user_module_menu" json:"module_id" validate:"required"`
	MenuID        int64  `gorm:"not null;index:idx_user_module_menu" json:"menu_id" validate:"required"`
	PermissionIDs string `gorm:"size:255" json:"permission_ids" validate:"omitempty,id_csv"`
}

func (UserPermission) TableName() string { return "tbl_user_permissions" }
