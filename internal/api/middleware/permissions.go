package middleware

import (
	"net/http"

	"crmadmin/internal/access"
	"crmadmin/internal/models"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

// Canonical permission names used by route registration.
const (
	PermissionView   = "view"
	PermissionCreate = "create"
	PermissionEdit   = "edit"
	PermissionDelete = "delete"
	PermissionExport = "export"
	PermissionImport = "import"
)

// denyStatus maps a deny reason to an HTTP status. Unresolvable references
// surface as 404, everything else is a plain 403.
func denyStatus(reason access.DenyReason) int {
	switch reason {
	case access.DenyMenuNotFound, access.DenyUnknownPermission:
		return http.StatusNotFound
	default:
		return http.StatusForbidden
	}
}

// RequireSuperAdmin allows only users holding the seeded Super Admin role.
// It must run after the auth middleware has loaded the user.
func RequireSuperAdmin(db *gorm.DB) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			user := GetUser(c)
			if user == nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "Authentication required")
			}
			if user.RoleID == nil {
				return echo.NewHTTPError(http.StatusForbidden, "Super admin role required")
			}

			var role models.Role
			err := db.WithContext(c.Request().Context()).
				Where("id = ? AND is_active = ? AND is_deleted = ?", *user.RoleID, true, false).
				First(&role).Error
			if err != nil || role.Name != models.SuperAdminRoleName {
				return echo.NewHTTPError(http.StatusForbidden, "Super admin role required")
			}

			return next(c)
		}
	}
}

// RequirePermission gates a route on the access check for one
// (module, menu path, permission) triple. It must run after the auth
// middleware has loaded the user.
func RequirePermission(db *gorm.DB, moduleID int64, menuPath, permission string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			user := GetUser(c)
			if user == nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "Authentication required")
			}

			decision, err := access.Check(c.Request().Context(), db, user, moduleID, menuPath, permission)
			if err != nil {
				return echo.NewHTTPError(http.StatusInternalServerError, "Permission check failed")
			}
			if !decision.Allowed {
				return echo.NewHTTPError(denyStatus(decision.Reason), string(decision.Reason))
			}

			return next(c)
		}
	}
}
