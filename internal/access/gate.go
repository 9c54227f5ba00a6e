package access

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"crmadmin/internal/models"
)

// DenyReason is the machine-oriented reason attached to a denied decision.
// The set is fixed; the HTTP layer maps reasons to status codes.
type DenyReason string

const (
	DenyModuleAccess      DenyReason = "module access denied"
	DenyMenuNotFound      DenyReason = "menu not found for path"
	DenyUnknownPermission DenyReason = "permission type not found"
	DenyNoRole            DenyReason = "no role assigned"
	DenyByRole            DenyReason = "permission denied by role"
)

// Decision is the outcome of a permission check. Reason is set only when
// Allowed is false.
type Decision struct {
	Allowed bool
	Reason  DenyReason
}

func allow() Decision            { return Decision{Allowed: true} }
func deny(r DenyReason) Decision { return Decision{Reason: r} }

// Check decides whether user may perform the named permission on the menu
// identified by (moduleID, path). Evaluation order, each step short-circuiting
// to a denial:
//
//  1. moduleID must appear in the user's assigned-module CSV.
//  2. An active, non-deleted menu must exist for (moduleID, path).
//  3. An active, non-deleted permission must exist with that exact name.
//  4. A user-level grant containing the permission id allows immediately,
//     without consulting the role.
//  5. Otherwise the user's role grant at that menu must contain the id.
//
// Check is read-only; a non-nil error means the database failed, not that
// access was denied.
func Check(ctx context.Context, db *gorm.DB, user *models.User, moduleID int64, path, permissionName string) (Decision, error) {
	if !ParseIDSet(user.AssignModules).Has(moduleID) {
		return deny(DenyModuleAccess), nil
	}

	var menu models.Menu
	err := db.WithContext(ctx).
		Where("module_id = ? AND path = ? AND is_active = ? AND is_deleted = ?", moduleID, path, true, false).
		First(&menu).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return deny(DenyMenuNotFound), nil
	}
	if err != nil {
		return Decision{}, err
	}

	var perm models.Permission
	err = db.WithContext(ctx).
		Where("name = ? AND is_active = ? AND is_deleted = ?", permissionName, true, false).
		First(&perm).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return deny(DenyUnknownPermission), nil
	}
	if err != nil {
		return Decision{}, err
	}

	var userPerm models.UserPermission
	err = db.WithContext(ctx).
		Where("user_id = ? AND module_id = ? AND menu_id = ? AND is_active = ? AND is_deleted = ?",
			user.ID, moduleID, menu.ID, true, false).
		First(&userPerm).Error
	switch {
	case err == nil:
		if ParseIDSet(userPerm.PermissionIDs).Has(perm.ID) {
			// User-level grant wins outright; the role is not consulted.
			return allow(), nil
		}
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return Decision{}, err
	}

	if user.RoleID == nil {
		return deny(DenyNoRole), nil
	}

	var rolePerm models.RolePermission
	err = db.WithContext(ctx).
		Where("role_id = ? AND module_id = ? AND menu_id = ? AND is_active = ? AND is_deleted = ?",
			*user.RoleID, moduleID, menu.ID, true, false).
		First(&rolePerm).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return deny(DenyByRole), nil
	}
	if err != nil {
		return Decision{}, err
	}
	if !ParseIDSet(rolePerm.PermissionIDs).Has(perm.ID) {
		return deny(DenyByRole), nil
	}
	return allow(), nil
}
