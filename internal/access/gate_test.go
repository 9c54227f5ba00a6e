package access

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"crmadmin/internal/models"
)

func TestCheckDeniesUnassignedModule(t *testing.T) {
	db := newTestDB(t)
	user := seedAccessFixture(t, db)

	// Module 3 is fully configured but not assigned to the user.
	require.NoError(t, db.Create(&models.Menu{
		Base:     models.Base{ID: 20, IsActive: true},
		ModuleID: 3,
		Name:     "Users",
		Path:     "/user-management/users",
	}).Error)

	dec, err := Check(context.Background(), db, user, 3, "/user-management/users", "view")
	require.NoError(t, err)
	assert.False(t, dec.Allowed)
	assert.Equal(t, DenyModuleAccess, dec.Reason)
}

func TestCheckDeniesEmptyAssignedModules(t *testing.T) {
	db := newTestDB(t)
	user := seedAccessFixture(t, db)
	user.AssignModules = ""

	dec, err := Check(context.Background(), db, user, 2, "/sales/companies", "view")
	require.NoError(t, err)
	assert.False(t, dec.Allowed)
	assert.Equal(t, DenyModuleAccess, dec.Reason)
}

func TestCheckMenuNotFound(t *testing.T) {
	db := newTestDB(t)
	user := seedAccessFixture(t, db)

	dec, err := Check(context.Background(), db, user, 2, "/nonexistent", "view")
	require.NoError(t, err)
	assert.False(t, dec.Allowed)
	assert.Equal(t, DenyMenuNotFound, dec.Reason)
}

func TestCheckIgnoresInactiveMenu(t *testing.T) {
	db := newTestDB(t)
	user := seedAccessFixture(t, db)
	require.NoError(t, db.Model(&models.Menu{}).Where("id = ?", 10).
		Update("is_active", false).Error)

	dec, err := Check(context.Background(), db, user, 2, "/sales/companies", "view")
	require.NoError(t, err)
	assert.Equal(t, DenyMenuNotFound, dec.Reason)
}

func TestCheckUnknownPermission(t *testing.T) {
	db := newTestDB(t)
	user := seedAccessFixture(t, db)

	dec, err := Check(context.Background(), db, user, 2, "/sales/companies", "approve")
	require.NoError(t, err)
	assert.False(t, dec.Allowed)
	assert.Equal(t, DenyUnknownPermission, dec.Reason)
}

func TestCheckRoleGrantAllows(t *testing.T) {
	db := newTestDB(t)
	user := seedAccessFixture(t, db)

	for _, name := range []string{"view", "create"} {
		dec, err := Check(context.Background(), db, user, 2, "/sales/companies", name)
		require.NoError(t, err)
		assert.True(t, dec.Allowed, "expected %q to be granted by role", name)
	}
}

func TestCheckRoleDeniesUngranted(t *testing.T) {
	db := newTestDB(t)
	user := seedAccessFixture(t, db)

	// Scenario 1: role grants "1,2", edit (id 3) is not among them.
	dec, err := Check(context.Background(), db, user, 2, "/sales/companies", "edit")
	require.NoError(t, err)
	assert.False(t, dec.Allowed)
	assert.Equal(t, DenyByRole, dec.Reason)
}

func TestCheckUserOverrideShortCircuitsRole(t *testing.T) {
	db := newTestDB(t)
	user := seedAccessFixture(t, db)

	// Scenario 2: user-level grant of edit (id 3) allows even though the role
	// does not grant it.
	require.NoError(t, db.Create(&models.UserPermission{
		Base:          models.Base{IsActive: true},
		UserID:        user.ID,
		ModuleID:      2,
		MenuID:        10,
		PermissionIDs: "3",
	}).Error)

	dec, err := Check(context.Background(), db, user, 2, "/sales/companies", "edit")
	require.NoError(t, err)
	assert.True(t, dec.Allowed)
}

func TestCheckUserGrantWithoutRole(t *testing.T) {
	db := newTestDB(t)
	user := seedAccessFixture(t, db)
	user.RoleID = nil

	require.NoError(t, db.Create(&models.UserPermission{
		Base:          models.Base{IsActive: true},
		UserID:        user.ID,
		ModuleID:      2,
		MenuID:        10,
		PermissionIDs: "1",
	}).Error)

	// The user grant does not require a role to also exist.
	dec, err := Check(context.Background(), db, user, 2, "/sales/companies", "view")
	require.NoError(t, err)
	assert.True(t, dec.Allowed)

	// Anything outside the user grant falls through to the missing role.
	dec, err = Check(context.Background(), db, user, 2, "/sales/companies", "create")
	require.NoError(t, err)
	assert.False(t, dec.Allowed)
	assert.Equal(t, DenyNoRole, dec.Reason)
}

func TestCheckNoRoleAssigned(t *testing.T) {
	db := newTestDB(t)
	user := seedAccessFixture(t, db)
	user.RoleID = nil

	dec, err := Check(context.Background(), db, user, 2, "/sales/companies", "view")
	require.NoError(t, err)
	assert.False(t, dec.Allowed)
	assert.Equal(t, DenyNoRole, dec.Reason)
}

func TestCheckIgnoresDeletedGrantRows(t *testing.T) {
	db := newTestDB(t)
	user := seedAccessFixture(t, db)
	require.NoError(t, db.Model(&models.RolePermission{}).
		Where("role_id = ? AND menu_id = ?", 5, 10).
		Update("is_deleted", true).Error)

	dec, err := Check(context.Background(), db, user, 2, "/sales/companies", "view")
	require.NoError(t, err)
	assert.False(t, dec.Allowed)
	assert.Equal(t, DenyByRole, dec.Reason)
}

func TestCheckMalformedRoleCSV(t *testing.T) {
	db := newTestDB(t)
	user := seedAccessFixture(t, db)
	require.NoError(t, db.Model(&models.RolePermission{}).
		Where("role_id = ? AND menu_id = ?", 5, 10).
		Update("permission_ids", "1,,junk, 2 ").Error)

	dec, err := Check(context.Background(), db, user, 2, "/sales/companies", "create")
	require.NoError(t, err)
	assert.True(t, dec.Allowed)
}
