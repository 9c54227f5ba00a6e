package access

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"crmadmin/internal/models"
)

func TestResolveEmptyAssignedModules(t *testing.T) {
	db := newTestDB(t)
	user := seedAccessFixture(t, db)
	user.AssignModules = ""

	// Scenario 3: valid terminal state, not an error.
	out, err := Resolve(context.Background(), db, user)
	require.NoError(t, err)
	assert.Equal(t, user.ID, out.ID)
	assert.Equal(t, user.Username, out.Username)
	assert.NotNil(t, out.AssignedModules)
	assert.Empty(t, out.AssignedModules)
	assert.NotNil(t, out.Menus)
	assert.Empty(t, out.Menus)
}

func TestResolveRoleGrantsOnly(t *testing.T) {
	db := newTestDB(t)
	user := seedAccessFixture(t, db)

	out, err := Resolve(context.Background(), db, user)
	require.NoError(t, err)
	assert.Equal(t, []int64{2}, out.AssignedModules)
	require.Len(t, out.Menus, 1)

	node := out.Menus[0]
	assert.Equal(t, int64(10), node.ID)
	assert.Equal(t, int64(2), node.ModuleID)
	assert.Equal(t, "/sales/companies", node.Path)
	assert.Equal(t, []string{"view", "create"}, node.Permissions)
	assert.Empty(t, node.Children)
}

func TestResolveUnionOfRoleAndUserGrants(t *testing.T) {
	db := newTestDB(t)
	user := seedAccessFixture(t, db)

	// Scenario 2: user layer adds edit (id 3) on top of role "1,2".
	require.NoError(t, db.Create(&models.UserPermission{
		Base:          models.Base{IsActive: true},
		UserID:        user.ID,
		ModuleID:      2,
		MenuID:        10,
		PermissionIDs: "3",
	}).Error)

	out, err := Resolve(context.Background(), db, user)
	require.NoError(t, err)
	require.Len(t, out.Menus, 1)
	assert.Equal(t, []string{"view", "create", "edit"}, out.Menus[0].Permissions)
}

func TestResolveUserGrantsWithoutRole(t *testing.T) {
	db := newTestDB(t)
	user := seedAccessFixture(t, db)
	user.RoleID = nil

	require.NoError(t, db.Create(&models.UserPermission{
		Base:          models.Base{IsActive: true},
		UserID:        user.ID,
		ModuleID:      2,
		MenuID:        10,
		PermissionIDs: "4",
	}).Error)

	out, err := Resolve(context.Background(), db, user)
	require.NoError(t, err)
	require.Len(t, out.Menus, 1)
	assert.Equal(t, []string{"delete"}, out.Menus[0].Permissions)
}

func TestResolveNeverLeaksUnassignedModules(t *testing.T) {
	db := newTestDB(t)
	user := seedAccessFixture(t, db)

	// Grant rows referencing module 9 exist, but the module is not assigned.
	require.NoError(t, db.Create(&models.Menu{
		Base:     models.Base{ID: 30, IsActive: true},
		ModuleID: 9,
		Name:     "Hidden",
		Path:     "/hidden",
	}).Error)
	require.NoError(t, db.Create(&models.RolePermission{
		Base:          models.Base{IsActive: true},
		RoleID:        5,
		ModuleID:      9,
		MenuID:        30,
		PermissionIDs: "1,2,3,4",
	}).Error)

	out, err := Resolve(context.Background(), db, user)
	require.NoError(t, err)
	for _, node := range out.Menus {
		assert.NotEqual(t, int64(9), node.ModuleID)
	}
}

func TestResolvePruning(t *testing.T) {
	db := newTestDB(t)
	user := seedAccessFixture(t, db)

	// Scenario 4: a root with no direct grants survives through a granted
	// child; a fully empty branch disappears.
	menus := []models.Menu{
		{Base: models.Base{ID: 40, IsActive: true}, ModuleID: 2, Name: "Reports", Path: "/sales/reports"},
		{Base: models.Base{ID: 41, IsActive: true}, ModuleID: 2, ParentID: ptr(40), Name: "Pipeline", Path: "/sales/reports/pipeline"},
		{Base: models.Base{ID: 42, IsActive: true}, ModuleID: 2, ParentID: ptr(40), Name: "Forecast", Path: "/sales/reports/forecast"},
		{Base: models.Base{ID: 43, IsActive: true}, ModuleID: 2, Name: "Archive", Path: "/sales/archive"},
	}
	require.NoError(t, db.Create(&menus).Error)
	require.NoError(t, db.Create(&models.RolePermission{
		Base:          models.Base{IsActive: true},
		RoleID:        5,
		ModuleID:      2,
		MenuID:        41,
		PermissionIDs: "1",
	}).Error)

	out, err := Resolve(context.Background(), db, user)
	require.NoError(t, err)

	byID := make(map[int64]*MenuNode)
	var walk func(nodes []*MenuNode)
	walk = func(nodes []*MenuNode) {
		for _, n := range nodes {
			byID[n.ID] = n
			walk(n.Children)
		}
	}
	walk(out.Menus)

	require.Contains(t, byID, int64(40), "pass-through parent must survive")
	assert.Empty(t, byID[40].Permissions)
	require.Len(t, byID[40].Children, 1)
	assert.Equal(t, int64(41), byID[40].Children[0].ID)

	assert.NotContains(t, byID, int64(42), "empty leaf must be pruned")
	assert.NotContains(t, byID, int64(43), "empty root must be pruned")
}

func TestResolveDropsDanglingPermissionIDs(t *testing.T) {
	db := newTestDB(t)
	user := seedAccessFixture(t, db)

	// Scenario 6: id 9999 has no permission row; resolution keeps the rest.
	require.NoError(t, db.Model(&models.RolePermission{}).
		Where("role_id = ? AND menu_id = ?", 5, 10).
		Update("permission_ids", "2,9999").Error)

	out, err := Resolve(context.Background(), db, user)
	require.NoError(t, err)
	require.Len(t, out.Menus, 1)
	assert.Equal(t, []string{"create"}, out.Menus[0].Permissions)
}

func TestResolveSkipsInactivePermissions(t *testing.T) {
	db := newTestDB(t)
	user := seedAccessFixture(t, db)
	require.NoError(t, db.Model(&models.Permission{}).
		Where("id = ?", 1).Update("is_active", false).Error)

	out, err := Resolve(context.Background(), db, user)
	require.NoError(t, err)
	require.Len(t, out.Menus, 1)
	assert.Equal(t, []string{"create"}, out.Menus[0].Permissions)
}

func TestResolveIsDeterministic(t *testing.T) {
	db := newTestDB(t)
	user := seedAccessFixture(t, db)
	require.NoError(t, db.Create(&models.UserPermission{
		Base:          models.Base{IsActive: true},
		UserID:        user.ID,
		ModuleID:      2,
		MenuID:        10,
		PermissionIDs: "4,3",
	}).Error)

	first, err := Resolve(context.Background(), db, user)
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		again, err := Resolve(context.Background(), db, user)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}
