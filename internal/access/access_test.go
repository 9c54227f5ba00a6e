package access

import (
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"crmadmin/internal/models"
)

// newTestDB opens an in-memory database and migrates the tables the access
// routines read.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Module{},
		&models.Menu{},
		&models.Permission{},
		&models.RolePermission{},
		&models.UserPermission{},
	))
	return db
}

func ptr(v int64) *int64 { return &v }

// seedAccessFixture builds the data the end-to-end scenarios share:
// module 2 with root menu 10 ("/sales/companies"), permissions
// 1=view 2=create 3=edit 4=delete, role 5 granted "1,2" at menu 10.
func seedAccessFixture(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()

	require.NoError(t, db.Create(&models.Module{
		Base: models.Base{ID: 2, IsActive: true},
		Name: "Sales",
	}).Error)

	require.NoError(t, db.Create(&models.Menu{
		Base:     models.Base{ID: 10, IsActive: true},
		ModuleID: 2,
		Name:     "Companies",
		Path:     "/sales/companies",
	}).Error)

	perms := []models.Permission{
		{Base: models.Base{ID: 1, IsActive: true}, Name: "view"},
		{Base: models.Base{ID: 2, IsActive: true}, Name: "create"},
		{Base: models.Base{ID: 3, IsActive: true}, Name: "edit"},
		{Base: models.Base{ID: 4, IsActive: true}, Name: "delete"},
	}
	require.NoError(t, db.Create(&perms).Error)

	require.NoError(t, db.Create(&models.RolePermission{
		Base:          models.Base{IsActive: true},
		RoleID:        5,
		ModuleID:      2,
		MenuID:        10,
		PermissionIDs: "1,2",
	}).Error)

	user := &models.User{
		Base:          models.Base{ID: 100, IsActive: true},
		FullName:      "Test User",
		Username:      "tester",
		Email:         "tester@example.com",
		RoleID:        ptr(5),
		AssignModules: "2",
	}
	require.NoError(t, db.Create(user).Error)
	return user
}
