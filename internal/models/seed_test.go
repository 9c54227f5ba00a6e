package models

import (
	"strings"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"crmadmin/internal/config"
)

func newSeedTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&User{}, &Role{}, &Module{}, &Menu{}, &Permission{},
		&RolePermission{}, &UserPermission{},
	))
	return db
}

func TestSeedAccessCatalogIsIdempotent(t *testing.T) {
	db := newSeedTestDB(t)

	require.NoError(t, SeedAccessCatalog(db))
	require.NoError(t, SeedAccessCatalog(db))

	var permCount, moduleCount, menuCount int64
	db.Model(&Permission{}).Count(&permCount)
	db.Model(&Module{}).Count(&moduleCount)
	db.Model(&Menu{}).Count(&menuCount)

	assert.Equal(t, int64(6), permCount)
	assert.Equal(t, int64(3), moduleCount)

	var once int64 = menuCount
	require.NoError(t, SeedAccessCatalog(db))
	db.Model(&Menu{}).Count(&menuCount)
	assert.Equal(t, once, menuCount)
}

func TestSeedMenusNesting(t *testing.T) {
	db := newSeedTestDB(t)
	require.NoError(t, SeedAccessCatalog(db))

	var geography Menu
	require.NoError(t, db.Where("name = ?", "Geography").First(&geography).Error)
	assert.Nil(t, geography.ParentID)

	var countries Menu
	require.NoError(t, db.Where("name = ?", "Countries").First(&countries).Error)
	require.NotNil(t, countries.ParentID)
	assert.Equal(t, geography.ID, *countries.ParentID)
	assert.Equal(t, geography.ModuleID, countries.ModuleID)
	assert.Equal(t, "/masters/countries", countries.Path)
}

func TestSeedIncludesClassificationMenus(t *testing.T) {
	db := newSeedTestDB(t)
	require.NoError(t, SeedAccessCatalog(db))

	var classifications Menu
	require.NoError(t, db.Where("name = ?", "Classifications").First(&classifications).Error)

	for _, path := range []string{
		"/masters/currencies",
		"/masters/industry-segments",
		"/masters/head-of-companies",
	} {
		var menu Menu
		require.NoError(t, db.Where("path = ?", path).First(&menu).Error, path)
		require.NotNil(t, menu.ParentID)
		assert.Equal(t, classifications.ID, *menu.ParentID)
	}
}

func TestSeedSuperAdminRoleGrantsEverything(t *testing.T) {
	db := newSeedTestDB(t)
	require.NoError(t, SeedAccessCatalog(db))

	role, err := SeedSuperAdminRole(db)
	require.NoError(t, err)
	require.Equal(t, SuperAdminRoleName, role.Name)

	var menuCount, grantCount int64
	db.Model(&Menu{}).Count(&menuCount)
	db.Model(&RolePermission{}).Where("role_id = ?", role.ID).Count(&grantCount)
	assert.Equal(t, menuCount, grantCount)

	var grant RolePermission
	require.NoError(t, db.Where("role_id = ?", role.ID).First(&grant).Error)
	assert.Len(t, strings.Split(grant.PermissionIDs, ","), 6)

	// Running again must not duplicate grants
	_, err = SeedSuperAdminRole(db)
	require.NoError(t, err)
	db.Model(&RolePermission{}).Where("role_id = ?", role.ID).Count(&grantCount)
	assert.Equal(t, menuCount, grantCount)
}

func TestCreateSuperAdminFromEnv(t *testing.T) {
	db := newSeedTestDB(t)
	require.NoError(t, SeedAccessCatalog(db))

	cfg := config.SeedConfig{
		SuperAdminUsername: "root",
		SuperAdminEmail:    "root@example.com",
		SuperAdminPassword: "changeme123",
	}
	require.NoError(t, CreateSuperAdminFromEnv(db, cfg))

	var user User
	require.NoError(t, db.Where("username = ?", "root").First(&user).Error)
	require.NotNil(t, user.RoleID)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("changeme123")))
	assert.Len(t, strings.Split(user.AssignModules, ","), 3)

	// Second call must not create a second account
	require.NoError(t, CreateSuperAdminFromEnv(db, cfg))
	var count int64
	db.Model(&User{}).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestCreateSuperAdminSkippedWithoutPassword(t *testing.T) {
	db := newSeedTestDB(t)
	require.NoError(t, SeedAccessCatalog(db))

	require.NoError(t, CreateSuperAdminFromEnv(db, config.SeedConfig{SuperAdminUsername: "root"}))
	var count int64
	db.Model(&User{}).Count(&count)
	assert.Equal(t, int64(0), count)
}
