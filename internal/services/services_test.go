package services

import (
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"crmadmin/internal/models"
)

// newTestDB opens an in-memory database with the tables the services touch.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Role{},
		&models.Module{},
		&models.Menu{},
		&models.Permission{},
		&models.RolePermission{},
		&models.UserPermission{},
		&models.Country{},
		&models.Company{},
		&models.CompanyAddress{},
		&models.CompanyTurnover{},
		&models.CompanyProfit{},
		&models.CompanyDocument{},
		&models.Contact{},
	))
	return db
}

func ptr(v int64) *int64 { return &v }
