package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"crmadmin/internal/models"
)

func newMiddlewareTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Role{}))
	return db
}

func superAdminCall(t *testing.T, db *gorm.DB, user *models.User) (*httptest.ResponseRecorder, error) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/admin/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if user != nil {
		c.Set("user", user)
	}

	handler := RequireSuperAdmin(db)(func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})
	return rec, handler(c)
}

func TestRequireSuperAdminRejectsAnonymous(t *testing.T) {
	db := newMiddlewareTestDB(t)

	_, err := superAdminCall(t, db, nil)
	var httpErr *echo.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusUnauthorized, httpErr.Code)
}

func TestRequireSuperAdminRejectsRolelessUser(t *testing.T) {
	db := newMiddlewareTestDB(t)

	_, err := superAdminCall(t, db, &models.User{Username: "nobody"})
	var httpErr *echo.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusForbidden, httpErr.Code)
}

func TestRequireSuperAdminRejectsOtherRoles(t *testing.T) {
	db := newMiddlewareTestDB(t)
	role := models.Role{Name: "Sales Manager"}
	require.NoError(t, db.Create(&role).Error)

	_, err := superAdminCall(t, db, &models.User{Username: "manager", RoleID: &role.ID})
	var httpErr *echo.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusForbidden, httpErr.Code)
}

func TestRequireSuperAdminRejectsDeletedRole(t *testing.T) {
	db := newMiddlewareTestDB(t)
	role := models.Role{Name: models.SuperAdminRoleName}
	require.NoError(t, db.Create(&role).Error)
	require.NoError(t, db.Model(&role).Update("is_deleted", true).Error)

	_, err := superAdminCall(t, db, &models.User{Username: "ghost", RoleID: &role.ID})
	var httpErr *echo.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusForbidden, httpErr.Code)
}

func TestRequireSuperAdminAllowsSuperAdmin(t *testing.T) {
	db := newMiddlewareTestDB(t)
	role := models.Role{Name: models.SuperAdminRoleName}
	require.NoError(t, db.Create(&role).Error)

	rec, err := superAdminCall(t, db, &models.User{Username: "root", RoleID: &role.ID})
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)
}
