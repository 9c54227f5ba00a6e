package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"crmadmin/internal/models"
)

func newHandlerTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Role{}, &models.LoginLog{}))
	return db
}

func resetPasswordCall(t *testing.T, db *gorm.DB, targetID string, actorID int64) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/users/"+targetID+"/reset-password", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(targetID)
	c.Set("userID", actorID)

	handler := NewAuthHandler(db, nil)
	err := handler.ResetPassword(c)
	if err != nil {
		e.HTTPErrorHandler(err, c)
	}
	return rec
}

func TestResetPasswordIssuesTemporaryPassword(t *testing.T) {
	db := newHandlerTestDB(t)

	oldHash, err := bcrypt.GenerateFromPassword([]byte("original"), bcrypt.DefaultCost)
	require.NoError(t, err)
	user := models.User{FullName: "Meera Iyer", Username: "meera", Email: "meera@example.com", PasswordHash: string(oldHash)}
	require.NoError(t, db.Create(&user).Error)

	rec := resetPasswordCall(t, db, strconv.FormatInt(user.ID, 10), 42)
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	tempPassword := body["temporary_password"]
	require.Len(t, tempPassword, 12)

	var updated models.User
	require.NoError(t, db.First(&updated, user.ID).Error)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(updated.PasswordHash), []byte(tempPassword)))
	assert.Error(t, bcrypt.CompareHashAndPassword([]byte(updated.PasswordHash), []byte("original")))
	require.NotNil(t, updated.UpdatedBy)
	assert.Equal(t, int64(42), *updated.UpdatedBy)
}

func TestResetPasswordUnknownUser(t *testing.T) {
	db := newHandlerTestDB(t)

	rec := resetPasswordCall(t, db, "999", 1)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestResetPasswordSkipsDeletedUser(t *testing.T) {
	db := newHandlerTestDB(t)

	user := models.User{Username: "gone", Email: "gone@example.com"}
	require.NoError(t, db.Create(&user).Error)
	require.NoError(t, db.Model(&user).Update("is_deleted", true).Error)

	rec := resetPasswordCall(t, db, strconv.FormatInt(user.ID, 10), 1)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
