package handlers

import (
	"net/http"
	"time"

	"crmadmin/internal/access"
	"crmadmin/internal/api/middleware"
	"crmadmin/internal/api/validator"
	"crmadmin/internal/models"
	"crmadmin/internal/utils"
	"crmadmin/internal/utils/logger"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type AuthHandler struct {
	db    *gorm.DB
	redis *redis.Client
	log   *logger.Logger
}

// NewAuthHandler builds the auth endpoints. redisClient may be nil; logout
// then degrades to a client-side token discard.
func NewAuthHandler(db *gorm.DB, redisClient *redis.Client) *AuthHandler {
	return &AuthHandler{db: db, redis: redisClient, log: logger.New("AuthHandler")}
}

type TokenResponse struct {
	AccessToken  string             `json:"access_token"`
	RefreshToken string             `json:"refresh_token"`
	User         *access.UserAccess `json:"user"`
}

func (h *AuthHandler) recordLogin(c echo.Context, userID *int64, username string, success bool, message string) {
	entry := models.LoginLog{
		UserID:    userID,
		Username:  username,
		IPAddress: c.RealIP(),
		UserAgent: c.Request().UserAgent(),
		Success:   success,
		Message:   message,
	}
	if err := h.db.Create(&entry).Error; err != nil {
		_ = h.log.Error("failed to record login attempt", err)
	}
}

// Login authenticates a user and returns tokens plus the resolved menu tree.
// @Summary Log in
// @Description Authenticate with username and password
// @Tags auth
// @Accept json
// @Produce json
// @Param request body validator.LoginRequest true "Credentials"
// @Success 200 {object} TokenResponse
// @Failure 400 {object} map[string]string "Validation error"
// @Failure 401 {object} map[string]string "Invalid credentials"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req validator.LoginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}
	if err := c.Validate(req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	var user models.User
	if err := h.db.Where("username = ? AND is_active = ? AND is_deleted = ?", req.Username, true, false).
		First(&user).Error; err != nil {
		h.recordLogin(c, nil, req.Username, false, "unknown or inactive user")
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Invalid credentials"})
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		h.recordLogin(c, &user.ID, req.Username, false, "wrong password")
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Invalid credentials"})
	}

	accessToken, err := utils.GenerateJWT(user)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to generate token"})
	}
	refreshToken, err := utils.GenerateRefreshToken(user)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to generate refresh token"})
	}

	userAccess, err := access.Resolve(c.Request().Context(), h.db, &user)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to resolve access"})
	}

	h.recordLogin(c, &user.ID, req.Username, true, "")

	return c.JSON(http.StatusOK, TokenResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		User:         userAccess,
	})
}

// Refresh exchanges a refresh token for a new token pair.
// @Summary Refresh tokens
// @Tags auth
// @Accept json
// @Produce json
// @Param request body validator.RefreshRequest true "Refresh token"
// @Success 200 {object} TokenResponse
// @Failure 401 {object} map[string]string "Invalid token"
// @Router /auth/refresh [post]
func (h *AuthHandler) Refresh(c echo.Context) error {
	var req validator.RefreshRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}
	if err := c.Validate(req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	claims, err := utils.ParseRefreshToken(req.RefreshToken)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Invalid refresh token"})
	}

	var user models.User
	if err := h.db.Where("id = ? AND is_active = ? AND is_deleted = ?", claims.UserID, true, false).
		First(&user).Error; err != nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "User not found or inactive"})
	}

	accessToken, err := utils.GenerateJWT(user)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to generate token"})
	}
	refreshToken, err := utils.GenerateRefreshToken(user)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to generate refresh token"})
	}

	userAccess, err := access.Resolve(c.Request().Context(), h.db, &user)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to resolve access"})
	}

	return c.JSON(http.StatusOK, TokenResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		User:         userAccess,
	})
}

// Logout revokes the presented access token until it expires.
// @Summary Log out
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]string
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	token := middleware.GetToken(c)
	if token == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "No token to revoke"})
	}

	if h.redis != nil {
		ttl := time.Hour
		if claims, err := utils.ParseJWT(token); err == nil && claims.ExpiresAt != nil {
			if remaining := time.Until(claims.ExpiresAt.Time); remaining > 0 {
				ttl = remaining
			}
		}
		if err := h.redis.Set(c.Request().Context(), middleware.DenylistKeyPrefix+token, "1", ttl).Err(); err != nil {
			return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to revoke token"})
		}
	}

	return c.JSON(http.StatusOK, map[string]string{"message": "Logged out"})
}

// Me returns the caller's profile with the effective menu tree.
// @Summary Current user info
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} access.UserAccess
// @Failure 401 {object} map[string]string "Unauthorized"
// @Router /auth/me [get]
func (h *AuthHandler) Me(c echo.Context) error {
	user := middleware.GetUser(c)
	if user == nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Authentication required"})
	}

	userAccess, err := access.Resolve(c.Request().Context(), h.db, user)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to resolve access"})
	}

	return c.JSON(http.StatusOK, userAccess)
}

// ChangePassword verifies the old password and stores a new hash.
// @Summary Change password
// @Tags auth
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body validator.ChangePasswordRequest true "Passwords"
// @Success 200 {object} map[string]string
// @Failure 400 {object} map[string]string "Validation error or wrong password"
// @Router /auth/change-password [post]
func (h *AuthHandler) ChangePassword(c echo.Context) error {
	user := middleware.GetUser(c)
	if user == nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Authentication required"})
	}

	var req validator.ChangePasswordRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}
	if err := c.Validate(req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.OldPassword)); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Old password is incorrect"})
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to hash password"})
	}

	if err := h.db.Model(user).Updates(map[string]interface{}{
		"password_hash": string(hashedPassword),
		"updated_by":    user.ID,
	}).Error; err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to update password"})
	}

	return c.JSON(http.StatusOK, map[string]string{"message": "Password changed"})
}

// ResetPassword issues a temporary random password for another account. The
// plaintext is returned once and never stored.
// @Summary Reset a user's password
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Param id path int true "User id"
// @Success 200 {object} map[string]string
// @Failure 404 {object} map[string]string "User not found"
// @Router /users/{id}/reset-password [post]
func (h *AuthHandler) ResetPassword(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}

	var user models.User
	if err := h.db.Where("id = ? AND is_deleted = ?", id, false).First(&user).Error; err != nil {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "User not found"})
	}

	tempPassword, err := utils.GenerateRandomString(12)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to generate password"})
	}
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(tempPassword), bcrypt.DefaultCost)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to hash password"})
	}

	if err := h.db.Model(&user).Updates(map[string]interface{}{
		"password_hash": string(hashedPassword),
		"updated_by":    middleware.GetUserID(c),
	}).Error; err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to reset password"})
	}

	h.log.Info("password reset for user %s", user.Username)
	return c.JSON(http.StatusOK, map[string]string{"temporary_password": tempPassword})
}
