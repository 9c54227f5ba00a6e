package middleware

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"crmadmin/internal/models"
	"crmadmin/internal/utils"
	"crmadmin/internal/utils/logger"

	"github.com/golang-jwt/jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

var log = logger.New("auth_middleware")

// DenylistKeyPrefix namespaces revoked access tokens in redis. Logout writes
// a key per token with a TTL matching the token's remaining lifetime.
const DenylistKeyPrefix = "crmadmin:denylist:"

type AuthMiddleware struct {
	db        *gorm.DB
	redis     *redis.Client
	jwtSecret string
}

// NewAuthMiddleware builds the JWT guard. redisClient may be nil; revocation
// checks are skipped without it.
func NewAuthMiddleware(db *gorm.DB, redisClient *redis.Client, jwtSecret string) *AuthMiddleware {
	return &AuthMiddleware{
		db:        db,
		redis:     redisClient,
		jwtSecret: jwtSecret,
	}
}

func (m *AuthMiddleware) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "Missing authorization header")
			}

			tokenParts := strings.Split(authHeader, " ")
			if len(tokenParts) != 2 || tokenParts[0] != "Bearer" {
				return echo.NewHTTPError(http.StatusUnauthorized, "Invalid authorization header format")
			}

			return m.validateJWT(c, tokenParts[1], next)
		}
	}
}

func (m *AuthMiddleware) validateJWT(c echo.Context, tokenString string, next echo.HandlerFunc) error {
	claims := &utils.Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(m.jwtSecret), nil
	})

	if err != nil || !token.Valid {
		return echo.NewHTTPError(http.StatusUnauthorized, "Invalid token")
	}

	// Validate expiration
	if claims.ExpiresAt != nil && claims.ExpiresAt.Before(time.Now()) {
		return echo.NewHTTPError(http.StatusUnauthorized, "Token has expired")
	}

	// Reject tokens revoked by logout
	if m.redis != nil {
		exists, err := m.redis.Exists(c.Request().Context(), DenylistKeyPrefix+tokenString).Result()
		if err != nil {
			_ = log.Error("denylist lookup failed", err)
		} else if exists > 0 {
			return echo.NewHTTPError(http.StatusUnauthorized, "Token has been revoked")
		}
	}

	// Verify user exists and is usable
	user := &models.User{}
	if err := m.db.WithContext(c.Request().Context()).
		Where("id = ? AND is_active = ? AND is_deleted = ?", claims.UserID, true, false).
		First(user).Error; err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not found or inactive")
	}

	// Set context values
	c.Set("user", user)
	c.Set("userID", user.ID)
	c.Set("username", user.Username)
	c.Set("token", tokenString)

	return next(c)
}

// GetUser returns the authenticated user loaded by the middleware.
func GetUser(c echo.Context) *models.User {
	if user, ok := c.Get("user").(*models.User); ok {
		return user
	}
	return nil
}

// GetUserID Helper functions to get values from context
func GetUserID(c echo.Context) int64 {
	if id, ok := c.Get("userID").(int64); ok {
		return id
	}
	return 0
}

// GetActorID returns the authenticated user id as a nullable audit stamp.
func GetActorID(c echo.Context) *int64 {
	if id := GetUserID(c); id > 0 {
		return &id
	}
	return nil
}

// GetToken returns the raw bearer token of the request.
func GetToken(c echo.Context) string {
	if token, ok := c.Get("token").(string); ok {
		return token
	}
	return ""
}
