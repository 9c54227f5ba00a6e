package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-advanced-admin/admin"
	admingorm "github.com/go-advanced-admin/orm-gorm"
	adminecho "github.com/go-advanced-admin/web-echo"
	"golang.org/x/time/rate"

	apimiddleware "crmadmin/internal/api/middleware"
	"crmadmin/internal/api/validator"
	"crmadmin/internal/config"
	"crmadmin/internal/handlers"
	"crmadmin/internal/models"
	"crmadmin/internal/services"
	"crmadmin/internal/tasks"

	console "crmadmin/internal/utils/logger"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Server struct {
	echo       *echo.Echo
	config     *config.Config
	db         *gorm.DB
	redis      *redis.Client
	taskClient *tasks.TaskClient
	exports    *services.ExportService
}

var log = console.New("API-Server")

// NewServer @title CRM Admin API
// @version 1.0
// @description Multi-tenant CRM admin backend with menu-level permissions.
// @host localhost:8080
// @BasePath /api/v1
func NewServer(cfg *config.Config, db *gorm.DB, redisClient *redis.Client, storage *services.S3Service, taskClient *tasks.TaskClient) *Server {
	e := echo.New()

	// Create custom validator
	e.Validator = validator.NewValidator()

	// Configure middleware
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{http.MethodGet, http.MethodPut, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization, echo.HeaderContentLength},
	}))
	e.Use(middleware.RequestID())
	e.Use(middleware.Secure())
	e.Use(middleware.TimeoutWithConfig(middleware.TimeoutConfig{
		Timeout: 30 * time.Second,
	}))
	e.Use(middleware.GzipWithConfig(middleware.GzipConfig{
		Level: 5,
	}))
	e.Use(middleware.BodyLimit("10M"))

	// Custom error handler
	e.HTTPErrorHandler = customHTTPErrorHandler

	// Create server instance
	s := &Server{
		echo:       e,
		config:     cfg,
		db:         db,
		redis:      redisClient,
		taskClient: taskClient,
		exports:    services.NewExportService(db, storage),
	}

	// Seed the access catalog before routes resolve module ids
	if err := models.SeedAccessCatalog(db); err != nil {
		log.Warn("Warning: Failed to seed access catalog: %v", err)
	} else {
		log.Success("Successfully seeded access catalog")
	}

	if err := models.CreateSuperAdminFromEnv(db, cfg.Seed); err != nil {
		log.Warn("Warning: Failed to create super admin: %v", err)
	}

	if storage != nil {
		handlers.RegisterStorageHandler(storage)
		models.RegisterFileURLGenerator(storage)
	}

	services.RegisterAuditSubscriber(db)

	e.Use(middleware.RateLimiter(middleware.NewRateLimiterMemoryStore(rate.Limit(20))))

	// Create a new GORM integrator
	gormIntegrator := admingorm.NewIntegrator(db)
	// Every panel route requires a valid token and the Super Admin role
	authGuard := apimiddleware.NewAuthMiddleware(db, redisClient, cfg.JWT.Secret)
	adminGroup := e.Group("", authGuard.Middleware(), apimiddleware.RequireSuperAdmin(db))
	echoIntegrator := adminecho.NewIntegrator(adminGroup)

	// The route group already rejected anyone who is not a super admin, so
	// every request reaching the panel is allowed
	permissionChecker := func(
		request admin.PermissionRequest, ctx interface{},
	) (bool, error) {
		return true, nil
	}

	adminPanel, err := admin.NewPanel(
		gormIntegrator, echoIntegrator, permissionChecker, nil,
	)
	if err != nil {
		_ = log.Error("Failed to create admin panel", err)
		return nil
	}

	_, err = adminPanel.RegisterApp(
		"CRMAdmin",
		"CRM Admin Panel",
		nil,
	)
	if err != nil {
		_ = log.Error("Failed to register admin panel app", err)
		return nil
	}

	// Register routes
	s.registerRoutes()
	return s
}

func (s *Server) Start() error {
	return s.echo.Start(fmt.Sprintf("%s:%d", s.config.Server.Host, s.config.Server.Port))
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

// Health check endpoint
func (s *Server) healthCheck(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]interface{}{
		"status":  "healthy",
		"version": "1.0.0",
		"time":    time.Now().Format(time.RFC3339),
	})
}

// Custom HTTP error handler
func customHTTPErrorHandler(err error, c echo.Context) {
	var (
		code    = http.StatusInternalServerError
		message interface{}
	)

	switch e := err.(type) {
	case *echo.HTTPError:
		code = e.Code
		message = e.Message
	case validator.ValidationErrors:
		code = http.StatusBadRequest
		message = formatValidationErrors(e)
	default:
		message = http.StatusText(code)
	}

	if !c.Response().Committed {
		if c.Request().Method == http.MethodHead {
			err = c.NoContent(code)
		} else {
			err = c.JSON(code, map[string]interface{}{
				"error": message,
				"code":  code,
				"time":  time.Now().Format(time.RFC3339),
			})
		}
		if err != nil {
			c.Echo().Logger.Error(err)
		}
	}
}

// formatValidationErrors formats validation errors into a map
func formatValidationErrors(errors validator.ValidationErrors) map[string]string {
	errMap := make(map[string]string)
	for _, err := range errors {
		field := err.Field()
		tag := err.Tag()
		param := err.Param()

		switch tag {
		case "required":
			errMap[field] = fmt.Sprintf("%s is required", field)
		case "email":
			errMap[field] = fmt.Sprintf("%s must be a valid email", field)
		case "min":
			errMap[field] = fmt.Sprintf("%s must be at least %s", field, param)
		case "max":
			errMap[field] = fmt.Sprintf("%s must be at most %s", field, param)
		case "url":
			errMap[field] = fmt.Sprintf("%s must be a valid URL", field)
		case "gender":
			errMap[field] = fmt.Sprintf("%s must be Male, Female or Other", field)
		case "id_csv":
			errMap[field] = fmt.Sprintf("%s must be a comma-separated list of ids", field)
		default:
			errMap[field] = fmt.Sprintf("%s failed validation: %s", field, tag)
		}
	}
	return errMap
}
