package handlers

import (
	"fmt"
	"io"
	"net/http"
	"time"

	"crmadmin/internal/api/middleware"
	"crmadmin/internal/api/validator"
	"crmadmin/internal/services"
	"crmadmin/internal/tasks"
	"crmadmin/internal/utils/logger"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

// ExportHandler serves CSV downloads and imports. Large exports can be pushed
// to the worker queue instead of blocking the request.
type ExportHandler struct {
	db      *gorm.DB
	exports *services.ExportService
	tasks   *tasks.TaskClient
	log     *logger.Logger
}

// NewExportHandler builds the export endpoints. taskClient may be nil; async
// exports are then rejected.
func NewExportHandler(db *gorm.DB, exports *services.ExportService, taskClient *tasks.TaskClient) *ExportHandler {
	return &ExportHandler{
		db:      db,
		exports: exports,
		tasks:   taskClient,
		log:     logger.New("ExportHandler"),
	}
}

// ExportCSV streams a CSV snapshot, or queues a worker job with ?async=true.
// @Summary Export an entity to CSV
// @Tags export
// @Produce text/csv
// @Security BearerAuth
// @Param entity path string true "Entity (companies, contacts or users)"
// @Param async query bool false "Queue a background export"
// @Success 200 {string} string "CSV content"
// @Success 202 {object} map[string]string "Task queued"
// @Failure 400 {object} map[string]string "Unknown entity"
// @Router /sales/export/{entity} [get]
func (h *ExportHandler) ExportCSV(c echo.Context) error {
	entity := c.Param("entity")

	if c.QueryParam("async") == "true" {
		if h.tasks == nil {
			return c.JSON(http.StatusServiceUnavailable, map[string]string{"error": "Background exports are not available"})
		}
		taskID, err := h.tasks.EnqueueCSVExport(c.Request().Context(), entity, middleware.GetUserID(c))
		if err != nil {
			return c.JSON(http.StatusTooManyRequests, map[string]string{"error": err.Error()})
		}
		return c.JSON(http.StatusAccepted, map[string]string{"task_id": taskID})
	}

	data, err := h.exports.ExportCSV(c.Request().Context(), entity)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	filename := fmt.Sprintf("%s-%s.csv", entity, time.Now().Format("20060102"))
	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", filename))
	return c.Blob(http.StatusOK, "text/csv", data)
}

// ImportCompaniesFromStorage runs the company import against a CSV object
// already sitting in object storage, referenced by key.
// @Summary Import companies from a stored CSV
// @Tags export
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body validator.ImportRequest true "Object key"
// @Success 200 {object} services.ImportResult
// @Failure 400 {object} map[string]string "Parse or download error"
// @Router /sales/import/companies/storage [post]
func (h *ExportHandler) ImportCompaniesFromStorage(c echo.Context) error {
	var req validator.ImportRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}
	if err := c.Validate(req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	result, err := h.exports.ImportCompaniesFromStorage(c.Request().Context(), req.FileKey, middleware.GetActorID(c))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, result)
}

// ExportUsers streams a CSV snapshot of all accounts.
// @Summary Export users to CSV
// @Tags export
// @Produce text/csv
// @Security BearerAuth
// @Success 200 {string} string "CSV content"
// @Router /users/export [get]
func (h *ExportHandler) ExportUsers(c echo.Context) error {
	data, err := h.exports.ExportUsersCSV(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}

	filename := fmt.Sprintf("users-%s.csv", time.Now().Format("20060102"))
	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", filename))
	return c.Blob(http.StatusOK, "text/csv", data)
}

// ImportCompanies loads companies from an uploaded CSV file.
// @Summary Import companies from CSV
// @Tags export
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param file formData file true "CSV file"
// @Success 200 {object} services.ImportResult
// @Failure 400 {object} map[string]string "Parse error"
// @Router /sales/import/companies [post]
func (h *ExportHandler) ImportCompanies(c echo.Context) error {
	file, err := c.FormFile("file")
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "No file provided"})
	}

	src, err := file.Open()
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to open file"})
	}
	defer src.Close()

	content, err := io.ReadAll(src)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to read file"})
	}

	result, err := h.exports.ImportCompaniesCSV(c.Request().Context(), content, middleware.GetActorID(c))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	return c.JSON(http.StatusOK, result)
}
