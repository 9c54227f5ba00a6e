package handlers

import (
	"net/http"

	"crmadmin/internal/api/validator"
	"crmadmin/internal/tasks"
	"crmadmin/internal/utils/logger"

	"github.com/hibiken/asynq"
	"github.com/labstack/echo/v4"
)

// MaintenanceHandler exposes operational hooks reserved for super admins.
type MaintenanceHandler struct {
	tasks            *tasks.TaskClient
	defaultRetention int
	log              *logger.Logger
}

// NewMaintenanceHandler builds the maintenance endpoints. taskClient may be
// nil; triggers are then rejected.
func NewMaintenanceHandler(taskClient *tasks.TaskClient, defaultRetentionDays int) *MaintenanceHandler {
	return &MaintenanceHandler{
		tasks:            taskClient,
		defaultRetention: defaultRetentionDays,
		log:              logger.New("MaintenanceHandler"),
	}
}

// TriggerLogCleanup queues a log cleanup run, immediately or at the next
// occurrence of an optional cron schedule.
// @Summary Trigger log cleanup
// @Tags maintenance
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body validator.LogCleanupRequest false "Retention and optional cron schedule"
// @Success 202 {object} map[string]string
// @Failure 400 {object} map[string]string "Invalid cron expression"
// @Router /maintenance/logs/cleanup [post]
func (h *MaintenanceHandler) TriggerLogCleanup(c echo.Context) error {
	if h.tasks == nil {
		return c.JSON(http.StatusServiceUnavailable, map[string]string{"error": "Background tasks are not available"})
	}

	var req validator.LogCleanupRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}
	if err := c.Validate(req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	retention := req.RetentionDays
	if retention == 0 {
		retention = h.defaultRetention
	}

	var opts []asynq.Option
	if req.Schedule != "" {
		opt, err := tasks.CronSchedule(req.Schedule)
		if err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
		}
		opts = append(opts, opt)
	}

	if err := h.tasks.EnqueueLogCleanup(c.Request().Context(), retention, opts...); err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to queue cleanup"})
	}

	h.log.Info("log cleanup queued, retention %d days", retention)
	return c.JSON(http.StatusAccepted, map[string]string{"message": "Cleanup queued"})
}
