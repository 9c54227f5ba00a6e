package tasks

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"crmadmin/internal/models"
	"crmadmin/internal/services"
	"crmadmin/internal/utils/logger"

	"github.com/hibiken/asynq"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// TaskHandler handles task processing
type TaskHandler struct {
	db      *gorm.DB
	logger  *logger.Logger
	exports *services.ExportService
}

// NewTaskHandler creates a new TaskHandler. exports may be built without
// object storage; export tasks then fail with a clear error.
func NewTaskHandler(db *gorm.DB, exports *services.ExportService) *TaskHandler {
	return &TaskHandler{
		db:      db,
		logger:  logger.New("task_handler"),
		exports: exports,
	}
}

// HandleCSVExport builds a CSV snapshot and pushes it to object storage.
func (h *TaskHandler) HandleCSVExport(ctx context.Context, t *asynq.Task) error {
	var payload CSVExportPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("invalid export payload: %w", err)
	}

	data, err := h.exports.ExportCSV(ctx, payload.Entity)
	if err != nil {
		return err
	}

	key, url, err := h.exports.UploadExport(ctx, data, payload.Entity)
	if err != nil {
		return err
	}

	h.logger.Success("export of %s finished, key %s", payload.Entity, key)

	details, _ := json.Marshal(map[string]string{"key": key, "url": url})
	actorID := payload.RequestedBy
	entry := models.AuditLog{
		UserID:  &actorID,
		Action:  "export",
		Entity:  payload.Entity,
		Details: datatypes.JSON(details),
	}
	if err := h.db.WithContext(ctx).Create(&entry).Error; err != nil {
		_ = h.logger.Error("failed to record export audit entry", err)
	}
	return nil
}

// HandleLogCleanup hard-deletes login and audit logs past the retention
// window. Soft-deleted rows of every age are swept as well.
func (h *TaskHandler) HandleLogCleanup(ctx context.Context, t *asynq.Task) error {
	var payload LogCleanupPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("invalid cleanup payload: %w", err)
	}
	if payload.RetentionDays <= 0 {
		payload.RetentionDays = 90
	}

	cutoff := time.Now().AddDate(0, 0, -payload.RetentionDays)

	loginResult := h.db.WithContext(ctx).
		Where("created_at < ?", cutoff).
		Delete(&models.LoginLog{})
	if loginResult.Error != nil {
		return loginResult.Error
	}

	auditResult := h.db.WithContext(ctx).
		Where("created_at < ?", cutoff).
		Delete(&models.AuditLog{})
	if auditResult.Error != nil {
		return auditResult.Error
	}

	h.logger.Info("log cleanup removed %d login rows and %d audit rows",
		loginResult.RowsAffected, auditResult.RowsAffected)
	return nil
}
