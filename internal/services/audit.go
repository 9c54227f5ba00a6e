package services

import (
	"encoding/json"

	"crmadmin/internal/events"
	"crmadmin/internal/models"
	"crmadmin/internal/utils/logger"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var auditLog = logger.New("audit_service")

// RegisterAuditSubscriber writes one audit row per mutation on the bus.
// Audit writes never touch the request path; failures are logged and dropped.
func RegisterAuditSubscriber(db *gorm.DB) {
	events.On("", func(m events.Mutation) {
		var details datatypes.JSON
		if m.Payload != nil {
			if raw, err := json.Marshal(m.Payload); err == nil {
				details = datatypes.JSON(raw)
			}
		}

		entry := models.AuditLog{
			UserID:   m.ActorID,
			Action:   m.Action,
			Entity:   m.Entity,
			EntityID: m.EntityID,
			Details:  details,
		}
		if err := db.Create(&entry).Error; err != nil {
			_ = auditLog.Error("failed to persist audit log", err)
		}
	})
}
