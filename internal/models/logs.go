package models

import (
	"gorm.io/datatypes"
)

// LoginLog records every authentication attempt, successful or not.
type LoginLog struct {
	Base
	UserID    *int64 `gorm:"index" json:"user_id,omitempty"`
	Username  string `gorm:"size:100" json:"username"`
	IPAddress string `gorm:"size:45" json:"ip_address"`
	UserAgent string `gorm:"size:255" json:"user_agent"`
	Success   bool   `json:"success"`
	Message   string `gorm:"size:255" json:"message,omitempty"`
}

func (LoginLog) TableName() string { return "tbl_login_logs" }

// AuditLog records entity mutations emitted on the event bus. Details holds
// the mutated row as JSON.
type AuditLog struct {
	Base
	UserID   *int64         `gorm:"index" json:"user_id,omitempty"`
	Action   string         `gorm:"size:20" json:"action"`
	Entity   string         `gorm:"size:100;index" json:"entity"`
	EntityID int64          `json:"entity_id"`
	Details  datatypes.JSON `json:"details,omitempty"`
}

func (AuditLog) TableName() string { return "tbl_audit_logs" }
