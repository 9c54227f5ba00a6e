package models

import (
	"time"
)

// Base contains the common columns shared by every table: integer primary key,
// active/soft-delete flags and audit stamps. Rows are never hard-deleted; every
// read filters on is_deleted = false.
type Base struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	IsActive  bool      `gorm:"default:true" json:"is_active"`
	IsDeleted bool      `gorm:"default:false;index" json:"is_deleted"`
	CreatedBy *int64    `json:"created_by,omitempty"`
	UpdatedBy *int64    `json:"updated_by,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// RowID returns the primary key.
func (b *Base) RowID() int64 { return b.ID }

// SetCreatedBy stamps the creating user.
func (b *Base) SetCreatedBy(actorID *int64) { b.CreatedBy = actorID }

// SetUpdatedBy stamps the updating user.
func (b *Base) SetUpdatedBy(actorID *int64) { b.UpdatedBy = actorID }

// Auditable is implemented by every model embedding Base; the generic CRUD
// service uses it to stamp audit columns without reflection.
type Auditable interface {
	RowID() int64
	SetCreatedBy(*int64)
	SetUpdatedBy(*int64)
}

// Gender values accepted on the users table.
const (
	GenderMale   = "Male"
	GenderFemale = "Female"
	GenderOther  = "Other"
)

// Audit actions recorded by the audit-log subscriber.
const (
	AuditActionCreate = "create"
	AuditActionUpdate = "update"
	AuditActionDelete = "delete"
)
