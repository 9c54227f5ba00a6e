package tasks

import "time"

// Task Types
const (
	TaskTypeCSVExport  = "export:csv"
	TaskTypeLogCleanup = "logs:cleanup"
)

// Task Queues
const (
	QueueCritical = "critical" // For time-sensitive tasks
	QueueDefault  = "default"  // For regular tasks like exports
	QueueLow      = "low"      // For background tasks like cleanup
)

// Task Timeouts
const (
	TimeoutShort  = 1 * time.Minute
	TimeoutMedium = 5 * time.Minute
	TimeoutLong   = 30 * time.Minute
)

// Task Retry Settings
const (
	RetryMax     = 5
	RetryDefault = 3
	RetryMin     = 1
)

// CSVExportPayload asks the worker to build and store one CSV snapshot.
type CSVExportPayload struct {
	Entity      string `json:"entity"`
	RequestedBy int64  `json:"requested_by"`
}

// LogCleanupPayload carries the retention window for the cleanup task.
type LogCleanupPayload struct {
	RetentionDays int `json:"retention_days"`
}
