package tasks

import (
	"fmt"
	"time"

	"github.com/hibiken/asynq"
	"github.com/robfig/cron/v3"
)

// CronSchedule returns a ProcessAt option deferring a one-off task to the
// next occurrence of a standard 5-field cron expression.
func CronSchedule(expr string) (asynq.Option, error) {
	schedule, err := cron.ParseStandard(expr)
	if err != nil {
		return nil, fmt.Errorf("invalid cron expression %q: %w", expr, err)
	}
	return asynq.ProcessAt(schedule.Next(time.Now())), nil
}
