package tasks

import (
	"encoding/json"
	"fmt"

	"crmadmin/internal/utils/logger"

	"github.com/hibiken/asynq"
)

// Scheduler handles periodic task scheduling
type Scheduler struct {
	scheduler     *asynq.Scheduler
	logger        *logger.Logger
	retentionDays int
}

// NewScheduler creates a new task scheduler
func NewScheduler(redisAddr, username, password string, db, retentionDays int, logger *logger.Logger) *Scheduler {
	scheduler := asynq.NewScheduler(
		asynq.RedisClientOpt{
			Addr:     redisAddr,
			Username: username,
			Password: password,
			DB:       db,
		},
		&asynq.SchedulerOpts{},
	)

	return &Scheduler{
		scheduler:     scheduler,
		logger:        logger,
		retentionDays: retentionDays,
	}
}

// Start starts the scheduler
func (s *Scheduler) Start() error {
	if err := s.registerTasks(); err != nil {
		return fmt.Errorf("failed to register tasks: %w", err)
	}

	s.logger.Info("starting task scheduler")
	return s.scheduler.Run()
}

// Stop stops the scheduler
func (s *Scheduler) Stop() {
	s.scheduler.Shutdown()
	s.logger.Info("task scheduler stopped")
}

// registerTasks registers all periodic tasks
func (s *Scheduler) registerTasks() error {
	payload, err := json.Marshal(LogCleanupPayload{RetentionDays: s.retentionDays})
	if err != nil {
		return err
	}

	// Nightly log cleanup at 03:00
	if err := s.RegisterCustomTask("0 3 * * *", TaskTypeLogCleanup, payload,
		asynq.Queue(QueueLow), asynq.MaxRetry(RetryMin)); err != nil {
		return err
	}

	s.logger.Info("registered all periodic tasks")
	return nil
}

// RegisterCustomTask registers a custom periodic task
func (s *Scheduler) RegisterCustomTask(spec string, taskType string, payload []byte, opts ...asynq.Option) error {
	entryID, err := s.scheduler.Register(spec, asynq.NewTask(taskType, payload, opts...))
	if err != nil {
		return fmt.Errorf("failed to register custom task: %w", err)
	}

	s.logger.Info("registered custom task %s %s %s", taskType, spec, entryID)
	return nil
}
