package tasks

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"crmadmin/internal/tasks/rate"
	"crmadmin/internal/utils/logger"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"
)

// TaskClient handles task enqueuing with per-user rate limiting on exports
type TaskClient struct {
	client       *asynq.Client
	logger       *logger.Logger
	redisClient  *redis.Client
	exportLimits *rate.QueueRateLimiter
}

// NewTaskClient creates a new TaskClient with the given Redis configuration
func NewTaskClient(redisAddr, username, password string, db int) *TaskClient {
	redisOpt := asynq.RedisClientOpt{
		Addr:     redisAddr,
		Username: username,
		Password: password,
		DB:       db,
	}

	redisClient := redis.NewClient(
		&redis.Options{
			Addr:     redisAddr,
			Username: username,
			Password: password,
			DB:       db,
		},
	)

	return &TaskClient{
		client:      asynq.NewClient(redisOpt),
		redisClient: redisClient,
		exportLimits: rate.NewQueueRateLimiter(redisClient, rate.QueueConfig{
			Name: QueueDefault,
			RateLimit: rate.RateLimit{
				Window:  time.Minute,
				MaxJobs: 5,
			},
		}),
		logger: logger.New("TASKS"),
	}
}

// Close closes the underlying asynq client
func (c *TaskClient) Close() error {
	return c.client.Close()
}

// EnqueueCSVExport queues an export job. Each user gets a small budget of
// concurrent export requests per minute.
func (c *TaskClient) EnqueueCSVExport(ctx context.Context, entity string, requestedBy int64) (string, error) {
	allowed, err := c.exportLimits.Allow(ctx, strconv.FormatInt(requestedBy, 10))
	if err != nil {
		return "", err
	}
	if !allowed {
		return "", fmt.Errorf("too many export requests, try again later")
	}

	payload, err := json.Marshal(CSVExportPayload{Entity: entity, RequestedBy: requestedBy})
	if err != nil {
		return "", err
	}

	task := asynq.NewTask(TaskTypeCSVExport, payload,
		asynq.Queue(QueueDefault),
		asynq.MaxRetry(RetryDefault),
		asynq.Timeout(TimeoutMedium),
	)
	info, err := c.client.EnqueueContext(ctx, task)
	if err != nil {
		return "", c.logger.Error("failed to enqueue export task", err)
	}

	c.logger.Info("enqueued export task %s for entity %s", info.ID, entity)
	return info.ID, nil
}

// EnqueueLogCleanup queues a cleanup run. It runs immediately unless a
// scheduling option (for example CronSchedule) defers it.
func (c *TaskClient) EnqueueLogCleanup(ctx context.Context, retentionDays int, opts ...asynq.Option) error {
	payload, err := json.Marshal(LogCleanupPayload{RetentionDays: retentionDays})
	if err != nil {
		return err
	}

	options := append([]asynq.Option{
		asynq.Queue(QueueLow),
		asynq.MaxRetry(RetryMin),
		asynq.Timeout(TimeoutLong),
	}, opts...)
	task := asynq.NewTask(TaskTypeLogCleanup, payload, options...)
	if _, err := c.client.EnqueueContext(ctx, task); err != nil {
		return c.logger.Error("failed to enqueue cleanup task", err)
	}
	return nil
}
