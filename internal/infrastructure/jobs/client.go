package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/shoporders/backend/internal/infrastructure/config"
	"github.com/shoporders/backend/internal/infrastructure/mail"
	"go.uber.org/zap"
)

// enqueuer is the part of *asynq.Client used to push tasks
type enqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
	Close() error
}

// Client enqueues background tasks
type Client struct {
	client   enqueuer
	maxRetry int
	timeout  time.Duration
	logger   *zap.Logger
}

// NewClient creates a Client that stores tasks in the configured Redis
func NewClient(redisCfg config.RedisConfig, jobsCfg config.JobsConfig, logger *zap.Logger) *Client {
	return newClient(asynq.NewClient(redisOpt(redisCfg)), jobsCfg, logger)
}

func newClient(q enqueuer, cfg config.JobsConfig, logger *zap.Logger) *Client {
	return &Client{
		client:   q,
		maxRetry: cfg.MaxRetry,
		timeout:  cfg.Timeout,
		logger:   logger.Named("jobs"),
	}
}

// EnqueueEmail schedules msg for delivery and returns the task ID
func (c *Client) EnqueueEmail(ctx context.Context, msg mail.Message) (string, error) {
	if err := msg.Validate(); err != nil {
		return "", err
	}
	task, err := NewEmailTask(msg)
	if err != nil {
		return "", err
	}
	return c.enqueue(ctx, task, QueueCritical)
}

// EnqueuePriceListImport schedules a price-list import for the shop user and returns the task ID
func (c *Client) EnqueuePriceListImport(ctx context.Context, userID uuid.UUID, url string) (string, error) {
	task, err := NewPriceListImportTask(userID, url)
	if err != nil {
		return "", err
	}
	return c.enqueue(ctx, task, QueueLow)
}

func (c *Client) enqueue(ctx context.Context, task *asynq.Task, queue string) (string, error) {
	info, err := c.client.EnqueueContext(ctx, task,
		asynq.Queue(queue),
		asynq.MaxRetry(c.maxRetry),
		asynq.Timeout(c.timeout),
	)
	if err != nil {
		return "", fmt.Errorf("enqueue %s: %w", task.Type(), err)
	}

	c.logger.Debug("task enqueued",
		zap.String("type", task.Type()),
		zap.String("task_id", info.ID),
		zap.String("queue", info.Queue),
	)
	return info.ID, nil
}

// Close releases the Redis connection
func (c *Client) Close() error {
	return c.client.Close()
}

func redisOpt(cfg config.RedisConfig) asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	}
}
