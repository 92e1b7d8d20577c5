package jobs

import (
	"context"
	"fmt"

	"github.com/hibiken/asynq"

	"github.com/alignhq/api/pkg/logger"
)

// Queue names used by the worker.
const (
	QueueDefault = "default"
	QueueAudit   = "audit"
)

// Client manages enqueueing background jobs using Asynq.
type Client struct {
	client *asynq.Client
	logger *logger.Logger
}

// ClientConfig contains configuration for the job client.
type ClientConfig struct {
	RedisAddr     string
	RedisPassword string
	RedisDB       int
}

// NewClient creates a new job client for enqueueing tasks.
func NewClient(cfg ClientConfig, log *logger.Logger) (*Client, error) {
	client := asynq.NewClient(asynq.RedisClientOpt{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	return &Client{
		client: client,
		logger: log.With("component", "job_client"),
	}, nil
}

// Close closes the client connection.
func (c *Client) Close() error {
	return c.client.Close()
}

// EnqueueIsolationAudit enqueues an isolation audit run.
func (c *Client) EnqueueIsolationAudit(ctx context.Context, payload IsolationAuditPayload) error {
	task, err := NewIsolationAuditTask(payload)
	if err != nil {
		return fmt.Errorf("failed to create task: %w", err)
	}

	info, err := c.client.EnqueueContext(ctx, task)
	if err != nil {
		c.logger.Error("failed to enqueue isolation audit",
			"trigger", payload.Trigger,
			"error", err,
		)
		return fmt.Errorf("failed to enqueue task: %w", err)
	}

	c.logger.Info("isolation audit queued",
		"task_id", info.ID,
		"trigger", payload.Trigger,
		"queue", info.Queue,
	)
	return nil
}
