package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/hibiken/asynq"

	"bookstore-catalog/internal/shared"
)

// Client enqueues background work for the worker process.
type Client interface {
	EnqueueMediaDelete(ctx context.Context, path string) error
	Close() error
}

type asynqClient struct {
	client *asynq.Client
}

func NewClient(redisAddr, password string, db int) Client {
	return &asynqClient{
		client: asynq.NewClient(asynq.RedisClientOpt{Addr: redisAddr, Password: password, DB: db}),
	}
}

// EnqueueMediaDelete retries a failed media deletion in the background.
func (c *asynqClient) EnqueueMediaDelete(ctx context.Context, path string) error {
	payload, err := json.Marshal(shared.DeleteMediaPayload{Path: path})
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}

	task := asynq.NewTask(shared.TypeDeleteMedia, payload)
	_, err = c.client.EnqueueContext(ctx, task,
		asynq.Queue(shared.QueueMedia),
		asynq.MaxRetry(5),
		asynq.Timeout(30*time.Second),
	)
	if err != nil {
		return fmt.Errorf("enqueue %s: %w", shared.TypeDeleteMedia, err)
	}
	return nil
}

func (c *asynqClient) Close() error {
	return c.client.Close()
}

// NoopClient is used when the queue is disabled.
type NoopClient struct{}

func (NoopClient) EnqueueMediaDelete(context.Context, string) error { return nil }
func (NoopClient) Close() error                                     { return nil }
