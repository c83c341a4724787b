package queue

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
	"github.com/startupops/backend/internal/config"
)

type Client struct {
	client *asynq.Client
}

func NewClient(cfg config.RedisConfig) *Client {
	return &Client{
		client: asynq.NewClient(asynq.RedisClientOpt{
			Addr:     cfg.Addr,
			Password: cfg.Password,
			DB:       cfg.DB,
		}),
	}
}

func (c *Client) Close() error {
	return c.client.Close()
}

func (c *Client) EnqueueAuditWrite(payload AuditWritePayload) error {
	return c.enqueue(TypeAuditWrite, payload, asynq.Queue("critical"), asynq.MaxRetry(3), asynq.Timeout(30*time.Second))
}

func (c *Client) EnqueueEmailSend(payload EmailSendPayload) error {
	return c.enqueue(TypeEmailSend, payload, asynq.Queue("low"), asynq.MaxRetry(3), asynq.Timeout(time.Minute))
}

func (c *Client) EnqueueNotificationCreate(payload NotificationCreatePayload) error {
	return c.enqueue(TypeNotificationCreate, payload, asynq.MaxRetry(3), asynq.Timeout(30*time.Second))
}

func (c *Client) enqueue(taskType string, payload interface{}, opts ...asynq.Option) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}
	task := asynq.NewTask(taskType, data)
	_, err = c.client.Enqueue(task, opts...)
	if err != nil {
		return fmt.Errorf("enqueue %s: %w", taskType, err)
	}
	return nil
}
