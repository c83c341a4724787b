package workers

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
	"github.com/startupops/backend/internal/notification"
	"github.com/startupops/backend/internal/queue"
)

type NotificationWorker struct {
	notifSvc *notification.Service
}

func NewNotificationWorker(notifSvc *notification.Service) *NotificationWorker {
	return &NotificationWorker{notifSvc: notifSvc}
}

func (w *NotificationWorker) ProcessTask(ctx context.Context, t *asynq.Task) error {
	var p queue.NotificationCreatePayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		return fmt.Errorf("unmarshal notification payload: %w", err)
	}
	return w.notifSvc.Insert(ctx, p)
}
