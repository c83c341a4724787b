package workers

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
	"github.com/startupops/backend/internal/audit"
	"github.com/startupops/backend/internal/queue"
)

type AuditWorker struct {
	auditSvc *audit.Service
}

func NewAuditWorker(auditSvc *audit.Service) *AuditWorker {
	return &AuditWorker{auditSvc: auditSvc}
}

func (w *AuditWorker) ProcessTask(ctx context.Context, t *asynq.Task) error {
	var p queue.AuditWritePayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		return fmt.Errorf("unmarshal audit payload: %w", err)
	}
	return w.auditSvc.Insert(ctx, p)
}
