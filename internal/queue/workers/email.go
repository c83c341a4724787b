package workers

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/hibiken/asynq"
	"github.com/startupops/backend/internal/email"
	"github.com/startupops/backend/internal/queue"
)

type EmailWorker struct {
	mailer *email.Mailer
}

func NewEmailWorker(mailer *email.Mailer) *EmailWorker {
	return &EmailWorker{mailer: mailer}
}

// ProcessTask sends one email. Delivery failures are logged and swallowed:
// mail is fire-and-forget and must not churn through the retry queue.
func (w *EmailWorker) ProcessTask(ctx context.Context, t *asynq.Task) error {
	var p queue.EmailSendPayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		return fmt.Errorf("unmarshal email payload: %w", err)
	}
	if err := w.mailer.Send(p.To, p.Subject, p.Body); err != nil {
		slog.Error("email delivery failed", "to", p.To, "error", err)
	}
	return nil
}
