// Package notification turns domain events into e-mails for buyers and new users.
package notification

import (
	"context"

	"github.com/shoporders/backend/internal/infrastructure/mail"
	"go.uber.org/zap"
)

// EmailQueue schedules e-mails for background delivery
type EmailQueue interface {
	EnqueueEmail(ctx context.Context, msg mail.Message) (string, error)
}

// MailDispatcher hands messages to the job queue when one is configured and
// sends them directly otherwise
type MailDispatcher struct {
	sender mail.Sender
	queue  EmailQueue
	logger *zap.Logger
}

// NewMailDispatcher creates a dispatcher. queue may be nil.
func NewMailDispatcher(sender mail.Sender, queue EmailQueue, logger *zap.Logger) *MailDispatcher {
	return &MailDispatcher{sender: sender, queue: queue, logger: logger}
}

// Dispatch delivers or enqueues the message
func (d *MailDispatcher) Dispatch(ctx context.Context, msg mail.Message) error {
	if err := msg.Validate(); err != nil {
		return err
	}
	if d.queue != nil {
		taskID, err := d.queue.EnqueueEmail(ctx, msg)
		if err != nil {
			return err
		}
		d.logger.Debug("E-mail enqueued", zap.String("task_id", taskID), zap.String("subject", msg.Subject))
		return nil
	}
	return d.sender.Send(ctx, msg)
}
