package port

import (
	"context"

	"github.com/peopleops/hris-lifecycle/internal/domain/entity"
)

// NotificationOutbox defines persistence operations for the notification
// spool. Entries are appended by the notification service and marked as
// they are delivered; failed entries keep their last error for retry.
type NotificationOutbox interface {
	Enqueue(ctx context.Context, n *entity.Notification) error
	GetByCaseID(ctx context.Context, caseID string) ([]*entity.Notification, error)
	ListPending(ctx context.Context, limit int) ([]*entity.Notification, error)
	MarkSent(ctx context.Context, id int64) error
	MarkFailed(ctx context.Context, id int64, errMsg string) error
}
