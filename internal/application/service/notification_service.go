package service

import (
	"context"
	"fmt"
	"time"

	"github.com/peopleops/hris-lifecycle/internal/application/dispatcher"
	"github.com/peopleops/hris-lifecycle/internal/application/port"
	"github.com/peopleops/hris-lifecycle/internal/domain/entity"
	"github.com/peopleops/hris-lifecycle/internal/domain/event"
)

// Sender delivers one composed notification. Implementations live in
// infrastructure; the service only spools and drains.
type Sender interface {
	Send(ctx context.Context, n *entity.Notification) error
}

// NotificationService turns lifecycle events into outbox entries and
// drains the spool through a Sender. Delivery is at-least-once: entries
// stay pending until a send succeeds, failures keep their last error.
type NotificationService interface {
	// Register subscribes the service's handlers on the dispatcher
	Register(d dispatcher.Dispatcher)

	// ProcessPending drains up to limit pending entries through the sender
	ProcessPending(ctx context.Context, limit int) (int, error)

	// GetByCaseID lists the notifications spooled for one case
	GetByCaseID(ctx context.Context, caseID string) ([]*entity.Notification, error)
}

type notificationServiceImpl struct {
	outbox port.NotificationOutbox
	sender Sender
	logger Logger
	now    func() time.Time
}

// NewNotificationService creates a new NotificationService
func NewNotificationService(outbox port.NotificationOutbox, sender Sender, logger Logger) NotificationService {
	return &notificationServiceImpl{
		outbox: outbox,
		sender: sender,
		logger: logger,
		now:    time.Now,
	}
}

// Register subscribes handlers for the externally visible events. Stage
// and checklist churn stays internal; only decisions and terminal moves
// notify anyone.
func (s *notificationServiceImpl) Register(d dispatcher.Dispatcher) {
	d.SubscribeNamed(event.TypeCaseCreated, "notify-case-created", s.onEvent)
	d.SubscribeNamed(event.TypeCaseApproved, "notify-case-approved", s.onEvent)
	d.SubscribeNamed(event.TypeCaseRejected, "notify-case-rejected", s.onEvent)
	d.SubscribeNamed(event.TypeCaseOffboarded, "notify-case-offboarded", s.onEvent)
}

func (s *notificationServiceImpl) onEvent(ctx context.Context, evt *event.Event) error {
	subject, body := composeMessage(evt)
	n := &entity.Notification{
		CaseID:    evt.CaseID,
		EventType: evt.Type.String(),
		Recipient: evt.EmployeeEmail,
		Subject:   subject,
		Body:      body,
		Status:    entity.NotificationStatusPending,
		CreatedAt: s.now(),
		UpdatedAt: s.now(),
	}

	if err := s.outbox.Enqueue(ctx, n); err != nil {
		s.logger.Error("Failed to enqueue notification",
			"error", err,
			"case_id", evt.CaseID,
			"event_type", evt.Type,
		)
		return err
	}

	return nil
}

// ProcessPending drains up to limit pending entries. Send failures mark
// the entry failed and move on; the batch never aborts midway.
func (s *notificationServiceImpl) ProcessPending(ctx context.Context, limit int) (int, error) {
	pending, err := s.outbox.ListPending(ctx, limit)
	if err != nil {
		return 0, err
	}

	sent := 0
	for _, n := range pending {
		if err := s.sender.Send(ctx, n); err != nil {
			s.logger.Error("Notification send failed",
				"error", err,
				"notification_id", n.ID,
				"recipient", n.Recipient,
			)
			if markErr := s.outbox.MarkFailed(ctx, n.ID, err.Error()); markErr != nil {
				s.logger.Error("Failed to mark notification failed", "error", markErr, "notification_id", n.ID)
			}
			continue
		}
		if err := s.outbox.MarkSent(ctx, n.ID); err != nil {
			s.logger.Error("Failed to mark notification sent", "error", err, "notification_id", n.ID)
			continue
		}
		sent++
	}

	return sent, nil
}

// GetByCaseID lists the notifications spooled for one case.
func (s *notificationServiceImpl) GetByCaseID(ctx context.Context, caseID string) ([]*entity.Notification, error) {
	return s.outbox.GetByCaseID(ctx, caseID)
}

func composeMessage(evt *event.Event) (subject, body string) {
	switch evt.Type {
	case event.TypeCaseCreated:
		subject = "A lifecycle case has been opened for you"
		body = fmt.Sprintf("A %s case (%s) was opened. You will be notified of its outcome.",
			evt.GetPayloadString("category"), evt.CaseID)
	case event.TypeCaseApproved:
		subject = "Your lifecycle case was approved"
		body = fmt.Sprintf("Case %s was approved by %s.", evt.CaseID, evt.GetPayloadString("decided_by"))
	case event.TypeCaseRejected:
		subject = "Your lifecycle case was rejected"
		body = fmt.Sprintf("Case %s was rejected by %s. Note: %s",
			evt.CaseID, evt.GetPayloadString("decided_by"), evt.GetPayloadString("note"))
	case event.TypeCaseOffboarded:
		subject = "Offboarding completed"
		body = fmt.Sprintf("Case %s is finalized. Reason: %s", evt.CaseID, evt.GetPayloadString("reason"))
	default:
		subject = "Lifecycle case update"
		body = fmt.Sprintf("Case %s changed (%s).", evt.CaseID, evt.Type)
	}
	return subject, body
}
