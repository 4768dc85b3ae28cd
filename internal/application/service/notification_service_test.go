package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/peopleops/hris-lifecycle/internal/application/dispatcher"
	"github.com/peopleops/hris-lifecycle/internal/domain/entity"
	"github.com/peopleops/hris-lifecycle/internal/domain/event"
)

type mockOutbox struct {
	enqueueFunc     func(ctx context.Context, n *entity.Notification) error
	listPendingFunc func(ctx context.Context, limit int) ([]*entity.Notification, error)

	enqueued []entity.Notification
	sentIDs  []int64
	failed   map[int64]string
}

func (m *mockOutbox) Enqueue(ctx context.Context, n *entity.Notification) error {
	if m.enqueueFunc != nil {
		return m.enqueueFunc(ctx, n)
	}
	n.ID = int64(len(m.enqueued) + 1)
	m.enqueued = append(m.enqueued, *n)
	return nil
}

func (m *mockOutbox) GetByCaseID(ctx context.Context, caseID string) ([]*entity.Notification, error) {
	var out []*entity.Notification
	for i := range m.enqueued {
		if m.enqueued[i].CaseID == caseID {
			out = append(out, &m.enqueued[i])
		}
	}
	return out, nil
}

func (m *mockOutbox) ListPending(ctx context.Context, limit int) ([]*entity.Notification, error) {
	if m.listPendingFunc != nil {
		return m.listPendingFunc(ctx, limit)
	}
	return []*entity.Notification{}, nil
}

func (m *mockOutbox) MarkSent(ctx context.Context, id int64) error {
	m.sentIDs = append(m.sentIDs, id)
	return nil
}

func (m *mockOutbox) MarkFailed(ctx context.Context, id int64, errMsg string) error {
	if m.failed == nil {
		m.failed = make(map[int64]string)
	}
	m.failed[id] = errMsg
	return nil
}

type mockSender struct {
	sendFunc func(ctx context.Context, n *entity.Notification) error

	sent []entity.Notification
}

func (m *mockSender) Send(ctx context.Context, n *entity.Notification) error {
	if m.sendFunc != nil {
		return m.sendFunc(ctx, n)
	}
	m.sent = append(m.sent, *n)
	return nil
}

func TestNotificationService_Register(t *testing.T) {
	outbox := &mockOutbox{}
	svc := NewNotificationService(outbox, &mockSender{}, &mockLogger{})

	d := dispatcher.NewDispatcher()
	svc.Register(d)

	evt := event.NewEvent(event.TypeCaseApproved, "case-1", "alex.reyes@corp.test", map[string]interface{}{
		"decided_by": "hr@corp.test",
	})
	if err := d.Dispatch(context.Background(), evt); err != nil {
		t.Fatalf("dispatch failed: %v", err)
	}

	if len(outbox.enqueued) != 1 {
		t.Fatalf("enqueued = %d, want 1", len(outbox.enqueued))
	}
	n := outbox.enqueued[0]
	if n.CaseID != "case-1" || n.Recipient != "alex.reyes@corp.test" {
		t.Errorf("notification = %+v", n)
	}
	if n.Status != entity.NotificationStatusPending {
		t.Errorf("status = %s, want %s", n.Status, entity.NotificationStatusPending)
	}
	if !strings.Contains(n.Body, "hr@corp.test") {
		t.Errorf("body = %q, want the decider named", n.Body)
	}

	// Internal churn is not subscribed.
	churn := event.NewEvent(event.TypeTaskToggled, "case-1", "alex.reyes@corp.test", nil)
	if err := d.Dispatch(context.Background(), churn); err != nil {
		t.Fatalf("dispatch failed: %v", err)
	}
	if len(outbox.enqueued) != 1 {
		t.Errorf("enqueued = %d after a task toggle, want still 1", len(outbox.enqueued))
	}
}

func TestNotificationService_ProcessPending(t *testing.T) {
	pending := []*entity.Notification{
		{ID: 1, CaseID: "case-1", Recipient: "a@corp.test"},
		{ID: 2, CaseID: "case-2", Recipient: "b@corp.test"},
		{ID: 3, CaseID: "case-3", Recipient: "c@corp.test"},
	}
	outbox := &mockOutbox{
		listPendingFunc: func(ctx context.Context, limit int) ([]*entity.Notification, error) {
			return pending, nil
		},
	}
	sender := &mockSender{
		sendFunc: func(ctx context.Context, n *entity.Notification) error {
			if n.ID == 2 {
				return errors.New("smtp refused")
			}
			return nil
		},
	}
	svc := NewNotificationService(outbox, sender, &mockLogger{})

	sent, err := svc.ProcessPending(context.Background(), 10)
	if err != nil {
		t.Fatalf("ProcessPending() unexpected error: %v", err)
	}

	if sent != 2 {
		t.Errorf("sent = %d, want 2", sent)
	}
	if len(outbox.sentIDs) != 2 {
		t.Errorf("marked sent = %v, want ids 1 and 3", outbox.sentIDs)
	}
	if msg, ok := outbox.failed[2]; !ok || !strings.Contains(msg, "smtp refused") {
		t.Errorf("failed marks = %v, want id 2 with the send error", outbox.failed)
	}
}

func TestNotificationService_ProcessPending_ListError(t *testing.T) {
	wantErr := errors.New("spool unavailable")
	outbox := &mockOutbox{
		listPendingFunc: func(ctx context.Context, limit int) ([]*entity.Notification, error) {
			return nil, wantErr
		},
	}
	svc := NewNotificationService(outbox, &mockSender{}, &mockLogger{})

	if _, err := svc.ProcessPending(context.Background(), 10); !errors.Is(err, wantErr) {
		t.Fatalf("ProcessPending() error = %v, want %v", err, wantErr)
	}
}

func TestComposeMessage(t *testing.T) {
	tests := []struct {
		eventType event.Type
		payload   map[string]interface{}
		wantIn    string
	}{
		{event.TypeCaseCreated, map[string]interface{}{"category": "onboarding"}, "onboarding"},
		{event.TypeCaseApproved, map[string]interface{}{"decided_by": "hr@corp.test"}, "hr@corp.test"},
		{event.TypeCaseRejected, map[string]interface{}{"decided_by": "hr@corp.test", "note": "incomplete"}, "incomplete"},
		{event.TypeCaseOffboarded, map[string]interface{}{"reason": "resignation"}, "resignation"},
	}

	for _, tt := range tests {
		t.Run(string(tt.eventType), func(t *testing.T) {
			evt := event.NewEvent(tt.eventType, "case-1", "alex.reyes@corp.test", tt.payload)
			subject, body := composeMessage(evt)
			if subject == "" {
				t.Error("empty subject")
			}
			if !strings.Contains(body, tt.wantIn) {
				t.Errorf("body = %q, want it to mention %q", body, tt.wantIn)
			}
		})
	}
}
