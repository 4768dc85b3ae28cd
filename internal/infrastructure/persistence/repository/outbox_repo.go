package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/peopleops/hris-lifecycle/internal/application/port"
	"github.com/peopleops/hris-lifecycle/internal/domain/entity"
	"github.com/peopleops/hris-lifecycle/pkg/database"
)

// OutboxMigrations is the notification spool schema. The spool is a
// local sqlite file: notifications survive restarts without putting
// delivery state in the document store.
var OutboxMigrations = []database.Migration{
	{
		Version: 1,
		Name:    "create_notifications",
		SQL: `
			CREATE TABLE IF NOT EXISTS notifications (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				case_id TEXT NOT NULL,
				event_type TEXT NOT NULL,
				recipient TEXT NOT NULL,
				subject TEXT NOT NULL,
				body TEXT NOT NULL,
				status TEXT NOT NULL DEFAULT 'PENDING',
				attempts INTEGER NOT NULL DEFAULT 0,
				last_error TEXT,
				sent_at DATETIME,
				created_at DATETIME NOT NULL,
				updated_at DATETIME NOT NULL
			);
			CREATE INDEX IF NOT EXISTS idx_notifications_status ON notifications(status);
			CREATE INDEX IF NOT EXISTS idx_notifications_case ON notifications(case_id);
		`,
	},
}

// OutboxRepository implements port.NotificationOutbox on sqlite.
type OutboxRepository struct {
	db     *database.DB
	logger *zap.Logger
}

// NewOutboxRepository creates a new outbox repository
func NewOutboxRepository(db *database.DB, logger *zap.Logger) *OutboxRepository {
	return &OutboxRepository{
		db:     db,
		logger: logger,
	}
}

// Enqueue appends a pending notification to the spool.
func (r *OutboxRepository) Enqueue(ctx context.Context, n *entity.Notification) error {
	query := `
		INSERT INTO notifications (
			case_id, event_type, recipient, subject, body,
			status, attempts, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, 0, ?, ?)
	`

	now := time.Now()
	if n.CreatedAt.IsZero() {
		n.CreatedAt = now
	}
	n.UpdatedAt = now
	if n.Status == "" {
		n.Status = entity.NotificationStatusPending
	}

	result, err := r.db.ExecContext(ctx, query,
		n.CaseID, n.EventType, n.Recipient, n.Subject, n.Body,
		n.Status, n.CreatedAt, n.UpdatedAt,
	)
	if err != nil {
		r.logger.Error("Failed to enqueue notification",
			zap.String("case_id", n.CaseID),
			zap.Error(err))
		return fmt.Errorf("failed to enqueue notification: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}
	n.ID = id
	return nil
}

// GetByCaseID retrieves all notifications spooled for one case.
func (r *OutboxRepository) GetByCaseID(ctx context.Context, caseID string) ([]*entity.Notification, error) {
	query := selectColumns + ` WHERE case_id = ? ORDER BY id`
	return r.queryNotifications(ctx, query, caseID)
}

// ListPending retrieves up to limit pending notifications, oldest first.
func (r *OutboxRepository) ListPending(ctx context.Context, limit int) ([]*entity.Notification, error) {
	query := selectColumns + ` WHERE status = ? ORDER BY id LIMIT ?`
	return r.queryNotifications(ctx, query, entity.NotificationStatusPending, limit)
}

// MarkSent marks one notification as delivered.
func (r *OutboxRepository) MarkSent(ctx context.Context, id int64) error {
	query := `
		UPDATE notifications
		SET status = ?, attempts = attempts + 1, sent_at = ?, updated_at = ?
		WHERE id = ?
	`
	now := time.Now()
	if _, err := r.db.ExecContext(ctx, query, entity.NotificationStatusSent, now, now, id); err != nil {
		r.logger.Error("Failed to mark notification sent",
			zap.Int64("id", id),
			zap.Error(err))
		return fmt.Errorf("failed to mark sent: %w", err)
	}
	return nil
}

// MarkFailed records a failed delivery attempt with its error.
func (r *OutboxRepository) MarkFailed(ctx context.Context, id int64, errMsg string) error {
	query := `
		UPDATE notifications
		SET status = ?, attempts = attempts + 1, last_error = ?, updated_at = ?
		WHERE id = ?
	`
	if _, err := r.db.ExecContext(ctx, query, entity.NotificationStatusFailed, errMsg, time.Now(), id); err != nil {
		r.logger.Error("Failed to mark notification failed",
			zap.Int64("id", id),
			zap.Error(err))
		return fmt.Errorf("failed to mark failed: %w", err)
	}
	return nil
}

const selectColumns = `
	SELECT id, case_id, event_type, recipient, subject, body,
		status, attempts, last_error, sent_at, created_at, updated_at
	FROM notifications
`

func (r *OutboxRepository) queryNotifications(ctx context.Context, query string, args ...interface{}) ([]*entity.Notification, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query notifications: %w", err)
	}
	defer rows.Close()

	var notifications []*entity.Notification
	for rows.Next() {
		var n entity.Notification
		var lastError sql.NullString
		var sentAt sql.NullTime

		if err := rows.Scan(
			&n.ID, &n.CaseID, &n.EventType, &n.Recipient, &n.Subject, &n.Body,
			&n.Status, &n.Attempts, &lastError, &sentAt, &n.CreatedAt, &n.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan notification: %w", err)
		}

		if lastError.Valid {
			n.LastError = lastError.String
		}
		if sentAt.Valid {
			n.SentAt = &sentAt.Time
		}
		notifications = append(notifications, &n)
	}
	return notifications, rows.Err()
}

// Verify interface compliance
var _ port.NotificationOutbox = (*OutboxRepository)(nil)
