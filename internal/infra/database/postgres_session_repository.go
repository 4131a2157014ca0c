package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"student_notification_bot/internal/domain/session"

	"github.com/jmoiron/sqlx"
)

type PostgresSessionRepository struct {
	db *sqlx.DB
}

func NewPostgresSessionRepository(db *sqlx.DB) *PostgresSessionRepository {
	return &PostgresSessionRepository{db: db}
}

type sessionRow struct {
	ID          string         `db:"id"`
	Title       string         `db:"title"`
	ScheduledAt time.Time      `db:"scheduled_at"`
	ZoomJoinURL sql.NullString `db:"zoom_join_url"`
	MeetingLink sql.NullString `db:"meeting_link"`
}

// reminderFlagColumn maps a reminder kind to its idempotency column. The
// column name is interpolated into SQL, so it must come from this fixed set.
func reminderFlagColumn(kind session.ReminderKind) (string, error) {
	switch kind {
	case session.Reminder24h:
		return "reminder_24h_sent", nil
	case session.Reminder15min:
		return "reminder_15min_sent", nil
	default:
		return "", fmt.Errorf("unknown session reminder kind: %s", kind)
	}
}

func (r *PostgresSessionRepository) ListDueForReminder(ctx context.Context, kind session.ReminderKind, from, to time.Time) ([]*session.Session, error) {
	col, err := reminderFlagColumn(kind)
	if err != nil {
		return nil, err
	}

	query := fmt.Sprintf(`SELECT id, title, scheduled_at, zoom_join_url, meeting_link
               FROM sessions
               WHERE scheduled_at >= $1 AND scheduled_at <= $2 AND %s = FALSE
               ORDER BY scheduled_at`, col)

	var rows []sessionRow
	if err := r.db.SelectContext(ctx, &rows, query, from, to); err != nil {
		return nil, fmt.Errorf("error querying sessions due for %s reminder: %w", kind, err)
	}

	ids := make([]string, len(rows))
	for i, row := range rows {
		ids[i] = row.ID
	}
	recipients, err := sessionRecipients(ctx, r.db, ids)
	if err != nil {
		return nil, err
	}

	sessions := make([]*session.Session, 0, len(rows))
	for _, row := range rows {
		link := row.ZoomJoinURL
		if !link.Valid {
			link = row.MeetingLink
		}
		sessions = append(sessions, &session.Session{
			ID:          row.ID,
			Title:       row.Title,
			ScheduledAt: row.ScheduledAt,
			MeetingLink: link,
			Recipients:  recipients[row.ID],
		})
	}
	return sessions, nil
}

func (r *PostgresSessionRepository) MarkReminderSent(ctx context.Context, id string, kind session.ReminderKind) error {
	col, err := reminderFlagColumn(kind)
	if err != nil {
		return err
	}

	query := fmt.Sprintf(`UPDATE sessions SET %s = TRUE, updated_at = NOW() WHERE id = $1`, col)
	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("error marking session %s reminder sent: %w", kind, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("error checking rows affected for session %s: %w", id, err)
	}
	if affected == 0 {
		return ErrSessionNotFound
	}
	return nil
}
