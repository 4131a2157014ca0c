package database

import (
	"context"
	"database/sql"
	"fmt"

	"student_notification_bot/internal/domain/recording"

	"github.com/jmoiron/sqlx"
)

type PostgresRecordingRepository struct {
	db *sqlx.DB
}

func NewPostgresRecordingRepository(db *sqlx.DB) *PostgresRecordingRepository {
	return &PostgresRecordingRepository{db: db}
}

type recordingRow struct {
	ID           string         `db:"id"`
	SessionID    string         `db:"session_id"`
	VideoURL     sql.NullString `db:"video_url"`
	SessionTitle sql.NullString `db:"session_title"`
}

func (r *PostgresRecordingRepository) ListAwaitingNotification(ctx context.Context) ([]*recording.Recording, error) {
	// LEFT JOIN keeps recordings with a dangling session reference; they
	// surface with no recipients and still get marked, instead of being
	// re-fetched every firing forever.
	query := `SELECT r.id, r.session_id, r.video_url, s.title AS session_title
               FROM recordings r
               LEFT JOIN sessions s ON s.id = r.session_id
               WHERE r.visible_to_students = TRUE AND r.notification_sent = FALSE
               ORDER BY r.id`

	var rows []recordingRow
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("error querying recordings awaiting notification: %w", err)
	}

	sessionIDs := make([]string, len(rows))
	for i, row := range rows {
		sessionIDs[i] = row.SessionID
	}
	recipients, err := sessionRecipients(ctx, r.db, sessionIDs)
	if err != nil {
		return nil, err
	}

	recordings := make([]*recording.Recording, 0, len(rows))
	for _, row := range rows {
		title := "Session"
		if row.SessionTitle.Valid && row.SessionTitle.String != "" {
			title = row.SessionTitle.String
		}
		recordings = append(recordings, &recording.Recording{
			ID:                row.ID,
			SessionID:         row.SessionID,
			SessionTitle:      title,
			VideoURL:          row.VideoURL,
			VisibleToStudents: true,
			Recipients:        recipients[row.SessionID],
		})
	}
	return recordings, nil
}

func (r *PostgresRecordingRepository) MarkNotificationSent(ctx context.Context, id string) error {
	query := `UPDATE recordings SET notification_sent = TRUE, updated_at = NOW() WHERE id = $1`
	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("error marking recording notification sent: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("error checking rows affected for recording %s: %w", id, err)
	}
	if affected == 0 {
		return ErrRecordingNotFound
	}
	return nil
}
