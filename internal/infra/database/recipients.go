package database

import (
	"context"
	"database/sql"
	"fmt"

	"student_notification_bot/internal/domain/notify"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

type recipientRow struct {
	SessionID string         `db:"session_id"`
	FullName  sql.NullString `db:"full_name"`
	Email     sql.NullString `db:"email"`
	Phone     sql.NullString `db:"phone"`
}

func (r recipientRow) toRecipient() notify.Recipient {
	name := "Student"
	if r.FullName.Valid && r.FullName.String != "" {
		name = r.FullName.String
	}
	return notify.Recipient{
		Name:  name,
		Email: r.Email.String,
		Phone: r.Phone.String,
	}
}

// sessionRecipients resolves the contact data for a set of sessions in one
// round trip: enrollments joined to profiles, keyed by session id. The LEFT
// JOIN keeps enrollments whose profile row is missing; those come back as
// recipients without contact methods rather than disappearing from the
// result, so the owning record can still be marked handled.
func sessionRecipients(ctx context.Context, db *sqlx.DB, sessionIDs []string) (map[string][]notify.Recipient, error) {
	byID := make(map[string][]notify.Recipient, len(sessionIDs))
	if len(sessionIDs) == 0 {
		return byID, nil
	}

	query := `SELECT e.session_id, p.full_name, p.email, p.phone
               FROM enrollments e
               LEFT JOIN profiles p ON p.id = e.student_id
               WHERE e.session_id = ANY($1)
               ORDER BY e.session_id`

	var rows []recipientRow
	if err := db.SelectContext(ctx, &rows, query, pq.Array(sessionIDs)); err != nil {
		return nil, fmt.Errorf("error querying session recipients: %w", err)
	}

	for _, row := range rows {
		byID[row.SessionID] = append(byID[row.SessionID], row.toRecipient())
	}
	return byID, nil
}
