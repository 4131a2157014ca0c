package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"student_notification_bot/internal/domain/assignment"

	"github.com/jmoiron/sqlx"
)

type PostgresAssignmentRepository struct {
	db *sqlx.DB
}

func NewPostgresAssignmentRepository(db *sqlx.DB) *PostgresAssignmentRepository {
	return &PostgresAssignmentRepository{db: db}
}

type assignmentRow struct {
	ID       string         `db:"id"`
	Title    string         `db:"title"`
	Deadline time.Time      `db:"deadline"`
	FullName sql.NullString `db:"full_name"`
	Email    sql.NullString `db:"email"`
	Phone    sql.NullString `db:"phone"`
}

func (r *PostgresAssignmentRepository) ListDueForReminder(ctx context.Context, from, to time.Time) ([]*assignment.Assignment, error) {
	query := `SELECT a.id, a.title, a.deadline, p.full_name, p.email, p.phone
               FROM assignments a
               LEFT JOIN profiles p ON p.id = a.student_id
               WHERE a.deadline >= $1 AND a.deadline <= $2
                 AND a.reminder_sent = FALSE AND a.submitted_at IS NULL
               ORDER BY a.deadline`

	var rows []assignmentRow
	if err := r.db.SelectContext(ctx, &rows, query, from, to); err != nil {
		return nil, fmt.Errorf("error querying assignments due for reminder: %w", err)
	}

	assignments := make([]*assignment.Assignment, 0, len(rows))
	for _, row := range rows {
		assignments = append(assignments, &assignment.Assignment{
			ID:       row.ID,
			Title:    row.Title,
			Deadline: row.Deadline,
			Student: recipientRow{
				FullName: row.FullName,
				Email:    row.Email,
				Phone:    row.Phone,
			}.toRecipient(),
		})
	}
	return assignments, nil
}

func (r *PostgresAssignmentRepository) MarkReminderSent(ctx context.Context, id string) error {
	query := `UPDATE assignments SET reminder_sent = TRUE, updated_at = NOW() WHERE id = $1`
	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("error marking assignment reminder sent: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("error checking rows affected for assignment %s: %w", id, err)
	}
	if affected == 0 {
		return ErrAssignmentNotFound
	}
	return nil
}
