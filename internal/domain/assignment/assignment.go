package assignment

import (
	"database/sql"
	"time"

	"student_notification_bot/internal/domain/notify"
)

// Assignment represents a piece of student work with a submission deadline.
type Assignment struct {
	ID           string
	Title        string
	Deadline     time.Time
	SubmittedAt  sql.NullTime
	ReminderSent bool
	Student      notify.Recipient
}
