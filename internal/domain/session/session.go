package session

import (
	"database/sql"
	"time"

	"student_notification_bot/internal/domain/notify"
)

// ReminderKind distinguishes the two pre-session reminder sweeps. Each kind
// has its own sent flag on the sessions table.
type ReminderKind string

const (
	Reminder24h   ReminderKind = "24h"
	Reminder15min ReminderKind = "15min"
)

// Session represents a scheduled live session together with the recipients
// resolved through its enrollments.
type Session struct {
	ID                string
	Title             string
	ScheduledAt       time.Time
	MeetingLink       sql.NullString
	Reminder24hSent   bool
	Reminder15minSent bool
	Recipients        []notify.Recipient
}
