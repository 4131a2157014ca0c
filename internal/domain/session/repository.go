package session

import (
	"context"
	"time"
)

// Repository defines the operations the reminder jobs need on sessions.
type Repository interface {
	// ListDueForReminder returns sessions with scheduled_at inside
	// [from, to] whose sent flag for the given kind is still false,
	// with recipients resolved through enrollments and profiles.
	ListDueForReminder(ctx context.Context, kind ReminderKind, from, to time.Time) ([]*Session, error)
	// MarkReminderSent atomically flips the kind's sent flag for one session.
	MarkReminderSent(ctx context.Context, id string, kind ReminderKind) error
}
