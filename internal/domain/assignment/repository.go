package assignment

import (
	"context"
	"time"
)

// Repository defines the operations the deadline reminder job needs.
type Repository interface {
	// ListDueForReminder returns unsubmitted assignments whose deadline
	// falls inside [from, to] and whose reminder flag is still false.
	ListDueForReminder(ctx context.Context, from, to time.Time) ([]*Assignment, error)
	MarkReminderSent(ctx context.Context, id string) error
}
