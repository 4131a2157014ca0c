package payment

import (
	"context"
	"time"
)

// Repository defines the operations the payment follow-up job needs.
type Repository interface {
	// ListPendingSince returns pending payments created at or before the
	// cutoff whose reminder flag is still false.
	ListPendingSince(ctx context.Context, cutoff time.Time) ([]*Payment, error)
	MarkReminderSent(ctx context.Context, id string) error
}
