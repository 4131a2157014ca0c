package lead

import (
	"context"
	"time"
)

// Repository defines the operations the lead follow-up job needs.
type Repository interface {
	// ListStaleNew returns leads still in status "new" created at or before
	// the cutoff whose follow-up flag is still false.
	ListStaleNew(ctx context.Context, cutoff time.Time) ([]*Lead, error)
	MarkFollowUpSent(ctx context.Context, id string) error
}
