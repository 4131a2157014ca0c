package recording

import "context"

// Repository defines the operations the recording notification job needs.
type Repository interface {
	// ListAwaitingNotification returns recordings that are visible to
	// students but have not been announced yet.
	ListAwaitingNotification(ctx context.Context) ([]*Recording, error)
	MarkNotificationSent(ctx context.Context, id string) error
}
