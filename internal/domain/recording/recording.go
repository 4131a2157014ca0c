package recording

import (
	"database/sql"

	"student_notification_bot/internal/domain/notify"
)

// Recording represents a session recording released to students. Recipients
// come from the owning session's enrollments.
type Recording struct {
	ID                string
	SessionID         string
	SessionTitle      string
	VideoURL          sql.NullString
	VisibleToStudents bool
	NotificationSent  bool
	Recipients        []notify.Recipient
}
