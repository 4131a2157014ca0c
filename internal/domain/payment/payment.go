package payment

import (
	"database/sql"
	"time"

	"student_notification_bot/internal/domain/notify"
)

// StatusPending marks a payment link that has been issued but not paid.
const StatusPending = "pending"

// Payment represents an issued payment link awaiting completion.
type Payment struct {
	ID           string
	Amount       float64
	PaymentLink  sql.NullString
	Status       string
	CreatedAt    time.Time
	ReminderSent bool
	Student      notify.Recipient
}
