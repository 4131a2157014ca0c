package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"student_notification_bot/internal/domain/payment"

	"github.com/jmoiron/sqlx"
)

type PostgresPaymentRepository struct {
	db *sqlx.DB
}

func NewPostgresPaymentRepository(db *sqlx.DB) *PostgresPaymentRepository {
	return &PostgresPaymentRepository{db: db}
}

type paymentRow struct {
	ID          string         `db:"id"`
	Amount      float64        `db:"amount"`
	PaymentLink sql.NullString `db:"payment_link"`
	CreatedAt   time.Time      `db:"created_at"`
	FullName    sql.NullString `db:"full_name"`
	Email       sql.NullString `db:"email"`
	Phone       sql.NullString `db:"phone"`
}

func (r *PostgresPaymentRepository) ListPendingSince(ctx context.Context, cutoff time.Time) ([]*payment.Payment, error) {
	query := `SELECT pm.id, pm.amount, pm.payment_link, pm.created_at, p.full_name, p.email, p.phone
               FROM payments pm
               LEFT JOIN profiles p ON p.id = pm.student_id
               WHERE pm.status = $1 AND pm.created_at <= $2 AND pm.reminder_sent = FALSE
               ORDER BY pm.created_at`

	var rows []paymentRow
	if err := r.db.SelectContext(ctx, &rows, query, payment.StatusPending, cutoff); err != nil {
		return nil, fmt.Errorf("error querying pending payments: %w", err)
	}

	payments := make([]*payment.Payment, 0, len(rows))
	for _, row := range rows {
		payments = append(payments, &payment.Payment{
			ID:          row.ID,
			Amount:      row.Amount,
			PaymentLink: row.PaymentLink,
			Status:      payment.StatusPending,
			CreatedAt:   row.CreatedAt,
			Student: recipientRow{
				FullName: row.FullName,
				Email:    row.Email,
				Phone:    row.Phone,
			}.toRecipient(),
		})
	}
	return payments, nil
}

func (r *PostgresPaymentRepository) MarkReminderSent(ctx context.Context, id string) error {
	query := `UPDATE payments SET reminder_sent = TRUE, updated_at = NOW() WHERE id = $1`
	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("error marking payment reminder sent: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("error checking rows affected for payment %s: %w", id, err)
	}
	if affected == 0 {
		return ErrPaymentNotFound
	}
	return nil
}
