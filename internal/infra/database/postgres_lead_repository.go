package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"student_notification_bot/internal/domain/lead"

	"github.com/jmoiron/sqlx"
)

type PostgresLeadRepository struct {
	db *sqlx.DB
}

func NewPostgresLeadRepository(db *sqlx.DB) *PostgresLeadRepository {
	return &PostgresLeadRepository{db: db}
}

type leadRow struct {
	ID        string         `db:"id"`
	Name      sql.NullString `db:"name"`
	Email     sql.NullString `db:"email"`
	CreatedAt time.Time      `db:"created_at"`
}

func (r *PostgresLeadRepository) ListStaleNew(ctx context.Context, cutoff time.Time) ([]*lead.Lead, error) {
	query := `SELECT id, name, email, created_at
               FROM imported_leads
               WHERE status = $1 AND created_at <= $2 AND follow_up_sent = FALSE
               ORDER BY created_at`

	var rows []leadRow
	if err := r.db.SelectContext(ctx, &rows, query, lead.StatusNew, cutoff); err != nil {
		return nil, fmt.Errorf("error querying stale new leads: %w", err)
	}

	leads := make([]*lead.Lead, 0, len(rows))
	for _, row := range rows {
		name := "There"
		if row.Name.Valid && row.Name.String != "" {
			name = row.Name.String
		}
		leads = append(leads, &lead.Lead{
			ID:        row.ID,
			Name:      name,
			Email:     row.Email,
			Status:    lead.StatusNew,
			CreatedAt: row.CreatedAt,
		})
	}
	return leads, nil
}

func (r *PostgresLeadRepository) MarkFollowUpSent(ctx context.Context, id string) error {
	query := `UPDATE imported_leads SET follow_up_sent = TRUE, updated_at = NOW() WHERE id = $1`
	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("error marking lead follow-up sent: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("error checking rows affected for lead %s: %w", id, err)
	}
	if affected == 0 {
		return ErrLeadNotFound
	}
	return nil
}
