package repository

import (
	"context"
	"database/sql"
	"time"

	appErrors "github.com/unclebandit/outreach-scheduler/internal/errors"
	"github.com/unclebandit/outreach-scheduler/internal/model"
)

type SendRepositoryInterface interface {
	LoadScheduledSends(ctx context.Context, userID string) ([]model.ScheduledSend, error)
	UpdateScheduledTime(ctx context.Context, id string, at time.Time) error
}

type SendRepository struct {
	DB *sql.DB
}

// LoadScheduledSends returns the user's sends still on the calendar.
func (r *SendRepository) LoadScheduledSends(ctx context.Context, userID string) ([]model.ScheduledSend, error) {
	query := `
        SELECT id, prospect_id, scheduled_for, status, message_text
        FROM scheduled_sends
        WHERE user_id = $1 AND status <> 'archived'
        ORDER BY scheduled_for, id
    `
	rows, err := r.DB.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	sends := []model.ScheduledSend{}
	for rows.Next() {
		var s model.ScheduledSend
		if err := rows.Scan(&s.ID, &s.ProspectID, &s.ScheduledAt, &s.Status, &s.MessageText); err != nil {
			return nil, err
		}
		sends = append(sends, s)
	}
	return sends, rows.Err()
}

// UpdateScheduledTime moves one send. Sends already dispatched are not
// touched and report ErrSendNotFound.
func (r *SendRepository) UpdateScheduledTime(ctx context.Context, id string, at time.Time) error {
	query := `
        UPDATE scheduled_sends
        SET scheduled_for = $1, updated_at = NOW()
        WHERE id = $2 AND status NOT IN ('sending', 'sent', 'reply_received', 'reply_sent', 'archived')
    `
	res, err := r.DB.ExecContext(ctx, query, at.UTC(), id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return appErrors.ErrSendNotFound
	}
	return nil
}

var _ SendRepositoryInterface = (*SendRepository)(nil)
