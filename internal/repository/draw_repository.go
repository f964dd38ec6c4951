package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/YJlang/gacha/internal/model"
)

// DrawRepository handles draw event data operations
type DrawRepository struct{}

// NewDrawRepository creates a new draw repository
func NewDrawRepository() *DrawRepository {
	return &DrawRepository{}
}

// CountSince counts a user's draws at or after since (served by idx_draw_events_user_drawn_at)
func (r *DrawRepository) CountSince(ctx context.Context, db DBExecutor, userID int64, since time.Time) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM draw_events
		WHERE user_id = $1 AND drawn_at >= $2
	`

	var count int
	if err := db.GetContext(ctx, &count, query, userID, since); err != nil {
		return 0, fmt.Errorf("failed to count draws: %w", err)
	}
	return count, nil
}

// MostRecentSince returns the user's latest draw at or after since, or nil when there is none
func (r *DrawRepository) MostRecentSince(ctx context.Context, db DBExecutor, userID int64, since time.Time) (*model.DrawEvent, error) {
	query := `
		SELECT id, user_id, destination_id, drawn_at
		FROM draw_events
		WHERE user_id = $1 AND drawn_at >= $2
		ORDER BY drawn_at DESC, id DESC
		LIMIT 1
	`

	var event model.DrawEvent
	err := db.GetContext(ctx, &event, query, userID, since)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get latest draw: %w", err)
	}
	return &event, nil
}

// HasEverDrawn reports whether the user drew the destination strictly before the given instant
func (r *DrawRepository) HasEverDrawn(ctx context.Context, db DBExecutor, userID, destinationID int64, before time.Time) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1
			FROM draw_events
			WHERE user_id = $1 AND destination_id = $2 AND drawn_at < $3
		)
	`

	var exists bool
	if err := db.GetContext(ctx, &exists, query, userID, destinationID, before); err != nil {
		return false, fmt.Errorf("failed to check draw history: %w", err)
	}
	return exists, nil
}

// CreateDrawEvent inserts a draw event and sets its generated ID
func (r *DrawRepository) CreateDrawEvent(ctx context.Context, db DBExecutor, event *model.DrawEvent) error {
	query := `
		INSERT INTO draw_events (user_id, destination_id, drawn_at)
		VALUES ($1, $2, $3)
		RETURNING id
	`

	err := db.GetContext(ctx, &event.ID, query, event.UserID, event.DestinationID, event.DrawnAt)
	if err != nil {
		return fmt.Errorf("failed to create draw event: %w", err)
	}
	return nil
}

// ListByUser returns a page of the user's draws, newest first
func (r *DrawRepository) ListByUser(ctx context.Context, db DBExecutor, userID int64, offset, limit int) ([]model.DrawEvent, error) {
	query := `
		SELECT id, user_id, destination_id, drawn_at
		FROM draw_events
		WHERE user_id = $1
		ORDER BY drawn_at DESC, id DESC
		LIMIT $2 OFFSET $3
	`

	events := []model.DrawEvent{}
	if err := db.SelectContext(ctx, &events, query, userID, limit, offset); err != nil {
		return nil, fmt.Errorf("failed to list draws: %w", err)
	}
	return events, nil
}

// CountByUser counts all of a user's draws
func (r *DrawRepository) CountByUser(ctx context.Context, db DBExecutor, userID int64) (int, error) {
	query := `SELECT COUNT(*) FROM draw_events WHERE user_id = $1`

	var count int
	if err := db.GetContext(ctx, &count, query, userID); err != nil {
		return 0, fmt.Errorf("failed to count draws: %w", err)
	}
	return count, nil
}
