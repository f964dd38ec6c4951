package ledger

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/YJlang/gacha/internal/model"
	"github.com/YJlang/gacha/internal/repository"
)

// PostgresLedger stores draw events in the draw_events table
type PostgresLedger struct {
	db   *sqlx.DB
	repo *repository.DrawRepository
	loc  *time.Location
}

// NewPostgresLedger creates a ledger backed by PostgreSQL.
// Timestamps read back are converted to loc.
func NewPostgresLedger(db *sqlx.DB, loc *time.Location) *PostgresLedger {
	return &PostgresLedger{
		db:   db,
		repo: repository.NewDrawRepository(),
		loc:  loc,
	}
}

func (l *PostgresLedger) CountSince(ctx context.Context, userID int64, since time.Time) (int, error) {
	return l.repo.CountSince(ctx, l.db, userID, since)
}

func (l *PostgresLedger) MostRecentSince(ctx context.Context, userID int64, since time.Time) (*model.DrawEvent, error) {
	event, err := l.repo.MostRecentSince(ctx, l.db, userID, since)
	if err != nil || event == nil {
		return nil, err
	}
	event.DrawnAt = event.DrawnAt.In(l.loc)
	return event, nil
}

func (l *PostgresLedger) HasEverDrawn(ctx context.Context, userID, destinationID int64, before time.Time) (bool, error) {
	return l.repo.HasEverDrawn(ctx, l.db, userID, destinationID, before)
}

func (l *PostgresLedger) Append(ctx context.Context, userID, destinationID int64, at time.Time) (*model.DrawEvent, error) {
	event := &model.DrawEvent{
		UserID:        userID,
		DestinationID: destinationID,
		DrawnAt:       at,
	}
	if err := l.repo.CreateDrawEvent(ctx, l.db, event); err != nil {
		return nil, err
	}
	return event, nil
}

func (l *PostgresLedger) History(ctx context.Context, userID int64, offset, limit int) ([]model.DrawEvent, int, error) {
	total, err := l.repo.CountByUser(ctx, l.db, userID)
	if err != nil {
		return nil, 0, err
	}
	if offset < 0 {
		offset = 0
	}
	if limit <= 0 || offset >= total {
		return []model.DrawEvent{}, total, nil
	}

	events, err := l.repo.ListByUser(ctx, l.db, userID, offset, limit)
	if err != nil {
		return nil, 0, err
	}
	for i := range events {
		events[i].DrawnAt = events[i].DrawnAt.In(l.loc)
	}
	return events, total, nil
}
