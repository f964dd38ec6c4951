// Package gacha draws a daily destination for a user.
package gacha

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/YJlang/gacha/internal/catalog"
	"github.com/YJlang/gacha/internal/ledger"
	"github.com/YJlang/gacha/internal/lock"
	"github.com/YJlang/gacha/internal/metrics"
	"github.com/YJlang/gacha/internal/model"
)

// Catalog is the subset of the catalog store the draw needs
type Catalog interface {
	RandomFiltered(ctx context.Context, f catalog.Filter) (model.Destination, error)
	ByID(ctx context.Context, id int64) (model.Destination, error)
}

// Config holds the draw policy
type Config struct {
	// DailyLimit is the number of draws allowed per user per day
	DailyLimit int
	// Location defines where a day starts and ends
	Location *time.Location
}

// Service combines the catalog and the ledger into the daily draw
type Service struct {
	catalog Catalog
	ledger  ledger.Ledger
	locker  lock.Locker
	limit   int
	loc     *time.Location
	log     logrus.FieldLogger
	now     func() time.Time
}

// NewService creates a draw service
func NewService(c Catalog, l ledger.Ledger, locker lock.Locker, cfg Config, log logrus.FieldLogger) *Service {
	limit := cfg.DailyLimit
	if limit < 1 {
		limit = 1
	}
	loc := cfg.Location
	if loc == nil {
		loc = time.UTC
	}
	return &Service{
		catalog: c,
		ledger:  l,
		locker:  locker,
		limit:   limit,
		loc:     loc,
		log:     log,
		now:     time.Now,
	}
}

// startOfDay returns local midnight of t's day
func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// Draw picks a random destination for the user and records it.
// It fails with a *DailyLimitError once the day's quota is used, and with
// ErrNoMatchingDestination when the filter excludes every destination.
func (s *Service) Draw(ctx context.Context, userID int64, f catalog.Filter) (*model.DrawResult, error) {
	start := time.Now()
	outcome := metrics.OutcomeError

	defer func() {
		metrics.RecordDraw(outcome, time.Since(start).Seconds())
	}()

	log := s.log.WithField("user_id", userID)

	unlock, err := s.locker.Lock(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to lock user %d: %w", userID, err)
	}
	defer unlock()

	now := s.now().In(s.loc)
	today := startOfDay(now)

	count, err := s.ledger.CountSince(ctx, userID, today)
	if err != nil {
		return nil, fmt.Errorf("failed to count today's draws: %w", err)
	}
	if count >= s.limit {
		outcome = metrics.OutcomeLimit
		log.WithField("count", count).Debug("Daily draw limit reached")
		return nil, &DailyLimitError{
			Limit:           s.limit,
			Count:           count,
			NextAvailableAt: today.AddDate(0, 0, 1),
		}
	}

	dest, err := s.catalog.RandomFiltered(ctx, f)
	if err != nil {
		if errors.Is(err, catalog.ErrNoneAvailable) {
			outcome = metrics.OutcomeNoMatch
			return nil, ErrNoMatchingDestination
		}
		return nil, fmt.Errorf("failed to pick destination: %w", err)
	}

	// Only earlier days count; same-day repeats are still new
	drawn, err := s.ledger.HasEverDrawn(ctx, userID, dest.ID, today)
	if err != nil {
		return nil, fmt.Errorf("failed to check draw history: %w", err)
	}

	event, err := s.ledger.Append(ctx, userID, dest.ID, now)
	if err != nil {
		return nil, fmt.Errorf("failed to record draw: %w", err)
	}
	outcome = metrics.OutcomeSuccess

	log.WithFields(logrus.Fields{
		"destination_id": dest.ID,
		"is_new":         !drawn,
	}).Info("Destination drawn")

	return &model.DrawResult{
		Destination: dest,
		IsNew:       !drawn,
		DrawnAt:     event.DrawnAt,
	}, nil
}

// Status reports the user's quota for the current day
func (s *Service) Status(ctx context.Context, userID int64) (*model.DrawStatus, error) {
	today := startOfDay(s.now().In(s.loc))

	count, err := s.ledger.CountSince(ctx, userID, today)
	if err != nil {
		return nil, fmt.Errorf("failed to count today's draws: %w", err)
	}
	last, err := s.ledger.MostRecentSince(ctx, userID, today)
	if err != nil {
		return nil, fmt.Errorf("failed to get last draw: %w", err)
	}

	status := &model.DrawStatus{
		CanDraw:     count < s.limit,
		Remaining:   max(0, s.limit-count),
		TodayCount:  count,
		NextResetAt: today.AddDate(0, 0, 1),
	}
	if last != nil {
		t := last.DrawnAt.In(s.loc)
		status.LastDrawTime = &t
	}
	return status, nil
}

// History returns a page of past draws, newest first. Draws of destinations that
// left the catalog keep their event with a nil destination.
func (s *Service) History(ctx context.Context, userID int64, offset, limit int) ([]model.HistoryEntry, int, error) {
	events, total, err := s.ledger.History(ctx, userID, offset, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to get draw history: %w", err)
	}

	entries := make([]model.HistoryEntry, 0, len(events))
	for _, e := range events {
		entry := model.HistoryEntry{Event: e}
		dest, err := s.catalog.ByID(ctx, e.DestinationID)
		switch {
		case err == nil:
			entry.Destination = &dest
		case errors.Is(err, catalog.ErrNotFound):
			s.log.WithFields(logrus.Fields{
				"user_id":        userID,
				"destination_id": e.DestinationID,
			}).Debug("Drawn destination no longer in catalog")
		default:
			return nil, 0, fmt.Errorf("failed to resolve destination %d: %w", e.DestinationID, err)
		}
		entries = append(entries, entry)
	}
	return entries, total, nil
}

// Limit returns the configured daily limit
func (s *Service) Limit() int {
	return s.limit
}
