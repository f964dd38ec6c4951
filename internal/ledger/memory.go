package ledger

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/YJlang/gacha/internal/model"
)

// MemoryLedger keeps draw events in process memory. Each user's events are kept
// in timestamp order so range queries are a binary search, and the earliest draw
// of each destination is indexed per user.
type MemoryLedger struct {
	mu         sync.RWMutex
	nextID     int64
	events     map[int64][]model.DrawEvent
	firstDrawn map[int64]map[int64]time.Time
}

// NewMemoryLedger creates an empty in-memory ledger
func NewMemoryLedger() *MemoryLedger {
	return &MemoryLedger{
		events:     make(map[int64][]model.DrawEvent),
		firstDrawn: make(map[int64]map[int64]time.Time),
	}
}

// firstAtOrAfter returns the index of the first event with DrawnAt >= t.
func firstAtOrAfter(events []model.DrawEvent, t time.Time) int {
	return sort.Search(len(events), func(i int) bool {
		return !events[i].DrawnAt.Before(t)
	})
}

// CountSince counts the user's draws at or after since
func (l *MemoryLedger) CountSince(ctx context.Context, userID int64, since time.Time) (int, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	events := l.events[userID]
	return len(events) - firstAtOrAfter(events, since), nil
}

// MostRecentSince returns the latest draw at or after since
func (l *MemoryLedger) MostRecentSince(ctx context.Context, userID int64, since time.Time) (*model.DrawEvent, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	events := l.events[userID]
	if len(events) == 0 {
		return nil, nil
	}
	last := events[len(events)-1]
	if last.DrawnAt.Before(since) {
		return nil, nil
	}
	return &last, nil
}

// HasEverDrawn reports whether the destination was drawn strictly before the given instant
func (l *MemoryLedger) HasEverDrawn(ctx context.Context, userID, destinationID int64, before time.Time) (bool, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	first, ok := l.firstDrawn[userID][destinationID]
	return ok && first.Before(before), nil
}

// Append records a draw, keeping the user's events time-ordered
func (l *MemoryLedger) Append(ctx context.Context, userID, destinationID int64, at time.Time) (*model.DrawEvent, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	l.nextID++
	event := model.DrawEvent{
		ID:            l.nextID,
		UserID:        userID,
		DestinationID: destinationID,
		DrawnAt:       at,
	}

	events := l.events[userID]
	// Insert after any event with an equal timestamp to keep creation order
	i := sort.Search(len(events), func(i int) bool {
		return events[i].DrawnAt.After(at)
	})
	events = append(events, model.DrawEvent{})
	copy(events[i+1:], events[i:])
	events[i] = event
	l.events[userID] = events

	firsts := l.firstDrawn[userID]
	if firsts == nil {
		firsts = make(map[int64]time.Time)
		l.firstDrawn[userID] = firsts
	}
	if first, ok := firsts[destinationID]; !ok || at.Before(first) {
		firsts[destinationID] = at
	}

	return &event, nil
}

// History returns the user's draws newest first
func (l *MemoryLedger) History(ctx context.Context, userID int64, offset, limit int) ([]model.DrawEvent, int, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	events := l.events[userID]
	total := len(events)
	if offset < 0 {
		offset = 0
	}
	if limit <= 0 || offset >= total {
		return []model.DrawEvent{}, total, nil
	}

	out := make([]model.DrawEvent, 0, limit)
	for i := total - 1 - offset; i >= 0 && len(out) < limit; i-- {
		out = append(out, events[i])
	}
	return out, total, nil
}
