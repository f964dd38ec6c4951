package ledger

import (
	"context"
	"time"

	"github.com/YJlang/gacha/internal/model"
)

// Ledger is the append-only per-user draw history.
// It enforces no quota; callers decide whether an append is allowed.
type Ledger interface {
	// CountSince counts the user's draws at or after since.
	CountSince(ctx context.Context, userID int64, since time.Time) (int, error)
	// MostRecentSince returns the latest draw at or after since, or nil.
	MostRecentSince(ctx context.Context, userID int64, since time.Time) (*model.DrawEvent, error)
	// HasEverDrawn reports whether the user drew the destination strictly before before.
	HasEverDrawn(ctx context.Context, userID, destinationID int64, before time.Time) (bool, error)
	// Append records a draw.
	Append(ctx context.Context, userID, destinationID int64, at time.Time) (*model.DrawEvent, error)
	// History returns the user's draws newest first together with the total count.
	History(ctx context.Context, userID int64, offset, limit int) ([]model.DrawEvent, int, error)
}

var (
	_ Ledger = (*MemoryLedger)(nil)
	_ Ledger = (*PostgresLedger)(nil)
)
