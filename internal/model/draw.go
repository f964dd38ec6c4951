package model

import (
	"time"
)

// DrawEvent represents one recorded draw in the database
type DrawEvent struct {
	ID            int64     `db:"id" json:"id"`
	UserID        int64     `db:"user_id" json:"userId"`
	DestinationID int64     `db:"destination_id" json:"destinationId"`
	DrawnAt       time.Time `db:"drawn_at" json:"drawnAt"`
}

// DrawResult is the outcome of a successful draw
type DrawResult struct {
	Destination Destination `json:"destination"`
	IsNew       bool        `json:"isNew"`
	DrawnAt     time.Time   `json:"drawnAt"`
}

// DrawStatus describes a user's quota for the current day
type DrawStatus struct {
	CanDraw      bool       `json:"canDraw"`
	Remaining    int        `json:"remaining"`
	LastDrawTime *time.Time `json:"lastDrawTime"`
	TodayCount   int        `json:"todayCount"`
	NextResetAt  time.Time  `json:"nextResetAt"`
}

// HistoryEntry pairs a draw event with its destination.
// Destination is nil when the record no longer exists in the catalog.
type HistoryEntry struct {
	Event       DrawEvent    `json:"event"`
	Destination *Destination `json:"destination"`
}
