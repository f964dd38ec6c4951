package model

import (
	"time"
)

// Collection represents a destination saved by a user in the database
type Collection struct {
	ID            int64     `db:"id" json:"id"`
	UserID        int64     `db:"user_id" json:"userId"`
	DestinationID int64     `db:"destination_id" json:"destinationId"`
	CollectedAt   time.Time `db:"collected_at" json:"collectedAt"`
}

// CollectionEntry pairs a collection row with its destination
type CollectionEntry struct {
	Collection  Collection  `json:"collection"`
	Destination Destination `json:"destination"`
}

// CollectionStats aggregates a user's collection by region
type CollectionStats struct {
	TotalCount  int64            `json:"totalCount"`
	RegionStats map[string]int64 `json:"regionStats"`
}
