// Package collection manages the destinations a user has saved.
package collection

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/YJlang/gacha/internal/catalog"
	"github.com/YJlang/gacha/internal/model"
)

var (
	// ErrAlreadyCollected means the user already saved this destination.
	ErrAlreadyCollected = errors.New("destination already collected")
	// ErrNotFound means the user has no collection with that id.
	ErrNotFound = errors.New("collection not found")
)

// Catalog resolves destinations by id
type Catalog interface {
	ByID(ctx context.Context, id int64) (model.Destination, error)
}

// Service manages user collections
type Service struct {
	store   Store
	catalog Catalog
	log     logrus.FieldLogger
	now     func() time.Time
}

// NewService creates a collection service
func NewService(store Store, c Catalog, log logrus.FieldLogger) *Service {
	return &Service{store: store, catalog: c, log: log, now: time.Now}
}

// Add saves a destination for the user
func (s *Service) Add(ctx context.Context, userID, destinationID int64) (*model.CollectionEntry, error) {
	dest, err := s.catalog.ByID(ctx, destinationID)
	if err != nil {
		return nil, err
	}

	c, err := s.store.Create(ctx, userID, destinationID, s.now())
	if err != nil {
		if errors.Is(err, ErrAlreadyCollected) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to add collection: %w", err)
	}

	s.log.WithFields(logrus.Fields{
		"user_id":        userID,
		"destination_id": destinationID,
	}).Info("Destination collected")

	return &model.CollectionEntry{Collection: *c, Destination: dest}, nil
}

// resolve pairs rows with their destinations, skipping rows whose destination left the catalog.
// It also returns the number of stored rows.
func (s *Service) resolve(ctx context.Context, userID int64) ([]model.CollectionEntry, int, error) {
	rows, err := s.store.ListByUser(ctx, userID)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list collections: %w", err)
	}

	entries := make([]model.CollectionEntry, 0, len(rows))
	for _, c := range rows {
		dest, err := s.catalog.ByID(ctx, c.DestinationID)
		if err != nil {
			if errors.Is(err, catalog.ErrNotFound) {
				s.log.WithFields(logrus.Fields{
					"user_id":        userID,
					"destination_id": c.DestinationID,
				}).Warn("Collected destination no longer in catalog")
				continue
			}
			return nil, 0, err
		}
		entries = append(entries, model.CollectionEntry{Collection: c, Destination: dest})
	}
	return entries, len(rows), nil
}

// List returns a page of the user's collection, newest first, and the number of resolvable entries
func (s *Service) List(ctx context.Context, userID int64, offset, limit int) ([]model.CollectionEntry, int, error) {
	entries, _, err := s.resolve(ctx, userID)
	if err != nil {
		return nil, 0, err
	}

	total := len(entries)
	if offset < 0 {
		offset = 0
	}
	if limit <= 0 || offset >= total {
		return []model.CollectionEntry{}, total, nil
	}
	end := min(offset+limit, total)
	return entries[offset:end], total, nil
}

// Remove deletes one of the user's collections
func (s *Service) Remove(ctx context.Context, userID, collectionID int64) error {
	if err := s.store.Delete(ctx, userID, collectionID); err != nil {
		if errors.Is(err, ErrNotFound) {
			return err
		}
		return fmt.Errorf("failed to remove collection: %w", err)
	}
	return nil
}

// Stats counts the user's stored rows and, for entries still in the catalog, their regions
func (s *Service) Stats(ctx context.Context, userID int64) (*model.CollectionStats, error) {
	entries, rows, err := s.resolve(ctx, userID)
	if err != nil {
		return nil, err
	}

	stats := &model.CollectionStats{
		TotalCount:  int64(rows),
		RegionStats: make(map[string]int64),
	}
	for _, e := range entries {
		stats.RegionStats[e.Destination.Region]++
	}
	return stats, nil
}

// IsCollected reports whether the user saved the destination
func (s *Service) IsCollected(ctx context.Context, userID, destinationID int64) (bool, error) {
	return s.store.Exists(ctx, userID, destinationID)
}
