package collection

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/YJlang/gacha/internal/model"
	"github.com/YJlang/gacha/internal/repository"
)

// Store persists collection rows
type Store interface {
	Create(ctx context.Context, userID, destinationID int64, at time.Time) (*model.Collection, error)
	Exists(ctx context.Context, userID, destinationID int64) (bool, error)
	ListByUser(ctx context.Context, userID int64) ([]model.Collection, error)
	Delete(ctx context.Context, userID, collectionID int64) error
}

var (
	_ Store = (*PostgresStore)(nil)
	_ Store = (*MemoryStore)(nil)
)

// PostgresStore keeps collections in the collections table
type PostgresStore struct {
	db   *sqlx.DB
	repo *repository.CollectionRepository
}

// NewPostgresStore creates a PostgreSQL-backed collection store
func NewPostgresStore(db *sqlx.DB) *PostgresStore {
	return &PostgresStore{db: db, repo: repository.NewCollectionRepository()}
}

func (s *PostgresStore) Create(ctx context.Context, userID, destinationID int64, at time.Time) (*model.Collection, error) {
	c := &model.Collection{UserID: userID, DestinationID: destinationID, CollectedAt: at}
	if err := s.repo.CreateCollection(ctx, s.db, c); err != nil {
		if errors.Is(err, repository.ErrDuplicateCollection) {
			return nil, ErrAlreadyCollected
		}
		return nil, err
	}
	return c, nil
}

func (s *PostgresStore) Exists(ctx context.Context, userID, destinationID int64) (bool, error) {
	return s.repo.Exists(ctx, s.db, userID, destinationID)
}

func (s *PostgresStore) ListByUser(ctx context.Context, userID int64) ([]model.Collection, error) {
	return s.repo.ListByUser(ctx, s.db, userID)
}

func (s *PostgresStore) Delete(ctx context.Context, userID, collectionID int64) error {
	err := s.repo.DeleteCollection(ctx, s.db, userID, collectionID)
	if errors.Is(err, repository.ErrCollectionNotFound) {
		return ErrNotFound
	}
	return err
}

// MemoryStore keeps collections in process memory
type MemoryStore struct {
	mu     sync.RWMutex
	nextID int64
	rows   map[int64]model.Collection
}

// NewMemoryStore creates an empty in-memory collection store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{rows: make(map[int64]model.Collection)}
}

func (s *MemoryStore) Create(ctx context.Context, userID, destinationID int64, at time.Time) (*model.Collection, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, c := range s.rows {
		if c.UserID == userID && c.DestinationID == destinationID {
			return nil, ErrAlreadyCollected
		}
	}
	s.nextID++
	c := model.Collection{ID: s.nextID, UserID: userID, DestinationID: destinationID, CollectedAt: at}
	s.rows[c.ID] = c
	return &c, nil
}

func (s *MemoryStore) Exists(ctx context.Context, userID, destinationID int64) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, c := range s.rows {
		if c.UserID == userID && c.DestinationID == destinationID {
			return true, nil
		}
	}
	return false, nil
}

func (s *MemoryStore) ListByUser(ctx context.Context, userID int64) ([]model.Collection, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []model.Collection{}
	for _, c := range s.rows {
		if c.UserID == userID {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CollectedAt.Equal(out[j].CollectedAt) {
			return out[i].CollectedAt.After(out[j].CollectedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

func (s *MemoryStore) Delete(ctx context.Context, userID, collectionID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.rows[collectionID]
	if !ok || c.UserID != userID {
		return ErrNotFound
	}
	delete(s.rows, collectionID)
	return nil
}
