package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/YJlang/gacha/internal/model"
)

// ErrCollectionNotFound is returned when no row matches the owner and id
var ErrCollectionNotFound = errors.New("collection not found")

// ErrDuplicateCollection is returned when the destination is already collected
var ErrDuplicateCollection = errors.New("destination already collected")

// uniqueViolation is the PostgreSQL SQLSTATE for unique constraint violations
const uniqueViolation = "23505"

// CollectionRepository handles collection data operations
type CollectionRepository struct{}

// NewCollectionRepository creates a new collection repository
func NewCollectionRepository() *CollectionRepository {
	return &CollectionRepository{}
}

// CreateCollection inserts a collection row and sets its ID and timestamp
func (r *CollectionRepository) CreateCollection(ctx context.Context, db DBExecutor, c *model.Collection) error {
	query := `
		INSERT INTO collections (user_id, destination_id, collected_at)
		VALUES ($1, $2, $3)
		RETURNING id
	`

	err := db.GetContext(ctx, &c.ID, query, c.UserID, c.DestinationID, c.CollectedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && string(pqErr.Code) == uniqueViolation {
			return ErrDuplicateCollection
		}
		return fmt.Errorf("failed to create collection: %w", err)
	}
	return nil
}

// Exists reports whether the user has collected the destination
func (r *CollectionRepository) Exists(ctx context.Context, db DBExecutor, userID, destinationID int64) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM collections WHERE user_id = $1 AND destination_id = $2
		)
	`

	var exists bool
	if err := db.GetContext(ctx, &exists, query, userID, destinationID); err != nil {
		return false, fmt.Errorf("failed to check collection: %w", err)
	}
	return exists, nil
}

// ListByUser returns all of the user's collections, newest first
func (r *CollectionRepository) ListByUser(ctx context.Context, db DBExecutor, userID int64) ([]model.Collection, error) {
	query := `
		SELECT id, user_id, destination_id, collected_at
		FROM collections
		WHERE user_id = $1
		ORDER BY collected_at DESC, id DESC
	`

	collections := []model.Collection{}
	if err := db.SelectContext(ctx, &collections, query, userID); err != nil {
		return nil, fmt.Errorf("failed to list collections: %w", err)
	}
	return collections, nil
}

// DeleteCollection removes a collection row owned by the user
func (r *CollectionRepository) DeleteCollection(ctx context.Context, db DBExecutor, userID, collectionID int64) error {
	query := `DELETE FROM collections WHERE id = $1 AND user_id = $2`

	result, err := db.ExecContext(ctx, query, collectionID, userID)
	if err != nil {
		return fmt.Errorf("failed to delete collection: %w", err)
	}

	// Check if any row was actually deleted
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrCollectionNotFound
	}
	return nil
}

// GetCollection retrieves one collection row owned by the user
func (r *CollectionRepository) GetCollection(ctx context.Context, db DBExecutor, userID, collectionID int64) (*model.Collection, error) {
	query := `
		SELECT id, user_id, destination_id, collected_at
		FROM collections
		WHERE id = $1 AND user_id = $2
	`

	var c model.Collection
	if err := db.GetContext(ctx, &c, query, collectionID, userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCollectionNotFound
		}
		return nil, fmt.Errorf("failed to get collection: %w", err)
	}
	return &c, nil
}
