package gachav1

import (
	"time"

	"github.com/YJlang/gacha/internal/model"
)

// CollectionItem is one saved destination
type CollectionItem struct {
	ID          int64             `json:"id"`
	Destination model.Destination `json:"destination"`
	CollectedAt time.Time         `json:"collectedAt"`
}

// NewCollectionItem converts a collection entry to its wire form
func NewCollectionItem(e model.CollectionEntry) CollectionItem {
	return CollectionItem{ID: e.Collection.ID, Destination: e.Destination, CollectedAt: e.Collection.CollectedAt}
}

type AddCollectionRequest struct {
	DestinationID int64 `json:"destinationId"`
}

type AddCollectionResponse struct {
	Collection CollectionItem `json:"collection"`
}

type ListCollectionsRequest struct {
	Page int32 `json:"page"`
	Size int32 `json:"size"`
}

type ListCollectionsResponse struct {
	Items []CollectionItem `json:"items"`
	PageInfo
}

type RemoveCollectionRequest struct {
	CollectionID int64 `json:"collectionId"`
}

type RemoveCollectionResponse struct{}

type CollectionStatsRequest struct{}

type CollectionStatsResponse struct {
	TotalCount  int64            `json:"totalCount"`
	RegionStats map[string]int64 `json:"regionStats"`
}
