package service

import (
	"context"

	"connectrpc.com/connect"

	gachav1 "github.com/YJlang/gacha/internal/api/gachav1"
	"github.com/YJlang/gacha/internal/collection"
)

// CollectionServer implements the collection RPCs
type CollectionServer struct {
	collections *collection.Service
}

// NewCollectionServer creates a new CollectionServer instance
func NewCollectionServer(svc *collection.Service) *CollectionServer {
	return &CollectionServer{collections: svc}
}

// Add saves a destination to the caller's collection
func (s *CollectionServer) Add(
	ctx context.Context,
	req *connect.Request[gachav1.AddCollectionRequest],
) (*connect.Response[gachav1.AddCollectionResponse], error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}

	entry, err := s.collections.Add(ctx, userID, req.Msg.DestinationID)
	if err != nil {
		return nil, toConnectError(err)
	}

	return connect.NewResponse(&gachav1.AddCollectionResponse{
		Collection: gachav1.NewCollectionItem(*entry),
	}), nil
}

// List returns one page of the caller's collection
func (s *CollectionServer) List(
	ctx context.Context,
	req *connect.Request[gachav1.ListCollectionsRequest],
) (*connect.Response[gachav1.ListCollectionsResponse], error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}

	page, size, offset := gachav1.NormalizePage(req.Msg.Page, req.Msg.Size)
	entries, total, err := s.collections.List(ctx, userID, offset, int(size))
	if err != nil {
		return nil, toConnectError(err)
	}

	items := make([]gachav1.CollectionItem, 0, len(entries))
	for _, e := range entries {
		items = append(items, gachav1.NewCollectionItem(e))
	}

	return connect.NewResponse(&gachav1.ListCollectionsResponse{
		Items:    items,
		PageInfo: gachav1.NewPageInfo(total, page, size),
	}), nil
}

// Remove deletes one of the caller's collections
func (s *CollectionServer) Remove(
	ctx context.Context,
	req *connect.Request[gachav1.RemoveCollectionRequest],
) (*connect.Response[gachav1.RemoveCollectionResponse], error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.collections.Remove(ctx, userID, req.Msg.CollectionID); err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&gachav1.RemoveCollectionResponse{}), nil
}

// Stats summarizes the caller's collection by region
func (s *CollectionServer) Stats(
	ctx context.Context,
	req *connect.Request[gachav1.CollectionStatsRequest],
) (*connect.Response[gachav1.CollectionStatsResponse], error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}

	stats, err := s.collections.Stats(ctx, userID)
	if err != nil {
		return nil, toConnectError(err)
	}

	return connect.NewResponse(&gachav1.CollectionStatsResponse{
		TotalCount:  stats.TotalCount,
		RegionStats: stats.RegionStats,
	}), nil
}
