package service

import (
	"context"

	"connectrpc.com/connect"
	"github.com/sirupsen/logrus"

	gachav1 "github.com/YJlang/gacha/internal/api/gachav1"
	"github.com/YJlang/gacha/internal/auth"
	"github.com/YJlang/gacha/internal/catalog"
	"github.com/YJlang/gacha/internal/collection"
)

// CatalogServer implements the public catalog RPCs
type CatalogServer struct {
	store       *catalog.Store
	collections *collection.Service
	log         logrus.FieldLogger
}

// NewCatalogServer creates a new CatalogServer. collections may be nil.
func NewCatalogServer(store *catalog.Store, collections *collection.Service, log logrus.FieldLogger) *CatalogServer {
	return &CatalogServer{store: store, collections: collections, log: log}
}

// ListCatalog returns one page of the filtered catalog
func (s *CatalogServer) ListCatalog(
	ctx context.Context,
	req *connect.Request[gachav1.ListCatalogRequest],
) (*connect.Response[gachav1.ListCatalogResponse], error) {
	page, size, offset := gachav1.NormalizePage(req.Msg.Page, req.Msg.Size)

	items, total, err := s.store.Page(ctx, catalog.Filter{
		Region:  req.Msg.Region,
		Program: req.Msg.Program,
	}, offset, int(size))
	if err != nil {
		return nil, toConnectError(err)
	}

	return connect.NewResponse(&gachav1.ListCatalogResponse{
		Items:    items,
		PageInfo: gachav1.NewPageInfo(total, page, size),
	}), nil
}

// GetCatalogItem returns one destination. Authenticated callers also learn whether they collected it.
func (s *CatalogServer) GetCatalogItem(
	ctx context.Context,
	req *connect.Request[gachav1.GetCatalogItemRequest],
) (*connect.Response[gachav1.GetCatalogItemResponse], error) {
	dest, err := s.store.ByID(ctx, req.Msg.ID)
	if err != nil {
		return nil, toConnectError(err)
	}

	res := &gachav1.GetCatalogItemResponse{Destination: dest}
	if userID, ok := auth.UserIDFrom(ctx); ok && s.collections != nil {
		collected, err := s.collections.IsCollected(ctx, userID, dest.ID)
		if err != nil {
			// The item itself is still worth returning
			s.log.WithError(err).WithField("user_id", userID).Warn("Failed to check collection")
		}
		res.IsCollected = collected
	}

	return connect.NewResponse(res), nil
}

// ListRegions returns the distinct regions present in the catalog
func (s *CatalogServer) ListRegions(
	ctx context.Context,
	req *connect.Request[gachav1.ListRegionsRequest],
) (*connect.Response[gachav1.ListRegionsResponse], error) {
	regions, err := s.store.Regions(ctx)
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&gachav1.ListRegionsResponse{Regions: regions}), nil
}
