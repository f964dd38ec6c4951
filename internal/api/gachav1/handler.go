package gachav1

import (
	"context"
	"net/http"

	"connectrpc.com/connect"
)

// GachaServiceHandler is implemented by the draw server
type GachaServiceHandler interface {
	Draw(context.Context, *connect.Request[DrawRequest]) (*connect.Response[DrawResponse], error)
	Status(context.Context, *connect.Request[StatusRequest]) (*connect.Response[StatusResponse], error)
	History(context.Context, *connect.Request[HistoryRequest]) (*connect.Response[HistoryResponse], error)
}

// NewGachaServiceHandler builds an HTTP handler for GachaService and returns the path to mount it on
func NewGachaServiceHandler(svc GachaServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = append([]connect.HandlerOption{connect.WithCodec(Codec{})}, opts...)
	draw := connect.NewUnaryHandler(GachaServiceDrawProcedure, svc.Draw, opts...)
	status := connect.NewUnaryHandler(GachaServiceStatusProcedure, svc.Status, opts...)
	history := connect.NewUnaryHandler(GachaServiceHistoryProcedure, svc.History, opts...)

	return "/" + GachaServiceName + "/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case GachaServiceDrawProcedure:
			draw.ServeHTTP(w, r)
		case GachaServiceStatusProcedure:
			status.ServeHTTP(w, r)
		case GachaServiceHistoryProcedure:
			history.ServeHTTP(w, r)
		default:
			http.NotFound(w, r)
		}
	})
}

// CatalogServiceHandler is implemented by the catalog server
type CatalogServiceHandler interface {
	ListCatalog(context.Context, *connect.Request[ListCatalogRequest]) (*connect.Response[ListCatalogResponse], error)
	GetCatalogItem(context.Context, *connect.Request[GetCatalogItemRequest]) (*connect.Response[GetCatalogItemResponse], error)
	ListRegions(context.Context, *connect.Request[ListRegionsRequest]) (*connect.Response[ListRegionsResponse], error)
}

// NewCatalogServiceHandler builds an HTTP handler for CatalogService and returns the path to mount it on
func NewCatalogServiceHandler(svc CatalogServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = append([]connect.HandlerOption{connect.WithCodec(Codec{})}, opts...)
	list := connect.NewUnaryHandler(CatalogServiceListCatalogProcedure, svc.ListCatalog, opts...)
	get := connect.NewUnaryHandler(CatalogServiceGetCatalogItemProcedure, svc.GetCatalogItem, opts...)
	regions := connect.NewUnaryHandler(CatalogServiceListRegionsProcedure, svc.ListRegions, opts...)

	return "/" + CatalogServiceName + "/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case CatalogServiceListCatalogProcedure:
			list.ServeHTTP(w, r)
		case CatalogServiceGetCatalogItemProcedure:
			get.ServeHTTP(w, r)
		case CatalogServiceListRegionsProcedure:
			regions.ServeHTTP(w, r)
		default:
			http.NotFound(w, r)
		}
	})
}

// CollectionServiceHandler is implemented by the collection server
type CollectionServiceHandler interface {
	Add(context.Context, *connect.Request[AddCollectionRequest]) (*connect.Response[AddCollectionResponse], error)
	List(context.Context, *connect.Request[ListCollectionsRequest]) (*connect.Response[ListCollectionsResponse], error)
	Remove(context.Context, *connect.Request[RemoveCollectionRequest]) (*connect.Response[RemoveCollectionResponse], error)
	Stats(context.Context, *connect.Request[CollectionStatsRequest]) (*connect.Response[CollectionStatsResponse], error)
}

// NewCollectionServiceHandler builds an HTTP handler for CollectionService and returns the path to mount it on
func NewCollectionServiceHandler(svc CollectionServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = append([]connect.HandlerOption{connect.WithCodec(Codec{})}, opts...)
	add := connect.NewUnaryHandler(CollectionServiceAddProcedure, svc.Add, opts...)
	list := connect.NewUnaryHandler(CollectionServiceListProcedure, svc.List, opts...)
	remove := connect.NewUnaryHandler(CollectionServiceRemoveProcedure, svc.Remove, opts...)
	stats := connect.NewUnaryHandler(CollectionServiceStatsProcedure, svc.Stats, opts...)

	return "/" + CollectionServiceName + "/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case CollectionServiceAddProcedure:
			add.ServeHTTP(w, r)
		case CollectionServiceListProcedure:
			list.ServeHTTP(w, r)
		case CollectionServiceRemoveProcedure:
			remove.ServeHTTP(w, r)
		case CollectionServiceStatsProcedure:
			stats.ServeHTTP(w, r)
		default:
			http.NotFound(w, r)
		}
	})
}
