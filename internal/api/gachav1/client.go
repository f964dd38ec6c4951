package gachav1

import (
	"context"
	"strings"

	"connectrpc.com/connect"
)

// GachaServiceClient calls GachaService
type GachaServiceClient struct {
	draw    *connect.Client[DrawRequest, DrawResponse]
	status  *connect.Client[StatusRequest, StatusResponse]
	history *connect.Client[HistoryRequest, HistoryResponse]
}

// NewGachaServiceClient creates a client for the server at baseURL
func NewGachaServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) *GachaServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = append([]connect.ClientOption{connect.WithCodec(Codec{})}, opts...)
	return &GachaServiceClient{
		draw:    connect.NewClient[DrawRequest, DrawResponse](httpClient, baseURL+GachaServiceDrawProcedure, opts...),
		status:  connect.NewClient[StatusRequest, StatusResponse](httpClient, baseURL+GachaServiceStatusProcedure, opts...),
		history: connect.NewClient[HistoryRequest, HistoryResponse](httpClient, baseURL+GachaServiceHistoryProcedure, opts...),
	}
}

func (c *GachaServiceClient) Draw(ctx context.Context, req *connect.Request[DrawRequest]) (*connect.Response[DrawResponse], error) {
	return c.draw.CallUnary(ctx, req)
}

func (c *GachaServiceClient) Status(ctx context.Context, req *connect.Request[StatusRequest]) (*connect.Response[StatusResponse], error) {
	return c.status.CallUnary(ctx, req)
}

func (c *GachaServiceClient) History(ctx context.Context, req *connect.Request[HistoryRequest]) (*connect.Response[HistoryResponse], error) {
	return c.history.CallUnary(ctx, req)
}

// CatalogServiceClient calls CatalogService
type CatalogServiceClient struct {
	list    *connect.Client[ListCatalogRequest, ListCatalogResponse]
	get     *connect.Client[GetCatalogItemRequest, GetCatalogItemResponse]
	regions *connect.Client[ListRegionsRequest, ListRegionsResponse]
}

// NewCatalogServiceClient creates a client for the server at baseURL
func NewCatalogServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) *CatalogServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = append([]connect.ClientOption{connect.WithCodec(Codec{})}, opts...)
	return &CatalogServiceClient{
		list:    connect.NewClient[ListCatalogRequest, ListCatalogResponse](httpClient, baseURL+CatalogServiceListCatalogProcedure, opts...),
		get:     connect.NewClient[GetCatalogItemRequest, GetCatalogItemResponse](httpClient, baseURL+CatalogServiceGetCatalogItemProcedure, opts...),
		regions: connect.NewClient[ListRegionsRequest, ListRegionsResponse](httpClient, baseURL+CatalogServiceListRegionsProcedure, opts...),
	}
}

func (c *CatalogServiceClient) ListCatalog(ctx context.Context, req *connect.Request[ListCatalogRequest]) (*connect.Response[ListCatalogResponse], error) {
	return c.list.CallUnary(ctx, req)
}

func (c *CatalogServiceClient) GetCatalogItem(ctx context.Context, req *connect.Request[GetCatalogItemRequest]) (*connect.Response[GetCatalogItemResponse], error) {
	return c.get.CallUnary(ctx, req)
}

func (c *CatalogServiceClient) ListRegions(ctx context.Context, req *connect.Request[ListRegionsRequest]) (*connect.Response[ListRegionsResponse], error) {
	return c.regions.CallUnary(ctx, req)
}

// CollectionServiceClient calls CollectionService
type CollectionServiceClient struct {
	add    *connect.Client[AddCollectionRequest, AddCollectionResponse]
	list   *connect.Client[ListCollectionsRequest, ListCollectionsResponse]
	remove *connect.Client[RemoveCollectionRequest, RemoveCollectionResponse]
	stats  *connect.Client[CollectionStatsRequest, CollectionStatsResponse]
}

// NewCollectionServiceClient creates a client for the server at baseURL
func NewCollectionServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) *CollectionServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = append([]connect.ClientOption{connect.WithCodec(Codec{})}, opts...)
	return &CollectionServiceClient{
		add:    connect.NewClient[AddCollectionRequest, AddCollectionResponse](httpClient, baseURL+CollectionServiceAddProcedure, opts...),
		list:   connect.NewClient[ListCollectionsRequest, ListCollectionsResponse](httpClient, baseURL+CollectionServiceListProcedure, opts...),
		remove: connect.NewClient[RemoveCollectionRequest, RemoveCollectionResponse](httpClient, baseURL+CollectionServiceRemoveProcedure, opts...),
		stats:  connect.NewClient[CollectionStatsRequest, CollectionStatsResponse](httpClient, baseURL+CollectionServiceStatsProcedure, opts...),
	}
}

func (c *CollectionServiceClient) Add(ctx context.Context, req *connect.Request[AddCollectionRequest]) (*connect.Response[AddCollectionResponse], error) {
	return c.add.CallUnary(ctx, req)
}

func (c *CollectionServiceClient) List(ctx context.Context, req *connect.Request[ListCollectionsRequest]) (*connect.Response[ListCollectionsResponse], error) {
	return c.list.CallUnary(ctx, req)
}

func (c *CollectionServiceClient) Remove(ctx context.Context, req *connect.Request[RemoveCollectionRequest]) (*connect.Response[RemoveCollectionResponse], error) {
	return c.remove.CallUnary(ctx, req)
}

func (c *CollectionServiceClient) Stats(ctx context.Context, req *connect.Request[CollectionStatsRequest]) (*connect.Response[CollectionStatsResponse], error) {
	return c.stats.CallUnary(ctx, req)
}
