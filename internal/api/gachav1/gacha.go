// Package gachav1 defines the RPC messages and procedures of the gacha API.
package gachav1

import (
	"time"

	"github.com/YJlang/gacha/internal/model"
)

const (
	// GachaServiceName is the fully-qualified name of the GachaService service.
	GachaServiceName = "gacha.v1.GachaService"
	// CatalogServiceName is the fully-qualified name of the CatalogService service.
	CatalogServiceName = "gacha.v1.CatalogService"
	// CollectionServiceName is the fully-qualified name of the CollectionService service.
	CollectionServiceName = "gacha.v1.CollectionService"
)

const (
	GachaServiceDrawProcedure    = "/" + GachaServiceName + "/Draw"
	GachaServiceStatusProcedure  = "/" + GachaServiceName + "/Status"
	GachaServiceHistoryProcedure = "/" + GachaServiceName + "/History"

	CatalogServiceListCatalogProcedure    = "/" + CatalogServiceName + "/ListCatalog"
	CatalogServiceGetCatalogItemProcedure = "/" + CatalogServiceName + "/GetCatalogItem"
	CatalogServiceListRegionsProcedure    = "/" + CatalogServiceName + "/ListRegions"

	CollectionServiceAddProcedure    = "/" + CollectionServiceName + "/Add"
	CollectionServiceListProcedure   = "/" + CollectionServiceName + "/List"
	CollectionServiceRemoveProcedure = "/" + CollectionServiceName + "/Remove"
	CollectionServiceStatsProcedure  = "/" + CollectionServiceName + "/Stats"
)

// Pagination defaults shared by every listing RPC. Pages are 0-based.
const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// PageInfo describes one page of a listing
type PageInfo struct {
	TotalCount int64 `json:"totalCount"`
	Page       int32 `json:"page"`
	Size       int32 `json:"size"`
	TotalPages int32 `json:"totalPages"`
}

// NewPageInfo computes page metadata for total items
func NewPageInfo(total int, page, size int32) PageInfo {
	var pages int32
	if size > 0 {
		pages = int32((int64(total) + int64(size) - 1) / int64(size))
	}
	return PageInfo{TotalCount: int64(total), Page: page, Size: size, TotalPages: pages}
}

// NormalizePage clamps page and size and returns the matching offset
func NormalizePage(page, size int32) (int32, int32, int) {
	if page < 0 {
		page = 0
	}
	if size <= 0 {
		size = DefaultPageSize
	}
	if size > MaxPageSize {
		size = MaxPageSize
	}
	return page, size, int(page) * int(size)
}

type DrawRequest struct {
	Region  string `json:"region,omitempty"`
	Program string `json:"program,omitempty"`
}

type DrawResponse struct {
	Destination model.Destination `json:"destination"`
	IsNew       bool              `json:"isNew"`
	DrawnAt     time.Time         `json:"drawnAt"`
}

type StatusRequest struct{}

type StatusResponse struct {
	CanDraw      bool       `json:"canDraw"`
	Remaining    int32      `json:"remaining"`
	LastDrawTime *time.Time `json:"lastDrawTime,omitempty"`
	TodayCount   int32      `json:"todayCount"`
	DailyLimit   int32      `json:"dailyLimit"`
	NextResetAt  time.Time  `json:"nextResetAt"`
}

type HistoryRequest struct {
	Page int32 `json:"page"`
	Size int32 `json:"size"`
}

// HistoryItem is one past draw. Destination is absent when it left the catalog.
type HistoryItem struct {
	ID            int64              `json:"id"`
	DestinationID int64              `json:"destinationId"`
	DrawnAt       time.Time          `json:"drawnAt"`
	Destination   *model.Destination `json:"destination,omitempty"`
}

type HistoryResponse struct {
	Items []HistoryItem `json:"items"`
	PageInfo
}
