package gachav1

import "github.com/YJlang/gacha/internal/model"

type ListCatalogRequest struct {
	Page    int32  `json:"page"`
	Size    int32  `json:"size"`
	Region  string `json:"region,omitempty"`
	Program string `json:"program,omitempty"`
}

type ListCatalogResponse struct {
	Items []model.Destination `json:"items"`
	PageInfo
}

type GetCatalogItemRequest struct {
	ID int64 `json:"id"`
}

type GetCatalogItemResponse struct {
	Destination model.Destination `json:"destination"`
	// IsCollected is only meaningful for authenticated callers
	IsCollected bool `json:"isCollected"`
}

type ListRegionsRequest struct{}

type ListRegionsResponse struct {
	Regions []string `json:"regions"`
}
