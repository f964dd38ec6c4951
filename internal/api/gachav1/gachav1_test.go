package gachav1

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizePage(t *testing.T) {
	tests := []struct {
		name               string
		page, size         int32
		wantPage, wantSize int32
		wantOffset         int
	}{
		{name: "defaults", page: 0, size: 0, wantPage: 0, wantSize: DefaultPageSize, wantOffset: 0},
		{name: "second page", page: 1, size: 10, wantPage: 1, wantSize: 10, wantOffset: 10},
		{name: "negative page", page: -3, size: 10, wantPage: 0, wantSize: 10, wantOffset: 0},
		{name: "oversized", page: 2, size: 1000, wantPage: 2, wantSize: MaxPageSize, wantOffset: 200},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page, size, offset := NormalizePage(tt.page, tt.size)
			assert.Equal(t, tt.wantPage, page)
			assert.Equal(t, tt.wantSize, size)
			assert.Equal(t, tt.wantOffset, offset)
		})
	}
}

func TestNewPageInfo(t *testing.T) {
	assert.Equal(t, PageInfo{TotalCount: 41, Page: 1, Size: 20, TotalPages: 3}, NewPageInfo(41, 1, 20))
	assert.Equal(t, PageInfo{TotalCount: 0, Page: 0, Size: 20, TotalPages: 0}, NewPageInfo(0, 0, 20))
}

func TestCodec(t *testing.T) {
	var c Codec
	assert.Equal(t, "json", c.Name())

	var req ListCatalogRequest
	require.NoError(t, c.Unmarshal(nil, &req))
	assert.Equal(t, ListCatalogRequest{}, req)

	require.NoError(t, c.Unmarshal([]byte(`{"page":2,"region":"강원"}`), &req))
	assert.Equal(t, ListCatalogRequest{Page: 2, Region: "강원"}, req)

	b, err := c.Marshal(&ListCatalogResponse{Items: nil, PageInfo: NewPageInfo(0, 0, 20)})
	require.NoError(t, err)
	assert.JSONEq(t, `{"items":null,"totalCount":0,"page":0,"size":20,"totalPages":0}`, string(b))

	assert.Error(t, c.Unmarshal([]byte(`{`), &req))
}
