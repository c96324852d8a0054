// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package pagination_test

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/facegate/pkg/pagination"
)

/*
TestFromRequest_Clamping verifies defaults and bounds on query parameters.
*/
func TestFromRequest_Clamping(t *testing.T) {
	tests := []struct {
		query string
		page  int
		limit int
	}{
		{"", pagination.DefaultPage, pagination.DefaultLimit},
		{"?page=3&limit=5", 3, 5},
		{"?page=-1&limit=1000", pagination.DefaultPage, pagination.DefaultLimit},
		{"?page=abc", pagination.DefaultPage, pagination.DefaultLimit},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			params := pagination.FromRequest(httptest.NewRequest("GET", "/remove-people"+tt.query, nil))
			assert.Equal(t, tt.page, params.Page)
			assert.Equal(t, tt.limit, params.Limit)
		})
	}
}

/*
TestSlice pages through an in-memory list and clamps past the end.
*/
func TestSlice(t *testing.T) {
	items := []int{1, 2, 3, 4, 5}

	page, meta := pagination.Slice(items, pagination.Params{Page: 2, Limit: 2})
	assert.Equal(t, []int{3, 4}, page)
	assert.Equal(t, 3, meta.TotalPages)
	assert.True(t, meta.HasPrev())
	assert.True(t, meta.HasNext())

	page, meta = pagination.Slice(items, pagination.Params{Page: 9, Limit: 2})
	assert.Equal(t, []int{5}, page)
	assert.Equal(t, 3, meta.Page)
	assert.False(t, meta.HasNext())

	page, meta = pagination.Slice([]int{}, pagination.Params{Page: 4, Limit: 2})
	assert.Empty(t, page)
	assert.Equal(t, 1, meta.Page)
	assert.Equal(t, 0, meta.Total)
}
