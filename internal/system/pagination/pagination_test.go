/*
 * Copyright (c) 2025, WSO2 LLC. (http://www.wso2.com).
 *
 * WSO2 LLC. licenses this file to you under the Apache License,
 * Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.
 * You may obtain a copy of the License at
 *
 * http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing,
 * software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY
 * KIND, either express or implied.  See the License for the
 * specific language governing permissions and limitations
 * under the License.
 */

package pagination

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePage(t *testing.T) {
	page, err := ParsePage(httptest.NewRequest("GET", "/items", nil))
	require.NoError(t, err)
	assert.Equal(t, 1, page)

	page, err = ParsePage(httptest.NewRequest("GET", "/items?page=3", nil))
	require.NoError(t, err)
	assert.Equal(t, 3, page)

	_, err = ParsePage(httptest.NewRequest("GET", "/items?page=0", nil))
	assert.Error(t, err)

	_, err = ParsePage(httptest.NewRequest("GET", "/items?page=abc", nil))
	assert.Error(t, err)
}

func TestParseLimit(t *testing.T) {
	limit, err := ParseLimit(httptest.NewRequest("GET", "/items", nil))
	require.NoError(t, err)
	assert.Equal(t, 20, limit)

	limit, err = ParseLimit(httptest.NewRequest("GET", "/items?limit=50", nil))
	require.NoError(t, err)
	assert.Equal(t, 50, limit)

	// Oversized limits are capped, not rejected.
	limit, err = ParseLimit(httptest.NewRequest("GET", "/items?limit=500", nil))
	require.NoError(t, err)
	assert.Equal(t, 100, limit)

	_, err = ParseLimit(httptest.NewRequest("GET", "/items?limit=-1", nil))
	assert.Error(t, err)
}

func TestParseSort(t *testing.T) {
	sortBy, sortOrder := ParseSort(httptest.NewRequest("GET", "/items", nil), "created_at", "diagnosed_at")
	assert.Equal(t, "created_at", sortBy)
	assert.Equal(t, "DESC", sortOrder)

	sortBy, sortOrder = ParseSort(
		httptest.NewRequest("GET", "/items?sort_by=diagnosed_at&sort_order=asc", nil),
		"created_at", "diagnosed_at")
	assert.Equal(t, "diagnosed_at", sortBy)
	assert.Equal(t, "ASC", sortOrder)

	// Unlisted columns fall back to the first allowed one.
	sortBy, _ = ParseSort(
		httptest.NewRequest("GET", "/items?sort_by=password_hash", nil),
		"created_at", "diagnosed_at")
	assert.Equal(t, "created_at", sortBy)
}

func TestNewMeta(t *testing.T) {
	meta := NewMeta(21, 2, 10)
	assert.Equal(t, 21, meta.Total)
	assert.Equal(t, 3, meta.TotalPages)

	meta = NewMeta(0, 1, 10)
	assert.Equal(t, 0, meta.TotalPages)
}
