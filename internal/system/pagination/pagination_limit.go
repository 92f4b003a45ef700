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
	"fmt"
	"net/http"
	"strconv"
	"strings"
)

const (
	defaultPage  = 1
	defaultLimit = 20
	maxLimit     = 100
)

// ParsePage reads the page query parameter, defaulting to 1.
func ParsePage(r *http.Request) (int, error) {
	page := defaultPage

	if p := r.URL.Query().Get("page"); p != "" {
		v, err := strconv.Atoi(p)
		if err != nil || v <= 0 {
			return 0, fmt.Errorf("invalid page")
		}
		page = v
	}

	return page, nil
}

// ParseLimit reads the limit query parameter, defaulting to 20 and capping at 100.
func ParseLimit(r *http.Request) (int, error) {
	limit := defaultLimit

	if l := r.URL.Query().Get("limit"); l != "" {
		v, err := strconv.Atoi(l)
		if err != nil || v <= 0 {
			return 0, fmt.Errorf("invalid limit")
		}
		if v > maxLimit {
			v = maxLimit
		}
		limit = v
	}

	return limit, nil
}

// ParseSort reads sort_by and sort_order against an allow-list of columns.
// Unlisted columns fall back to the first allowed column; order is ASC or
// DESC, defaulting to DESC.
func ParseSort(r *http.Request, allowed ...string) (string, string) {
	sortBy := allowed[0]
	if s := r.URL.Query().Get("sort_by"); s != "" {
		for _, col := range allowed {
			if s == col {
				sortBy = col
				break
			}
		}
	}

	sortOrder := "DESC"
	if o := strings.ToUpper(r.URL.Query().Get("sort_order")); o == "ASC" {
		sortOrder = "ASC"
	}

	return sortBy, sortOrder
}
