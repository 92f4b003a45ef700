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

package handler

import (
	"net/http"
	"strconv"

	"github.com/wso2/healthcare-records-service/internal/audit/provider"
	"github.com/wso2/healthcare-records-service/internal/system/utils"
)

type AuditHandler struct{}

func NewAuditHandler() *AuditHandler {
	return &AuditHandler{}
}

// ListAuditRecords handles GET /audit-records. Only roles with the
// audit:view permission may read the trail.
func (h *AuditHandler) ListAuditRecords(w http.ResponseWriter, r *http.Request) {

	if _, err := utils.RequestActorWithPermission(r, "audit:view"); err != nil {
		utils.HandleError(w, err)
		return
	}

	query := r.URL.Query()
	limit, _ := strconv.Atoi(query.Get("limit"))

	auditService := provider.NewAuditProvider().GetAuditService()
	records, err := auditService.ListRecords(query.Get("target_id"), query.Get("action_id"), limit)
	if err != nil {
		utils.HandleError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, records)
}
