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
	"encoding/json"
	"net/http"
	"strconv"

	alertModel "github.com/wso2/healthcare-records-service/internal/alert/model"
	"github.com/wso2/healthcare-records-service/internal/alert/provider"
	errors2 "github.com/wso2/healthcare-records-service/internal/system/errors"
	"github.com/wso2/healthcare-records-service/internal/system/pagination"
	"github.com/wso2/healthcare-records-service/internal/system/utils"
)

type AlertHandler struct{}

func NewAlertHandler() *AlertHandler {
	return &AlertHandler{}
}

// ListAlerts handles GET /alerts with optional status and patient_id filters.
func (h *AlertHandler) ListAlerts(w http.ResponseWriter, r *http.Request) {

	if _, err := utils.RequestActorWithPermission(r, "alert:view"); err != nil {
		utils.HandleError(w, err)
		return
	}

	page, err := pagination.ParsePage(r)
	if err != nil {
		utils.HandleError(w, invalidPagination())
		return
	}
	limit, err := pagination.ParseLimit(r)
	if err != nil {
		utils.HandleError(w, invalidPagination())
		return
	}

	status := r.URL.Query().Get("status")
	var patientID int64
	if raw := r.URL.Query().Get("patient_id"); raw != "" {
		patientID, err = strconv.ParseInt(raw, 10, 64)
		if err != nil || patientID <= 0 {
			utils.HandleError(w, errors2.NewClientError(errors2.ErrorMessage{
				Code:        errors2.BAD_REQUEST.Code,
				Message:     errors2.BAD_REQUEST.Message,
				Description: "patient_id must be a positive integer",
			}, http.StatusBadRequest))
			return
		}
	}

	alertService := provider.NewAlertProvider().GetAlertService()
	result, err := alertService.ListAlerts(status, patientID, page, limit)
	if err != nil {
		utils.HandleError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, result)
}

// UpdateAlertStatus handles PATCH /alerts/{id}.
func (h *AlertHandler) UpdateAlertStatus(w http.ResponseWriter, r *http.Request) {

	if _, err := utils.RequestActorWithPermission(r, "alert:update"); err != nil {
		utils.HandleError(w, err)
		return
	}

	id, err := utils.ParsePathID(r, "id")
	if err != nil {
		utils.HandleError(w, err)
		return
	}

	var req alertModel.UpdateAlertStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		clientError := errors2.NewClientError(errors2.ErrorMessage{
			Code:        errors2.BAD_REQUEST.Code,
			Message:     errors2.BAD_REQUEST.Message,
			Description: utils.HandleDecodeError(err, "alert status update"),
		}, http.StatusBadRequest)
		utils.HandleError(w, clientError)
		return
	}

	alertService := provider.NewAlertProvider().GetAlertService()
	alert, err := alertService.UpdateAlertStatus(id, req)
	if err != nil {
		utils.HandleError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, alert)
}

func invalidPagination() error {
	return errors2.NewClientError(errors2.ErrorMessage{
		Code:        errors2.INVALID_PAGINATION.Code,
		Message:     errors2.INVALID_PAGINATION.Message,
		Description: "page and limit must be positive integers",
	}, http.StatusBadRequest)
}
