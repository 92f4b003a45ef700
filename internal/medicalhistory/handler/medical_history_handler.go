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
	"strings"

	historyModel "github.com/wso2/healthcare-records-service/internal/medicalhistory/model"
	"github.com/wso2/healthcare-records-service/internal/medicalhistory/provider"
	errors2 "github.com/wso2/healthcare-records-service/internal/system/errors"
	"github.com/wso2/healthcare-records-service/internal/system/pagination"
	"github.com/wso2/healthcare-records-service/internal/system/utils"
)

type MedicalHistoryHandler struct{}

func NewMedicalHistoryHandler() *MedicalHistoryHandler {
	return &MedicalHistoryHandler{}
}

// AddMedicalHistory handles POST /patients/{patientId}/medical-history.
func (h *MedicalHistoryHandler) AddMedicalHistory(w http.ResponseWriter, r *http.Request) {

	actor, err := utils.RequestActor(r)
	if err != nil {
		utils.HandleError(w, err)
		return
	}
	patientID, err := utils.ParsePathID(r, "patientId")
	if err != nil {
		utils.HandleError(w, err)
		return
	}

	var req historyModel.MedicalHistoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.HandleError(w, decodeError(err))
		return
	}

	recordService := provider.NewMedicalRecordProvider().GetMedicalRecordService()
	record, err := recordService.AddMedicalHistory(actor, patientID, req)
	if err != nil {
		utils.HandleError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusCreated, record)
}

// GetMedicalHistory handles GET /patients/{patientId}/medical-history/{id}.
func (h *MedicalHistoryHandler) GetMedicalHistory(w http.ResponseWriter, r *http.Request) {

	actor, err := utils.RequestActor(r)
	if err != nil {
		utils.HandleError(w, err)
		return
	}
	patientID, err := utils.ParsePathID(r, "patientId")
	if err != nil {
		utils.HandleError(w, err)
		return
	}
	id, err := utils.ParsePathID(r, "id")
	if err != nil {
		utils.HandleError(w, err)
		return
	}

	recordService := provider.NewMedicalRecordProvider().GetMedicalRecordService()
	record, err := recordService.GetMedicalHistory(actor, patientID, id)
	if err != nil {
		utils.HandleError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, record)
}

// ListMedicalHistory handles GET /patients/{patientId}/medical-history.
func (h *MedicalHistoryHandler) ListMedicalHistory(w http.ResponseWriter, r *http.Request) {

	actor, err := utils.RequestActor(r)
	if err != nil {
		utils.HandleError(w, err)
		return
	}
	patientID, err := utils.ParsePathID(r, "patientId")
	if err != nil {
		utils.HandleError(w, err)
		return
	}

	query, err := parseHistoryQuery(r)
	if err != nil {
		utils.HandleError(w, err)
		return
	}

	recordService := provider.NewMedicalRecordProvider().GetMedicalRecordService()
	page, err := recordService.ListMedicalHistory(actor, patientID, *query)
	if err != nil {
		utils.HandleError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, page)
}

// UpdateMedicalHistory handles PUT /patients/{patientId}/medical-history/{id}.
func (h *MedicalHistoryHandler) UpdateMedicalHistory(w http.ResponseWriter, r *http.Request) {

	actor, err := utils.RequestActor(r)
	if err != nil {
		utils.HandleError(w, err)
		return
	}
	patientID, err := utils.ParsePathID(r, "patientId")
	if err != nil {
		utils.HandleError(w, err)
		return
	}
	id, err := utils.ParsePathID(r, "id")
	if err != nil {
		utils.HandleError(w, err)
		return
	}

	var req historyModel.MedicalHistoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.HandleError(w, decodeError(err))
		return
	}

	recordService := provider.NewMedicalRecordProvider().GetMedicalRecordService()
	record, err := recordService.UpdateMedicalHistory(actor, patientID, id, req)
	if err != nil {
		utils.HandleError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, record)
}

// DeleteMedicalHistory handles DELETE /patients/{patientId}/medical-history/{id}.
// DeactivateMedicalHistory handles DELETE /patients/{patientId}/medical-history/{id}/deactivate.
func (h *MedicalHistoryHandler) DeactivateMedicalHistory(w http.ResponseWriter, r *http.Request) {

	actor, err := utils.RequestActor(r)
	if err != nil {
		utils.HandleError(w, err)
		return
	}
	patientID, err := utils.ParsePathID(r, "patientId")
	if err != nil {
		utils.HandleError(w, err)
		return
	}
	id, err := utils.ParsePathID(r, "id")
	if err != nil {
		utils.HandleError(w, err)
		return
	}

	recordService := provider.NewMedicalRecordProvider().GetMedicalRecordService()
	if err := recordService.DeactivateMedicalHistory(actor, patientID, id); err != nil {
		utils.HandleError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *MedicalHistoryHandler) DeleteMedicalHistory(w http.ResponseWriter, r *http.Request) {

	actor, err := utils.RequestActor(r)
	if err != nil {
		utils.HandleError(w, err)
		return
	}
	patientID, err := utils.ParsePathID(r, "patientId")
	if err != nil {
		utils.HandleError(w, err)
		return
	}
	id, err := utils.ParsePathID(r, "id")
	if err != nil {
		utils.HandleError(w, err)
		return
	}

	recordService := provider.NewMedicalRecordProvider().GetMedicalRecordService()
	if err := recordService.DeleteMedicalHistory(actor, patientID, id); err != nil {
		utils.HandleError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GetFullHistory handles GET /patients/{patientId}/full-history.
func (h *MedicalHistoryHandler) GetFullHistory(w http.ResponseWriter, r *http.Request) {

	actor, err := utils.RequestActor(r)
	if err != nil {
		utils.HandleError(w, err)
		return
	}
	patientID, err := utils.ParsePathID(r, "patientId")
	if err != nil {
		utils.HandleError(w, err)
		return
	}

	recordService := provider.NewMedicalRecordProvider().GetMedicalRecordService()
	history, err := recordService.GetFullHistory(actor, patientID)
	if err != nil {
		utils.HandleError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, history)
}

func parseHistoryQuery(r *http.Request) (*historyModel.MedicalHistoryQuery, error) {

	page, err := pagination.ParsePage(r)
	if err != nil {
		return nil, invalidPagination()
	}
	limit, err := pagination.ParseLimit(r)
	if err != nil {
		return nil, invalidPagination()
	}
	sortBy, sortOrder := pagination.ParseSort(r, "created_at", "diagnosed_at", "updated_at")

	var categories []string
	if raw := r.URL.Query().Get("categories"); raw != "" {
		for _, category := range strings.Split(raw, ",") {
			categories = append(categories, strings.TrimSpace(category))
		}
	}

	return &historyModel.MedicalHistoryQuery{
		Categories: categories,
		Page:       page,
		Limit:      limit,
		SortBy:     sortBy,
		SortOrder:  sortOrder,
	}, nil
}

func decodeError(err error) error {
	return errors2.NewClientError(errors2.ErrorMessage{
		Code:        errors2.BAD_REQUEST.Code,
		Message:     errors2.BAD_REQUEST.Message,
		Description: utils.HandleDecodeError(err, "medical record"),
	}, http.StatusBadRequest)
}

func invalidPagination() error {
	return errors2.NewClientError(errors2.ErrorMessage{
		Code:        errors2.INVALID_PAGINATION.Code,
		Message:     errors2.INVALID_PAGINATION.Message,
		Description: "Page and limit must be positive integers.",
	}, http.StatusBadRequest)
}
