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

	historyModel "github.com/wso2/healthcare-records-service/internal/medicalhistory/model"
	"github.com/wso2/healthcare-records-service/internal/medicalhistory/provider"
	"github.com/wso2/healthcare-records-service/internal/system/authn"
	"github.com/wso2/healthcare-records-service/internal/system/utils"
)

// SubRecordHandler serves the record groups that carry no category:
// allergies, medications, family history and lifestyle.
type SubRecordHandler struct{}

func NewSubRecordHandler() *SubRecordHandler {
	return &SubRecordHandler{}
}

// actorAndPatient resolves the request actor and the patientId path
// parameter shared by every sub-record route.
func actorAndPatient(w http.ResponseWriter, r *http.Request) (*authn.Actor, int64, bool) {

	actor, err := utils.RequestActor(r)
	if err != nil {
		utils.HandleError(w, err)
		return nil, 0, false
	}
	patientID, err := utils.ParsePathID(r, "patientId")
	if err != nil {
		utils.HandleError(w, err)
		return nil, 0, false
	}
	return actor, patientID, true
}

// AddAllergy handles POST /patients/{patientId}/allergies.
func (h *SubRecordHandler) AddAllergy(w http.ResponseWriter, r *http.Request) {

	actor, patientID, ok := actorAndPatient(w, r)
	if !ok {
		return
	}

	var req historyModel.AllergyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.HandleError(w, decodeError(err))
		return
	}

	recordService := provider.NewMedicalRecordProvider().GetMedicalRecordService()
	record, err := recordService.AddAllergy(actor, patientID, req)
	if err != nil {
		utils.HandleError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusCreated, record)
}

// ListAllergies handles GET /patients/{patientId}/allergies.
func (h *SubRecordHandler) ListAllergies(w http.ResponseWriter, r *http.Request) {

	actor, patientID, ok := actorAndPatient(w, r)
	if !ok {
		return
	}

	recordService := provider.NewMedicalRecordProvider().GetMedicalRecordService()
	records, err := recordService.ListAllergies(actor, patientID)
	if err != nil {
		utils.HandleError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, records)
}

// DeleteAllergy handles DELETE /patients/{patientId}/allergies/{id}.
func (h *SubRecordHandler) DeleteAllergy(w http.ResponseWriter, r *http.Request) {

	actor, patientID, ok := actorAndPatient(w, r)
	if !ok {
		return
	}
	id, err := utils.ParsePathID(r, "id")
	if err != nil {
		utils.HandleError(w, err)
		return
	}

	recordService := provider.NewMedicalRecordProvider().GetMedicalRecordService()
	if err := recordService.DeleteAllergy(actor, patientID, id); err != nil {
		utils.HandleError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// AddMedication handles POST /patients/{patientId}/medications.
func (h *SubRecordHandler) AddMedication(w http.ResponseWriter, r *http.Request) {

	actor, patientID, ok := actorAndPatient(w, r)
	if !ok {
		return
	}

	var req historyModel.MedicationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.HandleError(w, decodeError(err))
		return
	}

	recordService := provider.NewMedicalRecordProvider().GetMedicalRecordService()
	record, err := recordService.AddMedication(actor, patientID, req)
	if err != nil {
		utils.HandleError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusCreated, record)
}

// ListMedications handles GET /patients/{patientId}/medications.
func (h *SubRecordHandler) ListMedications(w http.ResponseWriter, r *http.Request) {

	actor, patientID, ok := actorAndPatient(w, r)
	if !ok {
		return
	}

	recordService := provider.NewMedicalRecordProvider().GetMedicalRecordService()
	records, err := recordService.ListMedications(actor, patientID)
	if err != nil {
		utils.HandleError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, records)
}

// UpdateMedication handles PUT /patients/{patientId}/medications/{id}.
func (h *SubRecordHandler) UpdateMedication(w http.ResponseWriter, r *http.Request) {

	actor, patientID, ok := actorAndPatient(w, r)
	if !ok {
		return
	}
	id, err := utils.ParsePathID(r, "id")
	if err != nil {
		utils.HandleError(w, err)
		return
	}

	var req historyModel.MedicationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.HandleError(w, decodeError(err))
		return
	}

	recordService := provider.NewMedicalRecordProvider().GetMedicalRecordService()
	if err := recordService.UpdateMedication(actor, patientID, id, req); err != nil {
		utils.HandleError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// DeactivateMedication handles PATCH /patients/{patientId}/medications/{id}/deactivate.
func (h *SubRecordHandler) DeactivateMedication(w http.ResponseWriter, r *http.Request) {

	actor, patientID, ok := actorAndPatient(w, r)
	if !ok {
		return
	}
	id, err := utils.ParsePathID(r, "id")
	if err != nil {
		utils.HandleError(w, err)
		return
	}

	recordService := provider.NewMedicalRecordProvider().GetMedicalRecordService()
	if err := recordService.DeactivateMedication(actor, patientID, id); err != nil {
		utils.HandleError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// DeleteMedication handles DELETE /patients/{patientId}/medications/{id}.
func (h *SubRecordHandler) DeleteMedication(w http.ResponseWriter, r *http.Request) {

	actor, patientID, ok := actorAndPatient(w, r)
	if !ok {
		return
	}
	id, err := utils.ParsePathID(r, "id")
	if err != nil {
		utils.HandleError(w, err)
		return
	}

	recordService := provider.NewMedicalRecordProvider().GetMedicalRecordService()
	if err := recordService.DeleteMedication(actor, patientID, id); err != nil {
		utils.HandleError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// AddFamilyHistory handles POST /patients/{patientId}/family-history.
func (h *SubRecordHandler) AddFamilyHistory(w http.ResponseWriter, r *http.Request) {

	actor, patientID, ok := actorAndPatient(w, r)
	if !ok {
		return
	}

	var req historyModel.FamilyHistoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.HandleError(w, decodeError(err))
		return
	}

	recordService := provider.NewMedicalRecordProvider().GetMedicalRecordService()
	record, err := recordService.AddFamilyHistory(actor, patientID, req)
	if err != nil {
		utils.HandleError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusCreated, record)
}

// ListFamilyHistory handles GET /patients/{patientId}/family-history.
func (h *SubRecordHandler) ListFamilyHistory(w http.ResponseWriter, r *http.Request) {

	actor, patientID, ok := actorAndPatient(w, r)
	if !ok {
		return
	}

	recordService := provider.NewMedicalRecordProvider().GetMedicalRecordService()
	records, err := recordService.ListFamilyHistory(actor, patientID)
	if err != nil {
		utils.HandleError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, records)
}

// DeleteFamilyHistory handles DELETE /patients/{patientId}/family-history/{id}.
func (h *SubRecordHandler) DeleteFamilyHistory(w http.ResponseWriter, r *http.Request) {

	actor, patientID, ok := actorAndPatient(w, r)
	if !ok {
		return
	}
	id, err := utils.ParsePathID(r, "id")
	if err != nil {
		utils.HandleError(w, err)
		return
	}

	recordService := provider.NewMedicalRecordProvider().GetMedicalRecordService()
	if err := recordService.DeleteFamilyHistory(actor, patientID, id); err != nil {
		utils.HandleError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// AddLifestyle handles POST /patients/{patientId}/lifestyle.
func (h *SubRecordHandler) AddLifestyle(w http.ResponseWriter, r *http.Request) {

	actor, patientID, ok := actorAndPatient(w, r)
	if !ok {
		return
	}

	var req historyModel.LifestyleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.HandleError(w, decodeError(err))
		return
	}

	recordService := provider.NewMedicalRecordProvider().GetMedicalRecordService()
	record, err := recordService.AddLifestyle(actor, patientID, req)
	if err != nil {
		utils.HandleError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusCreated, record)
}

// ListLifestyle handles GET /patients/{patientId}/lifestyle.
func (h *SubRecordHandler) ListLifestyle(w http.ResponseWriter, r *http.Request) {

	actor, patientID, ok := actorAndPatient(w, r)
	if !ok {
		return
	}

	recordService := provider.NewMedicalRecordProvider().GetMedicalRecordService()
	records, err := recordService.ListLifestyle(actor, patientID)
	if err != nil {
		utils.HandleError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, records)
}

// DeleteLifestyle handles DELETE /patients/{patientId}/lifestyle/{id}.
func (h *SubRecordHandler) DeleteLifestyle(w http.ResponseWriter, r *http.Request) {

	actor, patientID, ok := actorAndPatient(w, r)
	if !ok {
		return
	}
	id, err := utils.ParsePathID(r, "id")
	if err != nil {
		utils.HandleError(w, err)
		return
	}

	recordService := provider.NewMedicalRecordProvider().GetMedicalRecordService()
	if err := recordService.DeleteLifestyle(actor, patientID, id); err != nil {
		utils.HandleError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
