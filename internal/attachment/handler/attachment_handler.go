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

	attachmentModel "github.com/wso2/healthcare-records-service/internal/attachment/model"
	"github.com/wso2/healthcare-records-service/internal/attachment/provider"
	"github.com/wso2/healthcare-records-service/internal/system/authn"
	errors2 "github.com/wso2/healthcare-records-service/internal/system/errors"
	"github.com/wso2/healthcare-records-service/internal/system/utils"
)

type AttachmentHandler struct{}

func NewAttachmentHandler() *AttachmentHandler {
	return &AttachmentHandler{}
}

// AddAttachment handles POST /patients/{patientId}/attachments.
func (h *AttachmentHandler) AddAttachment(w http.ResponseWriter, r *http.Request) {

	actor, patientID, ok := actorAndPatient(w, r)
	if !ok {
		return
	}

	var req attachmentModel.AttachmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		clientError := errors2.NewClientError(errors2.ErrorMessage{
			Code:        errors2.BAD_REQUEST.Code,
			Message:     errors2.BAD_REQUEST.Message,
			Description: utils.HandleDecodeError(err, "attachment"),
		}, http.StatusBadRequest)
		utils.HandleError(w, clientError)
		return
	}

	attachmentService := provider.NewAttachmentProvider().GetAttachmentService()
	attachment, err := attachmentService.AddAttachment(actor, patientID, req)
	if err != nil {
		utils.HandleError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusCreated, attachment)
}

// GetAttachment handles GET /patients/{patientId}/attachments/{id}.
func (h *AttachmentHandler) GetAttachment(w http.ResponseWriter, r *http.Request) {

	actor, patientID, ok := actorAndPatient(w, r)
	if !ok {
		return
	}
	id, err := utils.ParsePathID(r, "id")
	if err != nil {
		utils.HandleError(w, err)
		return
	}

	attachmentService := provider.NewAttachmentProvider().GetAttachmentService()
	attachment, err := attachmentService.GetAttachment(actor, patientID, id)
	if err != nil {
		utils.HandleError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, attachment)
}

// ListAttachments handles GET /patients/{patientId}/attachments.
func (h *AttachmentHandler) ListAttachments(w http.ResponseWriter, r *http.Request) {

	actor, patientID, ok := actorAndPatient(w, r)
	if !ok {
		return
	}

	attachmentService := provider.NewAttachmentProvider().GetAttachmentService()
	attachments, err := attachmentService.ListAttachments(actor, patientID)
	if err != nil {
		utils.HandleError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, attachments)
}

// DeleteAttachment handles DELETE /patients/{patientId}/attachments/{id}.
func (h *AttachmentHandler) DeleteAttachment(w http.ResponseWriter, r *http.Request) {

	actor, patientID, ok := actorAndPatient(w, r)
	if !ok {
		return
	}
	id, err := utils.ParsePathID(r, "id")
	if err != nil {
		utils.HandleError(w, err)
		return
	}

	attachmentService := provider.NewAttachmentProvider().GetAttachmentService()
	if err := attachmentService.DeleteAttachment(actor, patientID, id); err != nil {
		utils.HandleError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

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
