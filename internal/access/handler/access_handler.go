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

	accessModel "github.com/wso2/healthcare-records-service/internal/access/model"
	"github.com/wso2/healthcare-records-service/internal/access/provider"
	"github.com/wso2/healthcare-records-service/internal/system/constants"
	errors2 "github.com/wso2/healthcare-records-service/internal/system/errors"
	"github.com/wso2/healthcare-records-service/internal/system/utils"
)

type AccessHandler struct{}

func NewAccessHandler() *AccessHandler {
	return &AccessHandler{}
}

// GrantAccess handles POST /access/grant. Only a patient can grant access,
// and only for its own records.
func (h *AccessHandler) GrantAccess(w http.ResponseWriter, r *http.Request) {

	actor, err := utils.RequestActor(r)
	if err != nil {
		utils.HandleError(w, err)
		return
	}
	if actor.Role != constants.RoleUser {
		utils.HandleError(w, patientOnly())
		return
	}

	var req accessModel.GrantAccessRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		clientError := errors2.NewClientError(errors2.ErrorMessage{
			Code:        errors2.BAD_REQUEST.Code,
			Message:     errors2.BAD_REQUEST.Message,
			Description: utils.HandleDecodeError(err, "access grant"),
		}, http.StatusBadRequest)
		utils.HandleError(w, clientError)
		return
	}

	accessService := provider.NewAccessProvider().GetAccessService()
	grant, err := accessService.GrantAccess(actor.UserID, req)
	if err != nil {
		utils.HandleError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusCreated, grant)
}

// RevokeAccess handles POST /access/revoke. Revocation is idempotent; the
// response reports how many grants were deactivated.
func (h *AccessHandler) RevokeAccess(w http.ResponseWriter, r *http.Request) {

	actor, err := utils.RequestActor(r)
	if err != nil {
		utils.HandleError(w, err)
		return
	}
	if actor.Role != constants.RoleUser {
		utils.HandleError(w, patientOnly())
		return
	}

	var req accessModel.RevokeAccessRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		clientError := errors2.NewClientError(errors2.ErrorMessage{
			Code:        errors2.BAD_REQUEST.Code,
			Message:     errors2.BAD_REQUEST.Message,
			Description: utils.HandleDecodeError(err, "access revocation"),
		}, http.StatusBadRequest)
		utils.HandleError(w, clientError)
		return
	}

	accessService := provider.NewAccessProvider().GetAccessService()
	revoked, err := accessService.RevokeAccess(actor.UserID, req.StaffID)
	if err != nil {
		utils.HandleError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, accessModel.RevokeAccessResponse{Revoked: revoked})
}

// CheckAccess handles GET /access/check/{patientId}. A staff member checks
// its own standing toward the patient; a patient may check any staff member
// via the staff_id query parameter.
func (h *AccessHandler) CheckAccess(w http.ResponseWriter, r *http.Request) {

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

	staffID := actor.UserID
	if actor.UserID == patientID {
		// The patient inspects a staff member's standing.
		var parseErr error
		staffID, parseErr = utils.ParseQueryID(r, "staff_id")
		if parseErr != nil {
			utils.HandleError(w, parseErr)
			return
		}
	}

	accessService := provider.NewAccessProvider().GetAccessService()
	status := accessService.CheckAccess(patientID, staffID)
	utils.WriteJSON(w, http.StatusOK, status)
}

func patientOnly() error {
	return errors2.NewClientError(errors2.ErrorMessage{
		Code:        errors2.FORBIDDEN.Code,
		Message:     errors2.FORBIDDEN.Message,
		Description: "Only a patient can manage access to its own records.",
	}, http.StatusForbidden)
}
