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

	errors2 "github.com/wso2/healthcare-records-service/internal/system/errors"
	"github.com/wso2/healthcare-records-service/internal/system/pagination"
	"github.com/wso2/healthcare-records-service/internal/system/utils"
	userModel "github.com/wso2/healthcare-records-service/internal/user/model"
	"github.com/wso2/healthcare-records-service/internal/user/provider"
)

type UserHandler struct{}

func NewUserHandler() *UserHandler {
	return &UserHandler{}
}

// RegisterUser handles POST /users.
func (h *UserHandler) RegisterUser(w http.ResponseWriter, r *http.Request) {

	var req userModel.CreateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		clientError := errors2.NewClientError(errors2.ErrorMessage{
			Code:        errors2.BAD_REQUEST.Code,
			Message:     errors2.BAD_REQUEST.Message,
			Description: utils.HandleDecodeError(err, "user"),
		}, http.StatusBadRequest)
		utils.HandleError(w, clientError)
		return
	}

	userService := provider.NewUserProvider().GetUserService()
	user, err := userService.CreateUser(req)
	if err != nil {
		utils.HandleError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusCreated, user)
}

// GetUser handles GET /users/{id}.
func (h *UserHandler) GetUser(w http.ResponseWriter, r *http.Request) {

	actor, err := utils.RequestActor(r)
	if err != nil {
		utils.HandleError(w, err)
		return
	}

	id, err := utils.ParsePathID(r, "id")
	if err != nil {
		utils.HandleError(w, err)
		return
	}

	// A user may always read its own account; anything else needs the
	// user:view permission.
	if actor.UserID != id {
		if _, err := utils.RequestActorWithPermission(r, "user:view"); err != nil {
			utils.HandleError(w, err)
			return
		}
	}

	userService := provider.NewUserProvider().GetUserService()
	user, err := userService.GetUser(id)
	if err != nil {
		utils.HandleError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, user)
}

// GetPatientProfile handles GET /patients/{patientId}/profile.
func (h *UserHandler) GetPatientProfile(w http.ResponseWriter, r *http.Request) {

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

	if actor.UserID != patientID {
		if _, err := utils.RequestActorWithPermission(r, "user:view"); err != nil {
			utils.HandleError(w, err)
			return
		}
	}

	userService := provider.NewUserProvider().GetUserService()
	profile, err := userService.GetPatientProfile(patientID)
	if err != nil {
		utils.HandleError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, profile)
}

// SetPatientPin handles PUT /patients/{patientId}/pin. Only the patient can
// set its own PIN.
func (h *UserHandler) SetPatientPin(w http.ResponseWriter, r *http.Request) {

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

	if actor.UserID != patientID {
		clientError := errors2.NewClientError(errors2.ErrorMessage{
			Code:        errors2.FORBIDDEN.Code,
			Message:     errors2.FORBIDDEN.Message,
			Description: "A PIN can only be set by the patient it protects.",
		}, http.StatusForbidden)
		utils.HandleError(w, clientError)
		return
	}

	var req userModel.SetPinRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		clientError := errors2.NewClientError(errors2.ErrorMessage{
			Code:        errors2.BAD_REQUEST.Code,
			Message:     errors2.BAD_REQUEST.Message,
			Description: utils.HandleDecodeError(err, "PIN"),
		}, http.StatusBadRequest)
		utils.HandleError(w, clientError)
		return
	}

	userService := provider.NewUserProvider().GetUserService()
	if err := userService.SetPatientPin(patientID, req.Pin); err != nil {
		utils.HandleError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListUsers handles GET /users.
func (h *UserHandler) ListUsers(w http.ResponseWriter, r *http.Request) {

	if _, err := utils.RequestActorWithPermission(r, "user:view"); err != nil {
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

	userService := provider.NewUserProvider().GetUserService()
	result, err := userService.ListUsers(r.URL.Query().Get("role"), page, limit)
	if err != nil {
		utils.HandleError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, result)
}

func invalidPagination() error {
	return errors2.NewClientError(errors2.ErrorMessage{
		Code:        errors2.INVALID_PAGINATION.Code,
		Message:     errors2.INVALID_PAGINATION.Message,
		Description: "Page and limit must be positive integers.",
	}, http.StatusBadRequest)
}
