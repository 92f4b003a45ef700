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

	appointmentModel "github.com/wso2/healthcare-records-service/internal/appointment/model"
	"github.com/wso2/healthcare-records-service/internal/appointment/provider"
	errors2 "github.com/wso2/healthcare-records-service/internal/system/errors"
	"github.com/wso2/healthcare-records-service/internal/system/pagination"
	"github.com/wso2/healthcare-records-service/internal/system/utils"
)

type AppointmentHandler struct{}

func NewAppointmentHandler() *AppointmentHandler {
	return &AppointmentHandler{}
}

// CreateAppointment handles POST /appointments.
func (h *AppointmentHandler) CreateAppointment(w http.ResponseWriter, r *http.Request) {

	actor, err := utils.RequestActor(r)
	if err != nil {
		utils.HandleError(w, err)
		return
	}

	var req appointmentModel.CreateAppointmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		clientError := errors2.NewClientError(errors2.ErrorMessage{
			Code:        errors2.BAD_REQUEST.Code,
			Message:     errors2.BAD_REQUEST.Message,
			Description: utils.HandleDecodeError(err, "appointment"),
		}, http.StatusBadRequest)
		utils.HandleError(w, clientError)
		return
	}

	appointmentService := provider.NewAppointmentProvider().GetAppointmentService()
	appointment, err := appointmentService.CreateAppointment(actor, req)
	if err != nil {
		utils.HandleError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusCreated, appointment)
}

// ListAppointments handles GET /appointments. Every user sees only the
// appointments they are a party to.
func (h *AppointmentHandler) ListAppointments(w http.ResponseWriter, r *http.Request) {

	actor, err := utils.RequestActor(r)
	if err != nil {
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

	appointmentService := provider.NewAppointmentProvider().GetAppointmentService()
	result, err := appointmentService.ListAppointments(actor, page, limit)
	if err != nil {
		utils.HandleError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, result)
}

// UpdateAppointmentStatus handles PATCH /appointments/{id}.
func (h *AppointmentHandler) UpdateAppointmentStatus(w http.ResponseWriter, r *http.Request) {

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

	var req appointmentModel.UpdateAppointmentStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		clientError := errors2.NewClientError(errors2.ErrorMessage{
			Code:        errors2.BAD_REQUEST.Code,
			Message:     errors2.BAD_REQUEST.Message,
			Description: utils.HandleDecodeError(err, "appointment status update"),
		}, http.StatusBadRequest)
		utils.HandleError(w, clientError)
		return
	}

	appointmentService := provider.NewAppointmentProvider().GetAppointmentService()
	appointment, err := appointmentService.UpdateAppointmentStatus(actor, id, req)
	if err != nil {
		utils.HandleError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, appointment)
}

func invalidPagination() error {
	return errors2.NewClientError(errors2.ErrorMessage{
		Code:        errors2.INVALID_PAGINATION.Code,
		Message:     errors2.INVALID_PAGINATION.Message,
		Description: "page and limit must be positive integers",
	}, http.StatusBadRequest)
}
