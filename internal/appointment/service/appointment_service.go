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

package service

import (
	"fmt"
	"net/http"
	"time"

	"github.com/wso2/healthcare-records-service/internal/appointment/model"
	"github.com/wso2/healthcare-records-service/internal/appointment/store"
	"github.com/wso2/healthcare-records-service/internal/system/authn"
	"github.com/wso2/healthcare-records-service/internal/system/constants"
	errors2 "github.com/wso2/healthcare-records-service/internal/system/errors"
	"github.com/wso2/healthcare-records-service/internal/system/pagination"
)

const defaultDurationMinutes = 30

var appointmentTransitions = map[string]map[string]bool{
	constants.AppointmentStatusRequested: {
		constants.AppointmentStatusConfirmed: true,
		constants.AppointmentStatusCancelled: true,
	},
	constants.AppointmentStatusConfirmed: {
		constants.AppointmentStatusCompleted: true,
		constants.AppointmentStatusCancelled: true,
	},
	constants.AppointmentStatusCancelled: {},
	constants.AppointmentStatusCompleted: {},
}

// AppointmentServiceInterface defines scheduling operations.
type AppointmentServiceInterface interface {
	CreateAppointment(actor *authn.Actor, req model.CreateAppointmentRequest) (*model.Appointment, error)
	ListAppointments(actor *authn.Actor, page, limit int) (*pagination.Page, error)
	UpdateAppointmentStatus(actor *authn.Actor, id int64, req model.UpdateAppointmentStatusRequest) (*model.Appointment, error)
}

// AppointmentService is the default implementation.
type AppointmentService struct {
	store store.AppointmentStoreInterface
}

// GetAppointmentService returns an AppointmentService backed by the
// default store.
func GetAppointmentService() AppointmentServiceInterface {
	return &AppointmentService{store: &store.AppointmentStore{}}
}

// CreateAppointment books a slot. A patient books with a staff member; a
// staff member books on behalf of a patient. The staff member's calendar
// must be free for the slot.
func (s *AppointmentService) CreateAppointment(actor *authn.Actor, req model.CreateAppointmentRequest) (*model.Appointment, error) {

	patientID, staffID := req.PatientID, req.StaffID
	if actor.Role == constants.RoleUser {
		patientID = actor.UserID
	} else {
		staffID = actor.UserID
	}
	if patientID <= 0 || staffID <= 0 {
		return nil, validationError("Both a patient and a staff member are required.")
	}
	if patientID == staffID {
		return nil, validationError("A staff member cannot book an appointment with itself.")
	}
	if req.ScheduledAt.IsZero() || !req.ScheduledAt.After(time.Now()) {
		return nil, validationError("scheduled_at must be in the future.")
	}

	duration := req.DurationMinutes
	if duration <= 0 {
		duration = defaultDurationMinutes
	}

	start := req.ScheduledAt.UTC()
	end := start.Add(time.Duration(duration) * time.Minute)
	conflicts, err := s.store.CountConflicts(staffID, start, end)
	if err != nil {
		return nil, err
	}
	if conflicts > 0 {
		return nil, errors2.NewClientError(errors2.ErrorMessage{
			Code:        errors2.APPOINTMENT_CONFLICT.Code,
			Message:     errors2.APPOINTMENT_CONFLICT.Message,
			Description: errors2.APPOINTMENT_CONFLICT.Description,
		}, http.StatusConflict)
	}

	return s.store.Insert(&model.Appointment{
		PatientID:       patientID,
		StaffID:         staffID,
		ScheduledAt:     start,
		DurationMinutes: duration,
		Status:          constants.AppointmentStatusRequested,
		Reason:          req.Reason,
	})
}

// ListAppointments returns a page of the actor's own appointments.
func (s *AppointmentService) ListAppointments(actor *authn.Actor, page, limit int) (*pagination.Page, error) {

	offset := (page - 1) * limit
	appointments, total, err := s.store.ListForUser(actor.UserID, limit, offset)
	if err != nil {
		return nil, err
	}
	return &pagination.Page{
		Items: appointments,
		Meta:  pagination.NewMeta(total, page, limit),
	}, nil
}

// UpdateAppointmentStatus applies a lifecycle transition. Only a party to
// the appointment may act on it, and a patient may only cancel.
func (s *AppointmentService) UpdateAppointmentStatus(actor *authn.Actor, id int64, req model.UpdateAppointmentStatusRequest) (*model.Appointment, error) {

	if appointmentTransitions[req.Status] == nil {
		return nil, validationError(fmt.Sprintf("Unknown appointment status: %s", req.Status))
	}

	appointment, err := s.store.GetByID(id)
	if err != nil {
		return nil, err
	}
	if appointment == nil {
		return nil, appointmentNotFound(id)
	}

	if actor.UserID != appointment.PatientID && actor.UserID != appointment.StaffID {
		return nil, errors2.NewClientError(errors2.ErrorMessage{
			Code:        errors2.FORBIDDEN.Code,
			Message:     errors2.FORBIDDEN.Message,
			Description: "Only a party to the appointment can act on it.",
		}, http.StatusForbidden)
	}
	if actor.UserID == appointment.PatientID && actor.Role == constants.RoleUser &&
		req.Status != constants.AppointmentStatusCancelled {
		return nil, errors2.NewClientError(errors2.ErrorMessage{
			Code:        errors2.FORBIDDEN.Code,
			Message:     errors2.FORBIDDEN.Message,
			Description: "A patient can only cancel an appointment.",
		}, http.StatusForbidden)
	}
	if !appointmentTransitions[appointment.Status][req.Status] {
		return nil, validationError(fmt.Sprintf("Cannot move appointment from %s to %s",
			appointment.Status, req.Status))
	}

	affected, err := s.store.UpdateStatus(id, req.Status)
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		return nil, appointmentNotFound(id)
	}
	return s.store.GetByID(id)
}

func validationError(description string) error {
	return errors2.NewClientError(errors2.ErrorMessage{
		Code:        errors2.BAD_REQUEST.Code,
		Message:     errors2.BAD_REQUEST.Message,
		Description: description,
	}, http.StatusBadRequest)
}

func appointmentNotFound(id int64) error {
	return errors2.NewClientError(errors2.ErrorMessage{
		Code:        errors2.APPOINTMENT_NOT_FOUND.Code,
		Message:     errors2.APPOINTMENT_NOT_FOUND.Message,
		Description: fmt.Sprintf("No appointment found with id: %d", id),
	}, http.StatusNotFound)
}
