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
	"strings"

	"github.com/wso2/healthcare-records-service/internal/alert/model"
	"github.com/wso2/healthcare-records-service/internal/alert/store"
	notificationModel "github.com/wso2/healthcare-records-service/internal/notification/model"
	"github.com/wso2/healthcare-records-service/internal/system/constants"
	errors2 "github.com/wso2/healthcare-records-service/internal/system/errors"
	"github.com/wso2/healthcare-records-service/internal/system/pagination"
	"github.com/wso2/healthcare-records-service/internal/system/workers"
)

var validTransitions = map[string]map[string]bool{
	constants.AlertStatusPending:    {constants.AlertStatusInProgress: true, constants.AlertStatusResolved: true},
	constants.AlertStatusInProgress: {constants.AlertStatusResolved: true},
	constants.AlertStatusResolved:   {},
}

var validSeverities = map[string]bool{
	model.SeverityInfo:     true,
	model.SeverityWarning:  true,
	model.SeverityCritical: true,
}

// AlertServiceInterface defines operations on clinical alerts.
type AlertServiceInterface interface {
	CreateAlert(alert *model.Alert) (*model.Alert, error)
	ListAlerts(status string, patientID int64, page, limit int) (*pagination.Page, error)
	UpdateAlertStatus(id int64, req model.UpdateAlertStatusRequest) (*model.Alert, error)
}

// AlertService is the default implementation.
type AlertService struct {
	store store.AlertStoreInterface
}

// GetAlertService returns an AlertService backed by the default store.
func GetAlertService() AlertServiceInterface {
	return &AlertService{store: &store.AlertStore{}}
}

// CreateAlert persists an alert and notifies its assignee, if any. The
// notification is delivered asynchronously and never blocks the caller.
func (s *AlertService) CreateAlert(alert *model.Alert) (*model.Alert, error) {

	if alert == nil || alert.PatientID <= 0 {
		return nil, validationError("A valid patient_id is required")
	}
	if strings.TrimSpace(alert.Message) == "" {
		return nil, validationError("Alert message is required")
	}
	if !validSeverities[alert.Severity] {
		return nil, validationError(fmt.Sprintf("Unknown alert severity: %s", alert.Severity))
	}
	if alert.Status == "" {
		alert.Status = constants.AlertStatusPending
	}

	created, err := s.store.Insert(alert)
	if err != nil {
		return nil, err
	}

	if created.AssignedTo != nil {
		workers.EnqueueNotification(notificationModel.Notification{
			UserID: *created.AssignedTo,
			Type:   notificationModel.TypeAlert,
			Title:  fmt.Sprintf("%s alert for patient %d", created.Severity, created.PatientID),
			Body:   created.Message,
		})
	}
	return created, nil
}

// ListAlerts returns a page of alerts filtered by status and patient.
func (s *AlertService) ListAlerts(status string, patientID int64, page, limit int) (*pagination.Page, error) {

	if status != "" && validTransitions[status] == nil {
		return nil, validationError(fmt.Sprintf("Unknown alert status: %s", status))
	}

	offset := (page - 1) * limit
	alerts, total, err := s.store.List(status, patientID, limit, offset)
	if err != nil {
		return nil, err
	}
	return &pagination.Page{
		Items: alerts,
		Meta:  pagination.NewMeta(total, page, limit),
	}, nil
}

// UpdateAlertStatus validates the lifecycle transition, applies it, and
// notifies a newly-assigned staff member.
func (s *AlertService) UpdateAlertStatus(id int64, req model.UpdateAlertStatusRequest) (*model.Alert, error) {

	if validTransitions[req.Status] == nil {
		return nil, validationError(fmt.Sprintf("Unknown alert status: %s", req.Status))
	}

	alert, err := s.store.GetByID(id)
	if err != nil {
		return nil, err
	}
	if alert == nil {
		return nil, alertNotFound(id)
	}

	if alert.Status != req.Status && !validTransitions[alert.Status][req.Status] {
		return nil, validationError(fmt.Sprintf("Cannot move alert from %s to %s", alert.Status, req.Status))
	}

	affected, err := s.store.UpdateStatus(id, req.Status, req.AssignedTo)
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		return nil, alertNotFound(id)
	}

	newlyAssigned := req.AssignedTo != nil && (alert.AssignedTo == nil || *alert.AssignedTo != *req.AssignedTo)
	if newlyAssigned {
		workers.EnqueueNotification(notificationModel.Notification{
			UserID: *req.AssignedTo,
			Type:   notificationModel.TypeAlert,
			Title:  fmt.Sprintf("Alert %d assigned to you", id),
			Body:   alert.Message,
		})
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

func alertNotFound(id int64) error {
	return errors2.NewClientError(errors2.ErrorMessage{
		Code:        errors2.ALERT_NOT_FOUND.Code,
		Message:     errors2.ALERT_NOT_FOUND.Message,
		Description: fmt.Sprintf("No alert found with id: %d", id),
	}, http.StatusNotFound)
}
