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

	accessService "github.com/wso2/healthcare-records-service/internal/access/service"
	alertModel "github.com/wso2/healthcare-records-service/internal/alert/model"
	alertService "github.com/wso2/healthcare-records-service/internal/alert/service"
	recordService "github.com/wso2/healthcare-records-service/internal/medicalhistory/service"
	"github.com/wso2/healthcare-records-service/internal/system/authn"
	errors2 "github.com/wso2/healthcare-records-service/internal/system/errors"
	"github.com/wso2/healthcare-records-service/internal/system/log"
	"github.com/wso2/healthcare-records-service/internal/system/pagination"
	"github.com/wso2/healthcare-records-service/internal/vitals/model"
	"github.com/wso2/healthcare-records-service/internal/vitals/store"
)

// VitalsServiceInterface defines operations on vital sign readings.
type VitalsServiceInterface interface {
	AddVitalSigns(actor *authn.Actor, patientID int64, req model.VitalSignsRequest) (*model.VitalSigns, error)
	ListVitalSigns(actor *authn.Actor, patientID int64, page, limit int) (*pagination.Page, error)
}

// VitalsService records readings and raises alerts for out-of-range values.
type VitalsService struct {
	store  store.VitalsStoreInterface
	guard  *recordService.RecordGuard
	alerts alertService.AlertServiceInterface
}

// GetVitalsService returns a VitalsService backed by the default store,
// access guard, and alert service.
func GetVitalsService() VitalsServiceInterface {
	return &VitalsService{
		store:  &store.VitalsStore{},
		guard:  recordService.NewRecordGuard(accessService.GetAccessService()),
		alerts: alertService.GetAlertService(),
	}
}

// AddVitalSigns records a reading for the patient and evaluates it against
// the alerting thresholds. Alert creation failures are logged, never
// surfaced; the reading itself is the primary record.
func (s *VitalsService) AddVitalSigns(actor *authn.Actor, patientID int64, req model.VitalSignsRequest) (*model.VitalSigns, error) {

	if _, err := s.guard.AuthorizeAny(actor, patientID); err != nil {
		return nil, err
	}
	if req.HeartRate == nil && req.SystolicBP == nil && req.DiastolicBP == nil && req.TemperatureC == nil &&
		req.RespiratoryRate == nil && req.OxygenSaturation == nil {
		return nil, errors2.NewClientError(errors2.ErrorMessage{
			Code:        errors2.BAD_REQUEST.Code,
			Message:     errors2.BAD_REQUEST.Message,
			Description: "At least one vital sign measurement is required",
		}, http.StatusBadRequest)
	}

	recordedAt := time.Now().UTC()
	if req.RecordedAt != nil {
		recordedAt = req.RecordedAt.UTC()
	}

	reading := &model.VitalSigns{
		PatientID:        patientID,
		HeartRate:        req.HeartRate,
		SystolicBP:       req.SystolicBP,
		DiastolicBP:      req.DiastolicBP,
		TemperatureC:     req.TemperatureC,
		RespiratoryRate:  req.RespiratoryRate,
		OxygenSaturation: req.OxygenSaturation,
		RecordedBy:       actor.UserID,
		RecordedAt:       recordedAt,
	}

	created, err := s.store.Insert(reading)
	if err != nil {
		return nil, err
	}

	s.raiseThresholdAlerts(created)
	return created, nil
}

// ListVitalSigns returns a page of readings for the patient.
func (s *VitalsService) ListVitalSigns(actor *authn.Actor, patientID int64, page, limit int) (*pagination.Page, error) {

	if _, err := s.guard.AuthorizeAny(actor, patientID); err != nil {
		return nil, err
	}

	offset := (page - 1) * limit
	readings, total, err := s.store.List(patientID, limit, offset)
	if err != nil {
		return nil, err
	}
	return &pagination.Page{
		Items: readings,
		Meta:  pagination.NewMeta(total, page, limit),
	}, nil
}

func (s *VitalsService) raiseThresholdAlerts(reading *model.VitalSigns) {

	logger := log.GetLogger()
	for _, breach := range evaluateThresholds(reading) {
		if _, err := s.alerts.CreateAlert(breach); err != nil {
			logger.Warn(fmt.Sprintf("Failed to raise %s alert for patient: %d from vitals reading: %d",
				breach.Type, reading.PatientID, reading.ID), log.Error(err))
		}
	}
}

// evaluateThresholds compares a reading against the clinical alerting
// thresholds and returns one alert per out-of-range sign.
func evaluateThresholds(reading *model.VitalSigns) []*alertModel.Alert {

	var breaches []*alertModel.Alert
	add := func(alertType, severity, message string) {
		vitalID := reading.ID
		breaches = append(breaches, &alertModel.Alert{
			PatientID: reading.PatientID,
			VitalID:   &vitalID,
			Type:      alertType,
			Severity:  severity,
			Message:   message,
		})
	}

	if hr := reading.HeartRate; hr != nil {
		switch {
		case *hr < 40 || *hr > 140:
			add("heart_rate", alertModel.SeverityCritical, fmt.Sprintf("Heart rate %d bpm is critically out of range", *hr))
		case *hr < 50 || *hr > 120:
			add("heart_rate", alertModel.SeverityWarning, fmt.Sprintf("Heart rate %d bpm is out of range", *hr))
		}
	}
	if spo2 := reading.OxygenSaturation; spo2 != nil {
		switch {
		case *spo2 < 90:
			add("oxygen_saturation", alertModel.SeverityCritical, fmt.Sprintf("Oxygen saturation %d%% is critically low", *spo2))
		case *spo2 < 94:
			add("oxygen_saturation", alertModel.SeverityWarning, fmt.Sprintf("Oxygen saturation %d%% is low", *spo2))
		}
	}
	if temp := reading.TemperatureC; temp != nil {
		switch {
		case *temp >= 40.0 || *temp <= 35.0:
			add("temperature", alertModel.SeverityCritical, fmt.Sprintf("Body temperature %.1f C is critically out of range", *temp))
		case *temp >= 38.5:
			add("temperature", alertModel.SeverityWarning, fmt.Sprintf("Body temperature %.1f C indicates fever", *temp))
		}
	}
	if sys := reading.SystolicBP; sys != nil {
		switch {
		case *sys >= 180 || *sys < 90:
			add("blood_pressure", alertModel.SeverityCritical, fmt.Sprintf("Systolic pressure %d mmHg is critically out of range", *sys))
		case *sys >= 160:
			add("blood_pressure", alertModel.SeverityWarning, fmt.Sprintf("Systolic pressure %d mmHg is elevated", *sys))
		}
	}
	if rr := reading.RespiratoryRate; rr != nil {
		switch {
		case *rr < 8 || *rr > 30:
			add("respiratory_rate", alertModel.SeverityCritical, fmt.Sprintf("Respiratory rate %d breaths/min is critically out of range", *rr))
		case *rr > 24:
			add("respiratory_rate", alertModel.SeverityWarning, fmt.Sprintf("Respiratory rate %d breaths/min is elevated", *rr))
		}
	}
	return breaches
}
