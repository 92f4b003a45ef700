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
	"net/http"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	alertModel "github.com/wso2/healthcare-records-service/internal/alert/model"
	recordService "github.com/wso2/healthcare-records-service/internal/medicalhistory/service"
	"github.com/wso2/healthcare-records-service/internal/system/authn"
	"github.com/wso2/healthcare-records-service/internal/system/config"
	"github.com/wso2/healthcare-records-service/internal/system/constants"
	errors2 "github.com/wso2/healthcare-records-service/internal/system/errors"
	"github.com/wso2/healthcare-records-service/internal/system/log"
	"github.com/wso2/healthcare-records-service/internal/system/pagination"
	"github.com/wso2/healthcare-records-service/internal/vitals/model"
)

func TestMain(m *testing.M) {
	_ = log.Init("ERROR")
	config.OverrideHRSRuntime(config.Config{})
	os.Exit(m.Run())
}

type MockVitalsStore struct {
	mock.Mock
}

func (m *MockVitalsStore) Insert(vitals *model.VitalSigns) (*model.VitalSigns, error) {
	args := m.Called(vitals)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.VitalSigns), args.Error(1)
}

func (m *MockVitalsStore) List(patientID int64, limit, offset int) ([]model.VitalSigns, int, error) {
	args := m.Called(patientID, limit, offset)
	return args.Get(0).([]model.VitalSigns), args.Int(1), args.Error(2)
}

type MockAlertService struct {
	mock.Mock
}

func (m *MockAlertService) CreateAlert(alert *alertModel.Alert) (*alertModel.Alert, error) {
	args := m.Called(alert)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*alertModel.Alert), args.Error(1)
}

func (m *MockAlertService) ListAlerts(status string, patientID int64, page, limit int) (*pagination.Page, error) {
	args := m.Called(status, patientID, page, limit)
	return args.Get(0).(*pagination.Page), args.Error(1)
}

func (m *MockAlertService) UpdateAlertStatus(id int64, req alertModel.UpdateAlertStatusRequest) (*alertModel.Alert, error) {
	args := m.Called(id, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*alertModel.Alert), args.Error(1)
}

func intPtr(v int) *int {
	return &v
}

func floatPtr(v float64) *float64 {
	return &v
}

func selfActor(id int64) *authn.Actor {
	return &authn.Actor{UserID: id, Role: constants.RoleUser}
}

func newVitalsService(store *MockVitalsStore, alerts *MockAlertService) *VitalsService {
	return &VitalsService{
		store:  store,
		guard:  recordService.NewRecordGuard(nil),
		alerts: alerts,
	}
}

// ---------------------------------------------------------------------------
// AddVitalSigns
// ---------------------------------------------------------------------------

func TestAddVitalSigns_RequiresAMeasurement(t *testing.T) {
	svc := newVitalsService(new(MockVitalsStore), new(MockAlertService))

	_, err := svc.AddVitalSigns(selfActor(5), 5, model.VitalSignsRequest{})

	clientErr, ok := err.(*errors2.ClientError)
	require.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, clientErr.StatusCode)
}

func TestAddVitalSigns_NormalReadingRaisesNoAlert(t *testing.T) {
	store := new(MockVitalsStore)
	alerts := new(MockAlertService)
	svc := newVitalsService(store, alerts)

	store.
		On("Insert", mock.MatchedBy(func(v *model.VitalSigns) bool {
			return v.PatientID == 5 && v.RecordedBy == 5 && !v.RecordedAt.IsZero()
		})).
		Return(&model.VitalSigns{ID: 1, PatientID: 5, HeartRate: intPtr(72)}, nil)

	reading, err := svc.AddVitalSigns(selfActor(5), 5, model.VitalSignsRequest{HeartRate: intPtr(72)})

	require.NoError(t, err)
	assert.Equal(t, int64(1), reading.ID)
	alerts.AssertNotCalled(t, "CreateAlert", mock.Anything)
}

func TestAddVitalSigns_CriticalReadingRaisesAlert(t *testing.T) {
	store := new(MockVitalsStore)
	alerts := new(MockAlertService)
	svc := newVitalsService(store, alerts)

	stored := &model.VitalSigns{ID: 3, PatientID: 5, HeartRate: intPtr(150)}
	store.On("Insert", mock.Anything).Return(stored, nil)
	alerts.
		On("CreateAlert", mock.MatchedBy(func(a *alertModel.Alert) bool {
			return a.PatientID == 5 && a.Type == "heart_rate" &&
				a.Severity == alertModel.SeverityCritical &&
				a.VitalID != nil && *a.VitalID == 3
		})).
		Return(&alertModel.Alert{ID: 1}, nil)

	_, err := svc.AddVitalSigns(selfActor(5), 5, model.VitalSignsRequest{HeartRate: intPtr(150)})

	require.NoError(t, err)
	alerts.AssertExpectations(t)
}

func TestAddVitalSigns_AlertFailureDoesNotFailReading(t *testing.T) {
	store := new(MockVitalsStore)
	alerts := new(MockAlertService)
	svc := newVitalsService(store, alerts)

	stored := &model.VitalSigns{ID: 3, PatientID: 5, OxygenSaturation: intPtr(85)}
	store.On("Insert", mock.Anything).Return(stored, nil)
	alerts.On("CreateAlert", mock.Anything).
		Return(nil, errors2.NewServerError(errors2.ADD_ALERT, nil))

	reading, err := svc.AddVitalSigns(selfActor(5), 5, model.VitalSignsRequest{OxygenSaturation: intPtr(85)})

	require.NoError(t, err)
	assert.Equal(t, int64(3), reading.ID)
}

// ---------------------------------------------------------------------------
// evaluateThresholds
// ---------------------------------------------------------------------------

func TestEvaluateThresholds_NormalReading(t *testing.T) {
	reading := &model.VitalSigns{ID: 1, PatientID: 5,
		HeartRate: intPtr(72), SystolicBP: intPtr(118), TemperatureC: floatPtr(36.8),
		RespiratoryRate: intPtr(14), OxygenSaturation: intPtr(98)}

	assert.Empty(t, evaluateThresholds(reading))
}

func TestEvaluateThresholds_WarningHeartRate(t *testing.T) {
	reading := &model.VitalSigns{ID: 1, PatientID: 5, HeartRate: intPtr(130)}

	breaches := evaluateThresholds(reading)

	require.Len(t, breaches, 1)
	assert.Equal(t, "heart_rate", breaches[0].Type)
	assert.Equal(t, alertModel.SeverityWarning, breaches[0].Severity)
}

func TestEvaluateThresholds_CriticalBounds(t *testing.T) {
	cases := []struct {
		name    string
		reading model.VitalSigns
		want    string
	}{
		{"bradycardia", model.VitalSigns{HeartRate: intPtr(35)}, "heart_rate"},
		{"hypoxia", model.VitalSigns{OxygenSaturation: intPtr(88)}, "oxygen_saturation"},
		{"hyperthermia", model.VitalSigns{TemperatureC: floatPtr(40.2)}, "temperature"},
		{"hypothermia", model.VitalSigns{TemperatureC: floatPtr(34.5)}, "temperature"},
		{"hypertensive crisis", model.VitalSigns{SystolicBP: intPtr(185)}, "blood_pressure"},
		{"hypotension", model.VitalSigns{SystolicBP: intPtr(85)}, "blood_pressure"},
		{"tachypnea", model.VitalSigns{RespiratoryRate: intPtr(34)}, "respiratory_rate"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			tc.reading.ID = 1
			tc.reading.PatientID = 5
			breaches := evaluateThresholds(&tc.reading)
			require.Len(t, breaches, 1)
			assert.Equal(t, tc.want, breaches[0].Type)
			assert.Equal(t, alertModel.SeverityCritical, breaches[0].Severity)
		})
	}
}

func TestEvaluateThresholds_MultipleBreaches(t *testing.T) {
	reading := &model.VitalSigns{ID: 1, PatientID: 5,
		HeartRate: intPtr(150), OxygenSaturation: intPtr(91)}

	breaches := evaluateThresholds(reading)

	assert.Len(t, breaches, 2)
}

// ---------------------------------------------------------------------------
// ListVitalSigns
// ---------------------------------------------------------------------------

func TestListVitalSigns_PagesResults(t *testing.T) {
	store := new(MockVitalsStore)
	svc := newVitalsService(store, new(MockAlertService))

	store.On("List", int64(5), 20, 0).Return([]model.VitalSigns{{ID: 1}}, 1, nil)

	page, err := svc.ListVitalSigns(selfActor(5), 5, 1, 20)

	require.NoError(t, err)
	assert.Equal(t, 1, page.Meta.Total)
}
