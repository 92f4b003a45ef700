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
	"github.com/wso2/healthcare-records-service/internal/alert/model"
	"github.com/wso2/healthcare-records-service/internal/system/constants"
	errors2 "github.com/wso2/healthcare-records-service/internal/system/errors"
	"github.com/wso2/healthcare-records-service/internal/system/log"
)

func TestMain(m *testing.M) {
	_ = log.Init("ERROR")
	os.Exit(m.Run())
}

type MockAlertStore struct {
	mock.Mock
}

func (m *MockAlertStore) Insert(alert *model.Alert) (*model.Alert, error) {
	args := m.Called(alert)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Alert), args.Error(1)
}

func (m *MockAlertStore) GetByID(id int64) (*model.Alert, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Alert), args.Error(1)
}

func (m *MockAlertStore) List(status string, patientID int64, limit, offset int) ([]model.Alert, int, error) {
	args := m.Called(status, patientID, limit, offset)
	return args.Get(0).([]model.Alert), args.Int(1), args.Error(2)
}

func (m *MockAlertStore) UpdateStatus(id int64, status string, assignedTo *int64) (int64, error) {
	args := m.Called(id, status, assignedTo)
	return args.Get(0).(int64), args.Error(1)
}

func requireStatus(t *testing.T, err error, status int) {
	t.Helper()
	clientErr, ok := err.(*errors2.ClientError)
	require.True(t, ok, "expected a client error, got %v", err)
	assert.Equal(t, status, clientErr.StatusCode)
}

func int64Ptr(v int64) *int64 {
	return &v
}

// ---------------------------------------------------------------------------
// CreateAlert
// ---------------------------------------------------------------------------

func TestCreateAlert_DefaultsToPending(t *testing.T) {
	store := new(MockAlertStore)
	svc := &AlertService{store: store}

	store.
		On("Insert", mock.MatchedBy(func(a *model.Alert) bool {
			return a.Status == constants.AlertStatusPending
		})).
		Return(&model.Alert{ID: 1, PatientID: 5, Severity: model.SeverityWarning,
			Status: constants.AlertStatusPending}, nil)

	created, err := svc.CreateAlert(&model.Alert{
		PatientID: 5, Severity: model.SeverityWarning, Message: "Heart rate 130 bpm",
	})

	require.NoError(t, err)
	assert.Equal(t, constants.AlertStatusPending, created.Status)
	store.AssertExpectations(t)
}

func TestCreateAlert_Validation(t *testing.T) {
	svc := &AlertService{store: new(MockAlertStore)}

	_, err := svc.CreateAlert(&model.Alert{Severity: model.SeverityInfo, Message: "x"})
	requireStatus(t, err, http.StatusBadRequest)

	_, err = svc.CreateAlert(&model.Alert{PatientID: 5, Severity: model.SeverityInfo, Message: "  "})
	requireStatus(t, err, http.StatusBadRequest)

	_, err = svc.CreateAlert(&model.Alert{PatientID: 5, Severity: "panic", Message: "x"})
	requireStatus(t, err, http.StatusBadRequest)
}

// ---------------------------------------------------------------------------
// ListAlerts
// ---------------------------------------------------------------------------

func TestListAlerts_RejectsUnknownStatus(t *testing.T) {
	svc := &AlertService{store: new(MockAlertStore)}

	_, err := svc.ListAlerts("snoozed", 0, 1, 20)
	requireStatus(t, err, http.StatusBadRequest)
}

func TestListAlerts_PagesResults(t *testing.T) {
	store := new(MockAlertStore)
	svc := &AlertService{store: store}

	store.On("List", constants.AlertStatusPending, int64(5), 10, 10).
		Return([]model.Alert{{ID: 11}}, 21, nil)

	page, err := svc.ListAlerts(constants.AlertStatusPending, 5, 2, 10)

	require.NoError(t, err)
	assert.Equal(t, 21, page.Meta.Total)
	assert.Equal(t, 3, page.Meta.TotalPages)
}

// ---------------------------------------------------------------------------
// UpdateAlertStatus
// ---------------------------------------------------------------------------

func TestUpdateAlertStatus_ValidTransition(t *testing.T) {
	store := new(MockAlertStore)
	svc := &AlertService{store: store}

	pending := &model.Alert{ID: 1, PatientID: 5, Status: constants.AlertStatusPending}
	resolved := &model.Alert{ID: 1, PatientID: 5, Status: constants.AlertStatusInProgress}

	store.On("GetByID", int64(1)).Return(pending, nil).Once()
	store.On("UpdateStatus", int64(1), constants.AlertStatusInProgress, (*int64)(nil)).
		Return(int64(1), nil)
	store.On("GetByID", int64(1)).Return(resolved, nil).Once()

	updated, err := svc.UpdateAlertStatus(1, model.UpdateAlertStatusRequest{
		Status: constants.AlertStatusInProgress,
	})

	require.NoError(t, err)
	assert.Equal(t, constants.AlertStatusInProgress, updated.Status)
}

func TestUpdateAlertStatus_ResolvedIsTerminal(t *testing.T) {
	store := new(MockAlertStore)
	svc := &AlertService{store: store}

	store.On("GetByID", int64(1)).
		Return(&model.Alert{ID: 1, Status: constants.AlertStatusResolved}, nil)

	_, err := svc.UpdateAlertStatus(1, model.UpdateAlertStatusRequest{
		Status: constants.AlertStatusPending,
	})

	requireStatus(t, err, http.StatusBadRequest)
	store.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything)
}

func TestUpdateAlertStatus_SameStatusAllowsReassignment(t *testing.T) {
	store := new(MockAlertStore)
	svc := &AlertService{store: store}

	current := &model.Alert{ID: 1, Status: constants.AlertStatusInProgress, AssignedTo: int64Ptr(7)}

	store.On("GetByID", int64(1)).Return(current, nil).Once()
	store.On("UpdateStatus", int64(1), constants.AlertStatusInProgress, int64Ptr(8)).
		Return(int64(1), nil)
	store.On("GetByID", int64(1)).
		Return(&model.Alert{ID: 1, Status: constants.AlertStatusInProgress, AssignedTo: int64Ptr(8)}, nil).Once()

	updated, err := svc.UpdateAlertStatus(1, model.UpdateAlertStatusRequest{
		Status:     constants.AlertStatusInProgress,
		AssignedTo: int64Ptr(8),
	})

	require.NoError(t, err)
	assert.Equal(t, int64(8), *updated.AssignedTo)
}

func TestUpdateAlertStatus_NotFound(t *testing.T) {
	store := new(MockAlertStore)
	svc := &AlertService{store: store}

	store.On("GetByID", int64(99)).Return(nil, nil)

	_, err := svc.UpdateAlertStatus(99, model.UpdateAlertStatusRequest{
		Status: constants.AlertStatusResolved,
	})
	requireStatus(t, err, http.StatusNotFound)
}

func TestUpdateAlertStatus_UnknownStatus(t *testing.T) {
	svc := &AlertService{store: new(MockAlertStore)}

	_, err := svc.UpdateAlertStatus(1, model.UpdateAlertStatusRequest{Status: "archived"})
	requireStatus(t, err, http.StatusBadRequest)
}
