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
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/wso2/healthcare-records-service/internal/appointment/model"
	"github.com/wso2/healthcare-records-service/internal/system/authn"
	"github.com/wso2/healthcare-records-service/internal/system/constants"
	errors2 "github.com/wso2/healthcare-records-service/internal/system/errors"
	"github.com/wso2/healthcare-records-service/internal/system/log"
)

func TestMain(m *testing.M) {
	_ = log.Init("ERROR")
	os.Exit(m.Run())
}

type MockAppointmentStore struct {
	mock.Mock
}

func (m *MockAppointmentStore) Insert(appointment *model.Appointment) (*model.Appointment, error) {
	args := m.Called(appointment)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Appointment), args.Error(1)
}

func (m *MockAppointmentStore) GetByID(id int64) (*model.Appointment, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Appointment), args.Error(1)
}

func (m *MockAppointmentStore) ListForUser(userID int64, limit, offset int) ([]model.Appointment, int, error) {
	args := m.Called(userID, limit, offset)
	return args.Get(0).([]model.Appointment), args.Int(1), args.Error(2)
}

func (m *MockAppointmentStore) CountConflicts(staffID int64, start, end time.Time) (int, error) {
	args := m.Called(staffID, start, end)
	return args.Int(0), args.Error(1)
}

func (m *MockAppointmentStore) UpdateStatus(id int64, status string) (int64, error) {
	args := m.Called(id, status)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockAppointmentStore) ListDueForReminder(from, to time.Time) ([]model.Appointment, error) {
	args := m.Called(from, to)
	return args.Get(0).([]model.Appointment), args.Error(1)
}

func (m *MockAppointmentStore) MarkReminderSent(id int64) (int64, error) {
	args := m.Called(id)
	return args.Get(0).(int64), args.Error(1)
}

func patientActor(id int64) *authn.Actor {
	return &authn.Actor{UserID: id, Role: constants.RoleUser}
}

func doctorActor(id int64) *authn.Actor {
	return &authn.Actor{UserID: id, Role: constants.RoleDoctor}
}

func requireStatus(t *testing.T, err error, status int) {
	t.Helper()
	clientErr, ok := err.(*errors2.ClientError)
	require.True(t, ok, "expected a client error, got %v", err)
	assert.Equal(t, status, clientErr.StatusCode)
}

// ---------------------------------------------------------------------------
// CreateAppointment
// ---------------------------------------------------------------------------

func TestCreateAppointment_PatientBooksOwnSlot(t *testing.T) {
	store := new(MockAppointmentStore)
	svc := &AppointmentService{store: store}

	slot := time.Now().Add(48 * time.Hour)
	store.On("CountConflicts", int64(2), mock.Anything, mock.Anything).Return(0, nil)
	store.
		On("Insert", mock.MatchedBy(func(a *model.Appointment) bool {
			return a.PatientID == 5 && a.StaffID == 2 &&
				a.Status == constants.AppointmentStatusRequested &&
				a.DurationMinutes == defaultDurationMinutes
		})).
		Return(&model.Appointment{ID: 1, PatientID: 5, StaffID: 2}, nil)

	// The patient id in the request is ignored for patient actors.
	created, err := svc.CreateAppointment(patientActor(5), model.CreateAppointmentRequest{
		PatientID:   99,
		StaffID:     2,
		ScheduledAt: slot,
	})

	require.NoError(t, err)
	assert.Equal(t, int64(1), created.ID)
	store.AssertExpectations(t)
}

func TestCreateAppointment_StaffBooksForPatient(t *testing.T) {
	store := new(MockAppointmentStore)
	svc := &AppointmentService{store: store}

	slot := time.Now().Add(24 * time.Hour)
	store.On("CountConflicts", int64(2), mock.Anything, mock.Anything).Return(0, nil)
	store.
		On("Insert", mock.MatchedBy(func(a *model.Appointment) bool {
			return a.PatientID == 5 && a.StaffID == 2 && a.DurationMinutes == 45
		})).
		Return(&model.Appointment{ID: 2, PatientID: 5, StaffID: 2}, nil)

	_, err := svc.CreateAppointment(doctorActor(2), model.CreateAppointmentRequest{
		PatientID:       5,
		ScheduledAt:     slot,
		DurationMinutes: 45,
	})

	require.NoError(t, err)
	store.AssertExpectations(t)
}

func TestCreateAppointment_ConflictingSlotRejected(t *testing.T) {
	store := new(MockAppointmentStore)
	svc := &AppointmentService{store: store}

	store.On("CountConflicts", int64(2), mock.Anything, mock.Anything).Return(1, nil)

	_, err := svc.CreateAppointment(patientActor(5), model.CreateAppointmentRequest{
		StaffID:     2,
		ScheduledAt: time.Now().Add(time.Hour),
	})

	requireStatus(t, err, http.StatusConflict)
	store.AssertNotCalled(t, "Insert", mock.Anything)
}

func TestCreateAppointment_Validation(t *testing.T) {
	svc := &AppointmentService{store: new(MockAppointmentStore)}

	_, err := svc.CreateAppointment(patientActor(5), model.CreateAppointmentRequest{
		ScheduledAt: time.Now().Add(time.Hour),
	})
	requireStatus(t, err, http.StatusBadRequest)

	_, err = svc.CreateAppointment(patientActor(5), model.CreateAppointmentRequest{
		StaffID:     5,
		ScheduledAt: time.Now().Add(time.Hour),
	})
	requireStatus(t, err, http.StatusBadRequest)

	_, err = svc.CreateAppointment(patientActor(5), model.CreateAppointmentRequest{
		StaffID:     2,
		ScheduledAt: time.Now().Add(-time.Hour),
	})
	requireStatus(t, err, http.StatusBadRequest)
}

// ---------------------------------------------------------------------------
// UpdateAppointmentStatus
// ---------------------------------------------------------------------------

func TestUpdateAppointmentStatus_StaffConfirms(t *testing.T) {
	store := new(MockAppointmentStore)
	svc := &AppointmentService{store: store}

	requested := &model.Appointment{ID: 1, PatientID: 5, StaffID: 2,
		Status: constants.AppointmentStatusRequested}
	confirmed := &model.Appointment{ID: 1, PatientID: 5, StaffID: 2,
		Status: constants.AppointmentStatusConfirmed}

	store.On("GetByID", int64(1)).Return(requested, nil).Once()
	store.On("UpdateStatus", int64(1), constants.AppointmentStatusConfirmed).Return(int64(1), nil)
	store.On("GetByID", int64(1)).Return(confirmed, nil).Once()

	updated, err := svc.UpdateAppointmentStatus(doctorActor(2), 1, model.UpdateAppointmentStatusRequest{
		Status: constants.AppointmentStatusConfirmed,
	})

	require.NoError(t, err)
	assert.Equal(t, constants.AppointmentStatusConfirmed, updated.Status)
}

func TestUpdateAppointmentStatus_PatientMayOnlyCancel(t *testing.T) {
	store := new(MockAppointmentStore)
	svc := &AppointmentService{store: store}

	requested := &model.Appointment{ID: 1, PatientID: 5, StaffID: 2,
		Status: constants.AppointmentStatusRequested}
	store.On("GetByID", int64(1)).Return(requested, nil)

	_, err := svc.UpdateAppointmentStatus(patientActor(5), 1, model.UpdateAppointmentStatusRequest{
		Status: constants.AppointmentStatusConfirmed,
	})
	requireStatus(t, err, http.StatusForbidden)

	store.On("UpdateStatus", int64(1), constants.AppointmentStatusCancelled).Return(int64(1), nil)

	_, err = svc.UpdateAppointmentStatus(patientActor(5), 1, model.UpdateAppointmentStatusRequest{
		Status: constants.AppointmentStatusCancelled,
	})
	assert.NoError(t, err)
}

func TestUpdateAppointmentStatus_OutsiderForbidden(t *testing.T) {
	store := new(MockAppointmentStore)
	svc := &AppointmentService{store: store}

	store.On("GetByID", int64(1)).
		Return(&model.Appointment{ID: 1, PatientID: 5, StaffID: 2,
			Status: constants.AppointmentStatusRequested}, nil)

	_, err := svc.UpdateAppointmentStatus(doctorActor(9), 1, model.UpdateAppointmentStatusRequest{
		Status: constants.AppointmentStatusConfirmed,
	})
	requireStatus(t, err, http.StatusForbidden)
}

func TestUpdateAppointmentStatus_TerminalStates(t *testing.T) {
	store := new(MockAppointmentStore)
	svc := &AppointmentService{store: store}

	store.On("GetByID", int64(1)).
		Return(&model.Appointment{ID: 1, PatientID: 5, StaffID: 2,
			Status: constants.AppointmentStatusCancelled}, nil)

	_, err := svc.UpdateAppointmentStatus(doctorActor(2), 1, model.UpdateAppointmentStatusRequest{
		Status: constants.AppointmentStatusConfirmed,
	})
	requireStatus(t, err, http.StatusBadRequest)
}

func TestUpdateAppointmentStatus_UnknownStatus(t *testing.T) {
	svc := &AppointmentService{store: new(MockAppointmentStore)}

	_, err := svc.UpdateAppointmentStatus(doctorActor(2), 1, model.UpdateAppointmentStatusRequest{
		Status: "postponed",
	})
	requireStatus(t, err, http.StatusBadRequest)
}

func TestUpdateAppointmentStatus_NotFound(t *testing.T) {
	store := new(MockAppointmentStore)
	svc := &AppointmentService{store: store}

	store.On("GetByID", int64(99)).Return(nil, nil)

	_, err := svc.UpdateAppointmentStatus(doctorActor(2), 99, model.UpdateAppointmentStatusRequest{
		Status: constants.AppointmentStatusCancelled,
	})
	requireStatus(t, err, http.StatusNotFound)
}

// ---------------------------------------------------------------------------
// ListAppointments
// ---------------------------------------------------------------------------

func TestListAppointments_OwnOnly(t *testing.T) {
	store := new(MockAppointmentStore)
	svc := &AppointmentService{store: store}

	store.On("ListForUser", int64(5), 20, 0).Return([]model.Appointment{{ID: 1}}, 1, nil)

	page, err := svc.ListAppointments(patientActor(5), 1, 20)

	require.NoError(t, err)
	assert.Equal(t, 1, page.Meta.Total)
	store.AssertExpectations(t)
}
