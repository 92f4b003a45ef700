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
	accessModel "github.com/wso2/healthcare-records-service/internal/access/model"
	auditModel "github.com/wso2/healthcare-records-service/internal/audit/model"
	"github.com/wso2/healthcare-records-service/internal/clinicalnote/model"
	recordService "github.com/wso2/healthcare-records-service/internal/medicalhistory/service"
	"github.com/wso2/healthcare-records-service/internal/system/authn"
	"github.com/wso2/healthcare-records-service/internal/system/config"
	"github.com/wso2/healthcare-records-service/internal/system/constants"
	errors2 "github.com/wso2/healthcare-records-service/internal/system/errors"
	"github.com/wso2/healthcare-records-service/internal/system/log"
)

func TestMain(m *testing.M) {
	_ = log.Init("ERROR")
	config.OverrideHRSRuntime(config.Config{})
	os.Exit(m.Run())
}

type MockClinicalNoteStore struct {
	mock.Mock
}

func (m *MockClinicalNoteStore) Insert(note *model.ClinicalNote) (*model.ClinicalNote, error) {
	args := m.Called(note)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ClinicalNote), args.Error(1)
}

func (m *MockClinicalNoteStore) List(patientID int64, limit, offset int) ([]model.ClinicalNote, int, error) {
	args := m.Called(patientID, limit, offset)
	return args.Get(0).([]model.ClinicalNote), args.Int(1), args.Error(2)
}

type MockAccessService struct {
	mock.Mock
}

func (m *MockAccessService) GrantAccess(patientID int64, req accessModel.GrantAccessRequest) (*accessModel.AccessGrant, error) {
	args := m.Called(patientID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*accessModel.AccessGrant), args.Error(1)
}

func (m *MockAccessService) RevokeAccess(patientID, staffID int64) (int64, error) {
	args := m.Called(patientID, staffID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockAccessService) CheckAccess(patientID, staffID int64) *accessModel.AccessStatus {
	args := m.Called(patientID, staffID)
	return args.Get(0).(*accessModel.AccessStatus)
}

func (m *MockAccessService) ResolveGrant(patientID, staffID int64) (*accessModel.AccessGrant, error) {
	args := m.Called(patientID, staffID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*accessModel.AccessGrant), args.Error(1)
}

type MockAuditService struct {
	mock.Mock
}

func (m *MockAuditService) Record(event log.AuditEvent) {
	m.Called(event)
}

func (m *MockAuditService) ListRecords(targetID, actionID string, limit int) ([]auditModel.AuditRecord, error) {
	args := m.Called(targetID, actionID, limit)
	return args.Get(0).([]auditModel.AuditRecord), args.Error(1)
}

func fullGrant() *accessModel.AccessGrant {
	expiry := time.Now().UTC().Add(time.Hour)
	return &accessModel.AccessGrant{
		ID: 1, PatientID: 5, StaffID: 2, IsActive: true,
		Permissions: accessModel.Permissions{
			constants.CategoryPhysical: true,
			constants.CategoryMental:   true,
		},
		ExpiresAt: &expiry,
	}
}

func TestAddClinicalNote_StaffWithGrant(t *testing.T) {
	store := new(MockClinicalNoteStore)
	access := new(MockAccessService)
	audit := new(MockAuditService)
	svc := &ClinicalNoteService{
		store: store,
		guard: recordService.NewRecordGuard(access),
		audit: audit,
	}

	access.On("ResolveGrant", int64(5), int64(2)).Return(fullGrant(), nil)
	store.
		On("Insert", mock.MatchedBy(func(n *model.ClinicalNote) bool {
			return n.PatientID == 5 && n.AuthorID == 2
		})).
		Return(&model.ClinicalNote{ID: 1, PatientID: 5, AuthorID: 2}, nil)
	audit.On("Record", mock.MatchedBy(func(e log.AuditEvent) bool {
		return e.ActionID == log.ActionAddMedicalRecord
	})).Return()

	note, err := svc.AddClinicalNote(
		&authn.Actor{UserID: 2, Role: constants.RoleDoctor}, 5,
		model.ClinicalNoteRequest{Title: "Follow-up", Content: "Patient responds well to treatment."})

	require.NoError(t, err)
	assert.Equal(t, int64(1), note.ID)
	audit.AssertExpectations(t)
}

func TestAddClinicalNote_PatientForbidden(t *testing.T) {
	svc := &ClinicalNoteService{
		store: new(MockClinicalNoteStore),
		guard: recordService.NewRecordGuard(new(MockAccessService)),
		audit: new(MockAuditService),
	}

	_, err := svc.AddClinicalNote(
		&authn.Actor{UserID: 5, Role: constants.RoleUser}, 5,
		model.ClinicalNoteRequest{Content: "My own note"})

	clientErr, ok := err.(*errors2.ClientError)
	require.True(t, ok)
	assert.Equal(t, http.StatusForbidden, clientErr.StatusCode)
}

func TestAddClinicalNote_BlankContentRejected(t *testing.T) {
	svc := &ClinicalNoteService{
		store: new(MockClinicalNoteStore),
		guard: recordService.NewRecordGuard(new(MockAccessService)),
		audit: new(MockAuditService),
	}

	_, err := svc.AddClinicalNote(
		&authn.Actor{UserID: 2, Role: constants.RoleNurse}, 5,
		model.ClinicalNoteRequest{Content: "   "})

	clientErr, ok := err.(*errors2.ClientError)
	require.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, clientErr.StatusCode)
}

func TestListClinicalNotes_PatientReadsOwn(t *testing.T) {
	store := new(MockClinicalNoteStore)
	svc := &ClinicalNoteService{
		store: store,
		guard: recordService.NewRecordGuard(new(MockAccessService)),
		audit: new(MockAuditService),
	}

	store.On("List", int64(5), 20, 0).Return([]model.ClinicalNote{{ID: 1}}, 1, nil)

	page, err := svc.ListClinicalNotes(&authn.Actor{UserID: 5, Role: constants.RoleUser}, 5, 1, 20)

	require.NoError(t, err)
	assert.Equal(t, 1, page.Meta.Total)
}

func TestListClinicalNotes_NoGrantForbidden(t *testing.T) {
	access := new(MockAccessService)
	svc := &ClinicalNoteService{
		store: new(MockClinicalNoteStore),
		guard: recordService.NewRecordGuard(access),
		audit: new(MockAuditService),
	}

	access.On("ResolveGrant", int64(5), int64(2)).Return(nil, nil)

	_, err := svc.ListClinicalNotes(&authn.Actor{UserID: 2, Role: constants.RoleDoctor}, 5, 1, 20)

	clientErr, ok := err.(*errors2.ClientError)
	require.True(t, ok)
	assert.Equal(t, http.StatusForbidden, clientErr.StatusCode)
}
