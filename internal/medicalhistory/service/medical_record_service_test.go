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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	accessModel "github.com/wso2/healthcare-records-service/internal/access/model"
	auditModel "github.com/wso2/healthcare-records-service/internal/audit/model"
	"github.com/wso2/healthcare-records-service/internal/medicalhistory/model"
	"github.com/wso2/healthcare-records-service/internal/system/authn"
	"github.com/wso2/healthcare-records-service/internal/system/constants"
	"github.com/wso2/healthcare-records-service/internal/system/log"
)

type MockMedicalHistoryStore struct {
	mock.Mock
}

func (m *MockMedicalHistoryStore) Insert(record *model.MedicalHistory) (*model.MedicalHistory, error) {
	args := m.Called(record)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.MedicalHistory), args.Error(1)
}

func (m *MockMedicalHistoryStore) GetByID(patientID, id int64) (*model.MedicalHistory, error) {
	args := m.Called(patientID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.MedicalHistory), args.Error(1)
}

func (m *MockMedicalHistoryStore) List(patientID int64, categories []string, sortBy, sortOrder string, limit, offset int) ([]model.MedicalHistory, int, error) {
	args := m.Called(patientID, categories, sortBy, sortOrder, limit, offset)
	return args.Get(0).([]model.MedicalHistory), args.Int(1), args.Error(2)
}

func (m *MockMedicalHistoryStore) Update(record *model.MedicalHistory) (int64, error) {
	args := m.Called(record)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockMedicalHistoryStore) Deactivate(patientID, id int64) (int64, error) {
	args := m.Called(patientID, id)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockMedicalHistoryStore) Delete(patientID, id int64) (int64, error) {
	args := m.Called(patientID, id)
	return args.Get(0).(int64), args.Error(1)
}

type MockAllergyStore struct {
	mock.Mock
}

func (m *MockAllergyStore) Insert(record *model.Allergy) (*model.Allergy, error) {
	args := m.Called(record)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Allergy), args.Error(1)
}

func (m *MockAllergyStore) List(patientID int64) ([]model.Allergy, error) {
	args := m.Called(patientID)
	return args.Get(0).([]model.Allergy), args.Error(1)
}

func (m *MockAllergyStore) Delete(patientID, id int64) (int64, error) {
	args := m.Called(patientID, id)
	return args.Get(0).(int64), args.Error(1)
}

type MockMedicationStore struct {
	mock.Mock
}

func (m *MockMedicationStore) Insert(record *model.Medication) (*model.Medication, error) {
	args := m.Called(record)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Medication), args.Error(1)
}

func (m *MockMedicationStore) List(patientID int64) ([]model.Medication, error) {
	args := m.Called(patientID)
	return args.Get(0).([]model.Medication), args.Error(1)
}

func (m *MockMedicationStore) Update(record *model.Medication) (int64, error) {
	args := m.Called(record)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockMedicationStore) Deactivate(patientID, id int64) (int64, error) {
	args := m.Called(patientID, id)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockMedicationStore) Delete(patientID, id int64) (int64, error) {
	args := m.Called(patientID, id)
	return args.Get(0).(int64), args.Error(1)
}

type MockFamilyHistoryStore struct {
	mock.Mock
}

func (m *MockFamilyHistoryStore) Insert(record *model.FamilyHistory) (*model.FamilyHistory, error) {
	args := m.Called(record)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.FamilyHistory), args.Error(1)
}

func (m *MockFamilyHistoryStore) List(patientID int64) ([]model.FamilyHistory, error) {
	args := m.Called(patientID)
	return args.Get(0).([]model.FamilyHistory), args.Error(1)
}

func (m *MockFamilyHistoryStore) Delete(patientID, id int64) (int64, error) {
	args := m.Called(patientID, id)
	return args.Get(0).(int64), args.Error(1)
}

type MockLifestyleStore struct {
	mock.Mock
}

func (m *MockLifestyleStore) Insert(record *model.Lifestyle) (*model.Lifestyle, error) {
	args := m.Called(record)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Lifestyle), args.Error(1)
}

func (m *MockLifestyleStore) List(patientID int64) ([]model.Lifestyle, error) {
	args := m.Called(patientID)
	return args.Get(0).([]model.Lifestyle), args.Error(1)
}

func (m *MockLifestyleStore) Delete(patientID, id int64) (int64, error) {
	args := m.Called(patientID, id)
	return args.Get(0).(int64), args.Error(1)
}

type MockAudit struct {
	mock.Mock
}

func (m *MockAudit) Record(event log.AuditEvent) {
	m.Called(event)
}

func (m *MockAudit) ListRecords(targetID, actionID string, limit int) ([]auditModel.AuditRecord, error) {
	args := m.Called(targetID, actionID, limit)
	return args.Get(0).([]auditModel.AuditRecord), args.Error(1)
}

type recordFixture struct {
	access      *MockAccessService
	history     *MockMedicalHistoryStore
	allergies   *MockAllergyStore
	medications *MockMedicationStore
	audit       *MockAudit
	service     *MedicalRecordService
}

func newRecordFixture() *recordFixture {
	f := &recordFixture{
		access:      new(MockAccessService),
		history:     new(MockMedicalHistoryStore),
		allergies:   new(MockAllergyStore),
		medications: new(MockMedicationStore),
		audit:       new(MockAudit),
	}
	f.service = &MedicalRecordService{
		history:       f.history,
		allergies:     f.allergies,
		medications:   f.medications,
		familyHistory: new(MockFamilyHistoryStore),
		lifestyle:     new(MockLifestyleStore),
		guard:         NewRecordGuard(f.access),
		audit:         f.audit,
	}
	return f
}

func physicalOnly() *accessModel.AccessGrant {
	return grantWith(accessModel.Permissions{constants.CategoryPhysical: true})
}

// ---------------------------------------------------------------------------
// AddMedicalHistory
// ---------------------------------------------------------------------------

func TestAddMedicalHistory_CoveredCategory(t *testing.T) {
	f := newRecordFixture()

	f.access.On("ResolveGrant", int64(5), int64(2)).Return(physicalOnly(), nil)
	f.history.
		On("Insert", mock.MatchedBy(func(r *model.MedicalHistory) bool {
			return r.PatientID == 5 && r.Category == constants.CategoryPhysical &&
				r.Status == "active" && r.CreatedBy == 2
		})).
		Return(&model.MedicalHistory{ID: 1, PatientID: 5, Category: constants.CategoryPhysical}, nil)
	f.audit.On("Record", mock.MatchedBy(func(e log.AuditEvent) bool {
		return e.ActionID == log.ActionAddMedicalRecord
	})).Return()

	record, err := f.service.AddMedicalHistory(staffActor(2), 5, model.MedicalHistoryRequest{
		Condition: "Hypertension",
		Category:  constants.CategoryPhysical,
	})

	require.NoError(t, err)
	assert.Equal(t, int64(1), record.ID)
	f.audit.AssertExpectations(t)
}

func TestAddMedicalHistory_UncoveredCategoryForbidden(t *testing.T) {
	f := newRecordFixture()

	f.access.On("ResolveGrant", int64(5), int64(2)).Return(physicalOnly(), nil)

	_, err := f.service.AddMedicalHistory(staffActor(2), 5, model.MedicalHistoryRequest{
		Condition: "Anxiety disorder",
		Category:  constants.CategoryMental,
	})

	requireStatus(t, err, http.StatusForbidden)
	f.history.AssertNotCalled(t, "Insert", mock.Anything)
}

func TestAddMedicalHistory_ValidationBeforeAuthorization(t *testing.T) {
	f := newRecordFixture()

	_, err := f.service.AddMedicalHistory(staffActor(2), 5, model.MedicalHistoryRequest{
		Category: constants.CategoryPhysical,
	})
	requireStatus(t, err, http.StatusBadRequest)

	_, err = f.service.AddMedicalHistory(staffActor(2), 5, model.MedicalHistoryRequest{
		Condition: "Hypertension",
		Category:  "dental",
	})
	requireStatus(t, err, http.StatusBadRequest)
	f.access.AssertNotCalled(t, "ResolveGrant", mock.Anything, mock.Anything)
}

// ---------------------------------------------------------------------------
// GetMedicalHistory
// ---------------------------------------------------------------------------

func TestGetMedicalHistory_CategoryFilteredOnRead(t *testing.T) {
	f := newRecordFixture()

	f.access.On("ResolveGrant", int64(5), int64(2)).Return(physicalOnly(), nil)
	f.history.On("GetByID", int64(5), int64(9)).
		Return(&model.MedicalHistory{ID: 9, PatientID: 5, Category: constants.CategoryMental}, nil)

	_, err := f.service.GetMedicalHistory(staffActor(2), 5, 9)
	requireStatus(t, err, http.StatusForbidden)
}

func TestGetMedicalHistory_NotFound(t *testing.T) {
	f := newRecordFixture()

	f.access.On("ResolveGrant", int64(5), int64(2)).Return(physicalOnly(), nil)
	f.history.On("GetByID", int64(5), int64(9)).Return(nil, nil)

	_, err := f.service.GetMedicalHistory(staffActor(2), 5, 9)
	requireStatus(t, err, http.StatusNotFound)
}

func TestGetMedicalHistory_SelfAccessUnfiltered(t *testing.T) {
	f := newRecordFixture()

	patient := &model.MedicalHistory{ID: 9, PatientID: 5, Category: constants.CategoryMental}
	f.history.On("GetByID", int64(5), int64(9)).Return(patient, nil)

	record, err := f.service.GetMedicalHistory(
		&authn.Actor{UserID: 5, Role: constants.RoleUser}, 5, 9)

	require.NoError(t, err)
	assert.Equal(t, int64(9), record.ID)
}

// ---------------------------------------------------------------------------
// ListMedicalHistory
// ---------------------------------------------------------------------------

func TestListMedicalHistory_ScopedToCoveredCategories(t *testing.T) {
	f := newRecordFixture()

	f.access.On("ResolveGrant", int64(5), int64(2)).Return(physicalOnly(), nil)
	f.history.On("List", int64(5), []string{constants.CategoryPhysical}, "created_at", "DESC", 20, 0).
		Return([]model.MedicalHistory{{ID: 1}}, 1, nil)

	page, err := f.service.ListMedicalHistory(staffActor(2), 5, model.MedicalHistoryQuery{
		Page: 1, Limit: 20, SortBy: "created_at", SortOrder: "DESC",
	})

	require.NoError(t, err)
	assert.Equal(t, 1, page.Meta.Total)
	f.history.AssertExpectations(t)
}

// ---------------------------------------------------------------------------
// UpdateMedicalHistory / DeleteMedicalHistory
// ---------------------------------------------------------------------------

func TestUpdateMedicalHistory_StoredCategoryMustBeCovered(t *testing.T) {
	f := newRecordFixture()

	f.access.On("ResolveGrant", int64(5), int64(2)).Return(physicalOnly(), nil)
	f.history.On("GetByID", int64(5), int64(9)).
		Return(&model.MedicalHistory{ID: 9, PatientID: 5, Category: constants.CategoryMental}, nil)

	_, err := f.service.UpdateMedicalHistory(staffActor(2), 5, 9, model.MedicalHistoryRequest{
		Condition: "Recovered",
		Category:  constants.CategoryPhysical,
	})

	requireStatus(t, err, http.StatusForbidden)
	f.history.AssertNotCalled(t, "Update", mock.Anything)
}

func TestUpdateMedicalHistory_KeepsStatusWhenOmitted(t *testing.T) {
	f := newRecordFixture()

	existing := &model.MedicalHistory{ID: 9, PatientID: 5, Category: constants.CategoryPhysical,
		Status: "chronic", CreatedBy: 3}

	f.access.On("ResolveGrant", int64(5), int64(2)).Return(physicalOnly(), nil)
	f.history.On("GetByID", int64(5), int64(9)).Return(existing, nil)
	f.history.
		On("Update", mock.MatchedBy(func(r *model.MedicalHistory) bool {
			return r.Status == "chronic" && r.CreatedBy == 3
		})).
		Return(int64(1), nil)
	f.audit.On("Record", mock.Anything).Return()

	_, err := f.service.UpdateMedicalHistory(staffActor(2), 5, 9, model.MedicalHistoryRequest{
		Condition: "Hypertension",
		Category:  constants.CategoryPhysical,
	})

	require.NoError(t, err)
	f.history.AssertExpectations(t)
}

func TestDeleteMedicalHistory_Audited(t *testing.T) {
	f := newRecordFixture()

	f.access.On("ResolveGrant", int64(5), int64(2)).Return(physicalOnly(), nil)
	f.history.On("GetByID", int64(5), int64(9)).
		Return(&model.MedicalHistory{ID: 9, PatientID: 5, Category: constants.CategoryPhysical}, nil)
	f.history.On("Delete", int64(5), int64(9)).Return(int64(1), nil)
	f.audit.On("Record", mock.MatchedBy(func(e log.AuditEvent) bool {
		return e.ActionID == log.ActionDeleteMedicalRecord
	})).Return()

	err := f.service.DeleteMedicalHistory(staffActor(2), 5, 9)

	require.NoError(t, err)
	f.audit.AssertExpectations(t)
}

func TestDeactivateMedicalHistory_SoftDeletes(t *testing.T) {
	f := newRecordFixture()

	f.access.On("ResolveGrant", int64(5), int64(2)).Return(physicalOnly(), nil)
	f.history.On("GetByID", int64(5), int64(9)).
		Return(&model.MedicalHistory{ID: 9, PatientID: 5, Category: constants.CategoryPhysical}, nil)
	f.history.On("Deactivate", int64(5), int64(9)).Return(int64(1), nil)
	f.audit.On("Record", mock.MatchedBy(func(e log.AuditEvent) bool {
		return e.ActionID == log.ActionUpdateMedicalRecord
	})).Return()

	err := f.service.DeactivateMedicalHistory(staffActor(2), 5, 9)

	require.NoError(t, err)
	f.history.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	f.audit.AssertExpectations(t)
}

func TestDeactivateMedicalHistory_UncoveredCategoryForbidden(t *testing.T) {
	f := newRecordFixture()

	f.access.On("ResolveGrant", int64(5), int64(2)).Return(physicalOnly(), nil)
	f.history.On("GetByID", int64(5), int64(9)).
		Return(&model.MedicalHistory{ID: 9, PatientID: 5, Category: constants.CategoryMental}, nil)

	err := f.service.DeactivateMedicalHistory(staffActor(2), 5, 9)

	requireStatus(t, err, http.StatusForbidden)
	f.history.AssertNotCalled(t, "Deactivate", mock.Anything, mock.Anything)
}

func TestDeactivateMedicalHistory_NotFound(t *testing.T) {
	f := newRecordFixture()

	f.access.On("ResolveGrant", int64(5), int64(2)).Return(physicalOnly(), nil)
	f.history.On("GetByID", int64(5), int64(9)).Return(nil, nil)

	err := f.service.DeactivateMedicalHistory(staffActor(2), 5, 9)
	requireStatus(t, err, http.StatusNotFound)
}

// ---------------------------------------------------------------------------
// Sub-records
// ---------------------------------------------------------------------------

func TestAddAllergy_RequiresAllergen(t *testing.T) {
	f := newRecordFixture()

	_, err := f.service.AddAllergy(staffActor(2), 5, model.AllergyRequest{})
	requireStatus(t, err, http.StatusBadRequest)
}

func TestAddAllergy_RequiresAnyAccess(t *testing.T) {
	f := newRecordFixture()

	f.access.On("ResolveGrant", int64(5), int64(2)).
		Return(grantWith(accessModel.Permissions{}), nil)

	_, err := f.service.AddAllergy(staffActor(2), 5, model.AllergyRequest{Allergen: "Penicillin"})
	requireStatus(t, err, http.StatusForbidden)
}

func TestDeactivateMedication_MarksInactive(t *testing.T) {
	f := newRecordFixture()

	f.access.On("ResolveGrant", int64(5), int64(2)).Return(physicalOnly(), nil)
	f.medications.On("Deactivate", int64(5), int64(3)).Return(int64(1), nil)
	f.audit.On("Record", mock.MatchedBy(func(e log.AuditEvent) bool {
		return e.ActionID == log.ActionUpdateMedicalRecord
	})).Return()

	err := f.service.DeactivateMedication(staffActor(2), 5, 3)

	require.NoError(t, err)
	f.medications.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	f.audit.AssertExpectations(t)
}

func TestDeactivateMedication_NotFound(t *testing.T) {
	f := newRecordFixture()

	f.access.On("ResolveGrant", int64(5), int64(2)).Return(physicalOnly(), nil)
	f.medications.On("Deactivate", int64(5), int64(3)).Return(int64(0), nil)

	err := f.service.DeactivateMedication(staffActor(2), 5, 3)
	requireStatus(t, err, http.StatusNotFound)
}
