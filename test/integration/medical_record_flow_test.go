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

package integration

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	accessModel "github.com/wso2/healthcare-records-service/internal/access/model"
	accessService "github.com/wso2/healthcare-records-service/internal/access/service"
	recordModel "github.com/wso2/healthcare-records-service/internal/medicalhistory/model"
	recordService "github.com/wso2/healthcare-records-service/internal/medicalhistory/service"
	"github.com/wso2/healthcare-records-service/internal/system/authn"
	"github.com/wso2/healthcare-records-service/internal/system/constants"
	errors2 "github.com/wso2/healthcare-records-service/internal/system/errors"
)

func grantPhysicalOnly(t *testing.T, patientID, staffID int64) {
	t.Helper()
	_, err := accessService.GetAccessService().GrantAccess(patientID, accessModel.GrantAccessRequest{
		StaffID:     staffID,
		Pin:         testPin,
		Permissions: accessModel.Permissions{constants.CategoryPhysical: true},
	})
	require.NoError(t, err)
}

func TestCategoryScopedRecordAccess(t *testing.T) {
	patientID := createPatient(t)
	staffID := createStaff(t, constants.RoleDoctor)
	grantPhysicalOnly(t, patientID, staffID)

	doctor := &authn.Actor{UserID: staffID, Role: constants.RoleDoctor}
	patient := &authn.Actor{UserID: patientID, Role: constants.RoleUser}
	svc := recordService.GetMedicalRecordService()

	// The doctor may write physical records.
	created, err := svc.AddMedicalHistory(doctor, patientID, recordModel.MedicalHistoryRequest{
		Condition: "Hypertension",
		Category:  constants.CategoryPhysical,
	})
	require.NoError(t, err)
	assert.Equal(t, staffID, created.CreatedBy)

	// Mental records stay out of reach for this grant.
	_, err = svc.AddMedicalHistory(doctor, patientID, recordModel.MedicalHistoryRequest{
		Condition: "Anxiety disorder",
		Category:  constants.CategoryMental,
	})
	require.Error(t, err)
	clientErr, ok := err.(*errors2.ClientError)
	require.True(t, ok)
	assert.Equal(t, errors2.CATEGORY_FORBIDDEN.Code, clientErr.ErrorMessage.Code)

	// The patient can record their own mental history.
	mental, err := svc.AddMedicalHistory(patient, patientID, recordModel.MedicalHistoryRequest{
		Condition: "Anxiety disorder",
		Category:  constants.CategoryMental,
	})
	require.NoError(t, err)

	// The doctor's listing silently excludes the mental category.
	page, err := svc.ListMedicalHistory(doctor, patientID, recordModel.MedicalHistoryQuery{
		Page: 1, Limit: 50, SortBy: "created_at", SortOrder: "DESC",
	})
	require.NoError(t, err)
	records, ok := page.Items.([]recordModel.MedicalHistory)
	require.True(t, ok)
	for _, record := range records {
		assert.Equal(t, constants.CategoryPhysical, record.Category)
	}

	// Reading the mental record directly is refused too.
	_, err = svc.GetMedicalHistory(doctor, patientID, mental.ID)
	require.Error(t, err)

	// The patient sees everything.
	page, err = svc.ListMedicalHistory(patient, patientID, recordModel.MedicalHistoryQuery{
		Page: 1, Limit: 50, SortBy: "created_at", SortOrder: "DESC",
	})
	require.NoError(t, err)
	assert.Equal(t, 2, page.Meta.Total)
}

func TestNoGrantMeansNoAccess(t *testing.T) {
	patientID := createPatient(t)
	strangerID := createStaff(t, constants.RoleDoctor)

	stranger := &authn.Actor{UserID: strangerID, Role: constants.RoleDoctor}

	_, err := recordService.GetMedicalRecordService().ListMedicalHistory(stranger, patientID,
		recordModel.MedicalHistoryQuery{Page: 1, Limit: 20, SortBy: "created_at", SortOrder: "DESC"})

	require.Error(t, err)
	clientErr, ok := err.(*errors2.ClientError)
	require.True(t, ok)
	assert.Equal(t, errors2.FORBIDDEN.Code, clientErr.ErrorMessage.Code)
}

func TestRevokedGrantCutsAccessImmediately(t *testing.T) {
	patientID := createPatient(t)
	staffID := createStaff(t, constants.RoleNurse)
	grantPhysicalOnly(t, patientID, staffID)

	nurse := &authn.Actor{UserID: staffID, Role: constants.RoleNurse}
	svc := recordService.GetMedicalRecordService()

	_, err := svc.ListAllergies(nurse, patientID)
	require.NoError(t, err)

	_, err = accessService.GetAccessService().RevokeAccess(patientID, staffID)
	require.NoError(t, err)

	_, err = svc.ListAllergies(nurse, patientID)
	require.Error(t, err)
}

func TestFullHistoryAggregatesRecordGroups(t *testing.T) {
	patientID := createPatient(t)
	patient := &authn.Actor{UserID: patientID, Role: constants.RoleUser}
	svc := recordService.GetMedicalRecordService()

	_, err := svc.AddMedicalHistory(patient, patientID, recordModel.MedicalHistoryRequest{
		Condition: "Asthma",
		Category:  constants.CategoryPhysical,
	})
	require.NoError(t, err)

	_, err = svc.AddAllergy(patient, patientID, recordModel.AllergyRequest{
		Allergen: "Penicillin",
		Severity: "severe",
	})
	require.NoError(t, err)

	full, err := svc.GetFullHistory(patient, patientID)
	require.NoError(t, err)
	assert.Len(t, full.MedicalHistory, 1)
	assert.Len(t, full.Allergies, 1)
	assert.Empty(t, full.Medications)
}

func TestDeactivatedRecordDropsFromListing(t *testing.T) {
	patientID := createPatient(t)
	patient := &authn.Actor{UserID: patientID, Role: constants.RoleUser}
	svc := recordService.GetMedicalRecordService()

	kept, err := svc.AddMedicalHistory(patient, patientID, recordModel.MedicalHistoryRequest{
		Condition: "Hypertension",
		Category:  constants.CategoryPhysical,
	})
	require.NoError(t, err)
	retired, err := svc.AddMedicalHistory(patient, patientID, recordModel.MedicalHistoryRequest{
		Condition: "Sprained ankle",
		Category:  constants.CategoryPhysical,
	})
	require.NoError(t, err)

	require.NoError(t, svc.DeactivateMedicalHistory(patient, patientID, retired.ID))

	page, err := svc.ListMedicalHistory(patient, patientID, recordModel.MedicalHistoryQuery{
		Page: 1, Limit: 50, SortBy: "created_at", SortOrder: "DESC",
	})
	require.NoError(t, err)
	require.Equal(t, 1, page.Meta.Total)
	records, ok := page.Items.([]recordModel.MedicalHistory)
	require.True(t, ok)
	assert.Equal(t, kept.ID, records[0].ID)

	// The row survives and stays readable by id.
	record, err := svc.GetMedicalHistory(patient, patientID, retired.ID)
	require.NoError(t, err)
	assert.False(t, record.IsActive)
}
