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
	"strconv"

	accessService "github.com/wso2/healthcare-records-service/internal/access/service"
	auditService "github.com/wso2/healthcare-records-service/internal/audit/service"
	"github.com/wso2/healthcare-records-service/internal/medicalhistory/model"
	"github.com/wso2/healthcare-records-service/internal/medicalhistory/store"
	"github.com/wso2/healthcare-records-service/internal/system/authn"
	"github.com/wso2/healthcare-records-service/internal/system/constants"
	errors2 "github.com/wso2/healthcare-records-service/internal/system/errors"
	"github.com/wso2/healthcare-records-service/internal/system/log"
	"github.com/wso2/healthcare-records-service/internal/system/pagination"
)

const historyStatusDefault = "active"

type MedicalRecordServiceInterface interface {
	AddMedicalHistory(actor *authn.Actor, patientID int64, req model.MedicalHistoryRequest) (*model.MedicalHistory, error)
	GetMedicalHistory(actor *authn.Actor, patientID, id int64) (*model.MedicalHistory, error)
	ListMedicalHistory(actor *authn.Actor, patientID int64, query model.MedicalHistoryQuery) (*pagination.Page, error)
	UpdateMedicalHistory(actor *authn.Actor, patientID, id int64, req model.MedicalHistoryRequest) (*model.MedicalHistory, error)
	DeactivateMedicalHistory(actor *authn.Actor, patientID, id int64) error
	DeleteMedicalHistory(actor *authn.Actor, patientID, id int64) error

	AddAllergy(actor *authn.Actor, patientID int64, req model.AllergyRequest) (*model.Allergy, error)
	ListAllergies(actor *authn.Actor, patientID int64) ([]model.Allergy, error)
	DeleteAllergy(actor *authn.Actor, patientID, id int64) error

	AddMedication(actor *authn.Actor, patientID int64, req model.MedicationRequest) (*model.Medication, error)
	ListMedications(actor *authn.Actor, patientID int64) ([]model.Medication, error)
	UpdateMedication(actor *authn.Actor, patientID, id int64, req model.MedicationRequest) error
	DeactivateMedication(actor *authn.Actor, patientID, id int64) error
	DeleteMedication(actor *authn.Actor, patientID, id int64) error

	AddFamilyHistory(actor *authn.Actor, patientID int64, req model.FamilyHistoryRequest) (*model.FamilyHistory, error)
	ListFamilyHistory(actor *authn.Actor, patientID int64) ([]model.FamilyHistory, error)
	DeleteFamilyHistory(actor *authn.Actor, patientID, id int64) error

	AddLifestyle(actor *authn.Actor, patientID int64, req model.LifestyleRequest) (*model.Lifestyle, error)
	ListLifestyle(actor *authn.Actor, patientID int64) ([]model.Lifestyle, error)
	DeleteLifestyle(actor *authn.Actor, patientID, id int64) error

	GetFullHistory(actor *authn.Actor, patientID int64) (*model.FullHistory, error)
}

// MedicalRecordService owns every patient record group and runs each
// operation through the record guard first.
type MedicalRecordService struct {
	history       store.MedicalHistoryStoreInterface
	allergies     store.AllergyStoreInterface
	medications   store.MedicationStoreInterface
	familyHistory store.FamilyHistoryStoreInterface
	lifestyle     store.LifestyleStoreInterface
	guard         *RecordGuard
	audit         auditService.AuditServiceInterface
}

// GetMedicalRecordService returns a record service with the Postgres stores
// and the live consent engine injected.
func GetMedicalRecordService() MedicalRecordServiceInterface {
	return &MedicalRecordService{
		history:       &store.MedicalHistoryStore{},
		allergies:     &store.AllergyStore{},
		medications:   &store.MedicationStore{},
		familyHistory: &store.FamilyHistoryStore{},
		lifestyle:     &store.LifestyleStore{},
		guard:         NewRecordGuard(accessService.GetAccessService()),
		audit:         auditService.GetAuditService(),
	}
}

// AddMedicalHistory creates a medical history record. The actor needs the
// record's category covered.
func (s *MedicalRecordService) AddMedicalHistory(actor *authn.Actor, patientID int64, req model.MedicalHistoryRequest) (*model.MedicalHistory, error) {

	if err := validateHistoryRequest(req); err != nil {
		return nil, err
	}
	if _, err := s.guard.AuthorizeForCategory(actor, patientID, req.Category); err != nil {
		return nil, err
	}

	status := req.Status
	if status == "" {
		status = historyStatusDefault
	}

	created, err := s.history.Insert(&model.MedicalHistory{
		PatientID:   patientID,
		Condition:   req.Condition,
		Category:    req.Category,
		DiagnosedAt: req.DiagnosedAt,
		Status:      status,
		Notes:       req.Notes,
		CreatedBy:   actor.UserID,
	})
	if err != nil {
		return nil, err
	}

	s.auditRecordAction(actor, created.ID, log.ActionAddMedicalRecord)
	return created, nil
}

// GetMedicalHistory fetches one record. The actor needs an access path to
// the patient and the record's category covered.
func (s *MedicalRecordService) GetMedicalHistory(actor *authn.Actor, patientID, id int64) (*model.MedicalHistory, error) {

	permissions, err := s.guard.AuthorizeAny(actor, patientID)
	if err != nil {
		return nil, err
	}

	record, err := s.history.GetByID(patientID, id)
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, historyNotFound(id)
	}
	if !permissions.Allows(record.Category) {
		return nil, categoryForbidden(fmt.Sprintf("The grant does not cover %s records.", record.Category))
	}
	return record, nil
}

// ListMedicalHistory returns a page of records restricted to the categories
// the actor may see.
func (s *MedicalRecordService) ListMedicalHistory(actor *authn.Actor, patientID int64, query model.MedicalHistoryQuery) (*pagination.Page, error) {

	permissions, err := s.guard.ResolvePermissions(actor, patientID)
	if err != nil {
		return nil, err
	}
	allowed, err := AllowedCategories(permissions, query.Categories)
	if err != nil {
		return nil, err
	}

	offset := (query.Page - 1) * query.Limit
	records, total, err := s.history.List(patientID, allowed, query.SortBy, query.SortOrder, query.Limit, offset)
	if err != nil {
		return nil, err
	}
	return &pagination.Page{
		Items: records,
		Meta:  pagination.NewMeta(total, query.Page, query.Limit),
	}, nil
}

// UpdateMedicalHistory rewrites a record. Both the stored category and the
// requested one must be covered.
func (s *MedicalRecordService) UpdateMedicalHistory(actor *authn.Actor, patientID, id int64, req model.MedicalHistoryRequest) (*model.MedicalHistory, error) {

	if err := validateHistoryRequest(req); err != nil {
		return nil, err
	}

	permissions, err := s.guard.AuthorizeAny(actor, patientID)
	if err != nil {
		return nil, err
	}

	existing, err := s.history.GetByID(patientID, id)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, historyNotFound(id)
	}
	if !permissions.Allows(existing.Category) {
		return nil, categoryForbidden(fmt.Sprintf("The grant does not cover %s records.", existing.Category))
	}
	if !permissions.Allows(req.Category) {
		return nil, categoryForbidden(fmt.Sprintf("The grant does not cover %s records.", req.Category))
	}

	status := req.Status
	if status == "" {
		status = existing.Status
	}

	updated := &model.MedicalHistory{
		ID:          id,
		PatientID:   patientID,
		Condition:   req.Condition,
		Category:    req.Category,
		DiagnosedAt: req.DiagnosedAt,
		Status:      status,
		Notes:       req.Notes,
		CreatedBy:   existing.CreatedBy,
	}
	affected, err := s.history.Update(updated)
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		return nil, historyNotFound(id)
	}

	s.auditRecordAction(actor, id, log.ActionUpdateMedicalRecord)
	return s.history.GetByID(patientID, id)
}

// DeactivateMedicalHistory soft-deletes a record: it stays in the table
// with its active flag cleared and drops out of listings. The actor needs
// the record's category covered, as for a hard delete.
func (s *MedicalRecordService) DeactivateMedicalHistory(actor *authn.Actor, patientID, id int64) error {

	permissions, err := s.guard.AuthorizeAny(actor, patientID)
	if err != nil {
		return err
	}

	existing, err := s.history.GetByID(patientID, id)
	if err != nil {
		return err
	}
	if existing == nil {
		return historyNotFound(id)
	}
	if !permissions.Allows(existing.Category) {
		return categoryForbidden(fmt.Sprintf("The grant does not cover %s records.", existing.Category))
	}

	affected, err := s.history.Deactivate(patientID, id)
	if err != nil {
		return err
	}
	if affected == 0 {
		return historyNotFound(id)
	}

	s.auditRecordAction(actor, id, log.ActionUpdateMedicalRecord)
	return nil
}

// DeleteMedicalHistory removes a record after the category check.
func (s *MedicalRecordService) DeleteMedicalHistory(actor *authn.Actor, patientID, id int64) error {

	permissions, err := s.guard.AuthorizeAny(actor, patientID)
	if err != nil {
		return err
	}

	existing, err := s.history.GetByID(patientID, id)
	if err != nil {
		return err
	}
	if existing == nil {
		return historyNotFound(id)
	}
	if !permissions.Allows(existing.Category) {
		return categoryForbidden(fmt.Sprintf("The grant does not cover %s records.", existing.Category))
	}

	affected, err := s.history.Delete(patientID, id)
	if err != nil {
		return err
	}
	if affected == 0 {
		return historyNotFound(id)
	}

	s.auditRecordAction(actor, id, log.ActionDeleteMedicalRecord)
	return nil
}

// AddAllergy records an allergy. Allergies carry no category.
func (s *MedicalRecordService) AddAllergy(actor *authn.Actor, patientID int64, req model.AllergyRequest) (*model.Allergy, error) {

	if req.Allergen == "" {
		return nil, validationError("An allergen is required.")
	}
	if _, err := s.guard.AuthorizeAny(actor, patientID); err != nil {
		return nil, err
	}

	created, err := s.allergies.Insert(&model.Allergy{
		PatientID:  patientID,
		Allergen:   req.Allergen,
		Reaction:   req.Reaction,
		Severity:   req.Severity,
		RecordedBy: actor.UserID,
	})
	if err != nil {
		return nil, err
	}
	s.auditRecordAction(actor, created.ID, log.ActionAddMedicalRecord)
	return created, nil
}

// ListAllergies returns every allergy of the patient.
func (s *MedicalRecordService) ListAllergies(actor *authn.Actor, patientID int64) ([]model.Allergy, error) {

	if _, err := s.guard.AuthorizeAny(actor, patientID); err != nil {
		return nil, err
	}
	return s.allergies.List(patientID)
}

// DeleteAllergy removes an allergy entry.
func (s *MedicalRecordService) DeleteAllergy(actor *authn.Actor, patientID, id int64) error {

	if _, err := s.guard.AuthorizeAny(actor, patientID); err != nil {
		return err
	}
	affected, err := s.allergies.Delete(patientID, id)
	if err != nil {
		return err
	}
	if affected == 0 {
		return notFound(errors2.ALLERGY_NOT_FOUND, id)
	}
	s.auditRecordAction(actor, id, log.ActionDeleteMedicalRecord)
	return nil
}

// AddMedication records a medication entry.
func (s *MedicalRecordService) AddMedication(actor *authn.Actor, patientID int64, req model.MedicationRequest) (*model.Medication, error) {

	if req.Name == "" {
		return nil, validationError("A medication name is required.")
	}
	if _, err := s.guard.AuthorizeAny(actor, patientID); err != nil {
		return nil, err
	}

	isActive := true
	if req.IsActive != nil {
		isActive = *req.IsActive
	}

	created, err := s.medications.Insert(&model.Medication{
		PatientID:    patientID,
		Name:         req.Name,
		Dosage:       req.Dosage,
		Frequency:    req.Frequency,
		StartDate:    req.StartDate,
		EndDate:      req.EndDate,
		IsActive:     isActive,
		PrescribedBy: actor.UserID,
	})
	if err != nil {
		return nil, err
	}
	s.auditRecordAction(actor, created.ID, log.ActionAddMedicalRecord)
	return created, nil
}

// ListMedications returns every medication of the patient.
func (s *MedicalRecordService) ListMedications(actor *authn.Actor, patientID int64) ([]model.Medication, error) {

	if _, err := s.guard.AuthorizeAny(actor, patientID); err != nil {
		return nil, err
	}
	return s.medications.List(patientID)
}

// UpdateMedication rewrites a medication entry.
func (s *MedicalRecordService) UpdateMedication(actor *authn.Actor, patientID, id int64, req model.MedicationRequest) error {

	if req.Name == "" {
		return validationError("A medication name is required.")
	}
	if _, err := s.guard.AuthorizeAny(actor, patientID); err != nil {
		return err
	}

	isActive := true
	if req.IsActive != nil {
		isActive = *req.IsActive
	}

	affected, err := s.medications.Update(&model.Medication{
		ID:        id,
		PatientID: patientID,
		Name:      req.Name,
		Dosage:    req.Dosage,
		Frequency: req.Frequency,
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
		IsActive:  isActive,
	})
	if err != nil {
		return err
	}
	if affected == 0 {
		return notFound(errors2.MEDICATION_NOT_FOUND, id)
	}
	s.auditRecordAction(actor, id, log.ActionUpdateMedicalRecord)
	return nil
}

// DeactivateMedication marks a medication as no longer taken without
// removing its row.
func (s *MedicalRecordService) DeactivateMedication(actor *authn.Actor, patientID, id int64) error {

	if _, err := s.guard.AuthorizeAny(actor, patientID); err != nil {
		return err
	}
	affected, err := s.medications.Deactivate(patientID, id)
	if err != nil {
		return err
	}
	if affected == 0 {
		return notFound(errors2.MEDICATION_NOT_FOUND, id)
	}
	s.auditRecordAction(actor, id, log.ActionUpdateMedicalRecord)
	return nil
}

// DeleteMedication removes a medication entry.
func (s *MedicalRecordService) DeleteMedication(actor *authn.Actor, patientID, id int64) error {

	if _, err := s.guard.AuthorizeAny(actor, patientID); err != nil {
		return err
	}
	affected, err := s.medications.Delete(patientID, id)
	if err != nil {
		return err
	}
	if affected == 0 {
		return notFound(errors2.MEDICATION_NOT_FOUND, id)
	}
	s.auditRecordAction(actor, id, log.ActionDeleteMedicalRecord)
	return nil
}

// AddFamilyHistory records a family history entry.
func (s *MedicalRecordService) AddFamilyHistory(actor *authn.Actor, patientID int64, req model.FamilyHistoryRequest) (*model.FamilyHistory, error) {

	if req.Relation == "" || req.Condition == "" {
		return nil, validationError("Relation and condition are required.")
	}
	if _, err := s.guard.AuthorizeAny(actor, patientID); err != nil {
		return nil, err
	}

	created, err := s.familyHistory.Insert(&model.FamilyHistory{
		PatientID:  patientID,
		Relation:   req.Relation,
		Condition:  req.Condition,
		Notes:      req.Notes,
		RecordedBy: actor.UserID,
	})
	if err != nil {
		return nil, err
	}
	s.auditRecordAction(actor, created.ID, log.ActionAddMedicalRecord)
	return created, nil
}

// ListFamilyHistory returns every family history entry of the patient.
func (s *MedicalRecordService) ListFamilyHistory(actor *authn.Actor, patientID int64) ([]model.FamilyHistory, error) {

	if _, err := s.guard.AuthorizeAny(actor, patientID); err != nil {
		return nil, err
	}
	return s.familyHistory.List(patientID)
}

// DeleteFamilyHistory removes a family history entry.
func (s *MedicalRecordService) DeleteFamilyHistory(actor *authn.Actor, patientID, id int64) error {

	if _, err := s.guard.AuthorizeAny(actor, patientID); err != nil {
		return err
	}
	affected, err := s.familyHistory.Delete(patientID, id)
	if err != nil {
		return err
	}
	if affected == 0 {
		return notFound(errors2.FAMILY_HISTORY_NOT_FOUND, id)
	}
	s.auditRecordAction(actor, id, log.ActionDeleteMedicalRecord)
	return nil
}

// AddLifestyle records a lifestyle entry.
func (s *MedicalRecordService) AddLifestyle(actor *authn.Actor, patientID int64, req model.LifestyleRequest) (*model.Lifestyle, error) {

	if req.Habit == "" {
		return nil, validationError("A habit is required.")
	}
	if _, err := s.guard.AuthorizeAny(actor, patientID); err != nil {
		return nil, err
	}

	created, err := s.lifestyle.Insert(&model.Lifestyle{
		PatientID:  patientID,
		Habit:      req.Habit,
		Frequency:  req.Frequency,
		Notes:      req.Notes,
		RecordedBy: actor.UserID,
	})
	if err != nil {
		return nil, err
	}
	s.auditRecordAction(actor, created.ID, log.ActionAddMedicalRecord)
	return created, nil
}

// ListLifestyle returns every lifestyle entry of the patient.
func (s *MedicalRecordService) ListLifestyle(actor *authn.Actor, patientID int64) ([]model.Lifestyle, error) {

	if _, err := s.guard.AuthorizeAny(actor, patientID); err != nil {
		return nil, err
	}
	return s.lifestyle.List(patientID)
}

// DeleteLifestyle removes a lifestyle entry.
func (s *MedicalRecordService) DeleteLifestyle(actor *authn.Actor, patientID, id int64) error {

	if _, err := s.guard.AuthorizeAny(actor, patientID); err != nil {
		return err
	}
	affected, err := s.lifestyle.Delete(patientID, id)
	if err != nil {
		return err
	}
	if affected == 0 {
		return notFound(errors2.LIFESTYLE_NOT_FOUND, id)
	}
	s.auditRecordAction(actor, id, log.ActionDeleteMedicalRecord)
	return nil
}

// GetFullHistory assembles the composite record view, with the medical
// history part restricted to the categories the actor may see.
func (s *MedicalRecordService) GetFullHistory(actor *authn.Actor, patientID int64) (*model.FullHistory, error) {

	permissions, err := s.guard.AuthorizeAny(actor, patientID)
	if err != nil {
		return nil, err
	}
	allowed, err := AllowedCategories(permissions, nil)
	if err != nil {
		return nil, err
	}

	history, _, err := s.history.List(patientID, allowed, "created_at", "DESC", 1000, 0)
	if err != nil {
		return nil, err
	}
	allergies, err := s.allergies.List(patientID)
	if err != nil {
		return nil, err
	}
	medications, err := s.medications.List(patientID)
	if err != nil {
		return nil, err
	}
	familyHistory, err := s.familyHistory.List(patientID)
	if err != nil {
		return nil, err
	}
	lifestyle, err := s.lifestyle.List(patientID)
	if err != nil {
		return nil, err
	}

	return &model.FullHistory{
		MedicalHistory: history,
		Allergies:      allergies,
		Medications:    medications,
		FamilyHistory:  familyHistory,
		Lifestyle:      lifestyle,
	}, nil
}

func (s *MedicalRecordService) auditRecordAction(actor *authn.Actor, recordID int64, actionID string) {

	initiatorType := log.InitiatorTypeStaff
	if actor.Role == constants.RoleUser {
		initiatorType = log.InitiatorTypePatient
	}
	s.audit.Record(log.AuditEvent{
		InitiatorID:   strconv.FormatInt(actor.UserID, 10),
		InitiatorType: initiatorType,
		TargetID:      strconv.FormatInt(recordID, 10),
		TargetType:    log.TargetTypeMedicalRecord,
		ActionID:      actionID,
	})
}

func validateHistoryRequest(req model.MedicalHistoryRequest) error {

	if req.Condition == "" {
		return errors2.NewClientError(errors2.ErrorMessage{
			Code:        errors2.MEDICAL_HISTORY_VALIDATION.Code,
			Message:     errors2.MEDICAL_HISTORY_VALIDATION.Message,
			Description: "A condition is required.",
		}, http.StatusBadRequest)
	}
	if !constants.ValidCategories[req.Category] {
		return errors2.NewClientError(errors2.ErrorMessage{
			Code:        errors2.MEDICAL_HISTORY_VALIDATION.Code,
			Message:     errors2.MEDICAL_HISTORY_VALIDATION.Message,
			Description: fmt.Sprintf("Category must be one of: %s, %s", constants.CategoryPhysical, constants.CategoryMental),
		}, http.StatusBadRequest)
	}
	return nil
}

func validationError(description string) error {
	return errors2.NewClientError(errors2.ErrorMessage{
		Code:        errors2.MEDICAL_HISTORY_VALIDATION.Code,
		Message:     errors2.MEDICAL_HISTORY_VALIDATION.Message,
		Description: description,
	}, http.StatusBadRequest)
}

func historyNotFound(id int64) error {
	return errors2.NewClientError(errors2.ErrorMessage{
		Code:        errors2.MEDICAL_HISTORY_NOT_FOUND.Code,
		Message:     errors2.MEDICAL_HISTORY_NOT_FOUND.Message,
		Description: fmt.Sprintf("No medical history record found for id: %d", id),
	}, http.StatusNotFound)
}

func notFound(message errors2.ErrorMessage, id int64) error {
	return errors2.NewClientError(errors2.ErrorMessage{
		Code:        message.Code,
		Message:     message.Message,
		Description: fmt.Sprintf("No record found for id: %d", id),
	}, http.StatusNotFound)
}
