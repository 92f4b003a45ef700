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
	"strconv"
	"strings"

	accessService "github.com/wso2/healthcare-records-service/internal/access/service"
	auditService "github.com/wso2/healthcare-records-service/internal/audit/service"
	"github.com/wso2/healthcare-records-service/internal/clinicalnote/model"
	"github.com/wso2/healthcare-records-service/internal/clinicalnote/store"
	recordService "github.com/wso2/healthcare-records-service/internal/medicalhistory/service"
	"github.com/wso2/healthcare-records-service/internal/system/authn"
	"github.com/wso2/healthcare-records-service/internal/system/constants"
	errors2 "github.com/wso2/healthcare-records-service/internal/system/errors"
	"github.com/wso2/healthcare-records-service/internal/system/log"
	"github.com/wso2/healthcare-records-service/internal/system/pagination"
)

// ClinicalNoteServiceInterface defines operations on clinical notes.
type ClinicalNoteServiceInterface interface {
	AddClinicalNote(actor *authn.Actor, patientID int64, req model.ClinicalNoteRequest) (*model.ClinicalNote, error)
	ListClinicalNotes(actor *authn.Actor, patientID int64, page, limit int) (*pagination.Page, error)
}

// ClinicalNoteService runs note operations through the record guard.
type ClinicalNoteService struct {
	store store.ClinicalNoteStoreInterface
	guard *recordService.RecordGuard
	audit auditService.AuditServiceInterface
}

// GetClinicalNoteService returns a ClinicalNoteService backed by the
// default store and the live consent engine.
func GetClinicalNoteService() ClinicalNoteServiceInterface {
	return &ClinicalNoteService{
		store: &store.ClinicalNoteStore{},
		guard: recordService.NewRecordGuard(accessService.GetAccessService()),
		audit: auditService.GetAuditService(),
	}
}

// AddClinicalNote writes a note about the patient. Only staff author
// notes; patients read them.
func (s *ClinicalNoteService) AddClinicalNote(actor *authn.Actor, patientID int64, req model.ClinicalNoteRequest) (*model.ClinicalNote, error) {

	if actor.Role == constants.RoleUser {
		return nil, errors2.NewClientError(errors2.ErrorMessage{
			Code:        errors2.FORBIDDEN.Code,
			Message:     errors2.FORBIDDEN.Message,
			Description: "Only staff members can author clinical notes.",
		}, http.StatusForbidden)
	}
	if strings.TrimSpace(req.Content) == "" {
		return nil, errors2.NewClientError(errors2.ErrorMessage{
			Code:        errors2.BAD_REQUEST.Code,
			Message:     errors2.BAD_REQUEST.Message,
			Description: "Note content is required.",
		}, http.StatusBadRequest)
	}
	if _, err := s.guard.AuthorizeAny(actor, patientID); err != nil {
		return nil, err
	}

	created, err := s.store.Insert(&model.ClinicalNote{
		PatientID: patientID,
		AuthorID:  actor.UserID,
		Title:     req.Title,
		Content:   req.Content,
	})
	if err != nil {
		return nil, err
	}

	s.audit.Record(log.AuditEvent{
		InitiatorID:   strconv.FormatInt(actor.UserID, 10),
		InitiatorType: log.InitiatorTypeStaff,
		TargetID:      strconv.FormatInt(created.ID, 10),
		TargetType:    log.TargetTypeMedicalRecord,
		ActionID:      log.ActionAddMedicalRecord,
	})
	return created, nil
}

// ListClinicalNotes returns a page of the patient's notes.
func (s *ClinicalNoteService) ListClinicalNotes(actor *authn.Actor, patientID int64, page, limit int) (*pagination.Page, error) {

	if _, err := s.guard.AuthorizeAny(actor, patientID); err != nil {
		return nil, err
	}

	offset := (page - 1) * limit
	notes, total, err := s.store.List(patientID, limit, offset)
	if err != nil {
		return nil, err
	}
	return &pagination.Page{
		Items: notes,
		Meta:  pagination.NewMeta(total, page, limit),
	}, nil
}
