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

	"github.com/google/uuid"
	accessService "github.com/wso2/healthcare-records-service/internal/access/service"
	"github.com/wso2/healthcare-records-service/internal/attachment/model"
	"github.com/wso2/healthcare-records-service/internal/attachment/store"
	recordService "github.com/wso2/healthcare-records-service/internal/medicalhistory/service"
	"github.com/wso2/healthcare-records-service/internal/system/authn"
	errors2 "github.com/wso2/healthcare-records-service/internal/system/errors"
)

// AttachmentServiceInterface defines operations on attachment metadata.
type AttachmentServiceInterface interface {
	AddAttachment(actor *authn.Actor, patientID int64, req model.AttachmentRequest) (*model.Attachment, error)
	GetAttachment(actor *authn.Actor, patientID, id int64) (*model.Attachment, error)
	ListAttachments(actor *authn.Actor, patientID int64) ([]model.Attachment, error)
	DeleteAttachment(actor *authn.Actor, patientID, id int64) error
}

// AttachmentService runs attachment operations through the record guard.
type AttachmentService struct {
	store store.AttachmentStoreInterface
	guard *recordService.RecordGuard
}

// GetAttachmentService returns an AttachmentService backed by the default
// store and the live consent engine.
func GetAttachmentService() AttachmentServiceInterface {
	return &AttachmentService{
		store: &store.AttachmentStore{},
		guard: recordService.NewRecordGuard(accessService.GetAccessService()),
	}
}

// AddAttachment registers an attachment and mints its storage key.
func (s *AttachmentService) AddAttachment(actor *authn.Actor, patientID int64, req model.AttachmentRequest) (*model.Attachment, error) {

	if strings.TrimSpace(req.FileName) == "" {
		return nil, errors2.NewClientError(errors2.ErrorMessage{
			Code:        errors2.BAD_REQUEST.Code,
			Message:     errors2.BAD_REQUEST.Message,
			Description: "A file name is required.",
		}, http.StatusBadRequest)
	}
	if req.SizeBytes < 0 {
		return nil, errors2.NewClientError(errors2.ErrorMessage{
			Code:        errors2.BAD_REQUEST.Code,
			Message:     errors2.BAD_REQUEST.Message,
			Description: "size_bytes cannot be negative.",
		}, http.StatusBadRequest)
	}
	if _, err := s.guard.AuthorizeAny(actor, patientID); err != nil {
		return nil, err
	}

	return s.store.Insert(&model.Attachment{
		PatientID:   patientID,
		RecordType:  req.RecordType,
		RecordID:    req.RecordID,
		FileName:    req.FileName,
		ContentType: req.ContentType,
		SizeBytes:   req.SizeBytes,
		StorageKey:  uuid.New().String(),
		UploadedBy:  actor.UserID,
	})
}

// GetAttachment returns one attachment of the patient.
func (s *AttachmentService) GetAttachment(actor *authn.Actor, patientID, id int64) (*model.Attachment, error) {

	if _, err := s.guard.AuthorizeAny(actor, patientID); err != nil {
		return nil, err
	}
	attachment, err := s.store.GetByID(patientID, id)
	if err != nil {
		return nil, err
	}
	if attachment == nil {
		return nil, attachmentNotFound(id)
	}
	return attachment, nil
}

// ListAttachments returns every attachment of the patient.
func (s *AttachmentService) ListAttachments(actor *authn.Actor, patientID int64) ([]model.Attachment, error) {

	if _, err := s.guard.AuthorizeAny(actor, patientID); err != nil {
		return nil, err
	}
	return s.store.List(patientID)
}

// DeleteAttachment removes an attachment metadata record.
func (s *AttachmentService) DeleteAttachment(actor *authn.Actor, patientID, id int64) error {

	if _, err := s.guard.AuthorizeAny(actor, patientID); err != nil {
		return err
	}
	affected, err := s.store.Delete(patientID, id)
	if err != nil {
		return err
	}
	if affected == 0 {
		return attachmentNotFound(id)
	}
	return nil
}

func attachmentNotFound(id int64) error {
	return errors2.NewClientError(errors2.ErrorMessage{
		Code:        errors2.ATTACHMENT_NOT_FOUND.Code,
		Message:     errors2.ATTACHMENT_NOT_FOUND.Message,
		Description: fmt.Sprintf("No attachment found with id: %d", id),
	}, http.StatusNotFound)
}
