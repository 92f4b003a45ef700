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

package store

import (
	"fmt"
	"time"

	"github.com/wso2/healthcare-records-service/internal/attachment/model"
	"github.com/wso2/healthcare-records-service/internal/system/database/provider"
	errors2 "github.com/wso2/healthcare-records-service/internal/system/errors"
	"github.com/wso2/healthcare-records-service/internal/system/log"
)

// AttachmentStoreInterface is the persistence contract for attachment
// metadata.
type AttachmentStoreInterface interface {
	Insert(attachment *model.Attachment) (*model.Attachment, error)
	GetByID(patientID, id int64) (*model.Attachment, error)
	List(patientID int64) ([]model.Attachment, error)
	Delete(patientID, id int64) (int64, error)
}

// AttachmentStore is the default Postgres-backed implementation.
type AttachmentStore struct{}

// Insert persists an attachment metadata record.
func (s *AttachmentStore) Insert(attachment *model.Attachment) (*model.Attachment, error) {

	dbClient, err := provider.NewDBProvider().GetDBClient()
	logger := log.GetLogger()
	if err != nil {
		errorMsg := fmt.Sprintf("Failed to get db client for adding attachment for patient: %d", attachment.PatientID)
		logger.Debug(errorMsg, log.Error(err))
		return nil, serverError(errors2.ADD_ATTACHMENT, errorMsg, err)
	}
	defer dbClient.Close()

	tx, err := dbClient.BeginTx()
	if err != nil {
		errorMsg := fmt.Sprintf("Failed to begin transaction for adding attachment for patient: %d", attachment.PatientID)
		logger.Debug(errorMsg, log.Error(err))
		return nil, serverError(errors2.ADD_ATTACHMENT, errorMsg, err)
	}

	now := time.Now().UTC()
	query := `INSERT INTO attachments (patient_id, record_type, record_id, file_name, content_type, size_bytes,
	          storage_key, uploaded_by, created_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9) RETURNING id`
	var id int64
	if err := tx.QueryRow(query, attachment.PatientID, attachment.RecordType, attachment.RecordID,
		attachment.FileName, attachment.ContentType, attachment.SizeBytes, attachment.StorageKey,
		attachment.UploadedBy, now).Scan(&id); err != nil {
		_ = tx.Rollback()
		errorMsg := fmt.Sprintf("Failed to add attachment for patient: %d", attachment.PatientID)
		logger.Debug(errorMsg, log.Error(err))
		return nil, serverError(errors2.ADD_ATTACHMENT, errorMsg, err)
	}
	if err := tx.Commit(); err != nil {
		return nil, serverError(errors2.ADD_ATTACHMENT,
			fmt.Sprintf("Failed to commit adding attachment for patient: %d", attachment.PatientID), err)
	}

	created := *attachment
	created.ID = id
	created.CreatedAt = now
	return &created, nil
}

// GetByID returns one attachment of the patient, or nil when absent.
func (s *AttachmentStore) GetByID(patientID, id int64) (*model.Attachment, error) {

	dbClient, err := provider.NewDBProvider().GetDBClient()
	logger := log.GetLogger()
	if err != nil {
		errorMsg := fmt.Sprintf("Failed to get db client for fetching attachment: %d", id)
		logger.Debug(errorMsg, log.Error(err))
		return nil, serverError(errors2.FETCH_ATTACHMENT, errorMsg, err)
	}
	defer dbClient.Close()

	query := `SELECT id, patient_id, record_type, record_id, file_name, content_type, size_bytes, storage_key,
	          uploaded_by, created_at FROM attachments WHERE patient_id = $1 AND id = $2`
	rows, err := dbClient.ExecuteQuery(query, patientID, id)
	if err != nil {
		errorMsg := fmt.Sprintf("Failed to fetch attachment: %d", id)
		logger.Debug(errorMsg, log.Error(err))
		return nil, serverError(errors2.FETCH_ATTACHMENT, errorMsg, err)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	attachment := mapRowToAttachment(rows[0])
	return &attachment, nil
}

// List returns every attachment of the patient, newest first.
func (s *AttachmentStore) List(patientID int64) ([]model.Attachment, error) {

	dbClient, err := provider.NewDBProvider().GetDBClient()
	logger := log.GetLogger()
	if err != nil {
		errorMsg := fmt.Sprintf("Failed to get db client for listing attachments of patient: %d", patientID)
		logger.Debug(errorMsg, log.Error(err))
		return nil, serverError(errors2.FETCH_ATTACHMENT, errorMsg, err)
	}
	defer dbClient.Close()

	query := `SELECT id, patient_id, record_type, record_id, file_name, content_type, size_bytes, storage_key,
	          uploaded_by, created_at FROM attachments WHERE patient_id = $1 ORDER BY created_at DESC`
	rows, err := dbClient.ExecuteQuery(query, patientID)
	if err != nil {
		errorMsg := fmt.Sprintf("Failed to list attachments of patient: %d", patientID)
		logger.Debug(errorMsg, log.Error(err))
		return nil, serverError(errors2.FETCH_ATTACHMENT, errorMsg, err)
	}

	attachments := make([]model.Attachment, 0, len(rows))
	for _, row := range rows {
		attachments = append(attachments, mapRowToAttachment(row))
	}
	return attachments, nil
}

// Delete removes an attachment metadata record and returns the number of
// affected rows.
func (s *AttachmentStore) Delete(patientID, id int64) (int64, error) {

	dbClient, err := provider.NewDBProvider().GetDBClient()
	logger := log.GetLogger()
	if err != nil {
		errorMsg := fmt.Sprintf("Failed to get db client for deleting attachment: %d", id)
		logger.Debug(errorMsg, log.Error(err))
		return 0, serverError(errors2.FETCH_ATTACHMENT, errorMsg, err)
	}
	defer dbClient.Close()

	affected, err := dbClient.ExecuteStatement(`DELETE FROM attachments WHERE patient_id = $1 AND id = $2`, patientID, id)
	if err != nil {
		errorMsg := fmt.Sprintf("Failed to delete attachment: %d", id)
		logger.Debug(errorMsg, log.Error(err))
		return 0, serverError(errors2.FETCH_ATTACHMENT, errorMsg, err)
	}
	return affected, nil
}

func serverError(code errors2.ErrorMessage, description string, cause error) error {
	return errors2.NewServerError(errors2.ErrorMessage{
		Code:        code.Code,
		Message:     code.Message,
		Description: description,
	}, cause)
}

func mapRowToAttachment(row map[string]interface{}) model.Attachment {
	return model.Attachment{
		ID:          row["id"].(int64),
		PatientID:   row["patient_id"].(int64),
		RecordType:  asString(row["record_type"]),
		RecordID:    asInt64Ptr(row["record_id"]),
		FileName:    asString(row["file_name"]),
		ContentType: asString(row["content_type"]),
		SizeBytes:   row["size_bytes"].(int64),
		StorageKey:  asString(row["storage_key"]),
		UploadedBy:  row["uploaded_by"].(int64),
		CreatedAt:   row["created_at"].(time.Time),
	}
}

func asString(v interface{}) string {
	switch s := v.(type) {
	case string:
		return s
	case []byte:
		return string(s)
	default:
		return ""
	}
}

func asInt64Ptr(v interface{}) *int64 {
	if v == nil {
		return nil
	}
	if i, ok := v.(int64); ok {
		return &i
	}
	return nil
}
