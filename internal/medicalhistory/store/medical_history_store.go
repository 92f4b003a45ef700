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

	"github.com/lib/pq"
	"github.com/wso2/healthcare-records-service/internal/medicalhistory/model"
	"github.com/wso2/healthcare-records-service/internal/system/database/provider"
	errors2 "github.com/wso2/healthcare-records-service/internal/system/errors"
	"github.com/wso2/healthcare-records-service/internal/system/log"
)

// MedicalHistoryStoreInterface is the persistence contract for medical
// history records.
type MedicalHistoryStoreInterface interface {
	Insert(record *model.MedicalHistory) (*model.MedicalHistory, error)
	GetByID(patientID, id int64) (*model.MedicalHistory, error)
	List(patientID int64, categories []string, sortBy, sortOrder string, limit, offset int) ([]model.MedicalHistory, int, error)
	Update(record *model.MedicalHistory) (int64, error)
	Deactivate(patientID, id int64) (int64, error)
	Delete(patientID, id int64) (int64, error)
}

// MedicalHistoryStore is the default Postgres-backed implementation.
type MedicalHistoryStore struct{}

// Insert persists a new medical history record.
func (s *MedicalHistoryStore) Insert(record *model.MedicalHistory) (*model.MedicalHistory, error) {

	dbClient, err := provider.NewDBProvider().GetDBClient()
	logger := log.GetLogger()
	if err != nil {
		errorMsg := fmt.Sprintf("Failed to get db client for adding medical history for patient: %d", record.PatientID)
		logger.Debug(errorMsg, log.Error(err))
		return nil, errors2.NewServerError(errors2.ErrorMessage{
			Code:        errors2.ADD_MEDICAL_HISTORY.Code,
			Message:     errors2.ADD_MEDICAL_HISTORY.Message,
			Description: errorMsg,
		}, err)
	}
	defer dbClient.Close()

	tx, err := dbClient.BeginTx()
	if err != nil {
		errorMsg := fmt.Sprintf("Failed to begin transaction for adding medical history for patient: %d", record.PatientID)
		logger.Debug(errorMsg, log.Error(err))
		return nil, errors2.NewServerError(errors2.ErrorMessage{
			Code:        errors2.ADD_MEDICAL_HISTORY.Code,
			Message:     errors2.ADD_MEDICAL_HISTORY.Message,
			Description: errorMsg,
		}, err)
	}

	now := time.Now().UTC()
	query := `INSERT INTO medical_history (patient_id, condition, category, diagnosed_at, status, notes, is_active, created_by, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, TRUE, $7, $8, $9) RETURNING id`
	var id int64
	if err := tx.QueryRow(query, record.PatientID, record.Condition, record.Category, record.DiagnosedAt,
		record.Status, record.Notes, record.CreatedBy, now, now).Scan(&id); err != nil {
		_ = tx.Rollback()
		errorMsg := fmt.Sprintf("Failed to add medical history for patient: %d", record.PatientID)
		logger.Debug(errorMsg, log.Error(err))
		return nil, errors2.NewServerError(errors2.ErrorMessage{
			Code:        errors2.ADD_MEDICAL_HISTORY.Code,
			Message:     errors2.ADD_MEDICAL_HISTORY.Message,
			Description: errorMsg,
		}, err)
	}

	if err := tx.Commit(); err != nil {
		return nil, errors2.NewServerError(errors2.ErrorMessage{
			Code:        errors2.ADD_MEDICAL_HISTORY.Code,
			Message:     errors2.ADD_MEDICAL_HISTORY.Message,
			Description: fmt.Sprintf("Failed to commit adding medical history for patient: %d", record.PatientID),
		}, err)
	}

	created := *record
	created.ID = id
	created.IsActive = true
	created.CreatedAt = now
	created.UpdatedAt = now
	return &created, nil
}

// GetByID returns one record scoped to the patient, or nil when it does not
// exist.
func (s *MedicalHistoryStore) GetByID(patientID, id int64) (*model.MedicalHistory, error) {

	dbClient, err := provider.NewDBProvider().GetDBClient()
	logger := log.GetLogger()
	if err != nil {
		errorMsg := fmt.Sprintf("Failed to get db client for fetching medical history: %d", id)
		logger.Debug(errorMsg, log.Error(err))
		return nil, errors2.NewServerError(errors2.ErrorMessage{
			Code:        errors2.FETCH_MEDICAL_HISTORY.Code,
			Message:     errors2.FETCH_MEDICAL_HISTORY.Message,
			Description: errorMsg,
		}, err)
	}
	defer dbClient.Close()

	query := `SELECT id, patient_id, condition, category, diagnosed_at, status, notes, is_active, created_by, created_at, updated_at
	          FROM medical_history WHERE patient_id = $1 AND id = $2`
	rows, err := dbClient.ExecuteQuery(query, patientID, id)
	if err != nil {
		errorMsg := fmt.Sprintf("Failed to fetch medical history: %d", id)
		logger.Debug(errorMsg, log.Error(err))
		return nil, errors2.NewServerError(errors2.ErrorMessage{
			Code:        errors2.FETCH_MEDICAL_HISTORY.Code,
			Message:     errors2.FETCH_MEDICAL_HISTORY.Message,
			Description: errorMsg,
		}, err)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return mapRowToMedicalHistory(rows[0]), nil
}

// List returns a page of active records for a patient restricted to the
// given categories, together with the total count. Sort column and order
// must come from the allow-list; they are interpolated into the statement.
// Deactivated records stay reachable through GetByID only.
func (s *MedicalHistoryStore) List(patientID int64, categories []string, sortBy, sortOrder string, limit, offset int) ([]model.MedicalHistory, int, error) {

	dbClient, err := provider.NewDBProvider().GetDBClient()
	logger := log.GetLogger()
	if err != nil {
		errorMsg := fmt.Sprintf("Failed to get db client for listing medical history of patient: %d", patientID)
		logger.Debug(errorMsg, log.Error(err))
		return nil, 0, errors2.NewServerError(errors2.ErrorMessage{
			Code:        errors2.FETCH_MEDICAL_HISTORY.Code,
			Message:     errors2.FETCH_MEDICAL_HISTORY.Message,
			Description: errorMsg,
		}, err)
	}
	defer dbClient.Close()

	countQuery := `SELECT COUNT(*) AS total FROM medical_history WHERE patient_id = $1 AND category = ANY($2) AND is_active`
	countRows, err := dbClient.ExecuteQuery(countQuery, patientID, pq.Array(categories))
	if err != nil {
		errorMsg := fmt.Sprintf("Failed to count medical history of patient: %d", patientID)
		logger.Debug(errorMsg, log.Error(err))
		return nil, 0, errors2.NewServerError(errors2.ErrorMessage{
			Code:        errors2.FETCH_MEDICAL_HISTORY.Code,
			Message:     errors2.FETCH_MEDICAL_HISTORY.Message,
			Description: errorMsg,
		}, err)
	}
	total := int(countRows[0]["total"].(int64))

	query := fmt.Sprintf(`SELECT id, patient_id, condition, category, diagnosed_at, status, notes, is_active, created_by, created_at, updated_at
	          FROM medical_history WHERE patient_id = $1 AND category = ANY($2) AND is_active
	          ORDER BY %s %s LIMIT $3 OFFSET $4`, sortBy, sortOrder)
	rows, err := dbClient.ExecuteQuery(query, patientID, pq.Array(categories), limit, offset)
	if err != nil {
		errorMsg := fmt.Sprintf("Failed to list medical history of patient: %d", patientID)
		logger.Debug(errorMsg, log.Error(err))
		return nil, 0, errors2.NewServerError(errors2.ErrorMessage{
			Code:        errors2.FETCH_MEDICAL_HISTORY.Code,
			Message:     errors2.FETCH_MEDICAL_HISTORY.Message,
			Description: errorMsg,
		}, err)
	}

	records := make([]model.MedicalHistory, 0, len(rows))
	for _, row := range rows {
		records = append(records, *mapRowToMedicalHistory(row))
	}
	return records, total, nil
}

// Update rewrites the mutable columns of a record and returns the number of
// affected rows.
func (s *MedicalHistoryStore) Update(record *model.MedicalHistory) (int64, error) {

	dbClient, err := provider.NewDBProvider().GetDBClient()
	logger := log.GetLogger()
	if err != nil {
		errorMsg := fmt.Sprintf("Failed to get db client for updating medical history: %d", record.ID)
		logger.Debug(errorMsg, log.Error(err))
		return 0, errors2.NewServerError(errors2.ErrorMessage{
			Code:        errors2.UPDATE_MEDICAL_HISTORY.Code,
			Message:     errors2.UPDATE_MEDICAL_HISTORY.Message,
			Description: errorMsg,
		}, err)
	}
	defer dbClient.Close()

	query := `UPDATE medical_history SET condition = $1, category = $2, diagnosed_at = $3, status = $4, notes = $5, updated_at = $6
	          WHERE patient_id = $7 AND id = $8`
	affected, err := dbClient.ExecuteStatement(query, record.Condition, record.Category, record.DiagnosedAt,
		record.Status, record.Notes, time.Now().UTC(), record.PatientID, record.ID)
	if err != nil {
		errorMsg := fmt.Sprintf("Failed to update medical history: %d", record.ID)
		logger.Debug(errorMsg, log.Error(err))
		return 0, errors2.NewServerError(errors2.ErrorMessage{
			Code:        errors2.UPDATE_MEDICAL_HISTORY.Code,
			Message:     errors2.UPDATE_MEDICAL_HISTORY.Message,
			Description: errorMsg,
		}, err)
	}
	return affected, nil
}

// Deactivate soft-deletes a record by clearing its active flag. Repeated
// calls succeed as long as the record exists.
func (s *MedicalHistoryStore) Deactivate(patientID, id int64) (int64, error) {

	dbClient, err := provider.NewDBProvider().GetDBClient()
	logger := log.GetLogger()
	if err != nil {
		errorMsg := fmt.Sprintf("Failed to get db client for deactivating medical history: %d", id)
		logger.Debug(errorMsg, log.Error(err))
		return 0, errors2.NewServerError(errors2.ErrorMessage{
			Code:        errors2.UPDATE_MEDICAL_HISTORY.Code,
			Message:     errors2.UPDATE_MEDICAL_HISTORY.Message,
			Description: errorMsg,
		}, err)
	}
	defer dbClient.Close()

	query := `UPDATE medical_history SET is_active = FALSE, updated_at = $1 WHERE patient_id = $2 AND id = $3`
	affected, err := dbClient.ExecuteStatement(query, time.Now().UTC(), patientID, id)
	if err != nil {
		errorMsg := fmt.Sprintf("Failed to deactivate medical history: %d", id)
		logger.Debug(errorMsg, log.Error(err))
		return 0, errors2.NewServerError(errors2.ErrorMessage{
			Code:        errors2.UPDATE_MEDICAL_HISTORY.Code,
			Message:     errors2.UPDATE_MEDICAL_HISTORY.Message,
			Description: errorMsg,
		}, err)
	}
	return affected, nil
}

// Delete removes a record scoped to the patient and returns the number of
// affected rows.
func (s *MedicalHistoryStore) Delete(patientID, id int64) (int64, error) {

	dbClient, err := provider.NewDBProvider().GetDBClient()
	logger := log.GetLogger()
	if err != nil {
		errorMsg := fmt.Sprintf("Failed to get db client for deleting medical history: %d", id)
		logger.Debug(errorMsg, log.Error(err))
		return 0, errors2.NewServerError(errors2.ErrorMessage{
			Code:        errors2.DELETE_MEDICAL_HISTORY.Code,
			Message:     errors2.DELETE_MEDICAL_HISTORY.Message,
			Description: errorMsg,
		}, err)
	}
	defer dbClient.Close()

	query := `DELETE FROM medical_history WHERE patient_id = $1 AND id = $2`
	affected, err := dbClient.ExecuteStatement(query, patientID, id)
	if err != nil {
		errorMsg := fmt.Sprintf("Failed to delete medical history: %d", id)
		logger.Debug(errorMsg, log.Error(err))
		return 0, errors2.NewServerError(errors2.ErrorMessage{
			Code:        errors2.DELETE_MEDICAL_HISTORY.Code,
			Message:     errors2.DELETE_MEDICAL_HISTORY.Message,
			Description: errorMsg,
		}, err)
	}
	return affected, nil
}

func mapRowToMedicalHistory(row map[string]interface{}) *model.MedicalHistory {
	return &model.MedicalHistory{
		ID:          row["id"].(int64),
		PatientID:   row["patient_id"].(int64),
		Condition:   asString(row["condition"]),
		Category:    asString(row["category"]),
		DiagnosedAt: asTimePtr(row["diagnosed_at"]),
		Status:      asString(row["status"]),
		Notes:       asStringPtr(row["notes"]),
		IsActive:    asBool(row["is_active"]),
		CreatedBy:   row["created_by"].(int64),
		CreatedAt:   row["created_at"].(time.Time),
		UpdatedAt:   row["updated_at"].(time.Time),
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

func asStringPtr(v interface{}) *string {
	if v == nil {
		return nil
	}
	s := asString(v)
	return &s
}

func asTimePtr(v interface{}) *time.Time {
	if t, ok := v.(time.Time); ok {
		return &t
	}
	return nil
}

func asBool(v interface{}) bool {
	b, _ := v.(bool)
	return b
}
