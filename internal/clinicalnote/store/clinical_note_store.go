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

	"github.com/wso2/healthcare-records-service/internal/clinicalnote/model"
	"github.com/wso2/healthcare-records-service/internal/system/database/provider"
	errors2 "github.com/wso2/healthcare-records-service/internal/system/errors"
	"github.com/wso2/healthcare-records-service/internal/system/log"
)

// ClinicalNoteStoreInterface is the persistence contract for clinical notes.
type ClinicalNoteStoreInterface interface {
	Insert(note *model.ClinicalNote) (*model.ClinicalNote, error)
	List(patientID int64, limit, offset int) ([]model.ClinicalNote, int, error)
}

// ClinicalNoteStore is the default Postgres-backed implementation.
type ClinicalNoteStore struct{}

// Insert persists a clinical note.
func (s *ClinicalNoteStore) Insert(note *model.ClinicalNote) (*model.ClinicalNote, error) {

	dbClient, err := provider.NewDBProvider().GetDBClient()
	logger := log.GetLogger()
	if err != nil {
		errorMsg := fmt.Sprintf("Failed to get db client for adding clinical note for patient: %d", note.PatientID)
		logger.Debug(errorMsg, log.Error(err))
		return nil, serverError(errors2.ADD_CLINICAL_NOTE, errorMsg, err)
	}
	defer dbClient.Close()

	tx, err := dbClient.BeginTx()
	if err != nil {
		errorMsg := fmt.Sprintf("Failed to begin transaction for adding clinical note for patient: %d", note.PatientID)
		logger.Debug(errorMsg, log.Error(err))
		return nil, serverError(errors2.ADD_CLINICAL_NOTE, errorMsg, err)
	}

	now := time.Now().UTC()
	query := `INSERT INTO clinical_notes (patient_id, author_id, title, content, created_at)
	          VALUES ($1, $2, $3, $4, $5) RETURNING id`
	var id int64
	if err := tx.QueryRow(query, note.PatientID, note.AuthorID, note.Title, note.Content, now).Scan(&id); err != nil {
		_ = tx.Rollback()
		errorMsg := fmt.Sprintf("Failed to add clinical note for patient: %d", note.PatientID)
		logger.Debug(errorMsg, log.Error(err))
		return nil, serverError(errors2.ADD_CLINICAL_NOTE, errorMsg, err)
	}
	if err := tx.Commit(); err != nil {
		return nil, serverError(errors2.ADD_CLINICAL_NOTE,
			fmt.Sprintf("Failed to commit adding clinical note for patient: %d", note.PatientID), err)
	}

	created := *note
	created.ID = id
	created.CreatedAt = now
	return &created, nil
}

// List returns a page of notes for the patient, newest first, together
// with the total count.
func (s *ClinicalNoteStore) List(patientID int64, limit, offset int) ([]model.ClinicalNote, int, error) {

	dbClient, err := provider.NewDBProvider().GetDBClient()
	logger := log.GetLogger()
	if err != nil {
		errorMsg := fmt.Sprintf("Failed to get db client for listing clinical notes of patient: %d", patientID)
		logger.Debug(errorMsg, log.Error(err))
		return nil, 0, serverError(errors2.FETCH_CLINICAL_NOTE, errorMsg, err)
	}
	defer dbClient.Close()

	countRows, err := dbClient.ExecuteQuery(`SELECT COUNT(*) AS total FROM clinical_notes WHERE patient_id = $1`, patientID)
	if err != nil {
		errorMsg := fmt.Sprintf("Failed to count clinical notes of patient: %d", patientID)
		logger.Debug(errorMsg, log.Error(err))
		return nil, 0, serverError(errors2.FETCH_CLINICAL_NOTE, errorMsg, err)
	}
	total := 0
	if len(countRows) > 0 {
		if v, ok := countRows[0]["total"].(int64); ok {
			total = int(v)
		}
	}

	query := `SELECT id, patient_id, author_id, title, content, created_at FROM clinical_notes
	          WHERE patient_id = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`
	rows, err := dbClient.ExecuteQuery(query, patientID, limit, offset)
	if err != nil {
		errorMsg := fmt.Sprintf("Failed to list clinical notes of patient: %d", patientID)
		logger.Debug(errorMsg, log.Error(err))
		return nil, 0, serverError(errors2.FETCH_CLINICAL_NOTE, errorMsg, err)
	}

	notes := make([]model.ClinicalNote, 0, len(rows))
	for _, row := range rows {
		notes = append(notes, model.ClinicalNote{
			ID:        row["id"].(int64),
			PatientID: row["patient_id"].(int64),
			AuthorID:  row["author_id"].(int64),
			Title:     asString(row["title"]),
			Content:   asString(row["content"]),
			CreatedAt: row["created_at"].(time.Time),
		})
	}
	return notes, total, nil
}

func serverError(code errors2.ErrorMessage, description string, cause error) error {
	return errors2.NewServerError(errors2.ErrorMessage{
		Code:        code.Code,
		Message:     code.Message,
		Description: description,
	}, cause)
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
