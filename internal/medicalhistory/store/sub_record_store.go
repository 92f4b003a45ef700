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
	"time"

	"github.com/wso2/healthcare-records-service/internal/medicalhistory/model"
	"github.com/wso2/healthcare-records-service/internal/system/database/provider"
	errors2 "github.com/wso2/healthcare-records-service/internal/system/errors"
	"github.com/wso2/healthcare-records-service/internal/system/log"
)

// AllergyStoreInterface is the persistence contract for allergies.
type AllergyStoreInterface interface {
	Insert(record *model.Allergy) (*model.Allergy, error)
	List(patientID int64) ([]model.Allergy, error)
	Delete(patientID, id int64) (int64, error)
}

// MedicationStoreInterface is the persistence contract for medications.
type MedicationStoreInterface interface {
	Insert(record *model.Medication) (*model.Medication, error)
	List(patientID int64) ([]model.Medication, error)
	Update(record *model.Medication) (int64, error)
	Deactivate(patientID, id int64) (int64, error)
	Delete(patientID, id int64) (int64, error)
}

// FamilyHistoryStoreInterface is the persistence contract for family
// history entries.
type FamilyHistoryStoreInterface interface {
	Insert(record *model.FamilyHistory) (*model.FamilyHistory, error)
	List(patientID int64) ([]model.FamilyHistory, error)
	Delete(patientID, id int64) (int64, error)
}

// LifestyleStoreInterface is the persistence contract for lifestyle
// entries.
type LifestyleStoreInterface interface {
	Insert(record *model.Lifestyle) (*model.Lifestyle, error)
	List(patientID int64) ([]model.Lifestyle, error)
	Delete(patientID, id int64) (int64, error)
}

type AllergyStore struct{}
type MedicationStore struct{}
type FamilyHistoryStore struct{}
type LifestyleStore struct{}

func (s *AllergyStore) Insert(record *model.Allergy) (*model.Allergy, error) {

	now := time.Now().UTC()
	query := `INSERT INTO allergies (patient_id, allergen, reaction, severity, recorded_by, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id`
	id, err := insertReturningID(errors2.ADD_MEDICAL_HISTORY, query,
		record.PatientID, record.Allergen, record.Reaction, record.Severity, record.RecordedBy, now, now)
	if err != nil {
		return nil, err
	}
	created := *record
	created.ID = id
	created.CreatedAt = now
	created.UpdatedAt = now
	return &created, nil
}

func (s *AllergyStore) List(patientID int64) ([]model.Allergy, error) {

	query := `SELECT id, patient_id, allergen, reaction, severity, recorded_by, created_at, updated_at
	          FROM allergies WHERE patient_id = $1 ORDER BY created_at DESC`
	rows, err := fetchRows(errors2.FETCH_MEDICAL_HISTORY, query, patientID)
	if err != nil {
		return nil, err
	}
	records := make([]model.Allergy, 0, len(rows))
	for _, row := range rows {
		records = append(records, model.Allergy{
			ID:         row["id"].(int64),
			PatientID:  row["patient_id"].(int64),
			Allergen:   asString(row["allergen"]),
			Reaction:   asString(row["reaction"]),
			Severity:   asString(row["severity"]),
			RecordedBy: row["recorded_by"].(int64),
			CreatedAt:  row["created_at"].(time.Time),
			UpdatedAt:  row["updated_at"].(time.Time),
		})
	}
	return records, nil
}

func (s *AllergyStore) Delete(patientID, id int64) (int64, error) {

	return execStatement(errors2.DELETE_MEDICAL_HISTORY,
		`DELETE FROM allergies WHERE patient_id = $1 AND id = $2`, patientID, id)
}

func (s *MedicationStore) Insert(record *model.Medication) (*model.Medication, error) {

	now := time.Now().UTC()
	query := `INSERT INTO medications (patient_id, name, dosage, frequency, start_date, end_date, is_active, prescribed_by, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10) RETURNING id`
	id, err := insertReturningID(errors2.ADD_MEDICAL_HISTORY, query,
		record.PatientID, record.Name, record.Dosage, record.Frequency, record.StartDate, record.EndDate,
		record.IsActive, record.PrescribedBy, now, now)
	if err != nil {
		return nil, err
	}
	created := *record
	created.ID = id
	created.CreatedAt = now
	created.UpdatedAt = now
	return &created, nil
}

func (s *MedicationStore) List(patientID int64) ([]model.Medication, error) {

	query := `SELECT id, patient_id, name, dosage, frequency, start_date, end_date, is_active, prescribed_by, created_at, updated_at
	          FROM medications WHERE patient_id = $1 ORDER BY created_at DESC`
	rows, err := fetchRows(errors2.FETCH_MEDICAL_HISTORY, query, patientID)
	if err != nil {
		return nil, err
	}
	records := make([]model.Medication, 0, len(rows))
	for _, row := range rows {
		records = append(records, model.Medication{
			ID:           row["id"].(int64),
			PatientID:    row["patient_id"].(int64),
			Name:         asString(row["name"]),
			Dosage:       asString(row["dosage"]),
			Frequency:    asString(row["frequency"]),
			StartDate:    asTimePtr(row["start_date"]),
			EndDate:      asTimePtr(row["end_date"]),
			IsActive:     asBool(row["is_active"]),
			PrescribedBy: row["prescribed_by"].(int64),
			CreatedAt:    row["created_at"].(time.Time),
			UpdatedAt:    row["updated_at"].(time.Time),
		})
	}
	return records, nil
}

func (s *MedicationStore) Update(record *model.Medication) (int64, error) {

	query := `UPDATE medications SET name = $1, dosage = $2, frequency = $3, start_date = $4, end_date = $5, is_active = $6, updated_at = $7
	          WHERE patient_id = $8 AND id = $9`
	return execStatement(errors2.UPDATE_MEDICAL_HISTORY, query,
		record.Name, record.Dosage, record.Frequency, record.StartDate, record.EndDate, record.IsActive,
		time.Now().UTC(), record.PatientID, record.ID)
}

func (s *MedicationStore) Deactivate(patientID, id int64) (int64, error) {

	return execStatement(errors2.UPDATE_MEDICAL_HISTORY,
		`UPDATE medications SET is_active = FALSE, updated_at = $1 WHERE patient_id = $2 AND id = $3`,
		time.Now().UTC(), patientID, id)
}

func (s *MedicationStore) Delete(patientID, id int64) (int64, error) {

	return execStatement(errors2.DELETE_MEDICAL_HISTORY,
		`DELETE FROM medications WHERE patient_id = $1 AND id = $2`, patientID, id)
}

func (s *FamilyHistoryStore) Insert(record *model.FamilyHistory) (*model.FamilyHistory, error) {

	now := time.Now().UTC()
	query := `INSERT INTO family_history (patient_id, relation, condition, notes, recorded_by, created_at)
	          VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`
	id, err := insertReturningID(errors2.ADD_MEDICAL_HISTORY, query,
		record.PatientID, record.Relation, record.Condition, record.Notes, record.RecordedBy, now)
	if err != nil {
		return nil, err
	}
	created := *record
	created.ID = id
	created.CreatedAt = now
	return &created, nil
}

func (s *FamilyHistoryStore) List(patientID int64) ([]model.FamilyHistory, error) {

	query := `SELECT id, patient_id, relation, condition, notes, recorded_by, created_at
	          FROM family_history WHERE patient_id = $1 ORDER BY created_at DESC`
	rows, err := fetchRows(errors2.FETCH_MEDICAL_HISTORY, query, patientID)
	if err != nil {
		return nil, err
	}
	records := make([]model.FamilyHistory, 0, len(rows))
	for _, row := range rows {
		records = append(records, model.FamilyHistory{
			ID:         row["id"].(int64),
			PatientID:  row["patient_id"].(int64),
			Relation:   asString(row["relation"]),
			Condition:  asString(row["condition"]),
			Notes:      asStringPtr(row["notes"]),
			RecordedBy: row["recorded_by"].(int64),
			CreatedAt:  row["created_at"].(time.Time),
		})
	}
	return records, nil
}

func (s *FamilyHistoryStore) Delete(patientID, id int64) (int64, error) {

	return execStatement(errors2.DELETE_MEDICAL_HISTORY,
		`DELETE FROM family_history WHERE patient_id = $1 AND id = $2`, patientID, id)
}

func (s *LifestyleStore) Insert(record *model.Lifestyle) (*model.Lifestyle, error) {

	now := time.Now().UTC()
	query := `INSERT INTO lifestyle (patient_id, habit, frequency, notes, recorded_by, created_at)
	          VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`
	id, err := insertReturningID(errors2.ADD_MEDICAL_HISTORY, query,
		record.PatientID, record.Habit, record.Frequency, record.Notes, record.RecordedBy, now)
	if err != nil {
		return nil, err
	}
	created := *record
	created.ID = id
	created.CreatedAt = now
	return &created, nil
}

func (s *LifestyleStore) List(patientID int64) ([]model.Lifestyle, error) {

	query := `SELECT id, patient_id, habit, frequency, notes, recorded_by, created_at
	          FROM lifestyle WHERE patient_id = $1 ORDER BY created_at DESC`
	rows, err := fetchRows(errors2.FETCH_MEDICAL_HISTORY, query, patientID)
	if err != nil {
		return nil, err
	}
	records := make([]model.Lifestyle, 0, len(rows))
	for _, row := range rows {
		records = append(records, model.Lifestyle{
			ID:         row["id"].(int64),
			PatientID:  row["patient_id"].(int64),
			Habit:      asString(row["habit"]),
			Frequency:  asString(row["frequency"]),
			Notes:      asStringPtr(row["notes"]),
			RecordedBy: row["recorded_by"].(int64),
			CreatedAt:  row["created_at"].(time.Time),
		})
	}
	return records, nil
}

func (s *LifestyleStore) Delete(patientID, id int64) (int64, error) {

	return execStatement(errors2.DELETE_MEDICAL_HISTORY,
		`DELETE FROM lifestyle WHERE patient_id = $1 AND id = $2`, patientID, id)
}

// insertReturningID runs an INSERT ... RETURNING id inside a transaction.
func insertReturningID(code errors2.ErrorMessage, query string, args ...interface{}) (int64, error) {

	dbClient, err := provider.NewDBProvider().GetDBClient()
	logger := log.GetLogger()
	if err != nil {
		logger.Debug("Failed to get db client", log.Error(err))
		return 0, errors2.NewServerError(errors2.ErrorMessage{
			Code:        code.Code,
			Message:     code.Message,
			Description: "Failed to get db client.",
		}, err)
	}
	defer dbClient.Close()

	tx, err := dbClient.BeginTx()
	if err != nil {
		logger.Debug("Failed to begin transaction", log.Error(err))
		return 0, errors2.NewServerError(errors2.ErrorMessage{
			Code:        code.Code,
			Message:     code.Message,
			Description: "Failed to begin transaction.",
		}, err)
	}

	var id int64
	if err := tx.QueryRow(query, args...).Scan(&id); err != nil {
		_ = tx.Rollback()
		logger.Debug("Failed to insert record", log.Error(err))
		return 0, errors2.NewServerError(errors2.ErrorMessage{
			Code:        code.Code,
			Message:     code.Message,
			Description: "Failed to insert record.",
		}, err)
	}
	if err := tx.Commit(); err != nil {
		return 0, errors2.NewServerError(errors2.ErrorMessage{
			Code:        code.Code,
			Message:     code.Message,
			Description: "Failed to commit inserting record.",
		}, err)
	}
	return id, nil
}

func fetchRows(code errors2.ErrorMessage, query string, args ...interface{}) ([]map[string]interface{}, error) {

	dbClient, err := provider.NewDBProvider().GetDBClient()
	logger := log.GetLogger()
	if err != nil {
		logger.Debug("Failed to get db client", log.Error(err))
		return nil, errors2.NewServerError(errors2.ErrorMessage{
			Code:        code.Code,
			Message:     code.Message,
			Description: "Failed to get db client.",
		}, err)
	}
	defer dbClient.Close()

	rows, err := dbClient.ExecuteQuery(query, args...)
	if err != nil {
		logger.Debug("Failed to run query", log.Error(err))
		return nil, errors2.NewServerError(errors2.ErrorMessage{
			Code:        code.Code,
			Message:     code.Message,
			Description: "Failed to run query.",
		}, err)
	}
	return rows, nil
}

func execStatement(code errors2.ErrorMessage, query string, args ...interface{}) (int64, error) {

	dbClient, err := provider.NewDBProvider().GetDBClient()
	logger := log.GetLogger()
	if err != nil {
		logger.Debug("Failed to get db client", log.Error(err))
		return 0, errors2.NewServerError(errors2.ErrorMessage{
			Code:        code.Code,
			Message:     code.Message,
			Description: "Failed to get db client.",
		}, err)
	}
	defer dbClient.Close()

	affected, err := dbClient.ExecuteStatement(query, args...)
	if err != nil {
		logger.Debug("Failed to run statement", log.Error(err))
		return 0, errors2.NewServerError(errors2.ErrorMessage{
			Code:        code.Code,
			Message:     code.Message,
			Description: "Failed to run statement.",
		}, err)
	}
	return affected, nil
}
