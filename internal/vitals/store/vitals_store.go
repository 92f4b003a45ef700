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
	"strconv"
	"time"

	"github.com/wso2/healthcare-records-service/internal/system/database/provider"
	errors2 "github.com/wso2/healthcare-records-service/internal/system/errors"
	"github.com/wso2/healthcare-records-service/internal/system/log"
	"github.com/wso2/healthcare-records-service/internal/vitals/model"
)

// VitalsStoreInterface is the persistence contract for vital sign readings.
type VitalsStoreInterface interface {
	Insert(vitals *model.VitalSigns) (*model.VitalSigns, error)
	List(patientID int64, limit, offset int) ([]model.VitalSigns, int, error)
}

// VitalsStore is the default Postgres-backed implementation.
type VitalsStore struct{}

// Insert persists a vital signs reading.
func (s *VitalsStore) Insert(vitals *model.VitalSigns) (*model.VitalSigns, error) {

	dbClient, err := provider.NewDBProvider().GetDBClient()
	logger := log.GetLogger()
	if err != nil {
		errorMsg := fmt.Sprintf("Failed to get db client for adding vitals for patient: %d", vitals.PatientID)
		logger.Debug(errorMsg, log.Error(err))
		return nil, serverError(errors2.ADD_VITALS, errorMsg, err)
	}
	defer dbClient.Close()

	tx, err := dbClient.BeginTx()
	if err != nil {
		errorMsg := fmt.Sprintf("Failed to begin transaction for adding vitals for patient: %d", vitals.PatientID)
		logger.Debug(errorMsg, log.Error(err))
		return nil, serverError(errors2.ADD_VITALS, errorMsg, err)
	}

	now := time.Now().UTC()
	query := `INSERT INTO vitals (patient_id, heart_rate, systolic_bp, diastolic_bp, temperature_c,
	          respiratory_rate, oxygen_saturation, recorded_by, recorded_at, created_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10) RETURNING id`
	var id int64
	if err := tx.QueryRow(query, vitals.PatientID, vitals.HeartRate, vitals.SystolicBP, vitals.DiastolicBP,
		vitals.TemperatureC, vitals.RespiratoryRate, vitals.OxygenSaturation, vitals.RecordedBy,
		vitals.RecordedAt, now).Scan(&id); err != nil {
		_ = tx.Rollback()
		errorMsg := fmt.Sprintf("Failed to add vitals for patient: %d", vitals.PatientID)
		logger.Debug(errorMsg, log.Error(err))
		return nil, serverError(errors2.ADD_VITALS, errorMsg, err)
	}
	if err := tx.Commit(); err != nil {
		return nil, serverError(errors2.ADD_VITALS,
			fmt.Sprintf("Failed to commit adding vitals for patient: %d", vitals.PatientID), err)
	}

	created := *vitals
	created.ID = id
	created.CreatedAt = now
	return &created, nil
}

// List returns a page of readings for the patient, most recent first,
// together with the total count.
func (s *VitalsStore) List(patientID int64, limit, offset int) ([]model.VitalSigns, int, error) {

	dbClient, err := provider.NewDBProvider().GetDBClient()
	logger := log.GetLogger()
	if err != nil {
		errorMsg := fmt.Sprintf("Failed to get db client for listing vitals of patient: %d", patientID)
		logger.Debug(errorMsg, log.Error(err))
		return nil, 0, serverError(errors2.FETCH_VITALS, errorMsg, err)
	}
	defer dbClient.Close()

	countRows, err := dbClient.ExecuteQuery(`SELECT COUNT(*) AS total FROM vitals WHERE patient_id = $1`, patientID)
	if err != nil {
		errorMsg := fmt.Sprintf("Failed to count vitals of patient: %d", patientID)
		logger.Debug(errorMsg, log.Error(err))
		return nil, 0, serverError(errors2.FETCH_VITALS, errorMsg, err)
	}
	total := 0
	if len(countRows) > 0 {
		if v, ok := countRows[0]["total"].(int64); ok {
			total = int(v)
		}
	}

	query := `SELECT id, patient_id, heart_rate, systolic_bp, diastolic_bp, temperature_c, respiratory_rate,
	          oxygen_saturation, recorded_by, recorded_at, created_at
	          FROM vitals WHERE patient_id = $1 ORDER BY recorded_at DESC LIMIT $2 OFFSET $3`
	rows, err := dbClient.ExecuteQuery(query, patientID, limit, offset)
	if err != nil {
		errorMsg := fmt.Sprintf("Failed to list vitals of patient: %d", patientID)
		logger.Debug(errorMsg, log.Error(err))
		return nil, 0, serverError(errors2.FETCH_VITALS, errorMsg, err)
	}

	readings := make([]model.VitalSigns, 0, len(rows))
	for _, row := range rows {
		readings = append(readings, model.VitalSigns{
			ID:               row["id"].(int64),
			PatientID:        row["patient_id"].(int64),
			HeartRate:        asIntPtr(row["heart_rate"]),
			SystolicBP:       asIntPtr(row["systolic_bp"]),
			DiastolicBP:      asIntPtr(row["diastolic_bp"]),
			TemperatureC:     asFloatPtr(row["temperature_c"]),
			RespiratoryRate:  asIntPtr(row["respiratory_rate"]),
			OxygenSaturation: asIntPtr(row["oxygen_saturation"]),
			RecordedBy:       row["recorded_by"].(int64),
			RecordedAt:       row["recorded_at"].(time.Time),
			CreatedAt:        row["created_at"].(time.Time),
		})
	}
	return readings, total, nil
}

func serverError(code errors2.ErrorMessage, description string, cause error) error {
	return errors2.NewServerError(errors2.ErrorMessage{
		Code:        code.Code,
		Message:     code.Message,
		Description: description,
	}, cause)
}

func asIntPtr(v interface{}) *int {
	switch n := v.(type) {
	case int64:
		i := int(n)
		return &i
	case int:
		return &n
	default:
		return nil
	}
}

func asFloatPtr(v interface{}) *float64 {
	switch n := v.(type) {
	case float64:
		return &n
	case []byte:
		// NUMERIC columns come back as raw text.
		if f, err := strconv.ParseFloat(string(n), 64); err == nil {
			return &f
		}
		return nil
	default:
		return nil
	}
}
