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

	"github.com/wso2/healthcare-records-service/internal/alert/model"
	"github.com/wso2/healthcare-records-service/internal/system/database/provider"
	errors2 "github.com/wso2/healthcare-records-service/internal/system/errors"
	"github.com/wso2/healthcare-records-service/internal/system/log"
)

// AlertStoreInterface is the persistence contract for clinical alerts.
type AlertStoreInterface interface {
	Insert(alert *model.Alert) (*model.Alert, error)
	GetByID(id int64) (*model.Alert, error)
	List(status string, patientID int64, limit, offset int) ([]model.Alert, int, error)
	UpdateStatus(id int64, status string, assignedTo *int64) (int64, error)
}

// AlertStore is the default Postgres-backed implementation.
type AlertStore struct{}

// Insert persists a new alert in the pending state.
func (s *AlertStore) Insert(alert *model.Alert) (*model.Alert, error) {

	dbClient, err := provider.NewDBProvider().GetDBClient()
	logger := log.GetLogger()
	if err != nil {
		errorMsg := fmt.Sprintf("Failed to get db client for adding alert for patient: %d", alert.PatientID)
		logger.Debug(errorMsg, log.Error(err))
		return nil, serverError(errors2.ADD_ALERT, errorMsg, err)
	}
	defer dbClient.Close()

	tx, err := dbClient.BeginTx()
	if err != nil {
		errorMsg := fmt.Sprintf("Failed to begin transaction for adding alert for patient: %d", alert.PatientID)
		logger.Debug(errorMsg, log.Error(err))
		return nil, serverError(errors2.ADD_ALERT, errorMsg, err)
	}

	now := time.Now().UTC()
	query := `INSERT INTO alerts (patient_id, vital_id, type, severity, message, status, assigned_to, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $8) RETURNING id`
	var id int64
	if err := tx.QueryRow(query, alert.PatientID, alert.VitalID, alert.Type, alert.Severity, alert.Message,
		alert.Status, alert.AssignedTo, now).Scan(&id); err != nil {
		_ = tx.Rollback()
		errorMsg := fmt.Sprintf("Failed to add alert for patient: %d", alert.PatientID)
		logger.Debug(errorMsg, log.Error(err))
		return nil, serverError(errors2.ADD_ALERT, errorMsg, err)
	}
	if err := tx.Commit(); err != nil {
		return nil, serverError(errors2.ADD_ALERT,
			fmt.Sprintf("Failed to commit adding alert for patient: %d", alert.PatientID), err)
	}

	created := *alert
	created.ID = id
	created.CreatedAt = now
	created.UpdatedAt = now
	return &created, nil
}

// GetByID returns the alert with the given id, or nil when absent.
func (s *AlertStore) GetByID(id int64) (*model.Alert, error) {

	dbClient, err := provider.NewDBProvider().GetDBClient()
	logger := log.GetLogger()
	if err != nil {
		errorMsg := fmt.Sprintf("Failed to get db client for fetching alert: %d", id)
		logger.Debug(errorMsg, log.Error(err))
		return nil, serverError(errors2.FETCH_ALERT, errorMsg, err)
	}
	defer dbClient.Close()

	query := `SELECT id, patient_id, vital_id, type, severity, message, status, assigned_to, created_at, updated_at
	          FROM alerts WHERE id = $1`
	rows, err := dbClient.ExecuteQuery(query, id)
	if err != nil {
		errorMsg := fmt.Sprintf("Failed to fetch alert: %d", id)
		logger.Debug(errorMsg, log.Error(err))
		return nil, serverError(errors2.FETCH_ALERT, errorMsg, err)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	alert := mapRowToAlert(rows[0])
	return &alert, nil
}

// List returns a page of alerts, optionally filtered by status and
// patient, newest first, together with the total match count.
func (s *AlertStore) List(status string, patientID int64, limit, offset int) ([]model.Alert, int, error) {

	dbClient, err := provider.NewDBProvider().GetDBClient()
	logger := log.GetLogger()
	if err != nil {
		errorMsg := "Failed to get db client for listing alerts"
		logger.Debug(errorMsg, log.Error(err))
		return nil, 0, serverError(errors2.FETCH_ALERT, errorMsg, err)
	}
	defer dbClient.Close()

	countQuery := `SELECT COUNT(*) AS total FROM alerts
	               WHERE ($1 = '' OR status = $1) AND ($2 = 0 OR patient_id = $2)`
	countRows, err := dbClient.ExecuteQuery(countQuery, status, patientID)
	if err != nil {
		errorMsg := "Failed to count alerts"
		logger.Debug(errorMsg, log.Error(err))
		return nil, 0, serverError(errors2.FETCH_ALERT, errorMsg, err)
	}
	total := 0
	if len(countRows) > 0 {
		if v, ok := countRows[0]["total"].(int64); ok {
			total = int(v)
		}
	}

	query := `SELECT id, patient_id, vital_id, type, severity, message, status, assigned_to, created_at, updated_at
	          FROM alerts WHERE ($1 = '' OR status = $1) AND ($2 = 0 OR patient_id = $2)
	          ORDER BY created_at DESC LIMIT $3 OFFSET $4`
	rows, err := dbClient.ExecuteQuery(query, status, patientID, limit, offset)
	if err != nil {
		errorMsg := "Failed to list alerts"
		logger.Debug(errorMsg, log.Error(err))
		return nil, 0, serverError(errors2.FETCH_ALERT, errorMsg, err)
	}

	alerts := make([]model.Alert, 0, len(rows))
	for _, row := range rows {
		alerts = append(alerts, mapRowToAlert(row))
	}
	return alerts, total, nil
}

// UpdateStatus moves an alert to the given status, optionally reassigning
// it, and returns the number of affected rows.
func (s *AlertStore) UpdateStatus(id int64, status string, assignedTo *int64) (int64, error) {

	dbClient, err := provider.NewDBProvider().GetDBClient()
	logger := log.GetLogger()
	if err != nil {
		errorMsg := fmt.Sprintf("Failed to get db client for updating alert: %d", id)
		logger.Debug(errorMsg, log.Error(err))
		return 0, serverError(errors2.UPDATE_ALERT, errorMsg, err)
	}
	defer dbClient.Close()

	query := `UPDATE alerts SET status = $2, assigned_to = COALESCE($3, assigned_to), updated_at = $4 WHERE id = $1`
	affected, err := dbClient.ExecuteStatement(query, id, status, assignedTo, time.Now().UTC())
	if err != nil {
		errorMsg := fmt.Sprintf("Failed to update alert: %d", id)
		logger.Debug(errorMsg, log.Error(err))
		return 0, serverError(errors2.UPDATE_ALERT, errorMsg, err)
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

func mapRowToAlert(row map[string]interface{}) model.Alert {
	return model.Alert{
		ID:         row["id"].(int64),
		PatientID:  row["patient_id"].(int64),
		VitalID:    asInt64Ptr(row["vital_id"]),
		Type:       asString(row["type"]),
		Severity:   asString(row["severity"]),
		Message:    asString(row["message"]),
		Status:     asString(row["status"]),
		AssignedTo: asInt64Ptr(row["assigned_to"]),
		CreatedAt:  row["created_at"].(time.Time),
		UpdatedAt:  row["updated_at"].(time.Time),
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
