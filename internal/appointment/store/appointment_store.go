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

	"github.com/wso2/healthcare-records-service/internal/appointment/model"
	"github.com/wso2/healthcare-records-service/internal/system/constants"
	"github.com/wso2/healthcare-records-service/internal/system/database/provider"
	errors2 "github.com/wso2/healthcare-records-service/internal/system/errors"
	"github.com/wso2/healthcare-records-service/internal/system/log"
)

// AppointmentStoreInterface is the persistence contract for appointments.
type AppointmentStoreInterface interface {
	Insert(appointment *model.Appointment) (*model.Appointment, error)
	GetByID(id int64) (*model.Appointment, error)
	ListForUser(userID int64, limit, offset int) ([]model.Appointment, int, error)
	CountConflicts(staffID int64, start, end time.Time) (int, error)
	UpdateStatus(id int64, status string) (int64, error)
	ListDueForReminder(from, to time.Time) ([]model.Appointment, error)
	MarkReminderSent(id int64) (int64, error)
}

// AppointmentStore is the default Postgres-backed implementation.
type AppointmentStore struct{}

// Insert persists an appointment.
func (s *AppointmentStore) Insert(appointment *model.Appointment) (*model.Appointment, error) {

	dbClient, err := provider.NewDBProvider().GetDBClient()
	logger := log.GetLogger()
	if err != nil {
		errorMsg := fmt.Sprintf("Failed to get db client for adding appointment for patient: %d", appointment.PatientID)
		logger.Debug(errorMsg, log.Error(err))
		return nil, serverError(errors2.ADD_APPOINTMENT, errorMsg, err)
	}
	defer dbClient.Close()

	tx, err := dbClient.BeginTx()
	if err != nil {
		errorMsg := fmt.Sprintf("Failed to begin transaction for adding appointment for patient: %d", appointment.PatientID)
		logger.Debug(errorMsg, log.Error(err))
		return nil, serverError(errors2.ADD_APPOINTMENT, errorMsg, err)
	}

	now := time.Now().UTC()
	query := `INSERT INTO appointments (patient_id, staff_id, scheduled_at, duration_minutes, status, reason,
	          reminder_sent, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, FALSE, $7, $7) RETURNING id`
	var id int64
	if err := tx.QueryRow(query, appointment.PatientID, appointment.StaffID, appointment.ScheduledAt,
		appointment.DurationMinutes, appointment.Status, appointment.Reason, now).Scan(&id); err != nil {
		_ = tx.Rollback()
		errorMsg := fmt.Sprintf("Failed to add appointment for patient: %d", appointment.PatientID)
		logger.Debug(errorMsg, log.Error(err))
		return nil, serverError(errors2.ADD_APPOINTMENT, errorMsg, err)
	}
	if err := tx.Commit(); err != nil {
		return nil, serverError(errors2.ADD_APPOINTMENT,
			fmt.Sprintf("Failed to commit adding appointment for patient: %d", appointment.PatientID), err)
	}

	created := *appointment
	created.ID = id
	created.ReminderSent = false
	created.CreatedAt = now
	created.UpdatedAt = now
	return &created, nil
}

// GetByID returns the appointment with the given id, or nil when absent.
func (s *AppointmentStore) GetByID(id int64) (*model.Appointment, error) {

	dbClient, err := provider.NewDBProvider().GetDBClient()
	logger := log.GetLogger()
	if err != nil {
		errorMsg := fmt.Sprintf("Failed to get db client for fetching appointment: %d", id)
		logger.Debug(errorMsg, log.Error(err))
		return nil, serverError(errors2.FETCH_APPOINTMENT, errorMsg, err)
	}
	defer dbClient.Close()

	rows, err := dbClient.ExecuteQuery(selectColumns+` WHERE id = $1`, id)
	if err != nil {
		errorMsg := fmt.Sprintf("Failed to fetch appointment: %d", id)
		logger.Debug(errorMsg, log.Error(err))
		return nil, serverError(errors2.FETCH_APPOINTMENT, errorMsg, err)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	appointment := mapRowToAppointment(rows[0])
	return &appointment, nil
}

// ListForUser returns a page of appointments where the user is either the
// patient or the staff member, soonest first.
func (s *AppointmentStore) ListForUser(userID int64, limit, offset int) ([]model.Appointment, int, error) {

	dbClient, err := provider.NewDBProvider().GetDBClient()
	logger := log.GetLogger()
	if err != nil {
		errorMsg := fmt.Sprintf("Failed to get db client for listing appointments of user: %d", userID)
		logger.Debug(errorMsg, log.Error(err))
		return nil, 0, serverError(errors2.FETCH_APPOINTMENT, errorMsg, err)
	}
	defer dbClient.Close()

	countRows, err := dbClient.ExecuteQuery(
		`SELECT COUNT(*) AS total FROM appointments WHERE patient_id = $1 OR staff_id = $1`, userID)
	if err != nil {
		errorMsg := fmt.Sprintf("Failed to count appointments of user: %d", userID)
		logger.Debug(errorMsg, log.Error(err))
		return nil, 0, serverError(errors2.FETCH_APPOINTMENT, errorMsg, err)
	}
	total := 0
	if len(countRows) > 0 {
		if v, ok := countRows[0]["total"].(int64); ok {
			total = int(v)
		}
	}

	query := selectColumns + ` WHERE patient_id = $1 OR staff_id = $1 ORDER BY scheduled_at ASC LIMIT $2 OFFSET $3`
	rows, err := dbClient.ExecuteQuery(query, userID, limit, offset)
	if err != nil {
		errorMsg := fmt.Sprintf("Failed to list appointments of user: %d", userID)
		logger.Debug(errorMsg, log.Error(err))
		return nil, 0, serverError(errors2.FETCH_APPOINTMENT, errorMsg, err)
	}

	appointments := make([]model.Appointment, 0, len(rows))
	for _, row := range rows {
		appointments = append(appointments, mapRowToAppointment(row))
	}
	return appointments, total, nil
}

// CountConflicts counts live appointments of the staff member overlapping
// the [start, end) slot. Cancelled and completed appointments do not block.
func (s *AppointmentStore) CountConflicts(staffID int64, start, end time.Time) (int, error) {

	dbClient, err := provider.NewDBProvider().GetDBClient()
	logger := log.GetLogger()
	if err != nil {
		errorMsg := fmt.Sprintf("Failed to get db client for checking conflicts of staff: %d", staffID)
		logger.Debug(errorMsg, log.Error(err))
		return 0, serverError(errors2.FETCH_APPOINTMENT, errorMsg, err)
	}
	defer dbClient.Close()

	query := `SELECT COUNT(*) AS total FROM appointments
	          WHERE staff_id = $1 AND status IN ($2, $3)
	          AND scheduled_at < $5
	          AND scheduled_at + make_interval(mins => duration_minutes) > $4`
	rows, err := dbClient.ExecuteQuery(query, staffID,
		constants.AppointmentStatusRequested, constants.AppointmentStatusConfirmed, start, end)
	if err != nil {
		errorMsg := fmt.Sprintf("Failed to check conflicts of staff: %d", staffID)
		logger.Debug(errorMsg, log.Error(err))
		return 0, serverError(errors2.FETCH_APPOINTMENT, errorMsg, err)
	}
	if len(rows) == 0 {
		return 0, nil
	}
	if v, ok := rows[0]["total"].(int64); ok {
		return int(v), nil
	}
	return 0, nil
}

// UpdateStatus moves an appointment to the given status and returns the
// number of affected rows.
func (s *AppointmentStore) UpdateStatus(id int64, status string) (int64, error) {

	dbClient, err := provider.NewDBProvider().GetDBClient()
	logger := log.GetLogger()
	if err != nil {
		errorMsg := fmt.Sprintf("Failed to get db client for updating appointment: %d", id)
		logger.Debug(errorMsg, log.Error(err))
		return 0, serverError(errors2.UPDATE_APPOINTMENT, errorMsg, err)
	}
	defer dbClient.Close()

	query := `UPDATE appointments SET status = $2, updated_at = $3 WHERE id = $1`
	affected, err := dbClient.ExecuteStatement(query, id, status, time.Now().UTC())
	if err != nil {
		errorMsg := fmt.Sprintf("Failed to update appointment: %d", id)
		logger.Debug(errorMsg, log.Error(err))
		return 0, serverError(errors2.UPDATE_APPOINTMENT, errorMsg, err)
	}
	return affected, nil
}

// ListDueForReminder returns unreminded live appointments scheduled within
// the [from, to) window.
func (s *AppointmentStore) ListDueForReminder(from, to time.Time) ([]model.Appointment, error) {

	dbClient, err := provider.NewDBProvider().GetDBClient()
	logger := log.GetLogger()
	if err != nil {
		errorMsg := "Failed to get db client for listing appointments due for reminder"
		logger.Debug(errorMsg, log.Error(err))
		return nil, serverError(errors2.FETCH_APPOINTMENT, errorMsg, err)
	}
	defer dbClient.Close()

	query := selectColumns + ` WHERE reminder_sent = FALSE AND status IN ($1, $2)
	          AND scheduled_at >= $3 AND scheduled_at < $4 ORDER BY scheduled_at ASC`
	rows, err := dbClient.ExecuteQuery(query,
		constants.AppointmentStatusRequested, constants.AppointmentStatusConfirmed, from, to)
	if err != nil {
		errorMsg := "Failed to list appointments due for reminder"
		logger.Debug(errorMsg, log.Error(err))
		return nil, serverError(errors2.FETCH_APPOINTMENT, errorMsg, err)
	}

	appointments := make([]model.Appointment, 0, len(rows))
	for _, row := range rows {
		appointments = append(appointments, mapRowToAppointment(row))
	}
	return appointments, nil
}

// MarkReminderSent flags an appointment as reminded.
func (s *AppointmentStore) MarkReminderSent(id int64) (int64, error) {

	dbClient, err := provider.NewDBProvider().GetDBClient()
	logger := log.GetLogger()
	if err != nil {
		errorMsg := fmt.Sprintf("Failed to get db client for marking reminder sent for appointment: %d", id)
		logger.Debug(errorMsg, log.Error(err))
		return 0, serverError(errors2.UPDATE_APPOINTMENT, errorMsg, err)
	}
	defer dbClient.Close()

	query := `UPDATE appointments SET reminder_sent = TRUE WHERE id = $1 AND reminder_sent = FALSE`
	affected, err := dbClient.ExecuteStatement(query, id)
	if err != nil {
		errorMsg := fmt.Sprintf("Failed to mark reminder sent for appointment: %d", id)
		logger.Debug(errorMsg, log.Error(err))
		return 0, serverError(errors2.UPDATE_APPOINTMENT, errorMsg, err)
	}
	return affected, nil
}

const selectColumns = `SELECT id, patient_id, staff_id, scheduled_at, duration_minutes, status, reason,
	reminder_sent, created_at, updated_at FROM appointments`

func serverError(code errors2.ErrorMessage, description string, cause error) error {
	return errors2.NewServerError(errors2.ErrorMessage{
		Code:        code.Code,
		Message:     code.Message,
		Description: description,
	}, cause)
}

func mapRowToAppointment(row map[string]interface{}) model.Appointment {
	return model.Appointment{
		ID:              row["id"].(int64),
		PatientID:       row["patient_id"].(int64),
		StaffID:         row["staff_id"].(int64),
		ScheduledAt:     row["scheduled_at"].(time.Time),
		DurationMinutes: asInt(row["duration_minutes"]),
		Status:          asString(row["status"]),
		Reason:          asString(row["reason"]),
		ReminderSent:    row["reminder_sent"].(bool),
		CreatedAt:       row["created_at"].(time.Time),
		UpdatedAt:       row["updated_at"].(time.Time),
	}
}

func asInt(v interface{}) int {
	switch n := v.(type) {
	case int64:
		return int(n)
	case int:
		return n
	default:
		return 0
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
