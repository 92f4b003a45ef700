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

	pkgerrors "github.com/pkg/errors"
	"github.com/wso2/healthcare-records-service/internal/system/constants"
	"github.com/wso2/healthcare-records-service/internal/system/database/client"
	"github.com/wso2/healthcare-records-service/internal/system/database/provider"
	errors2 "github.com/wso2/healthcare-records-service/internal/system/errors"
	"github.com/wso2/healthcare-records-service/internal/system/log"
	"github.com/wso2/healthcare-records-service/internal/user/model"
)

// ErrDuplicateUser is returned when an insert collides with the unique email
// constraint.
var ErrDuplicateUser = pkgerrors.New("user with this email already exists")

// UserStoreInterface is the persistence contract for user accounts and
// patient profiles.
type UserStoreInterface interface {
	InsertUser(user *model.User, passwordHash string, pinHash *string, profile *model.PatientProfile) (*model.User, error)
	GetUserByID(id int64) (*model.User, error)
	GetCredentialsByEmail(email string) (*model.Credentials, error)
	GetPatientProfile(userID int64) (*model.PatientProfile, error)
	GetPatientPinHash(patientID int64) (*string, bool, error)
	SetPatientPin(patientID int64, pinHash string) (int64, error)
	ListUsers(role string, limit, offset int) ([]model.User, int, error)
}

// UserStore is the default Postgres-backed implementation.
type UserStore struct{}

// InsertUser persists a user account, and for patient accounts its profile
// row, in a single transaction.
func (s *UserStore) InsertUser(user *model.User, passwordHash string, pinHash *string, profile *model.PatientProfile) (*model.User, error) {

	dbClient, err := provider.NewDBProvider().GetDBClient()
	logger := log.GetLogger()
	if err != nil {
		errorMsg := fmt.Sprintf("Failed to get db client for adding user: %s", user.Email)
		logger.Debug(errorMsg, log.Error(err))
		return nil, errors2.NewServerError(errors2.ErrorMessage{
			Code:        errors2.ADD_USER.Code,
			Message:     errors2.ADD_USER.Message,
			Description: errorMsg,
		}, err)
	}
	defer dbClient.Close()

	tx, err := dbClient.BeginTx()
	if err != nil {
		errorMsg := fmt.Sprintf("Failed to begin transaction for adding user: %s", user.Email)
		logger.Debug(errorMsg, log.Error(err))
		return nil, errors2.NewServerError(errors2.ErrorMessage{
			Code:        errors2.ADD_USER.Code,
			Message:     errors2.ADD_USER.Message,
			Description: errorMsg,
		}, err)
	}

	now := time.Now().UTC()
	query := `INSERT INTO users (email, name, role, password_hash, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`
	var userID int64
	if err := tx.QueryRow(query, user.Email, user.Name, user.Role, passwordHash, now, now).Scan(&userID); err != nil {
		_ = tx.Rollback()
		if client.IsUniqueViolation(err) {
			return nil, ErrDuplicateUser
		}
		errorMsg := fmt.Sprintf("Failed to add user: %s", user.Email)
		logger.Debug(errorMsg, log.Error(err))
		return nil, errors2.NewServerError(errors2.ErrorMessage{
			Code:        errors2.ADD_USER.Code,
			Message:     errors2.ADD_USER.Message,
			Description: errorMsg,
		}, err)
	}

	if user.Role == constants.RoleUser {
		profileQuery := `INSERT INTO patient_profiles (user_id, date_of_birth, gender, blood_group, emergency_contact, access_pin_hash)
		                 VALUES ($1, $2, $3, $4, $5, $6)`
		var dob, gender, bloodGroup, emergencyContact *string
		if profile != nil {
			dob = profile.DateOfBirth
			gender = profile.Gender
			bloodGroup = profile.BloodGroup
			emergencyContact = profile.EmergencyContact
		}
		if _, err := tx.Exec(profileQuery, userID, dob, gender, bloodGroup, emergencyContact, pinHash); err != nil {
			_ = tx.Rollback()
			errorMsg := fmt.Sprintf("Failed to add patient profile for user: %s", user.Email)
			logger.Debug(errorMsg, log.Error(err))
			return nil, errors2.NewServerError(errors2.ErrorMessage{
				Code:        errors2.ADD_USER.Code,
				Message:     errors2.ADD_USER.Message,
				Description: errorMsg,
			}, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, errors2.NewServerError(errors2.ErrorMessage{
			Code:        errors2.ADD_USER.Code,
			Message:     errors2.ADD_USER.Message,
			Description: fmt.Sprintf("Failed to commit adding user: %s", user.Email),
		}, err)
	}

	created := *user
	created.ID = userID
	created.CreatedAt = now
	created.UpdatedAt = now
	return &created, nil
}

// GetUserByID returns a user by id, or nil when no such user exists.
func (s *UserStore) GetUserByID(id int64) (*model.User, error) {

	dbClient, err := provider.NewDBProvider().GetDBClient()
	logger := log.GetLogger()
	if err != nil {
		errorMsg := fmt.Sprintf("Failed to get db client for fetching user: %d", id)
		logger.Debug(errorMsg, log.Error(err))
		return nil, errors2.NewServerError(errors2.ErrorMessage{
			Code:        errors2.FETCH_USER.Code,
			Message:     errors2.FETCH_USER.Message,
			Description: errorMsg,
		}, err)
	}
	defer dbClient.Close()

	query := `SELECT id, email, name, role, created_at, updated_at FROM users WHERE id = $1`
	rows, err := dbClient.ExecuteQuery(query, id)
	if err != nil {
		errorMsg := fmt.Sprintf("Failed to fetch user: %d", id)
		logger.Debug(errorMsg, log.Error(err))
		return nil, errors2.NewServerError(errors2.ErrorMessage{
			Code:        errors2.FETCH_USER.Code,
			Message:     errors2.FETCH_USER.Message,
			Description: errorMsg,
		}, err)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return mapRowToUser(rows[0]), nil
}

// GetCredentialsByEmail returns the user and its password hash for login, or
// nil when no account carries the email.
func (s *UserStore) GetCredentialsByEmail(email string) (*model.Credentials, error) {

	dbClient, err := provider.NewDBProvider().GetDBClient()
	logger := log.GetLogger()
	if err != nil {
		errorMsg := fmt.Sprintf("Failed to get db client for fetching user by email: %s", email)
		logger.Debug(errorMsg, log.Error(err))
		return nil, errors2.NewServerError(errors2.ErrorMessage{
			Code:        errors2.FETCH_USER.Code,
			Message:     errors2.FETCH_USER.Message,
			Description: errorMsg,
		}, err)
	}
	defer dbClient.Close()

	query := `SELECT id, email, name, role, password_hash, created_at, updated_at FROM users WHERE email = $1`
	rows, err := dbClient.ExecuteQuery(query, email)
	if err != nil {
		errorMsg := fmt.Sprintf("Failed to fetch user by email: %s", email)
		logger.Debug(errorMsg, log.Error(err))
		return nil, errors2.NewServerError(errors2.ErrorMessage{
			Code:        errors2.FETCH_USER.Code,
			Message:     errors2.FETCH_USER.Message,
			Description: errorMsg,
		}, err)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	row := rows[0]
	return &model.Credentials{
		User:         *mapRowToUser(row),
		PasswordHash: asString(row["password_hash"]),
	}, nil
}

// GetPatientProfile returns the patient profile of a user, or nil when the
// user has none.
func (s *UserStore) GetPatientProfile(userID int64) (*model.PatientProfile, error) {

	dbClient, err := provider.NewDBProvider().GetDBClient()
	logger := log.GetLogger()
	if err != nil {
		errorMsg := fmt.Sprintf("Failed to get db client for fetching patient profile: %d", userID)
		logger.Debug(errorMsg, log.Error(err))
		return nil, errors2.NewServerError(errors2.ErrorMessage{
			Code:        errors2.FETCH_USER.Code,
			Message:     errors2.FETCH_USER.Message,
			Description: errorMsg,
		}, err)
	}
	defer dbClient.Close()

	query := `SELECT user_id, date_of_birth, gender, blood_group, emergency_contact, access_pin_hash
	          FROM patient_profiles WHERE user_id = $1`
	rows, err := dbClient.ExecuteQuery(query, userID)
	if err != nil {
		errorMsg := fmt.Sprintf("Failed to fetch patient profile: %d", userID)
		logger.Debug(errorMsg, log.Error(err))
		return nil, errors2.NewServerError(errors2.ErrorMessage{
			Code:        errors2.FETCH_USER.Code,
			Message:     errors2.FETCH_USER.Message,
			Description: errorMsg,
		}, err)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	row := rows[0]
	return &model.PatientProfile{
		UserID:           row["user_id"].(int64),
		DateOfBirth:      asStringPtr(row["date_of_birth"]),
		Gender:           asStringPtr(row["gender"]),
		BloodGroup:       asStringPtr(row["blood_group"]),
		EmergencyContact: asStringPtr(row["emergency_contact"]),
		HasPin:           row["access_pin_hash"] != nil,
	}, nil
}

// GetPatientPinHash returns the PIN hash of a patient. The second return
// value reports whether a patient profile exists at all; a nil hash with
// found=true means the patient never set a PIN.
func (s *UserStore) GetPatientPinHash(patientID int64) (*string, bool, error) {

	dbClient, err := provider.NewDBProvider().GetDBClient()
	logger := log.GetLogger()
	if err != nil {
		errorMsg := fmt.Sprintf("Failed to get db client for fetching PIN of patient: %d", patientID)
		logger.Debug(errorMsg, log.Error(err))
		return nil, false, errors2.NewServerError(errors2.ErrorMessage{
			Code:        errors2.FETCH_USER.Code,
			Message:     errors2.FETCH_USER.Message,
			Description: errorMsg,
		}, err)
	}
	defer dbClient.Close()

	query := `SELECT access_pin_hash FROM patient_profiles WHERE user_id = $1`
	rows, err := dbClient.ExecuteQuery(query, patientID)
	if err != nil {
		errorMsg := fmt.Sprintf("Failed to fetch PIN of patient: %d", patientID)
		logger.Debug(errorMsg, log.Error(err))
		return nil, false, errors2.NewServerError(errors2.ErrorMessage{
			Code:        errors2.FETCH_USER.Code,
			Message:     errors2.FETCH_USER.Message,
			Description: errorMsg,
		}, err)
	}
	if len(rows) == 0 {
		return nil, false, nil
	}
	return asStringPtr(rows[0]["access_pin_hash"]), true, nil
}

// SetPatientPin replaces the PIN hash of a patient and returns the number of
// affected rows.
func (s *UserStore) SetPatientPin(patientID int64, pinHash string) (int64, error) {

	dbClient, err := provider.NewDBProvider().GetDBClient()
	logger := log.GetLogger()
	if err != nil {
		errorMsg := fmt.Sprintf("Failed to get db client for setting PIN of patient: %d", patientID)
		logger.Debug(errorMsg, log.Error(err))
		return 0, errors2.NewServerError(errors2.ErrorMessage{
			Code:        errors2.ADD_USER.Code,
			Message:     errors2.ADD_USER.Message,
			Description: errorMsg,
		}, err)
	}
	defer dbClient.Close()

	query := `UPDATE patient_profiles SET access_pin_hash = $1 WHERE user_id = $2`
	affected, err := dbClient.ExecuteStatement(query, pinHash, patientID)
	if err != nil {
		errorMsg := fmt.Sprintf("Failed to set PIN of patient: %d", patientID)
		logger.Debug(errorMsg, log.Error(err))
		return 0, errors2.NewServerError(errors2.ErrorMessage{
			Code:        errors2.ADD_USER.Code,
			Message:     errors2.ADD_USER.Message,
			Description: errorMsg,
		}, err)
	}
	return affected, nil
}

// ListUsers returns a page of users, optionally filtered by role, together
// with the total count.
func (s *UserStore) ListUsers(role string, limit, offset int) ([]model.User, int, error) {

	dbClient, err := provider.NewDBProvider().GetDBClient()
	logger := log.GetLogger()
	if err != nil {
		errorMsg := "Failed to get db client for listing users"
		logger.Debug(errorMsg, log.Error(err))
		return nil, 0, errors2.NewServerError(errors2.ErrorMessage{
			Code:        errors2.FETCH_USER.Code,
			Message:     errors2.FETCH_USER.Message,
			Description: errorMsg,
		}, err)
	}
	defer dbClient.Close()

	countQuery := `SELECT COUNT(*) AS total FROM users WHERE ($1 = '' OR role = $1)`
	countRows, err := dbClient.ExecuteQuery(countQuery, role)
	if err != nil {
		errorMsg := "Failed to count users"
		logger.Debug(errorMsg, log.Error(err))
		return nil, 0, errors2.NewServerError(errors2.ErrorMessage{
			Code:        errors2.FETCH_USER.Code,
			Message:     errors2.FETCH_USER.Message,
			Description: errorMsg,
		}, err)
	}
	total := int(countRows[0]["total"].(int64))

	query := `SELECT id, email, name, role, created_at, updated_at FROM users
	          WHERE ($1 = '' OR role = $1) ORDER BY created_at DESC LIMIT $2 OFFSET $3`
	rows, err := dbClient.ExecuteQuery(query, role, limit, offset)
	if err != nil {
		errorMsg := "Failed to list users"
		logger.Debug(errorMsg, log.Error(err))
		return nil, 0, errors2.NewServerError(errors2.ErrorMessage{
			Code:        errors2.FETCH_USER.Code,
			Message:     errors2.FETCH_USER.Message,
			Description: errorMsg,
		}, err)
	}

	users := make([]model.User, 0, len(rows))
	for _, row := range rows {
		users = append(users, *mapRowToUser(row))
	}
	return users, total, nil
}

func mapRowToUser(row map[string]interface{}) *model.User {
	return &model.User{
		ID:        row["id"].(int64),
		Email:     asString(row["email"]),
		Name:      asString(row["name"]),
		Role:      asString(row["role"]),
		CreatedAt: row["created_at"].(time.Time),
		UpdatedAt: row["updated_at"].(time.Time),
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
