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
	"encoding/json"
	"fmt"
	"time"

	pkgerrors "github.com/pkg/errors"
	"github.com/wso2/healthcare-records-service/internal/access/model"
	"github.com/wso2/healthcare-records-service/internal/system/database/client"
	"github.com/wso2/healthcare-records-service/internal/system/database/provider"
	errors2 "github.com/wso2/healthcare-records-service/internal/system/errors"
	"github.com/wso2/healthcare-records-service/internal/system/log"
)

// ErrDuplicateActiveGrant is returned when an insert collides with the
// partial unique index that allows at most one active grant per patient and
// staff pair.
var ErrDuplicateActiveGrant = pkgerrors.New("active grant already exists for this patient and staff pair")

// AccessGrantStoreInterface is the persistence contract for access grants.
type AccessGrantStoreInterface interface {
	InsertGrant(grant *model.AccessGrant) (*model.AccessGrant, error)
	GetActiveGrant(patientID, staffID int64) (*model.AccessGrant, error)
	RenewGrant(patientID, staffID int64, permissions model.Permissions, expiresAt time.Time) (*model.AccessGrant, error)
	DeactivateGrants(patientID, staffID int64) (int64, error)
	DeactivateExpiredGrant(grantID int64, observedExpiry time.Time) (int64, error)
}

// AccessGrantStore is the default Postgres-backed implementation.
type AccessGrantStore struct{}

// InsertGrant persists a new active grant. The partial unique index on
// (patient_id, staff_id) WHERE is_active guarantees at most one active grant
// per pair; a collision surfaces as ErrDuplicateActiveGrant so the caller
// can fall back to renewing the surviving row.
func (s *AccessGrantStore) InsertGrant(grant *model.AccessGrant) (*model.AccessGrant, error) {

	dbClient, err := provider.NewDBProvider().GetDBClient()
	logger := log.GetLogger()
	if err != nil {
		errorMsg := fmt.Sprintf("Failed to get db client for adding grant for patient: %d", grant.PatientID)
		logger.Debug(errorMsg, log.Error(err))
		return nil, errors2.NewServerError(errors2.ErrorMessage{
			Code:        errors2.ADD_ACCESS_GRANT.Code,
			Message:     errors2.ADD_ACCESS_GRANT.Message,
			Description: errorMsg,
		}, err)
	}
	defer dbClient.Close()

	permissionsJSON, err := json.Marshal(grant.Permissions)
	if err != nil {
		return nil, errors2.NewServerError(errors2.ErrorMessage{
			Code:        errors2.ADD_ACCESS_GRANT.Code,
			Message:     errors2.ADD_ACCESS_GRANT.Message,
			Description: fmt.Sprintf("Failed to encode permissions for patient: %d", grant.PatientID),
		}, err)
	}

	tx, err := dbClient.BeginTx()
	if err != nil {
		errorMsg := fmt.Sprintf("Failed to begin transaction for adding grant for patient: %d", grant.PatientID)
		logger.Debug(errorMsg, log.Error(err))
		return nil, errors2.NewServerError(errors2.ErrorMessage{
			Code:        errors2.ADD_ACCESS_GRANT.Code,
			Message:     errors2.ADD_ACCESS_GRANT.Message,
			Description: errorMsg,
		}, err)
	}

	now := time.Now().UTC()
	query := `INSERT INTO medical_access (patient_id, staff_id, permissions, is_active, granted_at, expires_at, updated_at)
	          VALUES ($1, $2, $3, TRUE, $4, $5, $6) RETURNING id`
	var grantID int64
	if err := tx.QueryRow(query, grant.PatientID, grant.StaffID, permissionsJSON, now, grant.ExpiresAt, now).Scan(&grantID); err != nil {
		_ = tx.Rollback()
		if client.IsUniqueViolation(err) {
			return nil, ErrDuplicateActiveGrant
		}
		errorMsg := fmt.Sprintf("Failed to add grant for patient: %d, staff: %d", grant.PatientID, grant.StaffID)
		logger.Debug(errorMsg, log.Error(err))
		return nil, errors2.NewServerError(errors2.ErrorMessage{
			Code:        errors2.ADD_ACCESS_GRANT.Code,
			Message:     errors2.ADD_ACCESS_GRANT.Message,
			Description: errorMsg,
		}, err)
	}

	if err := tx.Commit(); err != nil {
		return nil, errors2.NewServerError(errors2.ErrorMessage{
			Code:        errors2.ADD_ACCESS_GRANT.Code,
			Message:     errors2.ADD_ACCESS_GRANT.Message,
			Description: fmt.Sprintf("Failed to commit adding grant for patient: %d", grant.PatientID),
		}, err)
	}

	created := *grant
	created.ID = grantID
	created.IsActive = true
	created.GrantedAt = now
	created.UpdatedAt = now
	return &created, nil
}

// GetActiveGrant returns the active grant for a patient and staff pair, or
// nil when none exists. Expiry is not evaluated here; callers decide what an
// expired row means.
func (s *AccessGrantStore) GetActiveGrant(patientID, staffID int64) (*model.AccessGrant, error) {

	dbClient, err := provider.NewDBProvider().GetDBClient()
	logger := log.GetLogger()
	if err != nil {
		errorMsg := fmt.Sprintf("Failed to get db client for fetching grant for patient: %d", patientID)
		logger.Debug(errorMsg, log.Error(err))
		return nil, errors2.NewServerError(errors2.ErrorMessage{
			Code:        errors2.FETCH_ACCESS_GRANT.Code,
			Message:     errors2.FETCH_ACCESS_GRANT.Message,
			Description: errorMsg,
		}, err)
	}
	defer dbClient.Close()

	query := `SELECT id, patient_id, staff_id, permissions, is_active, granted_at, expires_at, updated_at
	          FROM medical_access WHERE patient_id = $1 AND staff_id = $2 AND is_active = TRUE`
	rows, err := dbClient.ExecuteQuery(query, patientID, staffID)
	if err != nil {
		errorMsg := fmt.Sprintf("Failed to fetch grant for patient: %d, staff: %d", patientID, staffID)
		logger.Debug(errorMsg, log.Error(err))
		return nil, errors2.NewServerError(errors2.ErrorMessage{
			Code:        errors2.FETCH_ACCESS_GRANT.Code,
			Message:     errors2.FETCH_ACCESS_GRANT.Message,
			Description: errorMsg,
		}, err)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return mapRowToGrant(rows[0])
}

// RenewGrant updates the active grant of a pair in place with new
// permissions and a new expiry. It returns nil when no active grant exists.
func (s *AccessGrantStore) RenewGrant(patientID, staffID int64, permissions model.Permissions, expiresAt time.Time) (*model.AccessGrant, error) {

	dbClient, err := provider.NewDBProvider().GetDBClient()
	logger := log.GetLogger()
	if err != nil {
		errorMsg := fmt.Sprintf("Failed to get db client for renewing grant for patient: %d", patientID)
		logger.Debug(errorMsg, log.Error(err))
		return nil, errors2.NewServerError(errors2.ErrorMessage{
			Code:        errors2.ADD_ACCESS_GRANT.Code,
			Message:     errors2.ADD_ACCESS_GRANT.Message,
			Description: errorMsg,
		}, err)
	}
	defer dbClient.Close()

	permissionsJSON, err := json.Marshal(permissions)
	if err != nil {
		return nil, errors2.NewServerError(errors2.ErrorMessage{
			Code:        errors2.ADD_ACCESS_GRANT.Code,
			Message:     errors2.ADD_ACCESS_GRANT.Message,
			Description: fmt.Sprintf("Failed to encode permissions for patient: %d", patientID),
		}, err)
	}

	query := `UPDATE medical_access SET permissions = $1, expires_at = $2, updated_at = $3
	          WHERE patient_id = $4 AND staff_id = $5 AND is_active = TRUE`
	affected, err := dbClient.ExecuteStatement(query, permissionsJSON, expiresAt, time.Now().UTC(), patientID, staffID)
	if err != nil {
		errorMsg := fmt.Sprintf("Failed to renew grant for patient: %d, staff: %d", patientID, staffID)
		logger.Debug(errorMsg, log.Error(err))
		return nil, errors2.NewServerError(errors2.ErrorMessage{
			Code:        errors2.ADD_ACCESS_GRANT.Code,
			Message:     errors2.ADD_ACCESS_GRANT.Message,
			Description: errorMsg,
		}, err)
	}
	if affected == 0 {
		return nil, nil
	}
	return s.GetActiveGrant(patientID, staffID)
}

// DeactivateGrants deactivates every active grant of a pair and returns the
// number of rows touched. Revocation is idempotent; zero is a valid result.
func (s *AccessGrantStore) DeactivateGrants(patientID, staffID int64) (int64, error) {

	dbClient, err := provider.NewDBProvider().GetDBClient()
	logger := log.GetLogger()
	if err != nil {
		errorMsg := fmt.Sprintf("Failed to get db client for revoking grants for patient: %d", patientID)
		logger.Debug(errorMsg, log.Error(err))
		return 0, errors2.NewServerError(errors2.ErrorMessage{
			Code:        errors2.REVOKE_ACCESS_GRANT.Code,
			Message:     errors2.REVOKE_ACCESS_GRANT.Message,
			Description: errorMsg,
		}, err)
	}
	defer dbClient.Close()

	query := `UPDATE medical_access SET is_active = FALSE, updated_at = $1
	          WHERE patient_id = $2 AND staff_id = $3 AND is_active = TRUE`
	affected, err := dbClient.ExecuteStatement(query, time.Now().UTC(), patientID, staffID)
	if err != nil {
		errorMsg := fmt.Sprintf("Failed to revoke grants for patient: %d, staff: %d", patientID, staffID)
		logger.Debug(errorMsg, log.Error(err))
		return 0, errors2.NewServerError(errors2.ErrorMessage{
			Code:        errors2.REVOKE_ACCESS_GRANT.Code,
			Message:     errors2.REVOKE_ACCESS_GRANT.Message,
			Description: errorMsg,
		}, err)
	}
	return affected, nil
}

// DeactivateExpiredGrant deactivates a grant only if it is still active and
// its expiry matches the observed value. The condition keeps concurrent
// readers from clobbering a grant that was renewed after they loaded it.
func (s *AccessGrantStore) DeactivateExpiredGrant(grantID int64, observedExpiry time.Time) (int64, error) {

	dbClient, err := provider.NewDBProvider().GetDBClient()
	logger := log.GetLogger()
	if err != nil {
		errorMsg := fmt.Sprintf("Failed to get db client for expiring grant: %d", grantID)
		logger.Debug(errorMsg, log.Error(err))
		return 0, errors2.NewServerError(errors2.ErrorMessage{
			Code:        errors2.REVOKE_ACCESS_GRANT.Code,
			Message:     errors2.REVOKE_ACCESS_GRANT.Message,
			Description: errorMsg,
		}, err)
	}
	defer dbClient.Close()

	query := `UPDATE medical_access SET is_active = FALSE, updated_at = $1
	          WHERE id = $2 AND is_active = TRUE AND expires_at = $3`
	affected, err := dbClient.ExecuteStatement(query, time.Now().UTC(), grantID, observedExpiry)
	if err != nil {
		errorMsg := fmt.Sprintf("Failed to expire grant: %d", grantID)
		logger.Debug(errorMsg, log.Error(err))
		return 0, errors2.NewServerError(errors2.ErrorMessage{
			Code:        errors2.REVOKE_ACCESS_GRANT.Code,
			Message:     errors2.REVOKE_ACCESS_GRANT.Message,
			Description: errorMsg,
		}, err)
	}
	return affected, nil
}

func mapRowToGrant(row map[string]interface{}) (*model.AccessGrant, error) {

	var permissions model.Permissions
	switch raw := row["permissions"].(type) {
	case []byte:
		if err := json.Unmarshal(raw, &permissions); err != nil {
			return nil, errors2.NewServerError(errors2.ErrorMessage{
				Code:        errors2.FETCH_ACCESS_GRANT.Code,
				Message:     errors2.FETCH_ACCESS_GRANT.Message,
				Description: "Failed to decode grant permissions.",
			}, err)
		}
	case string:
		if err := json.Unmarshal([]byte(raw), &permissions); err != nil {
			return nil, errors2.NewServerError(errors2.ErrorMessage{
				Code:        errors2.FETCH_ACCESS_GRANT.Code,
				Message:     errors2.FETCH_ACCESS_GRANT.Message,
				Description: "Failed to decode grant permissions.",
			}, err)
		}
	}

	return &model.AccessGrant{
		ID:          row["id"].(int64),
		PatientID:   row["patient_id"].(int64),
		StaffID:     row["staff_id"].(int64),
		Permissions: permissions,
		IsActive:    row["is_active"].(bool),
		GrantedAt:   row["granted_at"].(time.Time),
		ExpiresAt:   grantExpiry(row["expires_at"]),
		UpdatedAt:   row["updated_at"].(time.Time),
	}, nil
}

// grantExpiry maps a nullable expires_at column; a NULL means the grant
// never expires.
func grantExpiry(v interface{}) *time.Time {
	if t, ok := v.(time.Time); ok {
		return &t
	}
	return nil
}
