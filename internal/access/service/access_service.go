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
	"strconv"
	"sync"
	"time"

	pkgerrors "github.com/pkg/errors"
	"github.com/wso2/healthcare-records-service/internal/access/model"
	"github.com/wso2/healthcare-records-service/internal/access/store"
	auditService "github.com/wso2/healthcare-records-service/internal/audit/service"
	"github.com/wso2/healthcare-records-service/internal/system/cache"
	"github.com/wso2/healthcare-records-service/internal/system/config"
	"github.com/wso2/healthcare-records-service/internal/system/constants"
	errors2 "github.com/wso2/healthcare-records-service/internal/system/errors"
	"github.com/wso2/healthcare-records-service/internal/system/log"
	userStore "github.com/wso2/healthcare-records-service/internal/user/store"
	"golang.org/x/crypto/bcrypt"
)

type AccessServiceInterface interface {
	GrantAccess(patientID int64, req model.GrantAccessRequest) (*model.AccessGrant, error)
	RevokeAccess(patientID, staffID int64) (int64, error)
	CheckAccess(patientID, staffID int64) *model.AccessStatus
	ResolveGrant(patientID, staffID int64) (*model.AccessGrant, error)
}

// AccessService implements the consent engine: PIN-verified grants, bounded
// in time, revoked explicitly or lazily on expiry.
type AccessService struct {
	store    store.AccessGrantStoreInterface
	users    userStore.UserStoreInterface
	attempts *cache.Cache
	audit    auditService.AuditServiceInterface
}

// pinAttempts tracks failed PIN verifications per patient and staff pair.
// Entries expire with the lockout window.
var (
	pinAttempts     *cache.Cache
	pinAttemptsOnce sync.Once
)

// GetAccessService returns an access service with the Postgres stores and
// the shared attempt counter injected.
func GetAccessService() AccessServiceInterface {

	pinAttemptsOnce.Do(func() {
		pinAttempts = cache.NewCache(config.GetHRSRuntime().Config.PinLockout())
	})
	return &AccessService{
		store:    &store.AccessGrantStore{},
		users:    &userStore.UserStore{},
		attempts: pinAttempts,
		audit:    auditService.GetAuditService(),
	}
}

// GrantAccess verifies the patient's PIN and creates an active grant for the
// staff member, or renews the existing one in place. The new expiry is
// always now plus the configured grant window.
func (s *AccessService) GrantAccess(patientID int64, req model.GrantAccessRequest) (*model.AccessGrant, error) {

	if req.StaffID <= 0 {
		return nil, errors2.NewClientError(errors2.ErrorMessage{
			Code:        errors2.BAD_REQUEST.Code,
			Message:     errors2.BAD_REQUEST.Message,
			Description: "A valid staff_id is required.",
		}, http.StatusBadRequest)
	}
	if req.StaffID == patientID {
		return nil, errors2.NewClientError(errors2.ErrorMessage{
			Code:        errors2.BAD_REQUEST.Code,
			Message:     errors2.BAD_REQUEST.Message,
			Description: "A patient cannot grant access to itself.",
		}, http.StatusBadRequest)
	}

	if err := s.verifyPin(patientID, req.StaffID, req.Pin); err != nil {
		return nil, err
	}

	permissions := req.Permissions
	if permissions == nil {
		permissions = model.Permissions{
			constants.CategoryPhysical: true,
			constants.CategoryMental:   true,
		}
	}

	conf := config.GetHRSRuntime().Config
	expiresAt := time.Now().UTC().Add(conf.GrantWindow())

	existing, err := s.store.GetActiveGrant(patientID, req.StaffID)
	if err != nil {
		return nil, err
	}

	var grant *model.AccessGrant
	if existing != nil {
		grant, err = s.store.RenewGrant(patientID, req.StaffID, permissions, expiresAt)
	} else {
		grant, err = s.store.InsertGrant(&model.AccessGrant{
			PatientID:   patientID,
			StaffID:     req.StaffID,
			Permissions: permissions,
			ExpiresAt:   &expiresAt,
		})
		if pkgerrors.Is(err, store.ErrDuplicateActiveGrant) {
			// Lost the insert race against a concurrent grant for the same
			// pair; the surviving active row gets renewed instead.
			grant, err = s.store.RenewGrant(patientID, req.StaffID, permissions, expiresAt)
		}
	}
	if err != nil {
		return nil, err
	}
	if grant == nil {
		return nil, errors2.NewServerError(errors2.ErrorMessage{
			Code:        errors2.ADD_ACCESS_GRANT.Code,
			Message:     errors2.ADD_ACCESS_GRANT.Message,
			Description: fmt.Sprintf("Grant for patient: %d, staff: %d vanished while being written.", patientID, req.StaffID),
		}, nil)
	}

	s.audit.Record(log.AuditEvent{
		InitiatorID:   strconv.FormatInt(patientID, 10),
		InitiatorType: log.InitiatorTypePatient,
		TargetID:      strconv.FormatInt(req.StaffID, 10),
		TargetType:    log.TargetTypeAccessGrant,
		ActionID:      log.ActionGrantAccess,
		Data:          grant.Permissions,
	})
	return grant, nil
}

// RevokeAccess deactivates every active grant between the patient and the
// staff member. It is idempotent and reports how many rows were touched.
func (s *AccessService) RevokeAccess(patientID, staffID int64) (int64, error) {

	revoked, err := s.store.DeactivateGrants(patientID, staffID)
	if err != nil {
		return 0, err
	}
	if revoked > 0 {
		s.audit.Record(log.AuditEvent{
			InitiatorID:   strconv.FormatInt(patientID, 10),
			InitiatorType: log.InitiatorTypePatient,
			TargetID:      strconv.FormatInt(staffID, 10),
			TargetType:    log.TargetTypeAccessGrant,
			ActionID:      log.ActionRevokeAccess,
		})
	}
	return revoked, nil
}

// CheckAccess answers whether the staff member currently holds a grant for
// the patient. It never fails; a store error degrades to "no access".
func (s *AccessService) CheckAccess(patientID, staffID int64) *model.AccessStatus {

	grant, err := s.ResolveGrant(patientID, staffID)
	if err != nil {
		log.GetLogger().Error("Access check degraded to no access", log.Error(err),
			log.Int64("patient_id", patientID), log.Int64("staff_id", staffID))
		return &model.AccessStatus{HasAccess: false}
	}
	if grant == nil {
		return &model.AccessStatus{HasAccess: false}
	}
	return &model.AccessStatus{
		HasAccess:   true,
		Permissions: grant.Permissions,
		ExpiresAt:   grant.ExpiresAt,
	}
}

// ResolveGrant returns the live grant between a patient and a staff member,
// or nil when none exists. An expired row is deactivated on the way; the
// conditional write only succeeds for the expiry the reader observed, so a
// concurrent renewal survives and is picked up by the re-read.
func (s *AccessService) ResolveGrant(patientID, staffID int64) (*model.AccessGrant, error) {

	grant, err := s.store.GetActiveGrant(patientID, staffID)
	if err != nil {
		return nil, err
	}
	if grant == nil {
		return nil, nil
	}

	now := time.Now().UTC()
	if !grant.Expired(now) {
		return grant, nil
	}

	affected, err := s.store.DeactivateExpiredGrant(grant.ID, *grant.ExpiresAt)
	if err != nil {
		return nil, err
	}
	if affected > 0 {
		s.audit.Record(log.AuditEvent{
			InitiatorID:   "system",
			InitiatorType: log.InitiatorTypeSystem,
			TargetID:      strconv.FormatInt(grant.ID, 10),
			TargetType:    log.TargetTypeAccessGrant,
			ActionID:      log.ActionExpireAccess,
		})
		return nil, nil
	}

	// The conditional write lost against a renewal; the fresh row is live.
	renewed, err := s.store.GetActiveGrant(patientID, staffID)
	if err != nil {
		return nil, err
	}
	if renewed == nil || renewed.Expired(time.Now().UTC()) {
		return nil, nil
	}
	return renewed, nil
}

// verifyPin compares the supplied PIN against the patient's stored hash and
// enforces the lockout window on repeated failures.
func (s *AccessService) verifyPin(patientID, staffID int64, pin string) error {

	conf := config.GetHRSRuntime().Config
	attemptKey := fmt.Sprintf("pin:%d:%d", patientID, staffID)

	if count, ok := s.attempts.Get(attemptKey); ok {
		if n, isInt := count.(int); isInt && n >= conf.PinAttemptLimit() {
			return errors2.NewClientError(errors2.ErrorMessage{
				Code:        errors2.PIN_ATTEMPTS_EXCEEDED.Code,
				Message:     errors2.PIN_ATTEMPTS_EXCEEDED.Message,
				Description: errors2.PIN_ATTEMPTS_EXCEEDED.Description,
			}, http.StatusTooManyRequests)
		}
	}

	pinHash, found, err := s.users.GetPatientPinHash(patientID)
	if err != nil {
		return err
	}
	if !found {
		return errors2.NewClientError(errors2.ErrorMessage{
			Code:        errors2.PATIENT_NOT_FOUND.Code,
			Message:     errors2.PATIENT_NOT_FOUND.Message,
			Description: fmt.Sprintf("No patient profile found for user: %d", patientID),
		}, http.StatusBadRequest)
	}
	if pinHash == nil {
		return errors2.NewClientError(errors2.ErrorMessage{
			Code:        errors2.PATIENT_PIN_NOT_SET.Code,
			Message:     errors2.PATIENT_PIN_NOT_SET.Message,
			Description: errors2.PATIENT_PIN_NOT_SET.Description,
		}, http.StatusBadRequest)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(*pinHash), []byte(pin)); err != nil {
		failures := s.attempts.Increment(attemptKey)
		s.audit.Record(log.AuditEvent{
			InitiatorID:   strconv.FormatInt(patientID, 10),
			InitiatorType: log.InitiatorTypePatient,
			TargetID:      strconv.FormatInt(staffID, 10),
			TargetType:    log.TargetTypePatient,
			ActionID:      log.ActionPinVerificationFailed,
		})
		if failures >= conf.PinAttemptLimit() {
			return errors2.NewClientError(errors2.ErrorMessage{
				Code:        errors2.PIN_ATTEMPTS_EXCEEDED.Code,
				Message:     errors2.PIN_ATTEMPTS_EXCEEDED.Message,
				Description: errors2.PIN_ATTEMPTS_EXCEEDED.Description,
			}, http.StatusTooManyRequests)
		}
		return errors2.NewClientError(errors2.ErrorMessage{
			Code:        errors2.INVALID_PIN.Code,
			Message:     errors2.INVALID_PIN.Message,
			Description: errors2.INVALID_PIN.Description,
		}, http.StatusUnauthorized)
	}

	s.attempts.Delete(attemptKey)
	return nil
}
