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
	"strings"

	pkgerrors "github.com/pkg/errors"
	"github.com/wso2/healthcare-records-service/internal/system/constants"
	errors2 "github.com/wso2/healthcare-records-service/internal/system/errors"
	"github.com/wso2/healthcare-records-service/internal/system/log"
	"github.com/wso2/healthcare-records-service/internal/system/pagination"
	"github.com/wso2/healthcare-records-service/internal/user/model"
	"github.com/wso2/healthcare-records-service/internal/user/store"
	"golang.org/x/crypto/bcrypt"
)

var validRoles = map[string]bool{
	constants.RoleUser:    true,
	constants.RoleNurse:   true,
	constants.RoleDoctor:  true,
	constants.RoleAdmin:   true,
	constants.RoleAuditor: true,
}

type UserServiceInterface interface {
	CreateUser(req model.CreateUserRequest) (*model.User, error)
	GetUser(id int64) (*model.User, error)
	GetPatientProfile(userID int64) (*model.PatientProfile, error)
	SetPatientPin(patientID int64, pin string) error
	ListUsers(role string, page, limit int) (*pagination.Page, error)
}

// UserService is the default implementation of UserServiceInterface.
type UserService struct {
	store store.UserStoreInterface
}

// GetUserService returns a user service with the Postgres store injected.
func GetUserService() UserServiceInterface {
	return &UserService{
		store: &store.UserStore{},
	}
}

// CreateUser registers a new account. Patient accounts also get a profile
// row, with the optional PIN hashed before it is stored.
func (s *UserService) CreateUser(req model.CreateUserRequest) (*model.User, error) {

	if err := validateCreateUserRequest(req); err != nil {
		return nil, err
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, errors2.NewServerError(errors2.ErrorMessage{
			Code:        errors2.PASSWORD_HASH.Code,
			Message:     errors2.PASSWORD_HASH.Message,
			Description: "Failed to hash the password of the new user.",
		}, err)
	}

	var pinHash *string
	if req.Pin != nil && *req.Pin != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(*req.Pin), bcrypt.DefaultCost)
		if err != nil {
			return nil, errors2.NewServerError(errors2.ErrorMessage{
				Code:        errors2.PASSWORD_HASH.Code,
				Message:     errors2.PASSWORD_HASH.Message,
				Description: "Failed to hash the PIN of the new user.",
			}, err)
		}
		h := string(hash)
		pinHash = &h
	}

	user := &model.User{
		Email: strings.ToLower(strings.TrimSpace(req.Email)),
		Name:  req.Name,
		Role:  req.Role,
	}
	profile := &model.PatientProfile{
		DateOfBirth:      req.DateOfBirth,
		Gender:           req.Gender,
		BloodGroup:       req.BloodGroup,
		EmergencyContact: req.EmergencyContact,
	}

	created, err := s.store.InsertUser(user, string(passwordHash), pinHash, profile)
	if err != nil {
		if pkgerrors.Is(err, store.ErrDuplicateUser) {
			return nil, errors2.NewClientError(errors2.ErrorMessage{
				Code:        errors2.USER_ALREADY_EXISTS.Code,
				Message:     errors2.USER_ALREADY_EXISTS.Message,
				Description: fmt.Sprintf("An account already exists for email: %s", user.Email),
			}, http.StatusConflict)
		}
		return nil, err
	}

	log.GetLogger().Info("User account created",
		log.Int64("user_id", created.ID), log.String("role", created.Role))
	return created, nil
}

// GetUser fetches a user by id.
func (s *UserService) GetUser(id int64) (*model.User, error) {

	user, err := s.store.GetUserByID(id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, errors2.NewClientError(errors2.ErrorMessage{
			Code:        errors2.USER_NOT_FOUND.Code,
			Message:     errors2.USER_NOT_FOUND.Message,
			Description: fmt.Sprintf("No user found for id: %d", id),
		}, http.StatusNotFound)
	}
	return user, nil
}

// GetPatientProfile fetches the patient profile of a user.
func (s *UserService) GetPatientProfile(userID int64) (*model.PatientProfile, error) {

	profile, err := s.store.GetPatientProfile(userID)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return nil, errors2.NewClientError(errors2.ErrorMessage{
			Code:        errors2.PATIENT_NOT_FOUND.Code,
			Message:     errors2.PATIENT_NOT_FOUND.Message,
			Description: fmt.Sprintf("No patient profile found for user: %d", userID),
		}, http.StatusNotFound)
	}
	return profile, nil
}

// SetPatientPin hashes and stores a new access PIN for the patient.
func (s *UserService) SetPatientPin(patientID int64, pin string) error {

	if len(pin) < 4 {
		return errors2.NewClientError(errors2.ErrorMessage{
			Code:        errors2.BAD_REQUEST.Code,
			Message:     errors2.BAD_REQUEST.Message,
			Description: "PIN must be at least 4 characters long.",
		}, http.StatusBadRequest)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(pin), bcrypt.DefaultCost)
	if err != nil {
		return errors2.NewServerError(errors2.ErrorMessage{
			Code:        errors2.PASSWORD_HASH.Code,
			Message:     errors2.PASSWORD_HASH.Message,
			Description: fmt.Sprintf("Failed to hash the PIN of patient: %d", patientID),
		}, err)
	}

	affected, err := s.store.SetPatientPin(patientID, string(hash))
	if err != nil {
		return err
	}
	if affected == 0 {
		return errors2.NewClientError(errors2.ErrorMessage{
			Code:        errors2.PATIENT_NOT_FOUND.Code,
			Message:     errors2.PATIENT_NOT_FOUND.Message,
			Description: fmt.Sprintf("No patient profile found for user: %d", patientID),
		}, http.StatusNotFound)
	}
	return nil
}

// ListUsers returns a page of users filtered by role.
func (s *UserService) ListUsers(role string, page, limit int) (*pagination.Page, error) {

	offset := (page - 1) * limit
	users, total, err := s.store.ListUsers(role, limit, offset)
	if err != nil {
		return nil, err
	}
	return &pagination.Page{
		Items: users,
		Meta:  pagination.NewMeta(total, page, limit),
	}, nil
}

func validateCreateUserRequest(req model.CreateUserRequest) error {

	if req.Email == "" || !strings.Contains(req.Email, "@") {
		return errors2.NewClientError(errors2.ErrorMessage{
			Code:        errors2.BAD_REQUEST.Code,
			Message:     errors2.BAD_REQUEST.Message,
			Description: "A valid email is required.",
		}, http.StatusBadRequest)
	}
	if len(req.Password) < 8 {
		return errors2.NewClientError(errors2.ErrorMessage{
			Code:        errors2.BAD_REQUEST.Code,
			Message:     errors2.BAD_REQUEST.Message,
			Description: "Password must be at least 8 characters long.",
		}, http.StatusBadRequest)
	}
	if !validRoles[req.Role] {
		return errors2.NewClientError(errors2.ErrorMessage{
			Code:        errors2.BAD_REQUEST.Code,
			Message:     errors2.BAD_REQUEST.Message,
			Description: fmt.Sprintf("Unknown role: %s", req.Role),
		}, http.StatusBadRequest)
	}
	return nil
}
