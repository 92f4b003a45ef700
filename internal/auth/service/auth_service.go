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
	"net/http"
	"strconv"
	"strings"

	auditService "github.com/wso2/healthcare-records-service/internal/audit/service"
	"github.com/wso2/healthcare-records-service/internal/auth/model"
	"github.com/wso2/healthcare-records-service/internal/system/authn"
	errors2 "github.com/wso2/healthcare-records-service/internal/system/errors"
	"github.com/wso2/healthcare-records-service/internal/system/log"
	userStore "github.com/wso2/healthcare-records-service/internal/user/store"
	"golang.org/x/crypto/bcrypt"
)

type AuthServiceInterface interface {
	Login(req model.LoginRequest) (*model.LoginResponse, error)
}

// AuthService verifies credentials and issues session tokens.
type AuthService struct {
	users userStore.UserStoreInterface
	audit auditService.AuditServiceInterface
}

// GetAuthService returns an auth service with the user store injected.
func GetAuthService() AuthServiceInterface {
	return &AuthService{
		users: &userStore.UserStore{},
		audit: auditService.GetAuditService(),
	}
}

// Login checks the email and password and returns a signed session token.
// Unknown accounts and wrong passwords produce the same error.
func (s *AuthService) Login(req model.LoginRequest) (*model.LoginResponse, error) {

	email := strings.ToLower(strings.TrimSpace(req.Email))

	credentials, err := s.users.GetCredentialsByEmail(email)
	if err != nil {
		return nil, err
	}
	if credentials == nil {
		s.auditFailure(email)
		return nil, invalidCredentials()
	}

	if err := bcrypt.CompareHashAndPassword([]byte(credentials.PasswordHash), []byte(req.Password)); err != nil {
		s.auditFailure(email)
		return nil, invalidCredentials()
	}

	token, err := authn.IssueSessionToken(credentials.User.ID, credentials.User.Email, credentials.User.Role)
	if err != nil {
		return nil, errors2.NewServerError(errors2.ErrorMessage{
			Code:        errors2.TOKEN_ISSUE.Code,
			Message:     errors2.TOKEN_ISSUE.Message,
			Description: "Failed to sign the session token.",
		}, err)
	}

	s.audit.Record(log.AuditEvent{
		InitiatorID:   strconv.FormatInt(credentials.User.ID, 10),
		InitiatorType: initiatorType(credentials.User.Role),
		TargetID:      strconv.FormatInt(credentials.User.ID, 10),
		TargetType:    log.TargetTypePatient,
		ActionID:      log.ActionAuthenticationSuccess,
	})

	return &model.LoginResponse{
		Token: token,
		User:  credentials.User,
	}, nil
}

func (s *AuthService) auditFailure(email string) {

	s.audit.Record(log.AuditEvent{
		InitiatorID:   email,
		InitiatorType: log.InitiatorTypeSystem,
		TargetID:      email,
		TargetType:    log.TargetTypePatient,
		ActionID:      log.ActionAuthenticationFailure,
	})
}

func initiatorType(role string) string {
	if role == "user" {
		return log.InitiatorTypePatient
	}
	return log.InitiatorTypeStaff
}

func invalidCredentials() error {
	return errors2.NewClientError(errors2.ErrorMessage{
		Code:        errors2.INVALID_CREDENTIALS.Code,
		Message:     errors2.INVALID_CREDENTIALS.Message,
		Description: errors2.INVALID_CREDENTIALS.Description,
	}, http.StatusUnauthorized)
}
