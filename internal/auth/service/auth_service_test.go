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
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	auditModel "github.com/wso2/healthcare-records-service/internal/audit/model"
	"github.com/wso2/healthcare-records-service/internal/auth/model"
	"github.com/wso2/healthcare-records-service/internal/system/authn"
	"github.com/wso2/healthcare-records-service/internal/system/config"
	"github.com/wso2/healthcare-records-service/internal/system/constants"
	errors2 "github.com/wso2/healthcare-records-service/internal/system/errors"
	"github.com/wso2/healthcare-records-service/internal/system/log"
	userModel "github.com/wso2/healthcare-records-service/internal/user/model"
	"golang.org/x/crypto/bcrypt"
)

func TestMain(m *testing.M) {
	_ = log.Init("ERROR")
	config.OverrideHRSRuntime(config.Config{
		Auth: config.AuthConfig{JWTSecret: "test-secret"},
	})
	os.Exit(m.Run())
}

type MockUserStore struct {
	mock.Mock
}

func (m *MockUserStore) InsertUser(user *userModel.User, passwordHash string, pinHash *string, profile *userModel.PatientProfile) (*userModel.User, error) {
	args := m.Called(user, passwordHash, pinHash, profile)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*userModel.User), args.Error(1)
}

func (m *MockUserStore) GetUserByID(id int64) (*userModel.User, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*userModel.User), args.Error(1)
}

func (m *MockUserStore) GetCredentialsByEmail(email string) (*userModel.Credentials, error) {
	args := m.Called(email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*userModel.Credentials), args.Error(1)
}

func (m *MockUserStore) GetPatientProfile(userID int64) (*userModel.PatientProfile, error) {
	args := m.Called(userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*userModel.PatientProfile), args.Error(1)
}

func (m *MockUserStore) GetPatientPinHash(patientID int64) (*string, bool, error) {
	args := m.Called(patientID)
	if args.Get(0) == nil {
		return nil, args.Bool(1), args.Error(2)
	}
	return args.Get(0).(*string), args.Bool(1), args.Error(2)
}

func (m *MockUserStore) SetPatientPin(patientID int64, pinHash string) (int64, error) {
	args := m.Called(patientID, pinHash)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockUserStore) ListUsers(role string, limit, offset int) ([]userModel.User, int, error) {
	args := m.Called(role, limit, offset)
	return args.Get(0).([]userModel.User), args.Int(1), args.Error(2)
}

type MockAuditService struct {
	mock.Mock
}

func (m *MockAuditService) Record(event log.AuditEvent) {
	m.Called(event)
}

func (m *MockAuditService) ListRecords(targetID, actionID string, limit int) ([]auditModel.AuditRecord, error) {
	args := m.Called(targetID, actionID, limit)
	return args.Get(0).([]auditModel.AuditRecord), args.Error(1)
}

func credentialsFor(t *testing.T, password string) *userModel.Credentials {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return &userModel.Credentials{
		User:         userModel.User{ID: 7, Email: "jamie@hospital.test", Role: constants.RoleUser},
		PasswordHash: string(hash),
	}
}

func TestLogin_IssuesValidToken(t *testing.T) {
	users := new(MockUserStore)
	audit := new(MockAuditService)
	svc := &AuthService{users: users, audit: audit}

	users.On("GetCredentialsByEmail", "jamie@hospital.test").
		Return(credentialsFor(t, "s3cret-pass"), nil)
	audit.On("Record", mock.MatchedBy(func(e log.AuditEvent) bool {
		return e.ActionID == log.ActionAuthenticationSuccess
	})).Return()

	response, err := svc.Login(model.LoginRequest{
		Email:    " Jamie@Hospital.test ",
		Password: "s3cret-pass",
	})

	require.NoError(t, err)
	require.NotEmpty(t, response.Token)
	assert.Equal(t, int64(7), response.User.ID)

	actor, err := authn.ValidateSessionToken(response.Token)
	require.NoError(t, err)
	assert.Equal(t, int64(7), actor.UserID)
	assert.Equal(t, constants.RoleUser, actor.Role)
	audit.AssertExpectations(t)
}

func TestLogin_WrongPassword(t *testing.T) {
	users := new(MockUserStore)
	audit := new(MockAuditService)
	svc := &AuthService{users: users, audit: audit}

	users.On("GetCredentialsByEmail", "jamie@hospital.test").
		Return(credentialsFor(t, "s3cret-pass"), nil)
	audit.On("Record", mock.MatchedBy(func(e log.AuditEvent) bool {
		return e.ActionID == log.ActionAuthenticationFailure
	})).Return()

	_, err := svc.Login(model.LoginRequest{
		Email:    "jamie@hospital.test",
		Password: "wrong",
	})

	clientErr, ok := err.(*errors2.ClientError)
	require.True(t, ok)
	assert.Equal(t, http.StatusUnauthorized, clientErr.StatusCode)
	audit.AssertExpectations(t)
}

func TestLogin_UnknownAccountSameError(t *testing.T) {
	users := new(MockUserStore)
	audit := new(MockAuditService)
	svc := &AuthService{users: users, audit: audit}

	users.On("GetCredentialsByEmail", "ghost@hospital.test").Return(nil, nil)
	audit.On("Record", mock.Anything).Return()

	_, unknownErr := svc.Login(model.LoginRequest{
		Email: "ghost@hospital.test", Password: "whatever",
	})

	users.On("GetCredentialsByEmail", "jamie@hospital.test").
		Return(credentialsFor(t, "s3cret-pass"), nil)
	_, wrongErr := svc.Login(model.LoginRequest{
		Email: "jamie@hospital.test", Password: "wrong",
	})

	// Account enumeration must not be possible through the error.
	assert.Equal(t, unknownErr.Error(), wrongErr.Error())
}
