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
	"github.com/wso2/healthcare-records-service/internal/system/constants"
	errors2 "github.com/wso2/healthcare-records-service/internal/system/errors"
	"github.com/wso2/healthcare-records-service/internal/system/log"
	"github.com/wso2/healthcare-records-service/internal/user/model"
	"github.com/wso2/healthcare-records-service/internal/user/store"
	"golang.org/x/crypto/bcrypt"
)

func TestMain(m *testing.M) {
	_ = log.Init("ERROR")
	os.Exit(m.Run())
}

type MockUserStore struct {
	mock.Mock
}

func (m *MockUserStore) InsertUser(user *model.User, passwordHash string, pinHash *string, profile *model.PatientProfile) (*model.User, error) {
	args := m.Called(user, passwordHash, pinHash, profile)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserStore) GetUserByID(id int64) (*model.User, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserStore) GetCredentialsByEmail(email string) (*model.Credentials, error) {
	args := m.Called(email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Credentials), args.Error(1)
}

func (m *MockUserStore) GetPatientProfile(userID int64) (*model.PatientProfile, error) {
	args := m.Called(userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.PatientProfile), args.Error(1)
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

func (m *MockUserStore) ListUsers(role string, limit, offset int) ([]model.User, int, error) {
	args := m.Called(role, limit, offset)
	return args.Get(0).([]model.User), args.Int(1), args.Error(2)
}

func requireStatus(t *testing.T, err error, status int) {
	t.Helper()
	clientErr, ok := err.(*errors2.ClientError)
	require.True(t, ok, "expected a client error, got %v", err)
	assert.Equal(t, status, clientErr.StatusCode)
}

func strPtr(v string) *string {
	return &v
}

// ---------------------------------------------------------------------------
// CreateUser
// ---------------------------------------------------------------------------

func TestCreateUser_HashesPasswordAndPin(t *testing.T) {
	mockStore := new(MockUserStore)
	svc := &UserService{store: mockStore}

	mockStore.
		On("InsertUser",
			mock.MatchedBy(func(u *model.User) bool {
				return u.Email == "jamie@hospital.test" && u.Role == constants.RoleUser
			}),
			mock.MatchedBy(func(passwordHash string) bool {
				return bcrypt.CompareHashAndPassword([]byte(passwordHash), []byte("s3cret-pass")) == nil
			}),
			mock.MatchedBy(func(pinHash *string) bool {
				return pinHash != nil &&
					bcrypt.CompareHashAndPassword([]byte(*pinHash), []byte("4321")) == nil
			}),
			mock.Anything).
		Return(&model.User{ID: 1, Email: "jamie@hospital.test", Role: constants.RoleUser}, nil)

	created, err := svc.CreateUser(model.CreateUserRequest{
		Email:    "Jamie@Hospital.test",
		Name:     "Jamie",
		Role:     constants.RoleUser,
		Password: "s3cret-pass",
		Pin:      strPtr("4321"),
	})

	require.NoError(t, err)
	assert.Equal(t, int64(1), created.ID)
	mockStore.AssertExpectations(t)
}

func TestCreateUser_Validation(t *testing.T) {
	svc := &UserService{store: new(MockUserStore)}

	_, err := svc.CreateUser(model.CreateUserRequest{
		Email: "not-an-email", Password: "s3cret-pass", Role: constants.RoleUser,
	})
	requireStatus(t, err, http.StatusBadRequest)

	_, err = svc.CreateUser(model.CreateUserRequest{
		Email: "jamie@hospital.test", Password: "short", Role: constants.RoleUser,
	})
	requireStatus(t, err, http.StatusBadRequest)

	_, err = svc.CreateUser(model.CreateUserRequest{
		Email: "jamie@hospital.test", Password: "s3cret-pass", Role: "surgeon-general",
	})
	requireStatus(t, err, http.StatusBadRequest)
}

func TestCreateUser_DuplicateEmailConflict(t *testing.T) {
	mockStore := new(MockUserStore)
	svc := &UserService{store: mockStore}

	mockStore.On("InsertUser", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(nil, store.ErrDuplicateUser)

	_, err := svc.CreateUser(model.CreateUserRequest{
		Email: "jamie@hospital.test", Password: "s3cret-pass", Role: constants.RoleUser,
	})
	requireStatus(t, err, http.StatusConflict)
}

// ---------------------------------------------------------------------------
// GetUser / GetPatientProfile
// ---------------------------------------------------------------------------

func TestGetUser_NotFound(t *testing.T) {
	mockStore := new(MockUserStore)
	svc := &UserService{store: mockStore}

	mockStore.On("GetUserByID", int64(99)).Return(nil, nil)

	_, err := svc.GetUser(99)
	requireStatus(t, err, http.StatusNotFound)
}

func TestGetPatientProfile_NotFound(t *testing.T) {
	mockStore := new(MockUserStore)
	svc := &UserService{store: mockStore}

	mockStore.On("GetPatientProfile", int64(99)).Return(nil, nil)

	_, err := svc.GetPatientProfile(99)
	requireStatus(t, err, http.StatusNotFound)
}

// ---------------------------------------------------------------------------
// SetPatientPin
// ---------------------------------------------------------------------------

func TestSetPatientPin_StoresHash(t *testing.T) {
	mockStore := new(MockUserStore)
	svc := &UserService{store: mockStore}

	mockStore.
		On("SetPatientPin", int64(5), mock.MatchedBy(func(hash string) bool {
			return bcrypt.CompareHashAndPassword([]byte(hash), []byte("9876")) == nil
		})).
		Return(int64(1), nil)

	err := svc.SetPatientPin(5, "9876")

	require.NoError(t, err)
	mockStore.AssertExpectations(t)
}

func TestSetPatientPin_TooShort(t *testing.T) {
	svc := &UserService{store: new(MockUserStore)}

	err := svc.SetPatientPin(5, "12")
	requireStatus(t, err, http.StatusBadRequest)
}

func TestSetPatientPin_NoProfile(t *testing.T) {
	mockStore := new(MockUserStore)
	svc := &UserService{store: mockStore}

	mockStore.On("SetPatientPin", int64(99), mock.Anything).Return(int64(0), nil)

	err := svc.SetPatientPin(99, "9876")
	requireStatus(t, err, http.StatusNotFound)
}

// ---------------------------------------------------------------------------
// ListUsers
// ---------------------------------------------------------------------------

func TestListUsers_PagesResults(t *testing.T) {
	mockStore := new(MockUserStore)
	svc := &UserService{store: mockStore}

	mockStore.On("ListUsers", constants.RoleDoctor, 10, 10).
		Return([]model.User{{ID: 3}}, 11, nil)

	page, err := svc.ListUsers(constants.RoleDoctor, 2, 10)

	require.NoError(t, err)
	assert.Equal(t, 11, page.Meta.Total)
	assert.Equal(t, 2, page.Meta.TotalPages)
}
