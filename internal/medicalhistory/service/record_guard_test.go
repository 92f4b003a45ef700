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
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	accessModel "github.com/wso2/healthcare-records-service/internal/access/model"
	"github.com/wso2/healthcare-records-service/internal/system/authn"
	"github.com/wso2/healthcare-records-service/internal/system/config"
	"github.com/wso2/healthcare-records-service/internal/system/constants"
	errors2 "github.com/wso2/healthcare-records-service/internal/system/errors"
	"github.com/wso2/healthcare-records-service/internal/system/log"
)

func TestMain(m *testing.M) {
	_ = log.Init("ERROR")
	config.OverrideHRSRuntime(config.Config{})
	os.Exit(m.Run())
}

type MockAccessService struct {
	mock.Mock
}

func (m *MockAccessService) GrantAccess(patientID int64, req accessModel.GrantAccessRequest) (*accessModel.AccessGrant, error) {
	args := m.Called(patientID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*accessModel.AccessGrant), args.Error(1)
}

func (m *MockAccessService) RevokeAccess(patientID, staffID int64) (int64, error) {
	args := m.Called(patientID, staffID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockAccessService) CheckAccess(patientID, staffID int64) *accessModel.AccessStatus {
	args := m.Called(patientID, staffID)
	return args.Get(0).(*accessModel.AccessStatus)
}

func (m *MockAccessService) ResolveGrant(patientID, staffID int64) (*accessModel.AccessGrant, error) {
	args := m.Called(patientID, staffID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*accessModel.AccessGrant), args.Error(1)
}

func staffActor(id int64) *authn.Actor {
	return &authn.Actor{UserID: id, Email: "staff@hospital.test", Role: constants.RoleDoctor}
}

func requireStatus(t *testing.T, err error, status int) {
	t.Helper()
	clientErr, ok := err.(*errors2.ClientError)
	require.True(t, ok, "expected a client error, got %v", err)
	assert.Equal(t, status, clientErr.StatusCode)
}

func grantWith(permissions accessModel.Permissions) *accessModel.AccessGrant {
	expiry := time.Now().UTC().Add(time.Hour)
	return &accessModel.AccessGrant{
		ID: 1, PatientID: 5, StaffID: 2, Permissions: permissions,
		IsActive: true, ExpiresAt: &expiry,
	}
}

// ---------------------------------------------------------------------------
// ResolvePermissions
// ---------------------------------------------------------------------------

func TestResolvePermissions_SelfAccessIsUnrestricted(t *testing.T) {
	access := new(MockAccessService)
	guard := NewRecordGuard(access)

	permissions, err := guard.ResolvePermissions(&authn.Actor{UserID: 5, Role: constants.RoleUser}, 5)

	require.NoError(t, err)
	assert.Nil(t, permissions)
	access.AssertNotCalled(t, "ResolveGrant", mock.Anything, mock.Anything)
}

func TestResolvePermissions_NoGrantForbidden(t *testing.T) {
	access := new(MockAccessService)
	guard := NewRecordGuard(access)

	access.On("ResolveGrant", int64(5), int64(2)).Return(nil, nil)

	_, err := guard.ResolvePermissions(staffActor(2), 5)
	requireStatus(t, err, http.StatusForbidden)
}

func TestResolvePermissions_NoGrantAllowedByPolicy(t *testing.T) {
	config.OverrideHRSRuntime(config.Config{
		AccessPolicy: config.AccessPolicyConfig{AllowWithoutGrant: true},
	})
	defer config.OverrideHRSRuntime(config.Config{})

	access := new(MockAccessService)
	guard := NewRecordGuard(access)
	access.On("ResolveGrant", int64(5), int64(2)).Return(nil, nil)

	permissions, err := guard.ResolvePermissions(staffActor(2), 5)

	require.NoError(t, err)
	assert.Nil(t, permissions, "permissive fallback should grant unrestricted access")
}

func TestResolvePermissions_GrantScopesAccess(t *testing.T) {
	access := new(MockAccessService)
	guard := NewRecordGuard(access)

	scoped := accessModel.Permissions{constants.CategoryPhysical: true}
	access.On("ResolveGrant", int64(5), int64(2)).Return(grantWith(scoped), nil)

	permissions, err := guard.ResolvePermissions(staffActor(2), 5)

	require.NoError(t, err)
	assert.True(t, permissions.Allows(constants.CategoryPhysical))
	assert.False(t, permissions.Allows(constants.CategoryMental))
}

// ---------------------------------------------------------------------------
// AuthorizeForCategory / AuthorizeAny
// ---------------------------------------------------------------------------

func TestAuthorizeForCategory_CoveredCategory(t *testing.T) {
	access := new(MockAccessService)
	guard := NewRecordGuard(access)

	scoped := accessModel.Permissions{constants.CategoryMental: true}
	access.On("ResolveGrant", int64(5), int64(2)).Return(grantWith(scoped), nil)

	_, err := guard.AuthorizeForCategory(staffActor(2), 5, constants.CategoryMental)
	assert.NoError(t, err)
}

func TestAuthorizeForCategory_UncoveredCategory(t *testing.T) {
	access := new(MockAccessService)
	guard := NewRecordGuard(access)

	scoped := accessModel.Permissions{constants.CategoryPhysical: true}
	access.On("ResolveGrant", int64(5), int64(2)).Return(grantWith(scoped), nil)

	_, err := guard.AuthorizeForCategory(staffActor(2), 5, constants.CategoryMental)
	requireStatus(t, err, http.StatusForbidden)
}

func TestAuthorizeAny_EmptyPermissionsForbidden(t *testing.T) {
	access := new(MockAccessService)
	guard := NewRecordGuard(access)

	access.On("ResolveGrant", int64(5), int64(2)).Return(grantWith(accessModel.Permissions{}), nil)

	_, err := guard.AuthorizeAny(staffActor(2), 5)
	requireStatus(t, err, http.StatusForbidden)
}

func TestAuthorizeAny_SelfAccess(t *testing.T) {
	guard := NewRecordGuard(new(MockAccessService))

	permissions, err := guard.AuthorizeAny(&authn.Actor{UserID: 5, Role: constants.RoleUser}, 5)

	require.NoError(t, err)
	assert.Nil(t, permissions)
}

// ---------------------------------------------------------------------------
// AllowedCategories
// ---------------------------------------------------------------------------

func TestAllowedCategories_UnrestrictedDefaultsToAll(t *testing.T) {
	allowed, err := AllowedCategories(nil, nil)

	require.NoError(t, err)
	assert.ElementsMatch(t, []string{constants.CategoryPhysical, constants.CategoryMental}, allowed)
}

func TestAllowedCategories_ScopedDefaultsToCovered(t *testing.T) {
	scoped := accessModel.Permissions{constants.CategoryPhysical: true}

	allowed, err := AllowedCategories(scoped, nil)

	require.NoError(t, err)
	assert.Equal(t, []string{constants.CategoryPhysical}, allowed)
}

func TestAllowedCategories_ExplicitUncoveredRequestForbidden(t *testing.T) {
	scoped := accessModel.Permissions{constants.CategoryPhysical: true}

	_, err := AllowedCategories(scoped, []string{constants.CategoryMental})
	requireStatus(t, err, http.StatusForbidden)
}

func TestAllowedCategories_UnknownCategoryRejected(t *testing.T) {
	_, err := AllowedCategories(nil, []string{"dental"})
	requireStatus(t, err, http.StatusBadRequest)
}

func TestAllowedCategories_EmptyIntersectionForbidden(t *testing.T) {
	_, err := AllowedCategories(accessModel.Permissions{}, nil)
	requireStatus(t, err, http.StatusForbidden)
}
