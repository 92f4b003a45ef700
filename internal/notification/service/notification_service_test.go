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
	"github.com/wso2/healthcare-records-service/internal/notification/model"
	errors2 "github.com/wso2/healthcare-records-service/internal/system/errors"
	"github.com/wso2/healthcare-records-service/internal/system/log"
)

func TestMain(m *testing.M) {
	_ = log.Init("ERROR")
	os.Exit(m.Run())
}

type MockNotificationStore struct {
	mock.Mock
}

func (m *MockNotificationStore) Insert(notification *model.Notification) (*model.Notification, error) {
	args := m.Called(notification)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Notification), args.Error(1)
}

func (m *MockNotificationStore) ListForUser(userID int64, unreadOnly bool) ([]model.Notification, error) {
	args := m.Called(userID, unreadOnly)
	return args.Get(0).([]model.Notification), args.Error(1)
}

func (m *MockNotificationStore) MarkRead(userID, id int64) (int64, error) {
	args := m.Called(userID, id)
	return args.Get(0).(int64), args.Error(1)
}

func requireStatus(t *testing.T, err error, status int) {
	t.Helper()
	clientErr, ok := err.(*errors2.ClientError)
	require.True(t, ok, "expected a client error, got %v", err)
	assert.Equal(t, status, clientErr.StatusCode)
}

func TestCreateNotification_DefaultsType(t *testing.T) {
	store := new(MockNotificationStore)
	svc := &NotificationService{store: store}

	store.
		On("Insert", mock.MatchedBy(func(n *model.Notification) bool {
			return n.UserID == 7 && n.Type == model.TypeAlert
		})).
		Return(&model.Notification{ID: 1, UserID: 7, Type: model.TypeAlert}, nil)

	created, err := svc.CreateNotification(&model.Notification{UserID: 7, Title: "Critical alert"})

	require.NoError(t, err)
	assert.Equal(t, int64(1), created.ID)
	store.AssertExpectations(t)
}

func TestCreateNotification_Validation(t *testing.T) {
	svc := &NotificationService{store: new(MockNotificationStore)}

	_, err := svc.CreateNotification(&model.Notification{Title: "No recipient"})
	requireStatus(t, err, http.StatusBadRequest)

	_, err = svc.CreateNotification(&model.Notification{UserID: 7, Title: "   "})
	requireStatus(t, err, http.StatusBadRequest)
}

func TestListNotifications_UnreadFilter(t *testing.T) {
	store := new(MockNotificationStore)
	svc := &NotificationService{store: store}

	store.On("ListForUser", int64(7), true).
		Return([]model.Notification{{ID: 2, UserID: 7}}, nil)

	notifications, err := svc.ListNotifications(7, true)

	require.NoError(t, err)
	require.Len(t, notifications, 1)
	store.AssertExpectations(t)
}

func TestMarkNotificationRead_NotFound(t *testing.T) {
	store := new(MockNotificationStore)
	svc := &NotificationService{store: store}

	store.On("MarkRead", int64(7), int64(99)).Return(int64(0), nil)

	err := svc.MarkNotificationRead(7, 99)
	requireStatus(t, err, http.StatusNotFound)
}

func TestMarkNotificationRead_Succeeds(t *testing.T) {
	store := new(MockNotificationStore)
	svc := &NotificationService{store: store}

	store.On("MarkRead", int64(7), int64(2)).Return(int64(1), nil)

	assert.NoError(t, svc.MarkNotificationRead(7, 2))
}
