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
	"strings"

	"github.com/wso2/healthcare-records-service/internal/notification/model"
	"github.com/wso2/healthcare-records-service/internal/notification/store"
	"github.com/wso2/healthcare-records-service/internal/system/errors"
)

// NotificationServiceInterface defines operations on user notifications.
type NotificationServiceInterface interface {
	CreateNotification(notification *model.Notification) (*model.Notification, error)
	ListNotifications(userID int64, unreadOnly bool) ([]model.Notification, error)
	MarkNotificationRead(userID, id int64) error
}

// NotificationService is the default implementation.
type NotificationService struct {
	store store.NotificationStoreInterface
}

// GetNotificationService returns a NotificationService backed by the
// default store.
func GetNotificationService() NotificationServiceInterface {
	return &NotificationService{store: &store.NotificationStore{}}
}

// CreateNotification validates and persists a notification.
func (s *NotificationService) CreateNotification(notification *model.Notification) (*model.Notification, error) {
	if notification == nil || notification.UserID <= 0 {
		return nil, errors.NewClientError(errors.ErrorMessage{
			Code:        errors.BAD_REQUEST.Code,
			Message:     errors.BAD_REQUEST.Message,
			Description: "A valid user_id is required",
		}, http.StatusBadRequest)
	}
	if strings.TrimSpace(notification.Title) == "" {
		return nil, errors.NewClientError(errors.ErrorMessage{
			Code:        errors.BAD_REQUEST.Code,
			Message:     errors.BAD_REQUEST.Message,
			Description: "Notification title is required",
		}, http.StatusBadRequest)
	}
	if notification.Type == "" {
		notification.Type = model.TypeAlert
	}
	return s.store.Insert(notification)
}

// ListNotifications returns the notifications of the given user.
func (s *NotificationService) ListNotifications(userID int64, unreadOnly bool) ([]model.Notification, error) {
	return s.store.ListForUser(userID, unreadOnly)
}

// MarkNotificationRead marks a single notification of the user as read.
func (s *NotificationService) MarkNotificationRead(userID, id int64) error {
	affected, err := s.store.MarkRead(userID, id)
	if err != nil {
		return err
	}
	if affected == 0 {
		return errors.NewClientError(errors.ErrorMessage{
			Code:        errors.NOTIFICATION_NOT_FOUND.Code,
			Message:     errors.NOTIFICATION_NOT_FOUND.Message,
			Description: "No unread notification found with the given id",
		}, http.StatusNotFound)
	}
	return nil
}
