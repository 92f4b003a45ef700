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

	"github.com/wso2/healthcare-records-service/internal/notification/model"
	"github.com/wso2/healthcare-records-service/internal/system/database/provider"
	errors2 "github.com/wso2/healthcare-records-service/internal/system/errors"
	"github.com/wso2/healthcare-records-service/internal/system/log"
)

// NotificationStoreInterface is the persistence contract for notifications.
type NotificationStoreInterface interface {
	Insert(notification *model.Notification) (*model.Notification, error)
	ListForUser(userID int64, unreadOnly bool) ([]model.Notification, error)
	MarkRead(userID, id int64) (int64, error)
}

// NotificationStore is the default Postgres-backed implementation.
type NotificationStore struct{}

// Insert persists a notification.
func (s *NotificationStore) Insert(notification *model.Notification) (*model.Notification, error) {

	dbClient, err := provider.NewDBProvider().GetDBClient()
	logger := log.GetLogger()
	if err != nil {
		errorMsg := fmt.Sprintf("Failed to get db client for adding notification for user: %d", notification.UserID)
		logger.Debug(errorMsg, log.Error(err))
		return nil, errors2.NewServerError(errors2.ErrorMessage{
			Code:        errors2.ADD_NOTIFICATION.Code,
			Message:     errors2.ADD_NOTIFICATION.Message,
			Description: errorMsg,
		}, err)
	}
	defer dbClient.Close()

	tx, err := dbClient.BeginTx()
	if err != nil {
		errorMsg := fmt.Sprintf("Failed to begin transaction for adding notification for user: %d", notification.UserID)
		logger.Debug(errorMsg, log.Error(err))
		return nil, errors2.NewServerError(errors2.ErrorMessage{
			Code:        errors2.ADD_NOTIFICATION.Code,
			Message:     errors2.ADD_NOTIFICATION.Message,
			Description: errorMsg,
		}, err)
	}

	now := time.Now().UTC()
	query := `INSERT INTO notifications (user_id, type, title, body, is_read, created_at)
	          VALUES ($1, $2, $3, $4, FALSE, $5) RETURNING id`
	var id int64
	if err := tx.QueryRow(query, notification.UserID, notification.Type, notification.Title, notification.Body, now).Scan(&id); err != nil {
		_ = tx.Rollback()
		errorMsg := fmt.Sprintf("Failed to add notification for user: %d", notification.UserID)
		logger.Debug(errorMsg, log.Error(err))
		return nil, errors2.NewServerError(errors2.ErrorMessage{
			Code:        errors2.ADD_NOTIFICATION.Code,
			Message:     errors2.ADD_NOTIFICATION.Message,
			Description: errorMsg,
		}, err)
	}
	if err := tx.Commit(); err != nil {
		return nil, errors2.NewServerError(errors2.ErrorMessage{
			Code:        errors2.ADD_NOTIFICATION.Code,
			Message:     errors2.ADD_NOTIFICATION.Message,
			Description: fmt.Sprintf("Failed to commit adding notification for user: %d", notification.UserID),
		}, err)
	}

	created := *notification
	created.ID = id
	created.IsRead = false
	created.CreatedAt = now
	return &created, nil
}

// ListForUser returns the notifications of a user, newest first.
func (s *NotificationStore) ListForUser(userID int64, unreadOnly bool) ([]model.Notification, error) {

	dbClient, err := provider.NewDBProvider().GetDBClient()
	logger := log.GetLogger()
	if err != nil {
		errorMsg := fmt.Sprintf("Failed to get db client for listing notifications of user: %d", userID)
		logger.Debug(errorMsg, log.Error(err))
		return nil, errors2.NewServerError(errors2.ErrorMessage{
			Code:        errors2.FETCH_NOTIFICATION.Code,
			Message:     errors2.FETCH_NOTIFICATION.Message,
			Description: errorMsg,
		}, err)
	}
	defer dbClient.Close()

	query := `SELECT id, user_id, type, title, body, is_read, created_at FROM notifications
	          WHERE user_id = $1 AND ($2 = FALSE OR is_read = FALSE) ORDER BY created_at DESC LIMIT 200`
	rows, err := dbClient.ExecuteQuery(query, userID, unreadOnly)
	if err != nil {
		errorMsg := fmt.Sprintf("Failed to list notifications of user: %d", userID)
		logger.Debug(errorMsg, log.Error(err))
		return nil, errors2.NewServerError(errors2.ErrorMessage{
			Code:        errors2.FETCH_NOTIFICATION.Code,
			Message:     errors2.FETCH_NOTIFICATION.Message,
			Description: errorMsg,
		}, err)
	}

	notifications := make([]model.Notification, 0, len(rows))
	for _, row := range rows {
		notifications = append(notifications, model.Notification{
			ID:        row["id"].(int64),
			UserID:    row["user_id"].(int64),
			Type:      asString(row["type"]),
			Title:     asString(row["title"]),
			Body:      asString(row["body"]),
			IsRead:    row["is_read"].(bool),
			CreatedAt: row["created_at"].(time.Time),
		})
	}
	return notifications, nil
}

// MarkRead flags one notification of the user as read and returns the
// number of affected rows.
func (s *NotificationStore) MarkRead(userID, id int64) (int64, error) {

	dbClient, err := provider.NewDBProvider().GetDBClient()
	logger := log.GetLogger()
	if err != nil {
		errorMsg := fmt.Sprintf("Failed to get db client for marking notification read: %d", id)
		logger.Debug(errorMsg, log.Error(err))
		return 0, errors2.NewServerError(errors2.ErrorMessage{
			Code:        errors2.FETCH_NOTIFICATION.Code,
			Message:     errors2.FETCH_NOTIFICATION.Message,
			Description: errorMsg,
		}, err)
	}
	defer dbClient.Close()

	query := `UPDATE notifications SET is_read = TRUE WHERE user_id = $1 AND id = $2 AND is_read = FALSE`
	affected, err := dbClient.ExecuteStatement(query, userID, id)
	if err != nil {
		errorMsg := fmt.Sprintf("Failed to mark notification read: %d", id)
		logger.Debug(errorMsg, log.Error(err))
		return 0, errors2.NewServerError(errors2.ErrorMessage{
			Code:        errors2.FETCH_NOTIFICATION.Code,
			Message:     errors2.FETCH_NOTIFICATION.Message,
			Description: errorMsg,
		}, err)
	}
	return affected, nil
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
