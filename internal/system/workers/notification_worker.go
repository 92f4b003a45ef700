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

package workers

import (
	"fmt"

	notificationModel "github.com/wso2/healthcare-records-service/internal/notification/model"
	notificationProvider "github.com/wso2/healthcare-records-service/internal/notification/provider"
	"github.com/wso2/healthcare-records-service/internal/system/constants"
	"github.com/wso2/healthcare-records-service/internal/system/log"
)

var NotificationQueue chan notificationModel.Notification

// StartNotificationWorker starts the background consumer that persists
// queued notifications. Delivery is best effort; a failed insert is logged
// and the notification dropped.
func StartNotificationWorker() {

	NotificationQueue = make(chan notificationModel.Notification, constants.DefaultQueueSize)

	go func() {
		for notification := range NotificationQueue {
			deliverNotification(notification)
		}
	}()
}

// EnqueueNotification queues a notification for asynchronous delivery.
// It is a no-op when the worker has not been started, so services can
// enqueue unconditionally. A full queue drops the notification rather
// than blocking the caller.
func EnqueueNotification(notification notificationModel.Notification) {
	if NotificationQueue == nil {
		return
	}
	select {
	case NotificationQueue <- notification:
	default:
		log.GetLogger().Warn(fmt.Sprintf("Notification queue full, dropping notification of type: %s for user: %d",
			notification.Type, notification.UserID))
	}
}

func deliverNotification(notification notificationModel.Notification) {

	logger := log.GetLogger()
	notificationService := notificationProvider.NewNotificationProvider().GetNotificationService()
	if _, err := notificationService.CreateNotification(&notification); err != nil {
		logger.Warn(fmt.Sprintf("Failed to deliver notification of type: %s to user: %d",
			notification.Type, notification.UserID), log.Error(err))
	}
}
