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
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	notificationModel "github.com/wso2/healthcare-records-service/internal/notification/model"
	"github.com/wso2/healthcare-records-service/internal/system/log"
)

func TestMain(m *testing.M) {
	if err := log.Init("ERROR"); err != nil {
		os.Exit(1)
	}
	os.Exit(m.Run())
}

func TestEnqueueNotification_NoWorkerIsNoOp(t *testing.T) {
	NotificationQueue = nil

	EnqueueNotification(notificationModel.Notification{UserID: 1, Title: "Reminder"})
}

func TestEnqueueNotification_Buffers(t *testing.T) {
	NotificationQueue = make(chan notificationModel.Notification, 2)
	defer func() { NotificationQueue = nil }()

	EnqueueNotification(notificationModel.Notification{UserID: 1, Title: "Reminder"})

	require.Len(t, NotificationQueue, 1)
	queued := <-NotificationQueue
	assert.Equal(t, int64(1), queued.UserID)
}

func TestEnqueueNotification_FullQueueDrops(t *testing.T) {
	NotificationQueue = make(chan notificationModel.Notification, 1)
	defer func() { NotificationQueue = nil }()

	EnqueueNotification(notificationModel.Notification{UserID: 1, Title: "First"})
	EnqueueNotification(notificationModel.Notification{UserID: 2, Title: "Second"})

	require.Len(t, NotificationQueue, 1)
	queued := <-NotificationQueue
	assert.Equal(t, int64(1), queued.UserID, "the queued notification survives, the overflow is dropped")
}
