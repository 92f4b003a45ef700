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

package handler

import (
	"net/http"

	"github.com/wso2/healthcare-records-service/internal/notification/provider"
	"github.com/wso2/healthcare-records-service/internal/system/utils"
)

type NotificationHandler struct{}

func NewNotificationHandler() *NotificationHandler {
	return &NotificationHandler{}
}

// ListNotifications handles GET /notifications. A user only ever sees its
// own notifications; pass unread=true to hide already-read ones.
func (h *NotificationHandler) ListNotifications(w http.ResponseWriter, r *http.Request) {

	actor, err := utils.RequestActor(r)
	if err != nil {
		utils.HandleError(w, err)
		return
	}

	unreadOnly := r.URL.Query().Get("unread") == "true"

	notificationService := provider.NewNotificationProvider().GetNotificationService()
	notifications, err := notificationService.ListNotifications(actor.UserID, unreadOnly)
	if err != nil {
		utils.HandleError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, notifications)
}

// MarkNotificationRead handles POST /notifications/{id}/read.
func (h *NotificationHandler) MarkNotificationRead(w http.ResponseWriter, r *http.Request) {

	actor, err := utils.RequestActor(r)
	if err != nil {
		utils.HandleError(w, err)
		return
	}

	id, err := utils.ParsePathID(r, "id")
	if err != nil {
		utils.HandleError(w, err)
		return
	}

	notificationService := provider.NewNotificationProvider().GetNotificationService()
	if err := notificationService.MarkNotificationRead(actor.UserID, id); err != nil {
		utils.HandleError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
