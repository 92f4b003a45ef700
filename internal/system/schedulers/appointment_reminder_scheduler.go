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

package schedulers

import (
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	appointmentModel "github.com/wso2/healthcare-records-service/internal/appointment/model"
	appointmentStore "github.com/wso2/healthcare-records-service/internal/appointment/store"
	notificationModel "github.com/wso2/healthcare-records-service/internal/notification/model"
	"github.com/wso2/healthcare-records-service/internal/system/config"
	"github.com/wso2/healthcare-records-service/internal/system/log"
	"github.com/wso2/healthcare-records-service/internal/system/workers"
)

var reminderCron *cron.Cron

// StartAppointmentReminderScheduler starts the periodic sweep that queues
// reminder notifications for upcoming appointments. It is a no-op when
// reminders are disabled in the deployment configuration.
func StartAppointmentReminderScheduler() error {

	conf := config.GetHRSRuntime().Config
	logger := log.GetLogger()
	if !conf.Scheduler.RemindersEnabled {
		logger.Info("Appointment reminders are disabled")
		return nil
	}

	reminderCron = cron.New()
	spec := conf.ReminderSpecOrDefault()
	if _, err := reminderCron.AddFunc(spec, sweepUpcomingAppointments); err != nil {
		return fmt.Errorf("failed to schedule appointment reminder sweep: %w", err)
	}
	reminderCron.Start()
	logger.Info(fmt.Sprintf("Appointment reminder sweep scheduled with spec: %s", spec))
	return nil
}

// StopAppointmentReminderScheduler stops the sweep and waits for a
// running iteration to finish.
func StopAppointmentReminderScheduler() {
	if reminderCron != nil {
		<-reminderCron.Stop().Done()
	}
}

func sweepUpcomingAppointments() {

	conf := config.GetHRSRuntime().Config
	logger := log.GetLogger()

	now := time.Now().UTC()
	store := &appointmentStore.AppointmentStore{}
	due, err := store.ListDueForReminder(now, now.Add(conf.ReminderHorizonOrDefault()))
	if err != nil {
		logger.Error("Failed to list appointments due for reminder", log.Error(err))
		return
	}

	for _, appointment := range due {
		remindParty(appointment, appointment.PatientID)
		remindParty(appointment, appointment.StaffID)
		if _, err := store.MarkReminderSent(appointment.ID); err != nil {
			logger.Warn(fmt.Sprintf("Failed to mark reminder sent for appointment: %d", appointment.ID),
				log.Error(err))
		}
	}
	if len(due) > 0 {
		logger.Info(fmt.Sprintf("Queued reminders for %d upcoming appointments", len(due)))
	}
}

func remindParty(appointment appointmentModel.Appointment, userID int64) {
	workers.EnqueueNotification(notificationModel.Notification{
		UserID: userID,
		Type:   notificationModel.TypeAppointmentReminder,
		Title:  "Upcoming appointment",
		Body: fmt.Sprintf("Appointment %d is scheduled at %s", appointment.ID,
			appointment.ScheduledAt.Format(time.RFC3339)),
	})
}
