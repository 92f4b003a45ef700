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
	"time"

	"github.com/wso2/healthcare-records-service/internal/audit/model"
	"github.com/wso2/healthcare-records-service/internal/audit/store"
	"github.com/wso2/healthcare-records-service/internal/system/log"
)

type AuditServiceInterface interface {
	Record(event log.AuditEvent)
	ListRecords(targetID, actionID string, limit int) ([]model.AuditRecord, error)
}

// AuditService writes audit events to the structured log and to the
// persistent trail.
type AuditService struct {
	store store.AuditStoreInterface
}

// GetAuditService returns an audit service with the Mongo store injected.
func GetAuditService() AuditServiceInterface {
	return &AuditService{
		store: &store.AuditStore{},
	}
}

// Record emits the event to the structured log and appends it to the
// persistent trail asynchronously. Sink failures are logged and swallowed;
// the business operation that produced the event must not fail because the
// trail is unavailable.
func (s *AuditService) Record(event log.AuditEvent) {

	logger := log.GetLogger()
	logger.Audit(event)

	recordedAt := time.Now().UTC()
	if event.RecordedAt != "" {
		if parsed, err := time.Parse(time.RFC3339, event.RecordedAt); err == nil {
			recordedAt = parsed
		}
	}

	record := &model.AuditRecord{
		RecordedAt:    recordedAt,
		InitiatorID:   event.InitiatorID,
		InitiatorType: event.InitiatorType,
		TargetID:      event.TargetID,
		TargetType:    event.TargetType,
		ActionID:      event.ActionID,
		TraceID:       event.TraceID,
		Data:          event.Data,
	}

	go func() {
		if err := s.store.InsertRecord(record); err != nil {
			logger.Warn("Failed to persist audit record", log.Error(err),
				log.String("action_id", record.ActionID))
		}
	}()
}

// ListRecords returns the most recent audit records matching the filters.
func (s *AuditService) ListRecords(targetID, actionID string, limit int) ([]model.AuditRecord, error) {

	if limit <= 0 || limit > 500 {
		limit = 100
	}
	return s.store.QueryRecords(targetID, actionID, limit)
}
