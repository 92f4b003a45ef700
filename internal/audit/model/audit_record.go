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

package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AuditRecord is one persisted audit trail entry. The trail is append-only;
// records are never updated or deleted.
type AuditRecord struct {
	ID            primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	RecordedAt    time.Time   `json:"recorded_at" bson:"recorded_at"`
	InitiatorID   string      `json:"initiator_id" bson:"initiator_id"`
	InitiatorType string      `json:"initiator_type" bson:"initiator_type"`
	TargetID      string      `json:"target_id" bson:"target_id"`
	TargetType    string      `json:"target_type" bson:"target_type"`
	ActionID      string      `json:"action_id" bson:"action_id"`
	TraceID       string      `json:"trace_id,omitempty" bson:"trace_id,omitempty"`
	Data          interface{} `json:"data,omitempty" bson:"data,omitempty"`
}
