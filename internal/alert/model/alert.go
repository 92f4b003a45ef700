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

import "time"

// Alert severities, ordered from least to most urgent.
const (
	SeverityInfo     = "info"
	SeverityWarning  = "warning"
	SeverityCritical = "critical"
)

// Alert is a clinical alert raised for a patient, typically from an
// out-of-range vital sign reading.
type Alert struct {
	ID         int64     `json:"id"`
	PatientID  int64     `json:"patient_id"`
	VitalID    *int64    `json:"vital_id,omitempty"`
	Type       string    `json:"type"`
	Severity   string    `json:"severity"`
	Message    string    `json:"message"`
	Status     string    `json:"status"`
	AssignedTo *int64    `json:"assigned_to,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// UpdateAlertStatusRequest is the payload for moving an alert through its
// lifecycle and optionally reassigning it.
type UpdateAlertStatusRequest struct {
	Status     string `json:"status"`
	AssignedTo *int64 `json:"assigned_to,omitempty"`
}
