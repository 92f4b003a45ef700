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

// MedicalHistory is a diagnosed condition in a patient's record. Category
// decides which grant scope covers it: "physical" or "mental".
type MedicalHistory struct {
	ID          int64      `json:"id"`
	PatientID   int64      `json:"patient_id"`
	Condition   string     `json:"condition"`
	Category    string     `json:"category"`
	DiagnosedAt *time.Time `json:"diagnosed_at,omitempty"`
	Status      string     `json:"status"`
	Notes       *string    `json:"notes,omitempty"`
	IsActive    bool       `json:"is_active"`
	CreatedBy   int64      `json:"created_by"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// MedicalHistoryRequest is the payload for creating or updating a medical
// history record.
type MedicalHistoryRequest struct {
	Condition   string     `json:"condition"`
	Category    string     `json:"category"`
	DiagnosedAt *time.Time `json:"diagnosed_at,omitempty"`
	Status      string     `json:"status"`
	Notes       *string    `json:"notes,omitempty"`
}

// MedicalHistoryQuery carries the listing filters.
type MedicalHistoryQuery struct {
	Categories []string
	Page       int
	Limit      int
	SortBy     string
	SortOrder  string
}
