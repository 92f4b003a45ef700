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

// VitalSigns is a single set of vital sign readings for a patient. All
// measurements are optional; a reading records whichever signs were taken.
type VitalSigns struct {
	ID               int64     `json:"id"`
	PatientID        int64     `json:"patient_id"`
	HeartRate        *int      `json:"heart_rate,omitempty"`
	SystolicBP       *int      `json:"systolic_bp,omitempty"`
	DiastolicBP      *int      `json:"diastolic_bp,omitempty"`
	TemperatureC     *float64  `json:"temperature_c,omitempty"`
	RespiratoryRate  *int      `json:"respiratory_rate,omitempty"`
	OxygenSaturation *int      `json:"oxygen_saturation,omitempty"`
	RecordedBy       int64     `json:"recorded_by"`
	RecordedAt       time.Time `json:"recorded_at"`
	CreatedAt        time.Time `json:"created_at"`
}

// VitalSignsRequest is the payload for recording a set of vital signs.
// RecordedAt defaults to the current time when omitted.
type VitalSignsRequest struct {
	HeartRate        *int       `json:"heart_rate,omitempty"`
	SystolicBP       *int       `json:"systolic_bp,omitempty"`
	DiastolicBP      *int       `json:"diastolic_bp,omitempty"`
	TemperatureC     *float64   `json:"temperature_c,omitempty"`
	RespiratoryRate  *int       `json:"respiratory_rate,omitempty"`
	OxygenSaturation *int       `json:"oxygen_saturation,omitempty"`
	RecordedAt       *time.Time `json:"recorded_at,omitempty"`
}
