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

// Allergy is a recorded allergic reaction. Allergies carry no category; any
// valid access path to the patient covers them.
type Allergy struct {
	ID         int64     `json:"id"`
	PatientID  int64     `json:"patient_id"`
	Allergen   string    `json:"allergen"`
	Reaction   string    `json:"reaction"`
	Severity   string    `json:"severity"`
	RecordedBy int64     `json:"recorded_by"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// AllergyRequest is the payload for recording an allergy.
type AllergyRequest struct {
	Allergen string `json:"allergen"`
	Reaction string `json:"reaction"`
	Severity string `json:"severity"`
}

// Medication is a prescribed medication entry.
type Medication struct {
	ID           int64      `json:"id"`
	PatientID    int64      `json:"patient_id"`
	Name         string     `json:"name"`
	Dosage       string     `json:"dosage"`
	Frequency    string     `json:"frequency"`
	StartDate    *time.Time `json:"start_date,omitempty"`
	EndDate      *time.Time `json:"end_date,omitempty"`
	IsActive     bool       `json:"is_active"`
	PrescribedBy int64      `json:"prescribed_by"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// MedicationRequest is the payload for recording or updating a medication.
type MedicationRequest struct {
	Name      string     `json:"name"`
	Dosage    string     `json:"dosage"`
	Frequency string     `json:"frequency"`
	StartDate *time.Time `json:"start_date,omitempty"`
	EndDate   *time.Time `json:"end_date,omitempty"`
	IsActive  *bool      `json:"is_active,omitempty"`
}

// FamilyHistory is a hereditary condition noted for a relative of the
// patient.
type FamilyHistory struct {
	ID         int64     `json:"id"`
	PatientID  int64     `json:"patient_id"`
	Relation   string    `json:"relation"`
	Condition  string    `json:"condition"`
	Notes      *string   `json:"notes,omitempty"`
	RecordedBy int64     `json:"recorded_by"`
	CreatedAt  time.Time `json:"created_at"`
}

// FamilyHistoryRequest is the payload for recording a family history entry.
type FamilyHistoryRequest struct {
	Relation  string  `json:"relation"`
	Condition string  `json:"condition"`
	Notes     *string `json:"notes,omitempty"`
}

// Lifestyle is a recorded lifestyle habit of the patient.
type Lifestyle struct {
	ID         int64     `json:"id"`
	PatientID  int64     `json:"patient_id"`
	Habit      string    `json:"habit"`
	Frequency  string    `json:"frequency"`
	Notes      *string   `json:"notes,omitempty"`
	RecordedBy int64     `json:"recorded_by"`
	CreatedAt  time.Time `json:"created_at"`
}

// LifestyleRequest is the payload for recording a lifestyle entry.
type LifestyleRequest struct {
	Habit     string  `json:"habit"`
	Frequency string  `json:"frequency"`
	Notes     *string `json:"notes,omitempty"`
}

// FullHistory is the composite view of every record group of a patient.
type FullHistory struct {
	MedicalHistory []MedicalHistory `json:"medical_history"`
	Allergies      []Allergy        `json:"allergies"`
	Medications    []Medication     `json:"medications"`
	FamilyHistory  []FamilyHistory  `json:"family_history"`
	Lifestyle      []Lifestyle      `json:"lifestyle"`
}
