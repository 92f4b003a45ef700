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

// User is an account known to the service. Patients carry the "user" role;
// staff accounts carry one of the staff roles.
type User struct {
	ID        int64     `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Credentials carries a user together with its password hash. It never leaves
// the service layer.
type Credentials struct {
	User         User
	PasswordHash string
}

// PatientProfile holds the patient-only attributes of a user account.
type PatientProfile struct {
	UserID           int64   `json:"user_id"`
	DateOfBirth      *string `json:"date_of_birth,omitempty"`
	Gender           *string `json:"gender,omitempty"`
	BloodGroup       *string `json:"blood_group,omitempty"`
	EmergencyContact *string `json:"emergency_contact,omitempty"`
	HasPin           bool    `json:"has_pin"`
}

// CreateUserRequest is the payload for registering a new account.
type CreateUserRequest struct {
	Email            string  `json:"email"`
	Name             string  `json:"name"`
	Password         string  `json:"password"`
	Role             string  `json:"role"`
	Pin              *string `json:"pin,omitempty"`
	DateOfBirth      *string `json:"date_of_birth,omitempty"`
	Gender           *string `json:"gender,omitempty"`
	BloodGroup       *string `json:"blood_group,omitempty"`
	EmergencyContact *string `json:"emergency_contact,omitempty"`
}

// SetPinRequest is the payload for setting or replacing a patient PIN.
type SetPinRequest struct {
	Pin string `json:"pin"`
}
