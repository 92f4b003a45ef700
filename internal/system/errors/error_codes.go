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

package errors

const errorPrefix = "HRS-"

var (
	// Server error codes

	DB_CLIENT_INIT = ErrorMessage{
		Code:    errorPrefix + "15001",
		Message: "Unable to initialize database client.",
	}

	ADD_ACCESS_GRANT = ErrorMessage{
		Code:    errorPrefix + "15002",
		Message: "Error while persisting access grant.",
	}

	FETCH_ACCESS_GRANT = ErrorMessage{
		Code:    errorPrefix + "15003",
		Message: "Error while fetching access grant.",
	}

	REVOKE_ACCESS_GRANT = ErrorMessage{
		Code:    errorPrefix + "15004",
		Message: "Error while revoking access grant.",
	}

	ADD_MEDICAL_HISTORY = ErrorMessage{
		Code:    errorPrefix + "15005",
		Message: "Error while adding medical history record.",
	}

	FETCH_MEDICAL_HISTORY = ErrorMessage{
		Code:    errorPrefix + "15006",
		Message: "Error while fetching medical history record(s).",
	}

	UPDATE_MEDICAL_HISTORY = ErrorMessage{
		Code:    errorPrefix + "15007",
		Message: "Error while updating medical history record.",
	}

	DELETE_MEDICAL_HISTORY = ErrorMessage{
		Code:    errorPrefix + "15008",
		Message: "Error while deleting medical history record.",
	}

	FETCH_USER = ErrorMessage{
		Code:    errorPrefix + "15009",
		Message: "Error while fetching user.",
	}

	ADD_USER = ErrorMessage{
		Code:    errorPrefix + "15010",
		Message: "Error while adding user.",
	}

	ADD_VITALS = ErrorMessage{
		Code:    errorPrefix + "15011",
		Message: "Error while recording vitals.",
	}

	FETCH_VITALS = ErrorMessage{
		Code:    errorPrefix + "15012",
		Message: "Error while fetching vitals.",
	}

	ADD_CLINICAL_NOTE = ErrorMessage{
		Code:    errorPrefix + "15013",
		Message: "Error while adding clinical note.",
	}

	FETCH_CLINICAL_NOTE = ErrorMessage{
		Code:    errorPrefix + "15014",
		Message: "Error while fetching clinical note(s).",
	}

	ADD_ALERT = ErrorMessage{
		Code:    errorPrefix + "15015",
		Message: "Error while creating alert.",
	}

	FETCH_ALERT = ErrorMessage{
		Code:    errorPrefix + "15016",
		Message: "Error while fetching alert(s).",
	}

	UPDATE_ALERT = ErrorMessage{
		Code:    errorPrefix + "15017",
		Message: "Error while updating alert.",
	}

	ADD_APPOINTMENT = ErrorMessage{
		Code:    errorPrefix + "15018",
		Message: "Error while creating appointment.",
	}

	FETCH_APPOINTMENT = ErrorMessage{
		Code:    errorPrefix + "15019",
		Message: "Error while fetching appointment(s).",
	}

	UPDATE_APPOINTMENT = ErrorMessage{
		Code:    errorPrefix + "15020",
		Message: "Error while updating appointment.",
	}

	ADD_NOTIFICATION = ErrorMessage{
		Code:    errorPrefix + "15021",
		Message: "Error while persisting notification.",
	}

	FETCH_NOTIFICATION = ErrorMessage{
		Code:    errorPrefix + "15022",
		Message: "Error while fetching notifications.",
	}

	ADD_ATTACHMENT = ErrorMessage{
		Code:    errorPrefix + "15023",
		Message: "Error while persisting attachment metadata.",
	}

	FETCH_ATTACHMENT = ErrorMessage{
		Code:    errorPrefix + "15024",
		Message: "Error while fetching attachment metadata.",
	}

	AUDIT_SINK = ErrorMessage{
		Code:    errorPrefix + "15025",
		Message: "Error while writing audit trail entry.",
	}

	TOKEN_ISSUE = ErrorMessage{
		Code:    errorPrefix + "15026",
		Message: "Error while issuing session token.",
	}

	PASSWORD_HASH = ErrorMessage{
		Code:    errorPrefix + "15027",
		Message: "Error while hashing credential.",
	}

	// Client error codes

	BAD_REQUEST = ErrorMessage{
		Code:    errorPrefix + "11001",
		Message: "Invalid body format.",
	}

	UN_AUTHORIZED = ErrorMessage{
		Code:        errorPrefix + "11002",
		Message:     "Unauthorized",
		Description: "Authorization failure. Authorization information was invalid or missing from your request.",
	}

	FORBIDDEN = ErrorMessage{
		Code:        errorPrefix + "11003",
		Message:     "Forbidden",
		Description: "You do not have permission to perform this operation.",
	}

	PATIENT_NOT_FOUND = ErrorMessage{
		Code:        errorPrefix + "11004",
		Message:     "Patient not found.",
		Description: "No patient record found for the given patient id.",
	}

	PATIENT_PIN_NOT_SET = ErrorMessage{
		Code:        errorPrefix + "11005",
		Message:     "Patient has no PIN set.",
		Description: "An access grant requires the patient to have a PIN configured.",
	}

	INVALID_PIN = ErrorMessage{
		Code:        errorPrefix + "11006",
		Message:     "Invalid PIN.",
		Description: "The provided PIN does not match the patient's PIN.",
	}

	PIN_ATTEMPTS_EXCEEDED = ErrorMessage{
		Code:        errorPrefix + "11007",
		Message:     "Too many failed PIN attempts.",
		Description: "PIN verification is temporarily locked for this patient and staff pair.",
	}

	CATEGORY_FORBIDDEN = ErrorMessage{
		Code:    errorPrefix + "11008",
		Message: "Insufficient record category permission.",
	}

	MEDICAL_HISTORY_NOT_FOUND = ErrorMessage{
		Code:        errorPrefix + "11009",
		Message:     "Medical history record not found.",
		Description: "No medical history record found for the given id.",
	}

	ALLERGY_NOT_FOUND = ErrorMessage{
		Code:    errorPrefix + "11010",
		Message: "Allergy record not found.",
	}

	MEDICATION_NOT_FOUND = ErrorMessage{
		Code:    errorPrefix + "11011",
		Message: "Medication record not found.",
	}

	FAMILY_HISTORY_NOT_FOUND = ErrorMessage{
		Code:    errorPrefix + "11012",
		Message: "Family history record not found.",
	}

	LIFESTYLE_NOT_FOUND = ErrorMessage{
		Code:    errorPrefix + "11013",
		Message: "Lifestyle record not found.",
	}

	MEDICAL_HISTORY_VALIDATION = ErrorMessage{
		Code:    errorPrefix + "11014",
		Message: "Medical history validation failed.",
	}

	USER_NOT_FOUND = ErrorMessage{
		Code:    errorPrefix + "11015",
		Message: "User not found.",
	}

	USER_ALREADY_EXISTS = ErrorMessage{
		Code:    errorPrefix + "11016",
		Message: "A user with this email already exists.",
	}

	INVALID_CREDENTIALS = ErrorMessage{
		Code:        errorPrefix + "11017",
		Message:     "Invalid credentials.",
		Description: "The provided email or password is incorrect.",
	}

	ALERT_NOT_FOUND = ErrorMessage{
		Code:    errorPrefix + "11018",
		Message: "Alert not found.",
	}

	APPOINTMENT_NOT_FOUND = ErrorMessage{
		Code:    errorPrefix + "11019",
		Message: "Appointment not found.",
	}

	APPOINTMENT_CONFLICT = ErrorMessage{
		Code:        errorPrefix + "11020",
		Message:     "Appointment conflict.",
		Description: "The staff member already has an appointment in that time slot.",
	}

	ATTACHMENT_NOT_FOUND = ErrorMessage{
		Code:    errorPrefix + "11021",
		Message: "Attachment not found.",
	}

	INVALID_PAGINATION = ErrorMessage{
		Code:    errorPrefix + "11022",
		Message: "Invalid pagination parameters.",
	}

	NOTIFICATION_NOT_FOUND = ErrorMessage{
		Code:    errorPrefix + "11023",
		Message: "Notification not found.",
	}
)
