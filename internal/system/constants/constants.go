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

package constants

// ApiBasePath is the prefix under which every service is registered.
const ApiBasePath = "/api/v1"

// Record categories a grant can be scoped to.
const (
	CategoryPhysical = "physical"
	CategoryMental   = "mental"
)

// Resource names used by the record guard and the audit trail.
const (
	ResourceMedicalHistory = "medical_history"
	ResourceAllergy        = "allergy"
	ResourceMedication     = "medication"
	ResourceFamilyHistory  = "family_history"
	ResourceLifestyle      = "lifestyle"
	ResourceVitals         = "vitals"
	ResourceClinicalNote   = "clinical_note"
	ResourceAttachment     = "attachment"
)

// CategoryGatedResources names the record types whose operations are gated
// per category. Every other medical resource carries no category and only
// requires some valid access path to the patient.
var CategoryGatedResources = map[string]bool{
	ResourceMedicalHistory: true,
}

// ValidCategories enumerates the recognized permission scope keys. The
// persisted permissions object may carry additional keys; they are preserved
// but never interpreted.
var ValidCategories = map[string]bool{
	CategoryPhysical: true,
	CategoryMental:   true,
}

// Roles known to the service.
const (
	RoleUser    = "user"
	RoleNurse   = "nurse"
	RoleDoctor  = "doctor"
	RoleAdmin   = "admin"
	RoleAuditor = "auditor"
)

// Alert lifecycle states.
const (
	AlertStatusPending    = "pending"
	AlertStatusInProgress = "in_progress"
	AlertStatusResolved   = "resolved"
)

// Appointment lifecycle states.
const (
	AppointmentStatusRequested = "requested"
	AppointmentStatusConfirmed = "confirmed"
	AppointmentStatusCancelled = "cancelled"
	AppointmentStatusCompleted = "completed"
)

// DefaultQueueSize bounds the in-process notification queue.
const DefaultQueueSize = 100

// ActorContextKey carries the authenticated actor through a request context.
type ContextKey string

const ActorContextKey ContextKey = "actor"
