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

// Permissions maps a record category to whether the grant covers it. Keys
// outside the recognized categories are preserved but never interpreted. A
// nil Permissions value means unrestricted access.
type Permissions map[string]bool

// Allows reports whether the permission set covers the given category.
func (p Permissions) Allows(category string) bool {
	if p == nil {
		return true
	}
	return p[category]
}

// AllowsAny reports whether at least one category is covered.
func (p Permissions) AllowsAny() bool {
	if p == nil {
		return true
	}
	for _, allowed := range p {
		if allowed {
			return true
		}
	}
	return false
}

// AccessGrant is a patient's consent for one staff member to read the
// patient's records, scoped by category and bounded in time. Grants are
// deactivated, never deleted.
type AccessGrant struct {
	ID          int64       `json:"id"`
	PatientID   int64       `json:"patient_id"`
	StaffID     int64       `json:"staff_id"`
	Permissions Permissions `json:"permissions"`
	IsActive    bool        `json:"is_active"`
	GrantedAt   time.Time   `json:"granted_at"`
	ExpiresAt   *time.Time  `json:"expires_at,omitempty"`
	UpdatedAt   time.Time   `json:"updated_at"`
}

// Expired reports whether the grant's validity window has passed at the
// given instant. A grant without an expiry never expires.
func (g *AccessGrant) Expired(now time.Time) bool {
	if g.ExpiresAt == nil {
		return false
	}
	return !g.ExpiresAt.After(now)
}

// GrantAccessRequest is the payload a patient sends to grant or renew a
// staff member's access.
type GrantAccessRequest struct {
	StaffID     int64       `json:"staff_id"`
	Pin         string      `json:"pin"`
	Permissions Permissions `json:"permissions"`
}

// RevokeAccessRequest is the payload a patient sends to revoke a staff
// member's access.
type RevokeAccessRequest struct {
	StaffID int64 `json:"staff_id"`
}

// RevokeAccessResponse reports how many active grants the revocation
// deactivated. Zero means there was nothing to revoke.
type RevokeAccessResponse struct {
	Revoked int64 `json:"revoked"`
}

// AccessStatus is the answer to an access check. Permissions and ExpiresAt
// are only present when an active grant exists.
type AccessStatus struct {
	HasAccess   bool        `json:"has_access"`
	Permissions Permissions `json:"permissions,omitempty"`
	ExpiresAt   *time.Time  `json:"expires_at,omitempty"`
}
