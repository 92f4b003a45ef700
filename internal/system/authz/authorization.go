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

package authz

import "github.com/wso2/healthcare-records-service/internal/system/constants"

// rolePermissions maps a role to the coarse operations it may perform.
// Medical-record category scoping is enforced separately by the record guard;
// this table only gates administrative surfaces.
var rolePermissions = map[string]map[string]bool{
	constants.RoleAdmin: {
		"user:create": true,
		"user:view":   true,
		"user:update": true,
		"user:delete": true,
		"audit:view":  true,
		"alert:view":  true,
	},
	constants.RoleAuditor: {
		"user:view":  true,
		"audit:view": true,
	},
	constants.RoleDoctor: {
		"user:view":    true,
		"alert:view":   true,
		"alert:update": true,
	},
	constants.RoleNurse: {
		"user:view":    true,
		"alert:view":   true,
		"alert:update": true,
	},
}

// HasPermission reports whether the role may perform the named operation.
func HasPermission(role, operation string) bool {
	perms, ok := rolePermissions[role]
	if !ok {
		return false
	}
	return perms[operation]
}
