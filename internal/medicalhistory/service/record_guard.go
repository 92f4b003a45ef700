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

package service

import (
	"fmt"
	"net/http"

	accessModel "github.com/wso2/healthcare-records-service/internal/access/model"
	accessService "github.com/wso2/healthcare-records-service/internal/access/service"
	"github.com/wso2/healthcare-records-service/internal/system/authn"
	"github.com/wso2/healthcare-records-service/internal/system/config"
	"github.com/wso2/healthcare-records-service/internal/system/constants"
	errors2 "github.com/wso2/healthcare-records-service/internal/system/errors"
	"github.com/wso2/healthcare-records-service/internal/system/log"
)

// RecordGuard decides, per request, what record scope an actor holds toward
// a patient. Self access and the configured no-grant fallback resolve to an
// unrestricted (nil) permission set; an active grant resolves to its own
// permissions.
type RecordGuard struct {
	access accessService.AccessServiceInterface
}

// NewRecordGuard builds a guard over the given consent engine.
func NewRecordGuard(access accessService.AccessServiceInterface) *RecordGuard {
	return &RecordGuard{access: access}
}

// ResolvePermissions returns the permission set the actor holds toward the
// patient. A nil set means unrestricted access.
func (g *RecordGuard) ResolvePermissions(actor *authn.Actor, patientID int64) (accessModel.Permissions, error) {

	if actor.UserID == patientID {
		return nil, nil
	}

	grant, err := g.access.ResolveGrant(patientID, actor.UserID)
	if err != nil {
		return nil, err
	}
	if grant == nil {
		if config.GetHRSRuntime().Config.AccessPolicy.AllowWithoutGrant {
			log.GetLogger().Warn("Granting record access without a consent grant by policy",
				log.Int64("staffId", actor.UserID), log.Int64("patientId", patientID))
			return nil, nil
		}
		return nil, errors2.NewClientError(errors2.ErrorMessage{
			Code:        errors2.FORBIDDEN.Code,
			Message:     errors2.FORBIDDEN.Message,
			Description: fmt.Sprintf("No access grant exists for patient: %d", patientID),
		}, http.StatusForbidden)
	}
	return grant.Permissions, nil
}

// AuthorizeForCategory resolves the actor's permissions and requires the
// given record category to be covered.
func (g *RecordGuard) AuthorizeForCategory(actor *authn.Actor, patientID int64, category string) (accessModel.Permissions, error) {

	permissions, err := g.ResolvePermissions(actor, patientID)
	if err != nil {
		return nil, err
	}
	if !permissions.Allows(category) {
		return nil, errors2.NewClientError(errors2.ErrorMessage{
			Code:        errors2.CATEGORY_FORBIDDEN.Code,
			Message:     errors2.CATEGORY_FORBIDDEN.Message,
			Description: fmt.Sprintf("The grant does not cover %s records of patient: %d", category, patientID),
		}, http.StatusForbidden)
	}
	return permissions, nil
}

// AuthorizeAny resolves the actor's permissions and requires at least one
// covered category. Records that carry no category only need some valid
// access path to the patient.
func (g *RecordGuard) AuthorizeAny(actor *authn.Actor, patientID int64) (accessModel.Permissions, error) {

	permissions, err := g.ResolvePermissions(actor, patientID)
	if err != nil {
		return nil, err
	}
	if !permissions.AllowsAny() {
		return nil, errors2.NewClientError(errors2.ErrorMessage{
			Code:        errors2.FORBIDDEN.Code,
			Message:     errors2.FORBIDDEN.Message,
			Description: fmt.Sprintf("The grant covers no record category of patient: %d", patientID),
		}, http.StatusForbidden)
	}
	return permissions, nil
}

// AllowedCategories intersects the requested categories with the actor's
// permission set. Explicitly requesting a category the grant does not cover
// is an error; an empty intersection with no explicit request is too, so no
// query ever runs with an empty scope.
func AllowedCategories(permissions accessModel.Permissions, requested []string) ([]string, error) {

	all := []string{constants.CategoryPhysical, constants.CategoryMental}

	if len(requested) == 0 {
		if permissions == nil {
			return all, nil
		}
		allowed := make([]string, 0, len(all))
		for _, category := range all {
			if permissions.Allows(category) {
				allowed = append(allowed, category)
			}
		}
		if len(allowed) == 0 {
			return nil, categoryForbidden("The grant covers no record category.")
		}
		return allowed, nil
	}

	allowed := make([]string, 0, len(requested))
	for _, category := range requested {
		if !constants.ValidCategories[category] {
			return nil, errors2.NewClientError(errors2.ErrorMessage{
				Code:        errors2.BAD_REQUEST.Code,
				Message:     errors2.BAD_REQUEST.Message,
				Description: fmt.Sprintf("Unknown record category: %s", category),
			}, http.StatusBadRequest)
		}
		if !permissions.Allows(category) {
			return nil, categoryForbidden(fmt.Sprintf("The grant does not cover %s records.", category))
		}
		allowed = append(allowed, category)
	}
	return allowed, nil
}

func categoryForbidden(description string) error {
	return errors2.NewClientError(errors2.ErrorMessage{
		Code:        errors2.CATEGORY_FORBIDDEN.Code,
		Message:     errors2.CATEGORY_FORBIDDEN.Message,
		Description: description,
	}, http.StatusForbidden)
}
