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

package provider

import "github.com/wso2/healthcare-records-service/internal/clinicalnote/service"

// ClinicalNoteProviderInterface provides access to the clinical note service.
type ClinicalNoteProviderInterface interface {
	GetClinicalNoteService() service.ClinicalNoteServiceInterface
}

// ClinicalNoteProvider is the default implementation.
type ClinicalNoteProvider struct{}

// NewClinicalNoteProvider creates a new ClinicalNoteProvider.
func NewClinicalNoteProvider() ClinicalNoteProviderInterface {
	return &ClinicalNoteProvider{}
}

// GetClinicalNoteService returns the clinical note service instance.
func (p *ClinicalNoteProvider) GetClinicalNoteService() service.ClinicalNoteServiceInterface {
	return service.GetClinicalNoteService()
}
