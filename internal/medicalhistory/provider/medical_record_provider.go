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

import (
	"github.com/wso2/healthcare-records-service/internal/medicalhistory/service"
)

// MedicalRecordProviderInterface defines the interface for the medical
// record provider.
type MedicalRecordProviderInterface interface {
	GetMedicalRecordService() service.MedicalRecordServiceInterface
}

// MedicalRecordProvider is the default implementation of the
// MedicalRecordProviderInterface.
type MedicalRecordProvider struct{}

// NewMedicalRecordProvider creates a new instance of MedicalRecordProvider.
func NewMedicalRecordProvider() MedicalRecordProviderInterface {

	return &MedicalRecordProvider{}
}

// GetMedicalRecordService returns the medical record service instance.
func (mp *MedicalRecordProvider) GetMedicalRecordService() service.MedicalRecordServiceInterface {

	return service.GetMedicalRecordService()
}
