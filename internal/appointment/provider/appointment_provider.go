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

import "github.com/wso2/healthcare-records-service/internal/appointment/service"

// AppointmentProviderInterface provides access to the appointment service.
type AppointmentProviderInterface interface {
	GetAppointmentService() service.AppointmentServiceInterface
}

// AppointmentProvider is the default implementation.
type AppointmentProvider struct{}

// NewAppointmentProvider creates a new AppointmentProvider.
func NewAppointmentProvider() AppointmentProviderInterface {
	return &AppointmentProvider{}
}

// GetAppointmentService returns the appointment service instance.
func (p *AppointmentProvider) GetAppointmentService() service.AppointmentServiceInterface {
	return service.GetAppointmentService()
}
