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
	"github.com/wso2/healthcare-records-service/internal/access/service"
)

// AccessProviderInterface defines the interface for the access provider.
type AccessProviderInterface interface {
	GetAccessService() service.AccessServiceInterface
}

// AccessProvider is the default implementation of the AccessProviderInterface.
type AccessProvider struct{}

// NewAccessProvider creates a new instance of AccessProvider.
func NewAccessProvider() AccessProviderInterface {

	return &AccessProvider{}
}

// GetAccessService returns the access service instance.
func (ap *AccessProvider) GetAccessService() service.AccessServiceInterface {

	return service.GetAccessService()
}
