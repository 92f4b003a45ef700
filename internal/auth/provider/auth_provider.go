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
	"github.com/wso2/healthcare-records-service/internal/auth/service"
)

// AuthProviderInterface defines the interface for the auth provider.
type AuthProviderInterface interface {
	GetAuthService() service.AuthServiceInterface
}

// AuthProvider is the default implementation of the AuthProviderInterface.
type AuthProvider struct{}

// NewAuthProvider creates a new instance of AuthProvider.
func NewAuthProvider() AuthProviderInterface {

	return &AuthProvider{}
}

// GetAuthService returns the auth service instance.
func (ap *AuthProvider) GetAuthService() service.AuthServiceInterface {

	return service.GetAuthService()
}
