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

package services

import (
	"fmt"
	"net/http"

	"github.com/wso2/healthcare-records-service/internal/access/handler"
)

type AccessService struct {
	accessHandler *handler.AccessHandler
}

func NewAccessService(mux *http.ServeMux, apiBasePath string) *AccessService {

	instance := &AccessService{
		accessHandler: handler.NewAccessHandler(),
	}
	instance.RegisterRoutes(mux, apiBasePath)

	return instance
}

func (s *AccessService) RegisterRoutes(mux *http.ServeMux, apiBasePath string) {

	mux.HandleFunc(fmt.Sprintf("POST %s/access/grant", apiBasePath), s.accessHandler.GrantAccess)
	mux.HandleFunc(fmt.Sprintf("POST %s/access/revoke", apiBasePath), s.accessHandler.RevokeAccess)
	mux.HandleFunc(fmt.Sprintf("GET %s/access/check/{patientId}", apiBasePath), s.accessHandler.CheckAccess)
}
