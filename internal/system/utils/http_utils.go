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

package utils

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/wso2/healthcare-records-service/internal/system/authn"
	"github.com/wso2/healthcare-records-service/internal/system/authz"
	customerrors "github.com/wso2/healthcare-records-service/internal/system/errors"
	"github.com/wso2/healthcare-records-service/internal/system/log"
)

// HandleError sends an HTTP error response based on the provided error.
func HandleError(w http.ResponseWriter, err error) {
	var clientError *customerrors.ClientError
	w.Header().Set("Content-Type", "application/json")
	if ok := errors.As(err, &clientError); ok {
		w.WriteHeader(clientError.StatusCode)
		_ = json.NewEncoder(w).Encode(struct {
			Code        string `json:"code"`
			Message     string `json:"message"`
			Description string `json:"description"`
		}{
			Code:        clientError.ErrorMessage.Code,
			Message:     clientError.ErrorMessage.Message,
			Description: clientError.ErrorMessage.Description,
		})
		return
	}

	traceID := uuid.New().String()
	log.GetLogger().Error(err.Error(), log.String("trace_id", traceID))
	w.WriteHeader(http.StatusInternalServerError)
	_ = json.NewEncoder(w).Encode(map[string]string{
		"error":    "Internal server error",
		"trace_id": traceID,
	})
}

// WriteJSON writes a JSON response with the given status code.
func WriteJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if body != nil {
		_ = json.NewEncoder(w).Encode(body)
	}
}

// RequestActor authenticates the request session and returns the actor.
func RequestActor(r *http.Request) (*authn.Actor, error) {

	authHeader := r.Header.Get("Authorization")
	if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
		return nil, customerrors.NewClientError(customerrors.ErrorMessage{
			Code:        customerrors.UN_AUTHORIZED.Code,
			Message:     customerrors.UN_AUTHORIZED.Message,
			Description: "Missing or invalid Authorization header",
		}, http.StatusUnauthorized)
	}

	token := strings.TrimPrefix(authHeader, "Bearer ")
	actor, err := authn.ValidateSessionToken(token)
	if err != nil {
		return nil, customerrors.NewClientError(customerrors.ErrorMessage{
			Code:        customerrors.UN_AUTHORIZED.Code,
			Message:     customerrors.UN_AUTHORIZED.Message,
			Description: "Session token is invalid or expired",
		}, http.StatusUnauthorized)
	}
	return actor, nil
}

// RequestActorWithPermission authenticates the session and additionally
// checks the role-based permission for administrative operations.
func RequestActorWithPermission(r *http.Request, operation string) (*authn.Actor, error) {

	actor, err := RequestActor(r)
	if err != nil {
		return nil, err
	}
	if !authz.HasPermission(actor.Role, operation) {
		return nil, customerrors.NewClientError(customerrors.ErrorMessage{
			Code:        customerrors.FORBIDDEN.Code,
			Message:     customerrors.FORBIDDEN.Message,
			Description: "Do not have permission to perform this operation",
		}, http.StatusForbidden)
	}
	return actor, nil
}

// ParsePathID parses the trailing path segment as a numeric identifier.
func ParsePathID(r *http.Request, name string) (int64, error) {

	raw := r.PathValue(name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, customerrors.NewClientError(customerrors.ErrorMessage{
			Code:        customerrors.BAD_REQUEST.Code,
			Message:     customerrors.BAD_REQUEST.Message,
			Description: "Path parameter '" + name + "' must be a positive integer.",
		}, http.StatusBadRequest)
	}
	return id, nil
}

// ParseQueryID parses a query parameter as a numeric identifier.
func ParseQueryID(r *http.Request, name string) (int64, error) {

	raw := r.URL.Query().Get(name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, customerrors.NewClientError(customerrors.ErrorMessage{
			Code:        customerrors.BAD_REQUEST.Code,
			Message:     customerrors.BAD_REQUEST.Message,
			Description: "Query parameter '" + name + "' must be a positive integer.",
		}, http.StatusBadRequest)
	}
	return id, nil
}

// ClientIP extracts the originating client address for audit entries.
func ClientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		parts := strings.Split(fwd, ",")
		return strings.TrimSpace(parts[0])
	}
	host := r.RemoteAddr
	if idx := strings.LastIndex(host, ":"); idx > 0 {
		host = host[:idx]
	}
	return host
}
