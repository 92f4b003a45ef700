/*
 * Copyright (c) 2025-2026, WSO2 LLC. (http://www.wso2.com).
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

package authn

import (
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/wso2/healthcare-records-service/internal/system/config"
	errors2 "github.com/wso2/healthcare-records-service/internal/system/errors"
	"github.com/wso2/healthcare-records-service/internal/system/log"
)

// Actor is the authenticated identity attached to a request session.
type Actor struct {
	UserID int64
	Email  string
	Role   string
}

// IssueSessionToken creates a signed session JWT for the given user.
func IssueSessionToken(userID int64, email, role string) (string, error) {

	cfg := config.GetHRSRuntime().Config
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":   strconv.FormatInt(userID, 10),
		"email": email,
		"role":  role,
		"iat":   now.Unix(),
		"exp":   now.Add(cfg.SessionTTLOrDefault()).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(cfg.Auth.JWTSecret))
	if err != nil {
		return "", errors2.NewServerError(errors2.ErrorMessage{
			Code:        errors2.TOKEN_ISSUE.Code,
			Message:     errors2.TOKEN_ISSUE.Message,
			Description: "Failed to sign session token.",
		}, err)
	}
	return signed, nil
}

// ValidateSessionToken verifies the token signature and expiry and returns
// the actor encoded in its claims.
func ValidateSessionToken(tokenString string) (*Actor, error) {

	logger := log.GetLogger()
	cfg := config.GetHRSRuntime().Config

	claims := jwt.MapClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(cfg.Auth.JWTSecret), nil
	})
	if err != nil || !token.Valid {
		logger.Debug("Session token validation failed.", log.Error(err))
		return nil, err
	}

	sub, err := claims.GetSubject()
	if err != nil {
		return nil, err
	}
	userID, err := strconv.ParseInt(sub, 10, 64)
	if err != nil {
		logger.Debug("Session token carries a non-numeric subject.", log.String("sub", sub))
		return nil, err
	}

	actor := &Actor{UserID: userID}
	if email, ok := claims["email"].(string); ok {
		actor.Email = email
	}
	if role, ok := claims["role"].(string); ok {
		actor.Role = role
	}
	return actor, nil
}
