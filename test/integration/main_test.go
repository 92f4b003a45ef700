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

package integration

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/wso2/healthcare-records-service/internal/system/config"
	"github.com/wso2/healthcare-records-service/internal/system/database/provider"
	"github.com/wso2/healthcare-records-service/internal/system/log"
	"github.com/wso2/healthcare-records-service/test/setup"
)

var grantWindow = time.Hour

func TestMain(m *testing.M) {
	ctx := context.Background()

	config.OverrideHRSRuntime(config.Config{
		Log:  config.LogConfig{LogLevel: "ERROR"},
		Auth: config.AuthConfig{JWTSecret: "integration-test-secret"},
		AccessPolicy: config.AccessPolicyConfig{
			DefaultGrantWindow: grantWindow,
			MaxPinAttempts:     5,
			PinLockoutWindow:   time.Minute,
		},
	})
	_ = log.Init("ERROR")

	pg, err := setup.SetupTestPostgres(ctx)
	if err != nil {
		fmt.Println("Failed to start test database:", err)
		os.Exit(1)
	}

	provider.SetTestDB(pg.DB)
	if err := pg.ApplySchema(filepath.Join("..", "..", "dbscripts", "schema.sql")); err != nil {
		fmt.Println("Failed to apply schema:", err)
		pg.Teardown(ctx)
		os.Exit(1)
	}

	code := m.Run()

	pg.Teardown(ctx)
	os.Exit(code)
}
