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

package config

import "sync"

// HRSRuntime holds the runtime configuration for the healthcare records server.
type HRSRuntime struct {
	HRSHome string `yaml:"hrs_home"`
	Config  Config `yaml:"config"`
}

var (
	runtimeConfig *HRSRuntime
	once          sync.Once
)

// InitializeHRSRuntime initializes the HRSRuntime configuration.
func InitializeHRSRuntime(hrsHome string, config *Config) error {

	once.Do(func() {
		runtimeConfig = &HRSRuntime{
			HRSHome: hrsHome,
			Config:  *config,
		}
	})

	return nil
}

// GetHRSRuntime returns the HRSRuntime configuration.
func GetHRSRuntime() *HRSRuntime {

	if runtimeConfig == nil {
		panic("HRSRuntime is not initialized")
	}
	return runtimeConfig
}

// OverrideHRSRuntime replaces the runtime configuration. Intended for tests.
func OverrideHRSRuntime(conf Config) {
	runtimeConfig = &HRSRuntime{
		Config: conf,
	}
}
