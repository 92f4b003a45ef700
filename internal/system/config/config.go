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

import "time"

type AddrConfig struct {
	Port int    `yaml:"port"`
	Host string `yaml:"host"`
}

type LogConfig struct {
	LogLevel string `yaml:"log_level"`
}

type AuthConfig struct {
	JWTSecret          string        `yaml:"jwt_secret"`
	SessionTTL         time.Duration `yaml:"session_ttl"`
	CORSAllowedOrigins []string      `yaml:"cors_allowed_origins"`
}

type DataSourceConfig struct {
	Hostname string `yaml:"hostname"`
	Port     int    `yaml:"port"`
	Name     string `yaml:"name"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	SSLMode  string `yaml:"sslmode"`
}

type AuditSinkConfig struct {
	URI        string `yaml:"uri"`
	Database   string `yaml:"database"`
	Collection string `yaml:"collection"`
}

// AccessPolicyConfig holds the medical access policy knobs. DefaultGrantWindow
// bounds every new or renewed grant; AllowWithoutGrant controls the permissive
// fallback when no grant exists between a staff member and a patient.
type AccessPolicyConfig struct {
	DefaultGrantWindow time.Duration `yaml:"default_grant_window"`
	AllowWithoutGrant  bool          `yaml:"allow_without_grant"`
	MaxPinAttempts     int           `yaml:"max_pin_attempts"`
	PinLockoutWindow   time.Duration `yaml:"pin_lockout_window"`
}

type SchedulerConfig struct {
	ReminderSpec     string        `yaml:"reminder_spec"`
	ReminderHorizon  time.Duration `yaml:"reminder_horizon"`
	RemindersEnabled bool          `yaml:"reminders_enabled"`
}

type Config struct {
	Addr         AddrConfig         `yaml:"addr"`
	Log          LogConfig          `yaml:"log"`
	Auth         AuthConfig         `yaml:"auth"`
	DataSource   DataSourceConfig   `yaml:"datasource"`
	AuditSink    AuditSinkConfig    `yaml:"audit_sink"`
	AccessPolicy AccessPolicyConfig `yaml:"access_policy"`
	Scheduler    SchedulerConfig    `yaml:"scheduler"`
}

// GrantWindow returns the configured default grant validity window,
// falling back to 24 hours when unset.
func (c *Config) GrantWindow() time.Duration {
	if c.AccessPolicy.DefaultGrantWindow <= 0 {
		return 24 * time.Hour
	}
	return c.AccessPolicy.DefaultGrantWindow
}

// PinAttemptLimit returns the configured PIN attempt limit, defaulting to 5.
func (c *Config) PinAttemptLimit() int {
	if c.AccessPolicy.MaxPinAttempts <= 0 {
		return 5
	}
	return c.AccessPolicy.MaxPinAttempts
}

// PinLockout returns the PIN lockout window, defaulting to 15 minutes.
func (c *Config) PinLockout() time.Duration {
	if c.AccessPolicy.PinLockoutWindow <= 0 {
		return 15 * time.Minute
	}
	return c.AccessPolicy.PinLockoutWindow
}

// SessionTTL returns the session token lifetime, defaulting to 8 hours.
func (c *Config) SessionTTLOrDefault() time.Duration {
	if c.Auth.SessionTTL <= 0 {
		return 8 * time.Hour
	}
	return c.Auth.SessionTTL
}

// ReminderSpecOrDefault returns the cron spec of the appointment reminder
// sweep, defaulting to every 15 minutes.
func (c *Config) ReminderSpecOrDefault() string {
	if c.Scheduler.ReminderSpec == "" {
		return "*/15 * * * *"
	}
	return c.Scheduler.ReminderSpec
}

// ReminderHorizonOrDefault returns how far ahead the sweep looks for
// upcoming appointments, defaulting to 24 hours.
func (c *Config) ReminderHorizonOrDefault() time.Duration {
	if c.Scheduler.ReminderHorizon <= 0 {
		return 24 * time.Hour
	}
	return c.Scheduler.ReminderHorizon
}
