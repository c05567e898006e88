// Copyright 2026 The RentDesk Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("CONFIG_FILE", "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:5000", cfg.API.BaseURL)
	assert.Equal(t, "rentdesk_session", cfg.Session.CookieName)
	assert.Equal(t, StoreMemory, cfg.Session.Store)
	assert.Equal(t, 3*time.Second, cfg.Poll.Interval)
}

func TestLoad_FileThenEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rentdesk.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
api:
  base_url: http://api.internal:5000
  timeout: 4s
session:
  store: redis
  idle_timeout: 10m
poll:
  interval: 5s
cors:
  allowed_origins: ["https://a.example"]
`), 0o600))

	t.Setenv("CONFIG_FILE", path)
	t.Setenv("POLL_INTERVAL", "7s")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://b.example, https://c.example")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "http://api.internal:5000", cfg.API.BaseURL)
	assert.Equal(t, 4*time.Second, cfg.API.Timeout)
	assert.Equal(t, StoreRedis, cfg.Session.Store)
	assert.Equal(t, 10*time.Minute, cfg.Session.IdleTimeout)
	// Values the file does not mention keep their defaults.
	assert.Equal(t, 24*time.Hour, cfg.Session.Lifetime)
	assert.Equal(t, 7*time.Second, cfg.Poll.Interval)
	assert.Equal(t, []string{"https://b.example", "https://c.example"}, cfg.CORS.AllowedOrigins)
}

func TestLoad_MissingFile(t *testing.T) {
	t.Setenv("CONFIG_FILE", filepath.Join(t.TempDir(), "absent.yaml"))
	_, err := Load()
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		ok     bool
	}{
		{"defaults", func(*Config) {}, true},
		{"relative api url", func(c *Config) { c.API.BaseURL = "/api" }, false},
		{"unknown store", func(c *Config) { c.Session.Store = "etcd" }, false},
		{"postgres without password", func(c *Config) { c.Session.Store = StorePostgres }, false},
		{"postgres with password", func(c *Config) {
			c.Session.Store = StorePostgres
			c.Database.Password = "pw"
		}, true},
		{"bad same site", func(c *Config) { c.Session.CookieSameSite = "sometimes" }, false},
		{"zero poll interval", func(c *Config) { c.Poll.Interval = 0 }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestParseHelpers_IgnoreGarbage(t *testing.T) {
	t.Setenv("RATELIMIT_BURST", "lots")
	t.Setenv("API_TIMEOUT", "soon")
	assert.Equal(t, 20, parseInt("RATELIMIT_BURST", 20))
	assert.Equal(t, time.Second, parseDuration("API_TIMEOUT", time.Second))
}
