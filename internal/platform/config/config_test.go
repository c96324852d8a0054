// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/facegate/internal/platform/config"
)

/*
TestLoad_Defaults verifies the defaults applied when only the secret is set.
*/
func TestLoad_Defaults(t *testing.T) {
	t.Setenv("SESSION_SECRET", "test-secret")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.ServerPort)
	assert.Equal(t, "http://localhost:5000", cfg.BackendURL)
	assert.Equal(t, config.StoreMemory, cfg.SessionStore)
	assert.Equal(t, 3*time.Second, cfg.ScanInterval)
	assert.Equal(t, 8, cfg.RedisPoolSize)
	assert.Equal(t, 2*time.Second, cfg.RedisIOTimeout)
	assert.True(t, cfg.IsDevelopment())
}

/*
TestLoad_MissingSecret ensures the required session secret is enforced.
*/
func TestLoad_MissingSecret(t *testing.T) {
	t.Setenv("SESSION_SECRET", "")

	_, err := config.Load()
	assert.Error(t, err)
}

/*
TestLoad_StoreRequirements checks that backing store URLs are required.
*/
func TestLoad_StoreRequirements(t *testing.T) {
	tests := []struct {
		name  string
		store string
		env   map[string]string
		ok    bool
	}{
		{"redis_without_url", config.StoreRedis, nil, false},
		{"redis_with_url", config.StoreRedis, map[string]string{"REDIS_URL": "redis://localhost:6379/0"}, true},
		{"postgres_without_url", config.StorePostgres, nil, false},
		{"postgres_with_url", config.StorePostgres, map[string]string{"DATABASE_URL": "postgres://u:p@localhost/db"}, true},
		{"unknown_store", "sqlite", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("SESSION_SECRET", "test-secret")
			t.Setenv("SESSION_STORE", tt.store)
			t.Setenv("REDIS_URL", "")
			t.Setenv("DATABASE_URL", "")
			for key, value := range tt.env {
				t.Setenv(key, value)
			}

			_, err := config.Load()
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

/*
TestConfig_AllowedOrigins splits and trims the origin list.
*/
func TestConfig_AllowedOrigins(t *testing.T) {
	cfg := &config.Config{ExtraOrigins: " https://a.example , ,https://b.example"}
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.AllowedOrigins())
}

/*
TestLoadScanner_CameraSource requires exactly one camera source.
*/
func TestLoadScanner_CameraSource(t *testing.T) {
	tests := []struct {
		name     string
		snapshot string
		dir      string
		ok       bool
	}{
		{"none", "", "", false},
		{"snapshot", "http://cam.local/snapshot.jpg", "", true},
		{"dir", "", "/var/frames", true},
		{"both", "http://cam.local/snapshot.jpg", "/var/frames", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("CAMERA_SNAPSHOT_URL", tt.snapshot)
			t.Setenv("CAMERA_DIR", tt.dir)

			cfg, err := config.LoadScanner()
			if !tt.ok {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, 3*time.Second, cfg.ScanInterval)
			assert.Equal(t, 5*time.Second, cfg.CameraTimeout)
		})
	}
}
