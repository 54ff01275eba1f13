package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("DISCORD_TOKEN", "discord-token")
	t.Setenv("COC_API_TOKEN", "coc-token")
}

func TestLoad_Defaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "discord-token", cfg.DiscordToken)
	assert.Equal(t, "coc-token", cfg.CocAPIToken)
	assert.Equal(t, "localhost:6379", cfg.RedisAddr)
	assert.Equal(t, "https://api.clashofclans.com/v1", cfg.CocAPIURL)
	assert.Equal(t, 2*time.Minute, cfg.TrackInterval)
	assert.Equal(t, 10*time.Second, cfg.FetchTimeout)
	assert.Equal(t, time.Second, cfg.EditSpacing)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
}

func TestLoad_Overrides(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("TRACK_INTERVAL", "30s")
	t.Setenv("EDIT_SPACING", "0s")
	t.Setenv("REDIS_DB", "3")
	t.Setenv("LOG_FORMAT", "json")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 30*time.Second, cfg.TrackInterval)
	assert.Equal(t, time.Duration(0), cfg.EditSpacing)
	assert.Equal(t, 3, cfg.RedisDB)
	assert.Equal(t, "json", cfg.LogFormat)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		key     string
		value   string
		wantErr string
	}{
		{"missing DISCORD_TOKEN", "DISCORD_TOKEN", "", "DISCORD_TOKEN is required"},
		{"missing COC_API_TOKEN", "COC_API_TOKEN", "", "COC_API_TOKEN is required"},
		{"zero TRACK_INTERVAL", "TRACK_INTERVAL", "0s", "TRACK_INTERVAL must be positive, got 0s"},
		{"negative EDIT_SPACING", "EDIT_SPACING", "-1s", "EDIT_SPACING cannot be negative, got -1s"},
		{"unknown LOG_FORMAT", "LOG_FORMAT", "xml", `LOG_FORMAT must be text or json, got "xml"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setRequiredEnv(t)
			t.Setenv(tt.key, tt.value)

			_, err := Load()
			require.Error(t, err)
			assert.Equal(t, tt.wantErr, err.Error())
		})
	}
}
