package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfig_Defaults(t *testing.T) {
	cfg, err := NewConfig()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, 24*time.Hour, cfg.TokenTTL)
	assert.Len(t, cfg.EncryptionKey, 32)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.AllowedOrigins)
	assert.Equal(t, "0 1 * * *", cfg.OverdueCron)
	assert.Equal(t, "America/Sao_Paulo", cfg.Location.String())
}

func TestNewConfig_Overrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("TOKEN_TTL", "2h")
	t.Setenv("ALLOWED_ORIGINS", "https://a.example, https://b.example,")
	t.Setenv("TIMEZONE", "UTC")
	t.Setenv("ADMIN_EMAIL", "admin@example.com")
	t.Setenv("ADMIN_PASSWORD", "s3cret")

	cfg, err := NewConfig()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, 2*time.Hour, cfg.TokenTTL)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.AllowedOrigins)
	assert.Equal(t, time.UTC, cfg.Location)
	assert.Equal(t, "admin@example.com", cfg.AdminEmail)
}

func TestNewConfig_Errors(t *testing.T) {
	tests := map[string][2]string{
		"bad ttl":        {"TOKEN_TTL", "forever"},
		"non-hex key":    {"ENCRYPTION_KEY", "zz"},
		"short key":      {"ENCRYPTION_KEY", "a1b2"},
		"empty secret":   {"JWT_SECRET", ""},
		"empty db":       {"DB_CONN", ""},
		"bad tz":         {"TIMEZONE", "Mars/Olympus"},
		"half admin":     {"ADMIN_EMAIL", "admin@example.com"},
		"empty hmac key": {"HMAC_SECRET", ""},
	}
	for name, kv := range tests {
		t.Run(name, func(t *testing.T) {
			t.Setenv(kv[0], kv[1])
			_, err := NewConfig()
			assert.Error(t, err)
		})
	}
}
