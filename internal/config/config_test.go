package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromViperDefaults(t *testing.T) {
	cfg, err := FromViper(viper.New())
	require.NoError(t, err)

	assert.Equal(t, "5001", cfg.Port)
	assert.Equal(t, "file", cfg.OrderStore)
	assert.Equal(t, "file", cfg.ContactStore)
	assert.Equal(t, "log", cfg.NotifyChannel)
	assert.Equal(t, 5*time.Second, cfg.NotifyTimeout)
	assert.Equal(t, []string{"http://localhost:3000", "http://localhost:3001"}, cfg.Origins())
	assert.False(t, cfg.IsDevelopment())
}

func TestFromViperEnvironment(t *testing.T) {
	t.Setenv("PORT", "8081")
	t.Setenv("APP_ENV", "development")
	t.Setenv("NOTIFY_TIMEOUT", "2s")
	t.Setenv("RATE_LIMIT_ENABLED", "true")
	t.Setenv("REDIS_HOST", "localhost:6379")

	cfg, err := FromViper(viper.New())
	require.NoError(t, err)

	assert.Equal(t, "8081", cfg.Port)
	assert.True(t, cfg.IsDevelopment())
	assert.Equal(t, 2*time.Second, cfg.NotifyTimeout)
	assert.True(t, cfg.RateLimitEnabled)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"unknown order store", map[string]string{"ORDER_STORE": "sqlite"}},
		{"scylla without hosts", map[string]string{"ORDER_STORE": "scylla"}},
		{"mongo without uri", map[string]string{"CONTACT_STORE": "mongo"}},
		{"email without smtp", map[string]string{"NOTIFY_CHANNEL": "email"}},
		{"sms without twilio", map[string]string{"NOTIFY_CHANNEL": "sms"}},
		{"kafka without brokers", map[string]string{"NOTIFY_CHANNEL": "kafka"}},
		{"rate limit without redis", map[string]string{"RATE_LIMIT_ENABLED": "true"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := FromViper(viper.New())
			assert.Error(t, err)
		})
	}
}

func TestSplitCSV(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, splitCSV(" a, ,b ,"))
	assert.Empty(t, splitCSV(""))
}
