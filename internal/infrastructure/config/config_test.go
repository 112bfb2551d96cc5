package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, 3001, cfg.Server.Port)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, "tesseract", cfg.OCR.Provider)
	assert.Equal(t, "spa", cfg.OCR.Language)
	assert.Equal(t, 60*time.Second, cfg.OCR.Timeout)
	assert.Equal(t, "memory", cfg.Cache.Backend)
	assert.Equal(t, 22, cfg.Meal.DinnerEndHour)
	assert.Equal(t, 3, cfg.Suggestion.MaxResults)
	assert.True(t, cfg.Receipt.AutoImport)
	assert.Equal(t, time.Second, cfg.DedupWindow)
}

func TestLoadConfigFromEnv(t *testing.T) {
	t.Setenv("APP_SERVER_PORT", "8080")
	t.Setenv("DATABASE_URL", "custom.db")
	t.Setenv("RATE_LIMIT_REQUESTS", "5")
	t.Setenv("APP_MEAL_DINNER_END_HOUR", "23")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "custom.db", cfg.Database.DSN)
	assert.Equal(t, 5, cfg.RateLimit.Requests)
	assert.Equal(t, 23, cfg.Meal.DinnerEndHour)
}

func TestLoadConfigValidation(t *testing.T) {
	tests := map[string]map[string]string{
		"unknown driver":         {"DB_DRIVER": "mysql"},
		"openrouter without key": {"OCR_PROVIDER": "openrouter", "OPENROUTER_API_KEY": ""},
		"unknown ocr provider":   {"OCR_PROVIDER": "magic"},
		"dinner end before 17":   {"APP_MEAL_DINNER_END_HOUR": "16"},
		"invalid rate limit":     {"RATE_LIMIT_REQUESTS": "0"},
		"unknown cache backend":  {"APP_CACHE_BACKEND": "memcached"},
		"non-positive workers":   {"APP_RECEIPT_WORKERS": "0"},
		"zero server port":       {"APP_SERVER_PORT": "0"},
	}
	for name, env := range tests {
		t.Run(name, func(t *testing.T) {
			for k, v := range env {
				t.Setenv(k, v)
			}
			_, err := LoadConfig()
			assert.Error(t, err)
		})
	}
}

func TestMaskAPIKey(t *testing.T) {
	assert.Equal(t, "****", MaskAPIKey("short"))
	assert.Equal(t, "sk-o...wxyz", MaskAPIKey("sk-or-abcdefwxyz"))
}

func TestLocation(t *testing.T) {
	cfg := &Config{}
	loc, err := cfg.Location()
	require.NoError(t, err)
	assert.Equal(t, time.Local, loc)

	cfg.Meal.Timezone = "UTC"
	loc, err = cfg.Location()
	require.NoError(t, err)
	assert.Equal(t, "UTC", loc.String())

	cfg.Meal.Timezone = "Not/AZone"
	_, err = cfg.Location()
	assert.Error(t, err)
}
