package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("DB_DRIVER", "mysql")
	t.Setenv("DB_PASSWORD", "secret")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "8000", cfg.Port)
	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, 15, cfg.JWTExpirationMinutes)
	assert.Equal(t, 8, cfg.Schedule.OpenHour)
	assert.Equal(t, 18, cfg.Schedule.CloseHour)
	assert.Equal(t, "root:secret@tcp(localhost:3306)/clinical_records?charset=utf8mb4&parseTime=True&loc=UTC", cfg.Database.DSN)
}

func TestLoadConfig_PostgresDSN(t *testing.T) {
	t.Setenv("DB_DRIVER", "postgres")
	t.Setenv("DB_USERNAME", "clinic")
	t.Setenv("DB_PASSWORD", "pw")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "host=localhost port=5432 user=clinic password=pw dbname=clinical_records sslmode=disable TimeZone=UTC", cfg.Database.DSN)
}

func TestLoadConfig_SQLiteDSN(t *testing.T) {
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("DB_PATH", "/tmp/records.db")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "/tmp/records.db?_foreign_keys=on&_txlock=immediate", cfg.Database.DSN)
}

func TestLoadConfig_Errors(t *testing.T) {
	cases := map[string]map[string]string{
		"unknown driver":   {"DB_DRIVER": "oracle"},
		"bad expiration":   {"JWT_EXPIRATION_MINUTES": "soon"},
		"inverted hours":   {"BUSINESS_OPEN_HOUR": "18", "BUSINESS_CLOSE_HOUR": "8"},
		"unknown timezone": {"BUSINESS_TIMEZONE": "Mars/Olympus_Mons"},
		"prod secrets":     {"APP_ENV": "production"},
	}
	for name, env := range cases {
		t.Run(name, func(t *testing.T) {
			t.Setenv("DB_DRIVER", "sqlite")
			for k, v := range env {
				t.Setenv(k, v)
			}
			_, err := LoadConfig()
			assert.Error(t, err)
		})
	}
}

func TestScheduleConfig_Location(t *testing.T) {
	loc, err := ScheduleConfig{Timezone: "UTC"}.Location()
	require.NoError(t, err)
	assert.Equal(t, "UTC", loc.String())
}
