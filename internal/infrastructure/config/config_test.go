package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_PrefixOverridesPlainKey(t *testing.T) {
	t.Setenv("ENV_TYPE", "server")
	t.Setenv("DB_HOST", "plain-host")
	t.Setenv("SERVER_DB_HOST", "server-host")
	t.Setenv("DB_PORT", "3307")
	t.Setenv("THINGSBOARD_URL", "http://tb.local:8080/")
	t.Setenv("THINGSBOARD_TIMEOUT", "2s")

	cfg := LoadConfig()

	assert.Equal(t, "SERVER", cfg.EnvType)
	assert.Equal(t, "server-host", cfg.DBHost)
	assert.Equal(t, "3307", cfg.DBPort)
	assert.Equal(t, "http://tb.local:8080", cfg.ThingsboardURL)
	assert.Equal(t, 2*time.Second, cfg.ThingsboardTimeout)
}

func TestLoadConfig_UnknownEnvTypeFallsBackToLocal(t *testing.T) {
	t.Setenv("ENV_TYPE", "staging")

	cfg := LoadConfig()

	assert.Equal(t, "LOCAL", cfg.EnvType)
	assert.Equal(t, "mysql", cfg.DBDriver)
	assert.Equal(t, 30*time.Second, cfg.LockCacheTTL)
}

func TestValidate(t *testing.T) {
	cfg := &Config{DBDriver: "mysql"}
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DB_USER")
	assert.Contains(t, err.Error(), "DEFAULT_ADMIN_PASSWORD")

	cfg = &Config{DBDriver: "sqlite", DBName: "file::memory:", DefaultAdminPassword: "x"}
	assert.NoError(t, cfg.Validate())

	cfg = &Config{DBDriver: "oracle", DBUser: "u", DBName: "d", DefaultAdminPassword: "x"}
	assert.ErrorContains(t, cfg.Validate(), "unsupported DB_DRIVER")

	cfg = &Config{DBDriver: "sqlite", DBName: "d", DefaultAdminPassword: "x", MQTTQoS: 3}
	assert.ErrorContains(t, cfg.Validate(), "MQTT_QOS")
}

func TestGetDSN(t *testing.T) {
	cfg := &Config{DBDriver: "mysql", DBUser: "u", DBPassword: "p", DBHost: "h", DBPort: "3306", DBName: "db"}
	assert.Equal(t, "u:p@tcp(h:3306)/db?charset=utf8mb4&parseTime=True&loc=Local&allowNativePasswords=true", cfg.GetDSN())

	cfg.DBDriver = "postgres"
	assert.Contains(t, cfg.GetDSN(), "host=h user=u password=p dbname=db port=3306")

	cfg.DBDriver = "sqlite"
	assert.Equal(t, "db", cfg.GetDSN())
}
